package surface

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind is the role a grid plays in the room.
type Kind int

const (
	KindWall Kind = iota
	KindFloor
	KindDesk
)

func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindFloor:
		return "floor"
	case KindDesk:
		return "desk"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// BlockReason records why a cell became blocked. Placed-object blocks are
// never ignored by wall queries; scene blocks can be.
type BlockReason int

const (
	ReasonScene BlockReason = iota
	ReasonPlacedObject
)

func (r BlockReason) String() string {
	if r == ReasonPlacedObject {
		return "placed"
	}
	return "scene"
}

// Cell is one lattice sample of a surface. Cells are stored by value in the
// owning Grid's arena and mutated in place through their index.
//
// Invariant: Clearance >= 0, and Clearance == 0 whenever Blocked.
type Cell struct {
	Position r2.Vec // surface-local centre

	Blocked               bool
	BlockedByScene        bool
	BlockedByPlacedObject bool
	OutsideBoundary       bool // floor cells whose centre lies outside the room polygon

	Clearance float64

	// Colour is the debug visualisation colour, refreshed only while the
	// grid's debug view is enabled.
	Colour color.NRGBA
}

// block marks the cell blocked for reason and reports whether it was
// previously unblocked.
func (c *Cell) block(reason BlockReason) bool {
	fresh := !c.Blocked
	c.Blocked = true
	c.Clearance = 0
	switch reason {
	case ReasonPlacedObject:
		c.BlockedByPlacedObject = true
	default:
		c.BlockedByScene = true
	}
	return fresh
}

// selectable applies the wall policy: placed-object blocks always reject,
// scene blocks reject unless the caller opted to ignore them.
func (c *Cell) selectable(ignoreSceneBlocked bool) bool {
	if c.BlockedByPlacedObject || c.OutsideBoundary {
		return false
	}
	if c.BlockedByScene && !ignoreSceneBlocked {
		return false
	}
	return true
}
