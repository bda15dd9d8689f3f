package surface

import (
	"github.com/banshee-data/roomsurface/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r3"
)

// Desk answers max-clearance queries on a small rectangular surface.
type Desk struct {
	*Grid
}

// NewDesk builds a desk grid.
func NewDesk(p Params) *Desk {
	return &Desk{Grid: NewGrid(p, DeskStrategy{})}
}

// RequestCenterLocation returns the world position of the cell with the
// greatest clearance among those with clearance >= radius. Ties go to the
// first cell in scan order. Desks are small, so the safest spot wins over a
// random one.
func (d *Desk) RequestCenterLocation(radius float64) (bool, r3.Vec) {
	i := d.bestCell(radius)
	if i < 0 {
		monitoring.Debugf("[Desk] %s: no cell with clearance >= %.3f", d.ID, radius)
		return false, r3.Vec{}
	}
	return true, d.CellWorldPosition(i)
}

func (d *Desk) bestCell(radius float64) int {
	best := -1
	bestClearance := -1.0
	for i := range d.Cells {
		c := &d.Cells[i]
		if c.Blocked || c.Clearance < radius {
			continue
		}
		if c.Clearance > bestClearance {
			best, bestClearance = i, c.Clearance
		}
	}
	return best
}
