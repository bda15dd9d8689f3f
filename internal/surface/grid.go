package surface

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/banshee-data/roomsurface/internal/geom"
	"github.com/banshee-data/roomsurface/internal/monitoring"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// tilingEpsilon absorbs floating error in extent/spacing so that 3.0/0.1
// yields 30 cells rather than 29.
const tilingEpsilon = 1e-9

// Params describes one surface to discretise.
type Params struct {
	ID   string
	Pose geom.Pose
	Size r2.Vec // full planar extent in metres

	// CellSize is the target spacing. Actual spacing is Size/floor(Size/CellSize)
	// per axis, so cells tile the surface exactly and are never smaller than
	// the target.
	CellSize float64

	ColumnLift        float64 // clearance above/before the plane ignored by the column test
	WallBlockDepth    float64 // wall column depth into the room
	ColliderThickness float64 // depth of per-cell collider boxes
}

// Stats summarises a grid for logging and debug output.
type Stats struct {
	Cells        int
	Blocked      int
	Placed       int
	Outside      int
	Free         int
	MaxClearance float64
}

// Grid is a discretised surface. Cells are laid out row-major:
// idx = y*CountX + x, with x along the local X axis.
type Grid struct {
	Params

	CountX, CountY int
	CellW, CellH   float64

	Cells []Cell

	strategy Strategy
	baseline []Cell
	debug    bool
}

// NewGrid generates the cell lattice for p, assigns baseline clearances from
// the strategy and remembers that state as the reset baseline. Degenerate
// extents or spacing yield an empty grid rather than an error.
func NewGrid(p Params, s Strategy) *Grid {
	g := &Grid{Params: p, strategy: s}
	if p.ColliderThickness <= 0 {
		g.ColliderThickness = geom.MinThickness
	}

	g.CountX = tileCount(p.Size.X, p.CellSize)
	g.CountY = tileCount(p.Size.Y, p.CellSize)
	if g.CountX == 0 || g.CountY == 0 {
		monitoring.Logf("[Grid] %s %s: degenerate extent %.3fx%.3f at spacing %.3f, no cells generated",
			s.Kind(), p.ID, p.Size.X, p.Size.Y, p.CellSize)
		g.CountX, g.CountY = 0, 0
		return g
	}

	g.CellW = p.Size.X / float64(g.CountX)
	g.CellH = p.Size.Y / float64(g.CountY)
	g.Cells = make([]Cell, g.CountX*g.CountY)

	for y := 0; y < g.CountY; y++ {
		for x := 0; x < g.CountX; x++ {
			c := &g.Cells[g.Idx(x, y)]
			c.Position = r2.Vec{
				X: -p.Size.X/2 + (float64(x)+0.5)*g.CellW,
				Y: -p.Size.Y/2 + (float64(y)+0.5)*g.CellH,
			}
			clearance, inside := s.EdgeClearance(c.Position, p.Size)
			if !inside {
				c.OutsideBoundary = true
				c.block(ReasonScene)
				continue
			}
			c.Clearance = clearance
		}
	}

	g.RememberDistanceField()
	monitoring.Debugf("[Grid] %s %s: %dx%d cells of %.3fx%.3f", s.Kind(), p.ID, g.CountX, g.CountY, g.CellW, g.CellH)
	return g
}

func tileCount(extent, spacing float64) int {
	if extent <= 0 || spacing <= 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		return 0
	}
	return int(math.Floor(extent/spacing + tilingEpsilon))
}

// Kind returns the grid's role.
func (g *Grid) Kind() Kind { return g.strategy.Kind() }

// Idx converts lattice coordinates into a cell index.
func (g *Grid) Idx(x, y int) int { return y*g.CountX + x }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.Cells) }

// Normal returns the surface normal in world space.
func (g *Grid) Normal() r3.Vec { return g.Pose.AxisZ() }

// LocalToWorld maps a surface-local 2D point onto the plane in world space.
func (g *Grid) LocalToWorld(p r2.Vec) r3.Vec {
	return g.Pose.ToWorld(r3.Vec{X: p.X, Y: p.Y})
}

// WorldToLocal projects a world point onto the surface plane.
func (g *Grid) WorldToLocal(p r3.Vec) r2.Vec {
	l := g.Pose.ToLocal(p)
	return r2.Vec{X: l.X, Y: l.Y}
}

// CellWorldPosition returns cell i's centre in world space.
func (g *Grid) CellWorldPosition(i int) r3.Vec {
	return g.LocalToWorld(g.Cells[i].Position)
}

// CellBox returns the collider box of cell i: the cell's footprint with
// ColliderThickness depth, centred on the plane.
func (g *Grid) CellBox(i int) geom.Box {
	return geom.NewBox(g.CellWorldPosition(i), r3.Vec{X: g.CellW, Y: g.CellH, Z: g.ColliderThickness}, g.Pose.Rotation)
}

// FacingRotation returns the world orientation whose local forward (+Y)
// axis points from the surface-local point from toward target, snapped to a
// quarter turn about the normal.
func (g *Grid) FacingRotation(from, target r2.Vec) quat.Number {
	d := r2.Sub(target, from)
	yaw := 0.0
	if r2.Norm(d) > 0 {
		yaw = geom.RoundToQuarterTurn(math.Atan2(d.Y, d.X) - math.Pi/2)
	}
	return geom.Normalize(quat.Mul(g.Pose.Rotation, geom.AxisAngle(r3.Vec{Z: 1}, yaw)))
}

// Bounds returns the collider slab spanning the whole surface.
func (g *Grid) Bounds() geom.Box {
	return geom.NewBox(g.Pose.Position, r3.Vec{X: g.Size.X, Y: g.Size.Y, Z: g.ColliderThickness}, g.Pose.Rotation)
}

// CellAt returns the index of the cell containing the surface-local point p.
func (g *Grid) CellAt(p r2.Vec) (int, bool) {
	if len(g.Cells) == 0 {
		return -1, false
	}
	x := int(math.Floor((p.X + g.Size.X/2) / g.CellW))
	y := int(math.Floor((p.Y + g.Size.Y/2) / g.CellH))
	if x < 0 || x >= g.CountX || y < 0 || y >= g.CountY {
		return -1, false
	}
	return g.Idx(x, y), true
}

// BlockArea blocks every cell whose column along the surface normal passes
// through the obstacle box at pose with full size. Returns the number of
// newly blocked cells. An obstacle entirely off the surface is a no-op.
func (g *Grid) BlockArea(pose geom.Pose, size r3.Vec, reason BlockReason) int {
	return g.BlockBox(geom.NewBox(pose.Position, size, pose.Rotation), reason)
}

// BlockBox is BlockArea for an already constructed box.
func (g *Grid) BlockBox(b geom.Box, reason BlockReason) int {
	lo, hi := g.strategy.Column(g.Params)
	n := g.Normal()

	var fresh []r2.Vec
	for i := range g.Cells {
		if !b.SegmentHits(g.CellWorldPosition(i), n, lo, hi) {
			continue
		}
		c := &g.Cells[i]
		if c.block(reason) {
			fresh = append(fresh, c.Position)
		}
	}
	g.afterBlock(fresh)
	return len(fresh)
}

// BlockCells blocks the cells at the given indices. Out of range indices
// are ignored. Returns the number of newly blocked cells.
func (g *Grid) BlockCells(indices []int, reason BlockReason) int {
	var fresh []r2.Vec
	for _, i := range indices {
		if i < 0 || i >= len(g.Cells) {
			continue
		}
		c := &g.Cells[i]
		if c.block(reason) {
			fresh = append(fresh, c.Position)
		}
	}
	g.afterBlock(fresh)
	return len(fresh)
}

func (g *Grid) afterBlock(fresh []r2.Vec) {
	if len(fresh) > 0 && g.strategy.TracksClearance() {
		Propagate(g.Cells, fresh)
	}
	if len(fresh) > 0 {
		monitoring.Debugf("[Grid] %s %s: %d cells newly blocked", g.Kind(), g.ID, len(fresh))
	}
	if g.debug {
		g.recolour()
	}
}

// OverlappingCells returns the indices of cells whose collider box overlaps
// b. Cells are prefiltered by the box's footprint on the plane.
func (g *Grid) OverlappingCells(b geom.Box) []int {
	if len(g.Cells) == 0 {
		return nil
	}
	min := r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	max := r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, corner := range b.Corners() {
		l := g.WorldToLocal(corner)
		min.X = math.Min(min.X, l.X)
		min.Y = math.Min(min.Y, l.Y)
		max.X = math.Max(max.X, l.X)
		max.Y = math.Max(max.Y, l.Y)
	}
	x0, x1 := latticeRange(min.X, max.X, g.Size.X, g.CellW, g.CountX)
	y0, y1 := latticeRange(min.Y, max.Y, g.Size.Y, g.CellH, g.CountY)

	var out []int
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			i := g.Idx(x, y)
			if g.CellBox(i).Overlaps(b) {
				out = append(out, i)
			}
		}
	}
	return out
}

// lattice clamps a local interval to the range of lattice indices it spans.
func latticeRange(lo, hi, extent, cell float64, count int) (int, int) {
	a := int(math.Floor((lo + extent/2) / cell))
	b := int(math.Floor((hi + extent/2) / cell))
	if a < 0 {
		a = 0
	}
	if b > count-1 {
		b = count - 1
	}
	return a, b
}

// RememberDistanceField snapshots the current cell state as the baseline.
func (g *Grid) RememberDistanceField() {
	g.baseline = append(g.baseline[:0], g.Cells...)
}

// ResetDistanceField restores the most recently remembered baseline.
func (g *Grid) ResetDistanceField() {
	if len(g.baseline) != len(g.Cells) {
		monitoring.Logf("[Grid] %s %s: no baseline to reset to", g.Kind(), g.ID)
		return
	}
	copy(g.Cells, g.baseline)
	if g.debug {
		g.recolour()
	}
}

// Stats counts cell states.
func (g *Grid) Stats() Stats {
	s := Stats{Cells: len(g.Cells)}
	for i := range g.Cells {
		c := &g.Cells[i]
		switch {
		case c.OutsideBoundary:
			s.Outside++
		case c.Blocked:
			s.Blocked++
		default:
			s.Free++
		}
		if c.BlockedByPlacedObject {
			s.Placed++
		}
		if c.Clearance > s.MaxClearance {
			s.MaxClearance = c.Clearance
		}
	}
	return s
}

// RandomPoint returns a uniformly chosen point on an in-boundary cell,
// ignoring blocking. It backs the unconstrained fallback queries.
func (g *Grid) RandomPoint(rng *rand.Rand) (r3.Vec, bool) {
	inside := make([]int, 0, len(g.Cells))
	for i := range g.Cells {
		if !g.Cells[i].OutsideBoundary {
			inside = append(inside, i)
		}
	}
	if len(inside) == 0 {
		return r3.Vec{}, false
	}
	c := g.Cells[inside[rng.IntN(len(inside))]]
	p := r2.Vec{
		X: c.Position.X + (rng.Float64()-0.5)*g.CellW,
		Y: c.Position.Y + (rng.Float64()-0.5)*g.CellH,
	}
	return g.LocalToWorld(p), true
}

// SetDebug enables or disables per-cell colour updates.
func (g *Grid) SetDebug(enabled bool) {
	g.debug = enabled
	if enabled {
		g.recolour()
	}
}

// Debug reports whether the debug view is enabled.
func (g *Grid) Debug() bool { return g.debug }

// Debug colours.
var (
	colourOutside = color.NRGBA{R: 64, G: 64, B: 64, A: 255}
	colourScene   = color.NRGBA{R: 200, G: 40, B: 40, A: 255}
	colourPlaced  = color.NRGBA{R: 40, G: 90, B: 220, A: 255}
)

func (g *Grid) recolour() {
	maxClearance := g.Stats().MaxClearance
	for i := range g.Cells {
		g.Cells[i].Colour = cellColour(&g.Cells[i], maxClearance)
	}
}

// cellColour shades free cells from yellow (tight) to green (roomy).
func cellColour(c *Cell, maxClearance float64) color.NRGBA {
	switch {
	case c.OutsideBoundary:
		return colourOutside
	case c.BlockedByPlacedObject:
		return colourPlaced
	case c.Blocked:
		return colourScene
	}
	f := 1.0
	if maxClearance > 0 {
		f = c.Clearance / maxClearance
	}
	return color.NRGBA{R: uint8(230 * (1 - f)), G: uint8(120 + 100*f), B: 40, A: 255}
}
