package debugview

import (
	"fmt"
	"image/color"
	"math"

	"github.com/banshee-data/roomsurface/internal/surface"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// minRange keeps the heatmap's colour scale non-degenerate on grids whose
// free cells all share one clearance.
const minRange = 1e-6

var blockedColour = color.NRGBA{R: 200, G: 40, B: 40, A: 255}

// clearanceGrid adapts a surface grid to plotter.GridXYZ. Blocked cells are
// NaN so the heatmap paints them with its NaN colour.
type clearanceGrid struct {
	g   *surface.Grid
	max float64
}

func (c clearanceGrid) Dims() (int, int) { return c.g.CountX, c.g.CountY }

func (c clearanceGrid) Z(col, row int) float64 {
	cell := &c.g.Cells[c.g.Idx(col, row)]
	if cell.Blocked {
		return math.NaN()
	}
	return cell.Clearance
}

func (c clearanceGrid) X(col int) float64 { return c.g.Cells[c.g.Idx(col, 0)].Position.X }
func (c clearanceGrid) Y(row int) float64 { return c.g.Cells[c.g.Idx(0, row)].Position.Y }

func (c clearanceGrid) Min() float64 { return 0 }
func (c clearanceGrid) Max() float64 { return c.max }

// WriteHeatmap saves a clearance heatmap of g to path. The format follows
// the file extension (png, svg, pdf).
func WriteHeatmap(path string, g *surface.Grid) error {
	if g.Len() == 0 {
		return fmt.Errorf("surface %s has no cells", g.ID)
	}
	stats := g.Stats()
	grid := clearanceGrid{g: g, max: math.Max(stats.MaxClearance, minRange)}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s %s - clearance (free %d / blocked %d / placed %d)", g.Kind(), g.ID, stats.Free, stats.Blocked, stats.Placed)
	p.X.Label.Text = "Local X (m)"
	p.Y.Label.Text = "Local Y (m)"

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.NaN = blockedColour
	p.Add(hm)

	// Keep one plot unit the same length on both axes.
	w := 8 * vg.Inch
	h := vg.Length(float64(w) * g.Size.Y / g.Size.X)
	if h < 2*vg.Inch {
		h = 2 * vg.Inch
	}
	if h > 12*vg.Inch {
		h = 12 * vg.Inch
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("failed to save heatmap %s: %w", path, err)
	}
	return nil
}
