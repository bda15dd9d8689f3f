package debugview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/roomsurface/internal/monitoring"
	"github.com/banshee-data/roomsurface/internal/surface"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// viridis ramp shared by all clearance charts.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// scatterFor builds one chart of g's cells in surface-local coordinates:
// free cells coloured by clearance, scene and placed blocks as their own
// series.
func scatterFor(g *surface.Grid) *charts.Scatter {
	var free, scene, placed []opts.ScatterData
	for i := range g.Cells {
		c := &g.Cells[i]
		pt := opts.ScatterData{Value: []interface{}{c.Position.X, c.Position.Y, c.Clearance}}
		switch {
		case c.BlockedByPlacedObject:
			placed = append(placed, pt)
		case c.Blocked:
			scene = append(scene, pt)
		default:
			free = append(free, pt)
		}
	}

	stats := g.Stats()
	pad := maxf(g.Size.X, g.Size.Y)/2 + 0.1

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s %s", g.Kind(), g.ID), Subtitle: fmt.Sprintf("cells=%d free=%d blocked=%d placed=%d max clearance=%.3f", stats.Cells, stats.Free, stats.Blocked, stats.Placed, stats.MaxClearance)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxf(stats.MaxClearance, minRange)),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)

	scatter.AddSeries("free", free, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	scatter.AddSeries("scene", scene,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#c82828"}))
	scatter.AddSeries("placed", placed,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#285adc"}))
	return scatter
}

// WritePage renders one HTML page with a chart per non-empty grid.
func WritePage(w io.Writer, grids []*surface.Grid) error {
	page := components.NewPage()
	for _, g := range grids {
		if g.Len() == 0 {
			continue
		}
		page.AddCharts(scatterFor(g))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

// WriteAll writes a heatmap PNG per non-empty grid plus index.html into dir
// and returns the paths written.
func WriteAll(dir string, grids []*surface.Grid) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var written []string
	for _, g := range grids {
		if g.Len() == 0 {
			monitoring.Logf("[DebugView] skipping %s %s: no cells", g.Kind(), g.ID)
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", g.Kind(), fileSafe(g.ID)))
		if err := WriteHeatmap(path, g); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	index := filepath.Join(dir, "index.html")
	f, err := os.Create(index)
	if err != nil {
		return written, fmt.Errorf("failed to create %s: %w", index, err)
	}
	defer f.Close()
	if err := WritePage(f, grids); err != nil {
		return written, err
	}
	written = append(written, index)
	return written, nil
}

func fileSafe(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
