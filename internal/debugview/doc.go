// Package debugview renders placement grids for inspection: a clearance
// heatmap PNG per surface (gonum/plot) and a single HTML page of per-cell
// scatter charts (go-echarts).
package debugview
