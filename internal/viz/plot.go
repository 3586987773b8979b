package viz

import (
	"github.com/guptarohit/asciigraph"
)

// PlotSeries draws a line chart. Series longer than width are decimated by
// asciigraph's interpolation.
func PlotSeries(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	opts := []asciigraph.Option{asciigraph.Height(height), asciigraph.Caption(caption)}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.Plot(data, opts...)
}

// PlotMany overlays several series of equal length.
func PlotMany(series [][]float64, caption string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Yellow, asciigraph.Cyan, asciigraph.Red, asciigraph.Green, asciigraph.Magenta, asciigraph.Blue}
	cs := make([]asciigraph.AnsiColor, len(series))
	for i := range cs {
		cs[i] = colors[i%len(colors)]
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(cs...),
	)
}
