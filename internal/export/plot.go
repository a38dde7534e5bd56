package export

import (
	"fmt"
	"sort"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// AsciiTrace renders one probe trace as a console graph.
func AsciiTrace(name string, values []float64, height int) string {
	if len(values) < 2 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Caption(name),
	)
}

// PlotPNG writes every probe trace into a single PNG, time on the
// horizontal axis.
func PlotPNG(path string, times []float64, traces map[string][]float64) error {
	p := plot.New()
	p.Title.Text = "probe traces"
	p.X.Label.Text = "t"

	names := make([]string, 0, len(traces))
	for name := range traces {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]any, 0, 2*len(names))
	for _, name := range names {
		trace := traces[name]
		if len(trace) != len(times) {
			return fmt.Errorf("trace %s has %d samples for %d times", name, len(trace), len(times))
		}
		pts := make(plotter.XYs, len(trace))
		for i, v := range trace {
			pts[i].X = times[i]
			pts[i].Y = v
		}
		args = append(args, name, pts)
	}

	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
