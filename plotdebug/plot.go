// Package plotdebug renders per-sample, per-contig coverage-vs-position
// line plots when a plot directory is configured. Purely diagnostic: no
// other package reads its output. Grounded on the gonum/plot usage of
// cmd/exp/callRepeatVariants/plot.go, adapted from that file's heatmap to
// a line plot over a coverage vector.
package plotdebug

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/svison/gtsv/coverage"
)

// stride bounds the number of points drawn for large contigs; coverage is
// averaged over each stride-wide bucket rather than plotted per-base.
const stride = 1000

// Coverage writes a coverage-vs-position line plot for one sample/contig
// pair to dir/<sample>_<contig>.png.
func Coverage(dir, sample, contig string, v coverage.Vector) error {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s %s coverage", sample, contig)
	pl.X.Label.Text = "position"
	pl.Y.Label.Text = "depth"

	pts := make(plotter.XYs, 0, len(v)/stride+1)
	for start := 0; start < len(v); start += stride {
		end := start + stride
		if end > len(v) {
			end = len(v)
		}
		bucket := make([]float64, end-start)
		for i := start; i < end; i++ {
			bucket[i-start] = float64(v[i])
		}
		pts = append(pts, plotter.XY{X: float64(start), Y: floats.Sum(bucket) / float64(len(bucket))})
	}
	if len(pts) == 0 {
		return nil
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	pl.Add(line)

	outPath := filepath.Join(dir, fmt.Sprintf("%s_%s.png", sample, contig))
	return pl.Save(20*vg.Centimeter, 10*vg.Centimeter, outPath)
}
