// Package stats renders the run's closing report: per-sample coverage and
// read-length percentiles and aligned-base error rates, in the exact
// tagged text format downstream tooling greps on, plus optional debug
// visualizations that never alter that contract.
package stats

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/stat"

	"github.com/svison/gtsv/coverage"
	"github.com/svison/gtsv/scan"
)

// percentileLabels pairs the report's textual label with the fraction p
// fed to Histogram.Percentile: label "95%" reports the value at or above
// which 95% of observations fall, which is the p=0.05 tail of the
// cumulative distribution.
var percentileLabels = []struct {
	label string
	p     float64
}{
	{"95", 0.05},
	{"75", 0.25},
	{"50", 0.5},
	{"25", 0.75},
	{"5", 0.95},
}

// Report writes one sample's COV/RL/ERR lines to w.
func Report(w io.Writer, sample string, covHist, rlHist *coverage.Histogram, t *scan.Tallies) {
	for _, pl := range percentileLabels {
		v := covHist.Percentile(pl.p)
		fmt.Fprintf(w, "COV\t%s\t%s%% of bases are >= %dx\n", sample, pl.label, v)
	}
	for _, pl := range percentileLabels {
		v := rlHist.Percentile(pl.p) * 100
		fmt.Fprintf(w, "RL\t%s\t%s%% of reads are >= %dbp\n", sample, pl.label, v)
	}

	total := t.MatchCount + t.MismatchCount + t.DelCount + t.InsCount
	if t.MismatchCount != 0 {
		fmt.Fprintf(w, "ERR\t%s\tMatchRate\t%f\n", sample, float64(t.MatchCount)/float64(total))
		fmt.Fprintf(w, "ERR\t%s\tMismatchRate\t%f\n", sample, float64(t.MismatchCount)/float64(total))
	}
	if total > 0 {
		fmt.Fprintf(w, "ERR\t%s\tDeletionRate\t%f\n", sample, float64(t.DelCount)/float64(total))
		fmt.Fprintf(w, "ERR\t%s\tInsertionRate\t%f\n", sample, float64(t.InsCount)/float64(total))
	}
}

// ReportDebug prints ASCII histograms of the coverage and read-length
// distributions, additional to Report's required text lines. Grounded in
// the debug distribution plots of cmd/genotypeTargetRepeats/genotypeTargetRepeats.go,
// which uses the same library the same way.
func ReportDebug(w io.Writer, sample string, covHist, rlHist *coverage.Histogram) {
	covValues, covWeights := bucketSeries(covHist)
	rlValues, rlWeights := bucketSeries(rlHist)

	fmt.Fprintf(w, "[gtsv] %s coverage distribution (mean=%.1f stddev=%.1f)\n",
		sample, stat.Mean(covValues, covWeights), stat.StdDev(covValues, covWeights))
	fmt.Fprintln(w, asciigraph.Plot(floatBuckets(covHist), asciigraph.Height(8), asciigraph.Precision(0)))

	fmt.Fprintf(w, "[gtsv] %s read-length distribution (mean=%.1f stddev=%.1f)\n",
		sample, stat.Mean(rlValues, rlWeights), stat.StdDev(rlValues, rlWeights))
	fmt.Fprintln(w, asciigraph.Plot(floatBuckets(rlHist), asciigraph.Height(8), asciigraph.Precision(0)))
}

func floatBuckets(h *coverage.Histogram) []float64 {
	b := h.Buckets()
	out := make([]float64, len(b))
	for i, c := range b {
		out[i] = float64(c)
	}
	return out
}

func bucketSeries(h *coverage.Histogram) (values, weights []float64) {
	b := h.Buckets()
	values = make([]float64, len(b))
	weights = make([]float64, len(b))
	for i, c := range b {
		values[i] = float64(i)
		weights[i] = float64(c)
	}
	return values, weights
}
