// Package genotype orchestrates one full run: for each reference contig
// in turn it builds the probe table and breakpoint index, streams every
// sample's reads against them, folds the resulting votes into the
// aggregator, and finally prints the per-sample statistics report. It is
// the sequential, single-threaded driver described for this codebase's
// genotyping core, in the style of the per-region loop of
// cmd/genotypeTargetRepeats/genotypeTargetRepeats.go.
package genotype

import (
	"io"
	"log"
	"os"

	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fasta"
	"github.com/vertgenlab/gonomics/sam"

	"github.com/svison/gtsv/aggregate"
	"github.com/svison/gtsv/bpindex"
	"github.com/svison/gtsv/coverage"
	"github.com/svison/gtsv/dump"
	"github.com/svison/gtsv/genoconfig"
	"github.com/svison/gtsv/plotdebug"
	"github.com/svison/gtsv/probe"
	"github.com/svison/gtsv/scan"
	"github.com/svison/gtsv/score"
	"github.com/svison/gtsv/stats"
	"github.com/svison/gtsv/sv"
)

// input bundles one sample's opened alignment reader and index. Closed by
// Run when every contig has been processed.
type input struct {
	br     *sam.BamReader
	header sam.Header
	bai    sam.Bai
}

func cleanup(c io.Closer) {
	err := c.Close()
	exception.PanicOnErr(err)
}

// Run executes the full genotyping pass described in cfg over records,
// writing the per-sample statistics report to stdout and, when debug
// or plotDir is set, additional diagnostics. It mutates cfg.IsHaplotagged
// and each record's Alleles in place.
func Run(cfg *genoconfig.Config, records []*sv.Record, plotDir string, debug bool) {
	n := len(cfg.Files)
	inputs := make([]input, n)
	for i, f := range cfg.Files {
		inputs[i].br, inputs[i].header = sam.OpenBam(f)
		defer cleanup(inputs[i].br)
		inputs[i].bai = sam.ReadBai(f + ".bai")
	}

	names := make([]string, len(inputs[0].header.Chroms))
	for i, c := range inputs[0].header.Chroms {
		names[i] = c.Name
	}
	sv.ResolveContigs(records, names)

	ref := fasta.NewSeeker(cfg.Genome, "")
	defer cleanup(ref)

	agg := aggregate.NewStore(n)
	tallies := make([]*scan.Tallies, n)
	covHist := make([]*coverage.Histogram, n)
	rlHist := make([]*coverage.Histogram, n)
	for i := range tallies {
		tallies[i] = &scan.Tallies{}
		covHist[i] = coverage.NewHistogram()
		rlHist[i] = coverage.NewHistogram()
	}

	var dumpWriter *dump.Writer
	if cfg.HasDumpFile {
		dumpWriter = dump.Create(cfg.DumpFile)
		defer dumpWriter.Close()
	}

	recordsByID := indexByID(records)

	for k, chrom := range inputs[0].header.Chroms {
		log.Printf("[gtsv] contig %s (%d/%d)\n", chrom.Name, k+1, len(inputs[0].header.Chroms))

		// The reference sequence is fetched only when an SV touches k.
		needRef := false
		for _, r := range records {
			if r.Chr == k || r.Chr2 == k {
				needRef = true
				break
			}
		}
		var refSeq []dna.Base
		if needRef {
			var err error
			refSeq, err = fasta.SeekByName(ref, chrom.Name, 0, chrom.Size)
			exception.PanicOnErr(err)
			dna.AllToUpper(refSeq)
		}

		probes := probe.Build(k, records, refSeq, cfg.MinimumFlankSize, cfg.AliScore)
		bpi := bpindex.Build(probes, chrom.Size)

		for i := range inputs {
			cov := coverage.NewVector(chrom.Size)
			reads := sam.SeekBamRegion(inputs[i].br, inputs[i].bai, chrom.Name, 0, uint32(chrom.Size))

			for ri := range reads {
				r := &reads[ri]
				if !scan.Accept(int(r.Flag)) {
					continue
				}
				crossings := scan.Read(r, cov, bpi, tallies[i], rlHist[i])
				processCrossings(cfg, agg, probes, recordsByID, dumpWriter, i, r, crossings)
			}

			covHist[i].AddAll(cov)
			aggregate.ComputeCoverageWindows(i, records, cov, k, agg)

			if plotDir != "" {
				if err := plotdebug.Coverage(plotDir, cfg.SampleNames[i], chrom.Name, cov); err != nil {
					log.Printf("WARNING: failed to write coverage plot for %s %s: %v\n", cfg.SampleNames[i], chrom.Name, err)
				}
			}
		}
	}

	cfg.IsHaplotagged = agg.IsHaplotagged()

	for i := range inputs {
		stats.Report(os.Stdout, cfg.SampleNames[i], covHist[i], rlHist[i], tallies[i])
		if debug {
			stats.ReportDebug(os.Stdout, cfg.SampleNames[i], covHist[i], rlHist[i])
		}
	}
}

// indexByID builds a dense SV-id-indexed lookup table over records,
// mirroring the sentinel-slice convention probe.Build and bpindex.Build
// use rather than a map.
func indexByID(records []*sv.Record) []*sv.Record {
	maxID := -1
	for _, r := range records {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	byID := make([]*sv.Record, maxID+1)
	for _, r := range records {
		byID[r.ID] = r
	}
	return byID
}

// processCrossings scores every breakpoint crossing a read produced and
// folds the result into agg, writing a dump record for accepted alt votes
// when a dump file is configured.
func processCrossings(cfg *genoconfig.Config, agg *aggregate.Store, probes []*probe.Probe, recordsByID []*sv.Record, dumpWriter *dump.Writer, sampleIdx int, r *sam.Sam, crossings []scan.Crossing) {
	for _, c := range crossings {
		if c.SVID >= len(probes) || probes[c.SVID] == nil {
			continue
		}
		if !agg.HasCapacity(sampleIdx, c.SVID) {
			continue
		}
		p := probes[c.SVID]
		vote, ok := score.Crossing(p, c, r.Seq, cfg.MinimumFlankSize, cfg.FlankQuality, cfg.AliScore)
		if !ok {
			continue
		}

		hp, hasHP := readHP(r)
		result := agg.ApplyVote(sampleIdx, c.SVID, vote, int(r.MapQ), cfg.MinGenoQual, hp, hasHP)

		if result.IsAlt && result.Accepted && dumpWriter != nil && c.SVID < len(recordsByID) && recordsByID[c.SVID] != nil {
			dumpWriter.Write(dump.Record{
				SV:      recordsByID[c.SVID],
				Bam:     cfg.Files[sampleIdx],
				QName:   r.QName,
				Chr:     r.RName,
				Pos:     int(r.Pos) - 1,
				MateChr: r.RNext,
				MatePos: int(r.PNext) - 1,
				MapQual: int(r.MapQ),
			})
		}
	}
}

// readHP extracts the HP haplotype-phase aux tag, if present. Aux integer
// tags decode through gonomics/sam's QueryTag as one of the signed integer
// kinds depending on the tag's declared width in the BAM record; every
// width the format allows is handled here.
func readHP(r *sam.Sam) (int, bool) {
	v, found, err := sam.QueryTag(*r, "HP")
	if err != nil || !found {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int8:
		return int(t), true
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case uint8:
		return int(t), true
	case uint16:
		return int(t), true
	case uint32:
		return int(t), true
	default:
		return 0, false
	}
}
