// Package scan implements the CIGAR-by-CIGAR streaming pass over one
// sample's aligned reads for a contig: it maintains the saturating
// coverage vector, the sample-wide tallies and histograms, and reports
// every breakpoint crossing it finds so the haplotype scorer can vote on
// it.
package scan

import (
	"log"

	"github.com/vertgenlab/gonomics/sam"

	"github.com/svison/gtsv/bpindex"
	"github.com/svison/gtsv/coverage"
)

// Raw SAM flag bits this scanner filters on. Named individually rather
// than pulled from a helper package since none of the retrieved examples
// centralize them either -- every caller in the corpus tests sam.Sam.Flag
// against the raw bit directly.
const (
	flagSecondary     = 0x100
	flagQCFail        = 0x200
	flagDuplicate     = 0x400
	flagSupplementary = 0x800
	flagUnmapped      = 0x4
	flagReverse       = 0x10
)

// Accept reports whether a record should be scanned at all: primary,
// mapped alignments only.
func Accept(flag int) bool {
	return flag&(flagSecondary|flagQCFail|flagDuplicate|flagSupplementary|flagUnmapped) == 0
}

// Crossing is one breakpoint a read's CIGAR was found to cross.
type Crossing struct {
	SVID   int
	RefPos int // 0-based reference position of the crossing
	SeqPos int // offset into r.Seq (SAM-forward orientation) of the crossing
}

// Tallies accumulates the sample-wide aligned-base counters the
// statistics reporter turns into error rates.
type Tallies struct {
	MatchCount    int64
	MismatchCount int64
	DelCount      int64
	InsCount      int64
}

// Read scans one accepted record against cov, bumping saturating coverage
// and the read-length histogram, and returns every breakpoint crossing
// found. The coverage histogram itself is folded from cov once per contig
// by the caller, after all reads have been scanned. Callers are expected
// to have already filtered the record with Accept.
func Read(r *sam.Sam, cov coverage.Vector, bpi *bpindex.Index, t *Tallies, rlHist *coverage.Histogram) []Crossing {
	readLen := len(r.Seq)
	rlHist.Add(readLen / 100)

	rp := int(r.Pos) - 1 // 0-based
	sp := 0
	seen := make(map[int]bool)
	var crossings []Crossing

	recordCrossings := func() {
		if !bpi.Has(rp) {
			return
		}
		for _, id := range bpi.IDs(rp) {
			if seen[id] {
				continue
			}
			seen[id] = true
			crossings = append(crossings, Crossing{SVID: id, RefPos: rp, SeqPos: sp})
		}
	}

	for _, op := range r.Cigar {
		switch op.Op {
		case 'M':
			for n := 0; n < op.RunLength; n++ {
				cov.Inc(rp)
				recordCrossings()
				t.MatchCount++
				rp++
				sp++
			}
		case '=':
			for n := 0; n < op.RunLength; n++ {
				cov.Inc(rp)
				recordCrossings()
				t.MatchCount++
				rp++
				sp++
			}
		case 'X':
			for n := 0; n < op.RunLength; n++ {
				cov.Inc(rp)
				recordCrossings()
				t.MismatchCount++
				rp++
				sp++
			}
		case 'D', 'N':
			t.DelCount++
			for n := 0; n < op.RunLength; n++ {
				recordCrossings()
				rp++
			}
		case 'I':
			t.InsCount++
			sp += op.RunLength
		case 'S':
			sp += op.RunLength
		case 'H':
			// consumes neither reference nor query
		default:
			log.Printf("WARNING: unhandled cigar op %q in read %s\n", op.Op, r.QName)
		}
	}

	return crossings
}
