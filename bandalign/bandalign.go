// Package bandalign implements the banded semi-global aligner shared by
// the probe builder (consensus vs. local reference) and the haplotype
// scorer (read flank vs. probe). No available library ships a semi-global
// aligner with the simple match/mismatch scoring model this domain needs,
// so the DP core is written from scratch here, grounded on the classic
// fitting/glocal alignment recurrence and on the split-alignment structure
// of a reference banded aligner implementation. Its output is expressed in
// terms of github.com/vertgenlab/gonomics/align's Cigar vocabulary so it
// composes with the rest of the alignment-consuming code in this module.
package bandalign

import (
	"github.com/vertgenlab/gonomics/align"
	"github.com/vertgenlab/gonomics/dna"
)

// Scoring is the simple match/mismatch scoring model this domain uses
// throughout: gap-open and gap-extend are both implicitly equal to
// Mismatch, matching the "simple track" scoring described for the
// upstream tool's consensus-to-reference and read-to-probe alignments.
type Scoring struct {
	Match    int64
	Mismatch int64
}

// gapCost is the per-base cost of extending an alignment by a gap in
// either sequence under the simple scoring model.
func (s Scoring) gapCost() int64 { return s.Mismatch }

// Alignment is the result of a traceback-producing alignment: the
// optimal score and the CIGAR describing how query maps onto target.
// TargetStart/TargetEnd give the half-open span of target actually
// covered by Cigar -- the bases outside that span were skipped for free
// by the semi-global fitting and are not represented as CIGAR operations.
type Alignment struct {
	Score       int64
	Cigar       []align.Cigar
	TargetStart int
	TargetEnd   int
}

const negInf = int64(-1) << 40

// Align performs a semi-global ("fitting") alignment of query into target:
// query is consumed in full (no free end gaps on it), target may have
// free-of-charge unaligned prefix and suffix (representing flanking
// reference context the caller included only to give the aligner room to
// work). band limits the search to cells within band rows of the
// projection of each query column onto target; pass band <= 0 to disable
// banding and search the full matrix (used by the probe builder, where
// target and query can differ substantially in length).
//
// Returns ok=false if query or target is empty.
func Align(target, query []dna.Base, sc Scoring, band int) (Alignment, bool) {
	nt, nq := len(target), len(query)
	if nq == 0 || nt == 0 {
		return Alignment{}, false
	}
	unbanded := band <= 0 || band >= nt
	// h[i][j]: best score aligning query[:j] into target ending exactly
	// at target position i (i.e. target[i-1] is the last consumed base,
	// or i==0 meaning the alignment has not yet started consuming
	// target).
	h := make([][]int64, nt+1)
	// back[i][j]: 0 = diagonal (match/mismatch), 1 = up (target-only,
	// deletion in query), 2 = left (query-only, insertion in query).
	back := make([][]byte, nt+1)
	for i := range h {
		h[i] = make([]int64, nq+1)
		back[i] = make([]byte, nq+1)
	}
	for i := 0; i <= nt; i++ {
		h[i][0] = 0 // free leading skip of target
	}
	for j := 1; j <= nq; j++ {
		h[0][j] = int64(j) * sc.gapCost()
		back[0][j] = 2
	}

	inBand := func(i, j int) bool {
		if unbanded {
			return true
		}
		// Project column j onto the diagonal implied by the two
		// sequence lengths so banding degrades gracefully when
		// target and query differ in length.
		center := j * nt / nq
		d := i - center
		if d < 0 {
			d = -d
		}
		return d <= band
	}

	for j := 1; j <= nq; j++ {
		for i := 1; i <= nt; i++ {
			if !inBand(i, j) {
				h[i][j] = negInf
				continue
			}
			var diagScore int64
			if target[i-1] == query[j-1] {
				diagScore = sc.Match
			} else {
				diagScore = sc.Mismatch
			}
			best := h[i-1][j-1] + diagScore
			var move byte = 0
			if up := h[i-1][j] + sc.gapCost(); up > best {
				best = up
				move = 1
			}
			if left := h[i][j-1] + sc.gapCost(); left > best {
				best = left
				move = 2
			}
			h[i][j] = best
			back[i][j] = move
		}
	}

	// Free trailing skip of target: the alignment may end at any row
	// once all of query has been consumed.
	bestI, bestScore := nt, h[nt][nq]
	for i := 0; i < nt; i++ {
		if h[i][nq] > bestScore {
			bestScore = h[i][nq]
			bestI = i
		}
	}

	cig, targetStart := traceback(back, bestI, nq)
	return Alignment{Score: bestScore, Cigar: cig, TargetStart: targetStart, TargetEnd: bestI}, true
}

// traceback walks back pointers from (i, j) to j==0, returning the CIGAR
// in forward order and the row at which it stopped (the count of target
// bases skipped for free at the alignment's start).
func traceback(back [][]byte, i, j int) ([]align.Cigar, int) {
	var ops []align.Cigar
	cur := align.ColM
	run := 0
	flush := func() {
		if run > 0 {
			ops = append(ops, align.Cigar{Op: cur, RunLength: int64(run)})
		}
	}
	appendOp := func(op align.ColType) {
		if run > 0 && op == cur {
			run++
			return
		}
		flush()
		cur, run = op, 1
	}
	for j > 0 {
		switch back[i][j] {
		case 0:
			appendOp(align.ColM)
			i--
			j--
		case 1:
			appendOp(align.ColD)
			i--
		default:
			appendOp(align.ColI)
			j--
		}
	}
	flush()
	// ops were built end-to-start; reverse in place.
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops, i
}

// Score computes only the optimal alignment score, without traceback. It
// is the fast path used by the haplotype scorer, which votes on the score
// alone and never needs the alignment itself -- mirroring the upstream
// tool's needleBanded, which likewise returns a bare score.
func Score(target, query []dna.Base, sc Scoring, band int) (int64, bool) {
	nt, nq := len(target), len(query)
	if nq == 0 || nt == 0 {
		return 0, false
	}
	unbanded := band <= 0 || band >= nt
	prev := make([]int64, nt+1)
	curr := make([]int64, nt+1)
	for i := range prev {
		prev[i] = 0
	}

	inBand := func(i, j int) bool {
		if unbanded {
			return true
		}
		center := j * nt / nq
		d := i - center
		if d < 0 {
			d = -d
		}
		return d <= band
	}

	for j := 1; j <= nq; j++ {
		curr[0] = int64(j) * sc.gapCost()
		for i := 1; i <= nt; i++ {
			if !inBand(i, j) {
				curr[i] = negInf
				continue
			}
			var diagScore int64
			if target[i-1] == query[j-1] {
				diagScore = sc.Match
			} else {
				diagScore = sc.Mismatch
			}
			best := prev[i-1] + diagScore
			if up := prev[i] + sc.gapCost(); up > best {
				best = up
			}
			if left := curr[i-1] + sc.gapCost(); left > best {
				best = left
			}
			curr[i] = best
		}
		prev, curr = curr, prev
	}
	best := prev[nt]
	for i := 0; i < nt; i++ {
		if prev[i] > best {
			best = prev[i]
		}
	}
	return best, true
}

// Normalize implements the expected-score formula the haplotype scorer
// uses to turn a raw alignment score into a comparable statistic:
// norm = q*L*match + (1-q)*L*mismatch, dividing the raw score by that
// expectation. L is the probe length the score was computed against.
func Normalize(rawScore int64, probeLen int, flankQuality float64, sc Scoring) float64 {
	l := float64(probeLen)
	denom := flankQuality*l*float64(sc.Match) + (1-flankQuality)*l*float64(sc.Mismatch)
	if denom == 0 {
		return 0
	}
	return float64(rawScore) / denom
}
