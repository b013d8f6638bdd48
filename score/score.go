// Package score implements the haplotype scorer: given a breakpoint
// crossing found by the read scanner, it extracts the surrounding read
// flank and aligns it against both competing probe sequences to decide
// which haplotype the read supports.
package score

import (
	"github.com/vertgenlab/gonomics/dna"

	"github.com/svison/gtsv/bandalign"
	"github.com/svison/gtsv/probe"
	"github.com/svison/gtsv/scan"
)

// Vote is the outcome of scoring one crossing: which side of the
// breakpoint it was, and the normalized scores against each probe.
type Vote struct {
	SVID     int
	AtStart  bool
	ScoreRef float64
	ScoreAlt float64
}

// band is the width passed to the aligner for the (short) flank-vs-probe
// alignment. Flanks are small relative to the consensus-vs-reference
// alignment in package probe, so a modest band keeps this fast without
// risking a real alignment falling outside it.
const band = 50

// Crossing scores one read's crossing of an SV's breakpoint. minFlank is
// the configured minimum flank size; flankQuality and sc are the
// normalization parameters and scoring scheme shared with package probe.
// Returns ok=false when the read does not have enough flanking sequence
// to support a vote, per the rejection rule in the component design.
func Crossing(p *probe.Probe, c scan.Crossing, seq []dna.Base, minFlank int, flankQuality float64, sc bandalign.Scoring) (Vote, bool) {
	atStart := c.RefPos+1 == p.SVStart
	prefix, suffix := p.StartPrefix, p.StartSuffix
	if !atStart {
		prefix, suffix = p.EndPrefix, p.EndSuffix
	}
	if prefix < 0 || suffix < 0 {
		return Vote{}, false
	}

	anchor := c.SeqPos
	if anchor-prefix < 0 || anchor+suffix > len(seq) {
		return Vote{}, false
	}

	start := anchor - prefix - minFlank
	if start < 0 {
		start = 0
	}
	end := anchor + suffix + minFlank
	if end > len(seq) {
		end = len(seq)
	}
	if start >= end {
		return Vote{}, false
	}
	flank := seq[start:end]

	altBases := dna.StringToBases(p.Alt)
	refBases := dna.StringToBases(p.Ref)

	// The flank carries up to minFlank extra bases on each side of the
	// probe span, so it is the target (free ends) and the probe the query.
	altRaw, ok1 := bandalign.Score(flank, altBases, sc, band)
	refRaw, ok2 := bandalign.Score(flank, refBases, sc, band)
	if !ok1 || !ok2 {
		return Vote{}, false
	}

	scoreAlt := bandalign.Normalize(altRaw, len(altBases), flankQuality, sc)
	scoreRef := bandalign.Normalize(refRaw, len(refBases), flankQuality, sc)

	if scoreAlt <= 1.0 && scoreRef <= 1.0 {
		return Vote{}, false
	}

	return Vote{SVID: c.SVID, AtStart: atStart, ScoreRef: scoreRef, ScoreAlt: scoreAlt}, true
}
