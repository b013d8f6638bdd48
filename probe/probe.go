// Package probe builds, per reference contig, the pair of competing
// haplotype sequences ("ref" and "alt" probes) that the read scorer later
// aligns read flanks against. It aligns each structural variant's assembled
// consensus contig back onto a local reference window and locates the
// stretch of that alignment that represents the variant itself.
package probe

import (
	"strings"

	"github.com/vertgenlab/gonomics/align"
	"github.com/vertgenlab/gonomics/dna"

	"github.com/svison/gtsv/bandalign"
	"github.com/svison/gtsv/sv"
)

// Probe is the pair of haplotype sequences built for one structural
// variant on one contig pass, plus the prefix/suffix lengths the scorer
// needs to decide how much read flank to extract around each breakpoint.
type Probe struct {
	SVStart, SVEnd int // reference positions, -1 when not applicable
	SVType         sv.Type

	StartPrefix, StartSuffix int
	EndPrefix, EndSuffix     int

	Ref, Alt string
}

// Build constructs the probe table for every SV touching contig k. The
// returned slice is indexed by SV id; entries for SVs not touching k, or
// whose consensus failed to align, are left nil.
func Build(k int, records []*sv.Record, ref []dna.Base, minFlank int, sc bandalign.Scoring) []*Probe {
	maxID := -1
	for _, r := range records {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	probes := make([]*Probe, maxID+1)

	for _, s := range records {
		if s.Chr == k && s.SVStart-1 >= 0 && s.SVStart-1 < len(ref) {
			s.Alleles.Ref = strings.ToUpper(dna.BaseToString(dna.ToUpper(ref[s.SVStart-1])))
		}
		if !s.Precise {
			continue
		}
		if s.Chr != s.Chr2 && s.Chr2 == k {
			buffer := flankBuffer(s, minFlank)
			s.RefPart2 = dna.BasesToString(flank(ref, s.SVEnd-1, buffer))
			continue
		}
		if s.Chr != k {
			continue
		}
		p := buildOne(s, ref, minFlank, sc)
		if p != nil {
			probes[s.ID] = p
		}
	}
	return probes
}

func flankBuffer(s *sv.Record, minFlank int) int {
	if s.SVType == sv.Insertion {
		b := (len(s.Consensus) - s.InsLen) / 3
		if b < minFlank {
			b = minFlank
		}
		return b
	}
	return len(s.Consensus)
}

// flank returns a window of ref of radius buffer centered on the 0-based
// position center, clamped to the slice bounds.
func flank(ref []dna.Base, center, buffer int) []dna.Base {
	start := center - buffer
	if start < 0 {
		start = 0
	}
	end := center + buffer
	if end > len(ref) {
		end = len(ref)
	}
	if start > end {
		start = end
	}
	return ref[start:end]
}

func buildOne(s *sv.Record, ref []dna.Base, minFlank int, sc bandalign.Scoring) *Probe {
	buffer := flankBuffer(s, minFlank)

	var window []dna.Base

	switch {
	case sv.IsTranslocation(s.SVType):
		if s.RefPart2 == "" {
			return nil
		}
		local := flank(ref, s.SVStart-1, buffer)
		window = append(dna.StringToBases(s.RefPart2), local...)
	case s.SVType == sv.Insertion:
		start := s.SVStart - 1 - buffer
		if start < 0 {
			start = 0
		}
		end := s.SVStart - 1 + buffer
		if end > len(ref) {
			end = len(ref)
		}
		window = ref[start:end]
	default:
		start := s.SVStart - 1 - buffer
		if start < 0 {
			start = 0
		}
		end := s.SVEnd + buffer
		if end > len(ref) {
			end = len(ref)
		}
		window = ref[start:end]
	}

	if len(window) == 0 || len(s.Consensus) == 0 {
		return nil
	}
	query := dna.StringToBases(s.Consensus)
	aln, ok := bandalign.Align(window, query, sc, 0)
	if !ok || len(aln.Cigar) == 0 {
		return nil
	}

	cols := expandColumns(window[aln.TargetStart:aln.TargetEnd], query, aln.Cigar)
	cStart, cEnd, ok := findSplit(cols, s.SVType)
	if !ok {
		return nil
	}
	extractAlleles(s, cols, cStart, cEnd)

	return trimAndRecord(s, cols, cStart, cEnd)
}

// column is one aligned position: a reference base (valid unless the
// column is an insertion), a consensus base (valid unless the column is a
// deletion), and the CIGAR op it came from.
type column struct {
	op       align.ColType
	refBase  dna.Base
	consBase dna.Base
}

// expandColumns flattens a run-length CIGAR into one entry per aligned
// column, pairing up the target and query bases it consumes.
func expandColumns(target, query []dna.Base, cig []align.Cigar) []column {
	var cols []column
	ti, qi := 0, 0
	for _, c := range cig {
		for n := int64(0); n < c.RunLength; n++ {
			switch c.Op {
			case align.ColM:
				cols = append(cols, column{op: c.Op, refBase: target[ti], consBase: query[qi]})
				ti++
				qi++
			case align.ColD:
				cols = append(cols, column{op: c.Op, refBase: target[ti]})
				ti++
			default: // align.ColI
				cols = append(cols, column{op: c.Op, consBase: query[qi]})
				qi++
			}
		}
	}
	return cols
}

// findSplit locates the largest contiguous run of the gap kind that
// characterizes this SV type (insertions widen the query, deletions widen
// the target) and returns its bounds in query (consensus) coordinates.
func findSplit(cols []column, svt sv.Type) (cStart, cEnd int, ok bool) {
	want := align.ColD
	if svt == sv.Insertion {
		want = align.ColI
	}

	qpos := 0
	bestLen, bestQStart, bestQEnd := 0, -1, -1
	runStart, runQ := -1, 0
	for i, c := range cols {
		if c.op == want {
			if runStart == -1 {
				runStart = i
				runQ = qpos
			}
		} else {
			if runStart != -1 {
				if i-runStart > bestLen {
					bestLen = i - runStart
					bestQStart, bestQEnd = runQ, qpos
				}
				runStart = -1
			}
		}
		if c.op != align.ColD {
			qpos++
		}
	}
	if runStart != -1 && len(cols)-runStart > bestLen {
		bestLen = len(cols) - runStart
		bestQStart, bestQEnd = runQ, qpos
	}
	if bestLen == 0 {
		return 0, 0, false
	}
	return bestQStart, bestQEnd, true
}

// extractAlleles fills in the precise allele strings for deletions and
// insertions from the located split region. Other SV types keep the
// single-base allele already recorded from the reference.
func extractAlleles(s *sv.Record, cols []column, cStart, cEnd int) {
	if s.SVType != sv.Deletion && s.SVType != sv.Insertion {
		return
	}
	var altVCF, refVCF strings.Builder
	qpos := 0
	for _, c := range cols {
		inRange := qpos >= cStart && qpos < cEnd
		switch c.op {
		case align.ColM:
			if inRange {
				altVCF.WriteString(dna.BaseToString(c.consBase))
				refVCF.WriteString(dna.BaseToString(c.refBase))
			}
			qpos++
		case align.ColD:
			if qpos >= cStart && qpos <= cEnd {
				refVCF.WriteString(dna.BaseToString(c.refBase))
			}
		default: // ColI
			if inRange {
				altVCF.WriteString(dna.BaseToString(c.consBase))
			}
			qpos++
		}
	}
	if s.SVType == sv.Deletion {
		s.Alleles.Ref = refVCF.String()
	} else {
		s.Alleles.Alt = altVCF.String()
	}
}

// trimAndRecord crops leading/trailing gap-only columns from the aligned
// region and records the resulting probe with prefix/suffix lengths
// relative to the SV's breakpoints.
func trimAndRecord(s *sv.Record, cols []column, cStart, cEnd int) *Probe {
	leadCrop := 0
	lo := 0
	for lo < len(cols) && cols[lo].op == align.ColD {
		leadCrop++
		lo++
	}
	hi := len(cols)
	for hi > lo && cols[hi-1].op == align.ColD {
		hi--
	}
	if lo >= hi {
		return nil
	}
	cols = cols[lo:hi]

	var refB, altB strings.Builder
	for _, c := range cols {
		if c.op != align.ColI {
			refB.WriteString(dna.BaseToString(c.refBase))
		}
		if c.op != align.ColD {
			altB.WriteString(dna.BaseToString(c.consBase))
		}
	}
	alt := altB.String()

	prefix := cStart - leadCrop
	if prefix < 0 {
		prefix = 0
	}
	suffix := len(alt) - prefix
	if suffix < 0 {
		suffix = 0
	}

	p := &Probe{
		SVType: s.SVType,
		Ref:    refB.String(),
		Alt:    alt,
	}
	if sv.IsTranslocation(s.SVType) {
		p.SVStart = s.SVStart
		p.SVEnd = -1
		p.StartPrefix, p.StartSuffix = prefix, suffix
		p.EndPrefix, p.EndSuffix = -1, -1
	} else if s.SVType == sv.Insertion {
		p.SVStart = s.SVStart
		p.SVEnd = s.SVStart
		p.StartPrefix, p.StartSuffix = prefix, suffix
		p.EndPrefix, p.EndSuffix = prefix, suffix
	} else {
		p.SVStart = s.SVStart
		p.SVEnd = s.SVEnd
		p.StartPrefix, p.StartSuffix = prefix, suffix
		p.EndPrefix, p.EndSuffix = prefix, suffix
	}
	return p
}
