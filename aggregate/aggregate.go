// Package aggregate accumulates per-sample, per-SV genotyping evidence:
// the ref/alt quality-vote lists, haplotype phase counters, the
// reference-bias halving state, and the post-contig coverage-sum windows
// that feed the final report.
package aggregate

import (
	"math"

	"github.com/svison/gtsv/score"
	"github.com/svison/gtsv/sv"
)

// voteCap is the hard cap on combined ref+alt votes recorded per
// (sample, SV), matching the source tool's memory bound on junction
// evidence.
const voteCap = 500

// scoreToQuality is the fixed scaling factor a normalized alignment score
// is multiplied by to produce a genotype-quality-like integer.
const scoreToQuality = 35

// Junction is the mutable per-(sample, SV) evidence record.
type Junction struct {
	Ref []byte
	Alt []byte

	RefH1, RefH2 int
	AltH1, AltH2 int

	refVoteCounter int // reference-bias halving state
}

// CoverageSums holds the three coverage windows computed once per SV
// after a contig's read loop completes.
type CoverageSums struct {
	LeftRC, RC, RightRC int64
}

// Store holds junction and coverage-sum maps across the whole run, keyed
// by sample index then SV id. It outlives any single contig pass.
type Store struct {
	junctions     []map[int]*Junction
	coverageSums  []map[int]*CoverageSums
	isHaplotagged bool
}

// NewStore allocates a Store for numSamples samples.
func NewStore(numSamples int) *Store {
	s := &Store{
		junctions:    make([]map[int]*Junction, numSamples),
		coverageSums: make([]map[int]*CoverageSums, numSamples),
	}
	for i := range s.junctions {
		s.junctions[i] = make(map[int]*Junction)
		s.coverageSums[i] = make(map[int]*CoverageSums)
	}
	return s
}

func (s *Store) junction(sampleIdx, svID int) *Junction {
	j, ok := s.junctions[sampleIdx][svID]
	if !ok {
		j = &Junction{}
		s.junctions[sampleIdx][svID] = j
	}
	return j
}

// Junction exposes the accumulated evidence for (sampleIdx, svID), or nil
// if no votes were ever recorded for it.
func (s *Store) Junction(sampleIdx, svID int) *Junction {
	return s.junctions[sampleIdx][svID]
}

// IsHaplotagged reports whether any vote folded in so far (every alt vote,
// and reference votes kept by the halving) carried an HP phase tag,
// whether or not it passed the quality gate.
func (s *Store) IsHaplotagged() bool { return s.isHaplotagged }

// HasCapacity reports whether (sampleIdx, svID) still has room under the
// combined vote cap; callers should skip scoring a crossing once this
// returns false.
func (s *Store) HasCapacity(sampleIdx, svID int) bool {
	j := s.junctions[sampleIdx][svID]
	if j == nil {
		return true
	}
	return len(j.Ref)+len(j.Alt) < voteCap
}

// Result reports what ApplyVote actually did, for callers (the dump
// writer, primarily) that need to react to an accepted alt vote.
type Result struct {
	IsAlt    bool
	Accepted bool
	Quality  int
}

// ApplyVote folds one scored crossing into the store for (sampleIdx,
// svID), applying reference-bias halving, the vote quality gate, and
// haplotype phase counting.
func (s *Store) ApplyVote(sampleIdx, svID int, v score.Vote, mapQual int, minGenoQual uint32, hp int, hasHP bool) Result {
	if !s.HasCapacity(sampleIdx, svID) {
		return Result{}
	}
	j := s.junction(sampleIdx, svID)

	isAlt := v.ScoreAlt > v.ScoreRef // ties favor reference

	if !isAlt {
		j.refVoteCounter++
		if j.refVoteCounter%2 != 1 {
			return Result{}
		}
		rq := round(v.ScoreRef * scoreToQuality)
		accepted := rq >= int(minGenoQual)
		if accepted {
			q := rq
			if q > mapQual {
				q = mapQual
			}
			j.Ref = append(j.Ref, byte(clampByte(q)))
		}
		if hasHP {
			s.isHaplotagged = true
			if hp == 1 {
				j.RefH1++
			} else if hp == 2 {
				j.RefH2++
			}
		}
		return Result{IsAlt: false, Accepted: accepted, Quality: rq}
	}

	aq := round(v.ScoreAlt * scoreToQuality)
	accepted := aq >= int(minGenoQual)
	if accepted {
		q := aq
		if q > mapQual {
			q = mapQual
		}
		j.Alt = append(j.Alt, byte(clampByte(q)))
	}
	if hasHP {
		s.isHaplotagged = true
		if hp == 1 {
			j.AltH1++
		} else if hp == 2 {
			j.AltH2++
		}
	}
	return Result{IsAlt: true, Accepted: accepted, Quality: aq}
}

func round(f float64) int {
	return int(math.Round(f))
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// ComputeCoverageWindows computes the left/body/right coverage sums for
// every SV whose chr == k, after the contig's read loop has finished.
func ComputeCoverageWindows(sampleIdx int, records []*sv.Record, cov []uint16, k int, s *Store) {
	sumFn := func(lo, hi int) int64 {
		if lo < 0 {
			lo = 0
		}
		if hi > len(cov) {
			hi = len(cov)
		}
		var total int64
		for i := lo; i < hi; i++ {
			total += int64(cov[i])
		}
		return total
	}

	for _, r := range records {
		if r.Chr != k {
			continue
		}
		halfSize := (r.SVEnd - r.SVStart) / 2
		wide := sv.UsesWideWindow(r.SVType)
		if wide {
			halfSize = 500
		}

		var left, body, right int64
		if wide {
			left = sumFn(r.SVStart-halfSize, r.SVStart)
			body = sumFn(r.SVStart-halfSize, r.SVStart+halfSize)
			right = sumFn(r.SVStart, r.SVStart+halfSize)
		} else {
			left = sumFn(r.SVStart-halfSize, r.SVStart)
			body = sumFn(r.SVStart, r.SVEnd)
			right = sumFn(r.SVEnd, r.SVEnd+halfSize)
		}

		cs, ok := s.coverageSums[sampleIdx][r.ID]
		if !ok {
			cs = &CoverageSums{}
			s.coverageSums[sampleIdx][r.ID] = cs
		}
		cs.LeftRC = left
		cs.RC = body
		cs.RightRC = right
	}
}

// CoverageSums returns the recorded coverage windows for (sampleIdx,
// svID), or nil if never computed.
func (s *Store) CoverageSums(sampleIdx, svID int) *CoverageSums {
	return s.coverageSums[sampleIdx][svID]
}
