package aggregate

import (
	"testing"

	"github.com/svison/gtsv/score"
	"github.com/svison/gtsv/sv"
)

func TestApplyVoteReferenceHalving(t *testing.T) {
	s := NewStore(1)
	v := score.Vote{ScoreRef: 1.5, ScoreAlt: 0.5}
	accepted := 0
	for i := 0; i < 10; i++ {
		r := s.ApplyVote(0, 0, v, 60, 0, 0, false)
		if r.Accepted {
			accepted++
		}
	}
	if accepted != 5 {
		t.Errorf("expected ceil(10/2)=5 accepted reference votes, got %d", accepted)
	}
}

func TestApplyVoteTieFavorsReference(t *testing.T) {
	s := NewStore(1)
	v := score.Vote{ScoreRef: 1.5, ScoreAlt: 1.5}
	r := s.ApplyVote(0, 0, v, 60, 0, 0, false)
	if r.IsAlt {
		t.Errorf("expected a tie to be classified as a reference vote")
	}
}

func TestApplyVoteAltAppendsQuality(t *testing.T) {
	s := NewStore(1)
	v := score.Vote{ScoreRef: 0.5, ScoreAlt: 2.0}
	r := s.ApplyVote(0, 3, v, 60, 0, 0, false)
	if !r.IsAlt || !r.Accepted {
		t.Fatalf("expected an accepted alt vote")
	}
	j := s.Junction(0, 3)
	if len(j.Alt) != 1 {
		t.Errorf("expected 1 alt vote recorded, got %d", len(j.Alt))
	}
}

func TestApplyVoteHonorsMapQualCap(t *testing.T) {
	s := NewStore(1)
	v := score.Vote{ScoreRef: 0.5, ScoreAlt: 2.0}
	r := s.ApplyVote(0, 0, v, 10, 0, 0, false)
	if !r.Accepted {
		t.Fatalf("expected vote to be accepted")
	}
	j := s.Junction(0, 0)
	if j.Alt[0] != 10 {
		t.Errorf("expected quality capped at mapQual=10, got %d", j.Alt[0])
	}
}

func TestApplyVoteVoteCap(t *testing.T) {
	s := NewStore(1)
	v := score.Vote{ScoreRef: 0.5, ScoreAlt: 2.0}
	for i := 0; i < voteCap+50; i++ {
		s.ApplyVote(0, 0, v, 60, 0, 0, false)
	}
	j := s.Junction(0, 0)
	if len(j.Ref)+len(j.Alt) > voteCap {
		t.Errorf("expected combined votes capped at %d, got %d", voteCap, len(j.Ref)+len(j.Alt))
	}
}

func TestApplyVoteHaplotypeTagging(t *testing.T) {
	s := NewStore(1)
	v := score.Vote{ScoreRef: 0.5, ScoreAlt: 2.0}
	s.ApplyVote(0, 0, v, 60, 0, 1, true)
	if !s.IsHaplotagged() {
		t.Errorf("expected store to be marked haplotagged")
	}
	j := s.Junction(0, 0)
	if j.AltH1 != 1 {
		t.Errorf("expected AltH1 incremented, got %d", j.AltH1)
	}
}

func TestComputeCoverageWindowsDeletion(t *testing.T) {
	cov := make([]uint16, 1000)
	for i := range cov {
		cov[i] = 5
	}
	records := []*sv.Record{
		{ID: 0, Chr: 0, SVStart: 100, SVEnd: 200, SVType: sv.Deletion},
	}
	s := NewStore(1)
	ComputeCoverageWindows(0, records, cov, 0, s)
	cs := s.CoverageSums(0, 0)
	if cs == nil {
		t.Fatalf("expected coverage sums to be recorded")
	}
	if cs.RC != int64(5*(200-100)) {
		t.Errorf("expected body sum over the SV span, got %d", cs.RC)
	}
}

func TestComputeCoverageWindowsTranslocationUsesWideWindow(t *testing.T) {
	cov := make([]uint16, 2000)
	for i := range cov {
		cov[i] = 2
	}
	records := []*sv.Record{
		{ID: 0, Chr: 0, SVStart: 1000, SVEnd: 1000, SVType: sv.Translocation},
	}
	s := NewStore(1)
	ComputeCoverageWindows(0, records, cov, 0, s)
	cs := s.CoverageSums(0, 0)
	if cs.RC != int64(2*1000) {
		t.Errorf("expected 1000bp-wide body window (500 each side), got %d", cs.RC)
	}
}
