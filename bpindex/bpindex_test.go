package bpindex

import (
	"testing"

	"github.com/svison/gtsv/probe"
)

func TestBuildMarksBothBreakpoints(t *testing.T) {
	probes := []*probe.Probe{
		{SVStart: 100, SVEnd: 200},
		nil,
		{SVStart: 200, SVEnd: 300},
	}
	idx := Build(probes, 1000)

	if !idx.Has(99) {
		t.Errorf("expected position 99 (0-based for svStart=100) to be marked")
	}
	if !idx.Has(199) {
		t.Errorf("expected position 199 to be marked by both SVs")
	}
	ids := idx.IDs(199)
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 2 {
		t.Errorf("expected sorted ids [0 2] at shared position, got %v", ids)
	}
}

func TestHasOutOfBounds(t *testing.T) {
	idx := Build(nil, 10)
	if idx.Has(-1) || idx.Has(10) {
		t.Errorf("expected out-of-range positions to report false")
	}
}

func TestNilProbesSkipped(t *testing.T) {
	idx := Build([]*probe.Probe{nil, nil}, 10)
	for i := 0; i < 10; i++ {
		if idx.Has(i) {
			t.Errorf("expected no positions marked when all probes are nil")
		}
	}
}
