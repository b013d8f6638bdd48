package probe

import (
	"testing"

	"github.com/vertgenlab/gonomics/dna"

	"github.com/svison/gtsv/bandalign"
	"github.com/svison/gtsv/sv"
)

var testScoring = bandalign.Scoring{Match: 1, Mismatch: -4}

func TestBuildDeletionProbe(t *testing.T) {
	// A reference contig with a 10bp segment that the consensus lacks.
	ref := dna.StringToBases("AAAAAAAAAAGGGGGGGGGGCCCCCCCCCCTTTTTTTTTT")
	consensus := "AAAAAAAAAACCCCCCCCCCTTTTTTTTTT" // GGGGGGGGGG deleted
	records := []*sv.Record{
		{
			ID:        0,
			Chr:       0,
			Chr2:      0,
			SVStart:   11,
			SVEnd:     20,
			SVType:    sv.Deletion,
			Consensus: consensus,
			Precise:   true,
		},
	}
	probes := Build(0, records, ref, 5, testScoring)
	if len(probes) <= 0 || probes[0] == nil {
		t.Fatalf("expected a populated probe for the deletion")
	}
	p := probes[0]
	if p.Alt == "" && p.Ref == "" {
		t.Errorf("expected non-empty probe sequences")
	}
	if records[0].Alleles.Ref == "" {
		t.Errorf("expected single-base reference allele to be set")
	}
}

func TestBuildSkipsImpreciseSV(t *testing.T) {
	ref := dna.StringToBases("AAAAAAAAAAGGGGGGGGGGCCCCCCCCCCTTTTTTTTTT")
	records := []*sv.Record{
		{ID: 0, Chr: 0, Chr2: 0, SVStart: 11, SVEnd: 20, SVType: sv.Deletion, Precise: false},
	}
	probes := Build(0, records, ref, 5, testScoring)
	if len(probes) > 0 && probes[0] != nil {
		t.Errorf("expected no probe for an imprecise SV")
	}
	if records[0].Alleles.Ref == "" {
		t.Errorf("single-base reference allele should still be recorded for imprecise SVs")
	}
}

func TestBuildInsertionProbe(t *testing.T) {
	ref := dna.StringToBases("AAAAAAAAAACCCCCCCCCCTTTTTTTTTT")
	consensus := "AAAAAAAAAAGGGGGCCCCCCCCCCTTTTTTTTTT" // GGGGG inserted
	records := []*sv.Record{
		{
			ID:        0,
			Chr:       0,
			Chr2:      0,
			SVStart:   10,
			SVEnd:     10,
			SVType:    sv.Insertion,
			InsLen:    5,
			Consensus: consensus,
			Precise:   true,
		},
	}
	probes := Build(0, records, ref, 5, testScoring)
	if len(probes) <= 0 || probes[0] == nil {
		t.Fatalf("expected a populated probe for the insertion")
	}
}
