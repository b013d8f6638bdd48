package genotype

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/sam"

	"github.com/svison/gtsv/aggregate"
	"github.com/svison/gtsv/bandalign"
	"github.com/svison/gtsv/dump"
	"github.com/svison/gtsv/genoconfig"
	"github.com/svison/gtsv/probe"
	"github.com/svison/gtsv/scan"
	"github.com/svison/gtsv/sv"
)

func TestIndexByID(t *testing.T) {
	records := []*sv.Record{
		{ID: 5, SVType: sv.Deletion},
		{ID: 1, SVType: sv.Insertion},
	}
	byID := indexByID(records)
	if len(byID) != 6 {
		t.Fatalf("expected length 6 (maxID+1), got %d", len(byID))
	}
	if byID[5] == nil || byID[5].SVType != sv.Deletion {
		t.Errorf("expected id 5 to resolve to the deletion record")
	}
	if byID[1] == nil || byID[1].SVType != sv.Insertion {
		t.Errorf("expected id 1 to resolve to the insertion record")
	}
	if byID[0] != nil || byID[2] != nil {
		t.Errorf("expected unused slots to be nil")
	}
}

// TestProcessCrossingsDumpsZeroBasedPositions checks that an accepted alt
// vote's dump row carries rec->core.pos-style 0-based positions, not the
// record's 1-based sam.Sam.Pos/PNext as-is.
func TestProcessCrossingsDumpsZeroBasedPositions(t *testing.T) {
	p := &probe.Probe{
		SVStart:     50,
		SVEnd:       50,
		StartPrefix: 10,
		StartSuffix: 10,
		EndPrefix:   10,
		EndSuffix:   10,
		Ref:         "AAAAAAAAAAGGGGGGGGGG",
		Alt:         "AAAAAAAAAACCCCCCCCCC",
	}
	probes := []*probe.Probe{p}
	records := []*sv.Record{{ID: 0, SVType: sv.Deletion}}
	recordsByID := indexByID(records)

	dir := t.TempDir()
	path := filepath.Join(dir, "votes.txt")
	dumpWriter := dump.Create(path)

	cfg := &genoconfig.Config{
		Files:            []string{"sample.bam"},
		MinimumFlankSize: 3,
		FlankQuality:     0.9,
		AliScore:         bandalign.Scoring{Match: 1, Mismatch: -4},
	}
	agg := aggregate.NewStore(1)

	r := &sam.Sam{
		Pos:   1234,
		PNext: 5678,
		QName: "read1",
		RName: "chr1",
		RNext: "chr1",
		MapQ:  60,
		Seq:   dna.StringToBases("TTTTTAAAAAAAAAACCCCCCCCCCTTTTT"),
	}
	crossings := []scan.Crossing{{SVID: 0, RefPos: 49, SeqPos: 15}}

	processCrossings(cfg, agg, probes, recordsByID, dumpWriter, 0, r, crossings)
	dumpWriter.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen dump file: %v", err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 record, got %d lines: %v", len(lines), lines)
	}
	cols := strings.Split(lines[1], "\t")
	if cols[4] != "1233" {
		t.Errorf("expected 0-based pos 1233, got %q", cols[4])
	}
	if cols[6] != "5677" {
		t.Errorf("expected 0-based matepos 5677, got %q", cols[6])
	}
}
