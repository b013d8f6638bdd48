package dump

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/svison/gtsv/sv"
)

func TestWriteAndHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "votes.txt")

	w := Create(path)
	w.Write(Record{
		SV:      &sv.Record{ID: 42, SVType: sv.Deletion},
		Bam:     "sample.bam",
		QName:   "read1",
		Chr:     "chr1",
		Pos:     1000,
		MateChr: "chr1",
		MatePos: 1000,
		MapQual: 60,
	})
	w.Close()

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
		t.Fatalf("expected header + 1 record, got %d lines", len(lines))
	}
	if lines[0] != header {
		t.Errorf("expected exact header line, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "DEL00000042\t") {
		t.Errorf("expected dump id prefix DEL00000042, got %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], "\tSR") {
		t.Errorf("expected final column to be the literal SR, got %q", lines[1])
	}
}
