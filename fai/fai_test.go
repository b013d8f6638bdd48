package fai

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFai(t *testing.T, dir string, lines string) string {
	t.Helper()
	path := filepath.Join(dir, "ref.fa.fai")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatalf("failed to write fai fixture: %v", err)
	}
	return path
}

func TestReadIndexAndNames(t *testing.T) {
	dir := t.TempDir()
	path := writeFai(t, dir, "chr1\t1000\t6\t80\t81\nchr2\t2000\t1020\t80\t81\n")
	idx := ReadIndex(path)

	names := idx.Names()
	if len(names) != 2 || names[0] != "chr1" || names[1] != "chr2" {
		t.Errorf("expected [chr1 chr2], got %v", names)
	}
	if idx.Size("chr1") != 1000 {
		t.Errorf("expected chr1 size 1000, got %d", idx.Size("chr1"))
	}
}

func TestMissingContigs(t *testing.T) {
	dir := t.TempDir()
	path := writeFai(t, dir, "chr1\t1000\t6\t80\t81\n")
	idx := ReadIndex(path)

	missing := idx.MissingContigs([]string{"chr1", "chr2", "chr3"})
	if len(missing) != 2 || missing[0] != "chr2" || missing[1] != "chr3" {
		t.Errorf("expected [chr2 chr3] missing, got %v", missing)
	}
}

func TestHas(t *testing.T) {
	dir := t.TempDir()
	path := writeFai(t, dir, "chrX\t500\t6\t80\t81\n")
	idx := ReadIndex(path)

	if !idx.Has("chrX") {
		t.Errorf("expected chrX to be present")
	}
	if idx.Has("chrY") {
		t.Errorf("expected chrY to be absent")
	}
}
