// Package bpindex indexes the breakpoint positions of a contig's probe
// table so the read scanner can test, in O(1), whether a given reference
// position is a breakpoint and, if so, which SV ids it belongs to.
package bpindex

import (
	"golang.org/x/exp/slices"

	"github.com/svison/gtsv/probe"
)

// Index is a bitset over contig positions plus the set of SV ids
// contributing each set position. Positions are 0-based.
type Index struct {
	set  []bool
	ids  map[int][]int
	size int
}

// Build produces an Index from a contig's probe table. probes is indexed
// by SV id, as returned by probe.Build; nil entries are skipped.
func Build(probes []*probe.Probe, contigLen int) *Index {
	idx := &Index{
		set:  make([]bool, contigLen),
		ids:  make(map[int][]int),
		size: contigLen,
	}
	for id, p := range probes {
		if p == nil {
			continue
		}
		if p.SVStart >= 1 && p.SVStart-1 < contigLen {
			idx.mark(p.SVStart-1, id)
		}
		if p.SVEnd >= 1 && p.SVEnd-1 < contigLen && p.SVEnd != p.SVStart {
			idx.mark(p.SVEnd-1, id)
		}
	}
	for pos := range idx.ids {
		slices.Sort(idx.ids[pos])
	}
	return idx
}

func (idx *Index) mark(pos, id int) {
	idx.set[pos] = true
	idx.ids[pos] = append(idx.ids[pos], id)
}

// Has reports whether pos (0-based) is a breakpoint position.
func (idx *Index) Has(pos int) bool {
	if pos < 0 || pos >= idx.size {
		return false
	}
	return idx.set[pos]
}

// IDs returns the SV ids landing on pos, in ascending order. The returned
// slice must not be modified by the caller.
func (idx *Index) IDs(pos int) []int {
	return idx.ids[pos]
}
