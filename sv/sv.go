// Package sv holds the data model for candidate structural variants that
// flow into the genotyping core: the dense, chromosome-indexed record the
// caller hands in, and the small variant-type discriminant used throughout
// the probe builder and aggregator to pick window sizes and dump-file
// labels.
package sv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// Type is the small discriminant carried on every SV record. Numeric values
// mirror the upstream caller's encoding: callers outside this package rely
// on Deletion == 2 and Insertion == 4 specifically, since those two values
// gate exact-allele extraction in the probe builder.
type Type int

const (
	InversionLo   Type = 0
	InversionHi   Type = 1
	Deletion      Type = 2
	Duplication   Type = 3
	Insertion     Type = 4
	Translocation Type = 5 // 5..8 all denote translocation sub-orientations
)

// IsTranslocation reports whether t is any of the translocation
// sub-orientations. The upstream caller packs BND orientation into the low
// bits above Translocation; every value >= Translocation is a BND.
func IsTranslocation(t Type) bool { return t >= Translocation }

// IsInversion reports whether t is either inversion orientation.
func IsInversion(t Type) bool { return t == InversionLo || t == InversionHi }

// UsesWideWindow reports whether this type gets the wide, fixed-size
// (500bp half-width) coverage window instead of one sized to the SV span --
// true for translocations and insertions, per the aggregator's window
// rules.
func UsesWideWindow(t Type) bool { return IsTranslocation(t) || t == Insertion }

// Letters returns the dump-file type-letter prefix for t.
func Letters(t Type) string {
	switch {
	case t == Deletion:
		return "DEL"
	case t == Duplication:
		return "DUP"
	case t == Insertion:
		return "INS"
	case IsInversion(t):
		return "INV"
	case IsTranslocation(t):
		return "BND"
	default:
		return "UNK"
	}
}

// Alleles holds the two allele strings the probe builder fills in: a
// single reference base for imprecise calls, or exact REF/ALT strings once
// the consensus-to-reference alignment resolves a split point.
type Alleles struct {
	Ref string
	Alt string
}

// Record is one candidate structural variant. Chr/Chr2 are resolved
// contig indices into the alignment header's target list; ChrName/Chr2Name
// are the raw names read from the input table and are used to perform that
// resolution once a header is available.
type Record struct {
	ID        int
	ChrName   string
	Chr2Name  string
	Chr       int
	Chr2      int
	SVStart   int // 1-based reference position
	SVEnd     int // 1-based reference position
	SVType    Type
	Consensus string
	InsLen    int
	Precise   bool
	Alleles   Alleles

	// RefPart2 caches the mate-side reference probe fragment built while
	// visiting Chr2 so it is available when Chr is visited later in the
	// same run (translocations only). The probe builder sets it and never
	// clears it.
	RefPart2 string
}

// DumpID renders the dump-file SV identifier: the type letters followed by
// the zero-padded 8-digit record id, e.g. "DEL00000042".
func (r *Record) DumpID() string {
	return fmt.Sprintf("%s%08d", Letters(r.SVType), r.ID)
}

// ResolveContigs fills in Chr/Chr2 for every record by looking up
// ChrName/Chr2Name in names (the alignment header's target name list, in
// target-id order). Records naming an unknown contig are left with Chr/Chr2
// set to -1 and are effectively invisible to the per-contig loop.
func ResolveContigs(records []*Record, names []string) {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	for _, r := range records {
		if i, ok := idx[r.ChrName]; ok {
			r.Chr = i
		} else {
			r.Chr = -1
		}
		if r.Chr2Name == "" {
			r.Chr2 = r.Chr
			continue
		}
		if i, ok := idx[r.Chr2Name]; ok {
			r.Chr2 = i
		} else {
			r.Chr2 = -1
		}
	}
}

// ReadTable parses the tab-delimited SV table this module accepts in place
// of a full VCF (SV discovery/VCF parsing being out of scope for this
// core): id, chr, pos, chr2, end, svtype, insLen, precise, consensus.
// Errors reading the file are fatal, in keeping with every other table
// reader in this codebase (fai.ReadIndex, bed.Read).
func ReadTable(filename string) []*Record {
	file := fileio.EasyOpen(filename)
	var records []*Record
	var line string
	var done bool
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		if strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != 9 {
			continue
		}
		r := new(Record)
		var err error
		r.ID, err = strconv.Atoi(cols[0])
		exception.PanicOnErr(err)
		r.ChrName = cols[1]
		r.SVStart, err = strconv.Atoi(cols[2])
		exception.PanicOnErr(err)
		r.Chr2Name = cols[3]
		r.SVEnd, err = strconv.Atoi(cols[4])
		exception.PanicOnErr(err)
		svt, err := strconv.Atoi(cols[5])
		exception.PanicOnErr(err)
		r.SVType = Type(svt)
		r.InsLen, err = strconv.Atoi(cols[6])
		exception.PanicOnErr(err)
		r.Precise = cols[7] == "1" || strings.EqualFold(cols[7], "true")
		r.Consensus = cols[8]
		records = append(records, r)
	}
	err := file.Close()
	exception.PanicOnErr(err)
	return records
}
