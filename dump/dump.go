// Package dump writes the gzip-compressed, tab-delimited audit log of
// individual alt-supporting reads: one record per emitted alt vote, for
// downstream inspection of which reads drove a genotype call.
package dump

import (
	"fmt"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"

	"github.com/svison/gtsv/sv"
)

const header = "#svid\tbam\tqname\tchr\tpos\tmatechr\tmatepos\tmapq\ttype"

// Writer appends dump records to a gzip-compressed file. The gzip framing
// is handled transparently by fileio.EasyCreate when filename ends in
// ".gz", the same convention every other gzip-producing path in this
// codebase relies on.
type Writer struct {
	out *fileio.EasyWriter
}

// Create opens filename for writing and emits the header line.
func Create(filename string) *Writer {
	out := fileio.EasyCreate(filename)
	_, err := fmt.Fprintln(out, header)
	exception.PanicOnErr(err)
	return &Writer{out: out}
}

// Record is one emitted alt vote's audit trail.
type Record struct {
	SV      *sv.Record
	Bam     string
	QName   string
	Chr     string
	Pos     int
	MateChr string
	MatePos int
	MapQual int
}

// Write appends one record. The final column is always the literal "SR"
// (split read); other type tags are left to other subsystems' dump rows
// sharing this file format.
func (w *Writer) Write(r Record) {
	_, err := fmt.Fprintf(w.out, "%s\t%s\t%s\t%s\t%d\t%s\t%d\t%d\tSR\n",
		r.SV.DumpID(), r.Bam, r.QName, r.Chr, r.Pos, r.MateChr, r.MatePos, r.MapQual)
	exception.PanicOnErr(err)
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() {
	err := w.out.Close()
	exception.PanicOnErr(err)
}
