// Package fai reads a FASTA index (".fai") and answers the small set of
// contig-shape questions cmd/gtsv needs before it starts genotyping: does
// the reference actually contain every contig the SV table refers to, and
// how long is each one. Contigs named in BAM headers are not checked here.
package fai

import (
	"fmt"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"log"
	"strconv"
	"strings"
)

// Index stores the byte offset for each fasta sequencing allowing for efficient random access.
type Index struct {
	chroms  []chrOffset    // for search by index
	nameMap map[string]int // maps chr name to index in chroms
}

// Names returns every contig name in the index, in file order.
func (idx Index) Names() []string {
	names := make([]string, len(idx.chroms))
	for i := range idx.chroms {
		names[i] = idx.chroms[i].name
	}
	return names
}

// Has reports whether chr is present in the index.
func (idx Index) Has(chr string) bool {
	_, ok := idx.nameMap[chr]
	return ok
}

// MissingContigs returns every name in names not present in the index, in
// the order given. Used at startup to fail fast when the SV table
// references a contig the reference genome doesn't have.
func (idx Index) MissingContigs(names []string) []string {
	var missing []string
	for _, n := range names {
		if !idx.Has(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// String method for Index enables easy writing with the fmt package.
func (idx Index) String() string {
	answer := new(strings.Builder)
	for i := range idx.chroms {
		answer.WriteString(idx.chroms[i].String())
		answer.WriteByte('\n')
	}
	return answer.String()
}

func (idx Index) Size(chr string) int {
	return idx.chroms[idx.nameMap[chr]].len
}

// chrOffset has offset information about each reference. Equivalent to one line of a fai file.
type chrOffset struct {
	name         string // Name of this reference sequence
	len          int    // Total length of this reference sequence, in bases
	offset       int    // Offset within the FASTA file of this sequence's first base
	basesPerLine int    // The number of bases on each line
	bytesPerLine int    // The number of bytes in each line, including the newline
}

// String method for chrOffset enables easy writing with the fmt package.
func (c chrOffset) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d", c.name, c.len, c.offset, c.basesPerLine, c.bytesPerLine)
}

// ReadIndex reads a fai index file to an Index struct that can be used for random access.
func ReadIndex(filename string) Index {
	file := fileio.EasyOpen(filename)
	var answer Index
	var curr chrOffset
	var line string
	var col []string
	var done bool
	var err error
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		col = strings.Split(line, "\t")
		if len(col) != 5 {
			log.Fatalf("ERROR: malformed index file: %s\nerror on line:\n%s\n", filename, line)
		}

		curr.name = col[0]
		curr.len, err = strconv.Atoi(col[1])
		exception.PanicOnErr(err)
		curr.offset, err = strconv.Atoi(col[2])
		exception.PanicOnErr(err)
		curr.basesPerLine, err = strconv.Atoi(col[3])
		exception.PanicOnErr(err)
		curr.bytesPerLine, err = strconv.Atoi(col[4])
		exception.PanicOnErr(err)

		answer.chroms = append(answer.chroms, curr)
	}

	err = file.Close()
	exception.PanicOnErr(err)

	answer.nameMap = make(map[string]int)
	for i := range answer.chroms {
		answer.nameMap[answer.chroms[i].name] = i
	}
	return answer
}
