// Command gtsv genotypes candidate structural variants against one or
// more indexed long-read BAM files, filling in each variant's precise
// alleles and support votes and printing a per-sample coverage/error
// report.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/svison/gtsv/bandalign"
	"github.com/svison/gtsv/fai"
	"github.com/svison/gtsv/genoconfig"
	"github.com/svison/gtsv/genotype"
	"github.com/svison/gtsv/sv"
)

func usage() {
	fmt.Print(
		"gtsv - Genotype candidate structural variants against long-read alignments.\n" +
			"Usage:\n" +
			"gtsv [options] -i input.bam -r reference.fasta -svs candidates.tsv\n\n")
	flag.PrintDefaults()
}

// inputFiles is a custom type that gets filled by flag.Parse().
type inputFiles []string

// String to satisfy flag.Value interface.
func (i *inputFiles) String() string {
	return strings.Join(*i, " ")
}

// Set to satisfy flag.Value interface.
func (i *inputFiles) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func main() {
	var inputs inputFiles
	flag.Var(&inputs, "i", "Input BAM file with alignments. Must be sorted and indexed. Can be declared more than once.")
	var sampleNames inputFiles
	flag.Var(&sampleNames, "sample", "Sample name for the corresponding -i input, in order. Defaults to the input's base filename when omitted.")
	ref := flag.String("r", "", "Reference genome fasta. Must have a .fai index. Alias: -genome.")
	flag.StringVar(ref, "genome", "", "Alias for -r.")
	svsFile := flag.String("svs", "", "Tab-delimited candidate SV table: id chr pos chr2 end svtype insLen precise consensus.")
	minFlank := flag.Int("minFlank", 20, "Minimum bases of flanking sequence required on either side of a breakpoint for a read to be scored.")
	minGenoQual := flag.Uint("minGenoQual", 0, "Minimum vote quality (post scoreToQuality scaling) for a vote to be counted.")
	flankQuality := flag.Float64("flankQuality", 0.9, "Expected per-base accuracy of scored flanks, in (0,1). Used to normalize alignment scores.")
	matchScore := flag.Int64("match", 1, "Match score for the flank/probe aligner.")
	mismatchScore := flag.Int64("mismatch", -1, "Mismatch/gap score for the flank/probe aligner.")
	dumpFile := flag.String("dump", "", "Write a gzip-compressed audit log of accepted alt votes to this file (should end in .gz).")
	plotDir := flag.String("plotDir", "", "Directory to write per-sample, per-contig coverage plots. Disabled when empty.")
	debug := flag.Bool("debug", false, "Print ASCII debug histograms of coverage and read-length distributions.")
	flag.Parse()
	flag.Usage = usage

	if len(inputs) == 0 || *ref == "" || *svsFile == "" {
		usage()
		log.Fatalln("ERROR: must declare at least one -i input, -r reference, and -svs candidate table")
	}

	if len(sampleNames) > 0 && len(sampleNames) != len(inputs) {
		log.Fatalln("ERROR: -sample must be declared once per -i input, or not at all")
	}
	if len(sampleNames) == 0 {
		for _, f := range inputs {
			sampleNames = append(sampleNames, defaultSampleName(f))
		}
	}

	faiPath := *ref + ".fai"
	idx := fai.ReadIndex(faiPath)
	records := sv.ReadTable(*svsFile)
	if missing := idx.MissingContigs(recordContigNames(records)); len(missing) > 0 {
		log.Fatalf("ERROR: reference %s is missing contigs referenced by %s: %v\n", *ref, *svsFile, missing)
	}

	cfg := &genoconfig.Config{
		Files:            inputs,
		SampleNames:      sampleNames,
		Genome:           *ref,
		MinimumFlankSize: *minFlank,
		MinGenoQual:      uint32(*minGenoQual),
		FlankQuality:     *flankQuality,
		AliScore:         bandalign.Scoring{Match: *matchScore, Mismatch: *mismatchScore},
		HasDumpFile:      *dumpFile != "",
		DumpFile:         *dumpFile,
	}

	genotype.Run(cfg, records, *plotDir, *debug)
}

func defaultSampleName(bamPath string) string {
	name := bamPath
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".bam")
}

func recordContigNames(records []*sv.Record) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		if !seen[r.ChrName] {
			seen[r.ChrName] = true
			names = append(names, r.ChrName)
		}
		if r.Chr2Name != "" && !seen[r.Chr2Name] {
			seen[r.Chr2Name] = true
			names = append(names, r.Chr2Name)
		}
	}
	return names
}
