// Package genoconfig holds the run-wide configuration assembled by
// cmd/gtsv from its flags and threaded through every genotyping stage,
// in the style of the flag-built config values in
// cmd/genotypeTargetRepeats/genotypeTargetRepeats.go and
// cmd/mcsCallVariants/mcsCallVariants.go.
package genoconfig

import "github.com/svison/gtsv/bandalign"

// Config is the immutable run configuration, save for IsHaplotagged which
// genotype.Run sets after the last contig from the aggregator's own record
// of whether any vote carried an HP phase tag.
type Config struct {
	Files       []string
	SampleNames []string
	Genome      string

	MinimumFlankSize int
	MinGenoQual      uint32
	FlankQuality     float64
	AliScore         bandalign.Scoring

	HasDumpFile bool
	DumpFile    string

	IsHaplotagged bool
}
