package command

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Taxon selects the biological domain antiSMASH annotates for.
type Taxon string

const (
	Bacteria Taxon = "bacteria"
	Fungi    Taxon = "fungi"
)

// Completeness is the analysis tier. Each tier adds to the flags of the previous one.
type Completeness int

const (
	LevelMinimal  Completeness = 1
	LevelStandard Completeness = 2
	LevelFull     Completeness = 10
)

// GeneFinding is the value passed to --genefinding-tool.
type GeneFinding string

const (
	GlimmerHMM GeneFinding = "glimmerhmm"
	Prodigal   GeneFinding = "prodigal"
	ProdigalM  GeneFinding = "prodigal-m"
	Auto       GeneFinding = "auto"
	Error      GeneFinding = "error"
	None       GeneFinding = "none"
)

const (
	DefaultExecutable = "antismash"
	DefaultPrefix     = "antismash"
	DefaultCPUs       = 4
)

// NucleotideExtensions are the suffixes treated as genome/nucleotide input
// when gene finding is "auto".
var NucleotideExtensions = []string{".fna", ".fa", ".fasta", ".fas", ".fsa", ".ffn", ".frn", ".seq"}

type Options struct {
	Input        string
	Title        string
	Description  string
	Taxon        Taxon
	Completeness Completeness
	CPUs         int

	// Output overrides the derived output directory when set.
	Output      string
	Prefix      string
	AddDateTime bool

	GeneFinding        GeneFinding
	DefaultGeneFinding GeneFinding

	ExtraArgs  []string
	Executable string
}

// Defaults fills zero values with the standard settings.
func (o *Options) Defaults() {
	if o.Taxon == "" {
		o.Taxon = Bacteria
	}
	if o.Completeness == 0 {
		o.Completeness = LevelStandard
	}
	if o.CPUs == 0 {
		o.CPUs = DefaultCPUs
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.GeneFinding == "" {
		o.GeneFinding = Error
	}
	if o.DefaultGeneFinding == "" {
		o.DefaultGeneFinding = Prodigal
	}
	if o.Executable == "" {
		o.Executable = DefaultExecutable
	}
}

func (o *Options) Validate() error {
	if o.Input == "" {
		return fmt.Errorf("input file is required")
	}
	switch o.Taxon {
	case Bacteria, Fungi:
	default:
		return fmt.Errorf("unknown taxon %q, expected %q or %q", o.Taxon, Bacteria, Fungi)
	}
	if o.Completeness < LevelMinimal {
		return fmt.Errorf("completeness must be at least %d, got %d", LevelMinimal, o.Completeness)
	}
	if o.CPUs < 1 {
		return fmt.Errorf("cpus must be positive, got %d", o.CPUs)
	}
	if !validGeneFinding(o.GeneFinding) {
		return fmt.Errorf("unknown gene finding mode %q", o.GeneFinding)
	}
	if o.DefaultGeneFinding == Auto || !validGeneFinding(o.DefaultGeneFinding) {
		return fmt.Errorf("invalid default gene finding tool %q", o.DefaultGeneFinding)
	}
	if strings.TrimSpace(o.Prefix) == "" {
		return fmt.Errorf("prefix must not be empty")
	}
	return nil
}

func validGeneFinding(g GeneFinding) bool {
	switch g {
	case GlimmerHMM, Prodigal, ProdigalM, Auto, Error, None:
		return true
	}
	return false
}

// IsNucleotide reports whether path carries a nucleotide sequence extension,
// ignoring case.
func IsNucleotide(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range NucleotideExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ResolveGeneFinding maps "auto" to a concrete tool based on the input file.
func ResolveGeneFinding(mode, fallback GeneFinding, input string) GeneFinding {
	if mode != Auto {
		return mode
	}
	if IsNucleotide(input) {
		return fallback
	}
	return None
}
