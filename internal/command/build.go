// Package command turns typed run options into an antiSMASH argument list
// and derives the output directory the run writes to.
package command

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
)

// TimestampLayout is appended to derived output names when AddDateTime is set.
const TimestampLayout = "200601021504"

// OutputName joins prefix, title and the completeness level with underscores.
// A zero stamp means no timestamp suffix.
func OutputName(prefix, title string, level Completeness, stamp time.Time) string {
	parts := []string{prefix}
	if title != "" {
		parts = append(parts, title)
	}
	parts = append(parts, "level"+strconv.Itoa(int(level)))
	name := strings.Join(parts, "_")
	if !stamp.IsZero() {
		name += "_" + stamp.Format(TimestampLayout)
	}
	return name
}

// ResolveOutput returns the output directory for input and the HTML title
// antiSMASH should use. An explicit Output is used as-is and leaves the title
// as the bare prefix.
func ResolveOutput(o Options, input string, now time.Time) (dir, htmlTitle string) {
	if o.Output != "" {
		return o.Output, o.Prefix
	}
	var stamp time.Time
	if o.AddDateTime {
		stamp = now
	}
	name := OutputName(o.Prefix, o.Title, o.Completeness, stamp)
	return filepath.Join(filepath.Dir(input), name), name
}

// Build returns the full argv for one antiSMASH run, executable first and
// input last.
func Build(o Options, input, outdir, htmlTitle string) []string {
	args := []string{o.Executable, "--cpus", strconv.Itoa(o.CPUs)}
	if o.Completeness < 2 {
		args = append(args, "--minimal")
	}
	args = append(args,
		"--skip-zip-file",
		"--taxon", string(o.Taxon),
		"--html-title", htmlTitle,
		"--output-dir", outdir,
		"--genefinding-tool", string(ResolveGeneFinding(o.GeneFinding, o.DefaultGeneFinding, input)),
	)
	if o.Description != "" {
		args = append(args, "--html-description", o.Description)
	}
	args = append(args, TierFlags(o.Completeness, o.Taxon)...)
	args = append(args, o.ExtraArgs...)
	return append(args, input)
}

// TierFlags returns the optional analyses enabled at level for taxon.
func TierFlags(level Completeness, taxon Taxon) []string {
	var flags []string
	if level >= 2 {
		flags = append(flags, "--cb-knownclusters", "--cb-subclusters", "--asf")
	}
	if level >= 3 {
		flags = append(flags, "--cb-general", "--cc-mibig", "--clusterhmmer", "--pfam2go")
		if taxon == Fungi {
			flags = append(flags, "--cassis")
		}
	}
	if level >= 4 {
		flags = append(flags, "--rre", "--fullhmmer", "--tigrfam", "--smcog-trees")
	}
	return flags
}

// ParseExtraArgs splits a configured flag string the way a POSIX shell would.
func ParseExtraArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return shlex.Split(s)
}
