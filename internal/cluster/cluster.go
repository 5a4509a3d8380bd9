// Package cluster reads region numbers out of antiSMASH GenBank file names
// such as "contig_1.region045.gbk".
package cluster

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Glob matches region GenBank files inside an antiSMASH output directory.
const Glob = "*region[0-9][0-9][0-9].gbk"

var Pattern = regexp.MustCompile(`\.region[0-9]{3}\.gbk$`)

// Number returns the region token of name ("region045"), or only its three
// digits ("045") when numberOnly is set.
func Number(name string, numberOnly bool) (string, bool) {
	m := Pattern.FindString(filepath.Base(name))
	if m == "" {
		return "", false
	}
	token := strings.Split(m, ".")[1]
	if numberOnly {
		return token[len(token)-3:], true
	}
	return token, true
}

// List returns the region GenBank files in dir, sorted by name.
func List(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, Glob))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}

	var files []string
	for _, m := range matches {
		if _, ok := Number(m, false); ok {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}
