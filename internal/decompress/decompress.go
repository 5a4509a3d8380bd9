// Package decompress prepares possibly compressed sequence files for tools
// that only read plain text.
package decompress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
)

// Decompressor returns a readable path for a sequence file. The bool is true
// when path names a temporary copy the caller must remove.
type Decompressor interface {
	Decompress(ctx context.Context, path string) (string, bool, error)
}

// New returns the default Decompressor.
func New() Decompressor { return &FileDecompressor{bufferSize: 1024 * 1024} }

// FileDecompressor writes the decompressed copy next to the original so
// paths derived from its directory stay the same.
type FileDecompressor struct {
	bufferSize int
}

func (d *FileDecompressor) Decompress(ctx context.Context, path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close()

	format, stream, err := archives.Identify(ctx, filepath.Base(path), f)
	if errors.Is(err, archives.NoMatch) {
		return path, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("identify %s: %w", path, err)
	}

	// multi-file containers (tar.gz, zip, 7z) are not a single sequence
	if _, ok := format.(archives.Extractor); ok {
		return "", false, fmt.Errorf("%s is an archive (%s), expected a single sequence file", path, format.Extension())
	}
	dec, ok := format.(archives.Decompressor)
	if !ok {
		return path, false, nil
	}

	rc, err := dec.OpenReader(stream)
	if err != nil {
		return "", false, fmt.Errorf("open %s stream for %s: %w", format.Extension(), path, err)
	}
	defer rc.Close()

	tmp, err := d.createTemp(filepath.Dir(path), innerName(filepath.Base(path), format.Extension()), rc)
	if err != nil {
		return "", false, fmt.Errorf("decompress %s: %w", path, err)
	}
	return tmp, true, nil
}

func (d *FileDecompressor) createTemp(dir, name string, src io.Reader) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	tmp, err := os.CreateTemp(dir, stem+".*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	size := d.bufferSize
	if size <= 0 {
		size = 64 * 1024
	}
	buffer := make([]byte, size)
	if _, err := io.CopyBuffer(tmp, src, buffer); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}

// innerName strips the compression suffix, e.g. genome.fna.gz -> genome.fna.
func innerName(base, ext string) string {
	if ext != "" && strings.HasSuffix(strings.ToLower(base), strings.ToLower(ext)) {
		return base[:len(base)-len(ext)]
	}
	return base
}
