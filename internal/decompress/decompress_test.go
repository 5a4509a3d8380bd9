package decompress

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fasta = ">contig_1\nATGCGTACGTTAGC\n"

func writeGzip(t *testing.T, path string, content []byte) {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDecompress_Gzip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "genome.fna.gz")
	writeGzip(t, src, []byte(fasta))

	got, tmp, err := New().Decompress(context.Background(), src)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if !tmp {
		t.Fatal("Decompress() tmp = false, want true")
	}
	defer os.Remove(got)

	if filepath.Dir(got) != dir {
		t.Errorf("temp file in %s, want %s", filepath.Dir(got), dir)
	}
	if filepath.Ext(got) != ".fna" {
		t.Errorf("temp file %s lost the .fna extension", got)
	}
	if !strings.HasPrefix(filepath.Base(got), "genome.") {
		t.Errorf("temp file %s does not keep the stem", got)
	}

	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != fasta {
		t.Errorf("content = %q, want %q", data, fasta)
	}
}

func TestDecompress_Plain(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "genome.gbk")
	if err := os.WriteFile(src, []byte("LOCUS       contig_1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, tmp, err := New().Decompress(context.Background(), src)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if tmp {
		t.Error("Decompress() tmp = true for a plain file")
	}
	if got != src {
		t.Errorf("Decompress() = %s, want %s", got, src)
	}
}

func TestDecompress_RejectsArchive(t *testing.T) {
	dir := t.TempDir()
	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	if err := tw.WriteHeader(&tar.Header{Name: "a.fna", Mode: 0644, Size: int64(len(fasta))}); err != nil {
		t.Fatal(err)
	}
	tw.Write([]byte(fasta))
	tw.Close()

	src := filepath.Join(dir, "genomes.tar.gz")
	writeGzip(t, src, tarBuf.Bytes())

	if _, _, err := New().Decompress(context.Background(), src); err == nil {
		t.Error("Decompress() accepted a tar.gz archive")
	}
}

func TestDecompress_Missing(t *testing.T) {
	if _, _, err := New().Decompress(context.Background(), filepath.Join(t.TempDir(), "nope.fna")); err == nil {
		t.Error("Decompress() error = nil for a missing file")
	}
}

func TestInnerName(t *testing.T) {
	tests := []struct {
		base, ext, want string
	}{
		{"genome.fna.gz", ".gz", "genome.fna"},
		{"genome.FNA.GZ", ".gz", "genome.FNA"},
		{"genome.gbk.bz2", ".bz2", "genome.gbk"},
		{"genome", ".gz", "genome"},
	}
	for _, tt := range tests {
		if got := innerName(tt.base, tt.ext); got != tt.want {
			t.Errorf("innerName(%q, %q) = %q, want %q", tt.base, tt.ext, got, tt.want)
		}
	}
}
