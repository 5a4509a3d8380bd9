package test

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sixban6/smashrun"
)

// fakeAntismash records its arguments and behaves like antiSMASH: it writes
// index.html into --output-dir, or fails when FAKE_ANTISMASH_FAIL is set.
const fakeAntismash = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "antiSMASH 7.1.0"
  exit 0
fi
printf '%s\n' "$@" > "$FAKE_ANTISMASH_ARGS"
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--output-dir" ]; then out="$a"; fi
  prev="$a"
done
if [ -n "$FAKE_ANTISMASH_FAIL" ]; then
  echo "ERROR: $FAKE_ANTISMASH_FAIL" >&2
  exit 1
fi
mkdir -p "$out"
echo "<html></html>" > "$out/index.html"
touch "$out/contig_1.region001.gbk" "$out/contig_1.region002.gbk"
`

func setup(t *testing.T) (workDir, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell integration test needs a POSIX shell")
	}
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}

	binDir := t.TempDir()
	exe := filepath.Join(binDir, "antismash")
	if err := os.WriteFile(exe, []byte(fakeAntismash), 0755); err != nil {
		t.Fatalf("write fake antismash: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	workDir = t.TempDir()
	argsFile = filepath.Join(workDir, "args.txt")
	t.Setenv("FAKE_ANTISMASH_ARGS", argsFile)
	t.Setenv("FAKE_ANTISMASH_FAIL", "")
	t.Setenv("ANTISMASH_ENV", "")
	return workDir, argsFile
}

func gzipFile(t *testing.T, path, content string) {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write([]byte(content))
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	workDir, argsFile := setup(t)

	input := filepath.Join(workDir, "strainA.fna.gz")
	gzipFile(t, input, ">contig_1\nATGCGT\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := smashrun.Run(ctx, smashrun.Options{
		Options: smashrun.CommandOptions{
			Input:        input,
			Title:        "strain A",
			Taxon:        smashrun.Fungi,
			Completeness: 3,
			GeneFinding:  "auto",
		},
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.Status != smashrun.StatusCompleted {
		t.Fatalf("Status = %s, want completed", res.Status)
	}

	wantDir := filepath.Join(workDir, "antismash_strain A_level3")
	if res.OutputDir != wantDir {
		t.Errorf("OutputDir = %q, want %q", res.OutputDir, wantDir)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("fake antismash did not record arguments: %v", err)
	}
	args := strings.Split(strings.TrimSpace(string(data)), "\n")
	for _, want := range []string{"--cassis", "--cc-mibig", "antismash_strain A_level3", "prodigal"} {
		if !contains(args, want) {
			t.Errorf("argument %q missing from %v", want, args)
		}
	}
	if contains(args, "--minimal") {
		t.Errorf("--minimal passed at level 3: %v", args)
	}

	// only the original compressed input may remain next to the output
	entries, _ := os.ReadDir(workDir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "strainA.") && e.Name() != "strainA.fna.gz" {
			t.Errorf("temporary file %s was not removed", e.Name())
		}
	}

	clusters, err := smashrun.ListClusters(res.OutputDir)
	if err != nil || len(clusters) != 2 {
		t.Fatalf("ListClusters() = %v, %v", clusters, err)
	}
	if n, ok := smashrun.ClusterNumber(clusters[1], true); !ok || n != "002" {
		t.Errorf("ClusterNumber() = %q, %v", n, ok)
	}

	again, err := smashrun.Run(ctx, smashrun.Options{
		Options: smashrun.CommandOptions{
			Input:        input,
			Title:        "strain A",
			Taxon:        smashrun.Fungi,
			Completeness: 3,
			GeneFinding:  "auto",
		},
		ExistsOK: true,
	})
	if err != nil || again.Status != smashrun.StatusSkipped {
		t.Errorf("second Run() = %+v, %v, want skipped", again, err)
	}
}

func TestRun_ToolFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	workDir, _ := setup(t)
	t.Setenv("FAKE_ANTISMASH_FAIL", "no genes found")

	input := filepath.Join(workDir, "contigs.gbk")
	if err := os.WriteFile(input, []byte("LOCUS contig_1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := smashrun.Run(context.Background(), smashrun.Options{
		Options: smashrun.CommandOptions{Input: input},
	})
	if !errors.Is(err, smashrun.ErrToolFailed) {
		t.Fatalf("Run() error = %v, want ErrToolFailed", err)
	}
	if res == nil || res.Status != smashrun.StatusFailed {
		t.Fatalf("Run() result = %+v", res)
	}
	if !strings.Contains(string(res.Stderr), "no genes found") {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "smashrun.yaml")
	content := "conda_exe: micromamba\nconda_env: antismash7\ncpus: 8\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ANTISMASH_ENV", "")
	t.Setenv("CONDAEXE", "")

	cfg, err := smashrun.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.CondaExe != "micromamba" || cfg.CondaEnv != "antismash7" || cfg.CPUs != 8 {
		t.Errorf("unexpected config: %+v", cfg)
	}

	opts := smashrun.Options{}
	if err := smashrun.ApplyConfig(cfg, &opts); err != nil {
		t.Fatal(err)
	}
	if opts.CPUs != 8 || opts.CondaEnv != "antismash7" {
		t.Errorf("ApplyConfig() = %+v", opts)
	}

	bare := smashrun.Options{NoEnv: true}
	if err := smashrun.ApplyConfig(cfg, &bare); err != nil {
		t.Fatal(err)
	}
	if bare.CondaEnv != "" {
		t.Errorf("ApplyConfig() with NoEnv set CondaEnv = %q", bare.CondaEnv)
	}
	if bare.CondaExe != "micromamba" {
		t.Errorf("ApplyConfig() with NoEnv CondaExe = %q, want micromamba", bare.CondaExe)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
