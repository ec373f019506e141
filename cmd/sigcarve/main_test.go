package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
signatures:
  - name: magic
    pattern: MAGIC
    width: sig
    layout:
      payload: {offset: 9, length: 7}
      primary: [{offset: 5, length: 4}]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run(context.Background(), nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage:")

	assert.ErrorContains(t, run(context.Background(), []string{"frobnicate"}, &stdout, &stderr), "frobnicate")

	require.NoError(t, run(context.Background(), []string{"help"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "sigcarve carve")
}

func TestCarveAndDump(t *testing.T) {
	dir := t.TempDir()
	cat := writeFile(t, dir, "sigs.yaml", testCatalog)
	input := writeFile(t, dir, "disk.img", "....MAGIC1234PAYLOAD....MAGIC1234PAYLOAD....MAGIC9999OTHERPL")
	out := filepath.Join(dir, "carved")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"carve", "--catalog", cat, "--out", out, "--seed", "7", "--log-level", "error", input,
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "3 matches, 3 extracted, 0 rejected")
	assert.Contains(t, stdout.String(), "2 streams")

	sigs, err := filepath.Glob(filepath.Join(out, "*.sig"))
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.FileExists(t, filepath.Join(out, "manifest.json"))

	var records int
	for _, path := range sigs {
		stdout.Reset()
		require.NoError(t, run(context.Background(), []string{"dump", path}, &stdout, &stderr))
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		records += len(lines) - 1
		assert.Contains(t, lines[0], "\t7\t")
	}
	assert.Equal(t, 3, records)
}

func TestCarveCompressed(t *testing.T) {
	dir := t.TempDir()
	cat := writeFile(t, dir, "sigs.yaml", testCatalog)
	input := writeFile(t, dir, "disk.img", "....MAGIC1234PAYLOAD")
	out := filepath.Join(dir, "carved")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{
		"carve", "--catalog", cat, "--out", out, "--compress", "zstd", "--manifest", "", input,
	}, &stdout, &stderr))

	files, err := filepath.Glob(filepath.Join(out, "*.sig.zst"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	stdout.Reset()
	require.NoError(t, run(context.Background(), []string{"dump", files[0]}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "0\t7\t5041594c4f4144")
	assert.Contains(t, stdout.String(), "1 records, 9 bytes")
}

func TestCarveFlagErrors(t *testing.T) {
	dir := t.TempDir()
	cat := writeFile(t, dir, "sigs.yaml", testCatalog)
	input := writeFile(t, dir, "disk.img", "x")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no catalog", []string{input}, "--catalog"},
		{"no inputs", []string{"--catalog", cat}, "no input files"},
		{"bad store", []string{"--catalog", cat, "--store", "tape", input}, "tape"},
		{"bad compression", []string{"--catalog", cat, "--compress", "rar", input}, "--compress"},
		{"minio without bucket", []string{"--catalog", cat, "--store", "minio", input}, "--bucket"},
		{"bad codec", []string{"--catalog", cat, "--codec", "xml", input}, "xml"},
		{"bad log level", []string{"--catalog", cat, "--log-level", "loud", input}, "--log-level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := runCarve(context.Background(), append(tt.args, "--out", filepath.Join(dir, "out")), &stdout, &stderr)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestDumpNeedsWidth(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blob.bin", "\x01\x00A")

	var stdout, stderr bytes.Buffer
	assert.ErrorContains(t, run(context.Background(), []string{"dump", path}, &stdout, &stderr), "--width")

	require.NoError(t, run(context.Background(), []string{"dump", "--width", "sig", path}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "0\t1\t41")
}
