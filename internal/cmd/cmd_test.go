package cmd

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dendrascience/zipsync/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func makeTree(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("bravo"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "debug.log"), []byte("noise"), 0o644))
	return src
}

func entryNames(t *testing.T, archive string) []string {
	t.Helper()
	r, err := zip.OpenReader(archive)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestCompressUncompress(t *testing.T) {
	src := makeTree(t)
	archive := filepath.Join(t.TempDir(), "out.zip")
	dest := filepath.Join(t.TempDir(), "dest")

	_, err := execute(t, "compress", src, archive, "--exclude", "*.log", "--level", "smallest")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "sub/", "sub/b.txt"}, entryNames(t, archive))

	_, err = execute(t, "uncompress", archive, dest, "--overwrite", "never")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bravo", string(data))
	assert.NoFileExists(t, filepath.Join(dest, "debug.log"))
}

func TestCompress_ExistingError(t *testing.T) {
	src := makeTree(t)
	archive := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, os.WriteFile(archive, []byte("not a zip"), 0o644))

	_, err := execute(t, "compress", src, archive, "--existing", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(archive)
	require.NoError(t, err)
	assert.Equal(t, "not a zip", string(data))
}

func TestCompress_InvalidFlagValue(t *testing.T) {
	src := makeTree(t)
	_, err := execute(t, "compress", src, filepath.Join(t.TempDir(), "out.zip"), "--overwrite", "sometimes")
	assert.ErrorContains(t, err, "invalid overwrite policy")
}

func TestCompress_ConfigFile(t *testing.T) {
	src := makeTree(t)
	dir := t.TempDir()
	archive := filepath.Join(dir, "out.zip")
	cfg := filepath.Join(dir, "zipsync.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("compress:\n  include_base_directory: true\n  exclude: [\"sub/\"]\n"), 0o644))

	_, err := execute(t, "--config", cfg, "compress", src, archive)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/", "src/a.txt", "src/debug.log"}, entryNames(t, archive))
}

func TestCompress_MetricsTextfile(t *testing.T) {
	src := makeTree(t)
	dir := t.TempDir()
	prom := filepath.Join(dir, "zipsync.prom")

	_, err := execute(t, "--metrics-textfile", prom, "compress", src, filepath.Join(dir, "out.zip"))
	require.NoError(t, err)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `zipsync_runs_total{operation="compress",result="success"} 1`)
	assert.Contains(t, string(data), `zipsync_entries_total{action="add",operation="compress"} 4`)
}

func TestList(t *testing.T) {
	src := makeTree(t)
	archive := filepath.Join(t.TempDir(), "out.zip")
	_, err := execute(t, "compress", src, archive)
	require.NoError(t, err)

	out, err := execute(t, "list", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "sub/b.txt")

	out, err = execute(t, "list", "--summary", archive)
	require.NoError(t, err)
	var s util.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 3, s.FileCount)
	assert.Equal(t, 1, s.DirectoryCount)
	assert.Equal(t, int64(15), s.UncompressedSize)
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "a.txt", colorize("a.txt"))

	got := colorize("sub/b.txt")
	assert.True(t, strings.HasPrefix(got, "\x1b[38;5;"))
	assert.True(t, strings.HasSuffix(got, "\x1b[0mb.txt"))
	assert.Equal(t, got, colorize("sub/b.txt"))
}

func TestVerify(t *testing.T) {
	src := makeTree(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.zip")
	_, err := execute(t, "compress", src, good)
	require.NoError(t, err)

	out, err := execute(t, "verify", "-v", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 archives verified")

	bad := filepath.Join(dir, "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))
	out, err = execute(t, "verify", good, bad)
	assert.ErrorContains(t, err, "1 of 2 archives failed")
	assert.Contains(t, out, "FAIL "+bad)
}

func TestCompress_ArchiveOverSource(t *testing.T) {
	src := makeTree(t)

	_, err := execute(t, "compress", src, src, "--existing", "ignore")
	assert.ErrorContains(t, err, "archive path contains the source directory")
}
