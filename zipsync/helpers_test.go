package zipsync

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// buildTree creates files below root. Names ending in '/' create empty
// directories. Every path is stamped with t0.
func buildTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	stampTree(t, root, t0)
}

func stampTree(t *testing.T, root string, tm time.Time) {
	t.Helper()
	require.NoError(t, filepath.WalkDir(root, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return os.Chtimes(path, tm, tm)
	}))
}

func writeAt(t *testing.T, path, content string, tm time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, tm, tm))
	// writing a file does not touch its directory, but creating one does
	require.NoError(t, os.Chtimes(filepath.Dir(path), t0, t0))
}

type archiveEntry struct {
	Content  string
	Modified time.Time
}

func readArchive(t *testing.T, path string) map[string]archiveEntry {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	got := map[string]archiveEntry{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		_, dup := got[f.Name]
		require.False(t, dup, "duplicate entry %s", f.Name)
		got[f.Name] = archiveEntry{Content: string(data), Modified: f.Modified.UTC()}
	}
	return got
}

func names(entries map[string]archiveEntry) []string {
	var out []string
	for name := range entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// readTree returns every file and directory below root as slash-separated
// names mapped to file content.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	got := map[string]string{}
	require.NoError(t, filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == root {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if d.IsDir() {
			got[name+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[name] = string(data)
		return nil
	}))
	return got
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// recorder collects events per action.
type recorder struct {
	events []Event
}

func (r *recorder) Observe(e Event) { r.events = append(r.events, e) }

func (r *recorder) count(a Action) int {
	n := 0
	for _, e := range r.events {
		if e.Action == a {
			n++
		}
	}
	return n
}

func (r *recorder) action(name string) (Action, bool) {
	for _, e := range r.events {
		if e.Name == name {
			return e.Action, true
		}
	}
	return 0, false
}
