package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileSystemObject is a directory or regular file discovered under a tree root.
// Directory paths end in a path separator so that ArchivePath turns them into
// directory markers.
type FileSystemObject struct {
	Path    string
	IsDir   bool
	ModTime time.Time
	Mode    fs.FileMode
	Size    int64
}

// WalkOptions controls ListTree.
type WalkOptions struct {
	// Exclude holds gitignore-style patterns matched against paths relative
	// to the tree root.
	Exclude []string
	// Skip holds absolute paths that are never enumerated, such as the
	// archive being written.
	Skip []string
}

// Tree is the result of ListTree.
type Tree struct {
	Objects []FileSystemObject
	// Irregular lists symlinks, devices and other entries that were not
	// enumerated.
	Irregular []string
}

// Directories returns the directory objects of the tree in walk order.
func (t Tree) Directories() []FileSystemObject {
	var dirs []FileSystemObject
	for _, o := range t.Objects {
		if o.IsDir {
			dirs = append(dirs, o)
		}
	}
	return dirs
}

// Files returns the regular file objects of the tree in walk order.
func (t Tree) Files() []FileSystemObject {
	var files []FileSystemObject
	for _, o := range t.Objects {
		if !o.IsDir {
			files = append(files, o)
		}
	}
	return files
}

// ListTree enumerates every directory and regular file below root in lexical
// order. Root itself is not part of the result.
func ListTree(root string, opts WalkOptions) (Tree, error) {
	var tree Tree
	info, err := os.Stat(root)
	if err != nil {
		return tree, err
	}
	if !info.IsDir() {
		return tree, ErrExpectedDirectory
	}

	matcher := newExcludeMatcher(opts.Exclude)
	skip := make(map[string]bool, len(opts.Skip))
	for _, s := range opts.Skip {
		if s != "" {
			skip[filepath.Clean(s)] = true
		}
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if skip[filepath.Clean(path)] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if matcher != nil && matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			tree.Irregular = append(tree.Irregular, path)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		obj := FileSystemObject{
			Path:    path,
			IsDir:   d.IsDir(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		}
		if obj.IsDir {
			obj.Path = DirectoryPath(path)
		} else {
			obj.Size = info.Size()
		}
		tree.Objects = append(tree.Objects, obj)
		return nil
	})
	return tree, err
}

func newExcludeMatcher(lines []string) gitignore.Matcher {
	var patterns []gitignore.Pattern
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}
