package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ArchivePath translates an absolute filesystem path into the name of its
// archive entry. treeRootParent is stripped from the front together with a
// single leading separator, and the remainder is converted to forward slashes.
// A trailing separator marks a directory and survives as a trailing '/'.
//
// absolutePath must start with treeRootParent.
func ArchivePath(absolutePath, treeRootParent string) string {
	rel := strings.TrimPrefix(absolutePath, treeRootParent)
	if len(rel) > 0 && os.IsPathSeparator(rel[0]) {
		rel = rel[1:]
	}
	return filepath.ToSlash(rel)
}

// IsDirectoryName reports whether an archive entry name is a directory marker.
func IsDirectoryName(name string) bool {
	return strings.HasSuffix(name, "/")
}

// DirectoryPath appends the directory sentinel to a filesystem path.
func DirectoryPath(path string) string {
	if len(path) > 0 && os.IsPathSeparator(path[len(path)-1]) {
		return path
	}
	return path + string(os.PathSeparator)
}

// DestinationPath joins an archive entry name onto root. It fails with
// ErrUnsafeEntryPath when the cleaned result lies outside root.
func DestinationPath(root, name string) (string, error) {
	dest := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, dest)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) || filepath.IsAbs(rel) {
		return "", ErrUnsafeEntryPath
	}
	return dest, nil
}

// Within reports whether child is parent itself or nested below it. Both
// paths are made absolute first.
func Within(parent, child string) bool {
	parent, err := filepath.Abs(parent)
	if err != nil {
		return false
	}
	child, err = filepath.Abs(child)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)))
}
