package zipsync

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dendrascience/zipsync/util"
	"go.uber.org/zap"
)

// CompressOptions controls Compress. The zero value is DefaultCompressOptions.
type CompressOptions struct {
	ExistingArchive ExistingArchiveAction
	// Overwrite applies per entry when an existing archive is updated. It is
	// ignored when a new archive is created.
	Overwrite OverwritePolicy
	Level     CompressionLevel
	// IncludeBaseDirectory prefixes every entry with the name of the source
	// directory instead of making entries relative to it.
	IncludeBaseDirectory bool
	// Exclude holds gitignore-style patterns, relative to the source
	// directory, for paths left out of the archive.
	Exclude []string
}

// DefaultCompressOptions replaces an existing archive, updates entries only
// when newer and deflates at the default level.
func DefaultCompressOptions() CompressOptions {
	return CompressOptions{
		ExistingArchive: ArchiveReplace,
		Overwrite:       OverwriteIfNewer,
		Level:           LevelOptimal,
	}
}

// Compress writes the tree under sourceDir into the zip archive at
// archivePath.
//
// When the archive already exists opts.ExistingArchive decides, once, whether
// it is updated, replaced, reported as ErrConflict or left alone. In update
// mode every directory and file is reconciled against the entry of the same
// name using opts.Overwrite; replacements delete the old entry before adding
// the new one. Any other failure is returned as ErrCompression.
func (a *Archiver) Compress(sourceDir, archivePath string, opts CompressOptions) error {
	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return wrapError(ErrCompression, err)
	}
	dest, err := filepath.Abs(archivePath)
	if err != nil {
		return wrapError(ErrCompression, err)
	}
	if util.Within(dest, root) {
		return wrapError(ErrCompression, fmt.Errorf("archive %s: %w", dest, util.ErrArchiveInSource))
	}
	rootInfo, err := a.fs.Stat(root)
	if err != nil {
		return wrapError(ErrCompression, fmt.Errorf("stat source: %w", err))
	}
	if !rootInfo.IsDir() {
		return wrapError(ErrCompression, fmt.Errorf("source %s: %w", root, util.ErrExpectedDirectory))
	}

	log := a.log.With(zap.String("source", root), zap.String("archive", dest))

	exists, err := a.fs.Exists(dest)
	if err != nil {
		return wrapError(ErrCompression, fmt.Errorf("check archive existence: %w", err))
	}
	update := false
	if exists {
		switch opts.ExistingArchive {
		case ArchiveUpdate:
			update = true
		case ArchiveReplace:
			if err := a.fs.Remove(dest); err != nil {
				return wrapError(ErrCompression, fmt.Errorf("remove existing archive: %w", err))
			}
		case ArchiveError:
			return wrapError(ErrConflict, fmt.Errorf("%s: %w", dest, fs.ErrExist))
		case ArchiveIgnore:
			log.Info("archive exists, leaving it untouched")
			return nil
		default:
			return wrapError(ErrCompression, fmt.Errorf("invalid existing archive action %d", int(opts.ExistingArchive)))
		}
	}

	var session *util.Session
	if update {
		session, err = util.UpdateSession(dest, opts.Level.codec())
	} else {
		session, err = util.CreateSession(dest, opts.Level.codec())
	}
	if err != nil {
		return wrapError(ErrCompression, fmt.Errorf("open archive: %w", err))
	}

	t, err := a.compressTree(session, root, rootInfo, dest, update, opts)
	if err != nil {
		if aerr := session.Abort(); aerr != nil {
			err = errors.Join(err, fmt.Errorf("discard archive: %w", aerr))
		}
		return wrapError(ErrCompression, err)
	}
	if err := session.Close(); err != nil {
		return wrapError(ErrCompression, fmt.Errorf("close archive: %w", err))
	}
	log.Info("compress complete", append(t.fields(), zap.Bool("update", update))...)
	return nil
}

func (a *Archiver) compressTree(s *util.Session, root string, rootInfo fs.FileInfo, dest string, update bool, opts CompressOptions) (tally, error) {
	var t tally
	tree, err := util.ListTree(root, util.WalkOptions{
		Exclude: opts.Exclude,
		Skip:    []string{dest, s.TempPath()},
	})
	if err != nil {
		return t, fmt.Errorf("walk %s: %w", root, err)
	}
	for _, p := range tree.Irregular {
		a.log.Warn("skipping irregular file", zap.String("path", p))
	}
	a.log.Debug("tree listed",
		zap.Int("directories", len(tree.Directories())),
		zap.Int("files", len(tree.Files())))

	base := root
	objects := tree.Objects
	if opts.IncludeBaseDirectory {
		base = filepath.Dir(root)
		rootObj := util.FileSystemObject{
			Path:    util.DirectoryPath(root),
			IsDir:   true,
			ModTime: rootInfo.ModTime(),
			Mode:    rootInfo.Mode(),
		}
		objects = append([]util.FileSystemObject{rootObj}, objects...)
	}

	for _, obj := range objects {
		name := util.ArchivePath(obj.Path, base)
		action := ActionAdd
		if update {
			existing, found := s.Lookup(name)
			action, err = decide(opts.Overwrite, found, obj.ModTime, existing.Modified)
			if err != nil {
				return t, err
			}
			if action == ActionReplace {
				if err := s.Delete(name); err != nil {
					return t, err
				}
			}
		}

		var n int64
		if action != ActionSkip {
			if n, err = a.addObject(s, obj, name); err != nil {
				return t, err
			}
		}
		e := Event{Op: OpCompress, Name: name, Action: action, Bytes: n}
		t.record(e)
		a.observe(e)
	}
	return t, nil
}

func (a *Archiver) addObject(s *util.Session, obj util.FileSystemObject, name string) (int64, error) {
	if obj.IsDir {
		return 0, s.CreateDirectory(name, obj.ModTime)
	}
	f, err := a.fs.Open(obj.Path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.CreateEntry(name, obj.ModTime, obj.Mode, f)
}
