package zipsync

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/dendrascience/zipsync/util"
	"go.uber.org/zap"
)

// ExtractOptions controls Uncompress. The zero value overwrites only when the
// archive entry is newer.
type ExtractOptions struct {
	Overwrite OverwritePolicy
}

// Uncompress extracts every entry of the archive at archivePath below destDir,
// in stored order. Parent directories are always created; whether a file is
// written is decided by opts.Overwrite against the file already on disk.
// Entries are independent: a failure stops the run without undoing earlier
// entries and is returned as ErrExtraction.
func (a *Archiver) Uncompress(archivePath, destDir string, opts ExtractOptions) error {
	root, err := filepath.Abs(destDir)
	if err != nil {
		return wrapError(ErrExtraction, err)
	}
	r, err := util.OpenArchive(archivePath)
	if err != nil {
		return wrapError(ErrExtraction, fmt.Errorf("open archive: %w", err))
	}
	defer r.Close()

	var t tally
	for entry := range r.Entries {
		e, err := a.extractEntry(entry, root, opts.Overwrite)
		if err != nil {
			return wrapError(ErrExtraction, err)
		}
		t.record(e)
		a.observe(e)
	}
	a.log.Info("extract complete",
		append(t.fields(), zap.String("archive", archivePath), zap.String("destination", root))...)
	return nil
}

func (a *Archiver) extractEntry(entry util.Entry, root string, policy OverwritePolicy) (Event, error) {
	e := Event{Op: OpExtract, Name: entry.Name}
	dest, err := util.DestinationPath(root, entry.Name)
	if err != nil {
		return e, fmt.Errorf("entry %s: %w", entry.Name, err)
	}

	if entry.IsDir() {
		exists, err := a.fs.Exists(dest)
		if err != nil {
			return e, err
		}
		if exists {
			e.Action = ActionSkip
			return e, nil
		}
		e.Action = ActionAdd
		return e, a.fs.MkdirAll(dest)
	}

	if err := a.fs.MkdirAll(filepath.Dir(dest)); err != nil {
		return e, fmt.Errorf("create parent of %s: %w", dest, err)
	}
	exists := true
	var current time.Time
	info, err := a.fs.Stat(dest)
	switch {
	case err == nil:
		current = info.ModTime()
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	default:
		return e, err
	}

	e.Action, err = decide(policy, exists, entry.Modified, current)
	if err != nil || e.Action == ActionSkip {
		return e, err
	}
	e.Bytes, err = entry.ExtractTo(dest, e.Action == ActionReplace)
	return e, err
}
