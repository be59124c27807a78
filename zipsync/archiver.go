package zipsync

import (
	"io"
	"io/fs"

	"github.com/dendrascience/zipsync/util"
	"go.uber.org/zap"
)

// FileSystem is the filesystem access the pipelines need beyond the zip codec.
type FileSystem interface {
	Exists(path string) (bool, error)
	Stat(path string) (fs.FileInfo, error)
	Remove(path string) error
	Open(path string) (io.ReadCloser, error)
	MkdirAll(path string) error
}

// Operation names the pipeline an Event came from.
type Operation string

const (
	OpCompress Operation = "compress"
	OpExtract  Operation = "extract"
)

// Event describes the outcome for one entry.
type Event struct {
	Op     Operation
	Name   string
	Action Action
	Bytes  int64
}

// Observer receives one Event per processed entry.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// Archiver runs the compress and extract pipelines. An Archiver holds no state
// between calls and may be reused.
type Archiver struct {
	fs       FileSystem
	log      *zap.Logger
	observer Observer
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithLogger sets the logger. Entry decisions are logged at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(a *Archiver) {
		if log != nil {
			a.log = log
		}
	}
}

// WithObserver registers an observer for per-entry events.
func WithObserver(o Observer) Option {
	return func(a *Archiver) { a.observer = o }
}

// WithFileSystem replaces the OS filesystem.
func WithFileSystem(fsys FileSystem) Option {
	return func(a *Archiver) {
		if fsys != nil {
			a.fs = fsys
		}
	}
}

// New creates an Archiver backed by the local filesystem.
func New(opts ...Option) *Archiver {
	a := &Archiver{
		fs:  util.NewOSFileSystem(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Archiver) observe(e Event) {
	a.log.Debug("entry processed",
		zap.String("op", string(e.Op)),
		zap.String("entry", e.Name),
		zap.Stringer("action", e.Action),
		zap.Int64("bytes", e.Bytes),
	)
	if a.observer != nil {
		a.observer.Observe(e)
	}
}

// tally counts the actions of one run for the summary log line.
type tally struct {
	added, replaced, skipped int
	bytes                    int64
}

func (t *tally) record(e Event) {
	switch e.Action {
	case ActionAdd:
		t.added++
	case ActionReplace:
		t.replaced++
	case ActionSkip:
		t.skipped++
	}
	t.bytes += e.Bytes
}

func (t tally) fields() []zap.Field {
	return []zap.Field{
		zap.Int("added", t.added),
		zap.Int("replaced", t.replaced),
		zap.Int("skipped", t.skipped),
		zap.Int64("bytes", t.bytes),
	}
}

// Compress runs (*Archiver).Compress on a default Archiver.
func Compress(sourceDir, archivePath string, opts CompressOptions) error {
	return New().Compress(sourceDir, archivePath, opts)
}

// Uncompress runs (*Archiver).Uncompress on a default Archiver.
func Uncompress(archivePath, destDir string, opts ExtractOptions) error {
	return New().Uncompress(archivePath, destDir, opts)
}
