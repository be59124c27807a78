package util

import (
	"archive/zip"
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Compression selects how new entries are encoded. Entries are deflated at
// Level unless Store is set.
type Compression struct {
	Store bool
	Level int
}

// DefaultCompression deflates with the flate default level.
var DefaultCompression = Compression{Level: flate.DefaultCompression}

// Entry is one entry of a zip archive.
type Entry struct {
	Name     string
	Modified time.Time
	Size     int64
	Packed   int64
	Mode     fs.FileMode
	file     *zip.File
}

func newEntry(f *zip.File) Entry {
	return Entry{
		Name:     f.Name,
		Modified: f.Modified,
		Size:     int64(f.UncompressedSize64),
		Packed:   int64(f.CompressedSize64),
		Mode:     f.Mode(),
		file:     f,
	}
}

// IsDir reports whether the entry is a directory marker.
func (e Entry) IsDir() bool {
	return IsDirectoryName(e.Name)
}

// Open returns a reader over the entry's uncompressed content. Reading to EOF
// verifies the stored CRC-32.
func (e Entry) Open() (io.ReadCloser, error) {
	if e.file == nil {
		return nil, ErrEntryNotFound
	}
	return e.file.Open()
}

// ExtractTo streams the entry into the file at path, then applies the entry's
// permission bits and modification time. Unless overwrite is set, an existing
// file at path is an error. With overwrite the content goes to a temporary
// file in the same directory that is renamed over path, so a read-only file
// left by an earlier extraction is replaced rather than reopened for writing.
func (e Entry) ExtractTo(path string, overwrite bool) (int64, error) {
	rc, err := e.Open()
	if err != nil {
		return 0, fmt.Errorf("open entry %s: %w", e.Name, err)
	}
	defer rc.Close()

	target := path
	var out *os.File
	if overwrite {
		out, err = os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
		if err == nil {
			target = out.Name()
		}
	} else {
		out, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	}
	if err != nil {
		return 0, err
	}

	n, err := e.write(out, rc, target)
	if err != nil {
		os.Remove(target)
		return n, err
	}
	if overwrite {
		if err := os.Rename(target, path); err != nil {
			os.Remove(target)
			return n, fmt.Errorf("replace %s: %w", path, err)
		}
	}
	return n, nil
}

// write copies r into out and closes it with the entry's mode and time.
func (e Entry) write(out *os.File, r io.Reader, path string) (int64, error) {
	n, err := io.Copy(out, r)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("extract %s: %w", e.Name, err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("close %s: %w", path, err)
	}
	perm := e.Mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	if err := os.Chmod(path, perm); err != nil {
		return n, fmt.Errorf("set mode of %s: %w", path, err)
	}
	if !e.Modified.IsZero() {
		if err := os.Chtimes(path, e.Modified, e.Modified); err != nil {
			return n, fmt.Errorf("set modification time of %s: %w", path, err)
		}
	}
	return n, nil
}

// ArchiveReader enumerates the entries of a zip archive.
type ArchiveReader struct {
	rc *zip.ReadCloser
}

// OpenArchive opens the zip archive at path for enumeration.
func OpenArchive(path string) (*ArchiveReader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return &ArchiveReader{rc: rc}, nil
}

// Entries yields every entry in stored order.
func (r *ArchiveReader) Entries(yield func(Entry) bool) {
	for _, f := range r.rc.File {
		if !yield(newEntry(f)) {
			return
		}
	}
}

// Len returns the number of entries.
func (r *ArchiveReader) Len() int {
	return len(r.rc.File)
}

func (r *ArchiveReader) Close() error {
	return r.rc.Close()
}

// CountEntries returns the number of entries in the archive at path.
func CountEntries(path string) (int, error) {
	r, err := OpenArchive(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return r.Len(), nil
}

// Session is a mutable handle on one archive, owned by a single compress run.
//
// A session created with CreateSession writes straight to its destination.
// One opened with UpdateSession writes a temporary file next to the archive:
// new entries are streamed there immediately, entries of the original that
// were not deleted are copied over raw on Close, and the temporary file then
// replaces the original. Abort leaves the original untouched.
type Session struct {
	path    string
	tmpPath string
	file    *os.File
	w       *zip.Writer
	src     *zip.ReadCloser
	live    map[string]*zip.File
	added   map[string]bool
	method  uint16
	closed  bool
}

// CreateSession creates a new, empty archive at path.
func CreateSession(path string, c Compression) (*Session, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s := &Session{
		path:  path,
		file:  file,
		live:  map[string]*zip.File{},
		added: map[string]bool{},
	}
	s.initWriter(c)
	return s, nil
}

// UpdateSession opens the existing archive at path for modification.
func UpdateSession(path string, c Compression) (*Session, error) {
	src, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"-"+uuid.NewString()+".tmp")
	file, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		src.Close()
		return nil, err
	}
	s := &Session{
		path:    path,
		tmpPath: tmpPath,
		file:    file,
		src:     src,
		live:    make(map[string]*zip.File, len(src.File)),
		added:   map[string]bool{},
	}
	for _, f := range src.File {
		s.live[f.Name] = f
	}
	s.initWriter(c)
	return s, nil
}

func (s *Session) initWriter(c Compression) {
	s.w = zip.NewWriter(s.file)
	if c.Store {
		s.method = zip.Store
		return
	}
	s.method = zip.Deflate
	level := c.Level
	s.w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
}

// TempPath returns the path of the file being written when it differs from
// the archive path, or "" for sessions that write in place.
func (s *Session) TempPath() string {
	return s.tmpPath
}

// Lookup finds an entry of the original archive that has not been deleted.
// Entries added during this session are not returned.
func (s *Session) Lookup(name string) (Entry, bool) {
	f, ok := s.live[name]
	if !ok {
		return Entry{}, false
	}
	return newEntry(f), true
}

// Delete removes an entry of the original archive.
func (s *Session) Delete(name string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if _, ok := s.live[name]; !ok {
		return fmt.Errorf("delete %s: %w", name, ErrEntryNotFound)
	}
	delete(s.live, name)
	return nil
}

func (s *Session) reserve(name string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if _, ok := s.live[name]; ok || s.added[name] {
		return fmt.Errorf("add %s: %w", name, ErrDuplicateEntry)
	}
	s.added[name] = true
	return nil
}

// CreateEntry streams r into a new content entry and returns the number of
// uncompressed bytes written.
func (s *Session) CreateEntry(name string, modified time.Time, mode fs.FileMode, r io.Reader) (int64, error) {
	if err := s.reserve(name); err != nil {
		return 0, err
	}
	hdr := &zip.FileHeader{
		Name:     name,
		Method:   s.method,
		Modified: modified,
	}
	hdr.SetMode(mode.Perm())
	w, err := s.w.CreateHeader(hdr)
	if err != nil {
		return 0, fmt.Errorf("create entry %s: %w", name, err)
	}
	n, err := io.Copy(w, r)
	if err != nil {
		return n, fmt.Errorf("write entry %s: %w", name, err)
	}
	return n, nil
}

// CreateDirectory adds an empty directory marker. name must end in '/'.
func (s *Session) CreateDirectory(name string, modified time.Time) error {
	if !IsDirectoryName(name) {
		return fmt.Errorf("create directory %s: %w", name, ErrExpectedDirectory)
	}
	if err := s.reserve(name); err != nil {
		return err
	}
	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: modified,
	}
	hdr.SetMode(fs.ModeDir | 0o755)
	if _, err := s.w.CreateHeader(hdr); err != nil {
		return fmt.Errorf("create directory %s: %w", name, err)
	}
	return nil
}

// Close writes the remaining entries, flushes the archive to disk and, for
// update sessions, replaces the original archive.
func (s *Session) Close() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true

	var err error
	if s.src != nil {
		for _, f := range s.src.File {
			if s.live[f.Name] != f {
				continue
			}
			if err = s.w.Copy(f); err != nil {
				err = fmt.Errorf("copy entry %s: %w", f.Name, err)
				break
			}
		}
	}
	if err == nil {
		err = s.w.Close()
	}
	if err == nil {
		err = s.file.Sync()
	}
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	if s.src != nil {
		if cerr := s.src.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		s.discard()
		return err
	}
	if s.tmpPath != "" {
		if err := os.Rename(s.tmpPath, s.path); err != nil {
			os.Remove(s.tmpPath)
			return fmt.Errorf("replace archive: %w", err)
		}
	}
	return nil
}

// Abort closes the session without committing. An update session removes its
// temporary file and leaves the original archive as it was; a create session
// removes the partially written archive.
func (s *Session) Abort() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.file.Close()
	if s.src != nil {
		s.src.Close()
	}
	return s.discard()
}

func (s *Session) discard() error {
	target := s.path
	if s.tmpPath != "" {
		target = s.tmpPath
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
