package util

import (
	"fmt"
	"io"
	"os"
	"time"
)

type Summary struct {
	CompressedSize   int64     `json:"compressed_size"`
	DirectoryCount   int       `json:"directory_count"`
	FileCount        int       `json:"file_count"`
	NewestEntryTS    time.Time `json:"newest_entry_ts"`
	OldestEntryTS    time.Time `json:"oldest_entry_ts"`
	TotalEntryCount  int       `json:"total_entry_count"`
	UncompressedSize int64     `json:"uncompressed_size"`
}

// Summarize collects entry counts, sizes and the timestamp range of the
// archive at path. CompressedSize is the size of the archive file itself.
func Summarize(path string) (Summary, error) {
	var s Summary
	stat, err := os.Stat(path)
	if err != nil {
		return s, err
	}
	s.CompressedSize = stat.Size()

	r, err := OpenArchive(path)
	if err != nil {
		return s, err
	}
	defer r.Close()

	for e := range r.Entries {
		s.TotalEntryCount++
		if e.IsDir() {
			s.DirectoryCount++
		} else {
			s.FileCount++
			s.UncompressedSize += e.Size
		}
		if e.Modified.IsZero() {
			continue
		}
		if s.OldestEntryTS.IsZero() || e.Modified.Before(s.OldestEntryTS) {
			s.OldestEntryTS = e.Modified
		}
		if e.Modified.After(s.NewestEntryTS) {
			s.NewestEntryTS = e.Modified
		}
	}
	return s, nil
}

// VerifyArchive reads every content entry of the archive at path to its end,
// which makes the zip reader check each stored CRC-32. It returns the number of
// entries checked.
func VerifyArchive(path string) (int, error) {
	r, err := OpenArchive(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	checked := 0
	for e := range r.Entries {
		if e.IsDir() {
			checked++
			continue
		}
		if err := drain(e); err != nil {
			return checked, fmt.Errorf("verify %s: %w", e.Name, err)
		}
		checked++
	}
	return checked, nil
}

func drain(e Entry) error {
	rc, err := e.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(io.Discard, rc)
	return err
}
