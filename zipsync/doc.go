// Package zipsync synchronizes directory trees with zip archives.
//
// Compress writes a tree into an archive and Uncompress extracts an archive
// onto disk. Both apply policies that decide what happens when the destination
// already exists, so that repeated runs converge instead of duplicating or
// clobbering data.
//
// Existing archive (Compress only, decided once per call):
//   - ArchiveReplace: delete the archive and write a new one (default)
//   - ArchiveUpdate: reconcile the tree into the existing archive
//   - ArchiveError: fail with ErrConflict
//   - ArchiveIgnore: do nothing
//
// Overwrite policy (per entry, for updates and extraction):
//   - OverwriteIfNewer: replace only when the source is newer (default)
//   - OverwriteAlways: always replace
//   - OverwriteNever: never replace an existing destination
//
// Timestamps are compared at one-second resolution because that is what the
// zip extended timestamp field stores. Extracted files are stamped with the
// entry's modification time, which keeps repeated IfNewer runs idempotent.
//
// Failures are returned as *Error values matching ErrConflict, ErrCompression
// or ErrExtraction with errors.Is. Their Detail field carries the cause chain
// flattened one message per line.
package zipsync
