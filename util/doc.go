// Package util provides the filesystem and zip building blocks for zipsync.
//
// Key Components:
//
// Directory Walking:
//   - ListTree enumerates a tree in walk order, directories marked with a
//     trailing separator
//   - Gitignore-style exclusion patterns and explicit skip paths
//   - Non-regular files are reported separately instead of archived
//
// Archives:
//   - Session writes a new archive or updates an existing one through a
//     temporary file that replaces the original on Close
//   - Entries can be looked up, deleted and re-added within one session
//   - ArchiveReader iterates entries in stored order and extracts them with
//     their modification time and permissions
//
// Paths:
//   - ArchivePath translates filesystem paths into forward-slash entry names
//   - DestinationPath rejects entry names that would escape the extraction root
//
// Inspection:
//   - Summarize reports entry counts, sizes and the timestamp range
//   - VerifyArchive reads every entry to check its CRC-32
//
// Errors:
//   - Flatten renders an error and its causes one message per line
package util
