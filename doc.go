// Package main provides the zipsync command-line interface.
//
// zipsync keeps directory trees and zip archives in sync. Repeated runs
// converge instead of duplicating or clobbering data: an existing archive can
// be updated entry by entry, and files are only replaced according to an
// overwrite policy.
//
// The main binary supports multiple subcommands:
//   - compress: Write a directory tree into a zip archive
//   - uncompress: Extract a zip archive into a directory
//   - list: Show the entries of an archive and a summary
//   - verify: Check every entry of an archive against its checksum
package main
