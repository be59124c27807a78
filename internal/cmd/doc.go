// Package cmd provides the command-line interface implementation for zipsync.
//
// It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: persistent flags, config loading, logging and metrics
//   - compress: directory tree to archive
//   - uncompress: archive to directory tree
//   - list: archive entries and summary
//   - verify: checksum verification
//
// Configuration comes from an optional file and ZIPSYNC_ environment
// variables (see the config package); flags given on the command line take
// precedence over both.
package cmd
