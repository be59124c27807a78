package cmd

import (
	"github.com/dendrascience/zipsync/zipsync"
	"github.com/spf13/cobra"
)

// NewCompressCmd creates the compress subcommand. Flags override the
// compress section of the config only when given explicitly.
func NewCompressCmd(a *app) *cobra.Command {
	var (
		existing       zipsync.ExistingArchiveAction
		overwrite      zipsync.OverwritePolicy
		level          zipsync.CompressionLevel
		includeBaseDir bool
		exclude        []string
	)

	cmd := &cobra.Command{
		Use:   "compress SOURCE ARCHIVE",
		Short: "Write a directory tree into a zip archive",
		Long: `Write the directory tree at SOURCE into the zip archive at ARCHIVE.

When ARCHIVE already exists, --existing decides what happens to it:
  replace  delete it and write a new archive (default)
  update   reconcile the tree into it, entry by entry
  error    fail without touching it
  ignore   leave it alone and succeed

In update mode --overwrite decides whether an entry that is already in the
archive is replaced: always, if-newer (default) or never.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Compress.Options()
			flags := cmd.Flags()
			if flags.Changed("existing") {
				opts.ExistingArchive = existing
			}
			if flags.Changed("overwrite") {
				opts.Overwrite = overwrite
			}
			if flags.Changed("level") {
				opts.Level = level
			}
			if flags.Changed("include-base-dir") {
				opts.IncludeBaseDirectory = includeBaseDir
			}
			if flags.Changed("exclude") {
				opts.Exclude = append(opts.Exclude, exclude...)
			}

			return a.run(zipsync.OpCompress, func() error {
				return a.archiver.Compress(args[0], args[1], opts)
			})
		},
	}

	cmd.Flags().VarP(&existing, "existing", "e", "Action when the archive exists: update, replace, error or ignore")
	cmd.Flags().VarP(&overwrite, "overwrite", "o", "Entry overwrite policy for updates: always, if-newer or never")
	cmd.Flags().VarP(&level, "level", "l", "Compression level: optimal, fastest, none or smallest")
	cmd.Flags().BoolVar(&includeBaseDir, "include-base-dir", false, "Prefix entries with the name of the source directory")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "Gitignore-style pattern to leave out (repeatable)")

	return cmd
}
