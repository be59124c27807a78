package cmd

import (
	"github.com/dendrascience/zipsync/zipsync"
	"github.com/spf13/cobra"
)

// NewUncompressCmd creates the uncompress subcommand.
func NewUncompressCmd(a *app) *cobra.Command {
	var overwrite zipsync.OverwritePolicy

	cmd := &cobra.Command{
		Use:   "uncompress ARCHIVE DEST",
		Short: "Extract a zip archive into a directory",
		Long: `Extract every entry of ARCHIVE below DEST, creating directories as needed.

--overwrite decides whether a file already present in DEST is replaced:
always, if-newer (default) or never. Extracted files keep the modification
time stored in the archive, so repeated if-newer runs write nothing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Uncompress.Options()
			if cmd.Flags().Changed("overwrite") {
				opts.Overwrite = overwrite
			}
			return a.run(zipsync.OpExtract, func() error {
				return a.archiver.Uncompress(args[0], args[1], opts)
			})
		},
	}

	cmd.Flags().VarP(&overwrite, "overwrite", "o", "File overwrite policy: always, if-newer or never")

	return cmd
}
