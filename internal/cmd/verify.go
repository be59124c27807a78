package cmd

import (
	"fmt"

	"github.com/dendrascience/zipsync/util"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates and returns the verify subcommand. It reads every
// entry of each archive so that corrupt data is reported before it is
// extracted.
func NewVerifyCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "verify ARCHIVE...",
		Short: "Check archive entries against their checksums",
		Long: `Read every entry of each ARCHIVE to its end so the stored CRC-32 of
each entry is checked. The first corrupt entry of an archive is reported and
the remaining archives are still checked.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, archive := range args {
				n, err := util.VerifyArchive(archive)
				if err != nil {
					failed++
					total, _ := util.CountEntries(archive)
					fmt.Fprintf(out, "FAIL %s after %d of %d entries:\n%s", archive, n, total, util.Flatten(err))
					continue
				}
				if verbose {
					fmt.Fprintf(out, "ok   %s (%d entries)\n", archive, n)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d archives failed verification", failed, len(args))
			}
			if verbose {
				fmt.Fprintf(out, "%d archives verified\n", len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Report every archive, not only failures")

	return cmd
}
