package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/dendrascience/zipsync/util"
	"github.com/spf13/cobra"
	"github.com/taigrr/colorhash"
)

// NewListCmd creates and returns the list subcommand. It prints the entries
// of an archive followed by a summary.
func NewListCmd() *cobra.Command {
	var (
		color       bool
		summaryOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list ARCHIVE",
		Short: "Show the entries of an archive",
		Long: `List every entry of ARCHIVE in stored order with its size, compressed
size and modification time, followed by a JSON summary of entry counts, sizes and
the timestamp range.

With --color each entry's directory is tinted with a color derived from
its name, which makes entries of the same directory easy to spot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !summaryOnly {
				if err := listEntries(out, args[0], color); err != nil {
					return err
				}
			}
			summary, err := util.Summarize(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}

	cmd.Flags().BoolVar(&color, "color", false, "Color entries by directory")
	cmd.Flags().BoolVarP(&summaryOnly, "summary", "s", false, "Print only the summary")

	return cmd
}

func listEntries(w io.Writer, archivePath string, color bool) error {
	r, err := util.OpenArchive(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for e := range r.Entries {
		name := e.Name
		if color {
			name = colorize(e.Name)
		}
		fmt.Fprintf(w, "%10d %10d  %s  %s\n", e.Size, e.Packed, e.Modified.Format(time.DateTime), name)
	}
	return nil
}

// colorize tints the directory part of an entry name with one of the 216
// colors of the xterm cube, chosen by hashing the directory.
func colorize(name string) string {
	dir, file := path.Split(name)
	if dir == "" {
		return name
	}
	c := 16 + colorhash.HashString(dir)%216
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m%s", c, dir, file)
}
