package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fordownload/internal/playlist"
)

type playlistLister interface {
	List(ctx context.Context, rawURL string, limit int) ([]playlist.Entry, error)
}

func newPlaylistCmd(a *app) *cobra.Command {
	var (
		limit    int
		urlsOnly bool
	)
	cmd := &cobra.Command{
		Use:           "playlist URL",
		Short:         "List the entries of a YouTube playlist without downloading",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.newLister().List(cmd.Context(), args[0], limit)
			if err != nil {
				return fail(err)
			}
			out := cmd.OutOrStdout()
			if urlsOnly {
				for _, u := range playlist.URLs(entries) {
					fmt.Fprintln(out, u)
				}
				return nil
			}
			for i, e := range entries {
				fmt.Fprintf(out, "%3d. %s\n     %s\n", i+1, e.Title, e.URL)
			}
			fmt.Fprintf(out, "%d entries\n", len(entries))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most N entries (0 = all)")
	cmd.Flags().BoolVar(&urlsOnly, "urls", false, "Print only the watch URLs, one per line")
	return cmd
}
