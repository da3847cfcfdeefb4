package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fordownload/internal/model"
	"fordownload/internal/options"
	"fordownload/internal/util"
	"fordownload/internal/util/deps"
)

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "plan URL...",
		Short:         "Show the yt-dlp configuration and command without running it",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.settings.Request(util.SplitURLs(strings.Join(args, " ")))
			if err != nil {
				return fail(err)
			}
			if err := options.Validate(req); err != nil {
				return fail(err)
			}
			bin, err := deps.FindDownloader(a.settings.DLBinary)
			if err != nil {
				bin = "yt-dlp"
			}
			printPlan(cmd.OutOrStdout(), req, options.Build(req), bin, a.settings.Transport)
			return nil
		},
	}
}

func printPlan(w io.Writer, req model.DownloadRequest, cfg model.DownloaderConfig, bin, transport string) {
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	fmt.Fprintln(w, "Plan:")
	fmt.Fprintf(w, "- URLs:           %s\n", strings.Join(req.URLs, ", "))
	fmt.Fprintf(w, "- Output:         %s\n", cfg.OutputTemplate)
	fmt.Fprintf(w, "- Format:         %s\n", cfg.FormatSelector)
	if cfg.MergeOutputFormat != "" {
		fmt.Fprintf(w, "- Merge into:     %s\n", cfg.MergeOutputFormat)
	}
	for _, pp := range cfg.PostProcessors {
		fmt.Fprintf(w, "- Post-process:   %s %s %d kbps\n", pp.Key, pp.Codec, pp.QualityKbps)
	}
	fmt.Fprintf(w, "- Playlist:       %s\n", yesNo(!cfg.NoPlaylist))
	fmt.Fprintf(w, "- Overwrite:      %s\n", cfg.Overwrite)
	fmt.Fprintf(w, "- Needs ffmpeg:   %s\n", yesNo(cfg.RequiresFFmpeg()))
	fmt.Fprintf(w, "- Transport:      %s\n", transport)

	args := append(options.Args(cfg), "--")
	args = append(args, req.URLs...)
	fmt.Fprintf(w, "- Command:        %s\n", util.ShellQuote(bin, args))
}
