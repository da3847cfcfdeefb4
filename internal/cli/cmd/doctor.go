package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fordownload/internal/util"
	"fordownload/internal/util/deps"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (yt-dlp/youtube-dl, ffmpeg)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			runner := util.NewDefaultRunner()

			var errs []error
			if dl, err := deps.FindDownloader(a.settings.DLBinary); err != nil {
				fmt.Fprintf(out, "Downloader: missing (%v)\n", err)
				errs = append(errs, err)
			} else {
				fmt.Fprintf(out, "Downloader: %s %s\n", dl, version(cmd, runner, dl, "--version"))
			}
			if ff, err := deps.FindFFmpeg(); err != nil {
				fmt.Fprintf(out, "FFmpeg:     missing (%v)\n", err)
				fmt.Fprintln(out, "            mp4 merging and mp3 extraction need ffmpeg")
				errs = append(errs, err)
			} else {
				fmt.Fprintf(out, "FFmpeg:     %s %s\n", ff, version(cmd, runner, ff, "-version"))
			}
			if len(errs) > 0 {
				return fail(errors.Join(errs...))
			}
			return nil
		},
	}
}

func version(cmd *cobra.Command, runner util.CmdRunner, path, flag string) string {
	v, err := deps.Version(cmd.Context(), runner, path, flag)
	if err != nil || v == "" {
		return ""
	}
	return "(" + v + ")"
}
