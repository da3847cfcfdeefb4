package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fordownload/internal/config"
	"fordownload/internal/downloader"
	"fordownload/internal/logging"
	"fordownload/internal/model"
	"fordownload/internal/options"
	"fordownload/internal/progress"
	"fordownload/internal/ui"
	"fordownload/internal/util"
)

func defaultTransport(s config.Settings, log *logrus.Entry, echo io.Writer) downloader.Transport {
	if s.Transport == config.TransportLibrary {
		l := downloader.NewLibrary(s.DLBinary)
		l.Log = log
		return l
	}
	sp := downloader.NewSubprocess(s.DLBinary)
	sp.Log = log
	sp.Echo = echo
	return sp
}

// runDownload drives either the TUI or plain output for the given URLs.
func (a *app) runDownload(cmd *cobra.Command, args []string, forceTUI bool) error {
	req, err := a.settings.Request(util.SplitURLs(strings.Join(args, " ")))
	if err != nil {
		return fail(err)
	}

	if forceTUI || (!a.settings.NoUI && a.isTerminal()) {
		// The TUI owns the terminal; logs would tear the screen.
		a.log = logging.Discard()
		err := a.runTUI(cmd.Context(), ui.Options{
			Defaults:  req,
			Download:  a.downloadFunc(nil),
			AutoStart: len(req.URLs) > 0,
		})
		if err != nil {
			return fail(err)
		}
		return nil
	}

	var echo io.Writer
	if a.settings.Verbose {
		echo = cmd.ErrOrStderr()
	}
	sink := ui.NewPlainSink(cmd.OutOrStdout(), cmd.ErrOrStderr())
	err = a.download(cmd.Context(), req, echo, sink.Event)
	sink.Done(err)
	if err != nil {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

// downloadFunc adapts download to the TUI.
func (a *app) downloadFunc(echo io.Writer) ui.DownloadFunc {
	return func(ctx context.Context, req model.DownloadRequest, sink progress.Sink) {
		sink.Done(a.download(ctx, req, echo, sink.Event))
	}
}

// download validates req, prepares the output directory and runs yt-dlp once.
func (a *app) download(ctx context.Context, req model.DownloadRequest, echo io.Writer, onEvent func(progress.Event)) error {
	if err := options.Validate(req); err != nil {
		return err
	}
	if err := util.EnsureOutputDir(req.OutputDir); err != nil {
		return err
	}
	cfg := options.Build(req)

	entry := logrus.NewEntry(a.log)
	r := downloader.New(
		a.newTransport(a.settings, entry, echo),
		downloader.WithLogger(entry),
		downloader.WithStateHook(func(runID string, s downloader.State) {
			entry.WithField("run_id", runID).Debugf("run %s", s)
		}),
	)
	return r.Run(ctx, cfg, req.URLs, onEvent)
}
