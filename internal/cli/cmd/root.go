package cmd

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"fordownload/internal/config"
	"fordownload/internal/downloader"
	"fordownload/internal/logging"
	"fordownload/internal/playlist"
	"fordownload/internal/ui"
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

// ExitError wraps an error with a process exit code.
// A nil Err means the failure was already reported.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func fail(err error) error {
	return &ExitError{Code: ExitFailure, Err: err}
}

// app holds what commands share once flags and config are resolved.
// Tests replace the function fields.
type app struct {
	v        *viper.Viper
	settings config.Settings
	log      *logrus.Logger

	newTransport func(s config.Settings, log *logrus.Entry, echo io.Writer) downloader.Transport
	newLister    func() playlistLister
	isTerminal   func() bool
	runTUI       func(ctx context.Context, opts ui.Options) error
}

func newApp() *app {
	return &app{
		v:            viper.New(),
		newTransport: defaultTransport,
		newLister:    func() playlistLister { return playlist.NewLister() },
		isTerminal:   func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		runTUI:       ui.Run,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fordownload [flags] URL...",
		Short: "Download video or audio with yt-dlp",
		Long: "fordownload turns a list of URLs into downloaded files through yt-dlp.\n" +
			"It saves mp4 video up to 1080p or mp3 audio at a chosen bitrate and shows live progress.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.MinimumNArgs(1),
		PersistentPreRunE: a.resolve,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDownload(cmd, args, false)
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("output", "o", ".", "Output directory")
	pf.StringP("format", "f", "mp4", "Output format: mp4 or mp3")
	pf.Int("quality", 0, "mp3 bitrate in kbps (default 192)")
	pf.Bool("playlist", false, "Download whole playlists instead of the single video")
	pf.Bool("overwrite", false, "Overwrite existing files")
	pf.String("transport", config.TransportSubprocess, "How yt-dlp is driven: subprocess or library")
	pf.String("dl-binary", "", "Path to yt-dlp or youtube-dl")
	pf.BoolP("verbose", "v", false, "Show the yt-dlp command and its output")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.Bool("log-json", false, "Log as JSON")
	pf.Bool("no-ui", false, "Disable the TUI; print plain progress lines")
	pf.String("config", "", "Config file (default: config.yaml in the user config dir)")

	root.AddCommand(newTuiCmd(a))
	root.AddCommand(newPlanCmd(a))
	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newPlaylistCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newCompletionCmd())

	return root
}

// resolve loads settings and builds the logger before any command runs.
func (a *app) resolve(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	if err := config.Init(a.v, cmd.Root().PersistentFlags(), configFile); err != nil {
		return fail(err)
	}
	a.settings = config.Load(a.v)

	log, err := logging.New(a.settings.EffectiveLogLevel(), a.settings.LogJSON, cmd.ErrOrStderr())
	if err != nil {
		return fail(err)
	}
	a.log = log
	return nil
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	return newRootCmd(newApp()).ExecuteContext(ctx)
}
