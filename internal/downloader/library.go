package downloader

import (
	"context"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"fordownload/internal/model"
	"fordownload/internal/options"
	"fordownload/internal/progress"
)

const defaultProgressInterval = 250 * time.Millisecond

// Library drives yt-dlp through go-ytdlp and consumes its structured
// progress records instead of scraping text.
type Library struct {
	Binary   string
	Interval time.Duration
	Log      *logrus.Entry
}

// NewLibrary returns a structured-progress transport.
func NewLibrary(binary string) *Library {
	return &Library{Binary: binary, Interval: defaultProgressInterval}
}

func (l *Library) Name() string { return "library" }

func (l *Library) Check(cfg model.DownloaderConfig) error {
	_, err := resolveTools(l.Binary, cfg)
	return err
}

func (l *Library) Run(ctx context.Context, cfg model.DownloaderConfig, urls []string, emit func(progress.Unit)) error {
	path, err := resolveTools(l.Binary, cfg)
	if err != nil {
		return err
	}
	interval := l.Interval
	if interval <= 0 {
		interval = defaultProgressInterval
	}

	cmd := ytdlp.New().SetExecutable(path)
	applyConfig(cmd, cfg)
	cmd.ProgressFunc(interval, func(u ytdlp.ProgressUpdate) {
		emit(progress.RecordUnit(recordFromUpdate(u)))
	})

	if l.Log != nil {
		l.Log.WithField("urls", len(urls)).Debug("starting yt-dlp via go-ytdlp")
	}

	res, err := cmd.Run(ctx, urls...)
	if err != nil {
		re := &RunError{ExitCode: -1, Message: err.Error(), Err: err}
		if res != nil {
			re.ExitCode = res.ExitCode
			if msg := failureMessage(strings.Split(res.Stderr, "\n")); msg != "" {
				re.Message = msg
			}
		}
		return re
	}
	return nil
}

// applyConfig mirrors options.Args on the go-ytdlp builder.
func applyConfig(cmd *ytdlp.Command, cfg model.DownloaderConfig) {
	cmd.Output(cfg.OutputTemplate).Format(cfg.FormatSelector)
	if cfg.NoPlaylist {
		cmd.NoPlaylist()
	} else {
		cmd.YesPlaylist()
	}
	switch cfg.Overwrite {
	case model.OverwriteForce:
		cmd.ForceOverwrites()
	case model.OverwriteNever:
		cmd.NoOverwrites()
	}
	if cfg.IgnoreErrors {
		cmd.IgnoreErrors()
	}
	if cfg.NoWarnings {
		cmd.NoWarnings()
	}
	if cfg.MergeOutputFormat != "" {
		cmd.MergeOutputFormat(cfg.MergeOutputFormat)
	}
	for _, pp := range cfg.PostProcessors {
		if pp.Key != options.ExtractAudioKey {
			continue
		}
		cmd.ExtractAudio().AudioFormat(pp.Codec)
		if pp.QualityKbps > 0 {
			cmd.AudioQuality(options.AudioQuality(pp.QualityKbps))
		}
	}
}

func recordFromUpdate(u ytdlp.ProgressUpdate) progress.Record {
	return progress.Record{
		Status:          string(u.Status),
		Filename:        u.Filename,
		DownloadedBytes: int64(u.DownloadedBytes),
		TotalBytes:      int64(u.TotalBytes),
	}
}
