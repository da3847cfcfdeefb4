// Package options maps a DownloadRequest to the yt-dlp configuration that fulfils it.
package options

import (
	"fmt"
	"os"
	"strings"

	"fordownload/internal/model"
)

const (
	// TitleTemplate is appended to the output directory; yt-dlp fills in the fields.
	TitleTemplate = "%(title)s.%(ext)s"

	// SelectorMP4 prefers an h264/m4a pair, then any pair, then a single stream,
	// all capped at 1080p, and finally whatever is best.
	SelectorMP4 = "bestvideo[ext=mp4][height<=1080][vcodec^=avc1]+bestaudio[ext=m4a]" +
		"/bestvideo[height<=1080]+bestaudio" +
		"/best[height<=1080]" +
		"/best"
	SelectorAudio = "bestaudio/best"
	SelectorBest  = "best"

	ExtractAudioKey = "FFmpegExtractAudio"
)

// ConfigError reports a request that must not reach the download runner.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the request invariants the builder relies on.
func Validate(req model.DownloadRequest) error {
	if len(req.URLs) == 0 {
		return &ConfigError{Field: "urls", Reason: "at least one URL is required"}
	}
	for i, u := range req.URLs {
		if strings.TrimSpace(u) == "" {
			return &ConfigError{Field: "urls", Reason: fmt.Sprintf("URL #%d is empty", i+1)}
		}
	}
	if _, ok := model.ParseFormat(string(req.Format)); !ok {
		return &ConfigError{Field: "format", Reason: fmt.Sprintf("%q (valid: mp4|mp3|best)", req.Format)}
	}
	if req.AudioQualityKbps < 0 {
		return &ConfigError{Field: "quality", Reason: fmt.Sprintf("%d kbps must be positive", req.AudioQualityKbps)}
	}
	return nil
}

// Build derives the downloader configuration. It performs no I/O and never fails;
// callers are expected to run Validate first.
func Build(req model.DownloadRequest) model.DownloaderConfig {
	cfg := model.DownloaderConfig{
		OutputTemplate: OutputTemplate(req.OutputDir),
		NoPlaylist:     !req.AllowPlaylist,
		Overwrite:      model.OverwriteNever,
		IgnoreErrors:   true,
		NoWarnings:     true,
	}
	if req.OverwriteExisting {
		cfg.Overwrite = model.OverwriteForce
	}

	format, _ := model.ParseFormat(string(req.Format))
	switch format {
	case model.FormatMP4:
		cfg.FormatSelector = SelectorMP4
		cfg.MergeOutputFormat = "mp4"
	case model.FormatMP3:
		cfg.FormatSelector = SelectorAudio
		cfg.PostProcessors = []model.PostProcessor{{
			Key:         ExtractAudioKey,
			Codec:       "mp3",
			QualityKbps: req.EffectiveAudioQuality(),
		}}
	default:
		cfg.FormatSelector = SelectorBest
	}
	return cfg
}

// OutputTemplate joins dir and TitleTemplate without cleaning dir, so the
// template always starts with the directory exactly as configured.
func OutputTemplate(dir string) string {
	if dir == "" {
		dir = "."
	}
	sep := string(os.PathSeparator)
	if strings.HasSuffix(dir, sep) || strings.HasSuffix(dir, "/") {
		return dir + TitleTemplate
	}
	return dir + sep + TitleTemplate
}
