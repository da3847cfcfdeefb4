package options

import (
	"strconv"

	"fordownload/internal/model"
)

// Args renders cfg as yt-dlp command-line arguments (without the URLs).
// --newline keeps progress output line oriented so it can be scraped.
func Args(cfg model.DownloaderConfig) []string {
	args := []string{"--newline"}
	if cfg.IgnoreErrors {
		args = append(args, "--ignore-errors")
	}
	if cfg.NoWarnings {
		args = append(args, "--no-warnings")
	}
	if cfg.NoPlaylist {
		args = append(args, "--no-playlist")
	} else {
		args = append(args, "--yes-playlist")
	}
	switch cfg.Overwrite {
	case model.OverwriteForce:
		args = append(args, "--force-overwrites")
	case model.OverwriteNever:
		args = append(args, "--no-overwrites")
	}

	args = append(args, "-o", cfg.OutputTemplate)
	if cfg.FormatSelector != "" {
		args = append(args, "-f", cfg.FormatSelector)
	}
	if cfg.MergeOutputFormat != "" {
		args = append(args, "--merge-output-format", cfg.MergeOutputFormat)
	}
	for _, pp := range cfg.PostProcessors {
		if pp.Key != ExtractAudioKey {
			continue
		}
		args = append(args, "-x", "--audio-format", pp.Codec)
		if pp.QualityKbps > 0 {
			args = append(args, "--audio-quality", AudioQuality(pp.QualityKbps))
		}
	}
	return args
}

// AudioQuality formats a bitrate the way yt-dlp's --audio-quality expects it.
func AudioQuality(kbps int) string {
	return strconv.Itoa(kbps) + "K"
}
