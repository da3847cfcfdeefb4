package model

import "strings"

// Format represents the kind of output the user asked for.
type Format string

const (
	FormatMP4  Format = "mp4"
	FormatMP3  Format = "mp3"
	FormatBest Format = "best" // single best stream, no merging
)

// DefaultAudioQualityKbps is used for mp3 extraction when no quality is given.
const DefaultAudioQualityKbps = 192

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatMP4:
		return FormatMP4, true
	case FormatMP3:
		return FormatMP3, true
	case FormatBest, "generic":
		return FormatBest, true
	default:
		return "", false
	}
}

// DownloadRequest is what a presentation layer collects for one user-initiated run.
type DownloadRequest struct {
	URLs              []string
	OutputDir         string // "" means the current directory
	Format            Format
	AudioQualityKbps  int // 0 = unset; only meaningful for mp3
	AllowPlaylist     bool
	OverwriteExisting bool
}

// EffectiveAudioQuality returns the requested mp3 bitrate or the default.
func (r DownloadRequest) EffectiveAudioQuality() int {
	if r.AudioQualityKbps <= 0 {
		return DefaultAudioQualityKbps
	}
	return r.AudioQualityKbps
}

// OverwritePolicy is passed through to the external tool as is.
type OverwritePolicy string

const (
	OverwriteNever OverwritePolicy = "never" // --no-overwrites
	OverwriteForce OverwritePolicy = "force" // --force-overwrites
)

// PostProcessor is a step the external tool runs after fetching the raw streams.
type PostProcessor struct {
	Key         string // e.g. FFmpegExtractAudio
	Codec       string
	QualityKbps int
}

// DownloaderConfig is the external tool configuration derived from a DownloadRequest.
// It is built fresh for every request and never modified afterwards.
type DownloaderConfig struct {
	OutputTemplate    string // placeholders are resolved by yt-dlp
	FormatSelector    string
	MergeOutputFormat string // empty when streams are not merged
	PostProcessors    []PostProcessor
	NoPlaylist        bool
	Overwrite         OverwritePolicy
	IgnoreErrors      bool
	NoWarnings        bool
}

// RequiresFFmpeg reports whether yt-dlp will need ffmpeg to honour the config.
func (c DownloaderConfig) RequiresFFmpeg() bool {
	return c.MergeOutputFormat != "" || len(c.PostProcessors) > 0
}
