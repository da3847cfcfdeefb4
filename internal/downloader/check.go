package downloader

import (
	"fordownload/internal/model"
	"fordownload/internal/util/deps"
)

// resolveTools locates yt-dlp, and ffmpeg when cfg merges or extracts audio.
func resolveTools(binary string, cfg model.DownloaderConfig) (string, error) {
	path, err := deps.FindDownloader(binary)
	if err != nil {
		return "", &ToolUnavailableError{Tool: "yt-dlp", Err: err}
	}
	if cfg.RequiresFFmpeg() {
		if _, err := deps.FindFFmpeg(); err != nil {
			return "", &ToolUnavailableError{Tool: "ffmpeg", Err: err}
		}
	}
	return path, nil
}
