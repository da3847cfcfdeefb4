// Package deps locates the external tools fordownload delegates to.
package deps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"fordownload/internal/util"
)

// ErrNotFound is wrapped by every lookup failure.
var ErrNotFound = errors.New("executable not found")

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// FindDownloader returns the path to yt-dlp or youtube-dl.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindDownloader(customPath string) (string, error) {
	if customPath != "" {
		if fi, err := os.Stat(customPath); err == nil && !fi.IsDir() {
			return customPath, nil
		}
		if p, err := lookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("could not find downloader at %q: %w", customPath, ErrNotFound)
	}
	if p, err := lookPath("yt-dlp"); err == nil {
		return p, nil
	}
	if p, err := lookPath("youtube-dl"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find yt-dlp or youtube-dl in PATH, install yt-dlp: %w", ErrNotFound)
}

// FindFFmpeg returns the path to the ffmpeg binary in PATH.
func FindFFmpeg() (string, error) {
	if p, err := lookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find ffmpeg in PATH, install ffmpeg: %w", ErrNotFound)
}

// Version runs "<path> <flag>" and returns the first line of its output.
func Version(ctx context.Context, runner util.CmdRunner, path, flag string) (string, error) {
	res, err := runner.Run(ctx, util.CmdSpec{
		Path:          path,
		Args:          []string{flag},
		CaptureOutput: true,
	})
	if err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(strings.TrimSpace(string(res.Output)), "\n")
	return strings.TrimSpace(first), nil
}
