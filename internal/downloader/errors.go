package downloader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolUnavailable is matched by every ToolUnavailableError.
var ErrToolUnavailable = errors.New("external tool unavailable")

// ToolUnavailableError reports that yt-dlp or ffmpeg could not be found.
// It is returned before any process is started.
type ToolUnavailableError struct {
	Tool string
	Err  error
}

func (e *ToolUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s is not available", e.Tool)
	}
	return fmt.Sprintf("%s is not available: %v", e.Tool, e.Err)
}

func (e *ToolUnavailableError) Unwrap() error { return e.Err }

func (e *ToolUnavailableError) Is(target error) bool { return target == ErrToolUnavailable }

// RunError reports that the external tool ran but exited abnormally.
// Events delivered before the failure stand.
type RunError struct {
	ExitCode int
	Message  string
	Err      error
}

func (e *RunError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("yt-dlp exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("yt-dlp exited with code %d: %s", e.ExitCode, e.Message)
}

func (e *RunError) Unwrap() error { return e.Err }

// failureMessage picks the most useful line of the tool's trailing output:
// the last "ERROR:" line if any, else the last line.
func failureMessage(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		if strings.HasPrefix(l, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(l, "ERROR:"))
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
