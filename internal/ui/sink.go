package ui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"fordownload/internal/progress"
)

// PlainSink prints progress as plain lines, for pipes and --no-ui.
type PlainSink struct {
	w    io.Writer
	errW io.Writer

	mu       sync.Mutex
	lastFile string
	lastPct  int
	printed  bool

	downloading *color.Color
	finished    *color.Color
	failed      *color.Color
}

// NewPlainSink returns a sink writing progress to w and the terminal error to errW.
func NewPlainSink(w, errW io.Writer) *PlainSink {
	if errW == nil {
		errW = w
	}
	return &PlainSink{
		w:           w,
		errW:        errW,
		downloading: color.New(color.FgCyan),
		finished:    color.New(color.FgGreen, color.Bold),
		failed:      color.New(color.FgRed, color.Bold),
	}
}

// Event prints one line per event, skipping exact repeats.
func (s *PlainSink) Event(e progress.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := displayName(e.Filename)
	switch e.Status {
	case progress.StatusDownloading:
		pct := -1
		if e.HasPercent {
			pct = e.Percent
		}
		if s.printed && e.Filename == s.lastFile && pct == s.lastPct {
			return
		}
		s.lastFile, s.lastPct, s.printed = e.Filename, pct, true
		s.downloading.Fprint(s.w, "Downloading")
		if pct < 0 {
			fmt.Fprintf(s.w, " %s\n", name)
			return
		}
		fmt.Fprintf(s.w, " %s: %d%%\n", name, pct)
	case progress.StatusFinished:
		s.printed = false
		s.finished.Fprint(s.w, "Finished:")
		fmt.Fprintf(s.w, " %s\n", name)
	}
}

// Done prints the terminal error, if any.
func (s *PlainSink) Done(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed.Fprint(s.errW, "Error:")
	fmt.Fprintf(s.errW, " %v\n", err)
}

func displayName(filename string) string {
	if filename == "" {
		return "(unknown file)"
	}
	return filepath.Base(filename)
}

// teaSink forwards events into the bubbletea loop.
// Downloading events are dropped when the loop falls behind; finished events
// and the terminal result always get through unless ctx is done.
type teaSink struct {
	ctx context.Context
	ch  chan<- tea.Msg
}

func (s teaSink) Event(e progress.Event) {
	msg := eventMsg{Event: e}
	if e.Status == progress.StatusFinished {
		s.send(msg)
		return
	}
	select {
	case s.ch <- msg:
	default:
	}
}

func (s teaSink) Done(err error) {
	s.send(doneMsg{Err: err})
}

func (s teaSink) send(msg tea.Msg) {
	select {
	case s.ch <- msg:
	case <-s.ctx.Done():
	}
}
