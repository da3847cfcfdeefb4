package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/gt"

	"fordownload/internal/model"
	"fordownload/internal/progress"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func noopDownload(context.Context, model.DownloadRequest, progress.Sink) {}

func TestFormRequest(t *testing.T) {
	cases := []struct {
		name    string
		def     model.DownloadRequest
		quality string
		wantErr string
		check   func(t *testing.T, r model.DownloadRequest)
	}{
		{
			name: "defaults",
			def:  model.DownloadRequest{URLs: []string{"https://a.example/1", "https://b.example/2"}},
			check: func(t *testing.T, r model.DownloadRequest) {
				gt.Equal(t, len(r.URLs), 2)
				gt.Equal(t, r.OutputDir, ".")
				gt.Equal(t, r.Format, model.FormatMP4)
				gt.Equal(t, r.AudioQualityKbps, 0)
			},
		},
		{
			name:    "mp3 quality",
			def:     model.DownloadRequest{URLs: []string{"https://a.example/1"}, Format: model.FormatMP3, OutputDir: "music"},
			quality: "256",
			check: func(t *testing.T, r model.DownloadRequest) {
				gt.Equal(t, r.AudioQualityKbps, 256)
				gt.Equal(t, r.OutputDir, "music")
			},
		},
		{
			name:    "quality ignored for mp4",
			def:     model.DownloadRequest{URLs: []string{"https://a.example/1"}},
			quality: "999",
			check: func(t *testing.T, r model.DownloadRequest) {
				gt.Equal(t, r.AudioQualityKbps, 0)
			},
		},
		{name: "no urls", wantErr: "at least one URL"},
		{name: "not a url", def: model.DownloadRequest{URLs: []string{"ftp://x"}}, wantErr: "not an http(s) URL"},
		{
			name:    "quality out of range",
			def:     model.DownloadRequest{URLs: []string{"https://a.example/1"}, Format: model.FormatMP3},
			quality: "32",
			wantErr: "64-320",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newForm(tc.def)
			if tc.quality != "" {
				f.quality.SetValue(tc.quality)
			}
			r, err := f.request()
			if tc.wantErr != "" {
				gt.Error(t, err)
				gt.String(t, err.Error()).Contains(tc.wantErr)
				return
			}
			gt.NoError(t, err)
			tc.check(t, r)
		})
	}
}

func TestFormToggles(t *testing.T) {
	m := NewModel(context.Background(), Options{Download: noopDownload})
	// URLs -> Output -> Quality -> Format
	m = send(t, m, key("tab"), key("tab"), key("tab"))
	gt.Equal(t, m.form.focus, fieldFormat)

	m = send(t, m, key(" "))
	gt.Equal(t, m.form.format, model.FormatMP3)
	m = send(t, m, key(" "), key(" "))
	gt.Equal(t, m.form.format, model.FormatMP4)

	m = send(t, m, key("tab"), key(" "))
	gt.Equal(t, m.form.playlist, true)
	m = send(t, m, key("tab"), key("enter"))
	gt.Equal(t, m.form.overwrite, true)

	// wraps around to URLs
	m = send(t, m, key("tab"))
	gt.Equal(t, m.form.focus, fieldURLs)
}

func TestSubmitInvalidShowsNotice(t *testing.T) {
	m := NewModel(context.Background(), Options{Download: noopDownload})
	m = send(t, m, key("ctrl+s"))
	gt.Equal(t, m.phase, phaseForm)
	gt.String(t, m.notice).Contains("at least one URL")
	gt.String(t, m.View()).Contains("at least one URL")
}

func TestRunLifecycle(t *testing.T) {
	m := NewModel(context.Background(), Options{
		Defaults: model.DownloadRequest{URLs: []string{"https://a.example/v"}},
		Download: noopDownload,
	})
	m = send(t, m, key("ctrl+s"))
	gt.Equal(t, m.phase, phaseRunning)
	gt.Equal(t, len(m.jobID), 8)

	m = send(t, m,
		eventMsg{Event: progress.Event{Status: progress.StatusDownloading, Filename: "out/V.mp4", Percent: 42, HasPercent: true}},
	)
	gt.Equal(t, m.file, "out/V.mp4")
	gt.Equal(t, m.percent, 0.42)

	m = send(t, m, key("x"))
	gt.Equal(t, m.phase, phaseRunning)
	gt.String(t, strings.Join(m.logLines, "\n")).Contains("cancel is not supported")

	m = send(t, m,
		eventMsg{Event: progress.Event{Status: progress.StatusFinished, Filename: "out/V.mp4"}},
		doneMsg{},
	)
	gt.Equal(t, m.phase, phaseDone)
	gt.Equal(t, m.percent, 1.0)
	gt.NoError(t, m.Err())
	gt.String(t, m.View()).Contains("done")
}

func TestRunFailureAndClear(t *testing.T) {
	m := NewModel(context.Background(), Options{
		Defaults: model.DownloadRequest{URLs: []string{"https://a.example/v"}},
		Download: noopDownload,
	})
	m = send(t, m, key("ctrl+s"), doneMsg{Err: errors.New("yt-dlp exited with code 1")})
	gt.Equal(t, m.phase, phaseDone)
	gt.Error(t, m.Err())
	gt.String(t, strings.Join(m.logLines, "\n")).Contains("exited with code 1")

	m = send(t, m, key("ctrl+l"))
	gt.Equal(t, m.phase, phaseForm)
	gt.Equal(t, len(m.logLines), 0)
	gt.Equal(t, m.form.urls.Value(), "")
	gt.NoError(t, m.Err())
}

func TestAutoStart(t *testing.T) {
	m := NewModel(context.Background(), Options{
		Defaults:  model.DownloadRequest{URLs: []string{"https://a.example/v"}},
		Download:  noopDownload,
		AutoStart: true,
	})
	m = send(t, m, autoStartMsg{})
	gt.Equal(t, m.phase, phaseRunning)
}

func TestQuitWhileRunningFails(t *testing.T) {
	m := NewModel(context.Background(), Options{
		Defaults: model.DownloadRequest{URLs: []string{"https://a.example/v"}},
		Download: noopDownload,
	})
	m = send(t, m, key("ctrl+s"))
	gt.Equal(t, m.phase, phaseRunning)

	next, cmd := m.Update(key("ctrl+c"))
	m = next.(Model)
	gt.Equal(t, cmd != nil, true)
	gt.Error(t, m.Err())
	gt.Equal(t, errors.Is(m.Err(), ErrInterrupted), true)
	gt.Equal(t, errors.Is(m.Err(), context.Canceled), true)
	gt.Error(t, m.ctx.Err())
}

func TestQuitFromFormSucceeds(t *testing.T) {
	m := NewModel(context.Background(), Options{Download: noopDownload})
	m = send(t, m, key("ctrl+c"))
	gt.NoError(t, m.Err())

	m = NewModel(context.Background(), Options{
		Defaults: model.DownloadRequest{URLs: []string{"https://a.example/v"}},
		Download: noopDownload,
	})
	m = send(t, m, key("ctrl+s"), doneMsg{}, key("ctrl+c"))
	gt.NoError(t, m.Err())
}
