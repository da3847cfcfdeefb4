package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"fordownload/internal/model"
	"fordownload/internal/util"
)

// Audio quality bounds accepted by the form.
const (
	MinQualityKbps = 64
	MaxQualityKbps = 320
)

type field int

const (
	fieldURLs field = iota
	fieldOutput
	fieldQuality
	fieldFormat
	fieldPlaylist
	fieldOverwrite
	fieldCount
)

var formatCycle = []model.Format{model.FormatMP4, model.FormatMP3, model.FormatBest}

type form struct {
	urls    textarea.Model
	output  textinput.Model
	quality textinput.Model

	format    model.Format
	playlist  bool
	overwrite bool

	focus field
}

func newForm(def model.DownloadRequest) form {
	ta := textarea.New()
	ta.Placeholder = "One URL per line"
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.SetWidth(60)
	ta.SetValue(strings.Join(def.URLs, "\n"))

	out := textinput.New()
	out.Prompt = ""
	out.Placeholder = "."
	out.SetValue(def.OutputDir)

	q := textinput.New()
	q.Prompt = ""
	q.CharLimit = 3
	q.Width = 5
	q.Placeholder = strconv.Itoa(model.DefaultAudioQualityKbps)
	if def.AudioQualityKbps > 0 {
		q.SetValue(strconv.Itoa(def.AudioQualityKbps))
	}

	f := def.Format
	if f == "" {
		f = model.FormatMP4
	}
	fm := form{
		urls:      ta,
		output:    out,
		quality:   q,
		format:    f,
		playlist:  def.AllowPlaylist,
		overwrite: def.OverwriteExisting,
	}
	fm.setFocus(fieldURLs)
	return fm
}

// setFocus moves focus to fd and returns the cursor blink command.
func (f *form) setFocus(fd field) tea.Cmd {
	f.focus = fd
	f.urls.Blur()
	f.output.Blur()
	f.quality.Blur()
	switch fd {
	case fieldURLs:
		return f.urls.Focus()
	case fieldOutput:
		return f.output.Focus()
	case fieldQuality:
		return f.quality.Focus()
	}
	return nil
}

func (f *form) next() tea.Cmd {
	return f.setFocus((f.focus + 1) % fieldCount)
}

func (f *form) prev() tea.Cmd {
	return f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

// toggle flips the focused choice field; it reports false for text fields.
func (f *form) toggle() bool {
	switch f.focus {
	case fieldFormat:
		for i, v := range formatCycle {
			if v == f.format {
				f.format = formatCycle[(i+1)%len(formatCycle)]
				return true
			}
		}
		f.format = formatCycle[0]
	case fieldPlaylist:
		f.playlist = !f.playlist
	case fieldOverwrite:
		f.overwrite = !f.overwrite
	default:
		return false
	}
	return true
}

func (f *form) isChoice() bool {
	return f.focus == fieldFormat || f.focus == fieldPlaylist || f.focus == fieldOverwrite
}

// update forwards msg to the focused text input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldURLs:
		f.urls, cmd = f.urls.Update(msg)
	case fieldOutput:
		f.output, cmd = f.output.Update(msg)
	case fieldQuality:
		f.quality, cmd = f.quality.Update(msg)
	}
	return cmd
}

// clear empties the inputs and restores the default choices.
func (f *form) clear() tea.Cmd {
	f.urls.Reset()
	f.output.Reset()
	f.quality.Reset()
	f.format = model.FormatMP4
	f.playlist = false
	f.overwrite = false
	return f.setFocus(fieldURLs)
}

// request validates the form and builds a download request from it.
func (f form) request() (model.DownloadRequest, error) {
	urls := util.SplitURLs(f.urls.Value())
	if len(urls) == 0 {
		return model.DownloadRequest{}, fmt.Errorf("enter at least one URL")
	}
	for _, u := range urls {
		if !util.LooksLikeURL(u) {
			return model.DownloadRequest{}, fmt.Errorf("not an http(s) URL: %s", u)
		}
	}

	req := model.DownloadRequest{
		URLs:              urls,
		OutputDir:         strings.TrimSpace(f.output.Value()),
		Format:            f.format,
		AllowPlaylist:     f.playlist,
		OverwriteExisting: f.overwrite,
	}
	if req.OutputDir == "" {
		req.OutputDir = "."
	}
	if raw := strings.TrimSpace(f.quality.Value()); raw != "" && f.format == model.FormatMP3 {
		q, err := strconv.Atoi(raw)
		if err != nil || q < MinQualityKbps || q > MaxQualityKbps {
			return model.DownloadRequest{}, fmt.Errorf("audio quality must be %d-%d kbps", MinQualityKbps, MaxQualityKbps)
		}
		req.AudioQualityKbps = q
	}
	return req, nil
}

func (f *form) setWidth(w int) {
	if w <= 0 {
		return
	}
	inner := w - 16
	if inner < 20 {
		inner = 20
	}
	f.urls.SetWidth(inner)
	f.output.Width = inner
}
