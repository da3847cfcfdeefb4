package ui

import (
	"fmt"
	"strings"

	"fordownload/internal/model"
)

func (m Model) View() string {
	var body string
	switch m.phase {
	case phaseForm:
		body = m.viewForm()
	case phaseRunning:
		body = m.viewRunning()
	default:
		body = m.viewDone()
	}
	return m.viewHeader() + "\n\n" + body
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("fordownload")
	sub := m.styles.Subtitle.Render("video and audio downloads via yt-dlp")
	return title + "  " + sub
}

func (m Model) viewForm() string {
	f := m.form
	var b strings.Builder
	b.WriteString(m.label(fieldURLs, "URLs") + "\n")
	b.WriteString(f.urls.View() + "\n\n")
	b.WriteString(m.label(fieldOutput, "Output") + " " + f.output.View() + "\n")
	b.WriteString(m.label(fieldFormat, "Format") + " " + m.choices(f.format) + "\n")

	quality := f.quality.View()
	if f.format != model.FormatMP3 {
		quality = m.styles.Faint.Render("(mp3 only)")
	}
	b.WriteString(m.label(fieldQuality, "Quality") + " " + quality + m.styles.Faint.Render(" kbps") + "\n")
	b.WriteString(m.label(fieldPlaylist, "Playlist") + " " + m.checkbox(f.playlist) + "\n")
	b.WriteString(m.label(fieldOverwrite, "Overwrite") + " " + m.checkbox(f.overwrite) + "\n")

	if m.notice != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.notice) + "\n")
	}
	b.WriteString(m.styles.Help.Render("tab: next field • space: toggle • ctrl+s: download • ctrl+l: clear • esc: quit"))
	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder
	b.WriteString(m.styles.Spinner.Render(m.spinner.View()) + " " + m.jobLine() + "\n")
	b.WriteString(m.viewProgress() + "\n\n")
	b.WriteString(m.styles.Box.Render(m.log.View()))
	b.WriteString(m.styles.Help.Render("↑/↓: scroll log • x: cancel • ctrl+c: quit"))
	return b.String()
}

func (m Model) viewDone() string {
	var b strings.Builder
	status := m.styles.Success.Render("✓ done")
	if m.err != nil {
		status = m.styles.Error.Render("✗ failed")
	}
	b.WriteString(status + " " + m.jobLine() + "\n")
	b.WriteString(m.viewProgress() + "\n\n")
	b.WriteString(m.styles.Box.Render(m.log.View()))
	b.WriteString(m.styles.Help.Render("enter: new download • ctrl+l: clear • q: quit"))
	return b.String()
}

func (m Model) jobLine() string {
	file := m.styles.Faint.Render("waiting for yt-dlp")
	if m.file != "" {
		file = m.styles.File.Render(truncate(displayName(m.file), 60))
	}
	return m.styles.Faint.Render("job "+m.jobID+" ") + file
}

func (m Model) viewProgress() string {
	if m.percent < 0 {
		return m.bar.ViewAs(0) + m.styles.Faint.Render("   --%")
	}
	return fmt.Sprintf("%s %5.1f%%", m.bar.ViewAs(m.percent), m.percent*100)
}

func (m Model) label(fd field, text string) string {
	if m.form.focus == fd {
		return m.styles.Focused.Render("› " + text)
	}
	return m.styles.Label.Render("  " + text)
}

func (m Model) choices(current model.Format) string {
	parts := make([]string, 0, len(formatCycle))
	for _, f := range formatCycle {
		if f == current {
			parts = append(parts, m.styles.Focused.UnsetWidth().Render("["+string(f)+"]"))
			continue
		}
		parts = append(parts, m.styles.Faint.Render(" "+string(f)+" "))
	}
	return strings.Join(parts, " ")
}

func (m Model) checkbox(on bool) string {
	if on {
		return m.styles.Value.Render("[x]")
	}
	return m.styles.Value.Render("[ ]")
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
