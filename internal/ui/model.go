package ui

import (
	"context"
	"fmt"
	"strings"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"fordownload/internal/model"
	"fordownload/internal/progress"
)

const maxLogLines = 1000

// ErrInterrupted is the job error when the user quits while a download runs.
var ErrInterrupted = fmt.Errorf("download interrupted: %w", context.Canceled)

// DownloadFunc performs one download run, reporting progress to sink.
// It must call sink.Done exactly once.
type DownloadFunc func(ctx context.Context, req model.DownloadRequest, sink progress.Sink)

type phase int

const (
	phaseForm phase = iota
	phaseRunning
	phaseDone
)

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	download  DownloadFunc
	autoStart bool

	phase  phase
	form   form
	notice string

	// current job
	jobID   string
	req     model.DownloadRequest
	file    string
	percent float64 // -1 means unknown
	err     error

	logLines []string
	log      viewport.Model
	bar      bubblesprogress.Model
	spinner  spinner.Model

	width, height int
	styles        Styles

	// Internal event channel fed by teaSink
	eventCh chan tea.Msg
}

// Options configures the TUI.
type Options struct {
	// Defaults prefill the form.
	Defaults model.DownloadRequest
	Download DownloadFunc
	// AutoStart submits the prefilled form immediately.
	AutoStart bool
}

func NewModel(ctx context.Context, opts Options) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = sty.Spinner

	return Model{
		ctx:       c,
		cancel:    cancel,
		download:  opts.Download,
		autoStart: opts.AutoStart,
		form:      newForm(opts.Defaults),
		percent:   -1,
		log:       viewport.New(60, 8),
		bar:       bubblesprogress.New(bubblesprogress.WithDefaultGradient(), bubblesprogress.WithWidth(40)),
		spinner:   sp,
		styles:    sty,
		eventCh:   make(chan tea.Msg, 256),
	}
}

type autoStartMsg struct{}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.autoStart {
		cmds = append(cmds, func() tea.Msg { return autoStartMsg{} })
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.phase == phaseRunning {
				m.err = ErrInterrupted
			}
			m.cancel()
			return m, tea.Quit
		}
		switch m.phase {
		case phaseForm:
			return m.updateForm(msg)
		case phaseRunning:
			return m.updateRunning(msg)
		default:
			return m.updateDone(msg)
		}

	case autoStartMsg:
		return m.submit()

	case eventMsg:
		m.applyEvent(msg.Event)
		return m, m.listenEventsCmd()

	case doneMsg:
		m.finish(msg.Err)
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.phase == phaseForm {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "esc":
		m.cancel()
		return m, tea.Quit
	case "ctrl+l":
		m.clearLog()
		return m, m.form.clear()
	case "tab":
		return m, m.form.next()
	case "shift+tab":
		return m, m.form.prev()
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.form.focus == fieldOutput || m.form.focus == fieldQuality {
			return m, m.form.next()
		}
	}
	if m.form.isChoice() {
		switch msg.String() {
		case " ", "space", "enter", "left", "right":
			m.form.toggle()
		}
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m Model) updateRunning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x", "esc":
		m.appendLog(m.styles.Warning.Render("cancel is not supported; press ctrl+c to quit"))
		return m, nil
	}
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.cancel()
		return m, tea.Quit
	case "enter", "n":
		m.phase = phaseForm
		return m, m.form.setFocus(fieldURLs)
	case "ctrl+l":
		m.phase = phaseForm
		m.clearLog()
		return m, m.form.clear()
	}
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

// submit validates the form and starts a download.
func (m Model) submit() (tea.Model, tea.Cmd) {
	req, err := m.form.request()
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	if m.download == nil {
		m.notice = "downloads are not available"
		return m, nil
	}

	m.phase = phaseRunning
	m.req = req
	m.jobID = uuid.NewString()[:8]
	m.file = ""
	m.percent = -1
	m.err = nil
	m.appendLog(m.styles.Faint.Render(fmt.Sprintf("job %s: %d URL(s) as %s into %s",
		m.jobID, len(req.URLs), req.Format, req.OutputDir)))

	return m, tea.Batch(m.startCmd(req), m.listenEventsCmd(), m.spinner.Tick)
}

func (m Model) startCmd(req model.DownloadRequest) tea.Cmd {
	ctx, ch, download := m.ctx, m.eventCh, m.download
	return func() tea.Msg {
		download(ctx, req, teaSink{ctx: ctx, ch: ch})
		return nil
	}
}

func (m Model) listenEventsCmd() tea.Cmd {
	ctx, ch := m.ctx, m.eventCh
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-ch:
			return msg
		}
	}
}

func (m *Model) applyEvent(e progress.Event) {
	if e.Filename != "" && e.Filename != m.file {
		m.file = e.Filename
		m.appendLog("Destination: " + m.styles.File.Render(e.Filename))
	}
	switch e.Status {
	case progress.StatusDownloading:
		if e.HasPercent {
			m.percent = float64(e.Percent) / 100
		} else {
			m.percent = -1
		}
	case progress.StatusFinished:
		m.percent = 1
		m.appendLog(m.styles.Success.Render("Finished: " + displayName(e.Filename)))
	}
}

func (m *Model) finish(err error) {
	m.phase = phaseDone
	m.err = err
	if err != nil {
		m.appendLog(m.styles.Error.Render("Error: " + err.Error()))
		return
	}
	m.appendLog(m.styles.Success.Render("All downloads finished."))
}

func (m *Model) appendLog(line string) {
	if len(m.logLines) >= maxLogLines {
		m.logLines = m.logLines[1:]
	}
	m.logLines = append(m.logLines, strings.TrimRight(line, "\r\n"))
	m.log.SetContent(strings.Join(m.logLines, "\n"))
	m.log.GotoBottom()
}

func (m *Model) clearLog() {
	m.logLines = nil
	m.log.SetContent("")
	m.err = nil
	m.file = ""
	m.percent = -1
	m.notice = ""
}

func (m *Model) resize() {
	if m.width <= 0 {
		return
	}
	m.form.setWidth(m.width)
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.log.Width = w
	barW := w - 8
	if barW > 60 {
		barW = 60
	}
	m.bar.Width = barW
	if m.height > 0 {
		h := m.height - 12
		if h < 3 {
			h = 3
		}
		m.log.Height = h
	}
}

// Err returns the error of the last finished job, if any.
func (m Model) Err() error {
	return m.err
}
