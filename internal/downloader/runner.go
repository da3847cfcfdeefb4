// Package downloader drives yt-dlp for a batch of URLs and relays its progress.
package downloader

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sirupsen/logrus"

	"fordownload/internal/model"
	"fordownload/internal/options"
	"fordownload/internal/progress"
)

// State of a single Run invocation.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Transport starts the external tool and feeds its raw progress output to emit.
// Run blocks until the tool exits and must not call emit after returning.
type Transport interface {
	Name() string
	// Check verifies the tools cfg needs are installed, without starting them.
	Check(cfg model.DownloaderConfig) error
	Run(ctx context.Context, cfg model.DownloaderConfig, urls []string, emit func(progress.Unit)) error
}

// Runner is transport agnostic: it validates, translates and delivers events.
// A Runner may be reused; every Run is an independent invocation.
type Runner struct {
	transport Transport
	log       *logrus.Entry
	stateHook func(runID string, s State)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *logrus.Entry) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// WithStateHook registers fn to observe state transitions of every invocation.
func WithStateHook(fn func(runID string, s State)) Option {
	return func(r *Runner) {
		r.stateHook = fn
	}
}

// New constructs a Runner over the given transport.
func New(t Transport, opts ...Option) *Runner {
	r := &Runner{transport: t}
	for _, o := range opts {
		o(r)
	}
	if r.log == nil {
		r.log = logrus.NewEntry(logrus.StandardLogger())
	}
	return r
}

// Transport returns the transport the runner drives.
func (r *Runner) Transport() Transport {
	return r.transport
}

// Run invokes the external tool once for the whole batch of urls and calls
// onEvent synchronously, in stream order, for every translated event. On success
// the last delivered event is a finished event. The run is not retried.
func (r *Runner) Run(ctx context.Context, cfg model.DownloaderConfig, urls []string, onEvent func(progress.Event)) error {
	if len(urls) == 0 {
		return &options.ConfigError{Field: "urls", Reason: "at least one URL is required"}
	}
	if onEvent == nil {
		onEvent = func(progress.Event) {}
	}

	inv := &invocation{id: uuid.NewString(), state: StateIdle, hook: r.stateHook}
	log := r.log.WithFields(logrus.Fields{
		"run_id":    inv.id,
		"transport": r.transport.Name(),
	})

	if err := r.transport.Check(cfg); err != nil {
		inv.transition(StateFailed)
		log.WithError(err).Error("external tool unavailable")
		return goerr.Wrap(err, "cannot start download",
			goerr.V("run_id", inv.id), goerr.V("transport", r.transport.Name()))
	}

	var (
		mu           sync.Mutex
		tr           = progress.NewTranslator()
		lastFinished bool
		closed       bool
		delivered    int
	)
	emit := func(u progress.Unit) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		ev, ok := tr.Translate(u)
		if !ok {
			return
		}
		lastFinished = ev.Status == progress.StatusFinished
		delivered++
		onEvent(ev)
	}

	inv.transition(StateRunning)
	log.WithField("urls", len(urls)).Info("download started")

	err := r.transport.Run(ctx, cfg, urls, emit)

	mu.Lock()
	closed = true
	if err == nil && !lastFinished {
		onEvent(tr.Finish())
		delivered++
	}
	mu.Unlock()

	if err != nil {
		inv.transition(StateFailed)
		log.WithError(err).WithField("events", delivered).Error("download failed")
		return goerr.Wrap(err, "download failed",
			goerr.V("run_id", inv.id), goerr.V("transport", r.transport.Name()))
	}
	inv.transition(StateCompleted)
	log.WithFields(logrus.Fields{"events": delivered, "file": tr.Filename()}).Info("download completed")
	return nil
}

type invocation struct {
	id    string
	state State
	hook  func(runID string, s State)
}

// transition moves to next and reports it; terminal states are final.
func (i *invocation) transition(next State) {
	if i.state == StateCompleted || i.state == StateFailed {
		return
	}
	i.state = next
	if i.hook != nil {
		i.hook(i.id, next)
	}
}
