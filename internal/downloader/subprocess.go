package downloader

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"fordownload/internal/model"
	"fordownload/internal/options"
	"fordownload/internal/progress"
	"fordownload/internal/util"
)

// Subprocess runs yt-dlp as a child process and scrapes its text output.
type Subprocess struct {
	// Binary is a custom yt-dlp path or name; empty searches PATH.
	Binary string
	Runner util.CmdRunner
	// Echo receives a copy of every output line when set.
	Echo io.Writer
	Log  *logrus.Entry
}

// NewSubprocess returns a subprocess transport backed by os/exec.
func NewSubprocess(binary string) *Subprocess {
	return &Subprocess{Binary: binary, Runner: util.NewDefaultRunner()}
}

func (s *Subprocess) Name() string { return "subprocess" }

func (s *Subprocess) Check(cfg model.DownloaderConfig) error {
	_, err := resolveTools(s.Binary, cfg)
	return err
}

func (s *Subprocess) Run(ctx context.Context, cfg model.DownloaderConfig, urls []string, emit func(progress.Unit)) error {
	path, err := resolveTools(s.Binary, cfg)
	if err != nil {
		return err
	}
	args := append(options.Args(cfg), "--")
	args = append(args, urls...)

	if s.Log != nil {
		s.Log.WithField("cmd", util.ShellQuote(path, args)).Debug("starting yt-dlp")
	}

	runner := s.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	res, err := runner.Run(ctx, util.CmdSpec{
		Path: path,
		Args: args,
		Line: func(line string) { emit(progress.LineUnit(line)) },
		Echo: s.Echo,
	})
	if err != nil {
		if res.Code == 0 {
			// clean exit, but the output stream broke
			return fmt.Errorf("read yt-dlp output: %w", err)
		}
		return &RunError{ExitCode: res.Code, Message: failureMessage(res.Tail), Err: err}
	}
	return nil
}
