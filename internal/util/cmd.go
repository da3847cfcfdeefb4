package util

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// defaultTailLines is how many trailing output lines are kept for error reports.
const defaultTailLines = 20

// maxLineBytes caps one output line; the rest of an overlong line is dropped.
// yt-dlp can print very long lines (JSON dumps, long titles).
const maxLineBytes = 1024 * 1024

// CmdSpec describes a subprocess to run.
type CmdSpec struct {
	Path string   // Binary path
	Args []string // Arguments
	Env  []string // Optional environment variables (KEY=VALUE). If nil, inherit.
	Dir  string   // Working directory; empty = inherit.

	// Line is called for every line of the merged stdout/stderr stream, in the
	// order the child wrote them, on the goroutine that called Run.
	Line func(string)
	// Echo, when non-nil, receives a copy of every line (verbose mode).
	Echo io.Writer
	// CaptureOutput keeps the full merged output in CmdResult.Output.
	// Otherwise only the last TailLines lines are kept.
	CaptureOutput bool
	TailLines     int
}

// CmdResult contains captured output and exit status.
type CmdResult struct {
	Output []byte   // full output when CaptureOutput, else nil
	Tail   []string // last lines of output, oldest first
	Code   int
	Err    error
}

// CmdRunner runs subprocesses. Tests substitute fakes.
type CmdRunner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

type execRunner struct{}

// NewDefaultRunner returns a CmdRunner backed by os/exec.
func NewDefaultRunner() CmdRunner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	return Run(ctx, spec)
}

// Run executes the command and streams its combined output line by line.
// stdout and stderr share one pipe so interleaving matches what the child wrote.
// On non-zero exit, returns an error describing the exit code, while also
// populating CmdResult.Code and the captured tail.
func Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	if spec.Env != nil {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return CmdResult{Code: -1, Err: err}, err
	}
	// The child holds its own copy of the write end.
	_ = pw.Close()

	limit := spec.TailLines
	if limit <= 0 {
		limit = defaultTailLines
	}
	var (
		full strings.Builder
		tail = make([]string, 0, limit)
	)

	br := bufio.NewReaderSize(pr, 64*1024)
	var readErr error
	for {
		line, err := readLine(br, maxLineBytes)
		if err != nil && line == "" {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
		if spec.Line != nil {
			spec.Line(line)
		}
		if spec.Echo != nil {
			fmt.Fprintln(spec.Echo, line)
		}
		if spec.CaptureOutput {
			full.WriteString(line)
			full.WriteByte('\n')
		}
		if strings.TrimSpace(line) != "" {
			if len(tail) == limit {
				tail = tail[1:]
			}
			tail = append(tail, line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
	}
	if readErr != nil {
		// keep the child from blocking on a full pipe
		_, _ = io.Copy(io.Discard, pr)
	}
	_ = pr.Close()

	waitErr := cmd.Wait()

	code := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	res := CmdResult{
		Tail: tail,
		Code: code,
		Err:  waitErr,
	}
	if spec.CaptureOutput {
		res.Output = []byte(full.String())
	}

	if waitErr != nil {
		return res, fmt.Errorf("command failed (exit %d): %w", code, waitErr)
	}
	if readErr != nil {
		res.Err = readErr
		return res, fmt.Errorf("read output: %w", readErr)
	}
	return res, nil
}

// readLine returns the next line without its "\n" or "\r\n" terminator.
// Bytes past limit are discarded. A final unterminated line is returned with io.EOF.
func readLine(br *bufio.Reader, limit int) (string, error) {
	var buf []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if room := limit - len(buf); room > 0 {
			if len(chunk) > room {
				buf = append(buf, chunk[:room]...)
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		buf = bytes.TrimSuffix(buf, []byte("\n"))
		buf = bytes.TrimSuffix(buf, []byte("\r"))
		return string(buf), err
	}
}

// ShellQuote returns a printable shell-like command string for logging.
func ShellQuote(path string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	// Simple quoting: wrap in single quotes and escape existing single quotes.
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!%^=+") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}
