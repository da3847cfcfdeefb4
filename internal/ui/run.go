package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run launches the TUI and blocks until the user quits.
// It returns the error of the last job, so a failed download still fails the process.
func Run(ctx context.Context, opts Options) error {
	m := NewModel(ctx, opts)
	prog := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
