package ui

import "fordownload/internal/progress"

type eventMsg struct {
	Event progress.Event
}

type doneMsg struct {
	Err error
}
