// Package progress normalizes yt-dlp progress output into Events.
package progress

// Status of a progress Event.
type Status string

const (
	StatusDownloading Status = "downloading"
	StatusFinished    Status = "finished"
)

// Event is the normalized progress notification handed to presentation layers.
// Percent is only meaningful when HasPercent is set; otherwise it is 0.
type Event struct {
	Status     Status
	Filename   string
	Percent    int
	HasPercent bool
}

// Record is a structured progress report, as produced by an in-process hook.
// Zero byte counts mean the value was not reported.
type Record struct {
	Status             string
	Filename           string
	DownloadedBytes    int64
	TotalBytes         int64
	TotalBytesEstimate int64
}

// Unit is one raw piece of progress output: either a text line or a Record.
type Unit struct {
	Line   string
	Record *Record
}

// LineUnit wraps a text line.
func LineUnit(line string) Unit { return Unit{Line: line} }

// RecordUnit wraps a structured record.
func RecordUnit(r Record) Unit { return Unit{Record: &r} }

// Sink receives the events of a run and its terminal outcome.
// Done is called exactly once; err is nil on success.
type Sink interface {
	Event(e Event)
	Done(err error)
}
