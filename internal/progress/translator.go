package progress

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Lines that announce the file subsequent percentages refer to.
	destinationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\[download\]\s+Destination:\s+(.+)`),
		regexp.MustCompile(`\[ExtractAudio\]\s+Destination:\s+(.+)`),
		regexp.MustCompile(`\[Merger\]\s+Merging formats into\s+"(.+)"`),
		regexp.MustCompile(`\[download\]\s+(.+?)\s+has already been downloaded`),
	}
	percentPattern = regexp.MustCompile(`\[download\]\s+(\d{1,3}(?:\.\d+)?)%`)
)

// Translator turns raw progress units into Events. It remembers the most
// recently announced filename and nothing else. A Translator serves a single
// run and is not safe for concurrent use.
type Translator struct {
	filename string
}

// NewTranslator returns a Translator with no filename observed yet.
func NewTranslator() *Translator {
	return &Translator{}
}

// Filename returns the most recently observed filename.
func (t *Translator) Filename() string {
	return t.filename
}

// Translate dispatches u to Record or Line.
func (t *Translator) Translate(u Unit) (Event, bool) {
	if u.Record != nil {
		return t.Record(*u.Record)
	}
	return t.Line(u.Line)
}

// Line parses a single line of yt-dlp output. Destination lines only update
// the remembered filename; percentage lines produce a downloading event.
// Unrecognized lines are ignored.
func (t *Translator) Line(line string) (Event, bool) {
	line = strings.TrimRight(line, "\r\n")
	for _, re := range destinationPatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				t.filename = name
			}
			return Event{}, false
		}
	}

	m := percentPattern.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Event{}, false
	}
	return Event{
		Status:     StatusDownloading,
		Filename:   t.filename,
		Percent:    clampPercent(int(pct)),
		HasPercent: true,
	}, true
}

// Record converts a structured progress record.
func (t *Translator) Record(r Record) (Event, bool) {
	if r.Filename != "" {
		t.filename = r.Filename
	}
	switch Status(strings.ToLower(r.Status)) {
	case StatusDownloading:
		e := Event{Status: StatusDownloading, Filename: t.filename}
		total := r.TotalBytes
		if total <= 0 {
			total = r.TotalBytesEstimate
		}
		if total > 0 && r.DownloadedBytes >= 0 {
			e.Percent = clampPercent(int(r.DownloadedBytes * 100 / total))
			e.HasPercent = true
		}
		return e, true
	case StatusFinished:
		return t.Finish(), true
	default:
		return Event{}, false
	}
}

// Finish returns the terminal event carrying the last known filename.
func (t *Translator) Finish() Event {
	return Event{Status: StatusFinished, Filename: t.filename}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
