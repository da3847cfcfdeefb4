// Package playlist previews the entries of a YouTube playlist without downloading them.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ytget/ytdlp/v2"

	"fordownload/internal/util"
)

const (
	defaultTimeout   = 60 * time.Second
	videoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// ErrNotPlaylist is returned for URLs without a list parameter.
var ErrNotPlaylist = errors.New("not a playlist URL")

// Entry is one playlist item.
type Entry struct {
	ID    string
	Title string
	URL   string
}

type fetchFunc func(ctx context.Context, playlistID string, limit int) ([]Entry, error)

// Lister enumerates playlist entries.
type Lister struct {
	timeout time.Duration
	fetch   fetchFunc
}

// NewLister returns a Lister backed by github.com/ytget/ytdlp.
func NewLister() *Lister {
	return &Lister{timeout: defaultTimeout, fetch: fetchLibrary}
}

// SetTimeout bounds a single List call.
func (l *Lister) SetTimeout(d time.Duration) {
	l.timeout = d
}

// List returns up to limit entries (all when limit <= 0) of the playlist in rawURL.
func (l *Lister) List(ctx context.Context, rawURL string, limit int) ([]Entry, error) {
	id := util.PlaylistID(rawURL)
	if id == "" {
		return nil, fmt.Errorf("%q: %w", rawURL, ErrNotPlaylist)
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	entries, err := l.fetch(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list playlist %s: %w", id, err)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// URLs returns the watch URLs of entries, ready for a download request.
func URLs(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.URL)
	}
	return out
}

func fetchLibrary(ctx context.Context, playlistID string, limit int) ([]Entry, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		out = append(out, Entry{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(videoURLTemplate, it.VideoID),
		})
	}
	return out, nil
}
