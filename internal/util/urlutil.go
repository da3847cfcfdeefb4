package util

import (
	"net/url"
	"strings"
)

// SplitURLs splits free-form input (one or more URLs per line, or separated by
// spaces) into a list of non-empty entries, preserving order.
func SplitURLs(raw string) []string {
	var out []string
	for _, f := range strings.Fields(raw) {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// LooksLikeURL reports whether raw parses as an absolute http(s) URL.
// yt-dlp also accepts pseudo URLs such as "ytsearch:query"; only the
// interactive form insists on http(s).
func LooksLikeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// PlaylistID extracts the value of the "list" query parameter of a YouTube
// playlist URL, or "" when there is none.
func PlaylistID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err == nil && (u.Scheme == "" || u.Host == "") {
		if u2, e2 := url.Parse("https://" + strings.TrimSpace(raw)); e2 == nil {
			u = u2
		}
	}
	if err != nil || u == nil {
		return ""
	}
	return u.Query().Get("list")
}
