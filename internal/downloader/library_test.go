package downloader

import (
	"fmt"
	"testing"

	"github.com/lrstanley/go-ytdlp"
	"github.com/m-mizutani/gt"

	"fordownload/internal/model"
	"fordownload/internal/options"
	"fordownload/internal/progress"
)

func TestRecordFromUpdate(t *testing.T) {
	u := ytdlp.ProgressUpdate{
		Filename:        "dl/Song.webm",
		DownloadedBytes: 300,
		TotalBytes:      1200,
	}
	u.Status = "downloading"
	rec := recordFromUpdate(u)
	gt.Equal(t, rec, progress.Record{Status: "downloading", Filename: "dl/Song.webm", DownloadedBytes: 300, TotalBytes: 1200})

	ev, ok := progress.NewTranslator().Record(rec)
	gt.Equal(t, ok, true)
	gt.Equal(t, ev.Percent, 25)
}

func TestLibraryName(t *testing.T) {
	gt.Equal(t, NewLibrary("").Name(), "library")
	gt.Equal(t, NewSubprocess("").Name(), "subprocess")
}

// longFlags maps the short spellings options.Args uses to go-ytdlp's.
var longFlags = map[string]string{
	"-o": "--output",
	"-f": "--format",
	"-x": "--extract-audio",
}

// flagValues indexes a yt-dlp argument list by flag; boolean flags map to "".
func flagValues(args []string) map[string]string {
	out := map[string]string{}
	for i := 0; i < len(args); i++ {
		name := args[i]
		if long, ok := longFlags[name]; ok {
			name = long
		}
		if name == "--newline" {
			continue
		}
		val := ""
		if i+1 < len(args) && (len(args[i+1]) == 0 || args[i+1][0] != '-') {
			val = args[i+1]
			i++
		}
		out[name] = val
	}
	return out
}

func TestApplyConfigMatchesArgs(t *testing.T) {
	var reqs []model.DownloadRequest
	for _, f := range []struct {
		format  model.Format
		quality int
	}{
		{model.FormatMP4, 0},
		{model.FormatMP3, 256},
		{model.FormatMP3, 0},
		{model.FormatBest, 0},
	} {
		for _, playlist := range []bool{false, true} {
			for _, overwrite := range []bool{false, true} {
				reqs = append(reqs, model.DownloadRequest{
					URLs:              []string{"https://example.com/v"},
					OutputDir:         "dl",
					Format:            f.format,
					AudioQualityKbps:  f.quality,
					AllowPlaylist:     playlist,
					OverwriteExisting: overwrite,
				})
			}
		}
	}

	for _, req := range reqs {
		name := fmt.Sprintf("%s/q%d/playlist=%v/overwrite=%v",
			req.Format, req.AudioQualityKbps, req.AllowPlaylist, req.OverwriteExisting)
		t.Run(name, func(t *testing.T) {
			cfg := options.Build(req)
			cmd := ytdlp.New()
			applyConfig(cmd, cfg)

			var got []string
			for _, f := range cmd.GetFlagConfig().ToFlags() {
				got = append(got, f.Raw()...)
			}
			gt.Equal(t, flagValues(got), flagValues(options.Args(cfg)))
		})
	}
}

func TestApplyConfigZeroOverwrite(t *testing.T) {
	cfg := options.Build(model.DownloadRequest{URLs: []string{"https://example.com/v"}, Format: model.FormatBest})
	cfg.Overwrite = ""
	cmd := ytdlp.New()
	applyConfig(cmd, cfg)

	var got []string
	for _, f := range cmd.GetFlagConfig().ToFlags() {
		got = append(got, f.Raw()...)
	}
	vals := flagValues(got)
	_, hasNo := vals["--no-overwrites"]
	_, hasForce := vals["--force-overwrites"]
	gt.Equal(t, hasNo, false)
	gt.Equal(t, hasForce, false)
	gt.Equal(t, vals, flagValues(options.Args(cfg)))
}
