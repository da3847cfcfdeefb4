package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"fordownload/internal/model"
	"fordownload/internal/options"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("output", "o", ".", "")
	fs.StringP("format", "f", "mp4", "")
	fs.Int("quality", 0, "")
	fs.Bool("playlist", false, "")
	fs.Bool("overwrite", false, "")
	fs.String("transport", TransportSubprocess, "")
	fs.String("dl-binary", "", "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestDefaults(t *testing.T) {
	isolate(t)
	v := viper.New()
	if err := Init(v, nil, ""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s := Load(v)
	if s.Output != "." || s.Format != "mp4" || s.Transport != TransportSubprocess {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.Playlist || s.Overwrite || s.Quality != 0 {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}

func TestPrecedence(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "config.yaml")
	content := "output: from-file\nformat: mp3\nquality: 128\nplaylist: true\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FORDOWNLOAD_QUALITY", "256")
	t.Setenv("FORDOWNLOAD_OUTPUT", "from-env")

	fs := testFlags()
	if err := fs.Parse([]string{"-o", "from-flag"}); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	if err := Init(v, fs, file); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s := Load(v)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"flag beats env", s.Output, "from-flag"},
		{"env beats file", s.Quality, 256},
		{"file beats default", s.Format, "mp3"},
		{"file bool", s.Playlist, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestMissingExplicitConfigFile(t *testing.T) {
	isolate(t)
	v := viper.New()
	if err := Init(v, nil, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestMalformedConfigFile(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(file, []byte("output: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Init(viper.New(), nil, file); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRequest(t *testing.T) {
	s := Settings{Output: "dl", Format: "MP3", Quality: 320, Overwrite: true, Transport: TransportLibrary}
	req, err := s.Request([]string{"https://example.com/a"})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	want := model.DownloadRequest{
		URLs:              []string{"https://example.com/a"},
		OutputDir:         "dl",
		Format:            model.FormatMP3,
		AudioQualityKbps:  320,
		OverwriteExisting: true,
	}
	if req.OutputDir != want.OutputDir || req.Format != want.Format ||
		req.AudioQualityKbps != want.AudioQualityKbps || req.OverwriteExisting != want.OverwriteExisting ||
		req.AllowPlaylist != want.AllowPlaylist || len(req.URLs) != 1 {
		t.Fatalf("Request = %+v, want %+v", req, want)
	}

	if _, err := (Settings{Format: "flac", Transport: TransportSubprocess}).Request(nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if _, err := (Settings{Format: "mp4", Transport: "carrier-pigeon"}).Request(nil); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}

func TestExplicitZeroQuality(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     string
		wantSet bool
		wantErr bool
	}{
		{name: "unset", wantSet: false},
		{name: "flag zero", args: []string{"--quality", "0"}, wantSet: true, wantErr: true},
		{name: "env zero", env: "0", wantSet: true, wantErr: true},
		{name: "flag positive", args: []string{"--quality", "160"}, wantSet: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			if tc.env != "" {
				t.Setenv("FORDOWNLOAD_QUALITY", tc.env)
			}
			fs := testFlags()
			if err := fs.Parse(tc.args); err != nil {
				t.Fatal(err)
			}
			v := viper.New()
			if err := Init(v, fs, ""); err != nil {
				t.Fatalf("Init: %v", err)
			}
			s := Load(v)
			if s.QualitySet != tc.wantSet {
				t.Fatalf("QualitySet = %v, want %v", s.QualitySet, tc.wantSet)
			}

			s.Format = "mp3"
			_, err := s.Request([]string{"https://example.com/a"})
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("Request: %v", err)
				}
				return
			}
			var ce *options.ConfigError
			if !errors.As(err, &ce) || ce.Field != "quality" {
				t.Fatalf("Request error = %v, want quality ConfigError", err)
			}
		})
	}
}

func TestEffectiveLogLevel(t *testing.T) {
	if got := (Settings{Verbose: true}).EffectiveLogLevel(); got != "debug" {
		t.Fatalf("verbose: got %q", got)
	}
	if got := (Settings{Verbose: true, LogLevel: "error"}).EffectiveLogLevel(); got != "error" {
		t.Fatalf("explicit: got %q", got)
	}
	if got := (Settings{}).EffectiveLogLevel(); got != "" {
		t.Fatalf("default: got %q", got)
	}
}
