// Package config resolves settings from flags, FORDOWNLOAD_* env vars,
// an optional config file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"fordownload/internal/dirs"
	"fordownload/internal/model"
	"fordownload/internal/options"
)

const envPrefix = "FORDOWNLOAD"

// Keys, also used as flag names with "_" replaced by "-".
const (
	KeyOutput    = "output"
	KeyFormat    = "format"
	KeyQuality   = "quality"
	KeyPlaylist  = "playlist"
	KeyOverwrite = "overwrite"
	KeyTransport = "transport"
	KeyDLBinary  = "dl_binary"
	KeyVerbose   = "verbose"
	KeyLogLevel  = "log_level"
	KeyLogJSON   = "log_json"
	KeyNoUI      = "no_ui"
)

var keys = []string{
	KeyOutput, KeyFormat, KeyQuality, KeyPlaylist, KeyOverwrite, KeyTransport,
	KeyDLBinary, KeyVerbose, KeyLogLevel, KeyLogJSON, KeyNoUI,
}

// Transports accepted by KeyTransport.
const (
	TransportSubprocess = "subprocess"
	TransportLibrary    = "library"
)

// Settings is the resolved configuration of one invocation.
// QualitySet is true when a quality came from a flag, env or config file,
// so an explicit 0 is not mistaken for "use the default".
type Settings struct {
	Output     string
	Format     string
	Quality    int
	QualitySet bool
	Playlist   bool
	Overwrite  bool
	Transport  string
	DLBinary   string
	Verbose    bool
	LogLevel   string
	LogJSON    bool
	NoUI       bool
}

// SetDefaults registers default values on v.
// Quality has no default so that IsSet only reports user supplied values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOutput, ".")
	v.SetDefault(KeyFormat, string(model.FormatMP4))
	v.SetDefault(KeyPlaylist, false)
	v.SetDefault(KeyOverwrite, false)
	v.SetDefault(KeyTransport, TransportSubprocess)
	v.SetDefault(KeyDLBinary, "")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyNoUI, false)
}

// Init wires v with defaults, env, flag bindings and the config file.
// configFile overrides the search under dirs.ConfigDir. A missing config
// file is not an error; a malformed one is.
func Init(v *viper.Viper, flags *pflag.FlagSet, configFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, k := range keys {
			f := flags.Lookup(strings.ReplaceAll(k, "_", "-"))
			if f == nil {
				continue
			}
			if err := v.BindPFlag(k, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if cfgDir, err := dirs.ConfigDir(); err == nil {
			v.AddConfigPath(cfgDir)
		}
		v.SetConfigName("config") // config.{yaml|yml|json|toml}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads the resolved settings from v.
func Load(v *viper.Viper) Settings {
	return Settings{
		Output:     v.GetString(KeyOutput),
		Format:     v.GetString(KeyFormat),
		Quality:    v.GetInt(KeyQuality),
		QualitySet: v.IsSet(KeyQuality),
		Playlist:   v.GetBool(KeyPlaylist),
		Overwrite:  v.GetBool(KeyOverwrite),
		Transport:  v.GetString(KeyTransport),
		DLBinary:   v.GetString(KeyDLBinary),
		Verbose:    v.GetBool(KeyVerbose),
		LogLevel:   v.GetString(KeyLogLevel),
		LogJSON:    v.GetBool(KeyLogJSON),
		NoUI:       v.GetBool(KeyNoUI),
	}
}

// EffectiveLogLevel is LogLevel, or "debug" when verbose and unset.
func (s Settings) EffectiveLogLevel() string {
	if s.LogLevel == "" && s.Verbose {
		return "debug"
	}
	return s.LogLevel
}

// Request turns the settings plus positional URLs into a download request.
func (s Settings) Request(urls []string) (model.DownloadRequest, error) {
	f, ok := model.ParseFormat(s.Format)
	if !ok {
		return model.DownloadRequest{}, fmt.Errorf("unknown format %q (want mp4, mp3 or best)", s.Format)
	}
	if s.Transport != TransportSubprocess && s.Transport != TransportLibrary {
		return model.DownloadRequest{}, fmt.Errorf("unknown transport %q (want %s or %s)",
			s.Transport, TransportSubprocess, TransportLibrary)
	}
	if s.QualitySet && s.Quality <= 0 {
		return model.DownloadRequest{}, &options.ConfigError{
			Field:  "quality",
			Reason: fmt.Sprintf("%d kbps must be positive", s.Quality),
		}
	}
	return model.DownloadRequest{
		URLs:              urls,
		OutputDir:         s.Output,
		Format:            f,
		AudioQualityKbps:  s.Quality,
		AllowPlaylist:     s.Playlist,
		OverwriteExisting: s.Overwrite,
	}, nil
}
