// Package config loads flowcanvas settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/flowcanvas/config.toml, falling
// back to ~/.config/flowcanvas/config.toml. A missing file is not an error:
// [Load] returns [Default] in that case. Keys missing from the file keep
// their default values.
//
//	[editor]
//	id_policy = "sequential"          # or "uuid"
//	curvature = 0.5
//	reroute_curvature_start_end = 0.5
//	reroute_curvature = 0.5
//	reroute_fix_curvature = false
//
//	[zoom]
//	min = 0.5
//	max = 1.6
//	step = 0.1
//
//	[cache]
//	dir = ""                          # default: $XDG_CACHE_HOME/flowcanvas
//	redis_addr = ""                   # use Redis instead of files when set
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	cors_origin = "*"                 # empty disables CORS headers
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowcanvas/pkg/canvas"
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/render/curve"
)

const appName = "flowcanvas"

// Config is the complete settings file.
type Config struct {
	Editor Editor `toml:"editor"`
	Zoom   Zoom   `toml:"zoom"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Editor holds graph and curve settings.
type Editor struct {
	IDPolicy                 string  `toml:"id_policy" validate:"oneof=sequential uuid"`
	Curvature                float64 `toml:"curvature" validate:"gte=0,lte=1"`
	RerouteCurvatureStartEnd float64 `toml:"reroute_curvature_start_end" validate:"gte=0,lte=1"`
	RerouteCurvature         float64 `toml:"reroute_curvature" validate:"gte=0,lte=1"`
	RerouteFixCurvature      bool    `toml:"reroute_fix_curvature"`
}

// Zoom holds the zoom limits.
type Zoom struct {
	Min  float64 `toml:"min" validate:"gt=0"`
	Max  float64 `toml:"max" validate:"gtefield=Min"`
	Step float64 `toml:"step" validate:"gt=0"`
}

// Cache selects the preview cache backend.
type Cache struct {
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr" validate:"omitempty,hostname_port"`
	TTL       Duration `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr" validate:"required"`
	// CORSOrigin is sent as Access-Control-Allow-Origin.
	CORSOrigin string `toml:"cors_origin"`
}

// Duration is a time.Duration read from a TOML string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Editor: Editor{
			IDPolicy:                 string(flow.PolicySequential),
			Curvature:                0.5,
			RerouteCurvatureStartEnd: 0.5,
			RerouteCurvature:         0.5,
		},
		Zoom: Zoom{
			Min:  canvas.DefaultZoomMin,
			Max:  canvas.DefaultZoomMax,
			Step: canvas.DefaultZoomStep,
		},
		Cache:  Cache{TTL: Duration{24 * time.Hour}},
		Server: Server{Addr: ":8080", CORSOrigin: "*"},
	}
}

// Dir returns the configuration directory, respecting XDG_CONFIG_HOME.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the file at path on top of Default and validates the result.
// An empty path means the default location. A missing file yields the
// defaults; a malformed or invalid one yields INVALID_CONFIG.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
	case os.IsNotExist(err) && !explicit:
		return Default(), nil
	case os.IsNotExist(err):
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s not found", path)
	default:
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes TOML text on top of Default and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, cfg.Validate()
}

// IDPolicy returns the configured id policy.
func (c Config) IDPolicy() flow.IDPolicy { return flow.IDPolicy(c.Editor.IDPolicy) }

// Curves returns the curve options for connection paths.
func (c Config) Curves() curve.Options {
	return curve.Options{
		Curvature:                c.Editor.Curvature,
		RerouteCurvatureStartEnd: c.Editor.RerouteCurvatureStartEnd,
		RerouteCurvature:         c.Editor.RerouteCurvature,
		FixCurvature:             c.Editor.RerouteFixCurvature,
	}
}

// ZoomLimits returns the viewport zoom limits.
func (c Config) ZoomLimits() canvas.ZoomLimits {
	return canvas.ZoomLimits{Min: c.Zoom.Min, Max: c.Zoom.Max, Step: c.Zoom.Step}
}
