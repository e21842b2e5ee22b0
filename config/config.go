package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lixenwraith/daynight/render"
	"github.com/lixenwraith/daynight/simclock"
)

// EnvPrefix is the prefix for environment overrides, e.g. DAYNIGHT_CLOCK_RATE
const EnvPrefix = "DAYNIGHT_"

// StartNow selects the current wall-clock time as the simulation start
const StartNow = "now"

var (
	ErrInvalidRate  = errors.New("clock.rate must be between 0 and 1e9")
	ErrInvalidStart = errors.New("clock.start must be \"now\" or an RFC3339 timestamp")
	ErrInvalidFPS   = errors.New("loop.fps must be between 1 and 240")
	ErrInvalidColor = errors.New("display.color must be auto, truecolor or 256")
	ErrInvalidCoord = errors.New("observer coordinates out of range")
	ErrInvalidPort  = errors.New("metrics.port must be 1-65535")
	ErrUnknownLayer = errors.New("unknown display layer")
)

// Config is the complete runtime configuration
type Config struct {
	Clock    ClockConfig    `koanf:"clock"`
	Loop     LoopConfig     `koanf:"loop"`
	Observer ObserverConfig `koanf:"observer"`
	Display  DisplayConfig  `koanf:"display"`
	Audio    AudioConfig    `koanf:"audio"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Headless HeadlessConfig `koanf:"headless"`
	Debug    bool           `koanf:"debug"`
}

type ClockConfig struct {
	Rate  float64 `koanf:"rate"`
	Start string  `koanf:"start"`
}

type LoopConfig struct {
	FPS       int    `koanf:"fps"`
	MaxFrames uint64 `koanf:"max_frames"`
}

type ObserverConfig struct {
	Name      string  `koanf:"name"`
	Latitude  float64 `koanf:"latitude"`
	Longitude float64 `koanf:"longitude"`
}

type DisplayConfig struct {
	Color  string          `koanf:"color"`
	Layers map[string]bool `koanf:"layers"`
}

type AudioConfig struct {
	Enabled bool `koanf:"enabled"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
	Port    int  `koanf:"port"`
}

// HeadlessConfig controls plain text output when stdout is not a terminal
type HeadlessConfig struct {
	Force       bool          `koanf:"force"`
	ReportEvery time.Duration `koanf:"report_every"` // Simulated time between lines
}

// Load loads configuration from defaults, an optional TOML file and the environment
// Priority: Environment variables > Config file > Defaults
func Load(configPath string) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Double underscores preserve literal underscores in field names
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "__", "%UNDERSCORE%")
		s = strings.ReplaceAll(s, "_", ".")
		return strings.ReplaceAll(s, "%UNDERSCORE%", "_")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			WeaklyTypedInput: true,
			Result:           cfg,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Clock: ClockConfig{
			Rate:  simclock.DefaultRate,
			Start: StartNow,
		},
		Loop: LoopConfig{
			FPS: 60,
		},
		Observer: ObserverConfig{
			Name:      "Greenwich",
			Latitude:  51.4769,
			Longitude: -0.0005,
		},
		Display: DisplayConfig{
			Color: "auto",
			Layers: map[string]bool{
				render.LayerShading:  true,
				render.LayerGrid:     true,
				render.LayerObserver: true,
				render.LayerSun:      true,
				render.LayerStatus:   true,
			},
		},
		Audio: AudioConfig{
			Enabled: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9108,
		},
		Headless: HeadlessConfig{
			ReportEvery: time.Hour,
		},
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if _, err := simclock.New(0, c.Clock.Rate); err != nil || c.Clock.Rate > simclock.MaxRate {
		return fmt.Errorf("%w: %v", ErrInvalidRate, c.Clock.Rate)
	}
	if _, err := c.StartTime(time.Time{}); err != nil {
		return err
	}
	if c.Loop.FPS < 1 || c.Loop.FPS > 240 {
		return fmt.Errorf("%w: %d", ErrInvalidFPS, c.Loop.FPS)
	}
	if c.Observer.Latitude < -90 || c.Observer.Latitude > 90 ||
		c.Observer.Longitude < -180 || c.Observer.Longitude > 180 {
		return fmt.Errorf("%w: %.4f,%.4f", ErrInvalidCoord, c.Observer.Latitude, c.Observer.Longitude)
	}
	if _, err := c.ColorMode(render.ColorModeTrueColor); err != nil {
		return err
	}
	for name := range c.Display.Layers {
		switch name {
		case render.LayerShading, render.LayerGrid, render.LayerObserver, render.LayerSun, render.LayerStatus:
		default:
			return fmt.Errorf("%w: %s", ErrUnknownLayer, name)
		}
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Metrics.Port)
	}
	if c.Headless.ReportEvery < 0 {
		return fmt.Errorf("headless.report_every must not be negative: %s", c.Headless.ReportEvery)
	}
	return nil
}

// StartTime resolves clock.start, using now for "now" or an empty value
func (c *Config) StartTime(now time.Time) (time.Time, error) {
	s := strings.TrimSpace(c.Clock.Start)
	if s == "" || strings.EqualFold(s, StartNow) {
		return now, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidStart, c.Clock.Start)
	}
	return t.UTC(), nil
}

// ColorMode resolves display.color, returning detected for "auto"
func (c *Config) ColorMode(detected render.ColorMode) (render.ColorMode, error) {
	switch strings.ToLower(c.Display.Color) {
	case "", "auto":
		return detected, nil
	case "truecolor", "true", "24bit":
		return render.ColorModeTrueColor, nil
	case "256":
		return render.ColorMode256, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, c.Display.Color)
	}
}

// LayerEnabled reports whether a layer should start visible, unknown names default on
func (c *Config) LayerEnabled(name string) bool {
	enabled, ok := c.Display.Layers[name]
	return !ok || enabled
}

// MetricsAddr returns the listen address for the metrics server
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf(":%d", c.Metrics.Port)
}
