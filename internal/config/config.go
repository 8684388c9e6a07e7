package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-ledmatrix/internal/sequence"
)

var ErrInvalid = errors.New("invalid config")

// SPI selects the port the LED chain hangs off. The clock is fixed by the
// NRZ encoder.
type SPI struct {
	Dev string `yaml:"dev"` // periph port name, "" for the first one
}

// Startup is what the module shows after boot. Exactly one of Addon or
// Pattern is normally set; Addon wins if both are.
type Startup struct {
	Addon   string `yaml:"addon,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Percent int    `yaml:"percent,omitempty"`
}

type Config struct {
	Driver     string `yaml:"driver"` // "sim" | "spi" | "term" | "fake"
	Side       string `yaml:"side"`   // "left" | "right"
	Brightness int    `yaml:"brightness"`
	FPS        int    `yaml:"fps"`
	PWMFreqHz  int    `yaml:"pwm_freq_hz"`
	Debug      bool   `yaml:"debug"`
	Animate    bool   `yaml:"animate"`

	KeypressLife int `yaml:"keypress_life"`
	SleepFadeMs  int `yaml:"sleep_fade_ms"`
	IdleTimeoutS int `yaml:"idle_timeout_s"`

	Startup    Startup `yaml:"startup"`
	Serpentine bool    `yaml:"serpentine"`
	SPI        SPI     `yaml:"spi,omitempty"`
	Addr       string  `yaml:"addr"`

	// Playlist, when set, runs at boot until the first control command.
	Playlist *sequence.Program `yaml:"playlist,omitempty"`
}

func Default() *Config {
	return &Config{
		Driver:       "sim",
		Side:         "left",
		Brightness:   51,
		FPS:          32,
		PWMFreqHz:    29000,
		KeypressLife: 50,
		SleepFadeMs:  1000,
		Startup:      Startup{Addon: "splashes"},
		Addr:         ":8080",
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []string
	switch c.Driver {
	case "sim", "spi", "term", "fake":
	default:
		errs = append(errs, fmt.Sprintf("driver %q (want sim|spi|term|fake)", c.Driver))
	}
	switch strings.ToLower(c.Side) {
	case "left", "right", "l", "r":
	default:
		errs = append(errs, fmt.Sprintf("side %q (want left|right)", c.Side))
	}
	if c.Brightness < 0 || c.Brightness > 255 {
		errs = append(errs, fmt.Sprintf("brightness %d (want 0-255)", c.Brightness))
	}
	if c.FPS <= 0 || c.FPS > 1000 {
		errs = append(errs, fmt.Sprintf("fps %d (want 1-1000)", c.FPS))
	}
	switch c.PWMFreqHz {
	case 29000, 3600, 25000, 1200:
	default:
		errs = append(errs, fmt.Sprintf("pwm_freq_hz %d (want 29000|3600|25000|1200)", c.PWMFreqHz))
	}
	if c.KeypressLife < 1 || c.KeypressLife > 255 {
		errs = append(errs, fmt.Sprintf("keypress_life %d (want 1-255)", c.KeypressLife))
	}
	if c.SleepFadeMs < 0 {
		errs = append(errs, fmt.Sprintf("sleep_fade_ms %d", c.SleepFadeMs))
	}
	if c.IdleTimeoutS < 0 {
		errs = append(errs, fmt.Sprintf("idle_timeout_s %d", c.IdleTimeoutS))
	}
	if c.Startup.Percent < 0 || c.Startup.Percent > 100 {
		errs = append(errs, fmt.Sprintf("startup.percent %d (want 0-100)", c.Startup.Percent))
	}
	if c.Playlist != nil {
		if err := c.Playlist.Validate(); err != nil {
			errs = append(errs, "playlist: "+err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// Load reads path over the defaults, so a partial file only overrides what
// it names.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
