// Package config loads planar settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chazu/planar/pkg/drawing"
	"github.com/chazu/planar/pkg/engine"
	"github.com/chazu/planar/pkg/geom"
	"github.com/chazu/planar/pkg/logging"
	"github.com/chazu/planar/pkg/tessellate"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// MaxPrecision is the largest meaningful number of decimal places for a
// float64 comparison.
const MaxPrecision = 15

// Duration is a time.Duration written as a string ("5s", "250ms").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// Config holds every tunable of a session.
type Config struct {
	Precision   int      `json:"precision" yaml:"precision"`       // decimal places for point comparison
	Clearance   float64  `json:"clearance" yaml:"clearance"`       // minimum gap between shapes; 0 disables
	Units       string   `json:"units" yaml:"units"`               // informational drawing units
	EvalTimeout Duration `json:"eval_timeout" yaml:"eval_timeout"` // hard limit per evaluation
	ArcSegments int      `json:"arc_segments" yaml:"arc_segments"` // chords per full circle when sampling
	LogLevel    string   `json:"log_level" yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Precision:   int(geom.DefaultPrecision),
		Clearance:   drawing.DefaultClearance,
		Units:       "mm",
		EvalTimeout: Duration(engine.EvalTimeout),
		ArcSegments: tessellate.DefaultArcSegments,
		LogLevel:    "info",
	}
}

// Load reads YAML from r over the defaults and validates the result. An
// empty document yields the defaults.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads the YAML file at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate reports every out-of-range setting, combined into one error.
func (c *Config) Validate() error {
	var err error
	if c.Precision < 0 || c.Precision > MaxPrecision {
		err = multierr.Append(err, fmt.Errorf("config: precision must be between 0 and %d, got %d", MaxPrecision, c.Precision))
	}
	if c.Clearance < 0 {
		err = multierr.Append(err, fmt.Errorf("config: clearance must not be negative, got %g", c.Clearance))
	}
	if c.EvalTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("config: eval_timeout must be positive, got %s", c.EvalTimeout))
	}
	if c.ArcSegments < 3 {
		err = multierr.Append(err, fmt.Errorf("config: arc_segments must be at least 3, got %d", c.ArcSegments))
	}
	if _, lerr := logging.ParseLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("config: %w", lerr))
	}
	return err
}

// Defaults returns the drawing-wide settings a new drawing starts from.
func (c *Config) Defaults() drawing.Defaults {
	return drawing.Defaults{
		Precision: geom.Precision(c.Precision),
		Clearance: c.Clearance,
		Units:     c.Units,
	}
}
