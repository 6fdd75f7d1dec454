// Package config loads the settings shared by the nomo commands and the
// viewer from a TOML file, NOMO_* environment variables and command line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/render"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileName is the base name searched for in the config directories
	FileName = "config"
	// EnvPrefix prefixes the environment overrides, e.g. NOMO_SCREEN_WIDTH
	EnvPrefix = "NOMO"
)

// ErrInvalid is returned for settings that cannot be used
var ErrInvalid = errors.New("config: invalid setting")

// Size is a view surface size in device independent units
type Size struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Geom converts the size for the engine
func (s Size) Geom() geom.Size {
	return geom.Size{Width: s.Width, Height: s.Height}
}

// Curve tunes the Bézier fit of second degree nomograms
type Curve struct {
	Slope         string `toml:"slope"`
	MaxIterations int    `toml:"max-iterations"`
}

// Config holds every setting
type Config struct {
	LogLevel string `toml:"log-level"`
	Nomogram string `toml:"nomogram"`
	Theme    string `toml:"theme"`

	Screen Size  `toml:"screen"`
	Zoomed Size  `toml:"zoomed"`
	Curve  Curve `toml:"curve"`

	// File is the config file that was read, empty when none was found
	File string `toml:"-"`
}

// Default returns the built in settings
func Default() Config {
	return Config{
		LogLevel: "info",
		Nomogram: "addition",
		Theme:    "paper",
		Screen:   Size{Width: 900, Height: 900},
		Zoomed:   Size{Width: 400, Height: 400},
		Curve: Curve{
			Slope:         scale.SlopeLiteral.String(),
			MaxIterations: scale.MaxFitIterations,
		},
	}
}

// Dirs returns the directories searched for config.toml in order; the
// first file found is used
func Dirs() []string {
	dirs := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "nomograph"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "nomograph"))
	}
	return dirs
}

// DefaultPath is where `nomo config init` writes
func DefaultPath() string {
	dirs := Dirs()
	if len(dirs) == 1 {
		return FileName + ".toml"
	}
	return filepath.Join(dirs[1], FileName+".toml")
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("nomogram", d.Nomogram)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("screen.width", d.Screen.Width)
	v.SetDefault("screen.height", d.Screen.Height)
	v.SetDefault("zoomed.width", d.Zoomed.Width)
	v.SetDefault("zoomed.height", d.Zoomed.Height)
	v.SetDefault("curve.slope", d.Curve.Slope)
	v.SetDefault("curve.max-iterations", d.Curve.MaxIterations)
}

// flagKeys maps command line flags to the keys they override when their
// names differ
var flagKeys = map[string]string{
	"slope":          "curve.slope",
	"max-iterations": "curve.max-iterations",
	"width":          "screen.width",
	"height":         "screen.height",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads the settings. path names an explicit config file; when empty
// the directories of Dirs are searched and a missing file is not an error.
// flags, when not nil, override the file and the environment.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		for _, dir := range Dirs() {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	c := &Config{
		LogLevel: v.GetString("log-level"),
		Nomogram: v.GetString("nomogram"),
		Theme:    v.GetString("theme"),
		Screen: Size{
			Width:  v.GetFloat64("screen.width"),
			Height: v.GetFloat64("screen.height"),
		},
		Zoomed: Size{
			Width:  v.GetFloat64("zoomed.width"),
			Height: v.GetFloat64("zoomed.height"),
		},
		Curve: Curve{
			Slope:         v.GetString("curve.slope"),
			MaxIterations: v.GetInt("curve.max-iterations"),
		},
		File: v.ConfigFileUsed(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every setting
func (c *Config) Validate() error {
	for _, s := range []struct {
		name string
		size Size
	}{{"screen", c.Screen}, {"zoomed", c.Zoomed}} {
		if s.size.Width <= 0 || s.size.Height <= 0 {
			return fmt.Errorf("%w: %s size %vx%v", ErrInvalid, s.name, s.size.Width, s.size.Height)
		}
	}
	if c.Curve.MaxIterations <= 0 {
		return fmt.Errorf("%w: curve.max-iterations %d", ErrInvalid, c.Curve.MaxIterations)
	}
	if _, err := scale.ParseSlope(c.Curve.Slope); err != nil {
		return fmt.Errorf("%w: curve.slope: %v", ErrInvalid, err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log-level: %v", ErrInvalid, err)
	}
	if _, err := render.ParseTheme(c.Theme); err != nil {
		return fmt.Errorf("%w: theme: %v", ErrInvalid, err)
	}
	return nil
}

// SlopeMode returns the parsed curve slope
func (c *Config) SlopeMode() scale.SlopeMode {
	m, _ := scale.ParseSlope(c.Curve.Slope)
	return m
}

// ThemeName returns the parsed theme
func (c *Config) ThemeName() render.ThemeName {
	t, _ := render.ParseTheme(c.Theme)
	return t
}

// Level returns the parsed log level, raised to debug when verbose is set
func (c *Config) Level(verbose bool) logrus.Level {
	if verbose {
		return logrus.DebugLevel
	}
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

// Write encodes the settings as TOML
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteFile writes the settings to path, creating its directory.
// An existing file is kept unless overwrite is set.
func (c *Config) WriteFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
