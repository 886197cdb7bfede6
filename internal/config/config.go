package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// NOTE: YAML-based load/save with first-run config creation and 0600
// permissions. Environment overrides are applied by cmd/feedcal.

const (
	defaultListen       = "127.0.0.1:8080"
	defaultTimezone     = "Asia/Seoul"
	defaultRefresh      = "*/15 * * * *"
	defaultHorizonDays  = 7
	defaultBackfillDays = 1
	defaultLogLevel     = "info"
)

var errEmptyPath = errors.New("config: path is empty")

// FeedConfig describes a single team-space schedule feed (ICS).
type FeedConfig struct {
	// URL is the ICS endpoint exported by the team space.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is the team space name shown next to its schedules.
	Name string `yaml:"name" json:"name"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used as display zone (e.g. "Asia/Seoul").
	// Zone-less date strings from the API are read in this zone too.
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// for re-fetching feeds.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// HorizonDays is the number of future days kept in the agenda.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// BackfillDays is the number of past days kept in the agenda, so
	// recently finished schedules still show "n일 전".
	BackfillDays int `yaml:"backfill_days" json:"backfill_days"`

	// LogLevel is one of "debug", "info", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Feeds is the list of subscribed team-space schedule feeds.
	Feeds []FeedConfig `yaml:"feeds" json:"feeds"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       defaultListen,
		Timezone:     defaultTimezone,
		RefreshCron:  defaultRefresh,
		HorizonDays:  defaultHorizonDays,
		BackfillDays: defaultBackfillDays,
		LogLevel:     defaultLogLevel,
		Feeds:        []FeedConfig{},
	}
}

// Normalize replaces zero or out-of-range values with defaults.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefresh
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = defaultHorizonDays
	}
	if c.BackfillDays < 0 {
		c.BackfillDays = 0
	}
	switch c.LogLevel {
	case "debug", "info", "error":
		// ok
	default:
		c.LogLevel = defaultLogLevel
	}
	if c.Feeds == nil {
		c.Feeds = []FeedConfig{}
	}
}

// Validate reports configuration values that Normalize cannot repair.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: unknown timezone %q: %w", c.Timezone, err)
	}
	if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
		return fmt.Errorf("config: invalid refresh cron %q: %w", c.RefreshCron, err)
	}
	for _, f := range c.Feeds {
		if f.URL == "" {
			return fmt.Errorf("config: feed %q has empty url", f.ID)
		}
	}
	return nil
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load reads the YAML config at path. A missing file is created from
// DefaultConfig; if that write fails the defaults are still returned
// together with the error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errEmptyPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg := DefaultConfig()
		if err := cfg.Save(path); err != nil {
			return cfg, fmt.Errorf("config: write default %s: %w", path, err)
		}
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save normalizes cfg and replaces path with it via a 0600 temp file
// and rename.
func Save(path string, cfg *Config) error {
	switch {
	case path == "":
		return errEmptyPath
	case cfg == nil:
		return errors.New("config: nil config")
	}
	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: mkdir %s: %w", dir, err)
	}
	return writeFileAtomic(dir, path, data)
}

func writeFileAtomic(dir, path string, data []byte) (err error) {
	f, err := os.CreateTemp(dir, ".feedcal-config-*.tmp")
	if err != nil {
		return fmt.Errorf("config: temp file: %w", err)
	}
	name := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	if err = f.Chmod(0o600); err == nil {
		if _, err = f.Write(data); err == nil {
			err = f.Sync()
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("config: write %s: %w", name, err)
	}
	return os.Rename(name, path)
}

// Save writes c to path; see the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
