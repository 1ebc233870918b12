package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"weekcal/internal/drag"
	"weekcal/internal/ics"
	"weekcal/internal/model"
	"weekcal/internal/scroll"
	"weekcal/internal/view"
)

// EnvPrefix marks environment variables that override file values.
const EnvPrefix = "WEEKCAL_"

// ICSConfig describes a single ICS subscription source.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID becomes the calendar id of every event in the feed.
	ID string `yaml:"id" json:"id"`
	// Color is used for events that carry no COLOR of their own.
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// ViewConfig sizes the calendar grid.
type ViewConfig struct {
	// Mode is "week" (7 columns) or "day".
	Mode          string  `yaml:"mode" json:"mode"`
	// BufferDays and BufferStep of 0 use the mode's default.
	BufferDays    int     `yaml:"buffer_days" json:"buffer_days"`
	BufferStep    int     `yaml:"buffer_step" json:"buffer_step"`
	MinHourHeight float64 `yaml:"min_hour_height" json:"min_hour_height"`
	TimeAxisWidth float64 `yaml:"time_axis_width" json:"time_axis_width"`
	// Width and Height are the page size used by server rendering and
	// capture.
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DragConfig mirrors drag.Settings with YAML-friendly durations.
type DragConfig struct {
	Threshold      float64       `yaml:"threshold" json:"threshold"`
	Snap           time.Duration `yaml:"snap" json:"snap"`
	EdgeZone       float64       `yaml:"edge_zone" json:"edge_zone"`
	EdgeDelay      time.Duration `yaml:"edge_delay" json:"edge_delay"`
	EdgeRepeat     time.Duration `yaml:"edge_repeat" json:"edge_repeat"`
	NavStep        int           `yaml:"nav_step" json:"nav_step"`
	ScrollZone     float64       `yaml:"scroll_zone" json:"scroll_zone"`
	MaxScrollSpeed float64       `yaml:"max_scroll_speed" json:"max_scroll_speed"`
}

type ScrollConfig struct {
	Debounce  time.Duration `yaml:"debounce" json:"debounce"`
	Animation time.Duration `yaml:"animation" json:"animation"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used as canonical display zone (e.g. "Asia/Seoul").
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart is "sunday" (default) or "monday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// for re-fetching ICS sources.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// CacheDir holds fetched ICS bodies between runs.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Sample loads the demo data set when no ICS source is configured.
	Sample bool `yaml:"sample" json:"sample"`

	View   ViewConfig   `yaml:"view" json:"view"`
	Drag   DragConfig   `yaml:"drag" json:"drag"`
	Scroll ScrollConfig `yaml:"scroll" json:"scroll"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	d := drag.DefaultSettings()
	s := scroll.DefaultSettings()
	return &Config{
		Listen:      "127.0.0.1:8080",
		Timezone:    "Asia/Seoul",
		WeekStart:   "sunday",
		RefreshCron: "*/15 * * * *",
		LogLevel:    "info",
		CacheDir:    "./var/ics-cache",
		Sample:      true,
		View: ViewConfig{
			Mode:          string(view.ModeWeek),
			MinHourHeight: view.DefaultMinHourHeight,
			TimeAxisWidth: view.DefaultTimeAxisWidth,
			Width:         1280,
			Height:        800,
		},
		Drag: DragConfig{
			Threshold:      d.Threshold,
			Snap:           d.Snap,
			EdgeZone:       d.EdgeZone,
			EdgeDelay:      d.EdgeDelay,
			EdgeRepeat:     d.EdgeRepeat,
			NavStep:        d.NavStep,
			ScrollZone:     d.ScrollZone,
			MaxScrollSpeed: d.MaxScrollSpeed,
		},
		Scroll: ScrollConfig{
			Debounce:  s.Debounce,
			Animation: s.Animation,
		},
		ICS: []ICSConfig{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	switch strings.ToLower(c.WeekStart) {
	case "monday":
		c.WeekStart = "monday"
	default:
		// Unknown value; fall back to sunday to avoid surprising layouts.
		c.WeekStart = "sunday"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}

	if _, err := view.ParseMode(c.View.Mode); err != nil {
		c.View.Mode = def.View.Mode
	}
	// Zero buffers let the view pick per mode.
	c.View.BufferDays = max(c.View.BufferDays, 0)
	c.View.BufferStep = max(c.View.BufferStep, 0)
	if c.View.MinHourHeight <= 0 {
		c.View.MinHourHeight = def.View.MinHourHeight
	}
	if c.View.TimeAxisWidth <= 0 {
		c.View.TimeAxisWidth = def.View.TimeAxisWidth
	}
	if c.View.Width <= 0 {
		c.View.Width = def.View.Width
	}
	if c.View.Height <= 0 {
		c.View.Height = def.View.Height
	}

	// Zero drag/scroll fields are filled by the packages themselves.
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) Weekday() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

func (c *Config) ViewMode() view.Mode {
	m, err := view.ParseMode(c.View.Mode)
	if err != nil {
		return view.ModeWeek
	}
	return m
}

func (c *Config) DragSettings() drag.Settings {
	return drag.Settings{
		Threshold:      c.Drag.Threshold,
		Snap:           c.Drag.Snap,
		EdgeZone:       c.Drag.EdgeZone,
		EdgeDelay:      c.Drag.EdgeDelay,
		EdgeRepeat:     c.Drag.EdgeRepeat,
		NavStep:        c.Drag.NavStep,
		ScrollZone:     c.Drag.ScrollZone,
		MaxScrollSpeed: c.Drag.MaxScrollSpeed,
	}
}

func (c *Config) ScrollSettings() scroll.Settings {
	return scroll.Settings{
		Debounce:  c.Scroll.Debounce,
		Animation: c.Scroll.Animation,
	}
}

// ViewOptions returns the config-driven part of view.Options; callers add
// the clock, viewport and callbacks.
func (c *Config) ViewOptions() view.Options {
	return view.Options{
		Mode:           c.ViewMode(),
		WeekStart:      c.Weekday(),
		BufferDays:     c.View.BufferDays,
		BufferStep:     c.View.BufferStep,
		TimeAxisWidth:  c.View.TimeAxisWidth,
		MinHourHeight:  c.View.MinHourHeight,
		DragSettings:   c.DragSettings(),
		ScrollSettings: c.ScrollSettings(),
	}
}

// ClientConfig is the part of Config a browser view runs with. The server
// serves it and the wasm bridge applies it on mount.
type ClientConfig struct {
	WeekStart string       `json:"week_start"`
	View      ViewConfig   `json:"view"`
	Drag      DragConfig   `json:"drag"`
	Scroll    ScrollConfig `json:"scroll"`
}

func (c *Config) Client() ClientConfig {
	return ClientConfig{
		WeekStart: c.WeekStart,
		View:      c.View,
		Drag:      c.Drag,
		Scroll:    c.Scroll,
	}
}

// ApplyClient overlays cc and normalizes the result.
func (c *Config) ApplyClient(cc ClientConfig) {
	c.WeekStart = cc.WeekStart
	c.View = cc.View
	c.Drag = cc.Drag
	c.Scroll = cc.Scroll
	c.Normalize()
}

// Sources converts the ICS list, skipping entries without a URL. Entries
// without an ID get "ics-N".
func (c *Config) Sources() []ics.Source {
	out := make([]ics.Source, 0, len(c.ICS))
	for i, s := range c.ICS {
		if strings.TrimSpace(s.URL) == "" {
			continue
		}
		id := s.ID
		if id == "" {
			id = "ics-" + strconv.Itoa(i+1)
		}
		color := model.Color(strings.ToLower(s.Color))
		if !color.Valid() {
			color = ""
		}
		out = append(out, ics.Source{ID: id, URL: s.URL, Color: color})
	}
	return out
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is read and normalized.
//   - In both cases WEEKCAL_* environment variables (optionally from a
//     .env file next to the config or in the working directory) override
//     the file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			if err := cfg.applyEnv(); err != nil {
				return cfg, err
			}
			cfg.Normalize()
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

// loadDotEnv loads the first .env file found. Variables already set in the
// process environment win.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			return
		}
	}
}

// applyEnv overrides scalar fields from WEEKCAL_* variables.
func (c *Config) applyEnv() error {
	str := map[string]*string{
		"LISTEN":     &c.Listen,
		"TIMEZONE":   &c.Timezone,
		"WEEK_START": &c.WeekStart,
		"REFRESH":    &c.RefreshCron,
		"LOG_LEVEL":  &c.LogLevel,
		"CACHE_DIR":  &c.CacheDir,
		"VIEW_MODE":  &c.View.Mode,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "SAMPLE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSAMPLE: %w", EnvPrefix, err)
		}
		c.Sample = b
	}

	user, hasUser := os.LookupEnv(EnvPrefix + "BASIC_AUTH_USERNAME")
	pass, hasPass := os.LookupEnv(EnvPrefix + "BASIC_AUTH_PASSWORD")
	if hasUser || hasPass {
		if c.BasicAuth == nil {
			c.BasicAuth = &BasicAuthConfig{}
		}
		if hasUser {
			c.BasicAuth.Username = user
		}
		if hasPass {
			c.BasicAuth.Password = pass
		}
	}

	// WEEKCAL_ICS_URL adds a single source on top of the file's list.
	if u, ok := os.LookupEnv(EnvPrefix + "ICS_URL"); ok && u != "" {
		c.ICS = append(c.ICS, ICSConfig{URL: u, ID: os.Getenv(EnvPrefix + "ICS_ID")})
	}
	return nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".weekcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
