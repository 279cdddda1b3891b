package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"slotbook/internal/booking"
)

// Environment variables holding CalDAV credentials. Credentials never
// live in the config file itself.
const (
	EnvCalDAVUsername = "CALDAV_USERNAME"
	EnvCalDAVPassword = "CALDAV_PASSWORD"
)

// Backend names accepted in the config file.
const (
	BackendCalDAV    = "caldav"
	BackendGoogleCal = "googlecal"
)

// CalendarConfig describes one backing calendar consulted for conflicts.
type CalendarConfig struct {
	// ID is the backend identifier: the collection path for CalDAV,
	// the calendar ID for Google.
	ID string `yaml:"id" json:"id"`
	// Name is the label used in logs and to select the write calendar.
	Name string `yaml:"name" json:"name"`
	// URL is the calendar endpoint. Required for CalDAV, unused for Google.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`
}

// WindowConfig is the daily bookable-hour range [start_hour, end_hour).
type WindowConfig struct {
	StartHour int `yaml:"start_hour" json:"start_hour"`
	EndHour   int `yaml:"end_hour" json:"end_hour"`
}

// PolicyConfig restricts which dates are open for booking.
type PolicyConfig struct {
	// MinLeadDays is the offset from today of the first bookable date.
	MinLeadDays int `yaml:"min_lead_days" json:"min_lead_days"`
	// HorizonDays is how many days past the first bookable date remain
	// bookable.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`
	// BlockedWeekdays are weekday names ("sunday", "monday", ...) that
	// are never bookable.
	BlockedWeekdays []string `yaml:"blocked_weekdays" json:"blocked_weekdays"`
	// BlockedDates are individually closed dates in 2006-01-02 form.
	BlockedDates []string `yaml:"blocked_dates,omitempty" json:"blocked_dates,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA reference zone all bookable hours are civil
	// hours of (e.g. "Europe/Moscow").
	Timezone string `yaml:"timezone" json:"timezone"`

	// Backend selects the calendar backend: "caldav" or "googlecal".
	Backend string `yaml:"backend" json:"backend"`

	// GoogleAccount is the named OAuth account used when Backend is
	// "googlecal".
	GoogleAccount string `yaml:"google_account,omitempty" json:"google_account,omitempty"`

	// Calendars is the list of backing calendars consulted for conflicts.
	Calendars []CalendarConfig `yaml:"calendars" json:"calendars"`

	// WriteCalendar names the single calendar that receives new
	// reservations. It must match the Name of exactly one entry in
	// Calendars.
	WriteCalendar string `yaml:"write_calendar" json:"write_calendar"`

	// Window is the daily bookable-hour range.
	Window WindowConfig `yaml:"window" json:"window"`

	// Policy restricts which dates are open for booking.
	Policy PolicyConfig `yaml:"policy" json:"policy"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:      "Europe/Moscow",
		Backend:       BackendCalDAV,
		GoogleAccount: "default",
		Calendars:     []CalendarConfig{},
		Window:        WindowConfig{StartHour: 10, EndHour: 18},
		Policy: PolicyConfig{
			MinLeadDays:     1,
			HorizonDays:     30,
			BlockedWeekdays: []string{"sunday"},
		},
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "Europe/Moscow"
	}
	if c.Backend == "" {
		c.Backend = BackendCalDAV
	}
	if c.GoogleAccount == "" {
		c.GoogleAccount = "default"
	}
	if c.Calendars == nil {
		c.Calendars = []CalendarConfig{}
	}
	if c.Window.StartHour == 0 && c.Window.EndHour == 0 {
		c.Window = WindowConfig{StartHour: 10, EndHour: 18}
	}
	if c.Policy.MinLeadDays == 0 {
		c.Policy.MinLeadDays = 1
	}
	if c.Policy.HorizonDays == 0 {
		c.Policy.HorizonDays = 30
	}
	if c.Policy.BlockedWeekdays == nil {
		c.Policy.BlockedWeekdays = []string{"sunday"}
	}
}

// Validate checks cross-field consistency. It does not touch the
// network or the filesystem.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendCalDAV, BackendGoogleCal:
	default:
		return fmt.Errorf("unknown backend %q (expected %q or %q)", c.Backend, BackendCalDAV, BackendGoogleCal)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.BookingWindow(); err != nil {
		return err
	}
	if _, err := c.BookingPolicy(); err != nil {
		return err
	}

	if len(c.Calendars) == 0 {
		return errors.New("at least one calendar is required")
	}
	seen := make(map[string]struct{}, len(c.Calendars))
	for _, cal := range c.Calendars {
		if cal.Name == "" {
			return errors.New("calendar name is required")
		}
		if _, dup := seen[cal.Name]; dup {
			return fmt.Errorf("duplicate calendar name %q", cal.Name)
		}
		seen[cal.Name] = struct{}{}
		if c.Backend == BackendCalDAV && cal.URL == "" && cal.ID == "" {
			return fmt.Errorf("calendar %q needs a url for the caldav backend", cal.Name)
		}
		if c.Backend == BackendGoogleCal && cal.ID == "" {
			return fmt.Errorf("calendar %q needs an id for the googlecal backend", cal.Name)
		}
	}

	if c.WriteCalendar == "" {
		return errors.New("write_calendar is required")
	}
	if _, ok := seen[c.WriteCalendar]; !ok {
		return fmt.Errorf("write_calendar %q does not match any configured calendar", c.WriteCalendar)
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// BookingWindow converts the window section into the booking package's
// form.
func (c *Config) BookingWindow() (booking.Window, error) {
	w := booking.Window{StartHour: c.Window.StartHour, EndHour: c.Window.EndHour}
	if err := w.Validate(); err != nil {
		return booking.Window{}, err
	}
	return w, nil
}

// BookingPolicy converts the policy section into the booking package's
// form.
func (c *Config) BookingPolicy() (booking.Policy, error) {
	if c.Policy.MinLeadDays < 0 {
		return booking.Policy{}, fmt.Errorf("min_lead_days %d is negative", c.Policy.MinLeadDays)
	}
	if c.Policy.HorizonDays < 0 {
		return booking.Policy{}, fmt.Errorf("horizon_days %d is negative", c.Policy.HorizonDays)
	}

	policy := booking.Policy{
		MinLeadDays:     c.Policy.MinLeadDays,
		HorizonDays:     c.Policy.HorizonDays,
		BlockedWeekdays: make(map[time.Weekday]struct{}),
		BlockedDates:    make(map[booking.Date]struct{}),
	}
	for _, name := range c.Policy.BlockedWeekdays {
		wd, err := parseWeekday(name)
		if err != nil {
			return booking.Policy{}, err
		}
		policy.BlockedWeekdays[wd] = struct{}{}
	}
	for _, s := range c.Policy.BlockedDates {
		d, err := booking.ParseDate(s)
		if err != nil {
			return booking.Policy{}, err
		}
		policy.BlockedDates[d] = struct{}{}
	}
	return policy, nil
}

// SourceCalendars converts the calendar list into the booking package's
// form, in config order.
func (c *Config) SourceCalendars() []booking.SourceCalendar {
	cals := make([]booking.SourceCalendar, 0, len(c.Calendars))
	for _, cal := range c.Calendars {
		cals = append(cals, booking.SourceCalendar{
			ID:   cal.ID,
			Name: cal.Name,
			URL:  cal.URL,
		})
	}
	return cals
}

// WriteSourceCalendar returns the calendar that receives new
// reservations.
func (c *Config) WriteSourceCalendar() (booking.SourceCalendar, error) {
	for _, cal := range c.SourceCalendars() {
		if cal.Name == c.WriteCalendar {
			return cal, nil
		}
	}
	return booking.SourceCalendar{}, fmt.Errorf("write_calendar %q does not match any configured calendar", c.WriteCalendar)
}

// CalDAVCredentials reads the CalDAV username and password from the
// environment.
func CalDAVCredentials() (username, password string, err error) {
	username = os.Getenv(EnvCalDAVUsername)
	password = os.Getenv(EnvCalDAVPassword)
	if username == "" || password == "" {
		return "", "", fmt.Errorf("CalDAV credentials not set: export %s and %s", EnvCalDAVUsername, EnvCalDAVPassword)
	}
	return username, password, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there with
// 0600 perms and returned. An existing file is read, normalized and
// validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path, creating
// the parent directory if needed. The write is atomic (temp file +
// rename) and the final file is 0600.
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

	tmp, err := os.CreateTemp(dir, ".slotbook-config-*.tmp")
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

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "slotbook", "config.yaml"), nil
}
