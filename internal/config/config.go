package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level pipeline configuration. Vault-local settings
// (daily note format, template folder) read from the vault's own .obsidian
// files take precedence over the folder/format fields here; these act as
// defaults for vaults without that configuration.
type Config struct {
	// SelfEmail identifies the calendar owner when an export lacks the
	// per-attendee "self" flag.
	SelfEmail string `yaml:"self_email"`

	// PeopleFolder is the vault-relative directory of person files.
	PeopleFolder string `yaml:"people_folder"`

	// MeetingsFolder is the vault-relative root for meeting notes.
	MeetingsFolder string `yaml:"meetings_folder"`

	// DailyNotesFolder is the vault-relative root for daily notes.
	DailyNotesFolder string `yaml:"daily_notes_folder"`

	// TemplatesFolder is the vault-relative template directory used when
	// the vault has no templates.json.
	TemplatesFolder string `yaml:"templates_folder"`

	// MeetingFormat is the moment-style date pattern for the meeting note
	// subdirectory (e.g. "YYYY/MM-MMMM").
	MeetingFormat string `yaml:"meeting_format"`

	// DailyFormat is the moment-style date pattern for daily note paths
	// (e.g. "YYYY/MM-MMMM/YYYY-MM-DD dddd").
	DailyFormat string `yaml:"daily_format"`

	// SectionHeader is the exact heading line of the machine-owned
	// meetings section in daily notes.
	SectionHeader string `yaml:"section_header"`

	// GogBinary is the external directory/drive lookup command.
	GogBinary string `yaml:"gog_binary"`

	// DirectoryTimeoutSeconds bounds a single people-search lookup.
	DirectoryTimeoutSeconds int `yaml:"directory_timeout_seconds"`

	// DriveTimeoutSeconds bounds a single attachment-metadata lookup.
	DriveTimeoutSeconds int `yaml:"drive_timeout_seconds"`

	// RefreshCron, when non-empty, re-runs the pipeline on this cron
	// schedule instead of exiting after one pass.
	RefreshCron string `yaml:"refresh,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		PeopleFolder:            "PEOPLE",
		MeetingsFolder:          "MEETINGS",
		DailyNotesFolder:        "DAILY_NOTES",
		TemplatesFolder:         "TEMPLATES",
		MeetingFormat:           "YYYY/MM-MMMM",
		DailyFormat:             "YYYY/MM-MMMM/YYYY-MM-DD dddd",
		SectionHeader:           "# 📅 Meetings",
		GogBinary:               "gog",
		DirectoryTimeoutSeconds: 5,
		DriveTimeoutSeconds:     10,
		LogLevel:                "info",
	}
}

// Normalize fills in missing/zero values with defaults so partially-filled
// configs from older versions still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.PeopleFolder == "" {
		c.PeopleFolder = def.PeopleFolder
	}
	if c.MeetingsFolder == "" {
		c.MeetingsFolder = def.MeetingsFolder
	}
	if c.DailyNotesFolder == "" {
		c.DailyNotesFolder = def.DailyNotesFolder
	}
	if c.TemplatesFolder == "" {
		c.TemplatesFolder = def.TemplatesFolder
	}
	if c.MeetingFormat == "" {
		c.MeetingFormat = def.MeetingFormat
	}
	if c.DailyFormat == "" {
		c.DailyFormat = def.DailyFormat
	}
	if c.SectionHeader == "" {
		c.SectionHeader = def.SectionHeader
	}
	if c.GogBinary == "" {
		c.GogBinary = def.GogBinary
	}
	if c.DirectoryTimeoutSeconds <= 0 {
		c.DirectoryTimeoutSeconds = def.DirectoryTimeoutSeconds
	}
	if c.DriveTimeoutSeconds <= 0 {
		c.DriveTimeoutSeconds = def.DriveTimeoutSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// DirectoryTimeout returns the people-search timeout as a duration.
func (c *Config) DirectoryTimeout() time.Duration {
	return time.Duration(c.DirectoryTimeoutSeconds) * time.Second
}

// DriveTimeout returns the attachment-metadata timeout as a duration.
func (c *Config) DriveTimeout() time.Duration {
	return time.Duration(c.DriveTimeoutSeconds) * time.Second
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - empty path: return defaults without touching disk
//   - missing file: write a default config (0600) and return it
//   - existing file: unmarshal and normalize
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg alongside the error so the caller can decide.
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

	return &cfg, nil
}

// Save writes the configuration atomically: temp file in the same
// directory, fsync, chmod 0600, rename.
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

	tmp, err := os.CreateTemp(dir, ".dailyplan-config-*.tmp")
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
