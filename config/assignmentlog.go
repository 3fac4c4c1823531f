package config

import "fmt"

// AssignmentLogConfig selects where committed assignments are
// persisted and how file-backed stores rotate.
type AssignmentLogConfig struct {
	// Backend selects the store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the log file or database location.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when a jsonl file exceeds this size.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits how many rotated files are kept.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this many days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *AssignmentLogConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "assignments.log"
	}
}

// Validate checks mandatory fields.
func (c AssignmentLogConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "sqlite":
	default:
		return fmt.Errorf("unknown assignment log backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("assignment log path is required")
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("rotation limits must not be negative")
	}
	return nil
}
