package config

import "fmt"

// StorageConfig selects where trips, drivers and vehicles come from.
type StorageConfig struct {
	// Backend selects the fleet store: "memory", "sqlite" or "booking".
	Backend string `json:"backend"`
	// Path is the database location for the sqlite backend.
	Path string `json:"path"`
	// PollIntervalSeconds refreshes the booking snapshot this often.
	PollIntervalSeconds int `json:"poll_interval_seconds"`
}

// SetDefaults applies sane defaults.
func (c *StorageConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "fleet.db"
	}
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = 60
	}
}

// Validate checks mandatory fields.
func (c StorageConfig) Validate() error {
	switch c.Backend {
	case "memory", "sqlite", "booking":
		return nil
	default:
		return fmt.Errorf("unknown storage backend %s", c.Backend)
	}
}
