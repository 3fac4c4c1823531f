package dispatch

// Config defines dispatch-related settings.
type Config struct {
	BufferHours              float64 `json:"buffer_hours"`
	ConflictThresholdMinutes int     `json:"conflict_threshold_minutes"`
	CommitRetries            int     `json:"commit_retries"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ConflictThresholdMinutes <= 0 {
		c.ConflictThresholdMinutes = 60
	}
	if c.CommitRetries <= 0 {
		c.CommitRetries = 3
	}
}
