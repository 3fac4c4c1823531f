// Package config loads and validates the service configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
	"github.com/ahmedNJ467/koormatics-dispatch/core/metrics"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/booking"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/notify"
)

type Config struct {
	HTTP          HTTPConfig          `json:"http"`
	Storage       StorageConfig       `json:"storage"`
	Booking       booking.Config      `json:"booking"`
	Dispatch      dispatch.Config     `json:"dispatch"`
	Metrics       metrics.Config      `json:"metrics"`
	Notify        notify.Config       `json:"notify"`
	AssignmentLog AssignmentLogConfig `json:"assignment_log"`
	Sentry        SentryConfig        `json:"sentry"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("KD_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "kd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.HTTP.SetDefaults()
	cfg.Storage.SetDefaults()
	cfg.Booking.SetDefaults()
	cfg.Dispatch.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Notify.SetDefaults()
	cfg.AssignmentLog.SetDefaults()
	cfg.Sentry.SetDefaults()
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.AssignmentLog.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
