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

	"github.com/christianmorkeberg/group25/core/factory"
	"github.com/christianmorkeberg/group25/infra/mqtt"
)

type Config struct {
	Runner  RunnerConfig  `json:"runner"`
	Solver  SolverConfig  `json:"solver"`
	Metrics MetricsConfig `json:"metrics"`
	MQTT    MQTTConfig    `json:"mqtt"`
	Logging LoggingConfig `json:"logging"`
}

// MetricsConfig defines the sinks to record solves with and where to expose
// the Prometheus endpoint.
type MetricsConfig struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr is the listen address of the metrics endpoint, empty
	// disables the server.
	PrometheusAddr string `json:"prometheus_addr"`
}

// MQTTConfig wraps the broker connection settings with an enable switch so a
// plain CLI run does not need a broker.
type MQTTConfig struct {
	Enabled bool        `json:"enabled"`
	Client  mqtt.Config `json:"client"`
}

// Validate checks mandatory fields when publishing is enabled.
func (c MQTTConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Client.Broker == "" {
		return fmt.Errorf("mqtt enabled but broker is empty")
	}
	return nil
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
	// Optional environment overrides. The callback already turns
	// EMS_SECTION__KEY into dot-separated paths, so the provider splits
	// on ".".
	if err := k.Load(env.Provider("EMS_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ems_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Runner.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Runner.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
