package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `runner:
  scenario_file: "scenarios/summer.yaml"
  scenarios: ["baseline", "sizing"]
  report_format: "compact"
  duals_dir: "out/duals"
solver:
  tolerance: 1e-8
  quad_segments: 32
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: "nop"
mqtt:
  enabled: true
  client:
    broker: "tcp://localhost:1883"
    client_id: "ems"
    topic_prefix: "home"
logging:
  level: "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"scenario_file", cfg.Runner.ScenarioFile, "scenarios/summer.yaml"},
		{"scenario count", len(cfg.Runner.Scenarios), 2},
		{"report_format", cfg.Runner.ReportFormat, "compact"},
		{"duals_dir", cfg.Runner.DualsDir, "out/duals"},
		{"tolerance", cfg.Solver.Tolerance, 1e-8},
		{"quad_segments", cfg.Solver.QuadSegments, 32},
		{"prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"sink count", len(cfg.Metrics.Sinks), 1},
		{"mqtt enabled", cfg.MQTT.Enabled, true},
		{"broker", cfg.MQTT.Client.Broker, "tcp://localhost:1883"},
		{"topic_prefix", cfg.MQTT.Client.TopicPrefix, "home"},
		{"log level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "runner: {}\n"))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Runner.ScenarioFile != "scenarios.yaml" {
		t.Errorf("scenario_file default = %s", cfg.Runner.ScenarioFile)
	}
	if cfg.Runner.ReportFormat != "full" {
		t.Errorf("report_format default = %s", cfg.Runner.ReportFormat)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level default = %s", cfg.Logging.Level)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EMS_LOGGING__LEVEL", "warn")
	cfg, err := Load(writeConfig(t, "logging:\n  level: info\n"))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env override ignored, level = %s", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad format":     "runner:\n  report_format: tiny\n",
		"bad variant":    "runner:\n  variant: nope\n",
		"bad level":      "logging:\n  level: loud\n",
		"bad tolerance":  "solver:\n  tolerance: -1\n",
		"mqtt no broker": "mqtt:\n  enabled: true\n",
	}
	for name, data := range cases {
		if _, err := Load(writeConfig(t, data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
