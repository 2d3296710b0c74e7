// Package config loads the startup configuration for both binaries from
// an optional YAML file with environment-variable overrides on top.
//
// The coordinator's worker list deserves care: it is ordered, and the
// ordering determines shard assignment for the process lifetime. Editing
// the list length between runs invalidates every prior assignment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry values like "10s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Coordinator is the coordinator's startup configuration.
type Coordinator struct {
	Listen      string   `yaml:"listen"`       // wire protocol listen address
	AdminListen string   `yaml:"admin_listen"` // optional HTTP admin address
	Workers     []string `yaml:"workers"`      // ordered host:port list, load-bearing

	ClientTimeout  Duration `yaml:"client_timeout"`
	ForwardTimeout Duration `yaml:"forward_timeout"`
	ScatterTimeout Duration `yaml:"scatter_timeout"`

	EtcdEndpoints []string `yaml:"etcd_endpoints"` // optional discovery advertisement
}

// Worker is a worker's startup configuration.
type Worker struct {
	ID     string `yaml:"id"`
	Listen string `yaml:"listen"`

	EtcdEndpoints []string `yaml:"etcd_endpoints"`
}

// LoadCoordinator reads path (when non-empty), then applies env overrides
// and defaults.
func LoadCoordinator(path string) (Coordinator, error) {
	var cfg Coordinator
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}

	cfg.Listen = Getenv("COORDINATOR_ADDR", orDefault(cfg.Listen, ":8080"))
	cfg.AdminListen = Getenv("COORDINATOR_ADMIN_ADDR", cfg.AdminListen)
	if raw := os.Getenv("COORDINATOR_WORKERS"); raw != "" {
		cfg.Workers = splitList(raw)
	}
	if raw := os.Getenv("ETCD_ENDPOINTS"); raw != "" {
		cfg.EtcdEndpoints = splitList(raw)
	}
	return cfg, nil
}

// LoadWorker reads path (when non-empty), then applies env overrides and
// defaults.
func LoadWorker(path string) (Worker, error) {
	var cfg Worker
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}

	cfg.Listen = Getenv("WORKER_LISTEN", orDefault(cfg.Listen, ":8081"))
	cfg.ID = Getenv("WORKER_ID", orDefault(cfg.ID, cfg.Listen))
	if raw := os.Getenv("ETCD_ENDPOINTS"); raw != "" {
		cfg.EtcdEndpoints = splitList(raw)
	}
	return cfg, nil
}

func loadYAML(path string, out any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Getenv returns the environment value for k, or def when unset or empty.
func Getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
