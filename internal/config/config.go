package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Listen         string `yaml:"listen"`
		ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
		WriteTimeoutMs int    `yaml:"write_timeout_ms"`
		PidFile        string `yaml:"pid_file"`
	} `yaml:"server"`

	Auth struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"auth"`

	Routes struct {
		// File lists the gateway routes. If missing, the gateway starts
		// with an empty route table.
		File string `yaml:"file"`
		// Watch reloads the route table when the file changes.
		Watch bool `yaml:"watch"`
	} `yaml:"routes"`

	Redis struct {
		// Addr enables redis-backed per-route rate limits. Empty
		// disables limiting.
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`

	Logging struct {
		AccessLog     bool   `yaml:"access_log"`
		AccessLogPath string `yaml:"access_log_path"`
	} `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":5000"
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = 60000
	}
	if cfg.Server.WriteTimeoutMs <= 0 {
		cfg.Server.WriteTimeoutMs = 60000
	}
	if strings.TrimSpace(cfg.Routes.File) == "" {
		cfg.Routes.File = "./routes.yaml"
	}
	// default true for local debugging
	if !cfg.Logging.AccessLog {
		cfg.Logging.AccessLog = true
	}
	if !cfg.Metrics.Enabled {
		cfg.Metrics.Enabled = true
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("MGW_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("MGW_API_KEY")); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("MGW_ROUTES_FILE")); v != "" {
		cfg.Routes.File = v
	}
	cfg.Routes.Watch = envBool("MGW_ROUTES_WATCH", cfg.Routes.Watch)
	if v := strings.TrimSpace(os.Getenv("MGW_REDIS_ADDR")); v != "" {
		cfg.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("MGW_REDIS_PASSWORD")); v != "" {
		cfg.Redis.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("MGW_REDIS_DB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Redis.DB = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MGW_PID_FILE")); v != "" {
		cfg.Server.PidFile = v
	}
	if v := strings.TrimSpace(os.Getenv("MGW_READ_TIMEOUT_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.ReadTimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MGW_WRITE_TIMEOUT_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.WriteTimeoutMs = n
		}
	}
	cfg.Metrics.Enabled = envBool("MGW_METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Logging.AccessLog = envBool("MGW_ACCESS_LOG", cfg.Logging.AccessLog)
	if v := strings.TrimSpace(os.Getenv("MGW_ACCESS_LOG_PATH")); v != "" {
		cfg.Logging.AccessLogPath = v
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Auth.APIKey) == "" {
		return errors.New("auth.api_key is required (or set MGW_API_KEY)")
	}
	if cfg.Redis.DB < 0 {
		return errors.New("redis.db must be non-negative")
	}
	return nil
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
