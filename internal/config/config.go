package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/godilite/fieldops-server/internal/trend"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/default.yaml"

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DBPath                string
	DBDriver              string
	RedisAddr             string
	GRPCPort              int
	GRPCReflectionEnabled bool
	HTTPPort              int
	CacheTTL              time.Duration
	ShutdownTimeout       time.Duration
	Calendar              trend.Calendar
}

type configFile struct {
	App struct {
		Env        string `yaml:"env"`
		WeekAnchor string `yaml:"week_anchor"`
	} `yaml:"app"`
	Database struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	} `yaml:"database"`
	Redis struct {
		Addr       string `yaml:"addr"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"redis"`
	GRPC struct {
		Port       int   `yaml:"port"`
		Reflection *bool `yaml:"reflection"`
	} `yaml:"grpc"`
	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`
}

func defaults() *Config {
	return &Config{
		AppEnv:          "development",
		DBPath:          "./data/database.db",
		DBDriver:        "sqlite3",
		RedisAddr:       "localhost:6379",
		GRPCPort:        50051,
		HTTPPort:        8080,
		CacheTTL:        10 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
		Calendar:        trend.NewCalendar(trend.DefaultAnchor),
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (a missing file is ignored), then environment variables.
func Load(path string) (*Config, error) {
	cfg := defaults()
	anchor := ""

	if path == "" {
		path = DefaultPath
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		cfg.applyFile(f)
		anchor = f.App.WeekAnchor
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.RedisAddr = v
	}
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCReflectionEnabled = envBool("GRPC_REFLECTION_ENABLED", cfg.GRPCReflectionEnabled)
	cfg.CacheTTL = time.Duration(envInt("CACHE_TTL_SECONDS", int(cfg.CacheTTL.Seconds()))) * time.Second
	anchor = getEnv("WEEK_ANCHOR", anchor)

	if anchor != "" {
		cal, err := trend.ParseAnchor(anchor)
		if err != nil {
			return nil, fmt.Errorf("invalid WEEK_ANCHOR %q: %w", anchor, err)
		}
		cfg.Calendar = cal
	}

	return cfg, nil
}

func (c *Config) applyFile(f configFile) {
	if f.App.Env != "" {
		c.AppEnv = f.App.Env
	}
	if f.Database.Driver != "" {
		c.DBDriver = f.Database.Driver
	}
	if f.Database.Path != "" {
		c.DBPath = f.Database.Path
	}
	if f.Redis.Addr != "" {
		c.RedisAddr = f.Redis.Addr
	}
	if f.Redis.TTLSeconds > 0 {
		c.CacheTTL = time.Duration(f.Redis.TTLSeconds) * time.Second
	}
	if f.GRPC.Port > 0 {
		c.GRPCPort = f.GRPC.Port
	}
	if f.GRPC.Reflection != nil {
		c.GRPCReflectionEnabled = *f.GRPC.Reflection
	}
	if f.HTTP.Port > 0 {
		c.HTTPPort = f.HTTP.Port
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
