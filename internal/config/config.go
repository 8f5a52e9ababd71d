package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/SurveyFlow/internal/services"
	"github.com/soaringjerry/SurveyFlow/internal/utils"
)

type KVBackend string

const (
	KVSQLite KVBackend = "sqlite"
	KVRedis  KVBackend = "redis"
	KVMemory KVBackend = "memory"
)

type Config struct {
	Addr         string
	Debug        bool
	JSONLogs     bool
	JWTSecret    string
	AuthRequired bool
	TokenTTL     time.Duration
	CORSOrigins  []string

	KVBackend     KVBackend
	SQLitePath    string
	MigrationsDir string
	RedisURL      string
	RedisPrefix   string

	LinkHost string
	AIDelay  time.Duration

	Commit    string
	BuildTime string
}

type configFile struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		Debug       *bool    `yaml:"debug"`
		JSONLogs    *bool    `yaml:"json_logs"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		Required  *bool  `yaml:"required"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`
	KV struct {
		Backend       string `yaml:"backend"`
		SQLitePath    string `yaml:"sqlite_path"`
		MigrationsDir string `yaml:"migrations_dir"`
		RedisURL      string `yaml:"redis_url"`
		RedisPrefix   string `yaml:"redis_prefix"`
	} `yaml:"kv"`
	Flow struct {
		LinkHost string `yaml:"link_host"`
		AIDelay  string `yaml:"ai_delay"`
	} `yaml:"flow"`
}

func Default() Config {
	return Config{
		Addr:        ":8080",
		TokenTTL:    services.DefaultTokenTTL,
		KVBackend:   KVSQLite,
		SQLitePath:  "./data/surveyflow.sqlite",
		RedisPrefix: "surveyflow:",
		LinkHost:    services.DefaultLinkHost,
		AIDelay:     services.DefaultAIDelay,
	}
}

// Load applies defaults, then the YAML file at path (if it exists), then SURVEYFLOW_*
// environment overrides. An empty path falls back to SURVEYFLOW_CONFIG.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = utils.SafeEnv("SURVEYFLOW_CONFIG", "")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.applyFile(raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Server.Addr != "" {
		c.Addr = f.Server.Addr
	}
	if f.Server.Debug != nil {
		c.Debug = *f.Server.Debug
	}
	if f.Server.JSONLogs != nil {
		c.JSONLogs = *f.Server.JSONLogs
	}
	if len(f.Server.CORSOrigins) > 0 {
		c.CORSOrigins = f.Server.CORSOrigins
	}
	if f.Auth.JWTSecret != "" {
		c.JWTSecret = f.Auth.JWTSecret
	}
	if f.Auth.Required != nil {
		c.AuthRequired = *f.Auth.Required
	}
	if f.Auth.TokenTTL != "" {
		d, err := time.ParseDuration(f.Auth.TokenTTL)
		if err != nil {
			return fmt.Errorf("parse auth.token_ttl: %w", err)
		}
		c.TokenTTL = d
	}
	if f.KV.Backend != "" {
		c.KVBackend = KVBackend(strings.ToLower(f.KV.Backend))
	}
	if f.KV.SQLitePath != "" {
		c.SQLitePath = f.KV.SQLitePath
	}
	if f.KV.MigrationsDir != "" {
		c.MigrationsDir = f.KV.MigrationsDir
	}
	if f.KV.RedisURL != "" {
		c.RedisURL = f.KV.RedisURL
	}
	if f.KV.RedisPrefix != "" {
		c.RedisPrefix = f.KV.RedisPrefix
	}
	if f.Flow.LinkHost != "" {
		c.LinkHost = f.Flow.LinkHost
	}
	if f.Flow.AIDelay != "" {
		d, err := time.ParseDuration(f.Flow.AIDelay)
		if err != nil {
			return fmt.Errorf("parse flow.ai_delay: %w", err)
		}
		c.AIDelay = d
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Addr = utils.SafeEnv("SURVEYFLOW_ADDR", c.Addr)
	c.Debug = utils.EnvBool("SURVEYFLOW_DEBUG", c.Debug)
	c.JSONLogs = utils.EnvBool("SURVEYFLOW_JSON_LOGS", c.JSONLogs)
	c.JWTSecret = utils.SafeEnv("SURVEYFLOW_JWT_SECRET", c.JWTSecret)
	c.AuthRequired = utils.EnvBool("SURVEYFLOW_AUTH_REQUIRED", c.AuthRequired)
	c.TokenTTL = utils.EnvDuration("SURVEYFLOW_TOKEN_TTL", c.TokenTTL)
	if origins := utils.SafeEnv("SURVEYFLOW_CORS_ORIGINS", ""); origins != "" {
		c.CORSOrigins = strings.Split(origins, ",")
	}
	c.KVBackend = KVBackend(strings.ToLower(utils.SafeEnv("SURVEYFLOW_KV_BACKEND", string(c.KVBackend))))
	c.SQLitePath = utils.SafeEnv("SURVEYFLOW_SQLITE_PATH", c.SQLitePath)
	c.MigrationsDir = utils.SafeEnv("SURVEYFLOW_MIGRATIONS_DIR", c.MigrationsDir)
	c.RedisURL = utils.SafeEnv("SURVEYFLOW_REDIS_URL", c.RedisURL)
	c.LinkHost = utils.SafeEnv("SURVEYFLOW_LINK_HOST", c.LinkHost)
	c.AIDelay = utils.EnvDuration("SURVEYFLOW_AI_DELAY", c.AIDelay)
	c.Commit = utils.SafeEnv("SURVEYFLOW_COMMIT", c.Commit)
	c.BuildTime = utils.SafeEnv("SURVEYFLOW_BUILD_TIME", c.BuildTime)
}

func (c Config) Validate() error {
	switch c.KVBackend {
	case KVSQLite:
		if c.SQLitePath == "" {
			return errors.New("kv backend sqlite needs a sqlite path")
		}
	case KVRedis:
		if c.RedisURL == "" {
			return errors.New("kv backend redis needs a redis url")
		}
	case KVMemory:
	default:
		return fmt.Errorf("unknown kv backend %q", c.KVBackend)
	}
	if c.AIDelay < 0 {
		return errors.New("ai delay must not be negative")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	return nil
}
