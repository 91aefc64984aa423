package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      LogConfig      `yaml:"log"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Cache    CacheConfig    `yaml:"cache"`
	Server   ServerConfig   `yaml:"server"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL, overwrite"` // debug, info, warn, error
}

// APIConfig describes the remote project service consumed by the client.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"API_BASE_URL, overwrite"`
	Timeout   time.Duration `yaml:"timeout" env:"API_TIMEOUT, overwrite"`
	UserAgent string        `yaml:"user_agent" env:"API_USER_AGENT, overwrite"`
	RateLimit float64       `yaml:"rate_limit" env:"API_RATE_LIMIT, overwrite"` // requests per second, 0 = unlimited
	Burst     int           `yaml:"burst" env:"API_BURST, overwrite"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER, overwrite"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn" env:"DB_DSN, overwrite"`
	Debug  bool   `yaml:"debug" env:"DB_DEBUG, overwrite"`
}

// SessionConfig selects where the session/auth key-value state lives.
type SessionConfig struct {
	Backend string      `yaml:"backend" env:"SESSION_BACKEND, overwrite"` // database, redis
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR, overwrite"`
	Password string `yaml:"password" env:"REDIS_PASSWORD, overwrite"`
	DB       int    `yaml:"db" env:"REDIS_DB, overwrite"`
	Key      string `yaml:"key" env:"REDIS_SESSION_KEY, overwrite"`
}

// CacheConfig controls how remote project listings are mirrored into the local store.
type CacheConfig struct {
	CacheReads  bool   `yaml:"cache_reads" env:"CACHE_READS, overwrite"`
	RefreshSpec string `yaml:"refresh_spec" env:"CACHE_REFRESH_SPEC, overwrite"` // cron spec, empty disables
	PageSize    int    `yaml:"page_size" env:"CACHE_PAGE_SIZE, overwrite"`
	MaxPages    int    `yaml:"max_pages" env:"CACHE_MAX_PAGES, overwrite"`
}

// ServerConfig is used by the development API server only.
type ServerConfig struct {
	Host      string         `yaml:"host" env:"SERVER_HOST, overwrite"`
	Port      string         `yaml:"port" env:"SERVER_PORT, overwrite"`
	Mode      string         `yaml:"mode" env:"SERVER_MODE, overwrite"` // debug, release, test
	Database  DatabaseConfig `yaml:"database" env:", prefix=SERVER_"`
	JWT       JWTConfig      `yaml:"jwt"`
	RateLimit float64        `yaml:"rate_limit" env:"SERVER_RATE_LIMIT, overwrite"`
	Burst     int            `yaml:"burst" env:"SERVER_BURST, overwrite"`
	UploadDir string         `yaml:"upload_dir" env:"SERVER_UPLOAD_DIR, overwrite"`
	Mail      MailConfig     `yaml:"mail"`

	// CORSOrigins lists the browser origins allowed to call the API. Empty allows any.
	CORSOrigins []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS, overwrite"`

	// TokenCleanupSpec is the cron spec for purging used and expired action tokens.
	TokenCleanupSpec string `yaml:"token_cleanup_spec" env:"SERVER_TOKEN_CLEANUP_SPEC, overwrite"`
}

// MailConfig configures outgoing password-reset and verification mail.
// When disabled, links are written to the log instead.
type MailConfig struct {
	Enabled     bool   `yaml:"enabled" env:"MAIL_ENABLED, overwrite"`
	Host        string `yaml:"host" env:"MAIL_HOST, overwrite"`
	Port        int    `yaml:"port" env:"MAIL_PORT, overwrite"`
	Username    string `yaml:"username" env:"MAIL_USERNAME, overwrite"`
	Password    string `yaml:"password" env:"MAIL_PASSWORD, overwrite"`
	From        string `yaml:"from" env:"MAIL_FROM, overwrite"`
	UseTLS      bool   `yaml:"use_tls" env:"MAIL_USE_TLS, overwrite"`
	LinkBaseURL string `yaml:"link_base_url" env:"MAIL_LINK_BASE_URL, overwrite"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret" env:"JWT_SECRET, overwrite"`
	ExpireHour int    `yaml:"expire_hour" env:"JWT_EXPIRE_HOUR, overwrite"`
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		fileCfg := DefaultConfig()
		if err := yaml.Unmarshal(data, fileCfg); err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.overrideFromEnv(context.Background(), envconfig.OsLookuper()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		API: APIConfig{
			BaseURL:   "http://localhost:8080",
			Timeout:   15 * time.Second,
			UserAgent: "projectmanager-client/1.0",
			RateLimit: 10,
			Burst:     20,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "projectmanager.db",
		},
		Session: SessionConfig{
			Backend: "database",
			Redis: RedisConfig{
				Addr: "localhost:6379",
				DB:   0,
				Key:  "projectmanager:session",
			},
		},
		Cache: CacheConfig{
			CacheReads:  true,
			RefreshSpec: "@every 15m",
			PageSize:    50,
			MaxPages:    20,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
			Database: DatabaseConfig{
				Driver: "sqlite",
				DSN:    "devserver.db",
			},
			JWT: JWTConfig{
				Secret:     "projectmanager-dev-secret-change-me",
				ExpireHour: 24,
			},
			RateLimit:        50,
			Burst:            100,
			UploadDir:        "uploads",
			TokenCleanupSpec: "@hourly",
			Mail: MailConfig{
				Port:        587,
				LinkBaseURL: "http://localhost:8080",
			},
		},
	}
}

func (c *Config) overrideFromEnv(ctx context.Context, lookuper envconfig.Lookuper) error {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   c,
		Lookuper: lookuper,
	}); err != nil {
		return err
	}

	// Redis URL override (format: redis://:password@host:port/db)
	if redisURL, ok := lookuper.Lookup("REDIS_URL"); ok && redisURL != "" {
		c.Session.Backend = "redis"
		c.parseRedisURL(redisURL)
	}
	return nil
}

// parseRedisURL parses a Redis URL and sets config values
// Format: redis://:password@host:port/db
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		// Password format: :password or user:password
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Session.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Session.Redis.DB = db
		}
	}

	c.Session.Redis.Addr = url
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
