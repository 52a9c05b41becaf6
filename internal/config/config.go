// Package config loads server configuration from the environment.
//
// Values come from (highest priority first):
//  1. real environment variables
//  2. a .env file in the working directory (optional)
//  3. the defaults registered in Load
//
// godotenv only fills variables that are not already set, so a value exported
// in the shell always wins over the .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config is the fully resolved configuration for one server process.
type Config struct {
	Port        int
	CORSOrigins []string

	LogLevel  string
	LogFormat string

	DB       DBConfig
	Auth     AuthConfig
	GitHub   GitHubConfig
	Redis    RedisConfig
	LLM      LLMConfig
	CacheTTL time.Duration // 0 means search sessions never expire
}

// DBConfig selects and addresses the relational store.
type DBConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string // SQLite file path (or ":memory:")
}

type AuthConfig struct {
	JWTSecret      string
	GoogleClientID string
}

type GitHubConfig struct {
	APIURL string
	Token  string // optional; raises the API rate limit when set
}

type RedisConfig struct {
	Addr     string // empty selects the in-process session store
	Password string
	DB       int
}

type LLMConfig struct {
	Provider    string
	OllamaHost  string
	OllamaModel string
	GeminiKey   string
	GeminiModel string
}

// Load reads .env (if present) and the environment into a Config.
//
// It fails fast on settings the server cannot run without: the MySQL password
// and the JWT signing secret.
func Load() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        v.GetInt("PORT"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		DB:          readDB(v),
		Auth: AuthConfig{
			JWTSecret:      v.GetString("JWT_SECRET"),
			GoogleClientID: v.GetString("GOOGLE_CLIENT_ID"),
		},
		GitHub: GitHubConfig{
			APIURL: strings.TrimRight(v.GetString("GITHUB_API_URL"), "/"),
			Token:  v.GetString("GITHUB_TOKEN"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("LLM_PROVIDER")),
			OllamaHost:  v.GetString("OLLAMA_HOST"),
			OllamaModel: v.GetString("OLLAMA_MODEL"),
			GeminiKey:   v.GetString("GEMINI_API_KEY"),
			GeminiModel: v.GetString("GEMINI_MODEL"),
		},
		CacheTTL: v.GetDuration("SEARCH_CACHE_TTL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase resolves only the database settings. The migrate CLI uses it
// so schema changes do not need a JWT secret or LLM settings.
func LoadDatabase() (DBConfig, error) {
	v, err := newViper()
	if err != nil {
		return DBConfig{}, err
	}
	db := readDB(v)
	if err := db.Validate(); err != nil {
		return DBConfig{}, err
	}
	return db, nil
}

func newViper() (*viper.Viper, error) {
	// A missing .env is normal in containers; only a malformed one is an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v, nil
}

func readDB(v *viper.Viper) DBConfig {
	return DBConfig{
		Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		Path:     v.GetString("DB_PATH"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8000)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_NAME", "trace_db")
	v.SetDefault("DB_PATH", "data/trace.db")
	v.SetDefault("GITHUB_API_URL", "https://api.github.com")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SEARCH_CACHE_TTL", "0s")
	v.SetDefault("LLM_PROVIDER", ProviderOllama)
	v.SetDefault("OLLAMA_HOST", "http://127.0.0.1:11434")
	v.SetDefault("OLLAMA_MODEL", "llama3.2:3b")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
}

// Validate checks the database settings for the selected driver.
func (d DBConfig) Validate() error {
	switch d.Driver {
	case DriverMySQL:
		if d.Password == "" {
			return errors.New("config: DB_PASSWORD not set")
		}
	case DriverSQLite:
		if d.Path == "" {
			return errors.New("config: DB_PATH must not be empty for the sqlite driver")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", d.Driver)
	}
	return nil
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if err := c.DB.Validate(); err != nil {
		return err
	}

	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("config: JWT_SECRET must be set and at least 16 characters")
	}

	switch c.LLM.Provider {
	case ProviderOllama, ProviderNone:
	case ProviderGemini:
		if c.LLM.GeminiKey == "" {
			return errors.New("config: GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("config: unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
