package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"

	DefaultVerificationBaseURL = "http://localhost:8080/auth/confirm"
	DefaultVerificationTTL     = 24 * time.Hour
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	HTTP         HTTP          `yaml:"http"`
	Log          Log           `yaml:"log"`
	Storage      Storage       `yaml:"storage"`
	JwtTTL       time.Duration `yaml:"jwt_ttl" env:"ACCOUNTS_JWT_TTL"`
	Verification Verification  `yaml:"verification"`
	CORSOrigins  []string      `yaml:"cors_origins" env:"ACCOUNTS_CORS_ORIGINS" envSeparator:","`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"ACCOUNTS_HTTP_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Log struct {
	Level string `yaml:"level" env:"ACCOUNTS_LOG_LEVEL"`
	JSON  bool   `yaml:"json" env:"ACCOUNTS_LOG_JSON"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"ACCOUNTS_STORAGE_DRIVER"`
	SqlitePath string `yaml:"sqlite_path" env:"ACCOUNTS_SQLITE_PATH"`
}

// Verification controls the email verification link.
type Verification struct {
	BaseURL string        `yaml:"base_url" env:"ACCOUNTS_VERIFICATION_BASE_URL"`
	TTL     time.Duration `yaml:"ttl" env:"ACCOUNTS_VERIFICATION_TTL"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key" env:"ACCOUNTS_JWT_KEY"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
}

type Pg struct {
	Host     string `yaml:"host" env:"ACCOUNTS_PG_HOST"`
	Port     int    `yaml:"port" env:"ACCOUNTS_PG_PORT"`
	User     string `yaml:"user" env:"ACCOUNTS_PG_USER"`
	Password string `yaml:"password" env:"ACCOUNTS_PG_PASSWORD"`
	Dbname   string `yaml:"dbname" env:"ACCOUNTS_PG_DBNAME"`
}

// Email configures the SMTP notifier. An empty From turns the notifier into a
// log-only no-op.
type Email struct {
	SMTPServer string        `yaml:"smtp_server" env:"ACCOUNTS_SMTP_SERVER"`
	SMTPPort   int           `yaml:"smtp_port" env:"ACCOUNTS_SMTP_PORT"`
	Username   string        `yaml:"username" env:"ACCOUNTS_SMTP_USERNAME"`
	Password   string        `yaml:"password" env:"ACCOUNTS_SMTP_PASSWORD"`
	From       string        `yaml:"from" env:"ACCOUNTS_MAIL_FROM"`
	SenderName string        `yaml:"sender_name"`
	Timeout    time.Duration `yaml:"timeout"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func loadPath(configPath string, output interface{}) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load reads public.yaml and private.yaml from configFolder, applies
// environment overrides and defaults, and validates the result.
func Load(configFolder string) (*Config, error) {
	cfg := &Config{}
	if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
		return nil, err
	}
	if err := loadPath(path.Join(configFolder, "private.yaml"), &cfg.Private); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func (s *Config) applyDefaults() {
	if s.Public.HTTP.Addr == "" {
		s.Public.HTTP.Addr = ":8080"
	}
	if s.Public.HTTP.ReadTimeout == 0 {
		s.Public.HTTP.ReadTimeout = 10 * time.Second
	}
	if s.Public.HTTP.WriteTimeout == 0 {
		s.Public.HTTP.WriteTimeout = 10 * time.Second
	}
	if s.Public.HTTP.ShutdownTimeout == 0 {
		s.Public.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if s.Public.Storage.Driver == "" {
		s.Public.Storage.Driver = DriverPostgres
	}
	if strings.TrimSpace(s.Public.Verification.BaseURL) == "" {
		s.Public.Verification.BaseURL = DefaultVerificationBaseURL
	}
	if s.Public.Verification.TTL == 0 {
		s.Public.Verification.TTL = DefaultVerificationTTL
	}
	if s.Private.Email.Timeout == 0 {
		s.Private.Email.Timeout = 10 * time.Second
	}
}

func (s *Config) validate() error {
	var errs []error
	if s.Private.JwtKey == "" {
		errs = append(errs, errors.New("jwt_key is required"))
	}
	if s.Public.JwtTTL <= 0 {
		errs = append(errs, errors.New("jwt_ttl must be positive"))
	}
	switch s.Public.Storage.Driver {
	case DriverPostgres:
		if s.Private.Pg.Host == "" || s.Private.Pg.Dbname == "" {
			errs = append(errs, errors.New("pg.host and pg.dbname are required for the postgres driver"))
		}
	case DriverSqlite:
		if s.Public.Storage.SqlitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", s.Public.Storage.Driver))
	}
	return errors.Join(errs...)
}
