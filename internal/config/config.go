// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yml"

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Logging      LoggingConfig      `yaml:"logging"`
	Repository   RepositoryConfig   `yaml:"repository"`
	Settings     SettingsConfig     `yaml:"settings"`
	Appointments AppointmentsConfig `yaml:"appointments"`
	Calendly     CalendlyConfig     `yaml:"calendly"`
	SMTP         SMTPConfig         `yaml:"smtp"`
}

type ServerConfig struct {
	Port            string        `yaml:"port" env:"SERVER_PORT"`
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimitRPM    int           `yaml:"rate_limit_rpm" env:"SERVER_RATE_LIMIT_RPM"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url" env:"DATABASE_URL"`
	MaxConnections int           `yaml:"max_connections"`
	MinConnections int           `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `yaml:"development" env:"LOG_DEVELOPMENT"`
}

type RepositoryConfig struct {
	Type string `yaml:"type" env:"REPOSITORY_TYPE"` // "postgres" или "inmemory"
}

type SettingsConfig struct {
	// период перечитывания настроек задач из хранилища
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type AppointmentsConfig struct {
	// true - вебхук отклоняет запросы без clientId с кодом 400
	RequireClientID bool `yaml:"require_client_id" env:"APPOINTMENTS_REQUIRE_CLIENT_ID"`
}

type CalendlyConfig struct {
	ClientID      string `yaml:"client_id" env:"CALENDLY_CLIENT_ID"`
	ClientSecret  string `yaml:"-" env:"CALENDLY_CLIENT_SECRET"`
	RedirectURI   string `yaml:"redirect_uri" env:"CALENDLY_REDIRECT_URI"`
	PersonalToken string `yaml:"-" env:"CALENDLY_PERSONAL_TOKEN"`
	AuthBaseURL   string `yaml:"auth_base_url"`
	APIBaseURL    string `yaml:"api_base_url"`
	// отдавать сырые токены в ответе callback; только для отладки
	ExposeTokens bool `yaml:"expose_tokens" env:"CALENDLY_EXPOSE_TOKENS"`
}

type SMTPConfig struct {
	Host           string `yaml:"host" env:"EMAIL_HOST"`
	Port           int    `yaml:"port" env:"EMAIL_PORT"`
	User           string `yaml:"user" env:"EMAIL_USER"`
	Password       string `yaml:"-" env:"EMAIL_PASS"`
	FromName       string `yaml:"from_name"`
	DefaultSubject string `yaml:"default_subject"`
	DefaultText    string `yaml:"default_text"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitRPM:    100,
		},
		Database: DatabaseConfig{
			MaxConnections: 10,
			MinConnections: 2,
			IdleTimeout:    5 * time.Minute,
		},
		Repository: RepositoryConfig{Type: "inmemory"},
		Settings:   SettingsConfig{RefreshInterval: time.Minute},
		Calendly: CalendlyConfig{
			AuthBaseURL: "https://auth.calendly.com",
			APIBaseURL:  "https://api.calendly.com",
		},
		SMTP: SMTPConfig{
			Port:           465,
			FromName:       "Customer Relationship Management",
			DefaultSubject: "Invitație acces Portal Client – CRM",
			DefaultText:    "Vă-am creat acces în Portalul Client CRM.",
		},
	}
}

// Load читает config.yml поверх значений по умолчанию, затем применяет
// переменные окружения (и .env, если он есть). Отсутствующий файл не ошибка.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("ошибка чтения окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case "inmemory":
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("database.url обязателен для repository.type = postgres")
		}
	default:
		return fmt.Errorf("неизвестный repository.type: %q", c.Repository.Type)
	}
	if c.Server.Port == "" {
		return errors.New("server.port не задан")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c CalendlyConfig) OAuthConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURI != ""
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.User != "" && c.Password != ""
}
