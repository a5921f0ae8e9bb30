package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	HTTPAddr string

	DBDriver    string
	DatabaseURL string

	UploadDir      string
	UploadMaxBytes int64

	ChatbotURL       string
	ChatbotTimeout   time.Duration
	LeadSyncSchedule string
	Timezone         string

	RabbitMQURL string

	MailHost       string
	MailPort       int
	MailUser       string
	MailPass       string
	MailFrom       string
	SalesTeamEmail string

	AdminToken        string
	ClientAliasesFile string
	CORSOrigins       []string

	LogLevel  string
	LogFormat string
}

const defaultUploadMaxBytes = 5 << 20

// Load lê o .env (se existir) e depois as variáveis de ambiente.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv monta a Config a partir de uma função de lookup, para facilitar teste.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		HTTPAddr:          get("HTTP_ADDR", ":8080"),
		DBDriver:          get("DB_DRIVER", "pgx"),
		DatabaseURL:       get("DATABASE_URL", ""),
		UploadDir:         get("UPLOAD_DIR", os.TempDir()),
		ChatbotURL:        strings.TrimRight(get("CHATBOT_URL", ""), "/"),
		LeadSyncSchedule:  get("LEAD_SYNC_SCHEDULE", ""),
		Timezone:          get("TZ_NAME", "UTC"),
		RabbitMQURL:       get("RABBITMQ_URL", ""),
		MailHost:          get("MAIL_HOST", ""),
		MailUser:          get("MAIL_USER", ""),
		MailPass:          get("MAIL_PASS", ""),
		MailFrom:          get("MAIL_FROM", "nao-responda@crm.local"),
		SalesTeamEmail:    get("SALES_TEAM_EMAIL", ""),
		AdminToken:        get("ADMIN_TOKEN", ""),
		ClientAliasesFile: get("CLIENT_ALIASES_FILE", ""),
		LogLevel:          get("LOG_LEVEL", "info"),
		LogFormat:         get("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.UploadMaxBytes, err = strconv.ParseInt(get("UPLOAD_MAX_BYTES", strconv.Itoa(defaultUploadMaxBytes)), 10, 64); err != nil {
		return nil, fmt.Errorf("UPLOAD_MAX_BYTES: %w", err)
	}
	if cfg.ChatbotTimeout, err = time.ParseDuration(get("CHATBOT_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("CHATBOT_TIMEOUT: %w", err)
	}
	if cfg.MailPort, err = strconv.Atoi(get("MAIL_PORT", "587")); err != nil {
		return nil, fmt.Errorf("MAIL_PORT: %w", err)
	}

	for _, origin := range strings.Split(get("CORS_ORIGINS", "http://localhost:3000"), ",") {
		if o := strings.TrimSpace(origin); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

// Validate checa só o que o comando serve precisa pra subir.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TZ_NAME: %w", err)
	}
	if c.LeadSyncSchedule != "" {
		if _, err := cron.ParseStandard(c.LeadSyncSchedule); err != nil {
			return fmt.Errorf("LEAD_SYNC_SCHEDULE: %w", err)
		}
	}
	return nil
}

func (c *Config) MailEnabled() bool {
	return c.MailHost != "" && c.SalesTeamEmail != ""
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
