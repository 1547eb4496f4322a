// Package config loads application settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. A .env file in the working directory
// is loaded first when present; real environment variables win.
type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// StoreDriver selects the persistence backend: sheets, postgres or memory.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sheets"`

	// LodgingCapacity is the total number of lodging places on offer.
	LodgingCapacity int `env:"LODGING_CAPACITY" envDefault:"30"`

	Sheets   SheetsConfig
	Postgres PostgresConfig
	SMTP     SMTPConfig
}

// SheetsConfig identifies the spreadsheet acting as the database.
type SheetsConfig struct {
	SpreadsheetID   string `env:"SHEETS_SPREADSHEET_ID"`
	CredentialsFile string `env:"SHEETS_CREDENTIALS_FILE" envDefault:"credentials.json"`
	GuestsTab       string `env:"SHEETS_GUESTS_TAB" envDefault:"Invites"`
	ResponsesTab    string `env:"SHEETS_RESPONSES_TAB" envDefault:"Reponses"`
	GuestbookTab    string `env:"SHEETS_GUESTBOOK_TAB" envDefault:"LivreDor"`
}

// PostgresConfig configures the optional pgx backend.
type PostgresConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"wedding"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN builds a libpq-compatible connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// SMTPConfig configures the notification mailer. Organizers receives the
// internal summary of each submission.
type SMTPConfig struct {
	Host       string   `env:"SMTP_HOST"`
	Port       int      `env:"SMTP_PORT" envDefault:"587"`
	Username   string   `env:"SMTP_USERNAME"`
	Password   string   `env:"SMTP_PASSWORD"`
	From       string   `env:"SMTP_FROM"`
	Organizers []string `env:"ORGANIZER_EMAILS" envSeparator:","`
}

// Load reads .env (when present) then parses the environment.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.LodgingCapacity < 0 {
		return nil, fmt.Errorf("LODGING_CAPACITY must not be negative")
	}
	return &cfg, nil
}
