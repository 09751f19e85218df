package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName          string
	TelegramApiToken string
	TelegramChatID   string
	RelayURL         string
	RelayToken       string
	LokiHost         string
	LogLevel         string
	HTTPPort         string
	DB               *DB
	Mongo            *Mongo
}

type DB struct {
	Host     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Mongo struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

var ErrEnvNotFound = errors.New("err env not found")

func (a *App) loadConfig(confFileName string) error {
	var cfg Config
	var db DB
	var mongoCfg Mongo

	err := godotenv.Load(confFileName)
	if err != nil {
		return err
	}

	if cfg.TelegramApiToken, err = cfg.set("TELEGRAM_API_TOKEN"); err != nil {
		return err
	}

	if cfg.TelegramChatID, err = cfg.set("TELEGRAM_CHAT_ID"); err != nil {
		return err
	}

	if db.Host, err = cfg.set("PG_HOST"); err != nil {
		return err
	}

	if db.User, err = cfg.set("PG_USER"); err != nil {
		return err
	}

	if db.Password, err = cfg.set("PG_PASSWORD"); err != nil {
		return err
	}

	if db.DBName, err = cfg.set("PG_DBNAME"); err != nil {
		return err
	}

	if db.SSLMode, err = cfg.set("PG_SSL_MODE"); err != nil {
		return err
	}

	if mongoCfg.Host, err = cfg.set("MONGO_HOST"); err != nil {
		return err
	}

	if mongoCfg.Port, err = cfg.set("MONGO_PORT"); err != nil {
		return err
	}

	if mongoCfg.User, err = cfg.set("MONGO_USER"); err != nil {
		return err
	}

	if mongoCfg.Password, err = cfg.set("MONGO_PASSWORD"); err != nil {
		return err
	}

	if mongoCfg.DBName, err = cfg.set("MONGO_DBNAME"); err != nil {
		return err
	}

	cfg.AppName = cfg.setOptional("APP_NAME", "signalcopier")
	cfg.RelayURL = cfg.setOptional("RELAY_URL", "")
	cfg.RelayToken = cfg.setOptional("RELAY_TOKEN", "")
	cfg.LokiHost = cfg.setOptional("LOKI_HOST", "")
	cfg.LogLevel = cfg.setOptional("LOG_LEVEL", "INFO")
	cfg.HTTPPort = cfg.setOptional("HTTP_PORT", "8080")

	cfg.DB = &db
	cfg.Mongo = &mongoCfg

	a.Config = &cfg
	a.Name = cfg.AppName

	return nil
}

func (d *DB) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.User,
		d.Password,
		d.DBName,
		d.SSLMode)
}

func (m *Mongo) DSN() string {
	return fmt.Sprintf("mongodb://%s:%s", m.Host, m.Port)
}

func (c *Config) set(key string) (string, error) {
	if os.Getenv(key) == "" {
		return "", ErrEnvNotFound
	}

	return os.Getenv(key), nil
}

func (c *Config) setOptional(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
