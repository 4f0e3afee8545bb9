package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	HTTPAddr string
	LogLevel string

	// Editing-session behaviour.
	DebounceWindow time.Duration

	// Defaults applied by the repositories when a field is missing.
	DefaultFolderID    int64
	DefaultNoteTitle   string
	DefaultFolderName  string
	DefaultFolderColor string
}

// Load builds the configuration from environment variables. When CONFIG_FILE
// points at a YAML file, values set there override the environment.
func Load() Config {
	cfg := Config{
		DatabaseURL:     getenv("DATABASE_URL", ""),
		MaxOpenConns:    getenvInt("DB_MAX_OPEN", 20),
		MaxIdleConns:    getenvInt("DB_MAX_IDLE", 10),
		ConnMaxLifetime: getenvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		ConnMaxIdleTime: getenvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),

		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DebounceWindow: getenvDuration("DEBOUNCE_WINDOW", 3*time.Second),

		DefaultFolderID:    getenvInt64("DEFAULT_FOLDER_ID", 2),
		DefaultNoteTitle:   getenv("DEFAULT_NOTE_TITLE", "Untitled note"),
		DefaultFolderName:  getenv("DEFAULT_FOLDER_NAME", "New folder"),
		DefaultFolderColor: getenv("DEFAULT_FOLDER_COLOR", "#3498DB"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		applyFile(&cfg, path)
	}
	return cfg
}

// fileConfig mirrors Config with optional fields; only set keys override.
type fileConfig struct {
	DatabaseURL *string `yaml:"database_url"`
	HTTPAddr    *string `yaml:"http_addr"`
	LogLevel    *string `yaml:"log_level"`

	DebounceWindow *string `yaml:"debounce_window"`

	DefaultFolderID    *int64  `yaml:"default_folder_id"`
	DefaultNoteTitle   *string `yaml:"default_note_title"`
	DefaultFolderName  *string `yaml:"default_folder_name"`
	DefaultFolderColor *string `yaml:"default_folder_color"`
}

func applyFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return
	}
	if fc.DatabaseURL != nil {
		cfg.DatabaseURL = *fc.DatabaseURL
	}
	if fc.HTTPAddr != nil {
		cfg.HTTPAddr = *fc.HTTPAddr
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.DebounceWindow != nil {
		if d, err := time.ParseDuration(*fc.DebounceWindow); err == nil {
			cfg.DebounceWindow = d
		}
	}
	if fc.DefaultFolderID != nil {
		cfg.DefaultFolderID = *fc.DefaultFolderID
	}
	if fc.DefaultNoteTitle != nil {
		cfg.DefaultNoteTitle = *fc.DefaultNoteTitle
	}
	if fc.DefaultFolderName != nil {
		cfg.DefaultFolderName = *fc.DefaultFolderName
	}
	if fc.DefaultFolderColor != nil {
		cfg.DefaultFolderColor = *fc.DefaultFolderColor
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return i
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
