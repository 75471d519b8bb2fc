package app

import "os"

type Config struct {
	DatabaseFile string // Path to the SQLite database file (default: ./weightlog.db)
	FlagsFile    string // Path to the JSON flag-store file (default: ./weightlog-flags.json)
	Env          string // Environment (dev, prod) (default: prod)
	LogLevel     string // Log level (debug, info, warn, error) (default: info)
	LogFormat    string // Log format (json, text) (default: text)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile: getEnvOrDefault("WEIGHTLOG_DATABASE_FILE", "weightlog.db"),
		FlagsFile:    getEnvOrDefault("WEIGHTLOG_FLAGS_FILE", "weightlog-flags.json"),
		Env:          getEnvOrDefault("WEIGHTLOG_ENV", "prod"),
		LogLevel:     getEnvOrDefault("WEIGHTLOG_LOG_LEVEL", "info"),
		LogFormat:    getEnvOrDefault("WEIGHTLOG_LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
