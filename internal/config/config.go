package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/hulquest/ansibullbot/internal/github"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	GitHub   github.Config
	Repo     string
	BotName  string
	DataPath string
	LogDir   string
	CacheDir string
	// ExcludeUsers are dropped from every built history.
	ExcludeUsers []string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	cacheDir := getEnv("CACHE_DIR", filepath.Join(dataPath, "cache"))

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	rps, _ := strconv.ParseFloat(getEnv("GITHUB_REQUESTS_PER_SECOND", "1"), 64)

	cfg := &AppConfig{
		GitHub: github.Config{
			BaseURL:           getEnv("GITHUB_URL", "https://api.github.com"),
			Token:             getEnv("GITHUB_TOKEN", ""),
			RequestsPerSecond: rps,
		},
		Repo:         getEnv("GITHUB_REPO", ""),
		BotName:      getEnv("BOT_NAME", "ansibot"),
		DataPath:     dataPath,
		LogDir:       logDir,
		CacheDir:     cacheDir,
		ExcludeUsers: splitList(getEnv("EXCLUDE_USERS", "")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
