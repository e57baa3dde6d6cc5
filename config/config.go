package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port        string
	GroqAPIKey  string
	GroqModel   string
	CatalogPath string

	ScrapeTimeoutMs int
	ListingLimit    int
	ImageLimit      int
	HistoryLimit    int

	UseBrowser bool
	ChromeBin  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Port:        getEnv("PORT", "5000"),
		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqModel:   getEnv("GROQ_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
		CatalogPath: getEnv("CATALOG_PATH", "./data/bakugan_catalog.json"),

		ScrapeTimeoutMs: getEnvInt("SCRAPE_TIMEOUT_MS", 30000),
		ListingLimit:    getEnvInt("LISTING_LIMIT", 10),
		ImageLimit:      getEnvInt("IMAGE_LIMIT", 5),
		HistoryLimit:    getEnvInt("HISTORY_LIMIT", 50),

		UseBrowser: getEnvBool("USE_BROWSER", false),
		ChromeBin:  getEnv("CHROME_BIN", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
