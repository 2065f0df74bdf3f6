package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Section        string
	CategoriesFile string
	RunSchedule    string

	ChunkSize          int
	MaxConcurrentLinks int
	ScrapeRetries      int
	UploadRetries      int

	TaskLaunchDelay  time.Duration
	PageDelay        time.Duration
	ChunkDelay       time.Duration
	UploadRetryDelay time.Duration

	PageLoadTimeout   time.Duration
	DetailLoadTimeout time.Duration

	TempDir   string
	LogFile   string
	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Section:        getEnv("SECTION", "jobs"),
		CategoriesFile: getEnv("CATEGORIES_FILE", ""),
		RunSchedule:    getEnv("RUN_SCHEDULE", ""),

		ChunkSize:          getEnvInt("CHUNK_SIZE", 2),
		MaxConcurrentLinks: getEnvInt("MAX_CONCURRENT_LINKS", 2),
		ScrapeRetries:      getEnvInt("SCRAPE_RETRIES", 3),
		UploadRetries:      getEnvInt("UPLOAD_RETRIES", 3),

		TaskLaunchDelay:  getEnvDuration("TASK_LAUNCH_DELAY", 2*time.Second),
		PageDelay:        getEnvDuration("PAGE_DELAY", 3*time.Second),
		ChunkDelay:       getEnvDuration("CHUNK_DELAY", 10*time.Second),
		UploadRetryDelay: getEnvDuration("UPLOAD_RETRY_DELAY", 15*time.Second),

		PageLoadTimeout:   getEnvDuration("PAGE_LOAD_TIMEOUT", 30*time.Second),
		DetailLoadTimeout: getEnvDuration("DETAIL_LOAD_TIMEOUT", 60*time.Second),

		TempDir:   getEnv("TEMP_DIR", "temp_files"),
		LogFile:   getEnv("LOG_FILE", "scraper.log"),
		ChromeBin: getEnv("CHROME_BIN", ""),
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
		log.Printf("[config] Ignoring %s=%q: not a duration", key, val)
	}
	return fallback
}
