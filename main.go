package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/config"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/pipeline"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/scraper/q84sale"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/services"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/storage"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/utils"
)

func main() {
	cfg := config.Load()

	logger := utils.NewLogger()
	if logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
		defer logFile.Close()
		logger = utils.NewLogger(logFile)
	} else {
		logger.Warn("Could not open log file %s: %v", cfg.LogFile, err)
	}

	logger.Info("=== q84sale Scraping System starting ===")
	logger.Info("Config — section: %s | chunk: %d | concurrency: %d | scrape retries: %d | upload retries: %d",
		cfg.Section, cfg.ChunkSize, cfg.MaxConcurrentLinks, cfg.ScrapeRetries, cfg.UploadRetries)

	section, err := config.SectionByName(cfg.Section, cfg.CategoriesFile)
	if err != nil {
		logger.Error("Invalid section: %v", err)
		os.Exit(1)
	}
	logger.Info("Section %q — %d categories | parent folder: %s",
		section.Name, len(section.Categories), section.ParentFolderID)

	if cfg.RunSchedule == "" {
		if err := runOnce(cfg, section, logger); err != nil {
			logger.Error("Run failed: %v", err)
			os.Exit(1)
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.RunSchedule, func() {
		if err := runOnce(cfg, section, logger); err != nil {
			logger.Error("Scheduled run failed: %v", err)
		}
	}); err != nil {
		logger.Error("Invalid RUN_SCHEDULE %q: %v", cfg.RunSchedule, err)
		os.Exit(1)
	}

	logger.Info("Scheduler started — runs on %q", cfg.RunSchedule)
	c.Run()
}

// runOnce performs one full scrape-export-upload cycle for yesterday's
// listings.
func runOnce(cfg *config.Config, section config.Section, logger *utils.Logger) error {
	ctx := context.Background()

	targetDate := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	logger.Info("Target date: %s", targetDate)

	creds := os.Getenv(section.CredentialsEnv)
	if creds == "" {
		return fmt.Errorf("no credentials in %s", section.CredentialsEnv)
	}

	drive := storage.NewGoogleDrive([]byte(creds), section.ParentFolderID, logger)
	uploader := storage.NewUploader(drive, cfg, targetDate, logger)
	if err := uploader.Setup(ctx); err != nil {
		return fmt.Errorf("storage setup: %w", err)
	}

	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	scraper, cleanup := q84sale.New(cfg, logger)
	defer cleanup()

	exporter := services.NewExcelExporter(cfg.TempDir, logger)
	runner := pipeline.NewRunner(cfg, section, targetDate, logger, scraper, exporter, uploader)
	return runner.Run(ctx)
}
