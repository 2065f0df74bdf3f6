package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/config"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/models"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/services"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/utils"
)

// PageScraper fetches one category page and returns its records. After
// retry exhaustion implementations hand back whatever partial records they
// extracted alongside the error.
type PageScraper interface {
	ScrapePage(ctx context.Context, pageURL string) ([]*models.ListingRecord, error)
}

// Exporter turns one category's records into a local file.
type Exporter interface {
	Export(category string, records []*models.ListingRecord) (string, error)
}

// Uploader delivers local files and reports back the confirmed subset. An
// error means the destination itself is unusable, not a per-file failure.
type Uploader interface {
	UploadBatch(ctx context.Context, files []string) ([]string, error)
}

// Runner drives one whole run: categories in fixed-size chunks, a bounded
// number scraping concurrently, each chunk exported and uploaded before the
// next one starts.
type Runner struct {
	cfg      *config.Config
	section  config.Section
	target   string
	logger   *utils.Logger
	scraper  PageScraper
	exporter Exporter
	uploader Uploader
}

// NewRunner wires a Runner. targetDate is the publish day records must
// match, formatted 2006-01-02.
func NewRunner(cfg *config.Config, section config.Section, targetDate string,
	logger *utils.Logger, scraper PageScraper, exporter Exporter, uploader Uploader) *Runner {
	return &Runner{
		cfg:      cfg,
		section:  section,
		target:   targetDate,
		logger:   logger,
		scraper:  scraper,
		exporter: exporter,
		uploader: uploader,
	}
}

// Run processes the section's whole catalog. Category failures degrade to
// partial or empty results; only an unusable upload destination aborts the
// run.
func (r *Runner) Run(ctx context.Context) error {
	filter := services.NewDateWindowFilter(r.target, r.logger)
	chunks := chunkCategories(r.section.Categories, r.cfg.ChunkSize)
	pool := utils.NewWorkerPool(r.cfg.MaxConcurrentLinks, r.cfg.TaskLaunchDelay)

	r.logger.Info("[pipeline] Section %q — %d categories in %d chunks, target date %s",
		r.section.Name, len(r.section.Categories), len(chunks), r.target)

	for i, chunk := range chunks {
		r.logger.Info("[pipeline] Processing chunk %d/%d (%d categories)", i+1, len(chunks), len(chunk))

		results := make([][]*models.ListingRecord, len(chunk))
		for j, cat := range chunk {
			j, cat := j, cat
			pool.Submit(func() {
				results[j] = r.scrapeCategory(ctx, cat, filter)
			})
		}
		pool.Wait()

		var files []string
		for j, cat := range chunk {
			if len(results[j]) == 0 {
				r.logger.Info("[pipeline] No records for %q, skipping export", cat.Name)
				continue
			}
			path, err := r.exporter.Export(cat.Name, results[j])
			if err != nil {
				r.logger.Error("[pipeline] Export failed for %q: %v", cat.Name, err)
				continue
			}
			files = append(files, path)
		}

		if len(files) > 0 {
			uploaded, err := r.uploader.UploadBatch(ctx, files)
			if err != nil {
				return fmt.Errorf("chunk %d/%d upload: %w", i+1, len(chunks), err)
			}
			r.cleanup(files, uploaded)
		}

		if i < len(chunks)-1 {
			r.logger.Info("[pipeline] Waiting %v before next chunk", r.cfg.ChunkDelay)
			select {
			case <-time.After(r.cfg.ChunkDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	r.logger.Info("[pipeline] Run complete")
	return nil
}

// scrapeCategory walks a category's sources page by page, in order. Pinned
// ads repeat across pages, so records are deduplicated by link within the
// category before the date filter runs.
func (r *Runner) scrapeCategory(ctx context.Context, cat config.Category, filter *services.DateWindowFilter) []*models.ListingRecord {
	seen := utils.NewURLSet()
	var kept []*models.ListingRecord

	for _, src := range cat.Sources {
		for page := 1; page <= src.Pages; page++ {
			if ctx.Err() != nil {
				r.logger.Warn("[pipeline] %q stopped early: %v", cat.Name, ctx.Err())
				return kept
			}

			pageURL := fmt.Sprintf(src.URLTemplate, page)
			records, err := r.scraper.ScrapePage(ctx, pageURL)
			if err != nil {
				r.logger.Error("[pipeline] %q page %d degraded to %d records: %v",
					cat.Name, page, len(records), err)
			}

			var fresh []*models.ListingRecord
			for _, rec := range records {
				if rec.Link != "" && !seen.Add(rec.Link) {
					continue
				}
				fresh = append(fresh, rec)
			}
			kept = append(kept, filter.Apply(fresh)...)

			select {
			case <-time.After(r.cfg.PageDelay):
			case <-ctx.Done():
			}
		}
	}

	r.logger.Info("[pipeline] %q done — %d records kept", cat.Name, len(kept))
	return kept
}

// cleanup removes the local copies of confirmed uploads. Files whose upload
// was never confirmed stay on disk for manual recovery.
func (r *Runner) cleanup(files, uploaded []string) {
	confirmed := make(map[string]bool, len(uploaded))
	for _, file := range uploaded {
		confirmed[file] = true
	}

	for _, file := range files {
		if !confirmed[file] {
			r.logger.Warn("[pipeline] Keeping unconfirmed file %s", file)
			continue
		}
		if err := os.Remove(file); err != nil {
			r.logger.Warn("[pipeline] Could not remove %s: %v", file, err)
			continue
		}
		r.logger.Debug("[pipeline] Cleaned up local file %s", file)
	}
}

// chunkCategories splits the catalog into order-preserving chunks of at
// most size entries.
func chunkCategories(cats []config.Category, size int) [][]config.Category {
	if size < 1 {
		size = 1
	}

	var chunks [][]config.Category
	for start := 0; start < len(cats); start += size {
		end := start + size
		if end > len(cats) {
			end = len(cats)
		}
		chunks = append(chunks, cats[start:end])
	}
	return chunks
}
