package q84sale

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/config"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/models"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/services"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/utils"
)

const (
	baseURL      = "https://www.q84sale.com"
	cardSelector = ".StackedCard_card__Kvggc"
)

// Scraper turns q84sale category pages into listing records. One headless
// browser process backs all pages; every fetch attempt runs in a fresh tab
// so a wedged page never poisons the next try.
type Scraper struct {
	cfg      *config.Config
	logger   *utils.Logger
	resolver *services.RelativeTimeResolver
	retry    *utils.RetryConfig

	allocCtx context.Context

	// fetchHTML loads a URL in a fresh tab and returns the rendered DOM.
	fetchHTML func(url, waitSelector string, timeout time.Duration) (string, error)
}

// New creates a Scraper and starts its browser allocator. The returned
// cleanup func shuts the browser down.
func New(cfg *config.Config, logger *utils.Logger) (*Scraper, func()) {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[q84sale] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	s := &Scraper{
		cfg:      cfg,
		logger:   logger,
		resolver: services.NewRelativeTimeResolver(logger),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.ScrapeRetries,
			Logger:      logger,
		},
		allocCtx: silentCtx,
	}
	s.fetchHTML = s.fetchWithBrowser

	cleanup := func() {
		cancelSilent()
		cancelAlloc()
	}
	return s, cleanup
}

// ScrapePage loads one category page and returns a record per card, each
// enriched from its own detail page. A failed attempt is discarded and
// redone from a fresh tab; once the attempts run out the latest partial
// extractions are returned alongside the error.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) ([]*models.ListingRecord, error) {
	var records []*models.ListingRecord

	err := s.retry.Do("listing-page", func() error {
		recs, ferr := s.scrapePageOnce(ctx, pageURL)
		if ferr == nil || len(recs) > 0 {
			records = recs
		}
		return ferr
	})
	if err != nil {
		s.logger.Error("[q84sale] Giving up on %s with %d partial records: %v", pageURL, len(records), err)
		return records, err
	}

	s.logger.Info("[q84sale] %s — %d records", pageURL, len(records))
	return records, nil
}

func (s *Scraper) scrapePageOnce(ctx context.Context, pageURL string) ([]*models.ListingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	html, err := s.fetchHTML(pageURL, cardSelector, s.cfg.PageLoadTimeout)
	if err != nil {
		return nil, err
	}

	cards, err := parseCards(html)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("[q84sale] %s — found %d cards", pageURL, len(cards))

	records := make([]*models.ListingRecord, 0, len(cards))
	for _, card := range cards {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		records = append(records, s.scrapeDetails(card))
	}
	return records, nil
}

// scrapeDetails fills in the record behind one card. Detail failures stay
// contained: after the last retry the record keeps its card-level fields
// and no publish date, so the date filter drops it downstream.
func (s *Scraper) scrapeDetails(card cardSummary) *models.ListingRecord {
	rec := &models.ListingRecord{
		Pin:   card.pin,
		Type:  card.cardType,
		Title: card.title,
		Link:  card.link,
	}
	if card.link == "" {
		s.logger.Warn("[q84sale] Card %q has no link, keeping summary fields only", card.title)
		return rec
	}

	err := s.retry.Do("detail-page", func() error {
		html, err := s.fetchHTML(card.link, "", s.cfg.DetailLoadTimeout)
		if err != nil {
			return err
		}
		details, err := parseDetailPage(html)
		if err != nil {
			return err
		}
		s.applyDetails(rec, details)
		return nil
	})
	if err != nil {
		s.logger.Warn("[q84sale] Detail page failed for %s: %v", card.link, err)
	}
	return rec
}

func (s *Scraper) applyDetails(rec *models.ListingRecord, d detailFields) {
	rec.ID = d.id
	rec.Description = d.description
	rec.Image = d.image
	rec.Price = d.price
	rec.Address = d.address
	rec.AdditionalDetails = d.additional
	rec.Specifications = d.specs
	rec.ViewsNo = d.viewsNo
	rec.Submitter = d.submitter
	rec.Ads = d.ads
	rec.Membership = d.membership
	rec.Phone = d.phone

	rec.RelativeDate = d.relativeDate
	if d.relativeDate != "" {
		if published, ok := s.resolver.Resolve(d.relativeDate); ok {
			rec.DatePublished = published
		}
	}
}

// fetchWithBrowser renders a URL in a fresh tab and hands back the DOM.
// When waitSelector is set the fetch blocks until it turns visible.
func (s *Scraper) fetchWithBrowser(url, waitSelector string, timeout time.Duration) (string, error) {
	tabCtx, cancel := chromedp.NewContext(s.allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	actions := []chromedp.Action{chromedp.Navigate(url)}
	if waitSelector != "" {
		actions = append(actions, chromedp.WaitVisible(waitSelector, chromedp.ByQuery))
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", fmt.Errorf("chromedp fetch %s: %w", url, err)
	}
	return html, nil
}

// findChromeBinary locates the Chrome/Chromium binary.
func findChromeBinary(preferred string) string {
	if preferred != "" {
		return preferred
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
