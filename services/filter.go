package services

import (
	"strings"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/models"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/utils"
)

// DateWindowFilter keeps only records published on a single calendar date.
type DateWindowFilter struct {
	targetDate string // "2006-01-02"
	logger     *utils.Logger
}

// NewDateWindowFilter creates a filter for the given target date.
func NewDateWindowFilter(targetDate string, logger *utils.Logger) *DateWindowFilter {
	return &DateWindowFilter{targetDate: targetDate, logger: logger}
}

// Apply returns the records whose publish date falls on the target date.
// Records without a resolved publish timestamp are dropped.
func (f *DateWindowFilter) Apply(records []*models.ListingRecord) []*models.ListingRecord {
	kept := make([]*models.ListingRecord, 0, len(records))
	for _, rec := range records {
		if rec.DatePublished == "" {
			continue
		}
		if strings.SplitN(rec.DatePublished, " ", 2)[0] == f.targetDate {
			kept = append(kept, rec)
		}
	}

	if dropped := len(records) - len(kept); dropped > 0 {
		f.logger.Debug("[filter] Kept %d of %d records for %s", len(kept), len(records), f.targetDate)
	}
	return kept
}
