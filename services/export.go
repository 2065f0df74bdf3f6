package services

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/models"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/utils"
)

// exportColumns fixes the sheet layout; readers downstream depend on this order.
var exportColumns = []string{
	"id", "date_published", "relative_date", "pin", "type", "title",
	"description", "link", "image", "price", "address", "additional_details",
	"specifications", "views_no", "submitter", "ads", "membership", "phone",
}

const exportSheet = "Sheet1"

// ExcelExporter writes one .xlsx file per category into a working directory.
type ExcelExporter struct {
	dir    string
	logger *utils.Logger
}

// NewExcelExporter creates an exporter rooted at dir.
func NewExcelExporter(dir string, logger *utils.Logger) *ExcelExporter {
	return &ExcelExporter{dir: dir, logger: logger}
}

// Export writes the category's records to "<category>.xlsx" and returns the
// file path. An empty record list is skipped and returns an empty path.
func (e *ExcelExporter) Export(category string, records []*models.ListingRecord) (string, error) {
	if len(records) == 0 {
		e.logger.Info("[export] No data for %s, skipping file creation", category)
		return "", nil
	}

	path := filepath.Join(e.dir, sanitizeFileName(category)+".xlsx")

	f := excelize.NewFile()
	defer f.Close()

	for col, name := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", fmt.Errorf("export %s: header cell: %w", category, err)
		}
		if err := f.SetCellValue(exportSheet, cell, name); err != nil {
			return "", fmt.Errorf("export %s: write header: %w", category, err)
		}
	}

	for i, rec := range records {
		for col, val := range rowValues(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return "", fmt.Errorf("export %s: row cell: %w", category, err)
			}
			if err := f.SetCellValue(exportSheet, cell, val); err != nil {
				return "", fmt.Errorf("export %s: write row %d: %w", category, i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("export %s: save %s: %w", category, path, err)
	}

	e.logger.Info("[export] Saved %d records for %s to %s", len(records), category, path)
	return path, nil
}

func rowValues(rec *models.ListingRecord) []string {
	return []string{
		rec.ID,
		rec.DatePublished,
		rec.RelativeDate,
		rec.Pin,
		rec.Type,
		rec.Title,
		rec.Description,
		rec.Link,
		rec.Image,
		rec.Price,
		rec.Address,
		strings.Join(rec.AdditionalDetails, ", "),
		formatSpecifications(rec.Specifications),
		rec.ViewsNo,
		rec.Submitter,
		rec.Ads,
		rec.Membership,
		rec.Phone,
	}
}

// formatSpecifications renders the attribute map as "k: v; k: v" with keys
// sorted, so re-exports of the same record compare equal.
func formatSpecifications(specs map[string]string) string {
	if len(specs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+": "+specs[k])
	}
	return strings.Join(pairs, "; ")
}

// sanitizeFileName keeps the category label readable (it is usually Arabic)
// and only replaces path separators.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ReplaceAll(name, "\\", "_")
}
