package services

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/models"
)

func TestExportWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	e := NewExcelExporter(dir, newTestLogger())

	records := []*models.ListingRecord{
		{
			ID:                "12345",
			DatePublished:     "2025-06-14 09:00:00",
			RelativeDate:      "5 ساعة",
			Pin:               models.NotPinned,
			Type:              "وظائف شاغرة",
			Title:             "مطلوب محاسب",
			Description:       "No Description",
			Link:              "https://www.q84sale.com/ar/ad/12345",
			Price:             "0 KWD",
			Address:           "Not Mentioned",
			AdditionalDetails: []string{"دوام كامل", "راتب شهري"},
			Specifications:    map[string]string{"القسم": "محاسبة", "الخبرة": "سنتان"},
			ViewsNo:           "44",
			Submitter:         "شركة التوظيف",
			Ads:               "12 ads",
			Membership:        "member since May 2020",
			Phone:             "96512345678",
		},
	}

	path, err := e.Export("وظائف شاغرة", records)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("export path %q not under %q", path, dir)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reading back exported file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1 record", len(rows))
	}

	if rows[0][0] != "id" || rows[0][len(exportColumns)-1] != "phone" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "12345" {
		t.Errorf("id cell: got %q, want %q", rows[1][0], "12345")
	}
	if rows[1][11] != "دوام كامل, راتب شهري" {
		t.Errorf("additional_details cell: got %q", rows[1][11])
	}
	// Specification keys come out sorted, so the cell is deterministic.
	if rows[1][12] != "الخبرة: سنتان; القسم: محاسبة" {
		t.Errorf("specifications cell: got %q", rows[1][12])
	}
}

func TestExportSkipsEmptyRecordList(t *testing.T) {
	e := NewExcelExporter(t.TempDir(), newTestLogger())

	path, err := e.Export("كتب", nil)
	if err != nil {
		t.Fatalf("Export of empty list should not error, got %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path for skipped export, got %q", path)
	}
}

func TestExportSanitizesFileName(t *testing.T) {
	dir := t.TempDir()
	e := NewExcelExporter(dir, newTestLogger())

	path, err := e.Export(`a/b\c`, []*models.ListingRecord{{ID: "1"}})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Base(path) != "a_b_c.xlsx" {
		t.Errorf("sanitized file name: got %q, want a_b_c.xlsx", filepath.Base(path))
	}
}
