package services

import (
	"testing"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/models"
)

func TestDateWindowFilterKeepsTargetDateOnly(t *testing.T) {
	f := NewDateWindowFilter("2025-06-14", newTestLogger())

	records := []*models.ListingRecord{
		{ID: "1", DatePublished: "2025-06-14 23:59:59"},
		{ID: "2", DatePublished: "2025-06-14 00:00:01"},
		{ID: "3", DatePublished: "2025-06-15 00:00:00"},
		{ID: "4", DatePublished: "2025-06-13 12:00:00"},
		{ID: "5", DatePublished: ""},
	}

	kept := f.Apply(records)
	if len(kept) != 2 {
		t.Fatalf("kept %d records, want 2", len(kept))
	}
	if kept[0].ID != "1" || kept[1].ID != "2" {
		t.Errorf("kept wrong records: %s, %s", kept[0].ID, kept[1].ID)
	}
}

func TestDateWindowFilterDropsUnresolvedDates(t *testing.T) {
	f := NewDateWindowFilter("2025-06-14", newTestLogger())

	kept := f.Apply([]*models.ListingRecord{
		{ID: "1", DatePublished: "", RelativeDate: "مجهول"},
	})
	if len(kept) != 0 {
		t.Errorf("records without a publish date must be dropped, kept %d", len(kept))
	}
}

func TestDateWindowFilterEmptyInput(t *testing.T) {
	f := NewDateWindowFilter("2025-06-14", newTestLogger())

	if kept := f.Apply(nil); len(kept) != 0 {
		t.Errorf("empty input should stay empty, got %d", len(kept))
	}
}
