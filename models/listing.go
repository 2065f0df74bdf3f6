package models

// Pin status values exactly as they appear in the exported sheets.
const (
	PinnedToday = "Pinned today"
	NotPinned   = "Not Pinned"
)

// ListingRecord is one classified ad, assembled from a category-page card
// plus its own detail page. Fields stay strings in the site's own wording
// so exports show what a visitor would read on the page.
type ListingRecord struct {
	ID            string
	DatePublished string // "2006-01-02 15:04:05"; empty when the relative phrase could not be resolved
	RelativeDate  string // the phrase shown on the page, e.g. "5 ساعة"
	Pin           string
	Type          string // category label printed on the card itself
	Title         string
	Description   string
	Link          string
	Image         string
	Price         string
	Address       string

	AdditionalDetails []string
	Specifications    map[string]string

	ViewsNo    string
	Submitter  string
	Ads        string
	Membership string
	Phone      string
}
