package q84sale

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/models"
)

// Selectors for the site's obfuscated class names. They change when the
// frontend redeploys, so they live in one place.
const (
	cardTypeSelector  = ".text-6-med.text-neutral_600.styles_category__NQAci"
	cardTitleSelector = ".text-4-med.text-neutral_900.styles_title__l5TTA.undefined"
	cardTagsSelector  = ".StackedCard_tags__SsKrH"

	descriptionSelector = ".styles_description__DpRnU"
	imageSelector       = ".styles_img__PC9G3"
	priceSelector       = ".h3.m-h5.text-prim_4sale_500"
	addressSelector     = ".text-4-regular.m-text-5-med.text-neutral_600"

	idSectionSelector = ".el-lvl-1.d-flex.align-items-center.justify-content-between.styles_sectionWrapper__v97PG"

	dataIconSelector     = ".d-flex.align-items-center.styles_dataWithIcon__For9u"
	dataIconTextSelector = ".text-5-regular.m-text-6-med.text-neutral_600"

	boolAttrsSelector = ".styles_boolAttrs__Ce6YV .styles_boolAttr__Fkh_j div"
	specAttrsSelector = ".styles_attrs__PX5Fs .styles_attr__BN3w_"
	specValueSelector = ".text-4-med.m-text-5-med.text-neutral_900"

	submitterWrapperSelector = ".styles_infoWrapper__v4P8_.undefined.align-items-center"
	submitterNameSelector    = ".text-4-med.m-h6.text-neutral_900"
	submitterDetailSelector  = ".styles_memberDate__qdUsm span.text-neutral_600"
)

var (
	adNumberRegexp     = regexp.MustCompile(`رقم الاعلان:\s*(\d+)`)
	adNumberLineRegexp = regexp.MustCompile(`^رقم الاعلان: \d+$`)
	adsCountRegexp     = regexp.MustCompile(`(?i)^\d+\s+(?:ads|اعلان)$`)
	membershipRegexp   = regexp.MustCompile(`(?i)^(?:عضو منذ|member since)\s\D+\s+\d+$`)
)

// relativeKeywords mark the data row holding the listing's age. The views
// row shares the same markup, so the age row is found by wording.
var relativeKeywords = []string{"منذ", "ساعة", "يوم", "دقيقة", "شهر"}

// cardSummary is what a category page shows about a listing before its
// detail page is visited.
type cardSummary struct {
	link     string
	cardType string
	title    string
	pin      string
}

// detailFields is everything extracted from one detail page.
type detailFields struct {
	id           string
	description  string
	image        string
	price        string
	address      string
	additional   []string
	specs        map[string]string
	viewsNo      string
	submitter    string
	ads          string
	membership   string
	phone        string
	relativeDate string
}

func parseCards(html string) ([]cardSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var cards []cardSummary
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		cards = append(cards, cardSummary{
			link:     absoluteLink(card.AttrOr("href", "")),
			cardType: strings.TrimSpace(card.Find(cardTypeSelector).First().Text()),
			title:    strings.TrimSpace(card.Find(cardTitleSelector).First().Text()),
			pin:      pinStatus(card),
		})
	})
	return cards, nil
}

func parseDetailPage(html string) (detailFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return detailFields{}, fmt.Errorf("parse detail page: %w", err)
	}

	d := detailFields{
		id:           extractID(doc),
		description:  extractDescription(doc),
		image:        doc.Find(imageSelector).First().AttrOr("src", ""),
		price:        extractPrice(doc),
		address:      extractAddress(doc),
		additional:   extractAdditionalDetails(doc),
		specs:        extractSpecifications(doc),
		viewsNo:      strings.TrimSpace(doc.Find(dataIconSelector + " " + dataIconTextSelector).First().Text()),
		phone:        extractPhone(doc),
		relativeDate: extractRelativeDate(doc),
	}
	d.submitter, d.ads, d.membership = extractSubmitterDetails(doc)
	return d, nil
}

func absoluteLink(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return baseURL + href
}

// pinStatus reports whether the card carries anything in its tags strip.
func pinStatus(card *goquery.Selection) string {
	tags := card.Find(cardTagsSelector).First()
	if tags.Length() > 0 {
		if content, err := tags.Html(); err == nil && strings.TrimSpace(content) != "" {
			return models.PinnedToday
		}
	}
	return models.NotPinned
}

func extractID(doc *goquery.Document) string {
	section := doc.Find(idSectionSelector).First()
	if section.Length() == 0 {
		return ""
	}
	text := section.Find(addressSelector).First().Text()
	if m := adNumberRegexp.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func extractDescription(doc *goquery.Document) string {
	el := doc.Find(descriptionSelector).First()
	if el.Length() == 0 {
		return "No Description"
	}
	return strings.TrimSpace(el.Text())
}

func extractPrice(doc *goquery.Document) string {
	el := doc.Find(priceSelector).First()
	if el.Length() == 0 {
		return "0 KWD"
	}
	return strings.TrimSpace(el.Text())
}

// extractAddress reads the first neutral text block. On pages without an
// address that block is the ad-number line, which does not count.
func extractAddress(doc *goquery.Document) string {
	el := doc.Find(addressSelector).First()
	if el.Length() == 0 {
		return "Not Mentioned"
	}
	text := strings.TrimSpace(el.Text())
	if adNumberLineRegexp.MatchString(text) {
		return "Not Mentioned"
	}
	return text
}

func extractAdditionalDetails(doc *goquery.Document) []string {
	var values []string
	doc.Find(boolAttrsSelector).Each(func(_ int, el *goquery.Selection) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			values = append(values, text)
		}
	})
	return values
}

func extractSpecifications(doc *goquery.Document) map[string]string {
	specs := make(map[string]string)
	doc.Find(specAttrsSelector).Each(func(_ int, attr *goquery.Selection) {
		alt := attr.Find("img").First().AttrOr("alt", "")
		value := strings.TrimSpace(attr.Find(specValueSelector).First().Text())
		if alt != "" && value != "" {
			specs[alt] = value
		}
	})
	return specs
}

func extractRelativeDate(doc *goquery.Document) string {
	var phrase string
	doc.Find(dataIconSelector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		text := item.Text()
		for _, kw := range relativeKeywords {
			if strings.Contains(text, kw) {
				phrase = strings.TrimSpace(item.Find(dataIconTextSelector).First().Text())
				return false
			}
		}
		return true
	})
	return phrase
}

// extractSubmitterDetails reads the advertiser block: display name, how many
// ads the account runs, and how long it has been a member. The counters keep
// their fallback wording when the block omits them.
func extractSubmitterDetails(doc *goquery.Document) (submitter, ads, membership string) {
	wrapper := doc.Find(submitterWrapperSelector).First()
	if wrapper.Length() == 0 {
		return "", "", ""
	}

	submitter = strings.TrimSpace(wrapper.Find(submitterNameSelector).First().Text())
	ads = "0 ads"
	membership = "membership year not mentioned"

	wrapper.Find(submitterDetailSelector).Each(func(_ int, detail *goquery.Selection) {
		text := strings.TrimSpace(detail.Text())
		switch {
		case adsCountRegexp.MatchString(text):
			ads = text
		case membershipRegexp.MatchString(text):
			membership = text
		}
	})
	return submitter, ads, membership
}

// extractPhone digs the phone number out of the page's embedded Next.js
// state, the only place the site exposes it without a click.
func extractPhone(doc *goquery.Document) string {
	raw := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").First().Text())
	if raw == "" {
		return ""
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return ""
	}

	cur := payload
	for _, key := range []string{"props", "pageProps", "listing"} {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return ""
		}
		cur = next
	}

	switch v := cur["phone"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
