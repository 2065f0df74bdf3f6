package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// PageSource is one paginated URL template inside a category. The template
// carries a single %d placeholder for the page number.
type PageSource struct {
	URLTemplate string `json:"url_template"`
	Pages       int    `json:"pages"`
}

// Category is one scrape unit: everything collected under its sources ends
// up in a single exported sheet named after the category.
type Category struct {
	Name    string       `json:"name"`
	Sources []PageSource `json:"sources"`
}

// Section bundles an ordered category catalog with its upload destination.
// Each section authenticates with its own service account.
type Section struct {
	Name           string     `json:"name"`
	CredentialsEnv string     `json:"credentials_env"`
	ParentFolderID string     `json:"parent_folder_id"`
	Categories     []Category `json:"categories"`
}

var builtinSections = []Section{
	{
		Name:           "jobs",
		CredentialsEnv: "JOBS_GCLOUD_KEY_JSON",
		ParentFolderID: "1-aLXkhIP2_DEcpSJ1xw1ukTGsbyf7HQG",
		Categories: []Category{
			{Name: "وظائف شاغرة", Sources: []PageSource{{"https://www.q84sale.com/ar/jobs/job-openings/%d", 4}}},
			{Name: "باحث عن عمل", Sources: []PageSource{{"https://www.q84sale.com/ar/jobs/job-seeker/%d", 5}}},
			{Name: "تعليم لغات", Sources: []PageSource{{"https://www.q84sale.com/ar/jobs/languages/%d", 2}}},
			{Name: "تدريس علوم", Sources: []PageSource{{"https://www.q84sale.com/ar/jobs/all-science/%d", 1}}},
			{Name: "تدريس رياضيات", Sources: []PageSource{{"https://www.q84sale.com/ar/jobs/math-teaching/%d", 1}}},
			{Name: "تدريس مواد مختلفة", Sources: []PageSource{{"https://www.q84sale.com/ar/jobs/other-subjects/%d", 1}}},
			{Name: "خدمات جامعية", Sources: []PageSource{{"https://www.q84sale.com/ar/jobs/university-services/%d", 1}}},
			{Name: "خدمات تعليمية", Sources: []PageSource{{"https://www.q84sale.com/ar/jobs/teaching-services/%d", 1}}},
		},
	},
	{
		Name:           "others",
		CredentialsEnv: "OTHERS_GCLOUD_KEY_JSON",
		ParentFolderID: "15z0undajkFeOFuAs2xOj93ZnC0p_9y4e",
		Categories: []Category{
			{Name: "عملات و طوابع و تحف قديمه", Sources: []PageSource{{"https://www.q84sale.com/ar/others/currencies-stamps-and-antiques/%d", 1}}},
			{Name: "ادوات موسيقية", Sources: []PageSource{{"https://www.q84sale.com/ar/others/audio-and-musical/%d", 1}}},
			{Name: "اللوازم المدرسية", Sources: []PageSource{{"https://www.q84sale.com/ar/others/school-supplies/%d", 1}}},
			{Name: "كتب", Sources: []PageSource{{"https://www.q84sale.com/ar/others/books/%d", 1}}},
			{Name: "مبيعات الجملة", Sources: []PageSource{{"https://www.q84sale.com/ar/others/wholesale/%d", 1}}},
			{Name: "مطبوعات", Sources: []PageSource{{"https://www.q84sale.com/ar/others/stickers/%d", 1}}},
			{Name: "مفقودات", Sources: []PageSource{{"https://www.q84sale.com/ar/others/lost-and-found/%d", 1}}},
			{Name: "متفرقات أخرى", Sources: []PageSource{{"https://www.q84sale.com/ar/others/other-miscellaneous/%d", 3}}},
		},
	},
}

// SectionByName returns the section catalog for the given name. When
// overrideFile is non-empty the catalog is read from that JSON file instead
// of the built-in definitions.
func SectionByName(name, overrideFile string) (Section, error) {
	sections := builtinSections
	if overrideFile != "" {
		loaded, err := loadSectionsFile(overrideFile)
		if err != nil {
			return Section{}, err
		}
		sections = loaded
	}

	for _, s := range sections {
		if s.Name == name {
			if len(s.Categories) == 0 {
				return Section{}, fmt.Errorf("section %q has no categories", name)
			}
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("unknown section %q", name)
}

func loadSectionsFile(path string) ([]Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sections file: %w", err)
	}
	var sections []Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("parse sections file %q: %w", path, err)
	}
	return sections, nil
}
