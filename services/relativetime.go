package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/utils"
)

// PublishedTimeLayout is the timestamp format stored on records and
// compared against the retention window.
const PublishedTimeLayout = "2006-01-02 15:04:05"

// relativeTimeRegexp captures "<count> <unit>" where the unit is either the
// English or the Arabic word the site renders, e.g. "3 Hour" or "5 ساعة".
var relativeTimeRegexp = regexp.MustCompile(`(?i)(\d+)\s+(second|minute|hour|day|month|شهر|ثانية|دقيقة|ساعة|يوم)`)

// RelativeTimeResolver converts the site's relative-age phrases into
// absolute timestamps.
type RelativeTimeResolver struct {
	logger *utils.Logger
	now    func() time.Time
}

// NewRelativeTimeResolver creates a resolver anchored to the wall clock.
func NewRelativeTimeResolver(logger *utils.Logger) *RelativeTimeResolver {
	return &RelativeTimeResolver{logger: logger, now: time.Now}
}

// Resolve turns a phrase like "3 Hour" or "5 ساعة" into a formatted absolute
// timestamp. The second return value is false when no unit could be parsed.
func (r *RelativeTimeResolver) Resolve(phrase string) (string, bool) {
	m := relativeTimeRegexp.FindStringSubmatch(phrase)
	if m == nil {
		r.logger.Debug("[time] No relative unit in %q", phrase)
		return "", false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}

	t := r.now()
	switch strings.ToLower(m[2]) {
	case "second", "ثانية":
		t = t.Add(-time.Duration(n) * time.Second)
	case "minute", "دقيقة":
		t = t.Add(-time.Duration(n) * time.Minute)
	case "hour", "ساعة":
		t = t.Add(-time.Duration(n) * time.Hour)
	case "day", "يوم":
		t = t.Add(-time.Duration(n) * 24 * time.Hour)
	case "month", "شهر":
		// Calendar subtraction, not a fixed 30 days.
		t = t.AddDate(0, -n, 0)
	default:
		return "", false
	}

	return t.Format(PublishedTimeLayout), true
}
