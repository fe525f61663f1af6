package scraper

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/xaenox/bdc-edge/internal/models"
)

const (
	defaultMake  = "Unknown"
	defaultModel = "Unknown"
	defaultTrim  = "Base"
)

var (
	vinPattern     = regexp.MustCompile(`(?i)VIN[:\s#]*([A-HJ-NPR-Z0-9]{17})\b`)
	makePattern    = regexp.MustCompile(`(?i)(?:Make|Brand)[:\s]*([A-Za-z]+)`)
	modelPattern   = regexp.MustCompile(`(?i)Model[:\s]*([A-Za-z0-9 ]+)`)
	yearPattern    = regexp.MustCompile(`(?i)Year[:\s]*(\d{4})`)
	trimPattern    = regexp.MustCompile(`(?i)(?:Trim|Edition)[:\s]*([A-Za-z0-9 ]+)`)
	mileagePattern = regexp.MustCompile(`(?i)(?:Mileage|Miles)[:\s]*(\d[\d,]*)`)
	pricePattern   = regexp.MustCompile(`\$\s*(\d[\d,]*(?:\.\d+)?)`)
	imagePattern   = regexp.MustCompile(`(?i)\.(?:jpe?g|png|webp)`)
)

var (
	soldMarkers    = []string{"sold", "no longer available"}
	pendingMarkers = []string{"pending", "reserved"}
)

// Extractor pulls vehicle attributes out of listing HTML. It performs no I/O.
type Extractor struct {
	now func() time.Time
}

func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

// NewExtractorWithClock is used where the scrape timestamp and default year must be fixed
func NewExtractorWithClock(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Extract builds a VehicleRecord from page. Every field except the VIN falls back to a
// default when it cannot be found; a missing VIN is an ExtractionError.
func (e *Extractor) Extract(page, sourceURL, knownVIN string) (*models.VehicleRecord, error) {
	now := e.now()

	vin := strings.ToUpper(strings.TrimSpace(knownVIN))
	if vin == "" {
		vin = strings.ToUpper(firstMatch(vinPattern, page))
	}
	if vin == "" {
		return nil, &ExtractionError{URL: sourceURL, Reason: "VIN not found"}
	}

	record := &models.VehicleRecord{
		VIN:                vin,
		Make:               orDefault(firstMatch(makePattern, page), defaultMake),
		Model:              orDefault(firstMatch(modelPattern, page), defaultModel),
		Year:               now.Year(),
		Trim:               orDefault(firstMatch(trimPattern, page), defaultTrim),
		Mileage:            parseInt(firstMatch(mileagePattern, page)),
		Price:              parseFloat(firstMatch(pricePattern, page)),
		AvailabilityStatus: availability(page),
		ImageURLs:          imageURLs(page, sourceURL),
		Details: models.ScrapeDetails{
			ScrapedURL:    sourceURL,
			ScrapedAt:     now.UTC(),
			RawHTMLLength: len(page),
		},
	}

	if year, err := strconv.Atoi(firstMatch(yearPattern, page)); err == nil {
		record.Year = year
	}

	return record, nil
}

var defaultExtractor = NewExtractor()

// Extract runs the default extractor
func Extract(page, sourceURL, knownVIN string) (*models.VehicleRecord, error) {
	return defaultExtractor.Extract(page, sourceURL, knownVIN)
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}

// availability checks sold markers before pending ones
func availability(page string) models.AvailabilityStatus {
	content := strings.ToLower(page)
	for _, marker := range soldMarkers {
		if strings.Contains(content, marker) {
			return models.AvailabilitySold
		}
	}
	for _, marker := range pendingMarkers {
		if strings.Contains(content, marker) {
			return models.AvailabilityPending
		}
	}
	return models.AvailabilityInStock
}

// imageURLs returns every image src in document order, resolved against sourceURL.
// Lazy-load attributes such as data-src count, and so does markup inside <noscript>.
// Duplicates are kept.
func imageURLs(page, sourceURL string) []string {
	base, err := url.Parse(sourceURL)
	if err != nil || !base.IsAbs() {
		base = nil
	}
	return collectImages([]string{}, page, base)
}

func collectImages(urls []string, page string, base *url.URL) []string {
	var inNoscript bool
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return urls
		case html.TextToken:
			// the tokenizer hands noscript content back as raw text
			if inNoscript {
				urls = collectImages(urls, string(z.Text()), base)
			}
		case html.EndTagToken:
			inNoscript = false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			inNoscript = string(name) == "noscript"
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if !strings.HasSuffix(string(key), "src") || !imagePattern.Match(val) {
					continue
				}
				urls = append(urls, resolve(base, string(val)))
			}
		}
	}
}

func resolve(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
