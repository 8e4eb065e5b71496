// Package categories scrapes the ProductHunt category taxonomy and builds
// a mapping between URL-style names and display names. The mapping file
// helps normalize the category labels that appear on leaderboard cards.
package categories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const categoriesURL = "https://www.producthunt.com/categories"

// Category is one taxonomy entry.
type Category struct {
	DisplayName string `json:"display_name"`
	URLName     string `json:"url_name"`
	URL         string `json:"url"`
}

// Mapping is the serialized taxonomy file.
type Mapping struct {
	Metadata struct {
		ScrapedAt       string `json:"scraped_at"`
		TotalCategories int    `json:"total_categories"`
		SourceURL       string `json:"source_url"`
	} `json:"metadata"`
	Categories   map[string]Category `json:"categories"`
	URLToDisplay map[string]string   `json:"url_to_display_mapping"`
	DisplayToURL map[string]string   `json:"display_to_url_mapping"`
}

// Scraper fetches the taxonomy with a headless browser.
type Scraper struct {
	headless bool
	logger   *slog.Logger
}

// New creates a taxonomy scraper.
func New(headless bool, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{headless: headless, logger: logger}
}

type link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// ScrapeAll collects every category link from the categories page.
func (s *Scraper) ScrapeAll(ctx context.Context) (map[string]Category, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, 60*time.Second)
	defer cancelTimeout()

	var links []link
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(categoriesURL),
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(`Array.from(document.querySelectorAll('a[href*="/categories/"]'))
			.map(a => ({href: a.getAttribute('href'), text: a.innerText.trim()}))
			.filter(l => l.href && l.href !== '/categories' && l.text)`, &links),
	)
	if err != nil {
		return nil, fmt.Errorf("categories page: %w", err)
	}

	categories := make(map[string]Category)
	for _, l := range links {
		urlName := urlNameFromHref(l.Href)
		if urlName == "" {
			continue
		}
		if _, ok := categories[urlName]; ok {
			continue
		}
		categories[urlName] = Category{
			DisplayName: l.Text,
			URLName:     urlName,
			URL:         "https://www.producthunt.com/categories/" + urlName,
		}
	}

	s.logger.Info("scraped category taxonomy", slog.Int("categories", len(categories)))
	return categories, nil
}

// BuildMapping assembles the serializable taxonomy document.
func BuildMapping(categories map[string]Category) *Mapping {
	m := &Mapping{
		Categories:   categories,
		URLToDisplay: make(map[string]string, len(categories)),
		DisplayToURL: make(map[string]string, len(categories)),
	}
	m.Metadata.ScrapedAt = time.Now().UTC().Format(time.RFC3339)
	m.Metadata.TotalCategories = len(categories)
	m.Metadata.SourceURL = categoriesURL

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, urlName := range names {
		c := categories[urlName]
		m.URLToDisplay[urlName] = c.DisplayName
		m.DisplayToURL[strings.ToLower(c.DisplayName)] = urlName
		if normalized := NormalizeName(c.DisplayName); normalized != urlName {
			m.DisplayToURL[normalized] = urlName
		}
	}
	return m
}

// Save writes the taxonomy document to path.
func (m *Mapping) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write categories file: %w", err)
	}
	return nil
}

var (
	nonWordRe  = regexp.MustCompile(`[^\w\s-]`)
	spacesRe   = regexp.MustCompile(`\s+`)
	multiDash  = regexp.MustCompile(`-+`)
	hrefSuffix = regexp.MustCompile(`[?#].*$`)
)

// NormalizeName converts a display name to its URL-style form:
// "Engineering & Development" becomes "engineering-development".
func NormalizeName(name string) string {
	n := nonWordRe.ReplaceAllString(strings.ToLower(name), "")
	n = spacesRe.ReplaceAllString(strings.TrimSpace(n), "-")
	n = multiDash.ReplaceAllString(n, "-")
	return strings.Trim(n, "-")
}

func urlNameFromHref(href string) string {
	idx := strings.Index(href, "/categories/")
	if idx < 0 {
		return ""
	}
	name := href[idx+len("/categories/"):]
	name = hrefSuffix.ReplaceAllString(name, "")
	return strings.Trim(name, "/")
}
