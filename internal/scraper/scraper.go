// Package scraper fetches the day's ProductHunt leaderboard and parses it
// into raw product records. The site renders client-side, so extraction
// runs inside a headless browser.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"phrecap/internal/domain"
)

const leaderboardURL = "https://www.producthunt.com/leaderboard/daily"

// Scraper drives the headless-browser fetch of one day's leaderboard.
type Scraper struct {
	headless    bool
	userAgent   string
	delay       time.Duration
	maxAttempts int
	logger      *slog.Logger
}

// Options configures a Scraper.
type Options struct {
	Headless    bool
	UserAgent   string
	Delay       time.Duration
	MaxAttempts int
	Logger      *slog.Logger
}

// New creates a ready-to-use leaderboard scraper.
func New(opts Options) *Scraper {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Scraper{
		headless:    opts.Headless,
		userAgent:   opts.UserAgent,
		delay:       opts.Delay,
		maxAttempts: opts.MaxAttempts,
		logger:      opts.Logger,
	}
}

// card mirrors the JS extraction payload.
type card struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline"`
	Votes    int    `json:"votes"`
	Comments int    `json:"comments"`
	URL      string `json:"url"`
	Maker    string `json:"maker"`
	Category string `json:"category"`
}

// DailyProducts scrapes the leaderboard for a YYYY-MM-DD date and returns
// the products in page order, deduplicated by URL. Failed attempts are
// retried with exponential spacing up to the configured maximum.
func (s *Scraper) DailyProducts(ctx context.Context, date string) ([]domain.Product, error) {
	pageURL, err := dailyURL(date)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(s.userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var lastErr error
	delay := s.delay
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		products, err := s.scrapeOnce(allocCtx, pageURL, date)
		if err == nil {
			s.logger.Info("leaderboard scrape complete",
				slog.String("date", date),
				slog.Int("products", len(products)))
			return domain.DedupeByURL(products), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < s.maxAttempts {
			s.logger.Warn("leaderboard scrape failed, retrying",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", s.maxAttempts),
				slog.Duration("delay", delay),
				slog.String("error", err.Error()))
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
			delay *= 2
		}
	}
	return nil, fmt.Errorf("scrape leaderboard for %s: %w", date, lastErr)
}

func (s *Scraper) scrapeOnce(allocCtx context.Context, pageURL, date string) ([]domain.Product, error) {
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, 90*time.Second)
	defer cancelTimeout()

	var cards []card
	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(4*time.Second),

		// load the whole list before extracting
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(2*time.Second),

		chromedp.Evaluate(extractJS, &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard page: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("no products found on %s", pageURL)
	}

	products := make([]domain.Product, 0, len(cards))
	for _, c := range cards {
		if c.URL == "" || c.Name == "" {
			continue
		}
		products = append(products, domain.Product{
			Name:       c.Name,
			Tagline:    c.Tagline,
			Votes:      c.Votes,
			Comments:   c.Comments,
			URL:        c.URL,
			Maker:      c.Maker,
			Category:   c.Category,
			LaunchedAt: date,
		})
	}
	return products, nil
}

// dailyURL builds the leaderboard URL for a date. ProductHunt uses
// /leaderboard/daily/YYYY/M/D without zero padding.
func dailyURL(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return fmt.Sprintf("%s/%d/%d/%d", leaderboardURL, t.Year(), int(t.Month()), t.Day()), nil
}

// extractJS pulls product cards out of the leaderboard DOM. Selectors use
// data-test attributes first and fall back to post links.
var extractJS = strings.TrimSpace(`
(function() {
	var results = [];
	var seen = {};
	var sections = document.querySelectorAll('[data-test^="post-item"], section[data-test^="post"]');
	if (sections.length === 0) {
		sections = document.querySelectorAll('div[class*="item"]');
	}
	for (var i = 0; i < sections.length; i++) {
		var el = sections[i];
		var link = el.querySelector('a[href*="/posts/"], a[href*="/products/"]');
		if (!link || !link.href || seen[link.href]) continue;
		seen[link.href] = true;

		var nameEl = el.querySelector('[data-test="post-name"], strong, h3');
		var tagEl = el.querySelector('[data-test="post-tagline"], [class*="tagline"]');
		var voteEl = el.querySelector('[data-test="vote-button"], button[class*="vote"]');
		var commentEl = el.querySelector('a[href*="#comments"], [data-test="comments-count"]');
		var topicEl = el.querySelector('a[href*="/topics/"]');

		var votes = 0;
		if (voteEl) {
			var m = voteEl.innerText.replace(/,/g, '').match(/\d+/);
			if (m) votes = parseInt(m[0], 10);
		}
		var comments = 0;
		if (commentEl) {
			var cm = commentEl.innerText.replace(/,/g, '').match(/\d+/);
			if (cm) comments = parseInt(cm[0], 10);
		}

		results.push({
			name: nameEl ? nameEl.innerText.trim() : '',
			tagline: tagEl ? tagEl.innerText.trim() : '',
			votes: votes,
			comments: comments,
			url: link.href,
			maker: '',
			category: topicEl ? topicEl.innerText.trim() : ''
		});
	}
	return results;
})()
`)
