// Package scraper fills in missing article summaries by fetching the
// story page and reading its description metadata.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/deusflow/aidigest/internal/article"
	"github.com/deusflow/aidigest/internal/cache"
	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/metrics"
)

// Browser-like header, some sites refuse the default Go client string
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

const (
	fetchTimeout = 5 * time.Second
	cacheTTL     = 24 * time.Hour
)

type Scraper struct {
	client      *http.Client
	cache       *cache.Cache
	concurrency int
	maxFetches  int
}

func New(c *cache.Cache, concurrency, maxFetches int) *Scraper {
	if concurrency <= 0 {
		concurrency = 5
	}
	if maxFetches <= 0 {
		maxFetches = 20
	}
	return &Scraper{
		client:      &http.Client{Timeout: fetchTimeout},
		cache:       c,
		concurrency: concurrency,
		maxFetches:  maxFetches,
	}
}

// EnrichSummaries fetches summaries for items flagged NeedsSummary, up to
// maxFetches pages per run. Items keep whatever summary they had when
// every strategy fails. Discussion pages on Reddit and Hacker News are
// skipped, their text is the thread rather than the story.
func (s *Scraper) EnrichSummaries(ctx context.Context, items []article.Article) {
	var targets []int
	for i := range items {
		if !items[i].NeedsSummary || isDiscussionPage(items[i].URL) {
			continue
		}
		targets = append(targets, i)
		if len(targets) >= s.maxFetches {
			break
		}
	}
	if len(targets) == 0 {
		return
	}

	logger.Info("enriching summaries", "articles", len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, i := range targets {
		i := i
		g.Go(func() error {
			summary, err := s.Summary(ctx, items[i].URL)
			if err != nil || summary == "" {
				metrics.Global.IncrementEnrichmentFailures()
				logger.Debug("summary extraction failed", "url", items[i].URL, "error", err)
				return nil
			}
			items[i].Summary = summary
			items[i].NeedsSummary = false
			metrics.Global.IncrementSummariesEnriched()
			return nil
		})
	}
	_ = g.Wait()
}

// Summary extracts a short description for the page behind url, trying
// meta description, og:description, then the first substantial paragraph.
// Results are cached by normalized URL for the rest of the run.
func (s *Scraper) Summary(ctx context.Context, pageURL string) (string, error) {
	key := article.NormalizeURL(pageURL)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	summary := extractSummary(doc)
	if summary != "" {
		s.cache.Set(key, summary, cacheTTL)
	}
	return summary, nil
}

func extractSummary(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if text := article.TruncateSummary(CleanHTML(desc), article.SummaryMaxLen); text != "" {
			return text
		}
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if text := article.TruncateSummary(CleanHTML(desc), article.SummaryMaxLen); text != "" {
			return text
		}
	}

	// First substantial paragraph among the leading three of the most
	// article-like container present.
	for _, container := range []string{"article", "main", "body"} {
		root := doc.Find(container).First()
		if root.Length() == 0 {
			continue
		}
		var found string
		root.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
			if i >= 3 {
				return false
			}
			text := strings.Join(strings.Fields(p.Text()), " ")
			if utf8.RuneCountInString(text) > 100 {
				found = article.TruncateSummary(text, article.SummaryMaxLen)
				return false
			}
			return true
		})
		return found
	}
	return ""
}

// CleanHTML strips markup plus script/style/nav/header/footer blocks and
// collapses whitespace, returning plain text.
func CleanHTML(s string) string {
	if s == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style, nav, header, footer").Remove()

	return strings.Join(strings.Fields(doc.Text()), " ")
}

func isDiscussionPage(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	return host == "reddit.com" || strings.HasSuffix(host, ".reddit.com") ||
		host == "news.ycombinator.com"
}
