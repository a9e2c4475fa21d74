package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deusflow/aidigest/internal/article"
	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/scraper"
)

// fetchArxiv queries the arXiv API for the newest submissions in the
// configured categories. The response is an Atom feed, gofeed handles
// it like any other.
func (f *Fetcher) fetchArxiv(ctx context.Context) ([]article.Article, error) {
	cats := f.cfg.Arxiv.Categories
	if len(cats) == 0 {
		return nil, nil
	}
	maxResults := f.cfg.Arxiv.MaxResults
	if maxResults <= 0 {
		maxResults = 30
	}

	terms := make([]string, 0, len(cats))
	for _, c := range cats {
		terms = append(terms, "cat:"+c)
	}
	params := url.Values{}
	params.Set("search_query", strings.Join(terms, " OR "))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")
	params.Set("max_results", strconv.Itoa(maxResults))

	feed, err := f.newFeedParser().ParseURLWithContext(f.arxivBaseURL+"?"+params.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("querying arxiv: %w", err)
	}

	now := time.Now().UTC()
	var items []article.Article
	for _, entry := range feed.Items {
		published := feedItemTime(entry, now)
		if now.Sub(published) > article.ResearchMaxAge {
			continue
		}

		abstract := entry.Description
		if abstract == "" {
			abstract = entry.Content
		}

		items = append(items, article.Article{
			// arXiv wraps titles across lines
			Title:     strings.Join(strings.Fields(entry.Title), " "),
			URL:       entry.Link,
			Source:    "arXiv",
			Kind:      article.KindResearch,
			Category:  article.CategoryResearch,
			Quality:   article.QualityHigh,
			Published: published,
			Summary:   article.TruncateSummary(scraper.CleanHTML(abstract), article.SummaryMaxLen),
		})
	}
	logger.Info("arxiv processed", "papers", len(items))
	return items, nil
}
