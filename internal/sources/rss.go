package sources

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/aidigest/internal/article"
	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/metrics"
	"github.com/deusflow/aidigest/internal/scraper"
)

// Feed summaries shorter than this are thrown away, they are usually
// truncated teasers or bare image captions.
const minFeedSummaryLen = 50

type feedSpec struct {
	feed     Feed
	kind     article.Kind
	category string
	quality  article.Quality
}

// fetchFeeds pulls the blog and news feeds. Blogs are primary vendor
// announcements, news feeds are the AI desks of tech outlets.
func (f *Fetcher) fetchFeeds(ctx context.Context) ([]article.Article, error) {
	specs := make([]feedSpec, 0, len(f.cfg.BlogFeeds)+len(f.cfg.NewsFeeds))
	for _, fd := range f.cfg.BlogFeeds {
		specs = append(specs, feedSpec{fd, article.KindBlog, article.CategoryNewTech, article.QualityHigh})
	}
	for _, fd := range f.cfg.NewsFeeds {
		quality := article.QualityNews
		if article.Quality(fd.Quality) == article.QualityHigh {
			quality = article.QualityHigh
		}
		specs = append(specs, feedSpec{fd, article.KindNews, article.CategoryIndustry, quality})
	}
	return f.fetchFeedSpecs(ctx, specs)
}

// fetchResearchFeeds pulls the research aggregator feeds.
func (f *Fetcher) fetchResearchFeeds(ctx context.Context) ([]article.Article, error) {
	specs := make([]feedSpec, 0, len(f.cfg.ResearchFeeds))
	for _, fd := range f.cfg.ResearchFeeds {
		specs = append(specs, feedSpec{fd, article.KindResearch, article.CategoryResearch, article.QualityHigh})
	}
	return f.fetchFeedSpecs(ctx, specs)
}

func (f *Fetcher) fetchFeedSpecs(ctx context.Context, specs []feedSpec) ([]article.Article, error) {
	parser := f.newFeedParser()

	var items []article.Article
	ok := 0
	for _, spec := range specs {
		if err := f.feedDelay.Wait(ctx); err != nil {
			return items, err
		}

		got, err := f.fetchFeed(ctx, parser, spec)
		if err != nil {
			logger.Warn("feed failed", "feed", spec.feed.Name, "error", err)
			metrics.Global.IncrementSourceFailures()
			continue
		}
		logger.Debug("feed fetched", "feed", spec.feed.Name, "articles", len(got))
		items = append(items, got...)
		ok++
	}
	if len(specs) > 0 {
		logger.Info("feeds processed", "ok", ok, "total", len(specs))
	}
	return items, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, parser *gofeed.Parser, spec feedSpec) ([]article.Article, error) {
	feed, err := parser.ParseURLWithContext(spec.feed.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	now := time.Now().UTC()
	items := make([]article.Article, 0, f.opts.MaxFeedItems)
	for i, entry := range feed.Items {
		if i >= f.opts.MaxFeedItems {
			break
		}

		published := feedItemTime(entry, now)
		if now.Sub(published) > spec.kind.MaxAge() {
			continue
		}

		desc := entry.Description
		if desc == "" {
			desc = entry.Content
		}
		summary := article.TruncateSummary(scraper.CleanHTML(desc), article.SummaryMaxLen)
		if utf8.RuneCountInString(summary) < minFeedSummaryLen {
			summary = ""
		}

		items = append(items, article.Article{
			Title:        strings.TrimSpace(scraper.CleanHTML(entry.Title)),
			URL:          entry.Link,
			Source:       spec.feed.Name,
			Kind:         spec.kind,
			Category:     spec.category,
			Quality:      spec.quality,
			Published:    published,
			Summary:      summary,
			NeedsSummary: utf8.RuneCountInString(summary) < 100,
		})
	}
	return items, nil
}

// feedItemTime picks the best timestamp a feed entry offers. Feeds
// without dates count as fresh rather than ancient.
func feedItemTime(item *gofeed.Item, fallback time.Time) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	default:
		return fallback
	}
}
