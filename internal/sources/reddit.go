package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deusflow/aidigest/internal/article"
	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/metrics"
	"github.com/deusflow/aidigest/internal/scraper"
)

// Posts per hot listing. Hot already ranks by engagement, deeper pages
// rarely clear the upvote floor.
const redditListingLimit = 15

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Ups         int     `json:"ups"`
	CreatedUTC  float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
	Selftext    string  `json:"selftext"`
	NumComments int     `json:"num_comments"`
}

// fetchReddit pulls the hot listing of each configured subreddit.
func (f *Fetcher) fetchReddit(ctx context.Context) ([]article.Article, error) {
	var items []article.Article
	for _, sub := range f.cfg.Subreddits {
		if err := f.redditDelay.Wait(ctx); err != nil {
			return items, err
		}

		got, err := f.fetchSubreddit(ctx, sub)
		if err != nil {
			logger.Warn("subreddit failed", "subreddit", sub.Name, "error", err)
			metrics.Global.IncrementSourceFailures()
			continue
		}
		items = append(items, got...)
	}
	if len(f.cfg.Subreddits) > 0 {
		logger.Info("reddit processed", "posts", len(items))
	}
	return items, nil
}

func (f *Fetcher) fetchSubreddit(ctx context.Context, sub Subreddit) ([]article.Article, error) {
	endpoint := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", f.redditBaseURL, url.PathEscape(sub.Name), redditListingLimit)

	var listing redditListing
	if err := f.getJSON(ctx, endpoint, &listing); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var items []article.Article
	for _, child := range listing.Data.Children {
		post := child.Data

		// Pre-filter. The admission gate re-checks all of this, skipping
		// early just keeps junk out of the pipeline.
		if post.Stickied || post.Ups < article.MinEngagement {
			continue
		}
		published := time.Unix(int64(post.CreatedUTC), 0).UTC()
		if now.Sub(published) > article.MaxItemAge {
			continue
		}

		summary := ""
		if utf8.RuneCountInString(post.Selftext) > 50 {
			summary = article.TruncateSummary(scraper.CleanHTML(post.Selftext), article.SummaryMaxLen)
		}

		// Link posts point at the story, self posts at the thread.
		link := post.URL
		if link == "" || strings.Contains(link, "reddit.com") {
			link = "https://reddit.com" + post.Permalink
		}

		items = append(items, article.Article{
			Title:        strings.TrimSpace(post.Title),
			URL:          link,
			Source:       "r/" + sub.Name,
			Kind:         article.KindReddit,
			Category:     sectionName(sub.Section),
			Published:    published,
			Engagement:   post.Ups,
			Summary:      summary,
			Stickied:     post.Stickied,
			NeedsSummary: utf8.RuneCountInString(summary) < 100,
		})
	}
	return items, nil
}
