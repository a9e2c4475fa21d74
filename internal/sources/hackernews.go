package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/deusflow/aidigest/internal/article"
	"github.com/deusflow/aidigest/internal/logger"
)

// Stories scanned from the top listing before giving up.
const hnScanLimit = 100

type hnStory struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Time        int64  `json:"time"`
	Descendants int    `json:"descendants"`
}

// fetchHackerNews scans the top stories for AI-related titles. HN is a
// general firehose, so stories are keyword-matched before anything else
// counts.
func (f *Fetcher) fetchHackerNews(ctx context.Context) ([]article.Article, error) {
	if !f.cfg.HackerNews.Enabled {
		return nil, nil
	}

	var ids []int
	if err := f.getJSON(ctx, f.hnBaseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("fetching top stories: %w", err)
	}
	if len(ids) > hnScanLimit {
		ids = ids[:hnScanLimit]
	}

	now := time.Now().UTC()
	var items []article.Article
	for _, id := range ids {
		if len(items) >= f.opts.MaxHNStories {
			break
		}
		if err := f.hnDelay.Wait(ctx); err != nil {
			return items, err
		}

		var story hnStory
		if err := f.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", f.hnBaseURL, id), &story); err != nil {
			logger.Debug("hn item failed", "id", id, "error", err)
			continue
		}

		if story.Type != "story" || !article.MatchesAITopic(story.Title) {
			continue
		}
		if story.Score < article.MinEngagement {
			continue
		}
		published := time.Unix(story.Time, 0).UTC()
		if now.Sub(published) > article.MaxItemAge {
			continue
		}

		// Ask HN and similar text posts have no outbound URL.
		link := story.URL
		if link == "" {
			link = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", story.ID)
		}

		items = append(items, article.Article{
			Title:        story.Title,
			URL:          link,
			Source:       "Hacker News",
			Kind:         article.KindHackerNews,
			Category:     article.CategoryCommunity,
			Published:    published,
			Engagement:   story.Score,
			NeedsSummary: true,
		})
	}
	logger.Info("hacker news processed", "stories", len(items))
	return items, nil
}
