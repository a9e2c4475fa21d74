package app

import (
	"strings"
	"testing"
	"time"

	"github.com/deusflow/aidigest/internal/article"
)

var testNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func TestBuildDigestEndToEnd(t *testing.T) {
	items := []article.Article{
		{
			Title:     "Anthropic ships faster Claude variant",
			URL:       "https://www.anthropic.com/news/fast-claude",
			Source:    "Anthropic Research",
			Kind:      article.KindBlog,
			Category:  article.CategoryNewTech,
			Quality:   article.QualityHigh,
			Published: testNow.Add(-4 * time.Hour),
			Summary:   "A lighter model tier focused on latency sensitive workloads, with the same context window as the flagship and lower per token pricing.",
		},
		{
			// Same story surfacing on HN, loses the duplicate tie.
			Title:      "Faster Claude variant announced",
			URL:        "https://anthropic.com/news/fast-claude/",
			Source:     "Hacker News",
			Kind:       article.KindHackerNews,
			Category:   article.CategoryCommunity,
			Published:  testNow.Add(-2 * time.Hour),
			Engagement: 410,
		},
		{
			Title:      "Quiet little model release nobody upvoted",
			URL:        "https://reddit.com/r/LocalLLaMA/comments/1/quiet/",
			Source:     "r/LocalLLaMA",
			Kind:       article.KindReddit,
			Category:   article.CategoryNewTech,
			Published:  testNow.Add(-3 * time.Hour),
			Engagement: 7,
		},
		{
			Title:     "Last week's funding roundup",
			URL:       "https://example.com/funding",
			Source:    "TechCrunch AI",
			Kind:      article.KindNews,
			Category:  article.CategoryIndustry,
			Quality:   article.QualityNews,
			Published: testNow.Add(-90 * time.Hour),
		},
		{
			Title:      "Benchmarks for the new open weights model",
			URL:        "https://example.com/benchmarks",
			Source:     "r/MachineLearning",
			Kind:       article.KindReddit,
			Category:   article.CategoryResearch,
			Published:  testNow.Add(-6 * time.Hour),
			Engagement: 240,
		},
	}

	html, text, kept, err := buildDigest(items, testNow)
	if err != nil {
		t.Fatalf("buildDigest() error = %v", err)
	}

	if len(kept) != 2 {
		t.Fatalf("kept %d articles, want 2 (dup, low engagement and stale dropped)", len(kept))
	}
	if !strings.Contains(html, "Anthropic ships faster Claude variant") {
		t.Error("primary source article missing from html")
	}
	if strings.Contains(html, "Faster Claude variant announced") {
		t.Error("duplicate community copy survived")
	}
	if strings.Contains(html, "Quiet little model release") {
		t.Error("low-engagement post survived")
	}
	if strings.Contains(html, "funding roundup") {
		t.Error("stale news survived")
	}
	if !strings.Contains(text, "AI DAILY DIGEST") {
		t.Error("plain text header missing")
	}
	if !strings.Contains(text, "Benchmarks for the new open weights model") {
		t.Error("research post missing from plain text")
	}
}

func TestBuildDigestEmptyInputStillRenders(t *testing.T) {
	html, text, kept, err := buildDigest(nil, testNow)
	if err != nil {
		t.Fatalf("buildDigest() error = %v", err)
	}
	if len(kept) != 0 {
		t.Fatalf("kept = %d, want 0", len(kept))
	}
	if got := strings.Count(html, "Nothing notable today."); got != len(article.SectionOrder) {
		t.Errorf("placeholder count = %d, want %d", got, len(article.SectionOrder))
	}
	if !strings.Contains(text, "AI DAILY DIGEST") {
		t.Error("plain text header missing for empty digest")
	}
}

func TestBuildDigestOrdersSectionByScore(t *testing.T) {
	items := []article.Article{
		{
			Title:     "Modest industry note",
			URL:       "https://example.com/modest",
			Source:    "VentureBeat AI",
			Kind:      article.KindNews,
			Category:  article.CategoryIndustry,
			Quality:   article.QualityNews,
			Published: testNow.Add(-40 * time.Hour),
		},
		{
			Title:     "Big industry story",
			URL:       "https://example.com/big",
			Source:    "TechCrunch AI",
			Kind:      article.KindNews,
			Category:  article.CategoryIndustry,
			Quality:   article.QualityNews,
			Published: testNow.Add(-1 * time.Hour),
		},
	}

	html, _, _, err := buildDigest(items, testNow)
	if err != nil {
		t.Fatalf("buildDigest() error = %v", err)
	}

	big := strings.Index(html, "Big industry story")
	modest := strings.Index(html, "Modest industry note")
	if big < 0 || modest < 0 {
		t.Fatal("industry stories missing from html")
	}
	if big > modest {
		t.Error("fresher, higher scored story should render first")
	}
}
