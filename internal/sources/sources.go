// Package sources fetches raw content from every configured provider and
// normalizes it into articles. Each source family is one adapter. A
// failing adapter logs, counts a failure and contributes nothing, the
// run keeps going with whatever the other adapters returned.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/deusflow/aidigest/internal/article"
	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/metrics"
	"github.com/deusflow/aidigest/internal/ratelimit"
)

// Browser-like header, reddit in particular rejects default Go clients
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Feed is one RSS/Atom feed entry in the sources file.
type Feed struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Quality string `yaml:"quality,omitempty"`
}

// Subreddit maps a subreddit to the digest section its posts land in.
type Subreddit struct {
	Name    string `yaml:"name"`
	Section string `yaml:"section"`
}

type ArxivConfig struct {
	Categories []string `yaml:"categories"`
	MaxResults int      `yaml:"max_results"`
}

type HNConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the sources file layout, see configs/sources.yaml.
type Config struct {
	NewsFeeds     []Feed      `yaml:"news_feeds"`
	BlogFeeds     []Feed      `yaml:"blog_feeds"`
	ResearchFeeds []Feed      `yaml:"research_feeds"`
	Arxiv         ArxivConfig `yaml:"arxiv"`
	Subreddits    []Subreddit `yaml:"subreddits"`
	HackerNews    HNConfig    `yaml:"hacker_news"`
}

// Load reads the sources file. A missing file falls back to the built-in
// source set so a bare checkout still produces a digest.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("sources file missing, using built-in defaults", "path", path)
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfig is the built-in source set. configs/sources.yaml mirrors it.
func DefaultConfig() Config {
	return Config{
		NewsFeeds: []Feed{
			{Name: "TechCrunch AI", URL: "https://techcrunch.com/tag/artificial-intelligence/feed/"},
			{Name: "VentureBeat AI", URL: "https://venturebeat.com/ai/feed/"},
			{Name: "The Verge AI", URL: "https://www.theverge.com/ai-artificial-intelligence/rss/index.xml"},
			{Name: "Ars Technica AI", URL: "https://arstechnica.com/tag/artificial-intelligence/feed/"},
			{Name: "MIT Tech Review", URL: "https://www.technologyreview.com/topic/artificial-intelligence/feed/", Quality: "high"},
			{Name: "Wired AI", URL: "https://www.wired.com/feed/tag/ai/latest/rss"},
		},
		BlogFeeds: []Feed{
			{Name: "OpenAI Blog", URL: "https://openai.com/blog/rss/"},
			{Name: "Anthropic Research", URL: "https://www.anthropic.com/feed.xml"},
			{Name: "Google AI Blog", URL: "https://blog.google/technology/ai/rss/"},
			{Name: "DeepMind Blog", URL: "https://deepmind.google/blog/rss.xml"},
			{Name: "Hugging Face Blog", URL: "https://huggingface.co/blog/feed.xml"},
		},
		ResearchFeeds: []Feed{
			{Name: "Papers With Code", URL: "https://paperswithcode.com/rss.xml"},
		},
		Arxiv: ArxivConfig{
			Categories: []string{"cs.AI", "cs.LG", "cs.CL", "cs.CV"},
			MaxResults: 30,
		},
		Subreddits: []Subreddit{
			{Name: "MachineLearning", Section: article.CategoryResearch},
			{Name: "LocalLLaMA", Section: article.CategoryNewTech},
			{Name: "artificial", Section: article.CategoryIndustry},
			{Name: "OpenAI", Section: article.CategoryNewTech},
			{Name: "ClaudeAI", Section: article.CategoryNewTech},
		},
		HackerNews: HNConfig{Enabled: true},
	}
}

// Options tunes fetch behavior. Zero values fall back to defaults.
type Options struct {
	Timeout      time.Duration
	MaxFeedItems int
	MaxHNStories int
}

// Fetcher runs the source adapters against one immutable source config.
type Fetcher struct {
	cfg    Config
	opts   Options
	client *http.Client

	// polite pacing, external services are hit in loops
	feedDelay   *ratelimit.Limiter
	redditDelay *ratelimit.Limiter
	hnDelay     *ratelimit.Limiter

	// endpoint roots, overridable in tests
	arxivBaseURL  string
	redditBaseURL string
	hnBaseURL     string
}

func NewFetcher(cfg Config, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxFeedItems <= 0 {
		opts.MaxFeedItems = 8
	}
	if opts.MaxHNStories <= 0 {
		opts.MaxHNStories = 10
	}

	return &Fetcher{
		cfg:           cfg,
		opts:          opts,
		client:        &http.Client{Timeout: opts.Timeout},
		feedDelay:     ratelimit.New(300 * time.Millisecond),
		redditDelay:   ratelimit.New(1 * time.Second),
		hnDelay:       ratelimit.New(50 * time.Millisecond),
		arxivBaseURL:  "http://export.arxiv.org/api/query",
		redditBaseURL: "https://www.reddit.com",
		hnBaseURL:     "https://hacker-news.firebaseio.com/v0",
	}
}

// newFeedParser builds a parser per adapter call. The gofeed parser is
// not safe for concurrent use, the adapters run in parallel.
func (f *Fetcher) newFeedParser() *gofeed.Parser {
	p := gofeed.NewParser()
	p.Client = f.client
	p.UserAgent = userAgent
	return p
}

// FetchAll runs every adapter concurrently and merges their articles in
// a fixed family order.
func (f *Fetcher) FetchAll(ctx context.Context) []article.Article {
	adapters := []struct {
		name  string
		fetch func(context.Context) ([]article.Article, error)
	}{
		{"rss", f.fetchFeeds},
		{"arxiv", f.fetchArxiv},
		{"research_feeds", f.fetchResearchFeeds},
		{"reddit", f.fetchReddit},
		{"hackernews", f.fetchHackerNews},
	}

	results := make([][]article.Article, len(adapters))
	g, gctx := errgroup.WithContext(ctx)
	for i, ad := range adapters {
		i, ad := i, ad
		g.Go(func() error {
			items, err := ad.fetch(gctx)
			if err != nil {
				metrics.Global.IncrementSourceFailures()
				logger.Error("source failed", "source", ad.name, "error", err)
				return nil
			}
			logger.Info("source fetched", "source", ad.name, "articles", len(items))
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var all []article.Article
	for _, items := range results {
		all = append(all, items...)
	}
	metrics.Global.AddItemsFetched(len(all))
	return all
}

func (f *Fetcher) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	return nil
}

// sectionName guards against typos in the sources file.
func sectionName(s string) string {
	switch s {
	case article.CategoryNewTech, article.CategoryResearch, article.CategoryIndustry, article.CategoryCommunity:
		return s
	default:
		return article.CategoryCommunity
	}
}
