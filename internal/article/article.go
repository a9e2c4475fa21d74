// Package article holds the normalized item model shared by every
// pipeline stage, plus the admission, dedup, scoring and ranking rules.
package article

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Section names, in render order.
const (
	CategoryNewTech   = "New Technology"
	CategoryResearch  = "Research"
	CategoryIndustry  = "Industry & Macro"
	CategoryCommunity = "Community Highlights"
)

// SummaryMaxLen caps every summary, whatever produced it.
const SummaryMaxLen = 300

// Admission limits shared by the adapters (pre-filtering) and
// FilterAndDedup (the authoritative check).
const (
	MaxItemAge     = 48 * time.Hour
	ResearchMaxAge = 7 * 24 * time.Hour
	MinEngagement  = 50
)

// Kind identifies the source family an article came from.
type Kind string

const (
	KindBlog       Kind = "blog"
	KindNews       Kind = "news"
	KindResearch   Kind = "research"
	KindReddit     Kind = "reddit"
	KindHackerNews Kind = "hackernews"
)

// Priority orders source families for duplicate resolution: primary
// sources beat aggregators. Lower wins.
func (k Kind) Priority() int {
	switch k {
	case KindBlog:
		return 0
	case KindNews:
		return 1
	case KindResearch:
		return 2
	case KindReddit:
		return 3
	case KindHackerNews:
		return 4
	default:
		return 5
	}
}

// MaxAge is the admission window for the family. Research moves slower
// than news, papers get a week.
func (k Kind) MaxAge() time.Duration {
	if k == KindResearch {
		return ResearchMaxAge
	}
	return MaxItemAge
}

// Quality marks sources whose items get a scoring bonus.
type Quality string

const (
	QualityHigh Quality = "high"
	QualityNews Quality = "news"
	QualityNone Quality = ""
)

// Article is one normalized content item flowing through the pipeline.
// Items live for a single run, nothing is persisted across runs.
type Article struct {
	Title        string
	URL          string
	Source       string // display name, e.g. "TechCrunch AI", "r/LocalLLaMA"
	Kind         Kind
	Category     string // section hint set by the adapter
	Quality      Quality
	Published    time.Time // UTC
	Engagement   int       // upvotes or points, 0 for feeds
	Summary      string
	Stickied     bool // reddit pinned posts, excluded on admission
	NeedsSummary bool // summary too short, candidate for page extraction
	Score        float64
}

// NormalizeURL reduces a link to its dedup key: scheme dropped, host
// lowercased with www stripped, query and fragment dropped, trailing
// slash trimmed.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	path := strings.ToLower(u.Path)
	path = strings.TrimSuffix(path, "/")

	return host + path
}

// TruncateSummary cuts text to max characters, preferring a sentence
// boundary past the midpoint, then a word boundary with an ellipsis.
// The result never exceeds max characters.
func TruncateSummary(text string, max int) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) <= max {
		return text
	}

	cut := string(r[:max])
	if i := strings.LastIndexAny(cut, ".!?"); i >= 0 && utf8.RuneCountInString(cut[:i+1]) > max/2 {
		return cut[:i+1]
	}

	cut = string(r[:max-3])
	if i := strings.LastIndex(cut, " "); i > 0 {
		return strings.TrimRight(cut[:i], " ") + "..."
	}
	return cut + "..."
}
