package article

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/metrics"
)

// AI signal terms for sources that are not AI-specific (Hacker News is a
// general firehose). Short tokens match whole words only, so "ai" does
// not light up "said".
var aiTerms = []string{
	"ai", "agi", "llm", "llms",
	"gpt-", "gpt4", "gpt3", "chatgpt", "llama",
	"claude", "gemini", "openai", "anthropic", "deepmind",
	"machine learning", "deep learning", "neural net",
	"transformer", "diffusion model", "stable diffusion",
	"midjourney", "copilot", "language model", "hugging face",
	"alignment", "multimodal", "generative ai",
	"fine-tun", "fine tun", "embedding", "rag ", "vector db",
}

// Generic tech noise that slips past the terms above. An exclusion
// always wins, even next to a strong AI term in the same title.
var excludeTerms = []string{
	"bluetooth", "bitcoin", "crypto", "blockchain", "vpn", "browser",
}

// improved containsAny: distinguishes phrases and short words (avoids "ai" matching "said")
func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)

	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}

		// If keyword is a phrase (contains space) -> substring match
		if strings.Contains(k, " ") {
			if strings.Contains(text, k) {
				return true
			}
			continue
		}

		// Short tokens (<=3) -> whole word match using word boundary regexp
		if len(k) <= 3 {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
			if re.MatchString(text) {
				return true
			}
			continue
		}

		// Otherwise, simple substring is fine
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// MatchesAITopic reports whether a title looks AI-related. The Hacker
// News adapter uses it to pre-filter and FilterAndDedup re-checks it.
func MatchesAITopic(title string) bool {
	if containsAny(title, excludeTerms) {
		return false
	}
	return containsAny(title, aiTerms)
}

// FilterAndDedup is the authoritative admission gate. Adapters pre-filter
// to keep fetch volume down, but every rule is re-applied here so the
// digest never depends on adapter discipline. Output is grouped by source
// priority; the ranker orders sections itself.
func FilterAndDedup(items []Article, now time.Time) []Article {
	admitted := make([]Article, 0, len(items))
	for _, a := range items {
		if reason := admissionReason(a, now); reason != "" {
			logger.Debug("dropped article", "title", a.Title, "source", a.Source, "reason", reason)
			continue
		}
		admitted = append(admitted, a)
	}

	// Primary sources first so they win duplicate ties.
	sort.SliceStable(admitted, func(i, j int) bool {
		return admitted[i].Kind.Priority() < admitted[j].Kind.Priority()
	})

	kept := make([]Article, 0, len(admitted))
	seenURL := make(map[string]bool, len(admitted))
	seenTitle := make(map[string]bool, len(admitted))
	for _, a := range admitted {
		key := NormalizeURL(a.URL)
		if seenURL[key] {
			logger.Debug("duplicate url", "title", a.Title, "source", a.Source)
			continue
		}
		sim := similarityKey(a.Title)
		if sim != "" && seenTitle[sim] {
			logger.Debug("similar title", "title", a.Title, "source", a.Source)
			continue
		}
		seenURL[key] = true
		if sim != "" {
			seenTitle[sim] = true
		}
		kept = append(kept, a)
	}

	metrics.Global.AddDuplicatesFiltered(len(admitted) - len(kept))
	logger.Info("filtered articles",
		"total", len(items),
		"admitted", len(admitted),
		"kept", len(kept))

	return kept
}

func admissionReason(a Article, now time.Time) string {
	if strings.TrimSpace(a.Title) == "" {
		return "empty title"
	}
	if !validURL(a.URL) {
		return "invalid url"
	}
	// Future-dated items count as fresh, clocks drift.
	if age := now.Sub(a.Published); age > a.Kind.MaxAge() {
		return "too old"
	}

	switch a.Kind {
	case KindReddit:
		if a.Stickied {
			return "stickied"
		}
		if a.Engagement < MinEngagement {
			return "low engagement"
		}
	case KindHackerNews:
		if a.Engagement < MinEngagement {
			return "low engagement"
		}
		if !MatchesAITopic(a.Title) {
			return "off topic"
		}
	}
	return ""
}

func validURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "its": true, "has": true, "how": true,
	"why": true, "what": true, "new": true, "are": true, "was": true,
	"you": true, "your": true, "not": true, "can": true, "will": true,
}

// similarityKey normalizes a title down to its first significant words so
// the same story with cosmetic title differences collapses to one key.
func similarityKey(title string) string {
	const maxWords = 6

	b := make([]rune, 0, len(title))
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b = append(b, r)
		} else {
			b = append(b, ' ')
		}
	}

	words := strings.Fields(string(b))
	significant := make([]string, 0, maxWords)
	for _, w := range words {
		if len(significant) >= maxWords {
			break
		}
		if stopWords[w] || len(w) <= 2 {
			continue
		}
		significant = append(significant, w)
	}
	// All stop words: fall back to the raw leading words
	if len(significant) == 0 {
		for i := 0; i < len(words) && i < maxWords; i++ {
			significant = append(significant, words[i])
		}
	}
	return strings.Join(significant, "_")
}
