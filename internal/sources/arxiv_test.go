package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/deusflow/aidigest/internal/article"
)

func atomFeed(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"><title>ArXiv Query Results</title>` +
		strings.Join(entries, "") + `</feed>`
}

func atomEntry(title, link, abstract string, published time.Time) string {
	ts := published.UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		`<entry><id>%s</id><title>%s</title><summary>%s</summary><published>%s</published><updated>%s</updated><link href="%s"/></entry>`,
		link, title, abstract, ts, ts, link)
}

func TestFetchArxivQueryAndMapping(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(atomFeed(atomEntry(
			"Scaling Laws for Sparse Models",
			"http://arxiv.org/abs/2506.01234v1",
			"We study sparse scaling laws across a range of model sizes and find consistent exponents for both dense and mixture architectures.",
			time.Now().Add(-24*time.Hour)))))
	}))
	defer srv.Close()

	cfg := Config{Arxiv: ArxivConfig{Categories: []string{"cs.AI", "cs.LG"}, MaxResults: 5}}
	f := newTestFetcher(cfg, Options{})
	f.arxivBaseURL = srv.URL

	got, err := f.fetchArxiv(context.Background())
	if err != nil {
		t.Fatalf("fetchArxiv() error = %v", err)
	}

	if q := gotQuery.Get("search_query"); q != "cat:cs.AI OR cat:cs.LG" {
		t.Errorf("search_query = %q", q)
	}
	if gotQuery.Get("sortBy") != "submittedDate" || gotQuery.Get("sortOrder") != "descending" {
		t.Errorf("sort params = %q/%q", gotQuery.Get("sortBy"), gotQuery.Get("sortOrder"))
	}
	if gotQuery.Get("max_results") != "5" {
		t.Errorf("max_results = %q, want 5", gotQuery.Get("max_results"))
	}

	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1", len(got))
	}
	paper := got[0]
	if paper.Source != "arXiv" || paper.Kind != article.KindResearch || paper.Category != article.CategoryResearch {
		t.Errorf("paper = %+v", paper)
	}
	if paper.Quality != article.QualityHigh {
		t.Errorf("Quality = %q, want high", paper.Quality)
	}
	if paper.URL != "http://arxiv.org/abs/2506.01234v1" {
		t.Errorf("URL = %q", paper.URL)
	}
	if paper.NeedsSummary {
		t.Error("NeedsSummary = true, abstracts are authoritative")
	}
}

func TestFetchArxivDropsOldSubmissions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(atomFeed(
			atomEntry("Recent paper", "http://arxiv.org/abs/1", "A recent submission on agents.", time.Now().Add(-3*24*time.Hour)),
			atomEntry("Ancient paper", "http://arxiv.org/abs/2", "An older submission on agents.", time.Now().Add(-10*24*time.Hour)),
		)))
	}))
	defer srv.Close()

	f := newTestFetcher(Config{Arxiv: ArxivConfig{Categories: []string{"cs.AI"}}}, Options{})
	f.arxivBaseURL = srv.URL

	got, err := f.fetchArxiv(context.Background())
	if err != nil {
		t.Fatalf("fetchArxiv() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Recent paper" {
		t.Fatalf("got %+v, want only the recent paper", got)
	}
}

func TestFetchArxivUnwrapsTitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(atomFeed(atomEntry(
			"Reward Modeling\n  Under Distribution Shift",
			"http://arxiv.org/abs/3", "Abstract text.", time.Now().Add(-time.Hour)))))
	}))
	defer srv.Close()

	f := newTestFetcher(Config{Arxiv: ArxivConfig{Categories: []string{"cs.LG"}}}, Options{})
	f.arxivBaseURL = srv.URL

	got, err := f.fetchArxiv(context.Background())
	if err != nil {
		t.Fatalf("fetchArxiv() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Reward Modeling Under Distribution Shift" {
		t.Fatalf("Title = %q, want wrapped whitespace collapsed", got[0].Title)
	}
}

func TestFetchArxivTruncatesAbstract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		abstract := strings.Repeat("We present extensive empirical analysis of the proposed method. ", 12)
		w.Write([]byte(atomFeed(atomEntry("Long abstract", "http://arxiv.org/abs/4", abstract, time.Now().Add(-time.Hour)))))
	}))
	defer srv.Close()

	f := newTestFetcher(Config{Arxiv: ArxivConfig{Categories: []string{"cs.CL"}}}, Options{})
	f.arxivBaseURL = srv.URL

	got, err := f.fetchArxiv(context.Background())
	if err != nil {
		t.Fatalf("fetchArxiv() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1", len(got))
	}
	if n := utf8.RuneCountInString(got[0].Summary); n > article.SummaryMaxLen {
		t.Errorf("Summary is %d runes, want <= %d", n, article.SummaryMaxLen)
	}
}

func TestFetchArxivDisabledWithoutCategories(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	f := newTestFetcher(Config{}, Options{})
	f.arxivBaseURL = srv.URL

	got, err := f.fetchArxiv(context.Background())
	if err != nil || got != nil {
		t.Fatalf("fetchArxiv() = %v, %v, want nil, nil", got, err)
	}
	if called {
		t.Error("arxiv endpoint was hit despite empty category list")
	}
}
