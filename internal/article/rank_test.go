package article

import (
	"fmt"
	"testing"
	"time"
)

func TestRankReturnsAllSectionsInOrder(t *testing.T) {
	sections := Rank(nil)
	if len(sections) != 4 {
		t.Fatalf("got %d sections, want 4", len(sections))
	}
	for i, name := range SectionOrder {
		if sections[i].Name != name {
			t.Errorf("section %d = %q, want %q", i, sections[i].Name, name)
		}
		if len(sections[i].Articles) != 0 {
			t.Errorf("section %q has %d articles, want 0", name, len(sections[i].Articles))
		}
	}
}

func TestRankCapsSectionSize(t *testing.T) {
	var items []Article
	for i := 0; i < 8; i++ {
		a := freshItem(KindBlog)
		a.URL = fmt.Sprintf("https://example.com/%d", i)
		a.Score = float64(i * 10)
		items = append(items, a)
	}

	sections := Rank(items)
	got := sections[0].Articles
	if len(got) != MaxPerSection {
		t.Fatalf("section size = %d, want %d", len(got), MaxPerSection)
	}
	if got[0].Score != 70 || got[len(got)-1].Score != 30 {
		t.Errorf("kept scores %v..%v, want the top five (70..30)", got[0].Score, got[len(got)-1].Score)
	}
}

func TestRankOrdersByScoreThenRecencyThenURL(t *testing.T) {
	base := freshItem(KindNews)
	base.Category = CategoryIndustry

	older := base
	older.URL = "https://example.com/b"
	older.Published = testNow.Add(-5 * time.Hour)
	older.Score = 50

	newer := base
	newer.URL = "https://example.com/c"
	newer.Published = testNow.Add(-1 * time.Hour)
	newer.Score = 50

	urlTie := base
	urlTie.URL = "https://example.com/a"
	urlTie.Published = newer.Published
	urlTie.Score = 50

	top := base
	top.URL = "https://example.com/z"
	top.Published = testNow.Add(-40 * time.Hour)
	top.Score = 80

	sections := Rank([]Article{older, newer, urlTie, top})

	var industry Section
	for _, s := range sections {
		if s.Name == CategoryIndustry {
			industry = s
		}
	}

	want := []string{
		"https://example.com/z",
		"https://example.com/a",
		"https://example.com/c",
		"https://example.com/b",
	}
	if len(industry.Articles) != len(want) {
		t.Fatalf("got %d articles, want %d", len(industry.Articles), len(want))
	}
	for i, a := range industry.Articles {
		if a.URL != want[i] {
			t.Errorf("position %d: %s, want %s", i, a.URL, want[i])
		}
	}
}

func TestRankUnknownCategoryFallsBack(t *testing.T) {
	a := freshItem(KindNews)
	a.Category = "Breaking"

	sections := Rank([]Article{a})
	last := sections[len(sections)-1]
	if last.Name != CategoryCommunity || len(last.Articles) != 1 {
		t.Errorf("unknown category not folded into %q", CategoryCommunity)
	}
}
