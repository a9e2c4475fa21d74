package article

import "sort"

// MaxPerSection caps each digest section.
const MaxPerSection = 5

// SectionOrder is the fixed order sections appear in the digest.
var SectionOrder = []string{
	CategoryNewTech,
	CategoryResearch,
	CategoryIndustry,
	CategoryCommunity,
}

// Section is one ordered digest bucket.
type Section struct {
	Name     string
	Articles []Article
}

// Rank buckets articles by their section hint and orders each bucket by
// score, newest first on ties, URL as the final deterministic tiebreak.
// All four sections are always returned, empty ones included, so the
// renderer shows a placeholder instead of dropping the block.
func Rank(items []Article) []Section {
	known := make(map[string]bool, len(SectionOrder))
	for _, name := range SectionOrder {
		known[name] = true
	}

	buckets := make(map[string][]Article, len(SectionOrder))
	for _, a := range items {
		name := a.Category
		if !known[name] {
			// Unknown hints land in the community bucket.
			name = CategoryCommunity
		}
		buckets[name] = append(buckets[name], a)
	}

	sections := make([]Section, 0, len(SectionOrder))
	for _, name := range SectionOrder {
		list := buckets[name]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Score != list[j].Score {
				return list[i].Score > list[j].Score
			}
			if !list[i].Published.Equal(list[j].Published) {
				return list[i].Published.After(list[j].Published)
			}
			return list[i].URL < list[j].URL
		})
		if len(list) > MaxPerSection {
			list = list[:MaxPerSection]
		}
		sections = append(sections, Section{Name: name, Articles: list})
	}
	return sections
}
