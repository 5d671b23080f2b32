package analytics

import (
	"sort"

	"moodjournal/internal/domain"
)

// DefaultTopTags is the number of tags MostUsedTags returns when asked for
// a non-positive count
const DefaultTopTags = 10

// tagNames maps tag id to name
func tagNames(tags []domain.Tag) map[int64]string {
	names := make(map[int64]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}
	return names
}

// entryIDs collects the ids of the given entries
func entryIDs(entries []domain.JournalEntry) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		ids[e.ID] = struct{}{}
	}
	return ids
}

// MostUsedTags counts association rows for the given entries and returns the
// topN tags by mention count, ties ordered by name. Associations naming an
// unknown tag are ignored.
func MostUsedTags(entries []domain.JournalEntry, assocs []domain.EntryTag, tags []domain.Tag, topN int) []domain.TagCount {
	if topN <= 0 {
		topN = DefaultTopTags
	}
	inRange := entryIDs(entries)
	names := tagNames(tags)

	counts := make(map[int64]int)
	for _, a := range assocs {
		if _, ok := inRange[a.EntryID]; !ok {
			continue
		}
		if _, ok := names[a.TagID]; !ok {
			continue
		}
		counts[a.TagID]++
	}

	ranked := make([]domain.TagCount, 0, len(counts))
	for id, n := range counts {
		ranked = append(ranked, domain.TagCount{Name: names[id], Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// TagCountMap flattens a ranking into name -> count
func TagCountMap(ranked []domain.TagCount) map[string]int {
	m := make(map[string]int, len(ranked))
	for _, tc := range ranked {
		m[tc.Name] = tc.Count
	}
	return m
}

// TagBreakdown gives, per tag, the share of entries carrying it. An entry
// tagged twice with the same tag counts once.
func TagBreakdown(entries []domain.JournalEntry, assocs []domain.EntryTag, tags []domain.Tag) map[string]float64 {
	breakdown := make(map[string]float64)
	total := len(entries)
	if total == 0 {
		return breakdown
	}
	inRange := entryIDs(entries)
	names := tagNames(tags)

	carriers := make(map[int64]map[int64]struct{})
	for _, a := range assocs {
		if _, ok := inRange[a.EntryID]; !ok {
			continue
		}
		if _, ok := names[a.TagID]; !ok {
			continue
		}
		if carriers[a.TagID] == nil {
			carriers[a.TagID] = make(map[int64]struct{})
		}
		carriers[a.TagID][a.EntryID] = struct{}{}
	}

	for tagID, entrySet := range carriers {
		breakdown[names[tagID]] = percent(len(entrySet), total)
	}
	return breakdown
}
