package analytics

import (
	"sort"
	"time"

	"moodjournal/internal/domain"
)

// MoodIndex resolves mood ids against the catalog
type MoodIndex map[int64]domain.Mood

// NewMoodIndex indexes moods by id, dropping moods with an unknown sentiment
func NewMoodIndex(moods []domain.Mood) MoodIndex {
	idx := make(MoodIndex, len(moods))
	for _, m := range moods {
		if !m.Sentiment.Valid() {
			continue
		}
		idx[m.ID] = m
	}
	return idx
}

// MoodDistribution counts sentiment mentions. The primary mood and each
// secondary mood of an entry count independently; ids missing from the
// catalog are skipped.
func MoodDistribution(entries []domain.JournalEntry, idx MoodIndex) map[domain.Sentiment]int {
	dist := make(map[domain.Sentiment]int, len(domain.Sentiments))
	for _, s := range domain.Sentiments {
		dist[s] = 0
	}

	for _, e := range entries {
		for _, id := range e.MoodIDs() {
			if mood, ok := idx[id]; ok {
				dist[mood.Sentiment]++
			}
		}
	}
	return dist
}

// MoodPercentages converts a distribution into rounded shares of the total.
// Sentiments with no mentions are left out; a zero total gives an empty map.
func MoodPercentages(dist map[domain.Sentiment]int) map[domain.Sentiment]float64 {
	total := 0
	for _, n := range dist {
		total += n
	}

	pct := make(map[domain.Sentiment]float64)
	if total == 0 {
		return pct
	}
	for s, n := range dist {
		if n == 0 {
			continue
		}
		pct[s] = percent(n, total)
	}
	return pct
}

// MoodCount is a mood name with its mention count
type MoodCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MoodUsage ranks individual moods by mention count, descending, with ties
// ordered by name
func MoodUsage(entries []domain.JournalEntry, idx MoodIndex) []MoodCount {
	counts := make(map[int64]int)
	for _, e := range entries {
		for _, id := range e.MoodIDs() {
			counts[id]++
		}
	}

	usage := make([]MoodCount, 0, len(counts))
	for id, n := range counts {
		mood, ok := idx[id]
		if !ok {
			continue
		}
		usage = append(usage, MoodCount{Name: mood.Name, Count: n})
	}

	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Name < usage[j].Name
	})
	return usage
}

// MostFrequentMood returns the most mentioned mood; ok is false when no
// entry references a known mood
func MostFrequentMood(entries []domain.JournalEntry, idx MoodIndex) (name string, count int, ok bool) {
	usage := MoodUsage(entries, idx)
	if len(usage) == 0 {
		return "", 0, false
	}
	return usage[0].Name, usage[0].Count, true
}

// MoodTrend counts primary-mood sentiment per entry date, ascending by date.
// Secondary moods are not part of the trend. Every entry date appears, even
// when its primary mood is unknown to the catalog.
func MoodTrend(entries []domain.JournalEntry, idx MoodIndex) []domain.MoodTrendPoint {
	byDay := make(map[time.Time]*domain.MoodTrendPoint)
	for _, e := range entries {
		day := domain.Day(e.EntryDate)
		point, exists := byDay[day]
		if !exists {
			point = &domain.MoodTrendPoint{Date: day}
			byDay[day] = point
		}

		mood, ok := idx[e.PrimaryMoodID]
		if !ok {
			continue
		}
		switch mood.Sentiment {
		case domain.Positive:
			point.Positive++
		case domain.Neutral:
			point.Neutral++
		case domain.Negative:
			point.Negative++
		}
	}

	trend := make([]domain.MoodTrendPoint, 0, len(byDay))
	for _, p := range byDay {
		trend = append(trend, *p)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date.Before(trend[j].Date) })
	return trend
}
