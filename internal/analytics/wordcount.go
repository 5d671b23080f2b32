package analytics

import (
	"time"

	"moodjournal/internal/domain"
)

// WeekStart returns the Monday on or before t
func WeekStart(t time.Time) time.Time {
	day := domain.Day(t)
	diff := (7 + (int(day.Weekday()) - int(time.Monday))) % 7
	return day.AddDate(0, 0, -diff)
}

// WordCountTrend averages word counts per ISO week (keyed by Monday) and
// overall. Both are rounded to one decimal; empty input yields an empty
// trend and a zero average.
func WordCountTrend(entries []domain.JournalEntry) (trend map[time.Time]float64, average float64) {
	trend = make(map[time.Time]float64)
	if len(entries) == 0 {
		return trend, 0
	}

	type bucket struct{ sum, n int }
	weeks := make(map[time.Time]*bucket)
	total := 0
	for _, e := range entries {
		week := WeekStart(e.EntryDate)
		b, ok := weeks[week]
		if !ok {
			b = &bucket{}
			weeks[week] = b
		}
		b.sum += e.WordCount
		b.n++
		total += e.WordCount
	}

	for week, b := range weeks {
		trend[week] = round1(float64(b.sum) / float64(b.n))
	}
	return trend, Average(total, len(entries))
}
