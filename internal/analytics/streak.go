package analytics

import (
	"sort"
	"time"

	"moodjournal/internal/domain"
)

// distinctDays truncates, dedupes and sorts dates ascending
func distinctDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := domain.Day(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// CurrentStreak counts consecutive days with an entry walking backwards from
// ref. A ref day without an entry yields 0.
func CurrentStreak(dates []time.Time, ref time.Time) int {
	set := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		set[domain.Day(d)] = struct{}{}
	}

	streak := 0
	for day := domain.Day(ref); ; day = day.AddDate(0, 0, -1) {
		if _, ok := set[day]; !ok {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive calendar days
func LongestStreak(dates []time.Time) int {
	days := distinctDays(dates)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 1
	}
	return longest
}

// MissedDays lists, ascending, every day between the first and last entry
// that has no entry
func MissedDays(dates []time.Time) []time.Time {
	days := distinctDays(dates)
	missed := []time.Time{}
	if len(days) < 2 {
		return missed
	}

	next := 0
	for day := days[0]; !day.After(days[len(days)-1]); day = day.AddDate(0, 0, 1) {
		if day.Equal(days[next]) {
			next++
			continue
		}
		missed = append(missed, day)
	}
	return missed
}

// Streaks computes all streak figures for dates anchored at ref
func Streaks(dates []time.Time, ref time.Time) domain.StreakStats {
	return domain.StreakStats{
		CurrentStreak: CurrentStreak(dates, ref),
		LongestStreak: LongestStreak(dates),
		MissedDays:    MissedDays(dates),
	}
}

// EntryDates extracts the entry date of each entry
func EntryDates(entries []domain.JournalEntry) []time.Time {
	dates := make([]time.Time, len(entries))
	for i, e := range entries {
		dates[i] = e.EntryDate
	}
	return dates
}
