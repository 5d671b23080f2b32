package service

import (
	"context"
	"fmt"
	"time"

	"moodjournal/internal/analytics"
	"moodjournal/internal/domain"
	"moodjournal/internal/logger"
	"moodjournal/internal/metrics"
)

// AnalyticsService assembles derived statistics from the entry, mood and
// tag stores. It only reads.
type AnalyticsService struct {
	entries EntryRepository
	moods   MoodRepository
	tags    TagRepository
	topTags int
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewAnalyticsService creates a new analytics service. A non-positive
// topTags uses analytics.DefaultTopTags; m may be nil.
func NewAnalyticsService(entries EntryRepository, moods MoodRepository, tags TagRepository, topTags int, m *metrics.Metrics, log *logger.Logger) *AnalyticsService {
	if topTags <= 0 {
		topTags = analytics.DefaultTopTags
	}
	log.Info("Analytics service initialized (top tags: %d)", topTags)
	return &AnalyticsService{
		entries: entries,
		moods:   moods,
		tags:    tags,
		topTags: topTags,
		now:     time.Now,
		metrics: m,
		logger:  log,
	}
}

// WithClock replaces the source of "today"
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

func (s *AnalyticsService) today() time.Time {
	return domain.Day(s.now())
}

func (s *AnalyticsService) observe(op string, start time.Time, err error) {
	d := time.Since(start)
	s.metrics.ObserveAnalytics(op, d, err)
	if err != nil {
		s.logger.Error("%s failed: %v (%v)", op, err, d)
		return
	}
	s.logger.Debug("%s completed (%v)", op, d)
}

// ComputeAnalytics aggregates every statistic for [start, end]. When either
// bound is nil the missing ones are taken from the earliest and latest entry
// dates; with no entries at all the range becomes the month ending today.
// Streaks are always computed over every entry, anchored at the end bound.
func (s *AnalyticsService) ComputeAnalytics(ctx context.Context, start, end *time.Time) (result *domain.AnalyticsResult, err error) {
	began := time.Now()
	defer func() { s.observe("compute_analytics", began, err) }()

	var all []domain.JournalEntry
	explicit := start != nil && end != nil
	if !explicit {
		all, err = s.entries.List(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load entries: %w", err)
		}
		start, end = s.inferBounds(all, start, end)
	}

	dateRange := domain.NewDateRange(*start, *end)
	if dateRange.Start.After(dateRange.End) {
		if explicit {
			return nil, invalidf("start date %s is after end date %s",
				domain.FormatDate(dateRange.Start), domain.FormatDate(dateRange.End))
		}
		// An inferred bound crossed the supplied one: nothing lies in range.
		result = domain.NewAnalyticsResult()
		result.FirstEntryDate = &dateRange.Start
		result.LastEntryDate = &dateRange.End
		return result, nil
	}
	s.logger.Debug("Computing analytics for %s..%s",
		domain.FormatDate(dateRange.Start), domain.FormatDate(dateRange.End))

	inRange, err := s.entries.List(ctx, &dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries in range: %w", err)
	}
	s.metrics.ObserveEntriesInRange(len(inRange))

	result = domain.NewAnalyticsResult()
	result.TotalEntries = len(inRange)
	result.FirstEntryDate = &dateRange.Start
	result.LastEntryDate = &dateRange.End
	if len(inRange) == 0 {
		return result, nil
	}

	moods, err := s.moods.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load moods: %w", err)
	}
	idx := analytics.NewMoodIndex(moods)
	result.MoodDistribution = analytics.MoodDistribution(inRange, idx)
	result.MoodPercentages = analytics.MoodPercentages(result.MoodDistribution)
	if name, count, ok := analytics.MostFrequentMood(inRange, idx); ok {
		result.MostFrequentMood = name
		result.MostFrequentMoodCount = count
	}

	if all == nil {
		all, err = s.entries.List(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load entries: %w", err)
		}
	}
	streaks := analytics.Streaks(analytics.EntryDates(all), dateRange.End)
	result.CurrentStreak = streaks.CurrentStreak
	result.LongestStreak = streaks.LongestStreak
	result.MissedDays = streaks.MissedDays

	tags, err := s.tags.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	assocs, err := s.tags.ListAssociations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry tags: %w", err)
	}
	result.TopTags = analytics.MostUsedTags(inRange, assocs, tags, s.topTags)
	result.MostUsedTags = analytics.TagCountMap(result.TopTags)
	result.TagBreakdown = analytics.TagBreakdown(inRange, assocs, tags)

	result.WordCountTrend, result.AverageWordCount = analytics.WordCountTrend(inRange)

	s.logger.Info("Analytics computed: %d entries, current streak %d", result.TotalEntries, result.CurrentStreak)
	return result, nil
}

// inferBounds fills nil bounds from the entry set
func (s *AnalyticsService) inferBounds(all []domain.JournalEntry, start, end *time.Time) (*time.Time, *time.Time) {
	if len(all) == 0 {
		today := s.today()
		from := monthBefore(today)
		return &from, &today
	}

	first, last := domain.Day(all[0].EntryDate), domain.Day(all[0].EntryDate)
	for _, e := range all[1:] {
		d := domain.Day(e.EntryDate)
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	if start == nil {
		start = &first
	}
	if end == nil {
		end = &last
	}
	return start, end
}

// monthBefore steps back one calendar month, clamping the day to the end of
// the shorter month (Mar 31 -> Feb 29 in a leap year).
func monthBefore(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	d := t.Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// ComputeStreakStats returns lifetime streaks anchored at today
func (s *AnalyticsService) ComputeStreakStats(ctx context.Context) (stats domain.StreakStats, err error) {
	began := time.Now()
	defer func() { s.observe("compute_streaks", began, err) }()

	dates, err := s.entries.ListDates(ctx)
	if err != nil {
		return domain.StreakStats{}, fmt.Errorf("failed to load entry dates: %w", err)
	}
	return analytics.Streaks(dates, s.today()), nil
}

// ComputeMoodTrend counts primary-mood sentiment per day in [start, end]
func (s *AnalyticsService) ComputeMoodTrend(ctx context.Context, start, end time.Time) (trend []domain.MoodTrendPoint, err error) {
	began := time.Now()
	defer func() { s.observe("compute_mood_trend", began, err) }()

	dateRange := domain.NewDateRange(start, end)
	if dateRange.Start.After(dateRange.End) {
		return nil, invalidf("start date %s is after end date %s",
			domain.FormatDate(dateRange.Start), domain.FormatDate(dateRange.End))
	}

	entries, err := s.entries.List(ctx, &dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries in range: %w", err)
	}
	moods, err := s.moods.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load moods: %w", err)
	}
	return analytics.MoodTrend(entries, analytics.NewMoodIndex(moods)), nil
}

// ComputeSummaryStats returns lifetime totals and streaks anchored at today
func (s *AnalyticsService) ComputeSummaryStats(ctx context.Context) (stats *domain.SummaryStats, err error) {
	began := time.Now()
	defer func() { s.observe("compute_summary", began, err) }()

	all, err := s.entries.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	stats = &domain.SummaryStats{TotalEntries: len(all)}
	if len(all) == 0 {
		return stats, nil
	}

	first, last := s.inferBounds(all, nil, nil)
	stats.FirstEntryDate = first
	stats.LastEntryDate = last
	for _, e := range all {
		stats.TotalWords += e.WordCount
	}
	stats.AverageWordsPerEntry = analytics.Average(stats.TotalWords, len(all))

	streaks := analytics.Streaks(analytics.EntryDates(all), s.today())
	stats.CurrentStreak = streaks.CurrentStreak
	stats.LongestStreak = streaks.LongestStreak
	return stats, nil
}
