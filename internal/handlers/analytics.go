package handlers

import (
	"net/http"

	"moodjournal/internal/domain"
)

type analyticsResponse struct {
	MoodDistribution      map[domain.Sentiment]int     `json:"mood_distribution"`
	MoodPercentages       map[domain.Sentiment]float64 `json:"mood_percentages"`
	MostFrequentMood      string                       `json:"most_frequent_mood,omitempty"`
	MostFrequentMoodCount int                          `json:"most_frequent_mood_count"`
	CurrentStreak         int                          `json:"current_streak"`
	LongestStreak         int                          `json:"longest_streak"`
	MissedDays            []string                     `json:"missed_days"`
	MostUsedTags          map[string]int               `json:"most_used_tags"`
	TopTags               []domain.TagCount            `json:"top_tags"`
	TagBreakdown          map[string]float64           `json:"tag_breakdown"`
	WordCountTrend        map[string]float64           `json:"word_count_trend"`
	AverageWordCount      float64                      `json:"average_word_count"`
	TotalEntries          int                          `json:"total_entries"`
	FirstEntryDate        string                       `json:"first_entry_date,omitempty"`
	LastEntryDate         string                       `json:"last_entry_date,omitempty"`
}

func newAnalyticsResponse(res *domain.AnalyticsResult) analyticsResponse {
	trend := make(map[string]float64, len(res.WordCountTrend))
	for week, avg := range res.WordCountTrend {
		trend[domain.FormatDate(week)] = avg
	}
	return analyticsResponse{
		MoodDistribution:      res.MoodDistribution,
		MoodPercentages:       res.MoodPercentages,
		MostFrequentMood:      res.MostFrequentMood,
		MostFrequentMoodCount: res.MostFrequentMoodCount,
		CurrentStreak:         res.CurrentStreak,
		LongestStreak:         res.LongestStreak,
		MissedDays:            formatDates(res.MissedDays),
		MostUsedTags:          res.MostUsedTags,
		TopTags:               res.TopTags,
		TagBreakdown:          res.TagBreakdown,
		WordCountTrend:        trend,
		AverageWordCount:      res.AverageWordCount,
		TotalEntries:          res.TotalEntries,
		FirstEntryDate:        formatDatePtr(res.FirstEntryDate),
		LastEntryDate:         formatDatePtr(res.LastEntryDate),
	}
}

type streaksResponse struct {
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	MissedDays    []string `json:"missed_days"`
}

type moodTrendPoint struct {
	Date     string `json:"date"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
}

type summaryResponse struct {
	TotalEntries         int     `json:"total_entries"`
	FirstEntryDate       string  `json:"first_entry_date,omitempty"`
	LastEntryDate        string  `json:"last_entry_date,omitempty"`
	TotalWords           int     `json:"total_words"`
	AverageWordsPerEntry float64 `json:"average_words_per_entry"`
	CurrentStreak        int     `json:"current_streak"`
	LongestStreak        int     `json:"longest_streak"`
}

// AnalyticsHandler serves aggregate analytics for an optional date range
func (h *Handler) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.analytics.ComputeAnalytics(r.Context(), start, end)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, newAnalyticsResponse(result))
}

// StreaksHandler serves lifetime streaks anchored at today
func (h *Handler) StreaksHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.ComputeStreakStats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, streaksResponse{
		CurrentStreak: stats.CurrentStreak,
		LongestStreak: stats.LongestStreak,
		MissedDays:    formatDates(stats.MissedDays),
	})
}

// SummaryHandler serves lifetime totals
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.ComputeSummaryStats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, summaryResponse{
		TotalEntries:         stats.TotalEntries,
		FirstEntryDate:       formatDatePtr(stats.FirstEntryDate),
		LastEntryDate:        formatDatePtr(stats.LastEntryDate),
		TotalWords:           stats.TotalWords,
		AverageWordsPerEntry: stats.AverageWordsPerEntry,
		CurrentStreak:        stats.CurrentStreak,
		LongestStreak:        stats.LongestStreak,
	})
}

// MoodTrendHandler serves the per-day primary mood trend. Both bounds are
// required.
func (h *Handler) MoodTrendHandler(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if start == nil || end == nil {
		h.badRequest(w, r, "start and end are required")
		return
	}

	trend, err := h.analytics.ComputeMoodTrend(r.Context(), *start, *end)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	points := make([]moodTrendPoint, len(trend))
	for i, p := range trend {
		points[i] = moodTrendPoint{
			Date:     domain.FormatDate(p.Date),
			Positive: p.Positive,
			Neutral:  p.Neutral,
			Negative: p.Negative,
		}
	}
	h.writeJSON(w, r, http.StatusOK, points)
}
