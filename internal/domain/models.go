package domain

import (
	"time"
)

// Sentiment classifies a mood
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Neutral  Sentiment = "Neutral"
	Negative Sentiment = "Negative"
)

// Sentiments lists every sentiment class in display order
var Sentiments = []Sentiment{Positive, Neutral, Negative}

// Valid reports whether s is one of the three known classes
func (s Sentiment) Valid() bool {
	switch s {
	case Positive, Neutral, Negative:
		return true
	}
	return false
}

// Mood is a catalog mood with its sentiment class
type Mood struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Sentiment Sentiment `json:"sentiment" db:"sentiment"`
	Emoji     string    `json:"emoji" db:"emoji"`
}

// Tag is a predefined or user-created label
type Tag struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	IsPredefined bool   `json:"is_predefined" db:"is_predefined"`
	UsageCount   int    `json:"usage_count" db:"usage_count"`
}

// EntryTag is one row of the entry/tag association table
type EntryTag struct {
	EntryID int64 `json:"entry_id" db:"journal_entry_id"`
	TagID   int64 `json:"tag_id" db:"tag_id"`
}

// JournalEntry is a single day's journal entry
type JournalEntry struct {
	ID               int64     `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Content          string    `json:"content" db:"content"`
	EntryDate        time.Time `json:"entry_date" db:"entry_date"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
	PrimaryMoodID    int64     `json:"primary_mood_id" db:"primary_mood_id"`
	SecondaryMood1ID *int64    `json:"secondary_mood1_id,omitempty" db:"secondary_mood1_id"`
	SecondaryMood2ID *int64    `json:"secondary_mood2_id,omitempty" db:"secondary_mood2_id"`
	Category         string    `json:"category" db:"category"`
	WordCount        int       `json:"word_count" db:"word_count"`
	TagIDs           []int64   `json:"tag_ids,omitempty"`
}

// MoodIDs returns the primary mood followed by any secondary moods
func (e JournalEntry) MoodIDs() []int64 {
	ids := []int64{e.PrimaryMoodID}
	if e.SecondaryMood1ID != nil {
		ids = append(ids, *e.SecondaryMood1ID)
	}
	if e.SecondaryMood2ID != nil {
		ids = append(ids, *e.SecondaryMood2ID)
	}
	return ids
}

// EntryRequest is the payload for creating or updating an entry
type EntryRequest struct {
	Title            string    `json:"title" validate:"max=200"`
	Content          string    `json:"content"`
	EntryDate        time.Time `json:"entry_date" validate:"required"`
	PrimaryMoodID    int64     `json:"primary_mood_id" validate:"required,gt=0"`
	SecondaryMood1ID *int64    `json:"secondary_mood1_id,omitempty" validate:"omitempty,gt=0"`
	SecondaryMood2ID *int64    `json:"secondary_mood2_id,omitempty" validate:"omitempty,gt=0"`
	Category         string    `json:"category" validate:"max=100"`
	TagIDs           []int64   `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

// EntryFilter narrows a list of entries; zero fields do not filter
type EntryFilter struct {
	SearchText string     `json:"search_text"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	MoodIDs    []int64    `json:"mood_ids"`
	TagIDs     []int64    `json:"tag_ids"`
	Category   string     `json:"category"`
}

// EntryPage is one page of entries plus the overall count
type EntryPage struct {
	Entries    []JournalEntry `json:"entries"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// TagCount is a tag name with its mention count
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnalyticsResult aggregates every derived statistic for a date range
type AnalyticsResult struct {
	MoodDistribution      map[Sentiment]int     `json:"mood_distribution"`
	MoodPercentages       map[Sentiment]float64 `json:"mood_percentages"`
	MostFrequentMood      string                `json:"most_frequent_mood,omitempty"`
	MostFrequentMoodCount int                   `json:"most_frequent_mood_count"`

	CurrentStreak int         `json:"current_streak"`
	LongestStreak int         `json:"longest_streak"`
	MissedDays    []time.Time `json:"missed_days"`

	MostUsedTags map[string]int     `json:"most_used_tags"`
	TopTags      []TagCount         `json:"top_tags"`
	TagBreakdown map[string]float64 `json:"tag_breakdown"`

	WordCountTrend   map[time.Time]float64 `json:"word_count_trend"`
	AverageWordCount float64               `json:"average_word_count"`

	TotalEntries   int        `json:"total_entries"`
	FirstEntryDate *time.Time `json:"first_entry_date,omitempty"`
	LastEntryDate  *time.Time `json:"last_entry_date,omitempty"`
}

// NewAnalyticsResult returns a result with every collection empty but non-nil
func NewAnalyticsResult() *AnalyticsResult {
	return &AnalyticsResult{
		MoodDistribution: make(map[Sentiment]int),
		MoodPercentages:  make(map[Sentiment]float64),
		MissedDays:       []time.Time{},
		MostUsedTags:     make(map[string]int),
		TopTags:          []TagCount{},
		TagBreakdown:     make(map[string]float64),
		WordCountTrend:   make(map[time.Time]float64),
	}
}

// StreakStats holds lifetime streak figures
type StreakStats struct {
	CurrentStreak int         `json:"current_streak"`
	LongestStreak int         `json:"longest_streak"`
	MissedDays    []time.Time `json:"missed_days"`
}

// MoodTrendPoint counts primary-mood sentiments for one day
type MoodTrendPoint struct {
	Date     time.Time `json:"date"`
	Positive int       `json:"positive"`
	Neutral  int       `json:"neutral"`
	Negative int       `json:"negative"`
}

// SummaryStats is the lifetime overview of the journal
type SummaryStats struct {
	TotalEntries         int        `json:"total_entries"`
	FirstEntryDate       *time.Time `json:"first_entry_date,omitempty"`
	LastEntryDate        *time.Time `json:"last_entry_date,omitempty"`
	TotalWords           int        `json:"total_words"`
	AverageWordsPerEntry float64    `json:"average_words_per_entry"`
	CurrentStreak        int        `json:"current_streak"`
	LongestStreak        int        `json:"longest_streak"`
}
