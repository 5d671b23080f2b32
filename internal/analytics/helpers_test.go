package analytics

import (
	"time"

	"moodjournal/internal/domain"
)

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func days(ss ...string) []time.Time {
	out := make([]time.Time, len(ss))
	for i, s := range ss {
		out[i] = day(s)
	}
	return out
}

func ptr(v int64) *int64 { return &v }

var testMoods = []domain.Mood{
	{ID: 1, Name: "Happy", Sentiment: domain.Positive},
	{ID: 2, Name: "Excited", Sentiment: domain.Positive},
	{ID: 3, Name: "Calm", Sentiment: domain.Neutral},
	{ID: 4, Name: "Sad", Sentiment: domain.Negative},
	{ID: 5, Name: "Anxious", Sentiment: domain.Negative},
}
