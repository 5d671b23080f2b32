package service

import (
	"context"
	"time"

	"moodjournal/internal/domain"
)

// EntryRepository interface for journal entry storage
type EntryRepository interface {
	Create(ctx context.Context, entry *domain.JournalEntry) error
	Update(ctx context.Context, entry *domain.JournalEntry) error
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.JournalEntry, error)
	GetByDate(ctx context.Context, date time.Time) (*domain.JournalEntry, error)
	List(ctx context.Context, dateRange *domain.DateRange) ([]domain.JournalEntry, error)
	ListPaged(ctx context.Context, page, pageSize int, descending bool) ([]domain.JournalEntry, int, error)
	ListDates(ctx context.Context) ([]time.Time, error)
}

// MoodRepository interface for the mood catalog
type MoodRepository interface {
	ListAll(ctx context.Context) ([]domain.Mood, error)
	ListBySentiment(ctx context.Context, sentiment domain.Sentiment) ([]domain.Mood, error)
	GetByID(ctx context.Context, id int64) (*domain.Mood, error)
	GetByName(ctx context.Context, name string) (*domain.Mood, error)
}

// TagRepository interface for the tag catalog and entry/tag associations
type TagRepository interface {
	ListAll(ctx context.Context) ([]domain.Tag, error)
	ListPredefined(ctx context.Context) ([]domain.Tag, error)
	ListCustom(ctx context.Context) ([]domain.Tag, error)
	Search(ctx context.Context, text string) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	Create(ctx context.Context, name string) (*domain.Tag, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SetEntryTags(ctx context.Context, entryID int64, tagIDs []int64) error
	TagsForEntry(ctx context.Context, entryID int64) ([]domain.Tag, error)
	ListAssociations(ctx context.Context) ([]domain.EntryTag, error)
	RecalculateUsageCounts(ctx context.Context) error
}
