package handlers

import (
	"context"
	"errors"
	"time"

	"moodjournal/internal/domain"
	"moodjournal/internal/service"
)

type mockAnalyticsService struct {
	result      *domain.AnalyticsResult
	streaks     domain.StreakStats
	trend       []domain.MoodTrendPoint
	summary     *domain.SummaryStats
	err         error
	gotStart    *time.Time
	gotEnd      *time.Time
	trendCalled bool
}

func (m *mockAnalyticsService) ComputeAnalytics(ctx context.Context, start, end *time.Time) (*domain.AnalyticsResult, error) {
	m.gotStart, m.gotEnd = start, end
	return m.result, m.err
}

func (m *mockAnalyticsService) ComputeStreakStats(ctx context.Context) (domain.StreakStats, error) {
	return m.streaks, m.err
}

func (m *mockAnalyticsService) ComputeMoodTrend(ctx context.Context, start, end time.Time) ([]domain.MoodTrendPoint, error) {
	m.trendCalled = true
	m.gotStart, m.gotEnd = &start, &end
	return m.trend, m.err
}

func (m *mockAnalyticsService) ComputeSummaryStats(ctx context.Context) (*domain.SummaryStats, error) {
	return m.summary, m.err
}

type mockJournalService struct {
	entries   map[int64]*domain.JournalEntry
	created   *domain.EntryRequest
	filter    *domain.EntryFilter
	imported  []byte
	createErr error
	html      string
}

func newMockJournalService() *mockJournalService {
	return &mockJournalService{entries: map[int64]*domain.JournalEntry{}}
}

func (m *mockJournalService) Create(ctx context.Context, req domain.EntryRequest) (*domain.JournalEntry, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = &req
	e := &domain.JournalEntry{
		ID:            int64(len(m.entries) + 1),
		Title:         req.Title,
		Content:       req.Content,
		EntryDate:     req.EntryDate,
		PrimaryMoodID: req.PrimaryMoodID,
		TagIDs:        req.TagIDs,
	}
	m.entries[e.ID] = e
	return e, nil
}

func (m *mockJournalService) Update(ctx context.Context, id int64, req domain.EntryRequest) (*domain.JournalEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, service.NotFoundError{Resource: "entry", ID: "x"}
	}
	e.Title = req.Title
	e.Content = req.Content
	return e, nil
}

func (m *mockJournalService) Delete(ctx context.Context, id int64) error {
	if _, ok := m.entries[id]; !ok {
		return service.NotFoundError{Resource: "entry", ID: "x"}
	}
	delete(m.entries, id)
	return nil
}

func (m *mockJournalService) Get(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, service.NotFoundError{Resource: "entry", ID: "x"}
	}
	return e, nil
}

func (m *mockJournalService) GetByDate(ctx context.Context, date time.Time) (*domain.JournalEntry, error) {
	for _, e := range m.entries {
		if e.EntryDate.Equal(date) {
			return e, nil
		}
	}
	return nil, service.NotFoundError{Resource: "entry", ID: domain.FormatDate(date)}
}

func (m *mockJournalService) ListPaged(ctx context.Context, page, pageSize int) (*domain.EntryPage, error) {
	return &domain.EntryPage{Entries: []domain.JournalEntry{}, TotalCount: len(m.entries), Page: page, PageSize: pageSize}, nil
}

func (m *mockJournalService) Search(ctx context.Context, text string) ([]domain.JournalEntry, error) {
	out := []domain.JournalEntry{}
	if text == "" {
		return out, nil
	}
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockJournalService) Filter(ctx context.Context, f domain.EntryFilter) ([]domain.JournalEntry, error) {
	m.filter = &f
	return []domain.JournalEntry{}, nil
}

func (m *mockJournalService) EntryDates(ctx context.Context) ([]time.Time, error) {
	return []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (m *mockJournalService) Render(ctx context.Context, id int64) (*domain.JournalEntry, string, error) {
	e, err := m.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return e, m.html, nil
}

func (m *mockJournalService) Import(ctx context.Context, src []byte) (*domain.JournalEntry, error) {
	m.imported = src
	if len(src) == 0 {
		return nil, service.InvalidRequestError{Message: "empty document"}
	}
	return &domain.JournalEntry{ID: 99, Content: string(src)}, nil
}

type mockCatalogService struct {
	moods     []domain.Mood
	tags      []domain.Tag
	gotKind   string
	gotQuery  string
	recalced  bool
	deleteErr error
}

func (m *mockCatalogService) Moods(ctx context.Context) ([]domain.Mood, error) {
	return m.moods, nil
}

func (m *mockCatalogService) MoodsBySentiment(ctx context.Context) (map[domain.Sentiment][]domain.Mood, error) {
	grouped := map[domain.Sentiment][]domain.Mood{}
	for _, mood := range m.moods {
		grouped[mood.Sentiment] = append(grouped[mood.Sentiment], mood)
	}
	return grouped, nil
}

func (m *mockCatalogService) Tags(ctx context.Context, kind, query string) ([]domain.Tag, error) {
	m.gotKind, m.gotQuery = kind, query
	if kind == "bogus" {
		return nil, service.InvalidRequestError{Message: "unknown tag kind"}
	}
	return m.tags, nil
}

func (m *mockCatalogService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	if name == "" {
		return nil, service.InvalidRequestError{Message: "tag name is required"}
	}
	return &domain.Tag{ID: 100, Name: name}, nil
}

func (m *mockCatalogService) DeleteTag(ctx context.Context, id int64) error {
	return m.deleteErr
}

func (m *mockCatalogService) TagsForEntry(ctx context.Context, entryID int64) ([]domain.Tag, error) {
	return m.tags, nil
}

func (m *mockCatalogService) RecalculateTagUsage(ctx context.Context) error {
	m.recalced = true
	return nil
}

type mockPinger struct{ err error }

func (m mockPinger) PingContext(ctx context.Context) error { return m.err }

var errBoom = errors.New("boom")
