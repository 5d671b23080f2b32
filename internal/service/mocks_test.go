package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"moodjournal/internal/domain"
)

// Mock repositories for testing
type mockEntryRepository struct {
	entries   map[int64]*domain.JournalEntry
	nextID    int64
	listErr   error
	listCalls int
}

func newMockEntryRepository(entries ...domain.JournalEntry) *mockEntryRepository {
	m := &mockEntryRepository{entries: make(map[int64]*domain.JournalEntry)}
	for i := range entries {
		e := entries[i]
		if e.ID == 0 {
			m.nextID++
			e.ID = m.nextID
		} else if e.ID > m.nextID {
			m.nextID = e.ID
		}
		m.entries[e.ID] = &e
	}
	return m
}

func (m *mockEntryRepository) sorted() []domain.JournalEntry {
	out := make([]domain.JournalEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.Before(out[j].EntryDate) })
	return out
}

func (m *mockEntryRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	m.nextID++
	entry.ID = m.nextID
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *mockEntryRepository) Update(ctx context.Context, entry *domain.JournalEntry) error {
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *mockEntryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.entries[id]; !ok {
		return false, nil
	}
	delete(m.entries, id)
	return true, nil
}

func (m *mockEntryRepository) GetByID(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	if e, ok := m.entries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, nil
}

func (m *mockEntryRepository) GetByDate(ctx context.Context, date time.Time) (*domain.JournalEntry, error) {
	for _, e := range m.entries {
		if e.EntryDate.Equal(domain.Day(date)) {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockEntryRepository) List(ctx context.Context, dateRange *domain.DateRange) ([]domain.JournalEntry, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []domain.JournalEntry{}
	for _, e := range m.sorted() {
		if dateRange == nil || dateRange.Contains(e.EntryDate) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEntryRepository) ListPaged(ctx context.Context, page, pageSize int, descending bool) ([]domain.JournalEntry, int, error) {
	all := m.sorted()
	if descending {
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
	}
	from := (page - 1) * pageSize
	if from > len(all) {
		from = len(all)
	}
	to := from + pageSize
	if to > len(all) {
		to = len(all)
	}
	return all[from:to], len(all), nil
}

func (m *mockEntryRepository) ListDates(ctx context.Context) ([]time.Time, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	dates := []time.Time{}
	for _, e := range m.sorted() {
		dates = append(dates, e.EntryDate)
	}
	return dates, nil
}

type mockMoodRepository struct {
	moods   []domain.Mood
	listErr error
}

func (m *mockMoodRepository) ListAll(ctx context.Context) ([]domain.Mood, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.moods, nil
}

func (m *mockMoodRepository) ListBySentiment(ctx context.Context, sentiment domain.Sentiment) ([]domain.Mood, error) {
	out := []domain.Mood{}
	for _, mood := range m.moods {
		if mood.Sentiment == sentiment {
			out = append(out, mood)
		}
	}
	return out, nil
}

func (m *mockMoodRepository) GetByID(ctx context.Context, id int64) (*domain.Mood, error) {
	for _, mood := range m.moods {
		if mood.ID == id {
			found := mood
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockMoodRepository) GetByName(ctx context.Context, name string) (*domain.Mood, error) {
	for _, mood := range m.moods {
		if strings.EqualFold(mood.Name, name) {
			found := mood
			return &found, nil
		}
	}
	return nil, nil
}

type mockTagRepository struct {
	tags     []domain.Tag
	assocs   []domain.EntryTag
	assocErr error
	setErr   error
	recalcs  int
}

func (m *mockTagRepository) ListAll(ctx context.Context) ([]domain.Tag, error) {
	return m.tags, nil
}

func (m *mockTagRepository) filter(keep func(domain.Tag) bool) []domain.Tag {
	out := []domain.Tag{}
	for _, t := range m.tags {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func (m *mockTagRepository) ListPredefined(ctx context.Context) ([]domain.Tag, error) {
	return m.filter(func(t domain.Tag) bool { return t.IsPredefined }), nil
}

func (m *mockTagRepository) ListCustom(ctx context.Context) ([]domain.Tag, error) {
	return m.filter(func(t domain.Tag) bool { return !t.IsPredefined }), nil
}

func (m *mockTagRepository) Search(ctx context.Context, text string) ([]domain.Tag, error) {
	text = strings.ToLower(text)
	return m.filter(func(t domain.Tag) bool { return strings.Contains(strings.ToLower(t.Name), text) }), nil
}

func (m *mockTagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	for _, t := range m.tags {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockTagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	for _, t := range m.tags {
		if strings.EqualFold(t.Name, name) {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockTagRepository) Create(ctx context.Context, name string) (*domain.Tag, error) {
	if existing, _ := m.GetByName(ctx, name); existing != nil {
		return existing, nil
	}
	tag := domain.Tag{ID: int64(len(m.tags) + 100), Name: name}
	m.tags = append(m.tags, tag)
	return &tag, nil
}

func (m *mockTagRepository) Delete(ctx context.Context, id int64) (bool, error) {
	for i, t := range m.tags {
		if t.ID == id && !t.IsPredefined {
			m.tags = append(m.tags[:i], m.tags[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTagRepository) SetEntryTags(ctx context.Context, entryID int64, tagIDs []int64) error {
	if m.setErr != nil {
		return m.setErr
	}
	kept := m.assocs[:0]
	for _, a := range m.assocs {
		if a.EntryID != entryID {
			kept = append(kept, a)
		}
	}
	m.assocs = kept
	for _, id := range tagIDs {
		m.assocs = append(m.assocs, domain.EntryTag{EntryID: entryID, TagID: id})
	}
	return nil
}

func (m *mockTagRepository) TagsForEntry(ctx context.Context, entryID int64) ([]domain.Tag, error) {
	out := []domain.Tag{}
	for _, a := range m.assocs {
		if a.EntryID == entryID {
			if t, _ := m.GetByID(ctx, a.TagID); t != nil {
				out = append(out, *t)
			}
		}
	}
	return out, nil
}

func (m *mockTagRepository) ListAssociations(ctx context.Context) ([]domain.EntryTag, error) {
	if m.assocErr != nil {
		return nil, m.assocErr
	}
	return m.assocs, nil
}

func (m *mockTagRepository) RecalculateUsageCounts(ctx context.Context) error {
	m.recalcs++
	return nil
}

var testMoods = []domain.Mood{
	{ID: 1, Name: "Happy", Sentiment: domain.Positive},
	{ID: 2, Name: "Excited", Sentiment: domain.Positive},
	{ID: 6, Name: "Calm", Sentiment: domain.Neutral},
	{ID: 11, Name: "Sad", Sentiment: domain.Negative},
}

var testTags = []domain.Tag{
	{ID: 1, Name: "Work", IsPredefined: true},
	{ID: 2, Name: "Family", IsPredefined: true},
	{ID: 40, Name: "Gardening"},
}

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }
