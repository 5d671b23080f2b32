package repository

import (
	"context"
	"testing"
	"time"

	"moodjournal/internal/domain"
)

func createEntry(t *testing.T, repo *EntryRepository, date string, words int) *domain.JournalEntry {
	t.Helper()

	entry := &domain.JournalEntry{
		Title:         "Entry " + date,
		Content:       "content",
		EntryDate:     mustDate(t, date),
		PrimaryMoodID: 1,
		WordCount:     words,
	}
	if err := repo.Create(context.Background(), entry); err != nil {
		t.Fatalf("Failed to create entry for %s: %v", date, err)
	}
	return entry
}

func TestEntryRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	seedTestDB(t, db)
	repo := NewEntryRepository(db, testLogger())
	ctx := context.Background()

	entry := &domain.JournalEntry{
		Title:            "A day",
		Content:          "**bold** start",
		EntryDate:        time.Date(2024, 1, 2, 17, 30, 0, 0, time.UTC),
		PrimaryMoodID:    1,
		SecondaryMood1ID: int64Ptr(11),
		Category:         "Personal",
		WordCount:        2,
	}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if entry.ID == 0 {
		t.Fatal("Create() did not set ID")
	}
	if !entry.EntryDate.Equal(mustDate(t, "2024-01-02")) {
		t.Errorf("EntryDate not truncated: %v", entry.EntryDate)
	}

	tests := []struct {
		name    string
		get     func() (*domain.JournalEntry, error)
		wantNil bool
	}{
		{"by id", func() (*domain.JournalEntry, error) { return repo.GetByID(ctx, entry.ID) }, false},
		{"by date ignores time of day", func() (*domain.JournalEntry, error) {
			return repo.GetByDate(ctx, time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC))
		}, false},
		{"missing id", func() (*domain.JournalEntry, error) { return repo.GetByID(ctx, 999) }, true},
		{"missing date", func() (*domain.JournalEntry, error) { return repo.GetByDate(ctx, mustDate(t, "2024-01-03")) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected entry, got nil")
			}
			if got.Title != "A day" || got.Category != "Personal" || got.WordCount != 2 {
				t.Errorf("unexpected entry: %+v", got)
			}
			if got.SecondaryMood1ID == nil || *got.SecondaryMood1ID != 11 {
				t.Errorf("SecondaryMood1ID = %v, want 11", got.SecondaryMood1ID)
			}
			if got.SecondaryMood2ID != nil {
				t.Errorf("SecondaryMood2ID = %v, want nil", *got.SecondaryMood2ID)
			}
		})
	}
}

func TestEntryRepository_DuplicateDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db, testLogger())

	createEntry(t, repo, "2024-01-01", 10)

	dup := &domain.JournalEntry{EntryDate: mustDate(t, "2024-01-01"), PrimaryMoodID: 1}
	if err := repo.Create(context.Background(), dup); err == nil {
		t.Error("expected unique constraint error for duplicate date")
	}
}

func TestEntryRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db, testLogger())
	ctx := context.Background()

	entry := createEntry(t, repo, "2024-01-01", 10)
	created := entry.CreatedAt

	entry.Title = "Changed"
	entry.WordCount = 42
	entry.SecondaryMood2ID = int64Ptr(3)
	if err := repo.Update(ctx, entry); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, entry.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID() = %v, %v", got, err)
	}
	if got.Title != "Changed" || got.WordCount != 42 {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.SecondaryMood2ID == nil || *got.SecondaryMood2ID != 3 {
		t.Errorf("SecondaryMood2ID = %v, want 3", got.SecondaryMood2ID)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed: %v -> %v", created, got.CreatedAt)
	}
}

func TestEntryRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	seedTestDB(t, db)
	repo := NewEntryRepository(db, testLogger())
	tags := NewTagRepository(db, testLogger())
	ctx := context.Background()

	entry := createEntry(t, repo, "2024-01-01", 10)
	if err := tags.SetEntryTags(ctx, entry.ID, []int64{1, 2}); err != nil {
		t.Fatalf("SetEntryTags() error = %v", err)
	}

	deleted, err := repo.Delete(ctx, entry.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v", deleted, err)
	}

	assocs, err := tags.ListAssociations(ctx)
	if err != nil {
		t.Fatalf("ListAssociations() error = %v", err)
	}
	if len(assocs) != 0 {
		t.Errorf("expected associations removed, got %d", len(assocs))
	}

	deleted, err = repo.Delete(ctx, entry.ID)
	if err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if deleted {
		t.Error("second Delete() reported a deletion")
	}
}

func TestEntryRepository_List(t *testing.T) {
	db := setupTestDB(t)
	seedTestDB(t, db)
	repo := NewEntryRepository(db, testLogger())
	tags := NewTagRepository(db, testLogger())
	ctx := context.Background()

	for _, d := range []string{"2024-01-04", "2024-01-01", "2024-01-02", "2024-02-01"} {
		createEntry(t, repo, d, 5)
	}
	first, _ := repo.GetByDate(ctx, mustDate(t, "2024-01-01"))
	if err := tags.SetEntryTags(ctx, first.ID, []int64{3, 1}); err != nil {
		t.Fatalf("SetEntryTags() error = %v", err)
	}

	jan := domain.NewDateRange(mustDate(t, "2024-01-01"), mustDate(t, "2024-01-04"))

	tests := []struct {
		name      string
		dateRange *domain.DateRange
		want      []string
	}{
		{"all entries ascending", nil, []string{"2024-01-01", "2024-01-02", "2024-01-04", "2024-02-01"}},
		{"inclusive range", &jan, []string{"2024-01-01", "2024-01-02", "2024-01-04"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := repo.List(ctx, tt.dateRange)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("List() returned %d entries, want %d", len(entries), len(tt.want))
			}
			for i, e := range entries {
				if got := domain.FormatDate(e.EntryDate); got != tt.want[i] {
					t.Errorf("entry %d date = %s, want %s", i, got, tt.want[i])
				}
			}
			if len(entries[0].TagIDs) != 2 || entries[0].TagIDs[0] != 3 || entries[0].TagIDs[1] != 1 {
				t.Errorf("first entry TagIDs = %v, want [3 1]", entries[0].TagIDs)
			}
		})
	}
}

func TestEntryRepository_ListPaged(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db, testLogger())
	ctx := context.Background()

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
		createEntry(t, repo, d, 1)
	}

	tests := []struct {
		name       string
		page, size int
		descending bool
		want       []string
	}{
		{"first page descending", 1, 2, true, []string{"2024-01-05", "2024-01-04"}},
		{"last partial page", 3, 2, true, []string{"2024-01-01"}},
		{"ascending", 2, 2, false, []string{"2024-01-03", "2024-01-04"}},
		{"past the end", 4, 2, false, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, total, err := repo.ListPaged(ctx, tt.page, tt.size, tt.descending)
			if err != nil {
				t.Fatalf("ListPaged() error = %v", err)
			}
			if total != 5 {
				t.Errorf("total = %d, want 5", total)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.want))
			}
			for i, e := range entries {
				if got := domain.FormatDate(e.EntryDate); got != tt.want[i] {
					t.Errorf("entry %d = %s, want %s", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestEntryRepository_ListDates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepository(db, testLogger())
	ctx := context.Background()

	dates, err := repo.ListDates(ctx)
	if err != nil {
		t.Fatalf("ListDates() error = %v", err)
	}
	if len(dates) != 0 {
		t.Errorf("expected no dates, got %v", dates)
	}

	createEntry(t, repo, "2024-03-02", 1)
	createEntry(t, repo, "2024-03-01", 1)

	dates, err = repo.ListDates(ctx)
	if err != nil {
		t.Fatalf("ListDates() error = %v", err)
	}
	if len(dates) != 2 || domain.FormatDate(dates[0]) != "2024-03-01" || domain.FormatDate(dates[1]) != "2024-03-02" {
		t.Errorf("ListDates() = %v", dates)
	}
}
