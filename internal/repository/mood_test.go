package repository

import (
	"context"
	"testing"

	"moodjournal/internal/domain"
)

func TestMoodRepository(t *testing.T) {
	db := setupTestDB(t)
	seedTestDB(t, db)
	repo := NewMoodRepository(db, testLogger())
	ctx := context.Background()

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 15 {
		t.Errorf("ListAll() returned %d moods, want 15", len(all))
	}

	negative, err := repo.ListBySentiment(ctx, domain.Negative)
	if err != nil {
		t.Fatalf("ListBySentiment() error = %v", err)
	}
	if len(negative) != 5 {
		t.Errorf("ListBySentiment(Negative) returned %d moods, want 5", len(negative))
	}
	for _, m := range negative {
		if m.Sentiment != domain.Negative {
			t.Errorf("mood %s has sentiment %s", m.Name, m.Sentiment)
		}
	}

	tests := []struct {
		name     string
		lookup   string
		wantName string
	}{
		{"exact name", "Happy", "Happy"},
		{"different case", "anxious", "Anxious"},
		{"unknown", "Ecstatic", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mood, err := repo.GetByName(ctx, tt.lookup)
			if err != nil {
				t.Fatalf("GetByName() error = %v", err)
			}
			if tt.wantName == "" {
				if mood != nil {
					t.Errorf("expected nil, got %+v", mood)
				}
				return
			}
			if mood == nil || mood.Name != tt.wantName {
				t.Fatalf("GetByName(%q) = %+v, want %s", tt.lookup, mood, tt.wantName)
			}

			byID, err := repo.GetByID(ctx, mood.ID)
			if err != nil || byID == nil || byID.Name != tt.wantName {
				t.Errorf("GetByID(%d) = %+v, %v", mood.ID, byID, err)
			}
		})
	}
}
