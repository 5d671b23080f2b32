package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"moodjournal/internal/domain"
	"moodjournal/internal/logger"
)

// MoodRepository reads the mood catalog
type MoodRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewMoodRepository creates a new mood repository
func NewMoodRepository(db *sql.DB, log *logger.Logger) *MoodRepository {
	log.Info("Mood repository initialized")
	return &MoodRepository{
		db:     db,
		logger: log,
	}
}

// ListAll returns every mood ordered by id
func (r *MoodRepository) ListAll(ctx context.Context) ([]domain.Mood, error) {
	return r.list(ctx, `SELECT id, name, sentiment, emoji FROM moods ORDER BY id`)
}

// ListBySentiment returns the moods of one sentiment class ordered by id
func (r *MoodRepository) ListBySentiment(ctx context.Context, sentiment domain.Sentiment) ([]domain.Mood, error) {
	return r.list(ctx, `SELECT id, name, sentiment, emoji FROM moods WHERE sentiment = ? ORDER BY id`, string(sentiment))
}

// GetByID retrieves a mood, or nil when absent
func (r *MoodRepository) GetByID(ctx context.Context, id int64) (*domain.Mood, error) {
	return r.get(ctx, `SELECT id, name, sentiment, emoji FROM moods WHERE id = ?`, id)
}

// GetByName retrieves a mood by case-insensitive name, or nil when absent
func (r *MoodRepository) GetByName(ctx context.Context, name string) (*domain.Mood, error) {
	return r.get(ctx, `SELECT id, name, sentiment, emoji FROM moods WHERE name = ? COLLATE NOCASE`, name)
}

func (r *MoodRepository) get(ctx context.Context, query string, arg any) (*domain.Mood, error) {
	start := time.Now()

	var m domain.Mood
	var sentiment string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&m.ID, &m.Name, &sentiment, &m.Emoji)
	duration := time.Since(start)

	if err == sql.ErrNoRows {
		r.logger.Debug("No mood found for %v (%v)", arg, duration)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Database query failed for mood %v: %v (%v)", arg, err, duration)
		return nil, fmt.Errorf("failed to get mood: %w", err)
	}

	m.Sentiment = domain.Sentiment(sentiment)
	return &m, nil
}

func (r *MoodRepository) list(ctx context.Context, query string, args ...any) ([]domain.Mood, error) {
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Database query failed: %v (%v)", err, time.Since(start))
		return nil, fmt.Errorf("failed to list moods: %w", err)
	}
	defer rows.Close()

	moods := []domain.Mood{}
	for rows.Next() {
		var m domain.Mood
		var sentiment string
		if err := rows.Scan(&m.ID, &m.Name, &sentiment, &m.Emoji); err != nil {
			r.logger.Error("Failed to scan mood row: %v", err)
			return nil, fmt.Errorf("failed to scan mood: %w", err)
		}
		m.Sentiment = domain.Sentiment(sentiment)
		moods = append(moods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating moods: %w", err)
	}

	r.logger.Debug("Moods retrieved: %d (%v)", len(moods), time.Since(start))
	return moods, nil
}
