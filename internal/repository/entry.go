package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"moodjournal/internal/domain"
	"moodjournal/internal/logger"
)

const entryColumns = `id, title, content, entry_date, created_at, updated_at,
	primary_mood_id, secondary_mood1_id, secondary_mood2_id, category, word_count`

// EntryRepository handles database operations for journal entries
type EntryRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *sql.DB, log *logger.Logger) *EntryRepository {
	log.Info("Entry repository initialized")
	return &EntryRepository{
		db:     db,
		logger: log,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(s rowScanner) (*domain.JournalEntry, error) {
	var (
		e         domain.JournalEntry
		entryDate string
		second    sql.NullInt64
		third     sql.NullInt64
	)
	err := s.Scan(
		&e.ID,
		&e.Title,
		&e.Content,
		&entryDate,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.PrimaryMoodID,
		&second,
		&third,
		&e.Category,
		&e.WordCount,
	)
	if err != nil {
		return nil, err
	}

	e.EntryDate, err = domain.ParseDate(entryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid entry_date %q: %w", entryDate, err)
	}
	if second.Valid {
		e.SecondaryMood1ID = &second.Int64
	}
	if third.Valid {
		e.SecondaryMood2ID = &third.Int64
	}
	return &e, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// Create inserts an entry and fills in its ID and timestamps
func (r *EntryRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	start := time.Now()
	entry.EntryDate = domain.Day(entry.EntryDate)
	r.logger.Debug("Creating entry for %s", domain.FormatDate(entry.EntryDate))

	now := time.Now().UTC()
	query := `
		INSERT INTO journal_entries (title, content, entry_date, created_at, updated_at,
			primary_mood_id, secondary_mood1_id, secondary_mood2_id, category, word_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.Title,
		entry.Content,
		domain.FormatDate(entry.EntryDate),
		now,
		now,
		entry.PrimaryMoodID,
		nullableID(entry.SecondaryMood1ID),
		nullableID(entry.SecondaryMood2ID),
		entry.Category,
		entry.WordCount,
	)
	duration := time.Since(start)

	if err != nil {
		r.logger.Error("Database insert failed: %v (%v)", err, duration)
		return fmt.Errorf("failed to create entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("Failed to get last insert ID: %v (%v)", err, duration)
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.logger.Info("Entry created successfully: id=%d (%v)", entry.ID, duration)
	return nil
}

// Update overwrites the mutable fields of an existing entry. CreatedAt is
// left untouched.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.JournalEntry) error {
	start := time.Now()
	entry.EntryDate = domain.Day(entry.EntryDate)
	r.logger.Debug("Updating entry id=%d", entry.ID)

	now := time.Now().UTC()
	query := `
		UPDATE journal_entries
		SET title = ?, content = ?, entry_date = ?, updated_at = ?, primary_mood_id = ?,
			secondary_mood1_id = ?, secondary_mood2_id = ?, category = ?, word_count = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.Title,
		entry.Content,
		domain.FormatDate(entry.EntryDate),
		now,
		entry.PrimaryMoodID,
		nullableID(entry.SecondaryMood1ID),
		nullableID(entry.SecondaryMood2ID),
		entry.Category,
		entry.WordCount,
		entry.ID,
	)
	duration := time.Since(start)

	if err != nil {
		r.logger.Error("Database update failed for id=%d: %v (%v)", entry.ID, err, duration)
		return fmt.Errorf("failed to update entry: %w", err)
	}

	entry.UpdatedAt = now
	r.logger.Debug("Entry updated: id=%d (%v)", entry.ID, duration)
	return nil
}

// Delete removes an entry and its tag associations. It reports whether a
// row was deleted.
func (r *EntryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	r.logger.Debug("Deleting entry id=%d", id)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE journal_entry_id = ?`, id); err != nil {
		r.logger.Error("Failed to delete associations for entry id=%d: %v", id, err)
		return false, fmt.Errorf("failed to delete entry tags: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete entry id=%d: %v", id, err)
		return false, fmt.Errorf("failed to delete entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}

	r.logger.Debug("Entry delete id=%d affected %d rows (%v)", id, n, time.Since(start))
	return n > 0, nil
}

// GetByID retrieves an entry with its tag ids, or nil when absent
func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByDate retrieves the entry for date's calendar day, or nil when absent
func (r *EntryRepository) GetByDate(ctx context.Context, date time.Time) (*domain.JournalEntry, error) {
	return r.getOne(ctx, "entry_date = ?", domain.FormatDate(domain.Day(date)))
}

func (r *EntryRepository) getOne(ctx context.Context, where string, arg any) (*domain.JournalEntry, error) {
	start := time.Now()
	r.logger.Debug("Getting entry where %s [%v]", where, arg)

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ` + where
	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, arg))
	duration := time.Since(start)

	if err == sql.ErrNoRows {
		r.logger.Debug("No entry found where %s [%v] (%v)", where, arg, duration)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Database query failed where %s [%v]: %v (%v)", where, arg, err, duration)
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	entries := []domain.JournalEntry{*entry}
	if err := r.attachTagIDs(ctx, entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// List returns entries ascending by date. A nil range returns every entry;
// otherwise both bounds are inclusive.
func (r *EntryRepository) List(ctx context.Context, dateRange *domain.DateRange) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	var args []any
	if dateRange != nil {
		query += ` WHERE entry_date >= ? AND entry_date <= ?`
		args = append(args, domain.FormatDate(dateRange.Start), domain.FormatDate(dateRange.End))
	}
	query += ` ORDER BY entry_date ASC`

	return r.query(ctx, "list entries", query, args...)
}

// ListPaged returns one page (1-based) of entries ordered by date plus the
// total entry count
func (r *EntryRepository) ListPaged(ctx context.Context, page, pageSize int, descending bool) ([]domain.JournalEntry, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries`).Scan(&total); err != nil {
		r.logger.Error("Failed to count entries: %v", err)
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	order := "ASC"
	if descending {
		order = "DESC"
	}
	query := `SELECT ` + entryColumns + ` FROM journal_entries ORDER BY entry_date ` + order + ` LIMIT ? OFFSET ?`

	entries, err := r.query(ctx, "list entry page", query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListDates returns every entry date ascending
func (r *EntryRepository) ListDates(ctx context.Context) ([]time.Time, error) {
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, `SELECT entry_date FROM journal_entries ORDER BY entry_date ASC`)
	if err != nil {
		r.logger.Error("Database query failed: %v (%v)", err, time.Since(start))
		return nil, fmt.Errorf("failed to list entry dates: %w", err)
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan entry date: %w", err)
		}
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("invalid entry_date %q: %w", s, err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry dates: %w", err)
	}

	r.logger.Debug("Entry dates retrieved: %d (%v)", len(dates), time.Since(start))
	return dates, nil
}

func (r *EntryRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.JournalEntry, error) {
	start := time.Now()
	r.logger.Debug("Running %s", op)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Database query failed for %s: %v (%v)", op, err, time.Since(start))
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			r.logger.Error("Failed to scan entry row: %v (%v)", err, time.Since(start))
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		r.logger.Error("Error iterating entry rows: %v (%v)", err, time.Since(start))
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	rows.Close()

	if err := r.attachTagIDs(ctx, entries); err != nil {
		return nil, err
	}

	r.logger.Debug("%s returned %d entries (%v)", op, len(entries), time.Since(start))
	return entries, nil
}

// attachTagIDs fills TagIDs for the given entries in one query
func (r *EntryRepository) attachTagIDs(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	index := make(map[int64]int, len(entries))
	placeholders := make([]string, len(entries))
	args := make([]any, len(entries))
	for i, e := range entries {
		index[e.ID] = i
		placeholders[i] = "?"
		args[i] = e.ID
	}

	query := `SELECT journal_entry_id, tag_id FROM entry_tags WHERE journal_entry_id IN (` +
		strings.Join(placeholders, ",") + `) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to load entry tags: %v", err)
		return fmt.Errorf("failed to load entry tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entryID, tagID int64
		if err := rows.Scan(&entryID, &tagID); err != nil {
			return fmt.Errorf("failed to scan entry tag: %w", err)
		}
		i := index[entryID]
		entries[i].TagIDs = append(entries[i].TagIDs, tagID)
	}
	return rows.Err()
}
