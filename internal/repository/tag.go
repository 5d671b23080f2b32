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

const tagColumns = `id, name, is_predefined, usage_count`

// TagRepository handles the tag catalog and entry/tag associations
type TagRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *sql.DB, log *logger.Logger) *TagRepository {
	log.Info("Tag repository initialized")
	return &TagRepository{
		db:     db,
		logger: log,
	}
}

// ListAll returns every tag ordered by name
func (r *TagRepository) ListAll(ctx context.Context) ([]domain.Tag, error) {
	return r.list(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name`)
}

// ListPredefined returns the built-in tags ordered by name
func (r *TagRepository) ListPredefined(ctx context.Context) ([]domain.Tag, error) {
	return r.list(ctx, `SELECT `+tagColumns+` FROM tags WHERE is_predefined = 1 ORDER BY name`)
}

// ListCustom returns user-created tags ordered by name
func (r *TagRepository) ListCustom(ctx context.Context) ([]domain.Tag, error) {
	return r.list(ctx, `SELECT `+tagColumns+` FROM tags WHERE is_predefined = 0 ORDER BY name`)
}

// Search returns tags whose name contains text, case-insensitively
func (r *TagRepository) Search(ctx context.Context, text string) ([]domain.Tag, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return r.ListAll(ctx)
	}
	return r.list(ctx, `SELECT `+tagColumns+` FROM tags WHERE instr(lower(name), lower(?)) > 0 ORDER BY name`, text)
}

// GetByID retrieves a tag, or nil when absent
func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	return r.get(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)
}

// GetByName retrieves a tag by case-insensitive name, or nil when absent
func (r *TagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	return r.get(ctx, `SELECT `+tagColumns+` FROM tags WHERE name = ?`, strings.TrimSpace(name))
}

// Create adds a custom tag. When a tag with the same name exists, in any
// case, that tag is returned instead.
func (r *TagRepository) Create(ctx context.Context, name string) (*domain.Tag, error) {
	start := time.Now()
	name = strings.TrimSpace(name)
	r.logger.Debug("Creating tag: name='%s'", name)

	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		r.logger.Debug("Tag '%s' already exists: id=%d", name, existing.ID)
		return existing, nil
	}

	result, err := r.db.ExecContext(ctx, `INSERT INTO tags (name, is_predefined, usage_count) VALUES (?, 0, 0)`, name)
	duration := time.Since(start)
	if err != nil {
		r.logger.Error("Database insert failed: %v (%v)", err, duration)
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	r.logger.Info("Tag created successfully: id=%d name='%s' (%v)", id, name, duration)
	return &domain.Tag{ID: id, Name: name}, nil
}

// Delete removes a custom tag and its associations. Predefined tags are
// never deleted. It reports whether a tag was removed.
func (r *TagRepository) Delete(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	r.logger.Debug("Deleting tag id=%d", id)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND is_predefined = 0`, id)
	if err != nil {
		r.logger.Error("Failed to delete tag id=%d: %v", id, err)
		return false, fmt.Errorf("failed to delete tag: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE tag_id = ?`, id); err != nil {
		r.logger.Error("Failed to delete associations for tag id=%d: %v", id, err)
		return false, fmt.Errorf("failed to delete tag associations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit tag delete: %w", err)
	}

	r.logger.Info("Tag deleted: id=%d (%v)", id, time.Since(start))
	return true, nil
}

// SetEntryTags replaces the tag set of an entry. Each newly written
// association increments the tag's usage counter; counters are only
// brought back in line by RecalculateUsageCounts.
func (r *TagRepository) SetEntryTags(ctx context.Context, entryID int64, tagIDs []int64) error {
	start := time.Now()
	r.logger.Debug("Setting %d tags on entry id=%d", len(tagIDs), entryID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE journal_entry_id = ?`, entryID); err != nil {
		r.logger.Error("Failed to clear tags for entry id=%d: %v", entryID, err)
		return fmt.Errorf("failed to clear entry tags: %w", err)
	}

	seen := make(map[int64]struct{}, len(tagIDs))
	for _, tagID := range tagIDs {
		if _, dup := seen[tagID]; dup {
			continue
		}
		seen[tagID] = struct{}{}

		if _, err := tx.ExecContext(ctx, `INSERT INTO entry_tags (journal_entry_id, tag_id) VALUES (?, ?)`, entryID, tagID); err != nil {
			r.logger.Error("Failed to tag entry id=%d with tag id=%d: %v", entryID, tagID, err)
			return fmt.Errorf("failed to add entry tag: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE tags SET usage_count = usage_count + 1 WHERE id = ?`, tagID); err != nil {
			return fmt.Errorf("failed to increment tag usage: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entry tags: %w", err)
	}

	r.logger.Debug("Entry id=%d tagged (%v)", entryID, time.Since(start))
	return nil
}

// TagsForEntry returns the tags attached to an entry ordered by name
func (r *TagRepository) TagsForEntry(ctx context.Context, entryID int64) ([]domain.Tag, error) {
	return r.list(ctx, `
		SELECT t.id, t.name, t.is_predefined, t.usage_count
		FROM tags t
		JOIN entry_tags et ON et.tag_id = t.id
		WHERE et.journal_entry_id = ?
		ORDER BY t.name
	`, entryID)
}

// ListAssociations returns every entry/tag association row
func (r *TagRepository) ListAssociations(ctx context.Context) ([]domain.EntryTag, error) {
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, `SELECT journal_entry_id, tag_id FROM entry_tags ORDER BY id`)
	if err != nil {
		r.logger.Error("Database query failed: %v (%v)", err, time.Since(start))
		return nil, fmt.Errorf("failed to list entry tags: %w", err)
	}
	defer rows.Close()

	assocs := []domain.EntryTag{}
	for rows.Next() {
		var a domain.EntryTag
		if err := rows.Scan(&a.EntryID, &a.TagID); err != nil {
			return nil, fmt.Errorf("failed to scan entry tag: %w", err)
		}
		assocs = append(assocs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry tags: %w", err)
	}

	r.logger.Debug("Entry tag associations retrieved: %d (%v)", len(assocs), time.Since(start))
	return assocs, nil
}

// RecalculateUsageCounts resets every usage counter to its association count
func (r *TagRepository) RecalculateUsageCounts(ctx context.Context) error {
	start := time.Now()

	_, err := r.db.ExecContext(ctx, `
		UPDATE tags
		SET usage_count = (SELECT COUNT(*) FROM entry_tags et WHERE et.tag_id = tags.id)
	`)
	duration := time.Since(start)
	if err != nil {
		r.logger.Error("Failed to recalculate tag usage: %v (%v)", err, duration)
		return fmt.Errorf("failed to recalculate tag usage: %w", err)
	}

	r.logger.Info("Tag usage counts recalculated (%v)", duration)
	return nil
}

func scanTag(s rowScanner) (*domain.Tag, error) {
	var t domain.Tag
	if err := s.Scan(&t.ID, &t.Name, &t.IsPredefined, &t.UsageCount); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagRepository) get(ctx context.Context, query string, arg any) (*domain.Tag, error) {
	start := time.Now()

	tag, err := scanTag(r.db.QueryRowContext(ctx, query, arg))
	duration := time.Since(start)

	if err == sql.ErrNoRows {
		r.logger.Debug("No tag found for %v (%v)", arg, duration)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Database query failed for tag %v: %v (%v)", arg, err, duration)
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return tag, nil
}

func (r *TagRepository) list(ctx context.Context, query string, args ...any) ([]domain.Tag, error) {
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Database query failed: %v (%v)", err, time.Since(start))
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			r.logger.Error("Failed to scan tag row: %v", err)
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, *tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	r.logger.Debug("Tags retrieved: %d (%v)", len(tags), time.Since(start))
	return tags, nil
}
