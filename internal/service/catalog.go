package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"moodjournal/internal/domain"
	"moodjournal/internal/logger"
)

const maxTagNameLength = 50

// CatalogService serves the mood and tag catalogs
type CatalogService struct {
	moods  MoodRepository
	tags   TagRepository
	logger *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(moods MoodRepository, tags TagRepository, log *logger.Logger) *CatalogService {
	log.Info("Catalog service initialized")
	return &CatalogService{
		moods:  moods,
		tags:   tags,
		logger: log,
	}
}

// Moods returns the whole mood catalog
func (s *CatalogService) Moods(ctx context.Context) ([]domain.Mood, error) {
	moods, err := s.moods.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list moods: %w", err)
	}
	return moods, nil
}

// MoodsBySentiment groups the catalog by sentiment; every class is present
func (s *CatalogService) MoodsBySentiment(ctx context.Context) (map[domain.Sentiment][]domain.Mood, error) {
	grouped := make(map[domain.Sentiment][]domain.Mood, len(domain.Sentiments))
	for _, sentiment := range domain.Sentiments {
		moods, err := s.moods.ListBySentiment(ctx, sentiment)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s moods: %w", sentiment, err)
		}
		grouped[sentiment] = moods
	}
	return grouped, nil
}

// Tags lists tags. kind filters to "predefined" or "custom"; query narrows
// by name substring and takes precedence over kind.
func (s *CatalogService) Tags(ctx context.Context, kind, query string) ([]domain.Tag, error) {
	var (
		tags []domain.Tag
		err  error
	)
	switch {
	case strings.TrimSpace(query) != "":
		tags, err = s.tags.Search(ctx, query)
	case kind == "predefined":
		tags, err = s.tags.ListPredefined(ctx)
	case kind == "custom":
		tags, err = s.tags.ListCustom(ctx)
	case kind == "":
		tags, err = s.tags.ListAll(ctx)
	default:
		return nil, invalidf("unknown tag kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// CreateTag adds a custom tag, returning the existing tag when the name is
// already taken in any letter case
func (s *CatalogService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("tag name is required")
	}
	if len(name) > maxTagNameLength {
		return nil, invalidf("tag name is longer than %d characters", maxTagNameLength)
	}

	tag, err := s.tags.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// DeleteTag removes a custom tag from the catalog and from every entry
func (s *CatalogService) DeleteTag(ctx context.Context, id int64) error {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get tag: %w", err)
	}
	if tag == nil {
		return NotFoundError{Resource: "tag", ID: strconv.FormatInt(id, 10)}
	}
	if tag.IsPredefined {
		return invalidf("predefined tag %q cannot be deleted", tag.Name)
	}

	if _, err := s.tags.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	s.logger.Info("Tag deleted: id=%d name='%s'", id, tag.Name)
	return nil
}

// TagsForEntry returns the tags on one entry
func (s *CatalogService) TagsForEntry(ctx context.Context, entryID int64) ([]domain.Tag, error) {
	tags, err := s.tags.TagsForEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry tags: %w", err)
	}
	return tags, nil
}

// RecalculateTagUsage recounts every tag's usage from the associations
func (s *CatalogService) RecalculateTagUsage(ctx context.Context) error {
	if err := s.tags.RecalculateUsageCounts(ctx); err != nil {
		return fmt.Errorf("failed to recalculate tag usage: %w", err)
	}
	return nil
}
