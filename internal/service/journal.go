package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"moodjournal/internal/domain"
	"moodjournal/internal/logger"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

var markdownPunctuation = regexp.MustCompile("[#*_`~\\[\\]()>]")

// CountWords counts whitespace separated words after markdown punctuation
// is blanked out
func CountWords(content string) int {
	if strings.TrimSpace(content) == "" {
		return 0
	}
	return len(strings.Fields(markdownPunctuation.ReplaceAllString(content, " ")))
}

// JournalService handles business logic for journal entries
type JournalService struct {
	entries  EntryRepository
	moods    MoodRepository
	tags     TagRepository
	renderer *EntryRenderer
	validate *validator.Validate
	logger   *logger.Logger
}

// NewJournalService creates a new journal service
func NewJournalService(entries EntryRepository, moods MoodRepository, tags TagRepository, renderer *EntryRenderer, log *logger.Logger) *JournalService {
	log.Info("Journal service initialized")
	return &JournalService{
		entries:  entries,
		moods:    moods,
		tags:     tags,
		renderer: renderer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   log,
	}
}

// Create stores a new entry. Only one entry may exist per calendar day.
func (s *JournalService) Create(ctx context.Context, req domain.EntryRequest) (*domain.JournalEntry, error) {
	if err := s.checkRequest(ctx, req); err != nil {
		return nil, err
	}

	date := domain.Day(req.EntryDate)
	existing, err := s.entries.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing entry: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Entry already exists for %s: id=%d", domain.FormatDate(date), existing.ID)
		return nil, ConflictError{
			Message: fmt.Sprintf("an entry already exists for %s", domain.FormatDate(date)),
		}
	}

	entry := &domain.JournalEntry{}
	applyRequest(entry, req)
	if err := s.entries.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to create entry: %v", err)
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	if err := s.setTags(ctx, entry, req.TagIDs); err != nil {
		// Roll the entry back so a retry is not rejected as a duplicate date.
		if _, delErr := s.entries.Delete(ctx, entry.ID); delErr != nil {
			s.logger.Error("Failed to roll back entry id=%d: %v", entry.ID, delErr)
		}
		return nil, err
	}

	s.logger.Info("Entry created: id=%d date=%s words=%d", entry.ID, domain.FormatDate(entry.EntryDate), entry.WordCount)
	return entry, nil
}

// Update replaces the content, moods, date and tags of an entry
func (s *JournalService) Update(ctx context.Context, id int64, req domain.EntryRequest) (*domain.JournalEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRequest(ctx, req); err != nil {
		return nil, err
	}

	date := domain.Day(req.EntryDate)
	if !date.Equal(entry.EntryDate) {
		other, err := s.entries.GetByDate(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing entry: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, ConflictError{
				Message: fmt.Sprintf("an entry already exists for %s", domain.FormatDate(date)),
			}
		}
	}

	applyRequest(entry, req)
	if err := s.entries.Update(ctx, entry); err != nil {
		s.logger.Error("Failed to update entry id=%d: %v", id, err)
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	if err := s.setTags(ctx, entry, req.TagIDs); err != nil {
		return nil, err
	}

	s.logger.Info("Entry updated: id=%d", id)
	return entry, nil
}

// Delete removes an entry and its tag associations
func (s *JournalService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.entries.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete entry id=%d: %v", id, err)
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if !deleted {
		return NotFoundError{Resource: "entry", ID: strconv.FormatInt(id, 10)}
	}
	s.logger.Info("Entry deleted: id=%d", id)
	return nil
}

// Get returns one entry
func (s *JournalService) Get(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry == nil {
		return nil, NotFoundError{Resource: "entry", ID: strconv.FormatInt(id, 10)}
	}
	return entry, nil
}

// GetByDate returns the entry written on date's calendar day
func (s *JournalService) GetByDate(ctx context.Context, date time.Time) (*domain.JournalEntry, error) {
	entry, err := s.entries.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry == nil {
		return nil, NotFoundError{Resource: "entry", ID: domain.FormatDate(date)}
	}
	return entry, nil
}

// ListPaged returns newest-first pages. Page numbers start at 1; the page
// size is clamped to [1, 100] and defaults to 10.
func (s *JournalService) ListPaged(ctx context.Context, page, pageSize int) (*domain.EntryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	entries, total, err := s.entries.ListPaged(ctx, page, pageSize, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return &domain.EntryPage{
		Entries:    entries,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Search matches text against titles and content, case-insensitively.
// Blank text matches nothing.
func (s *JournalService) Search(ctx context.Context, text string) ([]domain.JournalEntry, error) {
	if strings.TrimSpace(text) == "" {
		return []domain.JournalEntry{}, nil
	}
	return s.Filter(ctx, domain.EntryFilter{SearchText: text})
}

// Filter applies every non-empty criterion of f and returns matches newest
// first. Mood ids match primary or secondary moods; tag ids match when the
// entry carries any of them.
func (s *JournalService) Filter(ctx context.Context, f domain.EntryFilter) ([]domain.JournalEntry, error) {
	var dateRange *domain.DateRange
	if f.StartDate != nil || f.EndDate != nil {
		r := domain.DateRange{Start: time.Time{}, End: domain.Day(time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))}
		if f.StartDate != nil {
			r.Start = domain.Day(*f.StartDate)
		}
		if f.EndDate != nil {
			r.End = domain.Day(*f.EndDate)
		}
		dateRange = &r
	}

	entries, err := s.entries.List(ctx, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	text := strings.ToLower(strings.TrimSpace(f.SearchText))
	category := strings.TrimSpace(f.Category)
	moodSet := toSet(f.MoodIDs)
	tagSet := toSet(f.TagIDs)

	matches := []domain.JournalEntry{}
	for _, e := range entries {
		if len(moodSet) > 0 && !anyIn(e.MoodIDs(), moodSet) {
			continue
		}
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(e.Title), text) &&
			!strings.Contains(strings.ToLower(e.Content), text) {
			continue
		}
		if len(tagSet) > 0 && !anyIn(e.TagIDs, tagSet) {
			continue
		}
		matches = append(matches, e)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].EntryDate.After(matches[j].EntryDate) })
	s.logger.Debug("Filter matched %d of %d entries", len(matches), len(entries))
	return matches, nil
}

// EntryDates returns every day that has an entry, ascending
func (s *JournalService) EntryDates(ctx context.Context) ([]time.Time, error) {
	dates, err := s.entries.ListDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry dates: %w", err)
	}
	return dates, nil
}

// Render returns the entry content as HTML
func (s *JournalService) Render(ctx context.Context, id int64) (*domain.JournalEntry, string, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	html, err := s.renderer.Render(entry.Content)
	if err != nil {
		return nil, "", err
	}
	return entry, html, nil
}

// Import creates an entry from a markdown document with front matter. Mood
// names must exist in the catalog; unknown tag names become custom tags.
func (s *JournalService) Import(ctx context.Context, src []byte) (*domain.JournalEntry, error) {
	doc, err := s.renderer.ParseImport(src)
	if err != nil {
		return nil, err
	}

	req := domain.EntryRequest{
		Title:     doc.Title,
		Content:   doc.Content,
		EntryDate: doc.Date,
		Category:  doc.Category,
	}

	primary, err := s.moodByName(ctx, doc.Mood)
	if err != nil {
		return nil, err
	}
	req.PrimaryMoodID = primary

	if len(doc.SecondaryMoods) > 2 {
		return nil, invalidf("at most two secondary moods are allowed, got %d", len(doc.SecondaryMoods))
	}
	for i, name := range doc.SecondaryMoods {
		id, err := s.moodByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			req.SecondaryMood1ID = &id
		} else {
			req.SecondaryMood2ID = &id
		}
	}

	for _, name := range doc.Tags {
		tag, err := s.tags.Create(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}
		req.TagIDs = append(req.TagIDs, tag.ID)
	}

	s.logger.Debug("Importing entry for %s with %d tags", domain.FormatDate(req.EntryDate), len(req.TagIDs))
	return s.Create(ctx, req)
}

func (s *JournalService) moodByName(ctx context.Context, name string) (int64, error) {
	mood, err := s.moods.GetByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to look up mood %q: %w", name, err)
	}
	if mood == nil {
		return 0, invalidf("unknown mood %q", name)
	}
	return mood.ID, nil
}

// checkRequest validates field rules, then that every referenced mood and
// tag exists
func (s *JournalService) checkRequest(ctx context.Context, req domain.EntryRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
			}
			return InvalidRequestError{Message: "invalid entry: " + strings.Join(msgs, ", ")}
		}
		return fmt.Errorf("failed to validate entry: %w", err)
	}

	moodIDs := []int64{req.PrimaryMoodID}
	if req.SecondaryMood1ID != nil {
		moodIDs = append(moodIDs, *req.SecondaryMood1ID)
	}
	if req.SecondaryMood2ID != nil {
		moodIDs = append(moodIDs, *req.SecondaryMood2ID)
	}
	for _, id := range moodIDs {
		mood, err := s.moods.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to look up mood %d: %w", id, err)
		}
		if mood == nil {
			return invalidf("unknown mood id %d", id)
		}
	}

	for _, id := range req.TagIDs {
		tag, err := s.tags.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to look up tag %d: %w", id, err)
		}
		if tag == nil {
			return invalidf("unknown tag id %d", id)
		}
	}
	return nil
}

func (s *JournalService) setTags(ctx context.Context, entry *domain.JournalEntry, tagIDs []int64) error {
	ids := dedupe(tagIDs)
	if err := s.tags.SetEntryTags(ctx, entry.ID, ids); err != nil {
		s.logger.Error("Failed to tag entry id=%d: %v", entry.ID, err)
		return fmt.Errorf("failed to set entry tags: %w", err)
	}
	entry.TagIDs = ids
	return nil
}

func applyRequest(entry *domain.JournalEntry, req domain.EntryRequest) {
	entry.Title = strings.TrimSpace(req.Title)
	entry.Content = req.Content
	entry.EntryDate = domain.Day(req.EntryDate)
	entry.PrimaryMoodID = req.PrimaryMoodID
	entry.SecondaryMood1ID = req.SecondaryMood1ID
	entry.SecondaryMood2ID = req.SecondaryMood2ID
	entry.Category = strings.TrimSpace(req.Category)
	entry.WordCount = CountWords(req.Content)
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func anyIn(ids []int64, set map[int64]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
