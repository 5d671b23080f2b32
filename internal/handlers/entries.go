package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"moodjournal/internal/domain"

	"github.com/gorilla/mux"
)

const maxImportBytes = 1 << 20

// entryPayload is the wire form of an entry write. Dates travel as
// YYYY-MM-DD strings.
type entryPayload struct {
	Title            string  `json:"title"`
	Content          string  `json:"content"`
	EntryDate        string  `json:"entry_date"`
	PrimaryMoodID    int64   `json:"primary_mood_id"`
	SecondaryMood1ID *int64  `json:"secondary_mood1_id,omitempty"`
	SecondaryMood2ID *int64  `json:"secondary_mood2_id,omitempty"`
	Category         string  `json:"category"`
	TagIDs           []int64 `json:"tag_ids"`
}

func (p entryPayload) request() (domain.EntryRequest, error) {
	req := domain.EntryRequest{
		Title:            p.Title,
		Content:          p.Content,
		PrimaryMoodID:    p.PrimaryMoodID,
		SecondaryMood1ID: p.SecondaryMood1ID,
		SecondaryMood2ID: p.SecondaryMood2ID,
		Category:         p.Category,
		TagIDs:           p.TagIDs,
	}
	if p.EntryDate != "" {
		d, err := domain.ParseDate(p.EntryDate)
		if err != nil {
			return req, err
		}
		req.EntryDate = d
	}
	return req, nil
}

type filterPayload struct {
	SearchText string  `json:"search_text"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	MoodIDs    []int64 `json:"mood_ids"`
	TagIDs     []int64 `json:"tag_ids"`
	Category   string  `json:"category"`
}

func (p filterPayload) filter() (domain.EntryFilter, error) {
	f := domain.EntryFilter{
		SearchText: p.SearchText,
		MoodIDs:    p.MoodIDs,
		TagIDs:     p.TagIDs,
		Category:   p.Category,
	}
	for _, b := range []struct {
		raw string
		dst **time.Time
	}{{p.StartDate, &f.StartDate}, {p.EndDate, &f.EndDate}} {
		if b.raw == "" {
			continue
		}
		d, err := domain.ParseDate(b.raw)
		if err != nil {
			return f, err
		}
		*b.dst = &d
	}
	return f, nil
}

// ListEntriesHandler serves newest-first pages of entries
func (h *Handler) ListEntriesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))

	result, err := h.journal.ListPaged(r.Context(), page, size)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// CreateEntryHandler creates an entry from a JSON body
func (h *Handler) CreateEntryHandler(w http.ResponseWriter, r *http.Request) {
	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.badRequest(w, r, "invalid JSON body")
		return
	}
	req, err := payload.request()
	if err != nil {
		h.badRequest(w, r, "entry_date must be a YYYY-MM-DD date")
		return
	}

	entry, err := h.journal.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, entry)
}

// GetEntryHandler returns one entry
func (h *Handler) GetEntryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, "invalid entry id")
		return
	}
	entry, err := h.journal.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, entry)
}

// UpdateEntryHandler replaces an entry's editable fields
func (h *Handler) UpdateEntryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, "invalid entry id")
		return
	}
	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.badRequest(w, r, "invalid JSON body")
		return
	}
	req, err := payload.request()
	if err != nil {
		h.badRequest(w, r, "entry_date must be a YYYY-MM-DD date")
		return
	}

	entry, err := h.journal.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, entry)
}

// DeleteEntryHandler removes an entry
func (h *Handler) DeleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, "invalid entry id")
		return
	}
	if err := h.journal.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EntryByDateHandler returns the entry for a calendar day
func (h *Handler) EntryByDateHandler(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.badRequest(w, r, "date must be a YYYY-MM-DD date")
		return
	}
	entry, err := h.journal.GetByDate(r.Context(), date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, entry)
}

// SearchEntriesHandler matches ?q= against titles and content
func (h *Handler) SearchEntriesHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journal.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, entries)
}

// FilterEntriesHandler applies a JSON filter
func (h *Handler) FilterEntriesHandler(w http.ResponseWriter, r *http.Request) {
	var payload filterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.badRequest(w, r, "invalid JSON body")
		return
	}
	f, err := payload.filter()
	if err != nil {
		h.badRequest(w, r, "filter dates must be YYYY-MM-DD")
		return
	}

	entries, err := h.journal.Filter(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, entries)
}

// ImportEntryHandler creates an entry from a raw markdown body with front matter
func (h *Handler) ImportEntryHandler(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		h.badRequest(w, r, "import body too large or unreadable")
		return
	}

	entry, err := h.journal.Import(r.Context(), src)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, entry)
}

// EntryDatesHandler lists every day that has an entry
func (h *Handler) EntryDatesHandler(w http.ResponseWriter, r *http.Request) {
	dates, err := h.journal.EntryDates(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, formatDates(dates))
}

// EntryTagsHandler lists the tags attached to an entry
func (h *Handler) EntryTagsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, "invalid entry id")
		return
	}
	tags, err := h.catalog.TagsForEntry(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, tags)
}
