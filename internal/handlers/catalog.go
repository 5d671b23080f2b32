package handlers

import (
	"encoding/json"
	"net/http"
)

// MoodsHandler lists the mood catalog. ?grouped=true groups it by sentiment.
func (h *Handler) MoodsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grouped") == "true" {
		grouped, err := h.catalog.MoodsBySentiment(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, grouped)
		return
	}

	moods, err := h.catalog.Moods(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, moods)
}

// ListTagsHandler lists tags, optionally by ?kind= or ?q=
func (h *Handler) ListTagsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tags, err := h.catalog.Tags(r.Context(), q.Get("kind"), q.Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, tags)
}

// CreateTagHandler creates a custom tag, or returns the existing one
func (h *Handler) CreateTagHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.badRequest(w, r, "invalid JSON body")
		return
	}

	tag, err := h.catalog.CreateTag(r.Context(), body.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, tag)
}

// DeleteTagHandler removes a custom tag
func (h *Handler) DeleteTagHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, "invalid tag id")
		return
	}
	if err := h.catalog.DeleteTag(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecalculateTagsHandler rebuilds usage counts from associations
func (h *Handler) RecalculateTagsHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.RecalculateTagUsage(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
