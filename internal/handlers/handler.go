package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"moodjournal/internal/config"
	"moodjournal/internal/domain"
	"moodjournal/internal/logger"
	"moodjournal/internal/service"

	"github.com/gorilla/mux"
)

// AnalyticsService interface for derived statistics
type AnalyticsService interface {
	ComputeAnalytics(ctx context.Context, start, end *time.Time) (*domain.AnalyticsResult, error)
	ComputeStreakStats(ctx context.Context) (domain.StreakStats, error)
	ComputeMoodTrend(ctx context.Context, start, end time.Time) ([]domain.MoodTrendPoint, error)
	ComputeSummaryStats(ctx context.Context) (*domain.SummaryStats, error)
}

// JournalService interface for entry operations
type JournalService interface {
	Create(ctx context.Context, req domain.EntryRequest) (*domain.JournalEntry, error)
	Update(ctx context.Context, id int64, req domain.EntryRequest) (*domain.JournalEntry, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.JournalEntry, error)
	GetByDate(ctx context.Context, date time.Time) (*domain.JournalEntry, error)
	ListPaged(ctx context.Context, page, pageSize int) (*domain.EntryPage, error)
	Search(ctx context.Context, text string) ([]domain.JournalEntry, error)
	Filter(ctx context.Context, f domain.EntryFilter) ([]domain.JournalEntry, error)
	EntryDates(ctx context.Context) ([]time.Time, error)
	Render(ctx context.Context, id int64) (*domain.JournalEntry, string, error)
	Import(ctx context.Context, src []byte) (*domain.JournalEntry, error)
}

// CatalogService interface for moods and tags
type CatalogService interface {
	Moods(ctx context.Context) ([]domain.Mood, error)
	MoodsBySentiment(ctx context.Context) (map[domain.Sentiment][]domain.Mood, error)
	Tags(ctx context.Context, kind, query string) ([]domain.Tag, error)
	CreateTag(ctx context.Context, name string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
	TagsForEntry(ctx context.Context, entryID int64) ([]domain.Tag, error)
	RecalculateTagUsage(ctx context.Context) error
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler holds the HTTP handlers
type Handler struct {
	analytics AnalyticsService
	journal   JournalService
	catalog   CatalogService
	db        Pinger
	config    *config.Config
	entryPage *template.Template
	logger    *logger.Logger
}

// NewHandler creates a new handler
func NewHandler(analytics AnalyticsService, journal JournalService, catalog CatalogService, db Pinger, cfg *config.Config, log *logger.Logger) *Handler {
	h := &Handler{
		analytics: analytics,
		journal:   journal,
		catalog:   catalog,
		db:        db,
		config:    cfg,
		entryPage: template.Must(template.New("entry").Parse(entryTemplate)),
		logger:    log,
	}
	log.Info("Handler initialized successfully")
	return h
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/analytics", h.AnalyticsHandler).Methods("GET")
	api.HandleFunc("/analytics/streaks", h.StreaksHandler).Methods("GET")
	api.HandleFunc("/analytics/summary", h.SummaryHandler).Methods("GET")
	api.HandleFunc("/analytics/mood-trend", h.MoodTrendHandler).Methods("GET")

	api.HandleFunc("/entries", h.ListEntriesHandler).Methods("GET")
	api.HandleFunc("/entries", h.CreateEntryHandler).Methods("POST")
	api.HandleFunc("/entries/search", h.SearchEntriesHandler).Methods("GET")
	api.HandleFunc("/entries/filter", h.FilterEntriesHandler).Methods("POST")
	api.HandleFunc("/entries/import", h.ImportEntryHandler).Methods("POST")
	api.HandleFunc("/entries/dates", h.EntryDatesHandler).Methods("GET")
	api.HandleFunc("/entries/by-date/{date}", h.EntryByDateHandler).Methods("GET")
	api.HandleFunc("/entries/{id:[0-9]+}", h.GetEntryHandler).Methods("GET")
	api.HandleFunc("/entries/{id:[0-9]+}", h.UpdateEntryHandler).Methods("PUT")
	api.HandleFunc("/entries/{id:[0-9]+}", h.DeleteEntryHandler).Methods("DELETE")
	api.HandleFunc("/entries/{id:[0-9]+}/tags", h.EntryTagsHandler).Methods("GET")

	api.HandleFunc("/moods", h.MoodsHandler).Methods("GET")
	api.HandleFunc("/tags", h.ListTagsHandler).Methods("GET")
	api.HandleFunc("/tags", h.CreateTagHandler).Methods("POST")
	api.HandleFunc("/tags/recalculate", h.RecalculateTagsHandler).Methods("POST")
	api.HandleFunc("/tags/{id:[0-9]+}", h.DeleteTagHandler).Methods("DELETE")

	router.HandleFunc("/entries/{id:[0-9]+}/view", h.EntryViewHandler).Methods("GET")
	router.HandleFunc("/healthz", h.HealthHandler).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(h.NotFoundHandler)
}

// HealthHandler reports liveness and database reachability
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Error("Health check failed: %v", err)
			h.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "environment": h.config.Environment})
}

// NotFoundHandler handles 404 errors
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("404 for path '%s'", r.URL.Path)
	h.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not found", RequestID: RequestIDFrom(r.Context())})
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write response for %s: %v", r.URL.Path, err)
	}
}

// writeError maps service errors onto status codes. Unknown errors are
// logged and reported as 500 without their message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := RequestIDFrom(r.Context())

	var (
		invalid  service.InvalidRequestError
		notFound service.NotFoundError
		conflict service.ConflictError
	)
	switch {
	case errors.As(err, &invalid):
		h.logger.Warn("Bad request %s %s: %v", r.Method, r.URL.Path, err)
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: invalid.Error(), RequestID: reqID})
	case errors.As(err, &notFound):
		h.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: notFound.Error(), RequestID: reqID})
	case errors.As(err, &conflict):
		h.logger.Warn("Conflict %s %s: %v", r.Method, r.URL.Path, err)
		h.writeJSON(w, r, http.StatusConflict, errorResponse{Error: conflict.Error(), RequestID: reqID})
	default:
		h.logger.Error("Request %s %s failed (request_id=%s): %v", r.Method, r.URL.Path, reqID, err)
		h.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error", RequestID: reqID})
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeError(w, r, service.InvalidRequestError{Message: msg})
}

// pathID reads the numeric {id} route variable
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// queryDate parses an optional YYYY-MM-DD query parameter
func queryDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, service.InvalidRequestError{Message: key + " must be a YYYY-MM-DD date"}
	}
	return &d, nil
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = domain.FormatDate(d)
	}
	return out
}

func formatDatePtr(d *time.Time) string {
	if d == nil {
		return ""
	}
	return domain.FormatDate(*d)
}
