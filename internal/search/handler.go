package search

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"aihunter/search-service/internal/github"
	"aihunter/search-service/internal/model"
)

// perPage is the fixed page size of the search endpoint.
const perPage = 10

// Handler exposes the search pipeline over HTTP.
//
// Routes:
//
//	GET /search?q=<keyword>&page=<int> → one page of candidates
type Handler struct {
	orch *Orchestrator
}

// NewHandler returns a configured Handler.
func NewHandler(orch *Orchestrator) *Handler {
	return &Handler{orch: orch}
}

// RegisterRoutes mounts the search routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/search", h.handleSearch)
}

// searchResponse is the top-level JSON shape of GET /search.
type searchResponse struct {
	Candidates  []model.SearchResultEntry `json:"candidates"`
	TotalCount  int                       `json:"total_count"`
	CurrentPage int                       `json:"current_page"`
	PerPage     int                       `json:"per_page"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		// Reject before any upstream call is made.
		jsonError(w, "missing search keyword", http.StatusBadRequest)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			page = v
		}
	}

	result, err := h.orch.SearchPage(r.Context(), keyword, page, perPage)
	if err != nil {
		status, msg := classifySearchError(err)
		slog.Error("search request failed", "keyword", keyword, "page", page, "err", err)
		jsonError(w, msg, status)
		return
	}

	jsonOK(w, searchResponse{
		Candidates:  result.Candidates,
		TotalCount:  result.TotalCount,
		CurrentPage: page,
		PerPage:     perPage,
	})
}

// classifySearchError maps the github search sentinels to response codes.
func classifySearchError(err error) (int, string) {
	switch {
	case errors.Is(err, github.ErrRateLimited):
		return http.StatusTooManyRequests, "github rate limit exhausted, retry later"
	case errors.Is(err, github.ErrUnauthorized):
		return http.StatusUnauthorized, "github credentials rejected"
	default:
		return http.StatusBadGateway, "github search failed"
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
