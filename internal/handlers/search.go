package handlers

import (
	"net/http"

	"github.com/sbilibin2017/microblog/internal/services"
)

// SearchResponse is one page of search hits
// swagger:model SearchResponse
type SearchResponse = services.SearchResult

// ReindexResponse reports how many posts were indexed
// swagger:model ReindexResponse
type ReindexResponse struct {
	Indexed int `json:"indexed"`
}

// NewSearchHandler returns posts matching every term of ?q=.
// @Summary Search posts
// @Tags search
// @Produce json
// @Param q query string true "Query"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} handlers.SearchResponse
// @Failure 400 {object} handlers.ErrorResponse "Empty query"
// @Failure 503 {object} handlers.ErrorResponse "Search unavailable"
// @Security BearerAuth
// @Router /search [get]
func NewSearchHandler(svc Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Search(r.Context(), r.URL.Query().Get("q"), pageParam(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

// NewReindexHandler returns an HTTP handler that rebuilds the search index.
// @Summary Rebuild the search index
// @Tags search
// @Produce json
// @Success 200 {object} handlers.ReindexResponse
// @Failure 503 {object} handlers.ErrorResponse
// @Security BearerAuth
// @Router /admin/reindex [post]
func NewReindexHandler(svc Reindexer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Reindex(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ReindexResponse{Indexed: n})
	}
}
