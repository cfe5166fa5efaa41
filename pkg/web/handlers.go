package web

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/pkg/errors"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
	"github.com/st3ffan/hack-the-stackathon/pkg/listing"
	"github.com/st3ffan/hack-the-stackathon/pkg/search"
)

type Searcher interface {
	Search(ctx context.Context, query string) (*search.Response, error)
}

type Lister interface {
	List(ctx context.Context) []listing.Corporation
}

// Pinger checks the database. A nil Pinger reports the database as disabled.
type Pinger interface {
	Ping(ctx context.Context) error
}

// maxSearchBody caps the POST /search payload.
const maxSearchBody = 1 << 20

type searchRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	MongoDB string `json:"mongodb,omitempty"`
	Error   string `json:"error,omitempty"`
}

type handler struct {
	log       logger.Logger
	templates *template.Template
	searcher  Searcher
	lister    Lister
	pinger    Pinger
}

func (h *handler) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "search.html", nil)
}

func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSearchBody)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.Debug(ctx, "search body over %d bytes", tooLarge.Limit)
			h.writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large"})
			return
		}
		h.log.Debug(ctx, "invalid search body: %v", err)
		req = searchRequest{}
	}

	resp, err := h.searcher.Search(ctx, req.Query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.log.Info(ctx, "search %q returned %d results", resp.Query, resp.Count)
	h.writeJSON(w, r, http.StatusOK, resp)
}

type listingPage struct {
	Corporations []listing.Corporation
}

func (h *handler) handleListing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "listing.html", listingPage{Corporations: h.lister.List(r.Context())})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		h.writeJSON(w, r, http.StatusOK, healthResponse{Status: "healthy", MongoDB: "disabled"})
		return
	}
	if err := h.pinger.Ping(r.Context()); err != nil {
		h.log.Warn(r.Context(), "health check failed: %v", err)
		h.writeJSON(w, r, http.StatusInternalServerError, healthResponse{Status: "unhealthy", Error: err.Error()})
		return
	}
	h.writeJSON(w, r, http.StatusOK, healthResponse{Status: "healthy", MongoDB: "connected"})
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error(r.Context(), "failed to render %s: %+v", name, err)
	}
}

// writeError is the single place where errors become HTTP responses. Users get
// the short message, the log gets the stack.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "%s %s failed: %+v", r.Method, r.URL.Path, err)
	} else {
		h.log.Debug(r.Context(), "%s %s rejected: %v", r.Method, r.URL.Path, err)
	}
	h.writeJSON(w, r, status, errorResponse{Error: apperr.Message(err)})
}

// writeJSON encodes before writing the header so an unencodable body turns
// into a 500 instead of a truncated response.
func (h *handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		h.log.Error(r.Context(), "failed to encode %s %s response: %+v", r.Method, r.URL.Path, errors.WithStack(err))
		status = http.StatusInternalServerError
		payload, _ = json.Marshal(errorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(payload, '\n')); err != nil {
		h.log.Debug(r.Context(), "failed to write %s %s response: %v", r.Method, r.URL.Path, err)
	}
}
