package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func newRouter(h *handler) *mux.Router {
	r := mux.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(h.log))
	r.Use(corsMiddleware)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static)))).Methods(http.MethodGet)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	return r
}

// NewSearchRouter serves the image search page and its JSON endpoint.
func NewSearchRouter(searcher Searcher, pinger Pinger, log logger.Logger) http.Handler {
	h := &handler{log: log, templates: templates, searcher: searcher, pinger: pinger}
	r := newRouter(h)
	r.HandleFunc("/", h.handleSearchPage).Methods(http.MethodGet)
	r.HandleFunc("/search", h.handleSearch).Methods(http.MethodPost, http.MethodOptions)
	return r
}

// NewListingRouter serves the corporation listing. Pass a nil pinger when the
// listing runs on sample data.
func NewListingRouter(lister Lister, pinger Pinger, log logger.Logger) http.Handler {
	h := &handler{log: log, templates: templates, lister: lister, pinger: pinger}
	r := newRouter(h)
	r.HandleFunc("/", h.handleListing).Methods(http.MethodGet)
	return r
}
