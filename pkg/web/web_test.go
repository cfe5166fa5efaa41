package web

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
	"github.com/st3ffan/hack-the-stackathon/pkg/listing"
	"github.com/st3ffan/hack-the-stackathon/pkg/search"
)

type searchFunc func(ctx context.Context, query string) (*search.Response, error)

func (f searchFunc) Search(ctx context.Context, query string) (*search.Response, error) {
	return f(ctx, query)
}

type listFunc func(ctx context.Context) []listing.Corporation

func (f listFunc) List(ctx context.Context) []listing.Corporation {
	return f(ctx)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	image := "data:image/jpeg;base64,YWJj"
	var logs bytes.Buffer
	router := NewSearchRouter(searchFunc(func(ctx context.Context, query string) (*search.Response, error) {
		switch strings.TrimSpace(query) {
		case "":
			return nil, apperr.Validation("search", "Query text is required")
		case "boom":
			return nil, apperr.Query("vector search", errors.New("index default not found"))
		case "not a number":
			return &search.Response{Success: true, Query: query, Results: []search.Hit{{Name: "1.jpg", Filename: "1.jpg", Score: math.NaN()}}, Count: 1}, nil
		}
		return &search.Response{
			Success: true,
			Query:   query,
			Results: []search.Hit{{Name: "1.jpg", Filename: "1.jpg", Score: 0.9, ImageData: &image}, {Name: "2.jpg", Filename: "2.jpg", Score: 0.5}},
			Count:   2,
		}, nil
	}), nil, logger.New(logger.WithWriter(&logs)))

	t.Run("results", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/search", `{"query":"red car"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "red car", body["query"])
		assert.EqualValues(t, 2, body["count"])
		results := body["results"].([]any)
		require.Len(t, results, 2)
		assert.Equal(t, image, results[0].(map[string]any)["image_data"])
		assert.Contains(t, results[1].(map[string]any), "image_data")
		assert.Nil(t, results[1].(map[string]any)["image_data"])
	})

	for name, payload := range map[string]string{
		"empty query":   `{"query":"   "}`,
		"missing query": `{}`,
		"malformed":     `{"query":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/search", payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Query text is required"}`, rec.Body.String())
		})
	}

	t.Run("backend failure", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/search", `{"query":"boom"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"index default not found"}`, rec.Body.String())
		assert.Contains(t, logs.String(), "POST /search failed")
		assert.Contains(t, logs.String(), "web_test.go")
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"query":"` + strings.Repeat("a", maxSearchBody) + `"}`
		rec := do(t, router, http.MethodPost, "/search", body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.JSONEq(t, `{"error":"Request body too large"}`, rec.Body.String())
	})

	t.Run("unencodable response", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/search", `{"query":"not a number"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"failed to encode response"}`, rec.Body.String())
		assert.Contains(t, logs.String(), "failed to encode POST /search response")
	})

	t.Run("preflight", func(t *testing.T) {
		rec := do(t, router, http.MethodOptions, "/search", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("page and assets", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `id="searchForm"`)

		rec = do(t, router, http.MethodGet, "/static/js/script.js", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "fetch('/search'")
	})
}

func TestRequestIDIsPropagated(t *testing.T) {
	var seen string
	router := NewSearchRouter(searchFunc(func(ctx context.Context, query string) (*search.Response, error) {
		seen = logger.RequestID(ctx)
		return &search.Response{Success: true, Query: query, Results: []search.Hit{}}, nil
	}), nil, logger.New(logger.WithWriter(&bytes.Buffer{})))

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"cat"}`))
	req.Header.Set(RequestIDHeader, "req-7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-7", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-7", seen)
}

func TestListingPage(t *testing.T) {
	log := logger.New(logger.WithWriter(&bytes.Buffer{}))

	t.Run("renders corporations", func(t *testing.T) {
		router := NewListingRouter(listFunc(func(ctx context.Context) []listing.Corporation {
			return listing.SampleCorporations()[:2]
		}), nil, log)

		rec := do(t, router, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		body := rec.Body.String()
		assert.Contains(t, body, "TechCorp Industries")
		assert.Contains(t, body, "Global Finance Ltd")
		assert.Contains(t, body, `href="https://investors.techcorp.com"`)
		assert.Contains(t, body, `data-id="sample_1"`)
		assert.Less(t, strings.Index(body, "TechCorp Industries"), strings.Index(body, "Global Finance Ltd"))
	})

	t.Run("empty list is not an error", func(t *testing.T) {
		router := NewListingRouter(listFunc(func(ctx context.Context) []listing.Corporation {
			return []listing.Corporation{}
		}), nil, log)

		rec := do(t, router, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No corporations found.")
	})
}

func TestHealth(t *testing.T) {
	log := logger.New(logger.WithWriter(&bytes.Buffer{}))
	list := listFunc(func(ctx context.Context) []listing.Corporation { return nil })

	rec := do(t, NewListingRouter(list, pingFunc(func(ctx context.Context) error { return nil }), log), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","mongodb":"connected"}`, rec.Body.String())

	rec = do(t, NewListingRouter(list, pingFunc(func(ctx context.Context) error {
		return errors.New("server selection timeout")
	}), log), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy","error":"server selection timeout"}`, rec.Body.String())

	rec = do(t, NewListingRouter(list, nil, log), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","mongodb":"disabled"}`, rec.Body.String())
}

func TestServerShutsDownOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	router := NewListingRouter(listFunc(func(ctx context.Context) []listing.Corporation { return nil }), nil,
		logger.New(logger.WithWriter(&bytes.Buffer{})))
	server := NewServer("listing", "127.0.0.1", 0, router, logger.New(logger.WithWriter(&bytes.Buffer{})))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
