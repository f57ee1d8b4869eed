package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/contentrec/corpus"
	"github.com/rushteam/contentrec/filter"
	"github.com/rushteam/contentrec/pkg/logging"
	"github.com/rushteam/contentrec/recommend"
)

func newTestServer(t *testing.T, ready bool) *Server {
	t.Helper()
	return newTestServerWith(t, ready, Config{Addr: "127.0.0.1:0"})
}

func newTestServerWith(t *testing.T, ready bool, cfg Config, opts ...recommend.Option) *Server {
	t.Helper()
	src := corpus.NewTableSource([]string{"Title", "Genre", "Description", "Poster", "Year of release"},
		[]string{"A", "Romance", "lovers meet", "a.jpg", "2019"},
		[]string{"B", "Romance", "lovers meet again", "b.jpg", "2020"},
		[]string{"C", "Action", "explosions", "c.jpg", "2021"},
	)
	e, err := recommend.NewEngine(src, append([]recommend.Option{recommend.WithLogger(logging.Nop())}, opts...)...)
	require.NoError(t, err)
	if ready {
		_, err = e.Reload(context.Background(), "startup")
		require.NoError(t, err)
	}
	return New(e, cfg, logging.Nop())
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestRecommendations(t *testing.T) {
	s := newTestServer(t, true)

	rr := do(t, s, http.MethodGet, "/api/v1/recommendations?title=a&k=5")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp RecommendResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "B", resp.Results[0].Title)
	assert.Equal(t, "b.jpg", resp.Results[0].Poster)
	assert.Equal(t, "2020", resp.Results[0].Year)
	assert.Equal(t, "C", resp.Results[1].Title)
	assert.Equal(t, "all", resp.Category)

	rr = do(t, s, http.MethodGet, "/api/v1/recommendations?title=A&genre=Action")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "C", resp.Results[0].Title)
}

func TestRecommendations_ResolvedK(t *testing.T) {
	s := newTestServer(t, true)

	var resp RecommendResponse
	rr := do(t, s, http.MethodGet, "/api/v1/recommendations?title=A")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.K)

	rr = do(t, s, http.MethodGet, "/api/v1/recommendations?title=A&k=0")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.K)

	rr = do(t, s, http.MethodGet, "/api/v1/recommendations?title=A&k=1")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.K)
	assert.Len(t, resp.Results, 1)
}

func TestRecommendations_MaxK(t *testing.T) {
	s := newTestServerWith(t, true, Config{MaxK: 2})

	rr := do(t, s, http.MethodGet, "/api/v1/recommendations?title=A&k=2")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, s, http.MethodGet, "/api/v1/recommendations?title=A&k=3")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_INPUT", body.Error.Code)

	// 不配置上限时大 k 只受候选数约束
	s = newTestServerWith(t, true, Config{})
	rr = do(t, s, http.MethodGet, "/api/v1/recommendations?title=A&k=500")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp RecommendResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 500, resp.K)
	assert.Len(t, resp.Results, 2)
}

func TestRecommendations_Params(t *testing.T) {
	expr, err := filter.NewExprFilter(`!has(rctx.params.min_year) || item.year >= rctx.params.min_year`, false)
	require.NoError(t, err)
	s := newTestServerWith(t, true, Config{},
		recommend.WithNodes(&filter.FilterNode{Filters: []filter.Filter{expr}}))

	var resp RecommendResponse
	rr := do(t, s, http.MethodGet, "/api/v1/recommendations?title=A")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 2)

	rr = do(t, s, http.MethodGet, "/api/v1/recommendations?title=A&param.min_year=2021")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "C", resp.Results[0].Title)
}

func TestRequestParams(t *testing.T) {
	q := url.Values{"param.min_year": {"2010", "2020"}, "param.": {"x"}, "title": {"A"}}
	assert.Equal(t, map[string]any{"min_year": "2010"}, requestParams(q))
	assert.Nil(t, requestParams(url.Values{"k": {"3"}}))
}

func TestRecommendations_Errors(t *testing.T) {
	s := newTestServer(t, true)

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{name: "unknown title", target: "/api/v1/recommendations?title=Z", status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "missing title", target: "/api/v1/recommendations", status: http.StatusBadRequest, code: "INVALID_INPUT"},
		{name: "bad k", target: "/api/v1/recommendations?title=A&k=x", status: http.StatusBadRequest, code: "INVALID_INPUT"},
		{name: "negative k", target: "/api/v1/recommendations?title=A&k=-1", status: http.StatusBadRequest, code: "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, rr.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	s := newTestServer(t, true)
	rr := do(t, s, http.MethodGet, "/api/v1/recommendations?title=Z")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "no recommendation", body.Error.Message)
}

func TestNotReady(t *testing.T) {
	s := newTestServer(t, false)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/readyz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/v1/recommendations?title=A").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/v1/categories").Code)
}

func TestCategoriesAndTitles(t *testing.T) {
	s := newTestServer(t, true)

	rr := do(t, s, http.MethodGet, "/api/v1/categories")
	require.Equal(t, http.StatusOK, rr.Code)
	var cats struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cats))
	assert.Equal(t, []string{"Action", "Romance"}, cats.Categories)

	rr = do(t, s, http.MethodGet, "/api/v1/titles")
	require.Equal(t, http.StatusOK, rr.Code)
	var ts struct {
		Titles []string `json:"titles"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ts))
	assert.Equal(t, []string{"A", "B", "C"}, ts.Titles)
}

func TestReload(t *testing.T) {
	s := newTestServer(t, false)

	rr := do(t, s, http.MethodPost, "/api/v1/reload")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Generation GenerationDTO `json:"generation"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Generation.ID)
	assert.Equal(t, 3, body.Generation.Items)
	assert.Equal(t, "memory", body.Generation.Source)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/readyz").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/api/v1/reload").Code)
}

func TestRateLimit(t *testing.T) {
	src := corpus.NewTableSource([]string{"Title"}, []string{"A"})
	e, err := recommend.NewEngine(src, recommend.WithLogger(logging.Nop()))
	require.NoError(t, err)
	s := New(e, Config{RateLimit: 1}, logging.Nop())

	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/v1/categories").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, s, http.MethodGet, "/api/v1/categories").Code)
	// 健康检查不受限流影响
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz").Code)
}

func TestServe_Shutdown(t *testing.T) {
	s := newTestServer(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
