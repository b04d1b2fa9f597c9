package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakWdo/envfilter/internal/engine"
	"github.com/JakWdo/envfilter/internal/store"
	"github.com/JakWdo/envfilter/internal/testutil"
)

func newTestHandler(t *testing.T, s *store.MemoryStore) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	srv := New("127.0.0.1:0", logger,
		&EnvironmentController{Executor: engine.New(s, engine.Options{}), Logger: logger},
		&FiltersController{Store: s, Logger: logger},
	)
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type filterResponse struct {
	ResourceIDs []string `json:"resource_ids"`
	NextCursor  *string  `json:"next_cursor"`
	Count       int      `json:"count"`
}

func TestFilterEndpoint(t *testing.T) {
	h := newTestHandler(t, testutil.SeededStore(t))

	rec := doJSON(t, h, http.MethodPost, "/environments/"+testutil.Env+"/filter",
		`{"dsl": "dem:age-25-34 AND (geo:warsaw OR geo:krakow)", "resource_type": "persona"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res filterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, []string{"p-001", "p-002"}, res.ResourceIDs)
	require.Equal(t, 2, res.Count)
	require.Nil(t, res.NextCursor)
}

func TestFilterEndpointEmptyDSL(t *testing.T) {
	h := newTestHandler(t, testutil.SeededStore(t))

	rec := doJSON(t, h, http.MethodPost, "/environments/"+testutil.Env+"/filter",
		`{"dsl": "", "resource_type": "persona"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res filterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Empty(t, res.ResourceIDs)
	require.Equal(t, 0, res.Count)
	require.Nil(t, res.NextCursor)
	// The contract says resource_ids is [], never null
	require.Contains(t, rec.Body.String(), `"resource_ids":[]`)
	require.Contains(t, rec.Body.String(), `"next_cursor":null`)
}

func TestFilterEndpointErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"syntax error", `{"dsl": "dem:age-25-34 AND", "resource_type": "persona"}`, http.StatusBadRequest},
		{"unknown resource type", `{"dsl": "geo:warsaw", "resource_type": "widget"}`, http.StatusBadRequest},
		{"bad cursor", `{"dsl": "geo:warsaw", "resource_type": "persona", "cursor": "???"}`, http.StatusBadRequest},
		{"malformed body", `{not json`, http.StatusBadRequest},
	}

	h := newTestHandler(t, testutil.SeededStore(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/environments/"+testutil.Env+"/filter", tt.body)
			require.Equal(t, tt.want, rec.Code)
			require.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestFilterEndpointStoreFailure(t *testing.T) {
	s := testutil.SeededStore(t)
	s.FailResources = errors.New("resource store unavailable")
	h := newTestHandler(t, s)

	rec := doJSON(t, h, http.MethodPost, "/environments/"+testutil.Env+"/filter",
		`{"dsl": "geo:warsaw", "resource_type": "persona"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFilterEndpointPagination(t *testing.T) {
	s := store.NewMemoryStore()
	for _, id := range []string{"p-01", "p-02", "p-03"} {
		testutil.SeedPersona(t, s, id, "geo:warsaw")
	}
	h := newTestHandler(t, s)

	rec := doJSON(t, h, http.MethodPost, "/environments/"+testutil.Env+"/filter",
		`{"dsl": "geo:warsaw", "resource_type": "persona", "limit": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var first filterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.Equal(t, []string{"p-01", "p-02"}, first.ResourceIDs)
	require.Equal(t, 3, first.Count)
	require.NotNil(t, first.NextCursor)

	body, err := json.Marshal(map[string]any{
		"dsl": "geo:warsaw", "resource_type": "persona", "limit": 2, "cursor": *first.NextCursor,
	})
	require.NoError(t, err)
	rec = doJSON(t, h, http.MethodPost, "/environments/"+testutil.Env+"/filter", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var second filterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	require.Equal(t, []string{"p-03"}, second.ResourceIDs)
	require.Equal(t, 3, second.Count)
	require.Nil(t, second.NextCursor)
}

func TestSavedFilterLifecycle(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())

	rec := doJSON(t, h, http.MethodPost, "/environments/filters",
		`{"environment_id": "env-1", "name": "warsaw millennials", "dsl": "dem:age-25-34 AND geo:warsaw", "created_by": "u-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created store.SavedFilter
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "warsaw millennials", created.Name)
	require.False(t, created.CreatedAt.IsZero())

	rec = doJSON(t, h, http.MethodGet, "/environments/filters?environment_id=env-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []store.SavedFilter
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, created.ID, list[0].ID)

	rec = doJSON(t, h, http.MethodGet, "/environments/filters/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/environments/filters/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSavedFilterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing environment", `{"name": "n", "dsl": "a:1"}`},
		{"missing name", `{"environment_id": "env-1", "dsl": "a:1"}`},
		{"invalid dsl", `{"environment_id": "env-1", "name": "n", "dsl": "a:1 AND"}`},
		{"empty dsl", `{"environment_id": "env-1", "name": "n", "dsl": ""}`},
	}

	h := newTestHandler(t, store.NewMemoryStore())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/environments/filters", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSavedFilterListRequiresEnvironment(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())
	rec := doJSON(t, h, http.MethodGet, "/environments/filters", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSavedFilterListEmpty(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())
	rec := doJSON(t, h, http.MethodGet, "/environments/filters?environment_id=env-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())
}
