package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/feldspar-labs/inkwell-backend/database"
	"github.com/feldspar-labs/inkwell-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "letmein"

func newTestRouter(t *testing.T) (http.Handler, *database.MemoryStore) {
	t.Helper()
	store := database.NewMemoryStore()
	authorize := func(secret string) bool { return secret == testSecret }
	return newRouter(store, authorize), store
}

func doJSON(t *testing.T, handler http.Handler, method, path, secret string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(AdminSecretHeader, secret)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func upsertBody(id, title, content string) map[string]any {
	return map[string]any{
		"id":      id,
		"title":   title,
		"content": content,
		"excerpt": "excerpt of " + id,
		"tags":    []string{"go", "blog"},
	}
}

func TestUpsertRequiresSecret(t *testing.T) {
	router, store := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/posts", "", upsertBody("p1", "Hello", "<p>Hi</p>"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/posts", "wrong-secret", upsertBody("p1", "Hello", "<p>Hi</p>"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No row was created or changed.
	summaries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestUpsertValidatesRequiredFields(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing id", upsertBody("", "Hello", "<p>Hi</p>"), "id"},
		{"missing title", upsertBody("p1", "", "<p>Hi</p>"), "title"},
		{"missing content", upsertBody("p1", "Hello", ""), "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/posts", testSecret, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.field, resp["field"])
		})
	}
}

func TestUpsertInsertThenOverwrite(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/posts", testSecret, upsertBody("p1", "Hello", "<p>Hi</p>"))
	require.Equal(t, http.StatusOK, rec.Code)

	var created models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "p1", created.ID)
	assert.Equal(t, "<p>Hi</p>", created.Content)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	time.Sleep(5 * time.Millisecond)

	rec = doJSON(t, router, http.MethodPost, "/posts", testSecret, upsertBody("p1", "Hello", "<p>Hi again</p>"))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "<p>Hi again</p>", updated.Content)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "createdAt must survive an overwrite")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updatedAt must move forward")
}

func TestUpsertDeduplicatesTags(t *testing.T) {
	router, _ := newTestRouter(t)

	body := upsertBody("p1", "Hello", "<p>Hi</p>")
	body["tags"] = []string{"go", "blog", "go", ""}

	rec := doJSON(t, router, http.MethodPost, "/posts", testSecret, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var created models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, []string{"go", "blog"}, []string(created.Tags))
}

func TestListOmitsContentGetIncludesIt(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/posts", testSecret, upsertBody("p1", "Hello", "<p>Hi</p>"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.NotContains(t, listed[0], "content")
	assert.Equal(t, "p1", listed[0]["id"])

	rec = doJSON(t, router, http.MethodGet, "/posts/p1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "<p>Hi</p>", fetched["content"])
}

func TestListOrdersNewestFirst(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, id := range []string{"p1", "p2", "p3"} {
		rec := doJSON(t, router, http.MethodPost, "/posts", testSecret, upsertBody(id, "Title "+id, "<p>Hi</p>"))
		require.Equal(t, http.StatusOK, rec.Code)
		time.Sleep(3 * time.Millisecond)
	}

	rec := doJSON(t, router, http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []models.PostSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 3)
	assert.Equal(t, "p3", listed[0].ID)
	assert.Equal(t, "p1", listed[2].ID)
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/posts/does-not-exist", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
}

func TestDelete(t *testing.T) {
	router, store := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/posts", testSecret, upsertBody("p1", "Hello", "<p>Hi</p>"))
	require.Equal(t, http.StatusOK, rec.Code)

	// Secret gating applies to delete too.
	rec = doJSON(t, router, http.MethodDelete, "/posts/p1", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Unknown id leaves the table unchanged.
	rec = doJSON(t, router, http.MethodDelete, "/posts/ghost", testSecret, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	summaries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, summaries, 1)

	rec = doJSON(t, router, http.MethodDelete, "/posts/p1", testSecret, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DeleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Deleted)
	assert.Equal(t, "p1", resp.ID)

	// Deletion is permanent.
	rec = doJSON(t, router, http.MethodGet, "/posts/p1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreflightAllowsAnyOriginAndSecretHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", "https://editor.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", AdminSecretHeader)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), AdminSecretHeader)
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
