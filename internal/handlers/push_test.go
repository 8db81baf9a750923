package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pysugar/push-to-notion/internal/db/models"
	"github.com/pysugar/push-to-notion/internal/notion"
	"github.com/pysugar/push-to-notion/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func newPushHandler(t *testing.T, d *fakeDispatcher) http.HandlerFunc {
	t.Helper()
	store := testutil.NewStore(t)
	testutil.Seed(t, store, models.Account{ID: "acc-1", NotionAccessToken: models.Str("secret")})
	return PushHandler(store, d)
}

func TestPushHandler_Query(t *testing.T) {
	d := &fakeDispatcher{}
	h := newPushHandler(t, d)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/push?user=acc-1&text=buy+milk", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []dispatched{{accountID: "acc-1", text: "buy milk"}}, d.calls)
}

func TestPushHandler_JSON(t *testing.T) {
	d := &fakeDispatcher{}
	h := newPushHandler(t, d)

	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(`{"user":"acc-1","text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []dispatched{{accountID: "acc-1", text: "hi"}}, d.calls)
}

func TestPushHandler_PlainTextBody(t *testing.T) {
	d := &fakeDispatcher{}
	h := newPushHandler(t, d)

	req := httptest.NewRequest(http.MethodPost, "/push?user=acc-1", strings.NewReader("from the body"))
	req.Header.Set("Content-Type", "plain/text")
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []dispatched{{accountID: "acc-1", text: "from the body"}}, d.calls)
}

func TestPushHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		dispErr  error
		wantCode int
		wantBody string
	}{
		{"missing user", "/push?text=x", nil, http.StatusBadRequest, "expected parameter: user"},
		{"unknown user", "/push?user=nobody&text=x", nil, http.StatusNotFound, "Unknown user"},
		{"missing text", "/push?user=acc-1", nil, http.StatusBadRequest, "expected parameter: text"},
		{"ambiguous page", "/push?user=acc-1&text=x", &notion.DispatchError{Kind: notion.AmbiguousPage, Pages: 2}, http.StatusConflict, "More than one page is accessible, ignoring"},
		{"notion down", "/push?user=acc-1&text=x", errors.New("boom"), http.StatusInternalServerError, "Failed to push to Notion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newPushHandler(t, &fakeDispatcher{err: tt.dispErr})

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestPushHandler_QueryWithJSONHeaderAndNoBody(t *testing.T) {
	d := &fakeDispatcher{}
	h := newPushHandler(t, d)

	req := httptest.NewRequest(http.MethodGet, "/push?user=acc-1&text=hi", nil)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []dispatched{{accountID: "acc-1", text: "hi"}}, d.calls)
}
