package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pysugar/push-to-notion/internal/db/models"
	"github.com/pysugar/push-to-notion/internal/testutil"
	"github.com/stretchr/testify/assert"
)

type nopBot struct{}

func (nopBot) HandleUpdate(context.Context, tgbotapi.Update) error { return nil }

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(context.Context, *models.Account, string) error { return nil }

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	teapot := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }
	store := testutil.NewStore(t)
	testutil.Seed(t, store, models.Account{ID: "acc-1"})
	return newRouter(routes{
		store:                  store,
		dispatcher:             nopDispatcher{},
		bot:                    nopBot{},
		slackVerificationToken: "tok",
		notionLogin:            teapot,
		notionCallback:         teapot,
		slackLogin:             teapot,
		slackCallback:          teapot,
	})
}

func TestRouter(t *testing.T) {
	h := testRouter(t)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{"GET", "/healthz", "", http.StatusOK},
		{"POST", "/telegram/webhook", "{}", http.StatusOK},
		{"POST", "/slack/events", `{"token":"tok","type":"url_verification","challenge":"c"}`, http.StatusOK},
		{"GET", "/push?user=acc-1&text=hi", "", http.StatusCreated},
		{"POST", "/push?user=acc-1&text=hi", "", http.StatusCreated},
		{"GET", "/auth/notion/login", "", http.StatusTeapot},
		{"GET", "/auth/notion/callback", "", http.StatusTeapot},
		{"GET", "/auth/slack/login", "", http.StatusTeapot},
		{"GET", "/auth/slack/callback", "", http.StatusTeapot},
		{"GET", "/telegram/webhook", "", http.StatusMethodNotAllowed},
		{"GET", "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}
