package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pysugar/push-to-notion/internal/accounts"
	"github.com/pysugar/push-to-notion/internal/handlers"
	"github.com/pysugar/push-to-notion/internal/middleware"
)

// routes are the HTTP entry points; the OAuth handlers are built by the caller
// because they need live platform credentials.
type routes struct {
	store      accounts.Store
	dispatcher handlers.Dispatcher
	bot        handlers.UpdateHandler

	slackVerificationToken string

	notionLogin, notionCallback http.HandlerFunc
	slackLogin, slackCallback   http.HandlerFunc
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handlers.HealthHandler())

	// Inbound messages
	r.Post("/telegram/webhook", handlers.TelegramWebhookHandler(rt.bot))
	r.Post("/slack/events", handlers.SlackEventsHandler(rt.slackVerificationToken, rt.store, rt.dispatcher))

	push := handlers.PushHandler(rt.store, rt.dispatcher)
	r.Get("/push", push)
	r.Post("/push", push)

	// OAuth flows
	r.Route("/auth", func(r chi.Router) {
		r.Get("/notion/login", rt.notionLogin)
		r.Get("/notion/callback", rt.notionCallback)
		r.Get("/slack/login", rt.slackLogin)
		r.Get("/slack/callback", rt.slackCallback)
	})

	return r
}
