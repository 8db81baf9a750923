package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pysugar/push-to-notion/internal/accounts"
	notionauth "github.com/pysugar/push-to-notion/internal/auth/notion"
	slackauth "github.com/pysugar/push-to-notion/internal/auth/slack"
	"github.com/pysugar/push-to-notion/internal/db"
	"github.com/pysugar/push-to-notion/internal/notion"
	"github.com/pysugar/push-to-notion/internal/telegram"
	"github.com/pysugar/push-to-notion/internal/version"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	database, err := db.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	store := accounts.NewGormStore(database)
	linker := accounts.NewLinker(store)
	dispatcher := notion.NewDispatcher(notion.NewClient(cfg.Notion.APIURL))

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return fmt.Errorf("telegram bot: %w", err)
	}
	slog.Info("telegram bot authorized", "username", botAPI.Self.UserName)

	notionConf := notionauth.GetOAuthConfig(cfg.Notion)
	slackOAuth := slackauth.NewOAuth(cfg.Slack, nil)

	handler := newRouter(routes{
		store:                  store,
		dispatcher:             dispatcher,
		bot:                    telegram.NewBot(botAPI, store, linker, dispatcher, cfg.PublicURL),
		slackVerificationToken: cfg.Slack.VerificationToken,
		notionLogin:            notionauth.HandleLogin(notionConf, cfg.PublicURL),
		notionCallback:         notionauth.HandleCallback(notionConf, linker),
		slackLogin:             slackauth.HandleLogin(slackOAuth, cfg.PublicURL),
		slackCallback:          slackauth.HandleCallback(slackOAuth, linker),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("push-to-notion starting", "addr", "http://"+cfg.Addr(), "version", version.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
