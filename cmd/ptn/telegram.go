package main

import (
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pysugar/push-to-notion/internal/telegram"
	"github.com/spf13/cobra"
)

func telegramCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telegram",
		Short: "Manage the Telegram bot webhook",
	}
	cmd.AddCommand(setWebhookCmd())
	cmd.AddCommand(deleteWebhookCmd())
	return cmd
}

func setWebhookCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "set-webhook",
		Short: "Point the bot at this server's /telegram/webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if url == "" {
				url = cfg.Telegram.WebhookURL
			}
			if url == "" {
				return errors.New("webhook url required: pass --url or set TELEGRAM_WEBHOOK_URL")
			}

			api, err := botAPI(cfg.Telegram.BotToken)
			if err != nil {
				return err
			}
			if err := telegram.SetWebhook(api, url); err != nil {
				return err
			}
			slog.Info("telegram webhook set", "url", url)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "public webhook URL (defaults to TELEGRAM_WEBHOOK_URL)")
	return cmd
}

func deleteWebhookCmd() *cobra.Command {
	var dropPending bool
	cmd := &cobra.Command{
		Use:   "delete-webhook",
		Short: "Remove the bot's webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			api, err := botAPI(cfg.Telegram.BotToken)
			if err != nil {
				return err
			}
			if err := telegram.DeleteWebhook(api, dropPending); err != nil {
				return err
			}
			slog.Info("telegram webhook deleted", "dropped_pending", dropPending)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dropPending, "drop-pending", false, "discard updates queued while no webhook was set")
	return cmd
}

func botAPI(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, errors.New("missing required env var: TELEGRAM_BOT_TOKEN")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return api, nil
}
