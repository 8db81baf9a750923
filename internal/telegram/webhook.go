package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Requester performs raw Bot API calls; *tgbotapi.BotAPI satisfies it.
type Requester interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SetWebhook points the bot's updates at url.
func SetWebhook(api Requester, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("setWebhook: %w", err)
	}
	return nil
}

// DeleteWebhook stops webhook delivery for the bot.
func DeleteWebhook(api Requester, dropPending bool) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: dropPending}); err != nil {
		return fmt.Errorf("deleteWebhook: %w", err)
	}
	return nil
}
