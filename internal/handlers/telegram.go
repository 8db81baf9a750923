package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pysugar/push-to-notion/internal/logging"
)

// UpdateHandler processes a decoded Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd tgbotapi.Update) error
}

// TelegramWebhookHandler accepts Bot API updates. It always answers 200 {}:
// problems are reported to the user in the chat or in the log, never through
// the status code, so Telegram does not redeliver.
func TelegramWebhookHandler(bot UpdateHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logging.FromContext(ctx)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.Warn("telegram webhook: read body failed", "error", err)
			writeJSON(w, http.StatusOK, struct{}{})
			return
		}
		log.Info("telegram update", "body", logging.Body(body))

		var upd tgbotapi.Update
		if err := json.Unmarshal(body, &upd); err != nil {
			log.Warn("telegram webhook: invalid update", "error", err)
		} else if err := bot.HandleUpdate(ctx, upd); err != nil {
			log.Error("telegram webhook: update failed", "update_id", upd.UpdateID, "error", err)
		}

		writeJSON(w, http.StatusOK, struct{}{})
	}
}
