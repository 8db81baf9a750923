// Package telegram routes Telegram bot updates: /start links a chat to an
// account, plain text is pushed to the account's Notion page.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pysugar/push-to-notion/internal/accounts"
	"github.com/pysugar/push-to-notion/internal/db/models"
	"github.com/pysugar/push-to-notion/internal/logging"
	"github.com/pysugar/push-to-notion/internal/notion"
)

const (
	replyLinked        = "Telegram linked successfully"
	replyUnknownID     = "Unknown Notion workspace id"
	replyNotUnderstood = `¯\_(ツ)_/¯`
)

// Sender delivers bot messages; *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Dispatcher pushes text to an account's Notion page.
type Dispatcher interface {
	Dispatch(ctx context.Context, acc *models.Account, text string) error
}

// Bot handles one update at a time and keeps no state between updates.
type Bot struct {
	sender     Sender
	store      accounts.Store
	linker     *accounts.Linker
	dispatcher Dispatcher
	connectURL string
}

// NewBot wires a bot. connectURL is where users start the Notion authorization.
func NewBot(sender Sender, store accounts.Store, linker *accounts.Linker, dispatcher Dispatcher, connectURL string) *Bot {
	return &Bot{
		sender:     sender,
		store:      store,
		linker:     linker,
		dispatcher: dispatcher,
		connectURL: connectURL,
	}
}

// HandleUpdate processes a single update. User-facing problems are answered
// in the chat; the returned error is for failures the user cannot fix.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) error {
	msg := upd.Message
	if msg == nil || msg.Text == "" || msg.Chat == nil {
		return nil
	}
	if strings.HasPrefix(msg.Text, "/") {
		return b.handleCommand(ctx, msg)
	}
	return b.handlePush(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	name, arg := splitCommand(msg.Text)
	if name != "/start" {
		return b.reply(msg, replyNotUnderstood)
	}
	if arg == "" {
		return b.offerToConnect(msg)
	}

	_, err := b.linker.LinkTelegram(ctx, arg, identityOf(msg))
	switch {
	case errors.Is(err, accounts.ErrNotFound):
		return b.reply(msg, replyUnknownID)
	case err != nil:
		return fmt.Errorf("link telegram chat %d: %w", msg.Chat.ID, err)
	}
	return b.reply(msg, replyLinked)
}

func (b *Bot) handlePush(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	acc, err := b.store.First(ctx, accounts.ByTelegramChat, chatID)
	if errors.Is(err, accounts.ErrNotFound) {
		return b.offerToConnect(msg)
	}
	if err != nil {
		return err
	}

	err = b.dispatcher.Dispatch(ctx, acc, msg.Text)
	var de *notion.DispatchError
	if errors.As(err, &de) {
		logging.FromContext(ctx).Warn("telegram push rejected", "account_id", acc.ID, "reason", de.Error())
		return b.reply(msg, de.Error())
	}
	return err
}

func (b *Bot) offerToConnect(msg *tgbotapi.Message) error {
	return b.reply(msg, "Authorize notion first: "+b.connectURL)
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) error {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.sender.Send(out); err != nil {
		return fmt.Errorf("telegram reply to chat %d: %w", msg.Chat.ID, err)
	}
	return nil
}

// splitCommand splits "/start@bot arg" into ("/start", "arg").
func splitCommand(text string) (name, arg string) {
	name, arg, _ = strings.Cut(text, " ")
	name, _, _ = strings.Cut(name, "@")
	return name, strings.TrimSpace(arg)
}

func identityOf(msg *tgbotapi.Message) accounts.TelegramIdentity {
	ident := accounts.TelegramIdentity{ChatID: strconv.FormatInt(msg.Chat.ID, 10)}
	if msg.From != nil {
		ident.UserID = strconv.FormatInt(msg.From.ID, 10)
		ident.Username = msg.From.UserName
	}
	return ident
}
