package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pysugar/push-to-notion/internal/db/models"
	"github.com/pysugar/push-to-notion/internal/logging"
)

// TelegramIdentity is the chat a /start command was sent from.
type TelegramIdentity struct {
	ChatID   string
	UserID   string
	Username string
}

// NotionGrant is the result of a completed Notion OAuth exchange.
type NotionGrant struct {
	WorkspaceID string
	BotID       string
	OwnerID     string
	AccessToken string
	Raw         string
}

// SlackGrant is the result of a completed Slack OAuth exchange.
type SlackGrant struct {
	TeamID          string
	TeamName        string
	BotID           string
	BotAccessToken  string
	UserID          string
	UserAccessToken string
	Raw             string
}

// Linker mutates account link state. It holds no locks: two concurrent
// LinkTelegram calls for the same chat can both observe no prior holder.
type Linker struct {
	store Store
	now   func() time.Time
}

// NewLinker creates a linker over store.
func NewLinker(store Store) *Linker {
	return &Linker{store: store, now: time.Now}
}

// LinkTelegram attaches a Telegram chat to accountID, first clearing the chat
// from any other account that holds it. Returns ErrNotFound for an unknown id.
func (l *Linker) LinkTelegram(ctx context.Context, accountID string, ident TelegramIdentity) (*models.Account, error) {
	log := logging.FromContext(ctx)

	target, err := l.store.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holders, err := l.store.FindBy(ctx, ByTelegramChat, ident.ChatID)
	if err != nil {
		return nil, err
	}
	for i := range holders {
		prev := &holders[i]
		if prev.ID == target.ID {
			continue
		}
		prev.TelegramChatID = nil
		prev.LastUpdated = l.now()
		if err := l.store.Save(ctx, prev); err != nil {
			return nil, fmt.Errorf("unlink previous holder: %w", err)
		}
		log.Info("unlinked telegram chat", "account_id", prev.ID, "chat_id", ident.ChatID)
	}

	target.TelegramChatID = models.Str(ident.ChatID)
	target.TelegramUserID = models.Str(ident.UserID)
	target.TelegramUsername = models.Str(ident.Username)
	target.LastUpdated = l.now()
	if err := l.store.Save(ctx, target); err != nil {
		return nil, err
	}
	log.Info("linked telegram chat", "account_id", target.ID, "chat_id", ident.ChatID, "username", ident.Username)
	return target, nil
}

// ConnectNotion refreshes the account owning grant.BotID, or creates a new
// account with a fresh id if no account has seen that bot yet.
func (l *Linker) ConnectNotion(ctx context.Context, grant NotionGrant) (acc *models.Account, created bool, err error) {
	log := logging.FromContext(ctx)

	acc, err = l.store.First(ctx, ByNotionBot, grant.BotID)
	switch {
	case errors.Is(err, ErrNotFound):
		now := l.now()
		acc = &models.Account{
			ID:          uuid.New().String(),
			NotionBotID: models.Str(grant.BotID),
			CreatedAt:   now,
		}
		created = true
	case err != nil:
		return nil, false, err
	}

	acc.NotionWorkspaceID = models.Str(grant.WorkspaceID)
	acc.NotionOwnerID = models.Str(grant.OwnerID)
	acc.NotionAccessToken = models.Str(grant.AccessToken)
	acc.NotionRawOAuthResponse = models.Str(grant.Raw)
	acc.LastUpdated = l.now()
	if err := l.store.Save(ctx, acc); err != nil {
		return nil, false, err
	}

	if created {
		log.Info("connected new notion account", "account_id", acc.ID)
	} else {
		log.Info("refreshed notion token", "account_id", acc.ID)
	}
	return acc, created, nil
}

// ConnectSlack attaches a Slack installation to an existing account.
func (l *Linker) ConnectSlack(ctx context.Context, accountID string, grant SlackGrant) (*models.Account, error) {
	acc, err := l.store.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	acc.SlackTeamID = models.Str(grant.TeamID)
	acc.SlackTeamName = models.Str(grant.TeamName)
	acc.SlackBotID = models.Str(grant.BotID)
	acc.SlackBotAccessToken = models.Str(grant.BotAccessToken)
	acc.SlackUserID = models.Str(grant.UserID)
	acc.SlackUserAccessToken = models.Str(grant.UserAccessToken)
	acc.SlackRawOAuthResponse = models.Str(grant.Raw)
	acc.LastUpdated = l.now()
	if err := l.store.Save(ctx, acc); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("refreshed slack token", "account_id", acc.ID, "team_id", grant.TeamID)
	return acc, nil
}
