package models

import "time"

// Account links one user's identities across Telegram, Slack and Notion.
// Nullable columns are pointers so that an unlinked identity is stored as NULL.
type Account struct {
	ID string `gorm:"primaryKey"` // UUID

	TelegramChatID   *string `gorm:"index:idx_accounts_telegram_chat"`
	TelegramUserID   *string
	TelegramUsername *string

	NotionWorkspaceID      *string
	NotionBotID            *string `gorm:"index:idx_accounts_notion_bot"`
	NotionOwnerID          *string
	NotionAccessToken      *string
	NotionRawOAuthResponse *string `gorm:"type:text"`

	SlackTeamID           *string `gorm:"index:idx_accounts_slack_team"`
	SlackTeamName         *string
	SlackUserID           *string
	SlackUsername         *string
	SlackUserAccessToken  *string
	SlackBotID            *string
	SlackBotAccessToken   *string
	SlackRawOAuthResponse *string `gorm:"type:text"`

	CreatedAt   time.Time `gorm:"column:created"`
	LastUpdated time.Time
	Expires     *time.Time // reserved for credential expiry, never set
}

// TableName pins the table name independent of gorm's pluralisation rules.
func (Account) TableName() string {
	return "accounts"
}

// Str returns a pointer to s, or nil when s is empty.
func Str(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
