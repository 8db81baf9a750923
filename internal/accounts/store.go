// Package accounts stores linked accounts and enforces the linking rules
// between Telegram chats, Slack teams and Notion integrations.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/pysugar/push-to-notion/internal/db/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no account matches a lookup.
var ErrNotFound = errors.New("account not found")

// Attribute names a secondary index of the account table.
type Attribute string

const (
	ByTelegramChat Attribute = "telegram_chat_id"
	ByNotionBot    Attribute = "notion_bot_id"
	BySlackTeam    Attribute = "slack_team_id"
)

func (a Attribute) valid() bool {
	switch a {
	case ByTelegramChat, ByNotionBot, BySlackTeam:
		return true
	}
	return false
}

// Store is the persistence contract used by the linker and the routers.
type Store interface {
	Get(ctx context.Context, id string) (*models.Account, error)
	// FindBy returns every account holding value in attr. Order is unspecified.
	FindBy(ctx context.Context, attr Attribute, value string) ([]models.Account, error)
	// First returns one match of FindBy, or ErrNotFound. Which one is returned
	// when several accounts match is unspecified.
	First(ctx context.Context, attr Attribute, value string) (*models.Account, error)
	Save(ctx context.Context, acc *models.Account) error
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by db. The schema must already be migrated.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.Account, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var acc models.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}
	return &acc, nil
}

func (s *GormStore) FindBy(ctx context.Context, attr Attribute, value string) ([]models.Account, error) {
	if !attr.valid() {
		return nil, fmt.Errorf("unknown account attribute %q", attr)
	}
	var accs []models.Account
	if err := s.db.WithContext(ctx).Where(string(attr)+" = ?", value).Find(&accs).Error; err != nil {
		return nil, fmt.Errorf("find accounts by %s: %w", attr, err)
	}
	return accs, nil
}

func (s *GormStore) First(ctx context.Context, attr Attribute, value string) (*models.Account, error) {
	accs, err := s.FindBy(ctx, attr, value)
	if err != nil {
		return nil, err
	}
	if len(accs) == 0 {
		return nil, ErrNotFound
	}
	return &accs[0], nil
}

func (s *GormStore) Save(ctx context.Context, acc *models.Account) error {
	if acc.ID == "" {
		return errors.New("save account: empty id")
	}
	if err := s.db.WithContext(ctx).Save(acc).Error; err != nil {
		return fmt.Errorf("save account %s: %w", acc.ID, err)
	}
	return nil
}
