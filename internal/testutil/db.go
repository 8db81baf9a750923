// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pysugar/push-to-notion/internal/accounts"
	"github.com/pysugar/push-to-notion/internal/db"
	"github.com/pysugar/push-to-notion/internal/db/models"
	"gorm.io/gorm"
)

// NewStore returns an account store over a private in-memory database.
func NewStore(t *testing.T) *accounts.GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return accounts.NewGormStore(database)
}

// Seed saves accs into store.
func Seed(t *testing.T, store accounts.Store, accs ...models.Account) {
	t.Helper()
	for i := range accs {
		if err := store.Save(context.Background(), &accs[i]); err != nil {
			t.Fatalf("seed account %s: %v", accs[i].ID, err)
		}
	}
}
