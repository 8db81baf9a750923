package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/pysugar/push-to-notion/internal/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLinker(t *testing.T) (*Linker, *GormStore) {
	t.Helper()
	store := newTestStore(t)
	linker := NewLinker(store)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	linker.now = func() time.Time { return fixed }
	return linker, store
}

func seed(t *testing.T, store *GormStore, accs ...models.Account) {
	t.Helper()
	for i := range accs {
		require.NoError(t, store.Save(context.Background(), &accs[i]))
	}
}

func TestLinkTelegram_EvictsPreviousHolder(t *testing.T) {
	ctx := context.Background()
	linker, store := newTestLinker(t)
	seed(t, store, models.Account{ID: "a1"}, models.Account{ID: "a2"})

	ident := TelegramIdentity{ChatID: "555", UserID: "7", Username: "alice"}

	_, err := linker.LinkTelegram(ctx, "a1", ident)
	require.NoError(t, err)
	_, err = linker.LinkTelegram(ctx, "a2", ident)
	require.NoError(t, err)

	a1, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, a1.TelegramChatID)

	a2, err := store.Get(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, "555", models.Deref(a2.TelegramChatID))
	assert.Equal(t, "7", models.Deref(a2.TelegramUserID))
	assert.Equal(t, "alice", models.Deref(a2.TelegramUsername))

	holders, err := store.FindBy(ctx, ByTelegramChat, "555")
	require.NoError(t, err)
	require.Len(t, holders, 1)
	assert.Equal(t, "a2", holders[0].ID)
}

func TestLinkTelegram_SameAccountIsIdempotent(t *testing.T) {
	ctx := context.Background()
	linker, store := newTestLinker(t)
	seed(t, store,
		models.Account{ID: "a1"},
		models.Account{ID: "other", TelegramChatID: models.Str("999")},
	)

	ident := TelegramIdentity{ChatID: "555", UserID: "7", Username: "alice"}
	_, err := linker.LinkTelegram(ctx, "a1", ident)
	require.NoError(t, err)
	_, err = linker.LinkTelegram(ctx, "a1", ident)
	require.NoError(t, err)

	a1, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "555", models.Deref(a1.TelegramChatID))

	other, err := store.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "999", models.Deref(other.TelegramChatID))
}

func TestLinkTelegram_UnknownAccountLeavesHolderAlone(t *testing.T) {
	ctx := context.Background()
	linker, store := newTestLinker(t)
	seed(t, store, models.Account{ID: "a1", TelegramChatID: models.Str("555")})

	_, err := linker.LinkTelegram(ctx, "missing", TelegramIdentity{ChatID: "555"})
	assert.ErrorIs(t, err, ErrNotFound)

	a1, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "555", models.Deref(a1.TelegramChatID))
}

func TestConnectNotion_CreatesThenRefreshes(t *testing.T) {
	ctx := context.Background()
	linker, store := newTestLinker(t)

	acc, created, err := linker.ConnectNotion(ctx, NotionGrant{
		WorkspaceID: "ws-1", BotID: "bot-1", OwnerID: "owner-1", AccessToken: "tok-1", Raw: `{"bot_id":"bot-1"}`,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "tok-1", models.Deref(acc.NotionAccessToken))
	assert.Nil(t, acc.Expires)
	assert.False(t, acc.CreatedAt.IsZero())
	firstID := acc.ID

	acc, created, err = linker.ConnectNotion(ctx, NotionGrant{
		WorkspaceID: "ws-1", BotID: "bot-1", OwnerID: "owner-1", AccessToken: "tok-2",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, firstID, acc.ID)

	all, err := store.FindBy(ctx, ByNotionBot, "bot-1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "tok-2", models.Deref(all[0].NotionAccessToken))
}

func TestConnectNotion_DistinctBotsGetDistinctAccounts(t *testing.T) {
	ctx := context.Background()
	linker, _ := newTestLinker(t)

	a, _, err := linker.ConnectNotion(ctx, NotionGrant{BotID: "bot-a", AccessToken: "x"})
	require.NoError(t, err)
	b, _, err := linker.ConnectNotion(ctx, NotionGrant{BotID: "bot-b", AccessToken: "y"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestConnectSlack(t *testing.T) {
	ctx := context.Background()
	linker, store := newTestLinker(t)
	seed(t, store, models.Account{ID: "a1", NotionBotID: models.Str("bot")})

	_, err := linker.ConnectSlack(ctx, "a1", SlackGrant{
		TeamID: "T1", TeamName: "Acme", BotID: "B1", BotAccessToken: "xoxb", UserID: "U1",
	})
	require.NoError(t, err)

	got, err := store.First(ctx, BySlackTeam, "T1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "U1", models.Deref(got.SlackUserID))
	assert.Nil(t, got.SlackUserAccessToken)
	assert.Equal(t, "bot", models.Deref(got.NotionBotID))
}

func TestConnectSlack_UnknownAccount(t *testing.T) {
	linker, _ := newTestLinker(t)

	_, err := linker.ConnectSlack(context.Background(), "missing", SlackGrant{TeamID: "T1"})
	assert.ErrorIs(t, err, ErrNotFound)
}
