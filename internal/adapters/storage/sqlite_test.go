package storage_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zigsniper/internal/adapters/storage"
	"zigsniper/internal/crypt"
	"zigsniper/internal/domain"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	cipher, err := crypt.New(testKey)
	require.NoError(t, err)
	s, err := storage.NewSQLiteStorage(":memory:", cipher)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUsers_CreateAndSettings(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, 42, "alice"))
	// creating twice is a no-op
	require.NoError(t, s.Users.Create(ctx, 42, "alice"))

	u, err := s.Users.FindByID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.AutoSnipe)
	assert.Zero(t, u.ActiveWalletID)

	st, err := s.Users.GetSnipeSettings(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "1000000", st.BuyAmountUzig)
	assert.False(t, st.AutoBuyNewTokens)

	st.AutoBuyNewTokens = true
	st.BuyAmountUzig = "2500000"
	require.NoError(t, s.Users.UpdateSnipeSettings(ctx, *st))

	st, err = s.Users.GetSnipeSettings(ctx, 42)
	require.NoError(t, err)
	assert.True(t, st.AutoBuyNewTokens)
	assert.Equal(t, "2500000", st.BuyAmountUzig)
}

func TestUsers_UnknownIsNil(t *testing.T) {
	s := newTestStorage(t)

	u, err := s.Users.FindByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, u)

	st, err := s.Users.GetSnipeSettings(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestGetAutoSnipeUsers_RequiresActiveWallet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, 1, "with-wallet"))
	require.NoError(t, s.Users.Create(ctx, 2, "without-wallet"))

	id, err := s.Wallets.Create(ctx, 1, "main", "zig1abc", "sniper-key-1")
	require.NoError(t, err)
	require.NoError(t, s.Users.SetActiveWallet(ctx, 1, id))

	users, err := s.Users.GetAutoSnipeUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.EqualValues(t, 1, users[0].TelegramID)
	assert.Equal(t, id, users[0].ActiveWalletID)
}

func TestWallets_SecretRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	id, err := s.Wallets.Create(ctx, 7, "main", "zig1walletaddr", "sniper-key-7")
	require.NoError(t, err)

	w, err := s.Wallets.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, "zig1walletaddr", w.Address)
	assert.Equal(t, "sniper-key-7", w.Secret)

	// listing does not expose secrets
	wallets, err := s.Wallets.ByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Empty(t, wallets[0].Secret)
}

func TestWallets_UnknownIsNil(t *testing.T) {
	s := newTestStorage(t)

	w, err := s.Wallets.FindByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestTokens_CreateAndGraduate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	token := domain.TokenInfo{
		Denom:   "coin.zig1creator.pepe",
		Creator: "zig1creator",
		Name:    "pepe",
		Symbol:  "PEPE",
	}
	require.NoError(t, s.Tokens.Create(ctx, token))
	require.NoError(t, s.Tokens.Create(ctx, token)) // idempotent

	tok, err := s.Tokens.FindByDenom(ctx, token.Denom)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "active", tok.BondingStatus)
	assert.False(t, tok.Graduated)
	assert.Nil(t, tok.GraduatedAt)

	require.NoError(t, s.Tokens.MarkGraduated(ctx, token.Denom, "pool-1"))

	tok, err = s.Tokens.FindByDenom(ctx, token.Denom)
	require.NoError(t, err)
	assert.True(t, tok.Graduated)
	assert.Equal(t, "pool-1", tok.PoolID)
	assert.Equal(t, "graduated", tok.BondingStatus)
	assert.NotNil(t, tok.GraduatedAt)

	recent, err := s.Tokens.GetRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestTransactions_SaveAndHoldings(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	buy := domain.Transaction{
		ID:            uuid.New().String(),
		TelegramID:    42,
		WalletAddress: "zig1walletaddr",
		TxHash:        "ABC123",
		TokenDenom:    "coin.zig1creator.pepe",
		TokenSymbol:   "PEPE",
		Action:        domain.ActionBuy,
		Amount:        "1000000",
		Status:        domain.TxSuccess,
	}
	require.NoError(t, s.Transactions.Save(ctx, buy))

	failed := buy
	failed.ID = uuid.New().String()
	failed.TxHash = ""
	failed.Status = domain.TxFailed
	require.NoError(t, s.Transactions.Save(ctx, failed))

	txs, err := s.Transactions.FindByUser(ctx, 42, 20)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	// failed buys do not count towards holdings
	holdings, err := s.Transactions.GetHoldings(ctx, 42)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "1000000", holdings[0].TotalBought)
	assert.Equal(t, "1000000", holdings[0].Balance)
}
