package notify_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zigsniper/internal/adapters/notify"
	"zigsniper/internal/domain"
)

func makeToken(symbol string) domain.TokenInfo {
	return domain.TokenInfo{
		Denom:   "coin.zig1creator." + symbol,
		Creator: "zig1creatorcreatorcreatorcreator",
		Name:    symbol,
		Symbol:  symbol,
	}
}

func TestReportNewToken(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	n.ReportNewToken(context.Background(), makeToken("PEPE"))

	out := buf.String()
	assert.Contains(t, out, "NEW TOKEN")
	assert.Contains(t, out, "PEPE")
	assert.Contains(t, out, "coin.zig1creator.PEPE")
}

func TestReportGraduation(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	pool := domain.PoolInfo{PoolID: "pool-7"}
	n.ReportGraduation(context.Background(), makeToken("DOGE"), pool)

	out := buf.String()
	assert.Contains(t, out, "GRADUATED")
	assert.Contains(t, out, "DOGE")
	assert.Contains(t, out, "pool-7")
}

func TestReportExecutionResult(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	n.ReportExecutionResult(context.Background(), 42, domain.ExecutionResult{
		Success:     true,
		TxHash:      "ABC123",
		TokenDenom:  "coin.zig1creator.PEPE",
		AmountSpent: "1000000",
	})
	n.ReportExecutionResult(context.Background(), 42, domain.ExecutionResult{
		Success:    false,
		Err:        "insufficient balance",
		TokenDenom: "coin.zig1creator.DOGE",
	})

	out := buf.String()
	assert.Contains(t, out, "SNIPE OK")
	assert.Contains(t, out, "ABC123")
	assert.Contains(t, out, "1.000000 ZIG")
	assert.Contains(t, out, "SNIPE FAILED")
	assert.Contains(t, out, "insufficient balance")
}

func TestShortIDs_StableAndResolvable(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)
	ctx := context.Background()

	tok := makeToken("PEPE")
	n.ReportNewToken(ctx, tok)
	n.ReportGraduation(ctx, tok, domain.PoolInfo{PoolID: "pool-1"})

	// same token keeps the same short ID across reports
	out := buf.String()
	assert.Contains(t, out, "NEW TOKEN #t1")
	assert.Contains(t, out, "GRADUATED #t1")

	denom, ok := n.ResolveID("t1")
	require.True(t, ok)
	assert.Equal(t, tok.Denom, denom)

	_, ok = n.ResolveID("t999")
	assert.False(t, ok)
}

func TestShortIDs_OldestEvicted(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)
	ctx := context.Background()

	for i := 0; i < 1001; i++ {
		n.ReportNewToken(ctx, makeToken(fmt.Sprintf("TOK%d", i)))
	}

	_, ok := n.ResolveID("t1")
	assert.False(t, ok, "oldest mapping should be evicted at capacity")

	denom, ok := n.ResolveID("t1001")
	require.True(t, ok)
	assert.Equal(t, "coin.zig1creator.TOK1000", denom)
}

func TestShowRecentTokens(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	n.ShowRecentTokens([]domain.TrackedToken{
		{Denom: "coin.zig1creator.PEPE", Symbol: "PEPE", Name: "pepe", BondingStatus: "active", FirstSeenAt: time.Now()},
		{Denom: "coin.zig1creator.DOGE", Symbol: "DOGE", Name: "doge", Graduated: true, PoolID: "pool-1", FirstSeenAt: time.Now()},
	})

	out := buf.String()
	assert.Contains(t, out, "PEPE")
	assert.Contains(t, out, "graduated")
	assert.Contains(t, out, "pool-1")
}

func TestShowHoldings(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	n.ShowHoldings(42, []domain.TokenHolding{
		{TokenDenom: "coin.zig1creator.PEPE", TokenSymbol: "PEPE", TotalBought: "2000000", TotalSold: "500000", Balance: "1500000"},
	})

	out := buf.String()
	assert.Contains(t, out, "PEPE")
	assert.Contains(t, out, "1500000")

	buf.Reset()
	n.ShowHoldings(7, nil)
	assert.Contains(t, buf.String(), "holds no tokens")
}
