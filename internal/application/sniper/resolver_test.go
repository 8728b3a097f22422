package sniper_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zigsniper/internal/application/sniper"
	"zigsniper/internal/domain"
	"zigsniper/internal/ports"
)

const (
	curveAddr  = "zig1curvecurvecurvecurvecurvecurvecurvecurve"
	pairAddr   = "zig1pairpairpairpairpairpairpairpairpairpair"
	tokenDenom = "coin." + curveAddr + ".pepe"
)

type curveCall struct {
	contract string
	denom    string
	amount   string
}

type swapCall struct {
	pair      string
	offer     string
	amount    string
	ask       string
	maxSpread string
}

// fakeTx scripts submit outcomes and records every call.
type fakeTx struct {
	mu         sync.Mutex
	curveRes   ports.TxResult
	curveErr   error
	swapRes    ports.TxResult
	swapErr    error
	curveCalls []curveCall
	swapCalls  []swapCall

	// blockCurve, when non-nil, parks curve submissions until closed.
	blockCurve chan struct{}
}

func (f *fakeTx) SubmitBondingCurveBuy(_ context.Context, _, contract, denom, amount string) (ports.TxResult, error) {
	f.mu.Lock()
	f.curveCalls = append(f.curveCalls, curveCall{contract, denom, amount})
	block := f.blockCurve
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.curveRes, f.curveErr
}

func (f *fakeTx) SubmitDexSwap(_ context.Context, _, pair, offer, amount, ask, maxSpread string) (ports.TxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swapCalls = append(f.swapCalls, swapCall{pair, offer, amount, ask, maxSpread})
	return f.swapRes, f.swapErr
}

func (f *fakeTx) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.curveCalls), len(f.swapCalls)
}

// fakeRegistry serves scripted pages; page tokens are page indices.
type fakeRegistry struct {
	mu    sync.Mutex
	pages []ports.PairPage
	calls int
	err   error
}

func (f *fakeRegistry) ListPairsPage(_ context.Context, pageToken string) (ports.PairPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return ports.PairPage{}, f.err
	}
	idx := 0
	if pageToken != "" {
		idx, _ = strconv.Atoi(pageToken)
	}
	if idx >= len(f.pages) {
		return ports.PairPage{}, nil
	}
	return f.pages[idx], nil
}

func (f *fakeRegistry) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func okTx(hash string) ports.TxResult {
	return ports.TxResult{Code: 0, TxHash: hash}
}

func TestExecuteBuy_BondingCurveSuccess(t *testing.T) {
	tx := &fakeTx{curveRes: okTx("ABC123")}
	reg := &fakeRegistry{}
	r := sniper.NewResolver(tx, reg, 0, "")

	res, route, err := r.ExecuteBuy(context.Background(), "key", tokenDenom, "1000000")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", res.TxHash)
	assert.Equal(t, domain.RouteBondingCurve, route.Kind)
	assert.Equal(t, curveAddr, route.ContractAddress)

	// denom reduced to its address before use as contract
	require.Len(t, tx.curveCalls, 1)
	assert.Equal(t, curveAddr, tx.curveCalls[0].contract)
	assert.Equal(t, "uzig", tx.curveCalls[0].denom)
	assert.Equal(t, "1000000", tx.curveCalls[0].amount)
	assert.Zero(t, reg.callCount(), "successful curve buy must not touch the registry")
}

func TestExecuteBuy_MalformedDenomRejectedBeforeNetwork(t *testing.T) {
	tx := &fakeTx{}
	reg := &fakeRegistry{}
	r := sniper.NewResolver(tx, reg, 0, "")

	for _, denom := range []string{"", "coin.short", "notzig1aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "coin..x"} {
		_, _, err := r.ExecuteBuy(context.Background(), "key", denom, "1000000")
		require.Error(t, err, denom)
	}
	curve, swap := tx.calls()
	assert.Zero(t, curve)
	assert.Zero(t, swap)
	assert.Zero(t, reg.callCount())
}

func TestExecuteBuy_FallsBackToDexOnPausedCurve(t *testing.T) {
	tx := &fakeTx{
		curveErr: errors.New("execute wasm contract failed: Trading is paused"),
		swapRes:  okTx("DEF456"),
	}
	reg := &fakeRegistry{pages: []ports.PairPage{{
		Pairs: []ports.Pair{
			{ContractAddress: "zig1otherpair", AssetDenoms: []string{"uzig", "coin.zig1other.doge"}},
			{ContractAddress: pairAddr, AssetDenoms: []string{"uzig", tokenDenom}},
		},
	}}}
	r := sniper.NewResolver(tx, reg, 0, "")

	res, route, err := r.ExecuteBuy(context.Background(), "key", tokenDenom, "1000000")
	require.NoError(t, err)
	assert.Equal(t, "DEF456", res.TxHash)
	assert.Equal(t, domain.RouteDexPair, route.Kind)
	assert.Equal(t, pairAddr, route.ContractAddress)

	require.Len(t, tx.swapCalls, 1)
	assert.Equal(t, pairAddr, tx.swapCalls[0].pair, "swap goes to the pair contract, not the token's address")
	assert.Equal(t, "uzig", tx.swapCalls[0].offer)
	assert.Equal(t, tokenDenom, tx.swapCalls[0].ask)
	assert.Equal(t, "0.5", tx.swapCalls[0].maxSpread)
}

func TestExecuteBuy_FallsBackOnMissingContract(t *testing.T) {
	// rejection arrives as a non-zero code with the signature in the raw log
	tx := &fakeTx{
		curveRes: ports.TxResult{Code: 5, RawLog: "zig1...: no such contract"},
		swapRes:  okTx("DEF456"),
	}
	reg := &fakeRegistry{pages: []ports.PairPage{{
		Pairs: []ports.Pair{{ContractAddress: pairAddr, AssetDenoms: []string{"uzig", tokenDenom}}},
	}}}
	r := sniper.NewResolver(tx, reg, 0, "")

	_, route, err := r.ExecuteBuy(context.Background(), "key", tokenDenom, "1000000")
	require.NoError(t, err)
	assert.Equal(t, domain.RouteDexPair, route.Kind)
}

func TestExecuteBuy_UnrelatedErrorFailsFast(t *testing.T) {
	tx := &fakeTx{curveErr: errors.New("insufficient fee")}
	reg := &fakeRegistry{}
	r := sniper.NewResolver(tx, reg, 0, "")

	_, route, err := r.ExecuteBuy(context.Background(), "key", tokenDenom, "1000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient fee")
	assert.Equal(t, domain.RouteBondingCurve, route.Kind)
	assert.Zero(t, reg.callCount(), "unrelated curve errors must not trigger pair discovery")
	_, swaps := tx.calls()
	assert.Zero(t, swaps)
}

func TestExecuteBuy_BothTiersFailCombinesErrors(t *testing.T) {
	tx := &fakeTx{curveErr: errors.New("Trading is paused")}
	reg := &fakeRegistry{pages: []ports.PairPage{{
		Pairs: []ports.Pair{{ContractAddress: "zig1unrelated", AssetDenoms: []string{"uzig", "coin.zig1other.doge"}}},
	}}}
	r := sniper.NewResolver(tx, reg, 0, "")

	_, _, err := r.ExecuteBuy(context.Background(), "key", tokenDenom, "1000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Trading is paused")
	assert.Contains(t, err.Error(), "no DEX pair found")
}

func TestExecuteBuy_DexFailureCombinesErrors(t *testing.T) {
	tx := &fakeTx{
		curveErr: errors.New("Trading is paused"),
		swapRes:  ports.TxResult{Code: 7, RawLog: "max spread exceeded"},
	}
	reg := &fakeRegistry{pages: []ports.PairPage{{
		Pairs: []ports.Pair{{ContractAddress: pairAddr, AssetDenoms: []string{"uzig", tokenDenom}}},
	}}}
	r := sniper.NewResolver(tx, reg, 0, "")

	_, _, err := r.ExecuteBuy(context.Background(), "key", tokenDenom, "1000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Trading is paused")
	assert.Contains(t, err.Error(), "max spread exceeded")
}

func TestFindPair_PageScanIsBounded(t *testing.T) {
	// every page is full and points to the next one; no page matches
	var pages []ports.PairPage
	for i := 0; i < 50; i++ {
		pages = append(pages, ports.PairPage{
			Pairs:         []ports.Pair{{ContractAddress: "zig1nomatch", AssetDenoms: []string{"uzig"}}},
			NextPageToken: strconv.Itoa(i + 1),
		})
	}
	tx := &fakeTx{curveErr: errors.New("Trading is paused")}
	reg := &fakeRegistry{pages: pages}
	r := sniper.NewResolver(tx, reg, 0, "")

	_, _, err := r.ExecuteBuy(context.Background(), "key", tokenDenom, "1000000")
	require.Error(t, err)
	assert.Equal(t, 10, reg.callCount())
}

func TestFindPair_StopsOnLastPage(t *testing.T) {
	tx := &fakeTx{
		curveErr: errors.New("Trading is paused"),
		swapRes:  okTx("DEF456"),
	}
	reg := &fakeRegistry{pages: []ports.PairPage{
		{
			Pairs:         []ports.Pair{{ContractAddress: "zig1nomatch", AssetDenoms: []string{"uzig"}}},
			NextPageToken: "1",
		},
		{
			Pairs: []ports.Pair{{ContractAddress: pairAddr, AssetDenoms: []string{"uzig", tokenDenom}}},
		},
	}}
	r := sniper.NewResolver(tx, reg, 0, "")

	_, _, err := r.ExecuteBuy(context.Background(), "key", tokenDenom, "1000000")
	require.NoError(t, err)
	assert.Equal(t, 2, reg.callCount())
}
