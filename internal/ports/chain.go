package ports

import (
	"context"

	"zigsniper/internal/domain"
)

// ChainQuery reads current chain state. All listings are full snapshots,
// not incremental feeds; the monitor diffs them itself.
type ChainQuery interface {
	// ListNewTokens returns every factory token currently in the supply.
	ListNewTokens(ctx context.Context) ([]domain.TokenInfo, error)

	// ListPools returns every external liquidity pool.
	ListPools(ctx context.Context) ([]domain.PoolInfo, error)

	// GetBalance returns the address's balance of denom in smallest units.
	GetBalance(ctx context.Context, address, denom string) (string, error)
}

// TxResult is the chain's response to a submitted transaction.
// Code != 0 means the transaction was rejected; RawLog carries the reason.
type TxResult struct {
	Code   int
	TxHash string
	RawLog string
}

// ChainTx signs and broadcasts swap transactions. The signer secret comes
// pre-decrypted from the wallet store.
type ChainTx interface {
	// SubmitBondingCurveBuy executes a buy_token call on the token's own
	// contract with fundsIn attached.
	SubmitBondingCurveBuy(ctx context.Context, signerSecret, contractAddress, fundsInDenom, fundsInAmount string) (TxResult, error)

	// SubmitDexSwap executes a swap against a specific pair contract,
	// offering offerAmount of offerDenom and asking askDenom, with an
	// explicit maximum spread tolerance (e.g. "0.5").
	SubmitDexSwap(ctx context.Context, signerSecret, pairContract, offerDenom, offerAmount, askDenom, maxSpread string) (TxResult, error)
}
