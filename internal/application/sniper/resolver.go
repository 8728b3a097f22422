package sniper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"zigsniper/internal/domain"
	"zigsniper/internal/ports"
)

const (
	defaultMaxPairPages = 10
	defaultMaxSpread    = "0.5"
)

// Error signatures from the bonding-curve contract that mean the venue is
// gone or inactive, so the trade should be retried on the DEX.
var fallbackSignatures = []string{
	"Trading is paused",
	"no such contract",
}

// Resolver routes a buy to its venue: the token's own bonding-curve
// contract first, then an Oroswap pair if the curve reports itself
// inactive. Routes are computed per attempt and never cached, since pair
// membership changes as tokens graduate.
type Resolver struct {
	tx        ports.ChainTx
	registry  ports.PairRegistry
	maxPages  int
	maxSpread string
}

// NewResolver creates a resolver. maxPages caps the registry scan;
// zero means the default of 10 pages.
func NewResolver(tx ports.ChainTx, registry ports.PairRegistry, maxPages int, maxSpread string) *Resolver {
	if maxPages <= 0 {
		maxPages = defaultMaxPairPages
	}
	if maxSpread == "" {
		maxSpread = defaultMaxSpread
	}
	return &Resolver{tx: tx, registry: registry, maxPages: maxPages, maxSpread: maxSpread}
}

// ExecuteBuy submits a buy of tokenDenom spending amount uzig, trying the
// bonding curve and falling back to the DEX when the curve is paused or
// its contract is gone. Returns the chain result and the route taken.
// Malformed denoms are rejected before any network call.
func (r *Resolver) ExecuteBuy(ctx context.Context, signerSecret, tokenDenom, amount string) (ports.TxResult, domain.SwapRoute, error) {
	contract, err := domain.ContractAddress(tokenDenom)
	if err != nil {
		return ports.TxResult{}, domain.SwapRoute{}, err
	}

	route := domain.SwapRoute{Kind: domain.RouteBondingCurve, ContractAddress: contract}
	res, err := r.tx.SubmitBondingCurveBuy(ctx, signerSecret, contract, domain.NativeDenom, amount)
	curveErr := submissionError(res, err)
	if curveErr == nil {
		return res, route, nil
	}
	if !isFallbackSignal(curveErr) {
		// unrelated failure (insufficient fee, sequence mismatch, ...):
		// the DEX would reject it for the same reason
		return res, route, curveErr
	}

	slog.Info("bonding curve inactive, searching DEX pairs",
		"token", tokenDenom, "reason", curveErr)

	pair, askDenom, findErr := r.findPair(ctx, contract)
	if findErr != nil {
		return ports.TxResult{}, route, combineErrors(curveErr, findErr)
	}

	route = domain.SwapRoute{Kind: domain.RouteDexPair, ContractAddress: pair.ContractAddress, AskDenom: askDenom}
	res, err = r.tx.SubmitDexSwap(ctx, signerSecret, pair.ContractAddress, domain.NativeDenom, amount, askDenom, r.maxSpread)
	if swapErr := submissionError(res, err); swapErr != nil {
		return res, route, combineErrors(curveErr, swapErr)
	}
	return res, route, nil
}

// findPair pages through the factory registry looking for a pair whose
// asset list references the token's contract address. The scan is capped
// so a token absent from the DEX cannot trigger an unbounded walk.
func (r *Resolver) findPair(ctx context.Context, contract string) (ports.Pair, string, error) {
	pageToken := ""
	for page := 0; page < r.maxPages; page++ {
		pp, err := r.registry.ListPairsPage(ctx, pageToken)
		if err != nil {
			return ports.Pair{}, "", fmt.Errorf("pair search page %d: %w", page+1, err)
		}
		for _, pair := range pp.Pairs {
			for _, asset := range pair.AssetDenoms {
				if strings.Contains(asset, contract) {
					return pair, asset, nil
				}
			}
		}
		if pp.NextPageToken == "" {
			break
		}
		pageToken = pp.NextPageToken
	}
	return ports.Pair{}, "", fmt.Errorf("no DEX pair found for %s", contract)
}

// submissionError normalizes a submit outcome: transport errors pass
// through, a rejected transaction becomes an error carrying the raw log.
func submissionError(res ports.TxResult, err error) error {
	if err != nil {
		return err
	}
	if res.Code != 0 {
		return fmt.Errorf("transaction rejected with code %d: %s", res.Code, res.RawLog)
	}
	return nil
}

func isFallbackSignal(err error) bool {
	msg := err.Error()
	for _, sig := range fallbackSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

func combineErrors(curveErr, dexErr error) error {
	return fmt.Errorf("bonding curve: %v; dex: %w", curveErr, dexErr)
}
