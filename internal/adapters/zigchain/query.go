package zigchain

import (
	"context"
	"fmt"
	"strings"

	"zigsniper/internal/domain"
)

// lpDenomMarker identifies Oroswap LP share denoms in the bank supply.
// An LP denom appearing means the pair behind it has been seeded with
// liquidity, which is how graduation becomes visible without an indexer.
const lpDenomMarker = "oroswaplptoken"

// supplyResponse mirrors /cosmos/bank/v1beta1/supply.
type supplyResponse struct {
	Supply []struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	} `json:"supply"`
}

// balanceResponse mirrors /cosmos/bank/v1beta1/balances/{addr}/by_denom.
type balanceResponse struct {
	Balance struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	} `json:"balance"`
}

// ListNewTokens returns every factory token currently present in the chain's
// supply, in supply order. Implements ports.ChainQuery.
func (c *Client) ListNewTokens(ctx context.Context) ([]domain.TokenInfo, error) {
	var resp supplyResponse
	url := fmt.Sprintf("%s/cosmos/bank/v1beta1/supply?pagination.limit=5000", c.lcdBase)
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("zigchain.ListNewTokens: %w", err)
	}

	var tokens []domain.TokenInfo
	for _, coin := range resp.Supply {
		if !domain.IsTokenDenom(coin.Denom) {
			continue
		}
		token, err := domain.ParseTokenDenom(coin.Denom, coin.Amount)
		if err != nil {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// ListPools returns every external liquidity pool, derived from LP share
// denoms in the supply. Reserves are not visible from the bank module; the
// base reserve carries the LP share supply as a liquidity proxy.
func (c *Client) ListPools(ctx context.Context) ([]domain.PoolInfo, error) {
	var resp supplyResponse
	url := fmt.Sprintf("%s/cosmos/bank/v1beta1/supply?pagination.limit=5000", c.lcdBase)
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("zigchain.ListPools: %w", err)
	}

	var pools []domain.PoolInfo
	for _, coin := range resp.Supply {
		if !strings.Contains(coin.Denom, lpDenomMarker) {
			continue
		}
		pools = append(pools, domain.PoolInfo{
			PoolID:       coin.Denom,
			BaseDenom:    coin.Denom,
			QuoteDenom:   domain.NativeDenom,
			BaseReserve:  coin.Amount,
			QuoteReserve: "0",
		})
	}
	return pools, nil
}

// GetBalance returns the address's balance of denom in smallest units.
func (c *Client) GetBalance(ctx context.Context, address, denom string) (string, error) {
	var resp balanceResponse
	url := fmt.Sprintf("%s/cosmos/bank/v1beta1/balances/%s/by_denom?denom=%s", c.lcdBase, address, denom)
	if err := c.get(ctx, url, &resp); err != nil {
		return "", fmt.Errorf("zigchain.GetBalance: %s: %w", address, err)
	}
	if resp.Balance.Amount == "" {
		return "0", nil
	}
	return resp.Balance.Amount, nil
}
