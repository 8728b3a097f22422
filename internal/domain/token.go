package domain

import (
	"fmt"
	"strings"
)

// Factory-minted denoms look like "coin.<creator>.<subdenom>". The middle part
// is the bech32 address of the deploying contract, which doubles as the
// bonding-curve trading venue.
const (
	tokenDenomPrefix = "coin."
	addressPrefix    = "zig1"
	minAddressLen    = 40
)

// TokenInfo describes a factory token as observed on-chain.
// Immutable after creation; graduation status lives in the token repository.
type TokenInfo struct {
	Denom      string // unique chain-wide identifier
	Creator    string
	Name       string
	Symbol     string
	MintingCap string
}

// PoolInfo describes an external AMM liquidity venue.
type PoolInfo struct {
	PoolID       string
	BaseDenom    string
	QuoteDenom   string
	BaseReserve  string
	QuoteReserve string
}

// IsTokenDenom reports whether denom is a factory token denom (coin.<addr>.<sym>).
func IsTokenDenom(denom string) bool {
	if !strings.HasPrefix(denom, tokenDenomPrefix) {
		return false
	}
	return len(strings.Split(denom, ".")) >= 3
}

// ParseTokenDenom builds a TokenInfo from a fully-qualified denom.
// The subdenom becomes name and symbol, as the chain exposes no richer metadata.
func ParseTokenDenom(denom, amount string) (TokenInfo, error) {
	parts := strings.Split(denom, ".")
	if !strings.HasPrefix(denom, tokenDenomPrefix) || len(parts) < 3 {
		return TokenInfo{}, fmt.Errorf("domain.ParseTokenDenom: not a factory denom: %q", denom)
	}
	sub := strings.Join(parts[2:], ".")
	symbol := strings.ToUpper(sub)
	if len(symbol) > 10 {
		symbol = symbol[:10]
	}
	return TokenInfo{
		Denom:      denom,
		Creator:    parts[1],
		Name:       sub,
		Symbol:     symbol,
		MintingCap: amount,
	}, nil
}

// ContractAddress reduces a denom to the address used as the bonding-curve
// venue and as the DEX pair search key. Accepts a bare contract address or a
// fully-qualified "coin.<addr>.<sym>" denom; rejects everything else before
// any network call is made with it.
func ContractAddress(denom string) (string, error) {
	addr := denom
	if strings.HasPrefix(denom, tokenDenomPrefix) {
		parts := strings.Split(denom, ".")
		if len(parts) < 3 {
			return "", fmt.Errorf("domain.ContractAddress: malformed denom %q", denom)
		}
		addr = parts[1]
	}
	if !strings.HasPrefix(addr, addressPrefix) || len(addr) < minAddressLen {
		return "", fmt.Errorf("domain.ContractAddress: %q is not a valid contract address", addr)
	}
	return addr, nil
}
