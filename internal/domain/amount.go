package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NativeDenom is the chain's fee and quote asset, in its smallest unit.
const NativeDenom = "uzig"

// microExp converts between uzig and display ZIG (10^6 micro units).
const microExp = 6

// ParseAmount validates that s is a positive integer amount in the chain's
// smallest unit and returns it as a decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("domain.ParseAmount: %q: %w", s, err)
	}
	if !d.IsInteger() {
		return decimal.Zero, fmt.Errorf("domain.ParseAmount: %q: fractional amounts not allowed", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("domain.ParseAmount: %q: amount must be positive", s)
	}
	return d, nil
}

// FormatAmount renders a micro-unit amount as a human-readable balance,
// e.g. "1500000" uzig → "1.500000 ZIG".
func FormatAmount(amount, denom string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount + " " + denom
	}
	symbol := denom
	if denom == NativeDenom {
		symbol = "ZIG"
	} else if IsTokenDenom(denom) {
		parts := strings.Split(denom, ".")
		symbol = strings.ToUpper(parts[len(parts)-1])
	}
	return d.Shift(-microExp).StringFixed(microExp) + " " + symbol
}

// CalculateBuyAmount returns pct percent of balance, truncated to a whole
// micro-unit amount.
func CalculateBuyAmount(balance string, pct int) (string, error) {
	d, err := ParseAmount(balance)
	if err != nil {
		return "", fmt.Errorf("domain.CalculateBuyAmount: %w", err)
	}
	if pct <= 0 || pct > 100 {
		return "", fmt.Errorf("domain.CalculateBuyAmount: percentage %d out of range", pct)
	}
	return d.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)).Floor().String(), nil
}
