package domain

import "time"

// NewTokenEvent is emitted exactly once per denom when a token first appears
// in the chain's supply.
type NewTokenEvent struct {
	Token TokenInfo
	At    time.Time
}

// GraduationEvent is emitted exactly once per (denom, pool side) when a
// tracked token shows up in an external liquidity pool.
type GraduationEvent struct {
	Token TokenInfo
	Pool  PoolInfo
	At    time.Time
}
