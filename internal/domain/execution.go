package domain

// ExecStatus is the lifecycle of a single execution attempt.
type ExecStatus string

const (
	ExecPending   ExecStatus = "pending"
	ExecExecuting ExecStatus = "executing"
	ExecCompleted ExecStatus = "completed"
	ExecFailed    ExecStatus = "failed"
)

// PendingExecution tracks one in-flight buy attempt. Keyed by (user, denom);
// at most one may exist per key at any time.
type PendingExecution struct {
	UserID     int64
	TokenDenom string
	Status     ExecStatus
	Result     *ExecutionResult
}

// ExecutionResult is the immutable outcome of one attempt.
type ExecutionResult struct {
	Success     bool
	TxHash      string
	Err         string
	TokenDenom  string
	AmountSpent string
}

// RouteKind selects the trade venue produced by the route resolver.
type RouteKind string

const (
	RouteBondingCurve RouteKind = "bonding_curve"
	RouteDexPair      RouteKind = "dex_pair"
)

// SwapRoute is a submittable trade descriptor. Transient: pair membership
// changes as tokens graduate, so routes are never cached across attempts.
type SwapRoute struct {
	Kind            RouteKind
	ContractAddress string
	// AskDenom is the pair's native denom for the target token.
	// Only set for dex_pair routes.
	AskDenom string
}
