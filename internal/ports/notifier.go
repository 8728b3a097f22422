package ports

import (
	"context"

	"zigsniper/internal/domain"
)

// Notifier presents detections and execution outcomes to the user.
// Implementations must be safe for concurrent use: the monitor and
// multiple execution attempts report independently.
type Notifier interface {
	// ReportNewToken announces a freshly detected token.
	ReportNewToken(ctx context.Context, token domain.TokenInfo)

	// ReportGraduation announces a token's move to an external pool.
	ReportGraduation(ctx context.Context, token domain.TokenInfo, pool domain.PoolInfo)

	// ReportExecutionResult delivers the outcome of one buy attempt.
	ReportExecutionResult(ctx context.Context, userID int64, result domain.ExecutionResult)
}
