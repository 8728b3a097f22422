package ports

import (
	"context"

	"zigsniper/internal/domain"
)

// UserRepo exposes the user and policy rows the coordinator needs.
type UserRepo interface {
	// FindByID returns the user, or nil if unknown.
	FindByID(ctx context.Context, telegramID int64) (*domain.User, error)

	// GetAutoSnipeUsers returns users with auto-snipe enabled and an
	// active wallet configured.
	GetAutoSnipeUsers(ctx context.Context) ([]domain.User, error)

	// GetSnipeSettings returns the user's buy policy, or nil if absent.
	GetSnipeSettings(ctx context.Context, telegramID int64) (*domain.SnipeSettings, error)
}

// WalletStore resolves wallets with decrypted signing secrets.
type WalletStore interface {
	// FindByID returns the wallet with its secret decrypted, or nil if unknown.
	FindByID(ctx context.Context, walletID int64) (*domain.Wallet, error)
}

// TokenRepo persists tokens observed by the monitor.
type TokenRepo interface {
	Create(ctx context.Context, token domain.TokenInfo) error
	MarkGraduated(ctx context.Context, denom, poolID string) error
	FindByDenom(ctx context.Context, denom string) (*domain.TrackedToken, error)
	GetRecent(ctx context.Context, limit int) ([]domain.TrackedToken, error)
}

// TransactionRepo records executed trades.
type TransactionRepo interface {
	Save(ctx context.Context, tx domain.Transaction) error
	FindByUser(ctx context.Context, telegramID int64, limit int) ([]domain.Transaction, error)
	GetHoldings(ctx context.Context, telegramID int64) ([]domain.TokenHolding, error)
}
