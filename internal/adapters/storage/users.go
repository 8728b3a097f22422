package storage

import (
	"context"
	"database/sql"
	"fmt"

	"zigsniper/internal/domain"
)

// UserRepo implements ports.UserRepo.
type UserRepo struct {
	db *sql.DB
}

// FindByID returns the user, or nil if unknown.
func (r *UserRepo) FindByID(ctx context.Context, telegramID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT telegram_id, COALESCE(username, ''), COALESCE(active_wallet_id, 0),
		       auto_snipe, created_at, updated_at
		FROM users WHERE telegram_id = ?
	`, telegramID)

	var u domain.User
	var autoSnipe int
	err := row.Scan(&u.TelegramID, &u.Username, &u.ActiveWalletID, &autoSnipe, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage.UserRepo.FindByID: %w", err)
	}
	u.AutoSnipe = autoSnipe == 1
	return &u, nil
}

// GetAutoSnipeUsers returns users with auto-snipe enabled and an active wallet.
func (r *UserRepo) GetAutoSnipeUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT telegram_id, COALESCE(username, ''), active_wallet_id, auto_snipe, created_at, updated_at
		FROM users
		WHERE auto_snipe = 1 AND active_wallet_id IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.UserRepo.GetAutoSnipeUsers: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var autoSnipe int
		if err := rows.Scan(&u.TelegramID, &u.Username, &u.ActiveWalletID, &autoSnipe, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("storage.UserRepo.GetAutoSnipeUsers: scan: %w", err)
		}
		u.AutoSnipe = autoSnipe == 1
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetSnipeSettings returns the user's buy policy, or nil if absent.
func (r *UserRepo) GetSnipeSettings(ctx context.Context, telegramID int64) (*domain.SnipeSettings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT telegram_id, buy_amount_uzig, slippage_tolerance,
		       auto_buy_new_tokens, auto_buy_graduated, min_liquidity
		FROM snipe_settings WHERE telegram_id = ?
	`, telegramID)

	var st domain.SnipeSettings
	var buyNew, buyGrad int
	err := row.Scan(&st.TelegramID, &st.BuyAmountUzig, &st.SlippageTolerance, &buyNew, &buyGrad, &st.MinLiquidity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage.UserRepo.GetSnipeSettings: %w", err)
	}
	st.AutoBuyNewTokens = buyNew == 1
	st.AutoBuyGraduated = buyGrad == 1
	return &st, nil
}

// Create inserts a user with default settings. No-op if already present.
func (r *UserRepo) Create(ctx context.Context, telegramID int64, username string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (telegram_id, username) VALUES (?, ?)`,
		telegramID, username,
	); err != nil {
		return fmt.Errorf("storage.UserRepo.Create: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO snipe_settings (telegram_id) VALUES (?)`,
		telegramID,
	); err != nil {
		return fmt.Errorf("storage.UserRepo.Create: settings: %w", err)
	}
	return nil
}

// UpdateSnipeSettings overwrites the user's policy row.
func (r *UserRepo) UpdateSnipeSettings(ctx context.Context, st domain.SnipeSettings) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE snipe_settings
		SET buy_amount_uzig = ?, slippage_tolerance = ?,
		    auto_buy_new_tokens = ?, auto_buy_graduated = ?, min_liquidity = ?
		WHERE telegram_id = ?
	`, st.BuyAmountUzig, st.SlippageTolerance, boolToInt(st.AutoBuyNewTokens),
		boolToInt(st.AutoBuyGraduated), st.MinLiquidity, st.TelegramID)
	if err != nil {
		return fmt.Errorf("storage.UserRepo.UpdateSnipeSettings: %w", err)
	}
	return nil
}

// SetActiveWallet points the user at one of their wallets.
func (r *UserRepo) SetActiveWallet(ctx context.Context, telegramID, walletID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET active_wallet_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE telegram_id = ?
	`, walletID, telegramID)
	if err != nil {
		return fmt.Errorf("storage.UserRepo.SetActiveWallet: %w", err)
	}
	return nil
}
