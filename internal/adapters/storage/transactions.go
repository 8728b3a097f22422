package storage

import (
	"context"
	"database/sql"
	"fmt"

	"zigsniper/internal/domain"
)

// TransactionRepo implements ports.TransactionRepo.
type TransactionRepo struct {
	db *sql.DB
}

// Save records an executed trade.
func (r *TransactionRepo) Save(ctx context.Context, tx domain.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, telegram_id, wallet_address, tx_hash, token_denom,
			 token_name, token_symbol, action, amount, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tx.ID, tx.TelegramID, tx.WalletAddress, tx.TxHash, tx.TokenDenom,
		tx.TokenName, tx.TokenSymbol, string(tx.Action), tx.Amount, string(tx.Status))
	if err != nil {
		return fmt.Errorf("storage.TransactionRepo.Save: %s: %w", tx.ID, err)
	}
	return nil
}

// FindByUser lists a user's trades, newest first.
func (r *TransactionRepo) FindByUser(ctx context.Context, telegramID int64, limit int) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, telegram_id, wallet_address, COALESCE(tx_hash, ''), token_denom,
		       COALESCE(token_name, ''), COALESCE(token_symbol, ''), action, amount, status, created_at
		FROM transactions WHERE telegram_id = ? ORDER BY created_at DESC LIMIT ?
	`, telegramID, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.TransactionRepo.FindByUser: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var action, status string
		if err := rows.Scan(&tx.ID, &tx.TelegramID, &tx.WalletAddress, &tx.TxHash, &tx.TokenDenom,
			&tx.TokenName, &tx.TokenSymbol, &action, &tx.Amount, &status, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage.TransactionRepo.FindByUser: scan: %w", err)
		}
		tx.Action = domain.TxAction(action)
		tx.Status = domain.TxStatus(status)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// GetHoldings aggregates successful buys minus sells per token.
// Only tokens with a positive net position are returned.
func (r *TransactionRepo) GetHoldings(ctx context.Context, telegramID int64) ([]domain.TokenHolding, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT token_denom,
		       COALESCE(token_name, ''),
		       COALESCE(token_symbol, ''),
		       SUM(CASE WHEN action = 'buy'  AND status = 'success' THEN CAST(amount AS INTEGER) ELSE 0 END) AS bought,
		       SUM(CASE WHEN action = 'sell' AND status = 'success' THEN CAST(amount AS INTEGER) ELSE 0 END) AS sold
		FROM transactions
		WHERE telegram_id = ?
		GROUP BY token_denom
		HAVING bought > sold
	`, telegramID)
	if err != nil {
		return nil, fmt.Errorf("storage.TransactionRepo.GetHoldings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.TokenHolding
	for rows.Next() {
		var h domain.TokenHolding
		var bought, sold int64
		if err := rows.Scan(&h.TokenDenom, &h.TokenName, &h.TokenSymbol, &bought, &sold); err != nil {
			return nil, fmt.Errorf("storage.TransactionRepo.GetHoldings: scan: %w", err)
		}
		h.TotalBought = fmt.Sprintf("%d", bought)
		h.TotalSold = fmt.Sprintf("%d", sold)
		h.Balance = fmt.Sprintf("%d", bought-sold)
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}
