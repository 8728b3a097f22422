package storage

import (
	"context"
	"database/sql"
	"fmt"

	"zigsniper/internal/crypt"
	"zigsniper/internal/domain"
)

// WalletRepo implements ports.WalletStore. Secrets are AES-GCM encrypted
// at rest and decrypted on read.
type WalletRepo struct {
	db     *sql.DB
	cipher *crypt.Cipher
}

// FindByID returns the wallet with its secret decrypted, or nil if unknown.
func (r *WalletRepo) FindByID(ctx context.Context, walletID int64) (*domain.Wallet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, telegram_id, name, address, encrypted_secret, created_at
		FROM wallets WHERE id = ?
	`, walletID)

	var w domain.Wallet
	var encrypted string
	err := row.Scan(&w.ID, &w.TelegramID, &w.Name, &w.Address, &encrypted, &w.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage.WalletRepo.FindByID: %w", err)
	}

	w.Secret, err = r.cipher.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("storage.WalletRepo.FindByID: decrypt secret for wallet %d: %w", walletID, err)
	}
	return &w, nil
}

// Create stores a wallet, encrypting the secret. Returns the new wallet ID.
func (r *WalletRepo) Create(ctx context.Context, telegramID int64, name, address, secret string) (int64, error) {
	encrypted, err := r.cipher.Encrypt(secret)
	if err != nil {
		return 0, fmt.Errorf("storage.WalletRepo.Create: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (telegram_id, name, address, encrypted_secret) VALUES (?, ?, ?, ?)
	`, telegramID, name, address, encrypted)
	if err != nil {
		return 0, fmt.Errorf("storage.WalletRepo.Create: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage.WalletRepo.Create: %w", err)
	}
	return id, nil
}

// ByUser lists a user's wallets, newest first, secrets not decrypted.
func (r *WalletRepo) ByUser(ctx context.Context, telegramID int64) ([]domain.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, telegram_id, name, address, created_at
		FROM wallets WHERE telegram_id = ? ORDER BY created_at DESC
	`, telegramID)
	if err != nil {
		return nil, fmt.Errorf("storage.WalletRepo.ByUser: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(&w.ID, &w.TelegramID, &w.Name, &w.Address, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage.WalletRepo.ByUser: scan: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}
