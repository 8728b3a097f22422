package storage

import (
	"context"
	"database/sql"
	"fmt"

	"zigsniper/internal/domain"
)

// TokenRepo implements ports.TokenRepo.
type TokenRepo struct {
	db *sql.DB
}

// Create records a newly observed token. No-op if the denom is already
// tracked, so the monitor can call it unconditionally.
func (r *TokenRepo) Create(ctx context.Context, token domain.TokenInfo) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO tracked_tokens (denom, creator, name, symbol) VALUES (?, ?, ?, ?)
	`, token.Denom, token.Creator, token.Name, token.Symbol)
	if err != nil {
		return fmt.Errorf("storage.TokenRepo.Create: %s: %w", token.Denom, err)
	}
	return nil
}

// MarkGraduated flips a token to graduated and records its pool.
func (r *TokenRepo) MarkGraduated(ctx context.Context, denom, poolID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tracked_tokens
		SET graduated = 1, pool_id = ?, graduated_at = CURRENT_TIMESTAMP, bonding_status = 'graduated'
		WHERE denom = ?
	`, poolID, denom)
	if err != nil {
		return fmt.Errorf("storage.TokenRepo.MarkGraduated: %s: %w", denom, err)
	}
	return nil
}

// FindByDenom returns a tracked token, or nil if unknown.
func (r *TokenRepo) FindByDenom(ctx context.Context, denom string) (*domain.TrackedToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT denom, COALESCE(name, ''), COALESCE(symbol, ''), creator,
		       bonding_status, graduated, COALESCE(pool_id, ''), first_seen_at, graduated_at
		FROM tracked_tokens WHERE denom = ?
	`, denom)

	tok, err := scanTrackedToken(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage.TokenRepo.FindByDenom: %w", err)
	}
	return tok, nil
}

// GetRecent lists the most recently seen tokens.
func (r *TokenRepo) GetRecent(ctx context.Context, limit int) ([]domain.TrackedToken, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT denom, COALESCE(name, ''), COALESCE(symbol, ''), creator,
		       bonding_status, graduated, COALESCE(pool_id, ''), first_seen_at, graduated_at
		FROM tracked_tokens ORDER BY first_seen_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.TokenRepo.GetRecent: %w", err)
	}
	defer rows.Close()

	var tokens []domain.TrackedToken
	for rows.Next() {
		tok, err := scanTrackedToken(rows)
		if err != nil {
			return nil, fmt.Errorf("storage.TokenRepo.GetRecent: scan: %w", err)
		}
		tokens = append(tokens, *tok)
	}
	return tokens, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrackedToken(row rowScanner) (*domain.TrackedToken, error) {
	var tok domain.TrackedToken
	var graduated int
	var graduatedAt sql.NullTime
	if err := row.Scan(&tok.Denom, &tok.Name, &tok.Symbol, &tok.Creator,
		&tok.BondingStatus, &graduated, &tok.PoolID, &tok.FirstSeenAt, &graduatedAt); err != nil {
		return nil, err
	}
	tok.Graduated = graduated == 1
	if graduatedAt.Valid {
		t := graduatedAt.Time
		tok.GraduatedAt = &t
	}
	return &tok, nil
}
