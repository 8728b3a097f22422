package storage

// One database, five tables, four repositories.
//
// Users own wallets and a snipe policy; the monitor tracks tokens; the
// coordinator records trades. SQLite is single-writer, so the pool is
// capped at one connection.

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"zigsniper/internal/crypt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    telegram_id      INTEGER PRIMARY KEY,
    username         TEXT,
    active_wallet_id INTEGER,
    auto_snipe       INTEGER  NOT NULL DEFAULT 1,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS snipe_settings (
    telegram_id         INTEGER PRIMARY KEY REFERENCES users(telegram_id),
    buy_amount_uzig     TEXT    NOT NULL DEFAULT '1000000',
    slippage_tolerance  INTEGER NOT NULL DEFAULT 5,
    auto_buy_new_tokens INTEGER NOT NULL DEFAULT 0,
    auto_buy_graduated  INTEGER NOT NULL DEFAULT 0,
    min_liquidity       TEXT    NOT NULL DEFAULT '0'
);

CREATE TABLE IF NOT EXISTS wallets (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    telegram_id      INTEGER  NOT NULL,
    name             TEXT     NOT NULL,
    address          TEXT     NOT NULL,
    encrypted_secret TEXT     NOT NULL,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tracked_tokens (
    denom          TEXT PRIMARY KEY,
    name           TEXT,
    symbol         TEXT,
    creator        TEXT     NOT NULL,
    bonding_status TEXT     NOT NULL DEFAULT 'active',
    graduated      INTEGER  NOT NULL DEFAULT 0,
    pool_id        TEXT,
    first_seen_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    graduated_at   DATETIME
);

CREATE TABLE IF NOT EXISTS transactions (
    id             TEXT PRIMARY KEY,
    telegram_id    INTEGER  NOT NULL,
    wallet_address TEXT     NOT NULL,
    tx_hash        TEXT,
    token_denom    TEXT     NOT NULL,
    token_name     TEXT,
    token_symbol   TEXT,
    action         TEXT     NOT NULL,
    amount         TEXT     NOT NULL,
    status         TEXT     NOT NULL,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_wallets_user    ON wallets(telegram_id);
CREATE INDEX IF NOT EXISTS idx_tokens_seen     ON tracked_tokens(first_seen_at DESC);
CREATE INDEX IF NOT EXISTS idx_tx_user         ON transactions(telegram_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_tx_user_token   ON transactions(telegram_id, token_denom);
`

// SQLiteStorage bundles the repositories backed by one SQLite file.
// Users implements ports.UserRepo, Wallets ports.WalletStore,
// Tokens ports.TokenRepo and Transactions ports.TransactionRepo.
type SQLiteStorage struct {
	db *sql.DB

	Users        *UserRepo
	Wallets      *WalletRepo
	Tokens       *TokenRepo
	Transactions *TransactionRepo
}

// NewSQLiteStorage opens (or creates) the database at path and applies the
// schema. The cipher protects wallet secrets at rest.
func NewSQLiteStorage(path string, cipher *crypt.Cipher) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	return &SQLiteStorage{
		db:           db,
		Users:        &UserRepo{db: db},
		Wallets:      &WalletRepo{db: db, cipher: cipher},
		Tokens:       &TokenRepo{db: db},
		Transactions: &TransactionRepo{db: db},
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
