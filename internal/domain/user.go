package domain

import "time"

// User is a subscriber of the bot. ActiveWalletID == 0 means no wallet selected.
type User struct {
	TelegramID     int64
	Username       string
	ActiveWalletID int64
	AutoSnipe      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SnipeSettings is the per-user buy policy applied during auto-snipe fan-out.
type SnipeSettings struct {
	TelegramID        int64
	BuyAmountUzig     string
	SlippageTolerance int
	AutoBuyNewTokens  bool
	AutoBuyGraduated  bool
	MinLiquidity      string
}

// Wallet is a user's signing identity. Secret is decrypted by the wallet
// store on read; it never hits disk in the clear.
type Wallet struct {
	ID         int64
	TelegramID int64
	Name       string
	Address    string
	Secret     string
	CreatedAt  time.Time
}

// TrackedToken is a token the monitor has seen, with its lifecycle status.
type TrackedToken struct {
	Denom         string
	Name          string
	Symbol        string
	Creator       string
	BondingStatus string
	Graduated     bool
	PoolID        string
	FirstSeenAt   time.Time
	GraduatedAt   *time.Time
}

// TxAction distinguishes recorded trade directions.
type TxAction string

const (
	ActionBuy  TxAction = "buy"
	ActionSell TxAction = "sell"
)

// TxStatus is the recorded chain outcome of a trade.
type TxStatus string

const (
	TxPending TxStatus = "pending"
	TxSuccess TxStatus = "success"
	TxFailed  TxStatus = "failed"
)

// Transaction is one recorded trade.
type Transaction struct {
	ID            string
	TelegramID    int64
	WalletAddress string
	TxHash        string
	TokenDenom    string
	TokenName     string
	TokenSymbol   string
	Action        TxAction
	Amount        string
	Status        TxStatus
	CreatedAt     time.Time
}

// TokenHolding is the per-token aggregate of a user's successful trades.
type TokenHolding struct {
	TokenDenom  string
	TokenName   string
	TokenSymbol string
	TotalBought string
	TotalSold   string
	Balance     string
}
