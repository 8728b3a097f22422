package sniper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"zigsniper/internal/domain"
	"zigsniper/internal/ports"
)

// defaultGasReserveUzig is held back from the balance check so a buy that
// technically fits the balance does not die on fees at broadcast time.
const defaultGasReserveUzig = 5000

var (
	// ErrSnipeInProgress marks a duplicate attempt for the same
	// (user, token) pair; the caller can simply retry later.
	ErrSnipeInProgress = errors.New("snipe already in progress for this token")

	ErrNoActiveWallet = errors.New("no active wallet configured")
	ErrWalletNotFound = errors.New("active wallet not found")
	ErrUserNotFound   = errors.New("user not found")
)

// Config tunes the coordinator.
type Config struct {
	// GasReserveUzig is the estimated fee held back from the balance
	// precondition. Zero means the default of 5000.
	GasReserveUzig int64

	// SubmitTimeout bounds one full attempt (route resolution plus
	// broadcast). Zero disables the deadline and a hung submission
	// blocks its attempt indefinitely.
	SubmitTimeout time.Duration
}

// Coordinator turns buy intents into at most one in-flight trade attempt
// per (user, token) pair. Attempts run concurrently across pairs; the
// pending map is the single serialization point.
type Coordinator struct {
	cfg      Config
	users    ports.UserRepo
	wallets  ports.WalletStore
	chain    ports.ChainQuery
	resolver *Resolver
	txs      ports.TransactionRepo
	notifier ports.Notifier

	mu      sync.Mutex
	pending map[string]*domain.PendingExecution
}

// New creates a coordinator. txs may be nil to skip trade records (tests).
func New(
	cfg Config,
	users ports.UserRepo,
	wallets ports.WalletStore,
	chain ports.ChainQuery,
	resolver *Resolver,
	txs ports.TransactionRepo,
	notifier ports.Notifier,
) *Coordinator {
	if cfg.GasReserveUzig <= 0 {
		cfg.GasReserveUzig = defaultGasReserveUzig
	}
	return &Coordinator{
		cfg:      cfg,
		users:    users,
		wallets:  wallets,
		chain:    chain,
		resolver: resolver,
		txs:      txs,
		notifier: notifier,
		pending:  make(map[string]*domain.PendingExecution),
	}
}

// Snipe runs one buy attempt for the user, spending buyAmount uzig on
// tokenDenom. Returns the result; the error is non-nil only for attempts
// that never started (bad input, duplicate in-flight attempt).
func (c *Coordinator) Snipe(ctx context.Context, userID int64, tokenDenom, buyAmount string) (domain.ExecutionResult, error) {
	if tokenDenom == "" {
		return failedResult(tokenDenom, "token denom is empty"), errors.New("token denom is empty")
	}
	amount, err := domain.ParseAmount(buyAmount)
	if err != nil {
		return failedResult(tokenDenom, err.Error()), err
	}

	if !c.acquire(userID, tokenDenom) {
		return failedResult(tokenDenom, ErrSnipeInProgress.Error()), ErrSnipeInProgress
	}
	defer c.release(userID, tokenDenom)

	result := c.attempt(ctx, userID, tokenDenom, buyAmount, amount)
	c.notifier.ReportExecutionResult(ctx, userID, result)
	return result, nil
}

// ManualBuy is the user-initiated entry point. It skips the auto-snipe
// policy filter but shares the attempt path, so a manual buy racing an
// automatic one for the same token hits the same concurrency guard.
func (c *Coordinator) ManualBuy(ctx context.Context, userID int64, tokenDenom, buyAmount string) (domain.ExecutionResult, error) {
	return c.Snipe(ctx, userID, tokenDenom, buyAmount)
}

// PendingCount reports the number of in-flight attempts.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// HandleNewToken fans a new-token event out to every auto-snipe user whose
// policy buys fresh tokens. One goroutine per user: a slow broadcast for
// one user must not delay the others or the monitor's timers.
func (c *Coordinator) HandleNewToken(ctx context.Context, ev domain.NewTokenEvent) {
	c.fanOut(ctx, ev.Token.Denom, func(st domain.SnipeSettings) bool {
		return st.AutoBuyNewTokens
	})
}

// HandleGraduation fans a graduation event out to users buying graduated
// tokens.
func (c *Coordinator) HandleGraduation(ctx context.Context, ev domain.GraduationEvent) {
	c.fanOut(ctx, ev.Token.Denom, func(st domain.SnipeSettings) bool {
		return st.AutoBuyGraduated
	})
}

func (c *Coordinator) fanOut(ctx context.Context, tokenDenom string, wants func(domain.SnipeSettings) bool) {
	users, err := c.users.GetAutoSnipeUsers(ctx)
	if err != nil {
		slog.Error("auto-snipe fan-out aborted", "token", tokenDenom, "err", err)
		return
	}

	for _, u := range users {
		st, err := c.users.GetSnipeSettings(ctx, u.TelegramID)
		if err != nil {
			slog.Warn("skipping user, settings lookup failed", "user", u.TelegramID, "err", err)
			continue
		}
		if st == nil || !wants(*st) {
			continue
		}

		go func(userID int64, amount string) {
			if _, err := c.Snipe(ctx, userID, tokenDenom, amount); err != nil {
				slog.Warn("auto-snipe attempt not started", "user", userID, "token", tokenDenom, "err", err)
			}
		}(u.TelegramID, st.BuyAmountUzig)
	}
}

// acquire is the atomic check-and-insert on the pending map.
func (c *Coordinator) acquire(userID int64, tokenDenom string) bool {
	key := pendingKey(userID, tokenDenom)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.pending[key]; exists {
		return false
	}
	c.pending[key] = &domain.PendingExecution{
		UserID:     userID,
		TokenDenom: tokenDenom,
		Status:     domain.ExecExecuting,
	}
	return true
}

// release removes the entry on every path, success or failure.
func (c *Coordinator) release(userID int64, tokenDenom string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, pendingKey(userID, tokenDenom))
}

func (c *Coordinator) attempt(ctx context.Context, userID int64, tokenDenom, buyAmount string, amount decimal.Decimal) domain.ExecutionResult {
	user, err := c.users.FindByID(ctx, userID)
	if err != nil {
		return failedResult(tokenDenom, fmt.Sprintf("user lookup: %v", err))
	}
	if user == nil {
		return failedResult(tokenDenom, ErrUserNotFound.Error())
	}
	if user.ActiveWalletID == 0 {
		return failedResult(tokenDenom, ErrNoActiveWallet.Error())
	}

	wallet, err := c.wallets.FindByID(ctx, user.ActiveWalletID)
	if err != nil {
		return failedResult(tokenDenom, fmt.Sprintf("wallet lookup: %v", err))
	}
	if wallet == nil {
		return failedResult(tokenDenom, ErrWalletNotFound.Error())
	}

	balanceStr, err := c.chain.GetBalance(ctx, wallet.Address, domain.NativeDenom)
	if err != nil {
		return failedResult(tokenDenom, fmt.Sprintf("balance query: %v", err))
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return failedResult(tokenDenom, fmt.Sprintf("unreadable balance %q", balanceStr))
	}
	required := amount.Add(decimal.NewFromInt(c.cfg.GasReserveUzig))
	if balance.LessThan(required) {
		return failedResult(tokenDenom, fmt.Sprintf(
			"Insufficient balance. Have %s uzig, need %s uzig (buy + gas reserve)",
			balance, required))
	}

	if c.cfg.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.SubmitTimeout)
		defer cancel()
	}

	res, route, err := c.resolver.ExecuteBuy(ctx, wallet.Secret, tokenDenom, buyAmount)
	result := domain.ExecutionResult{TokenDenom: tokenDenom, AmountSpent: "0"}
	if err != nil {
		result.Err = err.Error()
		slog.Warn("snipe failed", "user", userID, "token", tokenDenom, "err", err)
	} else {
		result.Success = true
		result.TxHash = res.TxHash
		result.AmountSpent = buyAmount
		slog.Info("snipe succeeded",
			"user", userID, "token", tokenDenom, "route", route.Kind, "tx", res.TxHash)
	}

	c.record(ctx, userID, wallet.Address, tokenDenom, buyAmount, result)
	return result
}

// record persists the attempt as a transaction row; failures to record are
// logged, never surfaced, so bookkeeping cannot fail a completed trade.
func (c *Coordinator) record(ctx context.Context, userID int64, walletAddr, tokenDenom, buyAmount string, result domain.ExecutionResult) {
	if c.txs == nil {
		return
	}

	status := domain.TxFailed
	if result.Success {
		status = domain.TxSuccess
	}
	tx := domain.Transaction{
		ID:            uuid.New().String(),
		TelegramID:    userID,
		WalletAddress: walletAddr,
		TxHash:        result.TxHash,
		TokenDenom:    tokenDenom,
		Action:        domain.ActionBuy,
		Amount:        buyAmount,
		Status:        status,
	}
	if info, err := domain.ParseTokenDenom(tokenDenom, ""); err == nil {
		tx.TokenName = info.Name
		tx.TokenSymbol = info.Symbol
	}
	if err := c.txs.Save(ctx, tx); err != nil {
		slog.Warn("failed to record transaction", "user", userID, "token", tokenDenom, "err", err)
	}
}

func pendingKey(userID int64, tokenDenom string) string {
	return fmt.Sprintf("%d:%s", userID, tokenDenom)
}

func failedResult(tokenDenom, msg string) domain.ExecutionResult {
	return domain.ExecutionResult{
		TokenDenom:  tokenDenom,
		Err:         msg,
		AmountSpent: "0",
	}
}
