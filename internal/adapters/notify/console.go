package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"

	"zigsniper/internal/domain"
)

// Console implements ports.Notifier, writing alerts and tables to one
// io.Writer. Safe for concurrent use: the monitor and parallel execution
// attempts all report through the same instance.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	ids *tokenIDs
}

// NewConsole creates a notifier that writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout, ids: newTokenIDs(defaultIDCapacity)}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w, ids: newTokenIDs(defaultIDCapacity)}
}

// ReportNewToken announces a freshly detected token.
func (c *Console) ReportNewToken(_ context.Context, token domain.TokenInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.ids.register(token.Denom)
	fmt.Fprintf(c.out, "[%s] NEW TOKEN #%s %s (%s) by %s\n    %s\n",
		timestamp(), id, token.Name, token.Symbol, shorten(token.Creator), token.Denom)
}

// ReportGraduation announces a token's move to an external pool.
func (c *Console) ReportGraduation(_ context.Context, token domain.TokenInfo, pool domain.PoolInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.ids.register(token.Denom)
	fmt.Fprintf(c.out, "[%s] GRADUATED #%s %s (%s) → pool %s\n",
		timestamp(), id, token.Name, token.Symbol, pool.PoolID)
}

// ReportExecutionResult delivers the outcome of one buy attempt.
func (c *Console) ReportExecutionResult(_ context.Context, userID int64, result domain.ExecutionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if result.Success {
		fmt.Fprintf(c.out, "[%s] SNIPE OK user=%d token=%s spent=%s tx=%s\n",
			timestamp(), userID, result.TokenDenom,
			domain.FormatAmount(result.AmountSpent, domain.NativeDenom), result.TxHash)
		return
	}
	fmt.Fprintf(c.out, "[%s] SNIPE FAILED user=%d token=%s: %s\n",
		timestamp(), userID, result.TokenDenom, result.Err)
}

// ShowRecentTokens prints the latest tracked tokens as a table.
func (c *Console) ShowRecentTokens(tokens []domain.TrackedToken) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(tokens) == 0 {
		fmt.Fprintf(c.out, "[%s] no tokens tracked yet\n", timestamp())
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Symbol", "Name", "Status", "Pool", "First seen")
	for _, tok := range tokens {
		status := tok.BondingStatus
		if tok.Graduated {
			status = "graduated"
		}
		table.Append(
			c.ids.register(tok.Denom),
			tok.Symbol,
			tok.Name,
			status,
			tok.PoolID,
			tok.FirstSeenAt.Format("01-02 15:04"),
		)
	}
	table.Render()
}

// ShowHoldings prints a user's net positions as a table.
func (c *Console) ShowHoldings(userID int64, holdings []domain.TokenHolding) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(holdings) == 0 {
		fmt.Fprintf(c.out, "[%s] user %d holds no tokens\n", timestamp(), userID)
		return
	}

	fmt.Fprintf(c.out, "\n[%s] holdings for user %d\n", timestamp(), userID)
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Symbol", "Bought", "Sold", "Balance")
	for _, h := range holdings {
		table.Append(
			c.ids.register(h.TokenDenom),
			h.TokenSymbol,
			h.TotalBought,
			h.TotalSold,
			h.Balance,
		)
	}
	table.Render()
}

// ResolveID maps a short display ID back to its full denom.
// Returns false if the ID was never issued or has been evicted.
func (c *Console) ResolveID(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ids.resolve(id)
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

func shorten(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-4:]
}
