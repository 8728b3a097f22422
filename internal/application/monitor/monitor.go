package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"zigsniper/internal/domain"
	"zigsniper/internal/ports"
)

const (
	defaultTokenPollInterval = 1 * time.Second
	defaultPoolPollInterval  = 2 * time.Second

	poolKeyPrefix = "token:"
)

// Config holds the monitor's polling intervals.
type Config struct {
	TokenPollInterval time.Duration
	PoolPollInterval  time.Duration
}

// DefaultConfig returns the production polling cadence.
func DefaultConfig() Config {
	return Config{
		TokenPollInterval: defaultTokenPollInterval,
		PoolPollInterval:  defaultPoolPollInterval,
	}
}

// TokenHandler receives each newly detected token exactly once.
type TokenHandler func(ctx context.Context, ev domain.NewTokenEvent)

// GraduationHandler receives each token-to-pool transition exactly once.
type GraduationHandler func(ctx context.Context, ev domain.GraduationEvent)

// Stats is a point-in-time snapshot of the monitor's state.
type Stats struct {
	KnownTokens   int
	KnownPoolKeys int
	Running       bool
}

// Monitor polls chain state on two independent timers and emits an event
// the first time it sees a token or a pool membership. The known sets only
// grow while the process lives; a restart re-seeds them from chain state
// without emitting, so pre-existing entities never produce events.
type Monitor struct {
	cfg      Config
	chain    ports.ChainQuery
	tokens   ports.TokenRepo
	notifier ports.Notifier

	mu          sync.Mutex
	running     bool
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	knownTokens map[string]domain.TokenInfo
	knownPools  map[string]struct{}

	onNewToken   []TokenHandler
	onGraduation []GraduationHandler
}

// New creates a monitor. tokens may be nil when detection persistence is
// not wanted (tests); chain and notifier are required.
func New(cfg Config, chain ports.ChainQuery, tokens ports.TokenRepo, notifier ports.Notifier) *Monitor {
	if cfg.TokenPollInterval <= 0 {
		cfg.TokenPollInterval = defaultTokenPollInterval
	}
	if cfg.PoolPollInterval <= 0 {
		cfg.PoolPollInterval = defaultPoolPollInterval
	}
	return &Monitor{
		cfg:         cfg,
		chain:       chain,
		tokens:      tokens,
		notifier:    notifier,
		knownTokens: make(map[string]domain.TokenInfo),
		knownPools:  make(map[string]struct{}),
	}
}

// OnNewToken registers a handler for new-token events. Handlers must be
// registered before Start; they run sequentially on the poll goroutine.
func (m *Monitor) OnNewToken(h TokenHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onNewToken = append(m.onNewToken, h)
}

// OnGraduation registers a handler for graduation events.
func (m *Monitor) OnGraduation(h GraduationHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onGraduation = append(m.onGraduation, h)
}

// Start seeds the known sets from a full chain scan, then begins polling.
// Seeding emits no events. Calling Start while running is a no-op.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	if err := m.seed(ctx); err != nil {
		return fmt.Errorf("monitor.Start: %w", err)
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	pollCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true

	m.wg.Add(2)
	go m.pollLoop(pollCtx, m.cfg.TokenPollInterval, m.pollTokens)
	go m.pollLoop(pollCtx, m.cfg.PoolPollInterval, m.pollPools)
	m.mu.Unlock()

	slog.Info("monitor started",
		"token_interval", m.cfg.TokenPollInterval,
		"pool_interval", m.cfg.PoolPollInterval,
	)
	return nil
}

// Stop halts scheduling immediately. An in-flight query may finish, but
// its result is dropped: emission is guarded by the running flag, not
// just timer cancellation. Calling Stop while stopped is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	m.mu.Unlock()

	m.wg.Wait()
	slog.Info("monitor stopped")
}

// GetStats returns a snapshot of the known sets and run state.
func (m *Monitor) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		KnownTokens:   len(m.knownTokens),
		KnownPoolKeys: len(m.knownPools),
		Running:       m.running,
	}
}

// seed populates the known sets without emitting.
func (m *Monitor) seed(ctx context.Context) error {
	tokens, err := m.chain.ListNewTokens(ctx)
	if err != nil {
		return fmt.Errorf("seed tokens: %w", err)
	}
	pools, err := m.chain.ListPools(ctx)
	if err != nil {
		return fmt.Errorf("seed pools: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tok := range tokens {
		m.knownTokens[tok.Denom] = tok
	}
	for _, pool := range pools {
		for _, key := range poolKeys(pool) {
			m.knownPools[key] = struct{}{}
		}
	}
	slog.Info("monitor seeded", "tokens", len(m.knownTokens), "pool_keys", len(m.knownPools))
	return nil
}

func (m *Monitor) pollLoop(ctx context.Context, interval time.Duration, cycle func(context.Context)) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cycle(ctx)
		}
	}
}

// pollTokens diffs the latest token listing against the known set and
// emits one event per newly seen denom, in query order. Each denom is
// added to the set before its event fires, so a panicking handler cannot
// cause a duplicate emission on a later cycle.
func (m *Monitor) pollTokens(ctx context.Context) {
	tokens, err := m.chain.ListNewTokens(ctx)
	if err != nil {
		slog.Warn("token poll failed, skipping cycle", "err", err)
		return
	}

	now := time.Now()
	for _, tok := range tokens {
		m.mu.Lock()
		if !m.running {
			m.mu.Unlock()
			return
		}
		if _, known := m.knownTokens[tok.Denom]; known {
			m.mu.Unlock()
			continue
		}
		m.knownTokens[tok.Denom] = tok
		handlers := m.onNewToken
		m.mu.Unlock()

		slog.Info("new token detected", "denom", tok.Denom, "symbol", tok.Symbol)
		if m.tokens != nil {
			if err := m.tokens.Create(ctx, tok); err != nil {
				slog.Warn("failed to persist token", "denom", tok.Denom, "err", err)
			}
		}
		m.notifier.ReportNewToken(ctx, tok)

		ev := domain.NewTokenEvent{Token: tok, At: now}
		for _, h := range handlers {
			h(ctx, ev)
		}
	}
}

// pollPools diffs pool membership keys. A new key whose denom matches a
// known token emits a graduation event for that token.
func (m *Monitor) pollPools(ctx context.Context) {
	pools, err := m.chain.ListPools(ctx)
	if err != nil {
		slog.Warn("pool poll failed, skipping cycle", "err", err)
		return
	}

	now := time.Now()
	for _, pool := range pools {
		for _, key := range poolKeys(pool) {
			m.mu.Lock()
			if !m.running {
				m.mu.Unlock()
				return
			}
			if _, known := m.knownPools[key]; known {
				m.mu.Unlock()
				continue
			}
			m.knownPools[key] = struct{}{}

			denom := strings.TrimPrefix(key, poolKeyPrefix)
			tok, tracked := m.knownTokens[denom]
			handlers := m.onGraduation
			m.mu.Unlock()

			if !tracked {
				tok = domain.TokenInfo{Denom: denom}
			}

			slog.Info("token graduated", "denom", denom, "pool", pool.PoolID)
			if m.tokens != nil {
				if err := m.tokens.MarkGraduated(ctx, denom, pool.PoolID); err != nil {
					slog.Warn("failed to mark graduation", "denom", denom, "err", err)
				}
			}
			m.notifier.ReportGraduation(ctx, tok, pool)

			ev := domain.GraduationEvent{Token: tok, Pool: pool, At: now}
			for _, h := range handlers {
				h(ctx, ev)
			}
		}
	}
}

// poolKeys derives one membership key per pool side whose denom looks
// like a factory token denom.
func poolKeys(pool domain.PoolInfo) []string {
	var keys []string
	for _, denom := range []string{pool.BaseDenom, pool.QuoteDenom} {
		if domain.IsTokenDenom(denom) {
			keys = append(keys, poolKeyPrefix+denom)
		}
	}
	return keys
}
