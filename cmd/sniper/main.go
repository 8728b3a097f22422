package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"zigsniper/config"
	"zigsniper/internal/adapters/notify"
	"zigsniper/internal/adapters/storage"
	"zigsniper/internal/adapters/zigchain"
	"zigsniper/internal/application/monitor"
	"zigsniper/internal/application/sniper"
	"zigsniper/internal/crypt"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "scan chain state once, print tracked tokens and exit")
	holdings := flag.Int64("holdings", 0, "print holdings for the given user ID and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("zigsniper starting",
		"config", *configPath,
		"lcd", cfg.Chain.LCDBase,
		"token_interval", cfg.TokenPollInterval(),
		"pool_interval", cfg.PoolPollInterval(),
		"once", *once,
	)

	if cfg.Storage.EncryptionKey == "" {
		slog.Error("WALLET_ENCRYPTION_KEY is not set")
		os.Exit(1)
	}
	cipher, err := crypt.New(cfg.Storage.EncryptionKey)
	if err != nil {
		slog.Error("invalid wallet encryption key", "err", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN, cipher)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	client := zigchain.NewClient(cfg.Chain.LCDBase)
	registry := zigchain.NewRegistry(client, cfg.Chain.FactoryAddress)
	txClient := zigchain.NewTxClient(zigchain.TxConfig{
		Bin:            cfg.Chain.Bin,
		ChainID:        cfg.Chain.ChainID,
		Node:           cfg.Chain.RPCNode,
		GasPrices:      cfg.Chain.GasPrices,
		KeyringBackend: cfg.Chain.KeyringBackend,
		Timeout:        cfg.SubmitTimeout(),
	})

	console := notify.NewConsole()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *holdings != 0 {
		printHoldings(ctx, store, console, *holdings)
		return
	}

	resolver := sniper.NewResolver(txClient, registry, cfg.Sniping.MaxPairPages, cfg.Sniping.MaxSpread)
	coordinator := sniper.New(sniper.Config{
		GasReserveUzig: cfg.Sniping.GasReserveUzig,
		SubmitTimeout:  cfg.SubmitTimeout(),
	}, store.Users, store.Wallets, client, resolver, store.Transactions, console)

	mon := monitor.New(monitor.Config{
		TokenPollInterval: cfg.TokenPollInterval(),
		PoolPollInterval:  cfg.PoolPollInterval(),
	}, client, store.Tokens, console)
	mon.OnNewToken(coordinator.HandleNewToken)
	mon.OnGraduation(coordinator.HandleGraduation)

	if err := mon.Start(ctx); err != nil {
		slog.Error("monitor failed to start", "err", err)
		os.Exit(1)
	}

	if *once {
		mon.Stop()
		printRecentTokens(ctx, store, console)
		return
	}

	<-ctx.Done()
	mon.Stop()

	if n := coordinator.PendingCount(); n > 0 {
		slog.Warn("shutting down with attempts in flight", "count", n)
	}
	slog.Info("zigsniper stopped cleanly")
}

func printRecentTokens(ctx context.Context, store *storage.SQLiteStorage, console *notify.Console) {
	tokens, err := store.Tokens.GetRecent(ctx, 20)
	if err != nil {
		slog.Error("failed to load tracked tokens", "err", err)
		os.Exit(1)
	}
	console.ShowRecentTokens(tokens)
}

func printHoldings(ctx context.Context, store *storage.SQLiteStorage, console *notify.Console, userID int64) {
	holdings, err := store.Transactions.GetHoldings(ctx, userID)
	if err != nil {
		slog.Error("failed to load holdings", "err", err, "user", userID)
		os.Exit(1)
	}
	console.ShowHoldings(userID, holdings)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
