package zigchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"zigsniper/internal/ports"
)

// TxClient signs and broadcasts CosmWasm execute transactions through the
// zigchaind CLI. Keys live in the node keyring; the signer secret resolved
// by the wallet store is the keyring key name for the wallet, so private
// key material never passes through this process.
// Implements ports.ChainTx.
type TxClient struct {
	bin            string
	chainID        string
	node           string
	gasPrices      string
	keyringBackend string
	timeout        time.Duration
}

// TxConfig configures the CLI invocation.
type TxConfig struct {
	Bin            string // zigchaind binary, default "zigchaind"
	ChainID        string
	Node           string // RPC endpoint for broadcast
	GasPrices      string // e.g. "0.0025uzig"
	KeyringBackend string // default "test"
	Timeout        time.Duration
}

// NewTxClient creates a TxClient. A zero Timeout disables the deadline,
// matching the source behavior of letting a hung broadcast block its attempt.
func NewTxClient(cfg TxConfig) *TxClient {
	if cfg.Bin == "" {
		cfg.Bin = "zigchaind"
	}
	if cfg.KeyringBackend == "" {
		cfg.KeyringBackend = "test"
	}
	return &TxClient{
		bin:            cfg.Bin,
		chainID:        cfg.ChainID,
		node:           cfg.Node,
		gasPrices:      cfg.GasPrices,
		keyringBackend: cfg.KeyringBackend,
		timeout:        cfg.Timeout,
	}
}

// cliTxResponse is the JSON the CLI prints after a sync broadcast.
type cliTxResponse struct {
	Code   int    `json:"code"`
	TxHash string `json:"txhash"`
	RawLog string `json:"raw_log"`
}

// SubmitBondingCurveBuy executes {"buy_token":{}} on the token's own
// contract with the input funds attached.
func (t *TxClient) SubmitBondingCurveBuy(ctx context.Context, signerSecret, contractAddress, fundsInDenom, fundsInAmount string) (ports.TxResult, error) {
	msg := map[string]any{"buy_token": map[string]any{}}
	return t.execute(ctx, signerSecret, contractAddress, msg, fundsInAmount+fundsInDenom)
}

// SubmitDexSwap executes a swap on a specific pair contract, offering the
// input denom and asking the pair's native denom for the target token.
func (t *TxClient) SubmitDexSwap(ctx context.Context, signerSecret, pairContract, offerDenom, offerAmount, askDenom, maxSpread string) (ports.TxResult, error) {
	msg := map[string]any{
		"swap": map[string]any{
			"offer_asset": map[string]any{
				"info":   map[string]any{"native_token": map[string]any{"denom": offerDenom}},
				"amount": offerAmount,
			},
			"ask_asset_info": map[string]any{"native_token": map[string]any{"denom": askDenom}},
			"max_spread":     maxSpread,
		},
	}
	return t.execute(ctx, signerSecret, pairContract, msg, offerAmount+offerDenom)
}

// execute runs `zigchaind tx wasm execute` and parses the broadcast response.
// A transport or simulation failure surfaces as an error; a non-zero code in
// the response is returned in the result for the caller to interpret.
func (t *TxClient) execute(ctx context.Context, keyName, contract string, msg map[string]any, amount string) (ports.TxResult, error) {
	msgJSON, err := json.Marshal(msg)
	if err != nil {
		return ports.TxResult{}, fmt.Errorf("zigchain.execute: marshal msg: %w", err)
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := []string{
		"tx", "wasm", "execute", contract, string(msgJSON),
		"--amount", amount,
		"--from", keyName,
		"--chain-id", t.chainID,
		"--node", t.node,
		"--gas", "auto",
		"--gas-adjustment", "1.5",
		"--gas-prices", t.gasPrices,
		"--keyring-backend", t.keyringBackend,
		"--broadcast-mode", "sync",
		"--output", "json",
		"-y",
	}

	cmd := exec.CommandContext(ctx, t.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("broadcasting tx", "contract", contract, "amount", amount)

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return ports.TxResult{}, fmt.Errorf("zigchain.execute: %s", detail)
	}

	var resp cliTxResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return ports.TxResult{}, fmt.Errorf("zigchain.execute: parse output %q: %w",
			strings.TrimSpace(stdout.String()), err)
	}

	return ports.TxResult{Code: resp.Code, TxHash: resp.TxHash, RawLog: resp.RawLog}, nil
}
