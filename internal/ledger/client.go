package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/btcsuite/btcutil/base58"

	"fomolt3d-engine/internal/events"
	"fomolt3d-engine/internal/game"
)

const (
	gameAccountSize   = 8 + 207
	playerAccountSize = 8 + 107

	// Borsh offsets inside a player account, after the discriminator.
	playerOwnerOffset = 8
	playerRoundOffset = 8 + 32 + 8

	programDataPrefix = "Program data: "
)

// Client reads program state over the ledger's JSON-RPC HTTP endpoint.
type Client struct {
	url       string
	programID string
	http      *http.Client
}

// NewClient builds a client for one program on one RPC endpoint.
func NewClient(url, programID string, timeout time.Duration) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("rpc url required")
	}
	if err := game.ValidateAddress(programID); err != nil {
		return nil, fmt.Errorf("program id: %w", err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		url:       url,
		programID: programID,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: rpc status %d", method, resp.StatusCode)
	}
	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s: %w", method, envelope.Error)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
	}
	return nil
}

type programAccount struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data []string `json:"data"` // [payload, "base64"]
	} `json:"account"`
}

func (a programAccount) payload() ([]byte, error) {
	if len(a.Account.Data) < 1 {
		return nil, ErrBadAccountData
	}
	return base64.StdEncoding.DecodeString(a.Account.Data[0])
}

func (c *Client) programAccounts(ctx context.Context, filters []any) ([]programAccount, error) {
	var accounts []programAccount
	params := []any{c.programID, map[string]any{
		"encoding": "base64",
		"filters":  filters,
	}}
	if err := c.call(ctx, "getProgramAccounts", params, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func dataSizeFilter(size int) any {
	return map[string]any{"dataSize": size}
}

func memcmpFilter(offset int, raw []byte) any {
	return map[string]any{"memcmp": map[string]any{
		"offset": offset,
		"bytes":  base58.Encode(raw),
	}}
}

// GameSnapshot fetches every round account and returns the newest one.
// Each round lives in its own account, so the current round is the one
// with the highest round number.
func (c *Client) GameSnapshot(ctx context.Context) (*game.GameSnapshot, error) {
	accounts, err := c.programAccounts(ctx, []any{dataSizeFilter(gameAccountSize)})
	if err != nil {
		return nil, err
	}
	var newest *game.GameSnapshot
	for _, acc := range accounts {
		data, err := acc.payload()
		if err != nil {
			return nil, err
		}
		s, err := DecodeGameState(data)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", acc.Pubkey, err)
		}
		if newest == nil || s.Round > newest.Round {
			newest = s
		}
	}
	if newest == nil {
		return nil, ErrNoRound
	}
	return newest, nil
}

// Player fetches the player account owned by address.
func (c *Client) Player(ctx context.Context, address string) (*game.PlayerRecord, error) {
	raw, err := game.DecodeAddress(address)
	if err != nil {
		return nil, err
	}
	accounts, err := c.programAccounts(ctx, []any{
		dataSizeFilter(playerAccountSize),
		memcmpFilter(playerOwnerOffset, raw),
	})
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("player %s: %w", address, ErrNotFound)
	}
	data, err := accounts[0].payload()
	if err != nil {
		return nil, err
	}
	return DecodePlayerState(data)
}

// RoundPlayers lists every player account currently recorded in round.
func (c *Client) RoundPlayers(ctx context.Context, round uint64) ([]game.PlayerRecord, error) {
	var roundLE [8]byte
	binary.LittleEndian.PutUint64(roundLE[:], round)
	accounts, err := c.programAccounts(ctx, []any{
		dataSizeFilter(playerAccountSize),
		memcmpFilter(playerRoundOffset, roundLE[:]),
	})
	if err != nil {
		return nil, err
	}
	out := make([]game.PlayerRecord, 0, len(accounts))
	for _, acc := range accounts {
		data, err := acc.payload()
		if err != nil {
			return nil, err
		}
		rec, err := DecodePlayerState(data)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", acc.Pubkey, err)
		}
		out = append(out, *rec)
	}
	return out, nil
}

type signatureInfo struct {
	Signature string `json:"signature"`
	Err       any    `json:"err"`
}

type transactionResult struct {
	Meta struct {
		LogMessages []string `json:"logMessages"`
	} `json:"meta"`
}

// RecentEvents pulls the most recent program transactions and decodes the
// event payloads from their logs, oldest first. Log lines that are not
// program data, and data for record kinds the engine does not track, are
// skipped.
func (c *Client) RecentEvents(ctx context.Context, limit int) ([]events.Raw, error) {
	if limit <= 0 {
		limit = 20
	}
	var sigs []signatureInfo
	params := []any{c.programID, map[string]any{"limit": limit}}
	if err := c.call(ctx, "getSignaturesForAddress", params, &sigs); err != nil {
		return nil, err
	}

	var out []events.Raw
	// Signatures arrive newest first; walk backwards for chronology.
	for i := len(sigs) - 1; i >= 0; i-- {
		sig := sigs[i]
		if sig.Err != nil {
			continue
		}
		var tx transactionResult
		txParams := []any{sig.Signature, map[string]any{
			"encoding":                       "json",
			"maxSupportedTransactionVersion": 0,
		}}
		if err := c.call(ctx, "getTransaction", txParams, &tx); err != nil {
			return nil, err
		}
		for _, line := range tx.Meta.LogMessages {
			if !strings.HasPrefix(line, programDataPrefix) {
				continue
			}
			payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(line, programDataPrefix))
			if err != nil {
				continue
			}
			raw, ok, err := DecodeEvent(payload, sig.Signature)
			if err != nil {
				return nil, fmt.Errorf("tx %s: %w", sig.Signature, err)
			}
			if ok {
				out = append(out, raw)
			}
		}
	}
	return out, nil
}
