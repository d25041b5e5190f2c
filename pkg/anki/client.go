// Package anki pushes finished cards to a running Anki instance through the
// AnkiConnect add-on's JSON-RPC endpoint.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// DefaultURL is where AnkiConnect listens out of the box.
const DefaultURL = "http://localhost:8765"

// apiVersion is the AnkiConnect protocol version this client speaks.
const apiVersion = 6

// Client is a thin AnkiConnect JSON-RPC client. Calls go through a circuit
// breaker so a dead or wedged Anki instance fails fast instead of stalling
// every card in the batch.
type Client struct {
	url     string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
}

// NewClient builds a client for the given AnkiConnect URL. An empty url
// means DefaultURL.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
			Name:    "ankiconnect",
			Timeout: 15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

type rpcRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Invoke performs one AnkiConnect action and returns the raw result.
func (c *Client) Invoke(ctx context.Context, action string, params any) (json.RawMessage, error) {
	return c.breaker.Execute(func() (json.RawMessage, error) {
		return c.post(ctx, action, params)
	})
}

func (c *Client) post(ctx context.Context, action string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{Action: action, Version: apiVersion, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ankiconnect unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ankiconnect returned status %d", resp.StatusCode)
	}

	var rpc rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	if rpc.Error != nil {
		return nil, fmt.Errorf("ankiconnect %s: %s", action, *rpc.Error)
	}
	return rpc.Result, nil
}

// Version reports the AnkiConnect protocol version of the running instance.
func (c *Client) Version(ctx context.Context) (int, error) {
	raw, err := c.Invoke(ctx, "version", nil)
	if err != nil {
		return 0, err
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("unexpected version payload: %w", err)
	}
	return v, nil
}

// CreateDeck creates the deck if it does not already exist.
func (c *Client) CreateDeck(ctx context.Context, deck string) error {
	_, err := c.Invoke(ctx, "createDeck", map[string]any{"deck": deck})
	return err
}

// StoreMediaFile uploads base64 data (no data-URI prefix) into Anki's media
// collection under filename.
func (c *Client) StoreMediaFile(ctx context.Context, filename, base64Data string) error {
	_, err := c.Invoke(ctx, "storeMediaFile", map[string]any{
		"filename": filename,
		"data":     base64Data,
	})
	return err
}

// Note is an AnkiConnect addNote payload.
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
	Options   NoteOptions       `json:"options"`
}

// NoteOptions controls AnkiConnect duplicate handling.
type NoteOptions struct {
	AllowDuplicate bool   `json:"allowDuplicate"`
	DuplicateScope string `json:"duplicateScope"`
}

// AddNote adds one note and returns its id.
func (c *Client) AddNote(ctx context.Context, note Note) (int64, error) {
	raw, err := c.Invoke(ctx, "addNote", map[string]any{"note": note})
	if err != nil {
		return 0, err
	}
	var id int64
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, fmt.Errorf("unexpected addNote payload: %w", err)
	}
	return id, nil
}
