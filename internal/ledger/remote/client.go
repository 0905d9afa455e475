// Package remote implements the ledger interfaces against the hosted payment
// ledger service over JSON HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"partypay/internal/ledger"
	"partypay/internal/log"
)

const defaultTimeout = 30 * time.Second

// Config holds the connection settings for the remote ledger.
type Config struct {
	BaseURL string
	// Token is the fallback bearer token used when the request context does
	// not carry a caller token.
	Token   string
	Timeout time.Duration
}

// Client talks to the remote ledger service. It satisfies ledger.Store and
// ledger.SessionStore.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *log.Logger
}

func New(cfg Config, logger *log.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.WithComponent(log.ComponentLedger),
	}
}

// CreateEntry posts the record keyed by the caller-minted id; the service
// persists the id as given.
func (c *Client) CreateEntry(ctx context.Context, id string, rec ledger.EntryRecord) (ledger.StoredEntry, error) {
	var out ledger.StoredEntry
	in := ledger.StoredEntry{ID: id, EntryRecord: rec}
	if err := c.do(ctx, http.MethodPost, "/api/entries", in, &out); err != nil {
		return ledger.StoredEntry{}, fmt.Errorf("create entry: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateEntry(ctx context.Context, id string, rec ledger.EntryRecord) (ledger.StoredEntry, error) {
	var out ledger.StoredEntry
	path := "/api/entries/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, rec, &out); err != nil {
		return ledger.StoredEntry{}, fmt.Errorf("update entry %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	path := "/api/entries/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return nil
}

func (c *Client) AllEntries(ctx context.Context) ([]ledger.StoredEntry, error) {
	var out []ledger.StoredEntry
	if err := c.do(ctx, http.MethodGet, "/api/entries", nil, &out); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if out == nil {
		out = []ledger.StoredEntry{}
	}
	return out, nil
}

func (c *Client) LookupMaster(ctx context.Context, partyName string) (ledger.NamedMaster, bool, error) {
	var out ledger.NamedMaster
	path := "/api/masters/lookup?name=" + url.QueryEscape(partyName)
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return ledger.NamedMaster{}, false, nil
		}
		return ledger.NamedMaster{}, false, fmt.Errorf("lookup master: %w", err)
	}
	return out, true, nil
}

func (c *Client) UpdateMasters(ctx context.Context, masters []ledger.NamedMaster) error {
	if err := c.do(ctx, http.MethodPut, "/api/masters", masters, nil); err != nil {
		return fmt.Errorf("update masters: %w", err)
	}
	return nil
}

func (c *Client) Profile(ctx context.Context, token string) (ledger.UserProfile, error) {
	var out ledger.UserProfile
	ctx = ledger.ContextWithToken(ctx, token)
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, &out); err != nil {
		return ledger.UserProfile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, token string, profile ledger.UserProfile) (ledger.UserProfile, error) {
	var out ledger.UserProfile
	ctx = ledger.ContextWithToken(ctx, token)
	if err := c.do(ctx, http.MethodPost, "/api/session/register", profile, &out); err != nil {
		return ledger.UserProfile{}, fmt.Errorf("register profile: %w", err)
	}
	return out, nil
}

// errorBody is the shape the remote service uses for failures.
type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.bearer(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call ledger service: %w", err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Ledger request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		log.FieldDuration, time.Since(start).String())

	if resp.StatusCode >= 400 {
		return c.statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// bearer picks the caller's token when the request context carries one and
// falls back to the configured service token.
func (c *Client) bearer(ctx context.Context) string {
	if token, ok := ledger.CallerToken(ctx); ok {
		return token
	}
	return c.token
}

func (c *Client) statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil && eb.Error != "" {
		return statusToError(resp.StatusCode, eb.Error)
	}
	return statusToError(resp.StatusCode, http.StatusText(resp.StatusCode))
}

func statusToError(status int, msg string) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ledger.ErrNotFound, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ledger.ErrUnauthorized, msg)
	default:
		return fmt.Errorf("ledger service returned %d: %s", status, msg)
	}
}
