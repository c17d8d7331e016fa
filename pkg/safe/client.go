package safe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
)

// APIError is a non-2xx response from the daemon. It unwraps to the
// matching domain sentinel so callers can use errors.Is.
type APIError struct {
	StatusCode int
	ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("safe API error (status %d): %s", e.StatusCode, e.ErrorResponse.Error)
}

func (e *APIError) Unwrap() error {
	return domain.KindByName(e.Code)
}

// Client talks to a safectl daemon
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the daemon at baseURL, e.g. http://127.0.0.1:8545
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient replaces the underlying http.Client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, &apiErr.ErrorResponse); err != nil || apiErr.ErrorResponse.Error == "" {
			apiErr.ErrorResponse.Error = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func safePath(addr common.Address, suffix string) string {
	return "/safes/" + addr.Hex() + suffix
}

// ListSafes returns every safe known to the daemon
func (c *Client) ListSafes(ctx context.Context) ([]*SafeAccount, error) {
	var out []*SafeAccount
	if err := c.do(ctx, http.MethodGet, "/safes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSafe creates a safe
func (c *Client) CreateSafe(ctx context.Context, req CreateSafeRequest) (*CreateResult, error) {
	var out CreateResult
	if err := c.do(ctx, http.MethodPost, "/safes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSafe returns the materialized view of a safe
func (c *Client) GetSafe(ctx context.Context, addr common.Address) (*SafeView, error) {
	var out SafeView
	if err := c.do(ctx, http.MethodGet, safePath(addr, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IsModuleEnabled reports whether module may act on the safe
func (c *Client) IsModuleEnabled(ctx context.Context, addr, module common.Address) (bool, error) {
	var out ModuleStatus
	if err := c.do(ctx, http.MethodGet, safePath(addr, "/modules/"+module.Hex()), nil, &out); err != nil {
		return false, err
	}
	return out.Enabled, nil
}

// CanSpend evaluates amount (USD base units) against the safe's limits
func (c *Client) CanSpend(ctx context.Context, addr common.Address, amount uint64) (*SpendingReport, error) {
	q := url.Values{"amount": []string{strconv.FormatUint(amount, 10)}}
	var out SpendingReport
	if err := c.do(ctx, http.MethodGet, safePath(addr, "/spending?"+q.Encode()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Digest computes the digest of an operation at the safe's current nonce
func (c *Client) Digest(ctx context.Context, addr common.Address, req DigestRequest) (*Digest, error) {
	var out Digest
	if err := c.do(ctx, http.MethodPost, safePath(addr, "/digest"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Execute submits a signed operation
func (c *Client) Execute(ctx context.Context, addr common.Address, req OperationRequest) (*OperationResult, error) {
	var out OperationResult
	if err := c.do(ctx, http.MethodPost, safePath(addr, "/operations"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Spend settles a card transaction
func (c *Client) Spend(ctx context.Context, addr common.Address, req SpendRequest) (*SettleResult, error) {
	var out SettleResult
	if err := c.do(ctx, http.MethodPost, safePath(addr, "/spend"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessWithdrawal releases a matured withdrawal
func (c *Client) ProcessWithdrawal(ctx context.Context, addr common.Address) (*SettleResult, error) {
	var out SettleResult
	if err := c.do(ctx, http.MethodPost, safePath(addr, "/withdrawal/process"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
