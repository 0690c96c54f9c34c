// Package fedapay is a small client for the FedaPay transactions API.
package fedapay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	SandboxBaseURL     = "https://sandbox-api.fedapay.com/v1"
	LiveBaseURL        = "https://api.fedapay.com/v1"
	SandboxCheckoutURL = "https://sandbox-process.fedapay.com"
	LiveCheckoutURL    = "https://process.fedapay.com"
)

// Status is the lifecycle state FedaPay reports for a transaction
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
	StatusCanceled Status = "canceled"

	// reported after approval
	StatusTransferred Status = "transferred"
	StatusRefunded    Status = "refunded"
)

// Known reports whether s is a status FedaPay documents
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDeclined, StatusCanceled, StatusTransferred, StatusRefunded:
		return true
	}
	return false
}

// Settled folds post-approval statuses into pending, approved, declined or canceled.
// A transferred payment was approved and paid out; a refunded one no longer pays for anything.
func (s Status) Settled() Status {
	switch s {
	case StatusTransferred:
		return StatusApproved
	case StatusRefunded:
		return StatusCanceled
	}
	return s
}

var (
	ErrNoTransaction = errors.New("fedapay: transaction missing from response")
	ErrNoCheckoutURL = errors.New("fedapay: transaction has neither payment_url nor payment_token")
)

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fedapay: %s (status %d)", e.Message, e.StatusCode)
}

// TransactionID accepts both numeric and string ids
type TransactionID string

func (id *TransactionID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TransactionID(s)
		return nil
	}
	if string(b) == "null" {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = TransactionID(n.String())
	return nil
}

func (id TransactionID) String() string { return string(id) }

type Currency struct {
	ISO string `json:"iso"`
}

type PhoneNumber struct {
	Number  string `json:"number"`
	Country string `json:"country"`
}

type Customer struct {
	Firstname   string       `json:"firstname"`
	Lastname    string       `json:"lastname"`
	Email       string       `json:"email,omitempty"`
	PhoneNumber *PhoneNumber `json:"phone_number,omitempty"`
}

type CreateTransactionRequest struct {
	Description string   `json:"description"`
	Amount      int64    `json:"amount"`
	Currency    Currency `json:"currency"`
	Customer    Customer `json:"customer"`
	CallbackURL string   `json:"callback_url,omitempty"`
	Mode        string   `json:"mode,omitempty"`
}

type Transaction struct {
	ID           TransactionID `json:"id"`
	Reference    string        `json:"reference"`
	Description  string        `json:"description"`
	Amount       int64         `json:"amount"`
	Status       Status        `json:"status"`
	Mode         string        `json:"mode"`
	PaymentToken string        `json:"payment_token"`
	PaymentURL   string        `json:"payment_url"`
}

type Config struct {
	SecretKey   string
	Environment string // sandbox or live
	BaseURL     string // overrides the environment default
	CheckoutURL string // overrides the environment default
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

type Client struct {
	secretKey   string
	baseURL     string
	checkoutURL string
	timeout     time.Duration
	http        *http.Client
	log         *slog.Logger
}

func NewClient(cfg Config) *Client {
	live := strings.EqualFold(cfg.Environment, "live")

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = SandboxBaseURL
		if live {
			baseURL = LiveBaseURL
		}
	}
	checkoutURL := cfg.CheckoutURL
	if checkoutURL == "" {
		checkoutURL = SandboxCheckoutURL
		if live {
			checkoutURL = LiveCheckoutURL
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Client{
		secretKey:   cfg.SecretKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		checkoutURL: strings.TrimRight(checkoutURL, "/"),
		timeout:     timeout,
		http:        httpClient,
		log:         log,
	}
}

// CreateTransaction opens a payment session for req
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*Transaction, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("fedapay: marshal transaction: %w", err)
	}

	tx, err := c.do(ctx, http.MethodPost, "/transactions", body)
	if err != nil {
		return nil, err
	}
	c.log.Debug("fedapay transaction created", "transaction_id", tx.ID.String(), "status", string(tx.Status))
	return tx, nil
}

// GetTransaction fetches the current state of a transaction
func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	if id == "" {
		return nil, errors.New("fedapay: transaction id is required")
	}
	return c.do(ctx, http.MethodGet, "/transactions/"+id, nil)
}

// CheckoutURL returns the hosted payment page for tx.
// payment_url wins, then a payment_token that is already a URL, then checkout host + token.
func (c *Client) CheckoutURL(tx *Transaction) string {
	if tx == nil {
		return ""
	}
	if isHTTPURL(tx.PaymentURL) {
		return tx.PaymentURL
	}
	if isHTTPURL(tx.PaymentToken) {
		return tx.PaymentToken
	}
	token := tx.PaymentToken
	if token == "" {
		token = tx.PaymentURL
	}
	if token == "" {
		return ""
	}
	return c.checkoutURL + "/" + token
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("fedapay: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fedapay: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("fedapay: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
		c.log.Warn("fedapay request failed", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	return decodeTransaction(raw)
}

// decodeTransaction unwraps the transaction from "v1/transaction", "transaction" or "v1.transaction"
func decodeTransaction(raw []byte) (*Transaction, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("fedapay: decode response: %w", err)
	}

	payload := firstObject(envelope["v1/transaction"], envelope["transaction"])
	if payload == nil {
		var v1 map[string]json.RawMessage
		if json.Unmarshal(envelope["v1"], &v1) == nil {
			payload = firstObject(v1["transaction"])
		}
	}
	if payload == nil {
		return nil, ErrNoTransaction
	}

	var tx Transaction
	if err := json.Unmarshal(payload, &tx); err != nil {
		return nil, fmt.Errorf("fedapay: decode transaction: %w", err)
	}
	return &tx, nil
}

func firstObject(candidates ...json.RawMessage) json.RawMessage {
	for _, c := range candidates {
		c = bytes.TrimSpace(c)
		if len(c) > 0 && c[0] == '{' {
			return c
		}
	}
	return nil
}

// errorMessage picks message, then error, then v1.message, then the status text
func errorMessage(raw []byte, status int) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
		V1      struct {
			Message string `json:"message"`
		} `json:"v1"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		var s string
		if json.Unmarshal(body.Error, &s) == nil && s != "" {
			return s
		}
		if body.V1.Message != "" {
			return body.V1.Message
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unexpected response"
}

// SplitName turns a passenger name into firstname/lastname with the
// "Client" and "BusBenin" placeholders for missing parts
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	first, last = "Client", "BusBenin"
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	return first, last
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
