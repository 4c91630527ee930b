package helius

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Helius API host.
const DefaultBaseURL = "https://api.helius.xyz"

// maxBatch is the API's per-request signature limit.
const maxBatch = 100

// Client talks to the Helius enriched-transactions API.
// It requires an API key; NewClient returns nil if none is set.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a Client. baseURL falls back to DefaultBaseURL.
// Returns nil if apiKey is empty.
func NewClient(baseURL, apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type parseRequest struct {
	Transactions []string `json:"transactions"`
}

// apiError is the error body the API returns on a non-2xx response.
type apiError struct {
	Error string `json:"error"`
}

// FetchTransactions looks up parsed transactions for the given signatures.
// Requests above the per-call limit are split into sequential chunks; the
// returned slice follows the API's response order. Signatures the API does
// not know are simply absent from the result.
func (c *Client) FetchTransactions(signatures []string) ([]*ParsedTransaction, error) {
	var all []*ParsedTransaction
	for len(signatures) > 0 {
		n := min(len(signatures), maxBatch)
		batch, err := c.fetchBatch(signatures[:n])
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		signatures = signatures[n:]
	}
	return all, nil
}

func (c *Client) fetchBatch(signatures []string) ([]*ParsedTransaction, error) {
	reqBody, _ := json.Marshal(parseRequest{Transactions: signatures})

	endpoint := fmt.Sprintf("%s/v0/transactions?api-key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	resp, err := c.client.Post(endpoint, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		// Transport errors echo the full request URL; keep the key out.
		return nil, fmt.Errorf("transaction lookup request: %s", c.redact(err.Error()))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading lookup response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if json.Unmarshal(body, &ae) == nil && ae.Error != "" {
			return nil, fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, ae.Error)
		}
		return nil, fmt.Errorf("API error: HTTP %d: %s", resp.StatusCode, excerpt(body))
	}

	// The endpoint returns a JSON array of transaction objects. Decode each
	// element separately so the original payload can be kept alongside the
	// typed fields.
	var rawTxs []json.RawMessage
	if err := json.Unmarshal(body, &rawTxs); err != nil {
		return nil, fmt.Errorf("parsing lookup response: %w", err)
	}

	txs := make([]*ParsedTransaction, 0, len(rawTxs))
	for _, raw := range rawTxs {
		tx := &ParsedTransaction{}
		if err := json.Unmarshal(raw, tx); err != nil {
			return nil, fmt.Errorf("parsing transaction object: %w", err)
		}
		if tx.Signature == "" {
			return nil, fmt.Errorf("transaction object missing signature")
		}
		tx.Raw = raw
		txs = append(txs, tx)
	}
	return txs, nil
}

// redact masks the API key wherever it appears in a message.
func (c *Client) redact(s string) string {
	s = strings.ReplaceAll(s, url.QueryEscape(c.apiKey), "REDACTED")
	return strings.ReplaceAll(s, c.apiKey, "REDACTED")
}

// excerpt truncates a response body for error messages.
func excerpt(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "…"
	}
	return string(body)
}
