package helius

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// fixedTransport: replaces the HTTP client without needing a real server.
// ---------------------------------------------------------------------------

type fixedTransport struct {
	body string
	code int
	err  error

	gotURL  string
	gotBody string
}

func (ft *fixedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ft.gotURL = req.URL.String()
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		ft.gotBody = string(b)
	}
	if ft.err != nil {
		return nil, ft.err
	}
	return &http.Response{
		StatusCode: ft.code,
		Body:       io.NopCloser(strings.NewReader(ft.body)),
		Header:     make(http.Header),
	}, nil
}

func newMockClient(body string, code int) (*Client, *fixedTransport) {
	ft := &fixedTransport{body: body, code: code}
	c := NewClient("", "test-key")
	c.client = &http.Client{Transport: ft}
	return c, ft
}

const sampleTx = `{
  "signature": "5h3X",
  "description": "user swapped 1 SOL",
  "type": "SWAP",
  "source": "JUPITER",
  "fee": 5000,
  "feePayer": "FeePayer111",
  "slot": 245000001,
  "timestamp": 1700000000,
  "nativeTransfers": [{"fromUserAccount": "A", "toUserAccount": "B", "amount": 1000000000}],
  "tokenTransfers": [],
  "instructions": [
    {"accounts": ["A","B"], "data": "3Bxs", "programId": "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",
     "innerInstructions": [{"accounts": ["A"], "data": "", "programId": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"}]},
    {"accounts": [], "data": "", "programId": "ComputeBudget111111111111111111111111111111", "innerInstructions": []}
  ],
  "transactionError": null
}`

// ---------------------------------------------------------------------------
// NewClient
// ---------------------------------------------------------------------------

func TestNewClientRequiresAPIKey(t *testing.T) {
	assert.Nil(t, NewClient("", ""))
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	c := NewClient("", "k")
	require.NotNil(t, c)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}

func TestNewClientCustomBaseURL(t *testing.T) {
	c := NewClient("http://localhost:1234", "k")
	require.NotNil(t, c)
	assert.Equal(t, "http://localhost:1234", c.baseURL)
}

// ---------------------------------------------------------------------------
// FetchTransactions
// ---------------------------------------------------------------------------

func TestFetchTransactionsDecodesFields(t *testing.T) {
	c, _ := newMockClient("["+sampleTx+"]", http.StatusOK)

	txs, err := c.FetchTransactions([]string{"5h3X"})
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "5h3X", tx.Signature)
	assert.Equal(t, "SWAP", tx.Type)
	assert.Equal(t, "JUPITER", tx.Source)
	assert.Equal(t, int64(5000), tx.Fee)
	assert.Equal(t, "FeePayer111", tx.FeePayer)
	assert.Equal(t, uint64(245000001), tx.Slot)
	assert.Equal(t, int64(1700000000), tx.Timestamp)
	require.Len(t, tx.NativeTransfers, 1)
	assert.Equal(t, int64(1000000000), tx.NativeTransfers[0].Amount)
	assert.False(t, tx.Failed())
}

func TestFetchTransactionsKeepsRawPayload(t *testing.T) {
	c, _ := newMockClient("["+sampleTx+"]", http.StatusOK)

	txs, err := c.FetchTransactions([]string{"5h3X"})
	require.NoError(t, err)
	require.Len(t, txs, 1)

	// Raw must be the original API object, not a re-marshal.
	var got, want map[string]any
	require.NoError(t, json.Unmarshal(txs[0].Raw, &got))
	require.NoError(t, json.Unmarshal([]byte(sampleTx), &want))
	assert.Equal(t, want, got)
	assert.Contains(t, string(txs[0].Raw), `"description"`)
}

func TestFetchTransactionsSendsSignaturesAndKey(t *testing.T) {
	c, ft := newMockClient("[]", http.StatusOK)

	_, err := c.FetchTransactions([]string{"sigA", "sigB"})
	require.NoError(t, err)

	assert.Contains(t, ft.gotURL, "/v0/transactions")
	assert.Contains(t, ft.gotURL, "api-key=test-key")

	var req parseRequest
	require.NoError(t, json.Unmarshal([]byte(ft.gotBody), &req))
	assert.Equal(t, []string{"sigA", "sigB"}, req.Transactions)
}

func TestFetchTransactionsMissingSignaturesAbsent(t *testing.T) {
	// Asking for two signatures but the API only knows one.
	c, _ := newMockClient("["+sampleTx+"]", http.StatusOK)

	txs, err := c.FetchTransactions([]string{"5h3X", "unknown"})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestFetchTransactionsChunksLargeBatches(t *testing.T) {
	calls := 0
	c := NewClient("", "k")
	c.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		b, _ := io.ReadAll(req.Body)
		var pr parseRequest
		require.NoError(t, json.Unmarshal(b, &pr))
		assert.LessOrEqual(t, len(pr.Transactions), maxBatch)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("[]")),
			Header:     make(http.Header),
		}, nil
	})}

	sigs := make([]string, 250)
	for i := range sigs {
		sigs[i] = fmt.Sprintf("sig%d", i)
	}
	_, err := c.FetchTransactions(sigs)
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "250 signatures must go out as 100+100+50")
}

func TestFetchTransactionsHTTPError(t *testing.T) {
	c, _ := newMockClient(`{"error":"invalid api key"}`, http.StatusUnauthorized)

	_, err := c.FetchTransactions([]string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Contains(t, err.Error(), "401")
}

func TestFetchTransactionsNonJSONError(t *testing.T) {
	c, _ := newMockClient("<html>bad gateway</html>", http.StatusBadGateway)

	_, err := c.FetchTransactions([]string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchTransactionsNetworkError(t *testing.T) {
	ft := &fixedTransport{err: errors.New("connection refused")}
	c := NewClient("", "k")
	c.client = &http.Client{Transport: ft}

	_, err := c.FetchTransactions([]string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchTransactionsNetworkErrorHidesAPIKey(t *testing.T) {
	// http.Client wraps transport failures in *url.Error, whose message
	// carries the request URL and with it the api-key query value.
	ft := &fixedTransport{err: errors.New("dial tcp: connection refused")}
	c := NewClient("", "sup3r-secret-key")
	c.client = &http.Client{Transport: ft}

	_, err := c.FetchTransactions([]string{"x"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "sup3r-secret-key")
	assert.Contains(t, err.Error(), "REDACTED")
}

func TestFetchTransactionsMalformedBody(t *testing.T) {
	c, _ := newMockClient(`{"not":"an array"}`, http.StatusOK)

	_, err := c.FetchTransactions([]string{"x"})
	require.Error(t, err)
}

func TestFetchTransactionsMissingSignatureField(t *testing.T) {
	c, _ := newMockClient(`[{"type":"UNKNOWN"}]`, http.StatusOK)

	_, err := c.FetchTransactions([]string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature")
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// ---------------------------------------------------------------------------
// ParsedTransaction helpers
// ---------------------------------------------------------------------------

func TestProgramIDsDedupsAndIncludesInner(t *testing.T) {
	var tx ParsedTransaction
	require.NoError(t, json.Unmarshal([]byte(sampleTx), &tx))

	ids := tx.ProgramIDs()
	assert.Equal(t, []string{
		"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",
		"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		"ComputeBudget111111111111111111111111111111",
	}, ids)
}

func TestFailedDetectsError(t *testing.T) {
	tx := &ParsedTransaction{TransactionError: json.RawMessage(`{"InstructionError":[0,"Custom"]}`)}
	assert.True(t, tx.Failed())

	tx = &ParsedTransaction{TransactionError: json.RawMessage(`null`)}
	assert.False(t, tx.Failed())

	tx = &ParsedTransaction{}
	assert.False(t, tx.Failed())
}
