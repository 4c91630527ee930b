// Package store persists parsed transactions as JSON files on disk and
// reads them back, one file per signature.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/txscout/txscout/internal/helius"
)

// Sink decides where fetched transactions are written.
// Exactly one of dir/singleFile is set.
type Sink struct {
	dir        string
	singleFile string
}

// NewSink interprets the output path. A path ending in ".json" means
// "write this one file" and is only valid for a single signature; anything
// else is treated as a directory and created if missing.
func NewSink(out string, signatures int) (*Sink, error) {
	if strings.HasSuffix(out, ".json") {
		if signatures != 1 {
			return nil, fmt.Errorf("output file %s requires exactly one signature, got %d", out, signatures)
		}
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating output directory: %w", err)
			}
		}
		return &Sink{singleFile: out}, nil
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Sink{dir: out}, nil
}

// Write persists one transaction and returns the path written.
// The file content is the API payload re-indented, nothing more.
func (s *Sink) Write(tx *helius.ParsedTransaction) (string, error) {
	path := s.singleFile
	if path == "" {
		// Signatures are base58, so they are safe as filenames.
		path = filepath.Join(s.dir, tx.Signature+".json")
	}

	data, err := Indent(tx.Raw)
	if err != nil {
		return "", fmt.Errorf("formatting transaction %s: %w", tx.Signature, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Indent pretty-prints a raw JSON payload with a trailing newline.
func Indent(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// LoadFile reads one saved transaction file.
func LoadFile(path string) (*helius.ParsedTransaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tx := &helius.ParsedTransaction{}
	if err := json.Unmarshal(data, tx); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if tx.Signature == "" {
		return nil, fmt.Errorf("%s: not a saved transaction (no signature)", path)
	}
	tx.Raw = data
	return tx, nil
}

// LoadDir reads every .json transaction file in dir, skipping files that
// are not saved transactions. The skipped count is returned so callers can
// surface it.
func LoadDir(dir string) (txs []*helius.ParsedTransaction, skipped int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		tx, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			skipped++
			continue
		}
		txs = append(txs, tx)
	}
	return txs, skipped, nil
}
