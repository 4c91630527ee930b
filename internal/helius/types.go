package helius

import "encoding/json"

// ParsedTransaction is one enriched transaction as returned by the
// /v0/transactions endpoint. Raw keeps the exact API payload so files
// written to disk are the API's JSON, not a re-marshal of this struct.
type ParsedTransaction struct {
	Signature        string           `json:"signature"`
	Description      string           `json:"description"`
	Type             string           `json:"type"`
	Source           string           `json:"source"`
	Fee              int64            `json:"fee"` // lamports
	FeePayer         string           `json:"feePayer"`
	Slot             uint64           `json:"slot"`
	Timestamp        int64            `json:"timestamp"` // unix seconds
	NativeTransfers  []NativeTransfer `json:"nativeTransfers"`
	TokenTransfers   []TokenTransfer  `json:"tokenTransfers"`
	Instructions     []Instruction    `json:"instructions"`
	TransactionError json.RawMessage  `json:"transactionError"`

	Raw json.RawMessage `json:"-"`
}

// NativeTransfer is a SOL movement between two accounts.
type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"` // lamports
}

// TokenTransfer is an SPL token movement.
type TokenTransfer struct {
	FromUserAccount  string  `json:"fromUserAccount"`
	ToUserAccount    string  `json:"toUserAccount"`
	FromTokenAccount string  `json:"fromTokenAccount"`
	ToTokenAccount   string  `json:"toTokenAccount"`
	TokenAmount      float64 `json:"tokenAmount"`
	Mint             string  `json:"mint"`
}

// Instruction is a top-level instruction with its inner instructions.
type Instruction struct {
	Accounts          []string           `json:"accounts"`
	Data              string             `json:"data"`
	ProgramID         string             `json:"programId"`
	InnerInstructions []InnerInstruction `json:"innerInstructions"`
}

// InnerInstruction is an instruction invoked by another instruction.
type InnerInstruction struct {
	Accounts  []string `json:"accounts"`
	Data      string   `json:"data"`
	ProgramID string   `json:"programId"`
}

// Failed reports whether the transaction errored on-chain.
func (t *ParsedTransaction) Failed() bool {
	return len(t.TransactionError) > 0 && string(t.TransactionError) != "null"
}

// ProgramIDs returns the distinct program IDs invoked by the transaction,
// in first-seen order. Inner instructions are included.
func (t *ParsedTransaction) ProgramIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, ix := range t.Instructions {
		add(ix.ProgramID)
		for _, inner := range ix.InnerInstructions {
			add(inner.ProgramID)
		}
	}
	return ids
}
