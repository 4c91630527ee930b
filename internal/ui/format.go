package ui

import (
	"fmt"
	"strings"
	"time"
)

// LamportsToSOL formats a lamport amount as a SOL string, trimming
// trailing zeros (1 SOL = 1e9 lamports).
func LamportsToSOL(lamports int64) string {
	s := fmt.Sprintf("%.9f", float64(lamports)/1e9)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// ShortSig abbreviates a signature for table display.
func ShortSig(sig string) string {
	if len(sig) <= 16 {
		return sig
	}
	return sig[:8] + "…" + sig[len(sig)-4:]
}

// FormatTime renders a unix timestamp in local time, or "-" when unset.
func FormatTime(unix int64) string {
	if unix == 0 {
		return "-"
	}
	return time.Unix(unix, 0).Format("2006-01-02 15:04:05")
}
