// Package registry tracks the Solana programs seen across saved
// transactions. Programs start in a pending-review queue and are promoted
// to the verified map by hand-editing the registry file.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/txscout/txscout/internal/helius"
)

// Program is a verified, classified program entry.
type Program struct {
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	Count    int    `json:"count"`
}

// PendingProgram is an unclassified program awaiting review.
type PendingProgram struct {
	ProgramID  string   `json:"programId"`
	Count      int      `json:"count"`
	Sources    []string `json:"sources"`
	SampleTx   string   `json:"sample_tx"`
	SolscanURL string   `json:"solscan_url"`
	Status     string   `json:"status"`
	DetectedAt string   `json:"detected_at"`
}

// Registry is the on-disk program registry document.
type Registry struct {
	Version       string              `json:"version"`
	LastUpdated   string              `json:"last_updated"`
	TotalPrograms int                 `json:"total_programs"`
	VerifiedCount int                 `json:"verified_count"`
	PendingCount  int                 `json:"pending_count"`
	Programs      map[string]*Program `json:"programs"`
	PendingReview []*PendingProgram   `json:"pending_review"`
}

// Stats aggregates one program's appearances across scanned transactions.
type Stats struct {
	Count     int
	Sources   map[string]struct{}
	Types     map[string]struct{}
	SampleTx  string
	FirstSeen int64
	LastSeen  int64
}

// SortedSources returns the source set in sorted order.
func (s *Stats) SortedSources() []string {
	out := make([]string, 0, len(s.Sources))
	for src := range s.Sources {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

// Collect builds per-program stats from parsed transactions.
func Collect(txs []*helius.ParsedTransaction) map[string]*Stats {
	stats := make(map[string]*Stats)
	for _, tx := range txs {
		source := tx.Source
		if source == "" {
			source = "UNKNOWN"
		}
		typ := tx.Type
		if typ == "" {
			typ = "UNKNOWN"
		}
		for _, pid := range tx.ProgramIDs() {
			st := stats[pid]
			if st == nil {
				st = &Stats{
					Sources: make(map[string]struct{}),
					Types:   make(map[string]struct{}),
				}
				stats[pid] = st
			}
			st.Count++
			st.Sources[source] = struct{}{}
			st.Types[typ] = struct{}{}
			if st.SampleTx == "" {
				st.SampleTx = tx.Signature
			}
			if tx.Timestamp != 0 {
				if st.FirstSeen == 0 || tx.Timestamp < st.FirstSeen {
					st.FirstSeen = tx.Timestamp
				}
				if tx.Timestamp > st.LastSeen {
					st.LastSeen = tx.Timestamp
				}
			}
		}
	}
	return stats
}

// Load reads a registry file. A missing file yields an empty registry.
func Load(path string) (*Registry, error) {
	reg := &Registry{Programs: make(map[string]*Program)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	if reg.Programs == nil {
		reg.Programs = make(map[string]*Program)
	}
	return reg, nil
}

// Save writes the registry atomically (temp file + rename).
func (r *Registry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing registry: %w", err)
	}
	return nil
}

// Apply merges scanned stats into the registry: counts of known programs
// are refreshed, unknown programs join the pending-review queue sorted by
// count descending. Returns the number of newly detected programs.
func (r *Registry) Apply(stats map[string]*Stats, now time.Time) int {
	pendingByID := make(map[string]*PendingProgram, len(r.PendingReview))
	for _, p := range r.PendingReview {
		pendingByID[p.ProgramID] = p
	}

	newCount := 0
	for pid, st := range stats {
		if prog, ok := r.Programs[pid]; ok {
			prog.Count = st.Count
			continue
		}
		if p, ok := pendingByID[pid]; ok {
			p.Count = st.Count
			continue
		}
		r.PendingReview = append(r.PendingReview, &PendingProgram{
			ProgramID:  pid,
			Count:      st.Count,
			Sources:    st.SortedSources(),
			SampleTx:   st.SampleTx,
			SolscanURL: "https://solscan.io/account/" + pid,
			Status:     "pending_review",
			DetectedAt: now.Format(time.RFC3339),
		})
		newCount++
	}

	sort.SliceStable(r.PendingReview, func(i, j int) bool {
		return r.PendingReview[i].Count > r.PendingReview[j].Count
	})

	r.Version = now.Format("2006-01-02")
	r.LastUpdated = now.Format(time.RFC3339)
	r.TotalPrograms = len(stats)
	r.VerifiedCount = len(r.Programs)
	r.PendingCount = len(r.PendingReview)

	return newCount
}
