package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txscout/txscout/internal/helius"
)

func tx(sig, source, typ string, ts int64, programs ...string) *helius.ParsedTransaction {
	t := &helius.ParsedTransaction{
		Signature: sig,
		Source:    source,
		Type:      typ,
		Timestamp: ts,
	}
	for _, p := range programs {
		t.Instructions = append(t.Instructions, helius.Instruction{ProgramID: p})
	}
	return t
}

// ---------------------------------------------------------------------------
// Collect
// ---------------------------------------------------------------------------

func TestCollectAggregates(t *testing.T) {
	txs := []*helius.ParsedTransaction{
		tx("sig1", "JUPITER", "SWAP", 100, "progA", "progB"),
		tx("sig2", "RAYDIUM", "SWAP", 50, "progA"),
		tx("sig3", "", "", 200, "progA"),
	}

	stats := Collect(txs)
	require.Len(t, stats, 2)

	a := stats["progA"]
	require.NotNil(t, a)
	assert.Equal(t, 3, a.Count)
	assert.Equal(t, []string{"JUPITER", "RAYDIUM", "UNKNOWN"}, a.SortedSources())
	assert.Equal(t, "sig1", a.SampleTx, "sample is the first transaction seen")
	assert.Equal(t, int64(50), a.FirstSeen)
	assert.Equal(t, int64(200), a.LastSeen)

	b := stats["progB"]
	require.NotNil(t, b)
	assert.Equal(t, 1, b.Count)
}

func TestCollectCountsProgramOncePerTx(t *testing.T) {
	// Same program in outer and inner instruction: one hit.
	parsed := tx("sig1", "SYSTEM_PROGRAM", "TRANSFER", 10, "progA")
	parsed.Instructions[0].InnerInstructions = []helius.InnerInstruction{{ProgramID: "progA"}}

	stats := Collect([]*helius.ParsedTransaction{parsed})
	assert.Equal(t, 1, stats["progA"].Count)
}

func TestCollectIgnoresZeroTimestamps(t *testing.T) {
	stats := Collect([]*helius.ParsedTransaction{
		tx("sig1", "X", "Y", 0, "progA"),
		tx("sig2", "X", "Y", 42, "progA"),
	})
	assert.Equal(t, int64(42), stats["progA"].FirstSeen)
	assert.Equal(t, int64(42), stats["progA"].LastSeen)
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

func TestLoadMissingFileYieldsEmpty(t *testing.T) {
	reg, err := Load(filepath.Join(t.TempDir(), "registry.json"))
	require.NoError(t, err)
	assert.Empty(t, reg.Programs)
	assert.Empty(t, reg.PendingReview)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	reg := &Registry{
		Programs: map[string]*Program{
			"progA": {Name: "Jupiter v6", Category: "dex", Count: 10},
		},
		PendingReview: []*PendingProgram{
			{ProgramID: "progB", Count: 3, Status: "pending_review"},
		},
	}
	require.NoError(t, reg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Jupiter v6", got.Programs["progA"].Name)
	require.Len(t, got.PendingReview, 1)
	assert.Equal(t, "progB", got.PendingReview[0].ProgramID)

	// No stray temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

// ---------------------------------------------------------------------------
// Apply
// ---------------------------------------------------------------------------

func TestApplyDetectsNewPrograms(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	reg := &Registry{Programs: map[string]*Program{}}

	stats := Collect([]*helius.ParsedTransaction{
		tx("sig1", "JUPITER", "SWAP", 100, "progA"),
		tx("sig2", "JUPITER", "SWAP", 101, "progA", "progB"),
	})

	newCount := reg.Apply(stats, now)
	assert.Equal(t, 2, newCount)
	require.Len(t, reg.PendingReview, 2)

	// Sorted by count descending: progA (2) before progB (1).
	assert.Equal(t, "progA", reg.PendingReview[0].ProgramID)
	assert.Equal(t, 2, reg.PendingReview[0].Count)
	assert.Equal(t, "pending_review", reg.PendingReview[0].Status)
	assert.Equal(t, "https://solscan.io/account/progA", reg.PendingReview[0].SolscanURL)
	assert.Equal(t, "2026-08-25T12:00:00Z", reg.PendingReview[0].DetectedAt)

	assert.Equal(t, "2026-08-25", reg.Version)
	assert.Equal(t, 2, reg.TotalPrograms)
	assert.Equal(t, 0, reg.VerifiedCount)
	assert.Equal(t, 2, reg.PendingCount)
}

func TestApplyRefreshesKnownCounts(t *testing.T) {
	now := time.Now()
	reg := &Registry{
		Programs: map[string]*Program{"progA": {Name: "Known", Count: 1}},
		PendingReview: []*PendingProgram{
			{ProgramID: "progB", Count: 1, Status: "pending_review"},
		},
	}

	stats := map[string]*Stats{
		"progA": {Count: 7},
		"progB": {Count: 9},
	}

	newCount := reg.Apply(stats, now)
	assert.Equal(t, 0, newCount, "both programs already known")
	assert.Equal(t, 7, reg.Programs["progA"].Count)
	assert.Equal(t, 9, reg.PendingReview[0].Count)
	assert.Equal(t, 1, reg.VerifiedCount)
	assert.Equal(t, 1, reg.PendingCount)
}

func TestApplyEmptyStatsKeepsPending(t *testing.T) {
	reg := &Registry{
		Programs: map[string]*Program{},
		PendingReview: []*PendingProgram{
			{ProgramID: "progB", Count: 4, Status: "pending_review"},
		},
	}

	newCount := reg.Apply(map[string]*Stats{}, time.Now())
	assert.Equal(t, 0, newCount)
	assert.Len(t, reg.PendingReview, 1)
	assert.Equal(t, 0, reg.TotalPrograms)
}

func TestRegistryJSONFieldNames(t *testing.T) {
	reg := &Registry{
		Programs: map[string]*Program{},
		PendingReview: []*PendingProgram{
			{ProgramID: "p", SampleTx: "s", SolscanURL: "u", DetectedAt: "d"},
		},
	}
	data, err := json.Marshal(reg)
	require.NoError(t, err)

	for _, key := range []string{
		`"pending_review"`, `"programId"`, `"sample_tx"`,
		`"solscan_url"`, `"detected_at"`, `"last_updated"`,
	} {
		assert.Contains(t, string(data), key)
	}
}
