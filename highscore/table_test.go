package highscore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/plus3/metris/highscore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func openMemory(t *testing.T) (*highscore.Table, *highscore.MemoryStore) {
	t.Helper()
	store := highscore.NewMemoryStore()
	table := highscore.Open(context.Background(), store, highscore.Options{
		Now: func() time.Time { return fixedNow },
	})
	return table, store
}

func fillTable(t *testing.T, table *highscore.Table, scores ...int) {
	t.Helper()
	for i, s := range scores {
		_, err := table.Add(context.Background(), fmt.Sprintf("p%d", i), s)
		require.NoError(t, err)
	}
}

type failingStore struct {
	loadErr error
	saveErr error
	data    []byte
}

func (f *failingStore) Load(ctx context.Context) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.data, nil
}

func (f *failingStore) Save(ctx context.Context, data []byte) error {
	return f.saveErr
}

func TestEmptyTableAcceptsAnything(t *testing.T) {
	table, _ := openMemory(t)
	assert.Zero(t, table.Len())
	assert.True(t, table.IsHighscore(0))
	assert.Equal(t, 1, table.Rank(0))
}

func TestFullTableThreshold(t *testing.T) {
	table, _ := openMemory(t)
	fillTable(t, table, 1000, 950, 900, 850, 800, 700, 650, 600, 550, 500)
	require.Equal(t, 10, table.Len())

	assert.False(t, table.IsHighscore(500), "ties with the lowest entry do not qualify")
	assert.False(t, table.IsHighscore(20))
	assert.True(t, table.IsHighscore(501))

	_, err := table.Add(context.Background(), "newcomer", 501)
	require.NoError(t, err)

	entries := table.Entries()
	require.Len(t, entries, 10)
	assert.Equal(t, 501, entries[9].Score)
	assert.Equal(t, "newcomer", entries[9].Name)
	for _, e := range entries {
		assert.NotEqual(t, 500, e.Score, "lowest entry dropped")
	}
}

func TestEntriesStayDescending(t *testing.T) {
	table, _ := openMemory(t)
	fillTable(t, table, 30, 900, 10, 500, 500, 70, 2000, 0, 45, 300, 800, 15)

	entries := table.Entries()
	require.Len(t, entries, highscore.MaxEntries)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Score, entries[i].Score)
	}
	assert.Equal(t, 2000, entries[0].Score)
}

func TestAddNormalizesName(t *testing.T) {
	table, _ := openMemory(t)

	entry, err := table.Add(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Equal(t, highscore.DefaultName, entry.Name)
	assert.Equal(t, fixedNow, entry.Date)

	entry, err = table.Add(context.Background(), "  Ada \t", 20)
	require.NoError(t, err)
	assert.Equal(t, "Ada", entry.Name)

	entry, err = table.Add(context.Background(), "Bartholomew Cubbins III", 30)
	require.NoError(t, err)
	assert.Equal(t, "Bartholomew Cub", entry.Name)
}

func TestRank(t *testing.T) {
	table, _ := openMemory(t)
	fillTable(t, table, 500, 300, 100)

	cases := []struct {
		score int
		want  int
	}{
		{900, 1},
		{500, 2},
		{301, 2},
		{300, 3},
		{50, 4},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.score), func(t *testing.T) {
			assert.Equal(t, tc.want, table.Rank(tc.score))
		})
	}
}

func TestTiesKeepInsertionOrder(t *testing.T) {
	table, _ := openMemory(t)
	fillTable(t, table, 100)
	_, err := table.Add(context.Background(), "late", 100)
	require.NoError(t, err)

	entries := table.Entries()
	assert.Equal(t, "p0", entries[0].Name)
	assert.Equal(t, "late", entries[1].Name)
}

func TestPersistRoundTrip(t *testing.T) {
	table, store := openMemory(t)
	fillTable(t, table, 10, 40, 20)

	reopened := highscore.Open(context.Background(), store, highscore.Options{})
	assert.Equal(t, table.Entries(), reopened.Entries())
}

func TestCorruptDataResetsToEmpty(t *testing.T) {
	store := highscore.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), []byte("{not json")))

	table := highscore.Open(context.Background(), store, highscore.Options{})
	assert.Zero(t, table.Len())

	_, err := table.Add(context.Background(), "x", 1)
	require.NoError(t, err)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	entries, err := highscore.Decode(data)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDecodeReportsCorrupt(t *testing.T) {
	_, err := highscore.Decode([]byte(`{"name": 3}`))
	assert.True(t, errors.Is(err, highscore.ErrCorrupt))

	entries, err := highscore.Decode([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOversizedSavedListIsTruncated(t *testing.T) {
	var entries []highscore.Entry
	for i := 0; i < 15; i++ {
		entries = append(entries, highscore.Entry{Name: "x", Score: i})
	}
	data, err := highscore.Encode(entries)
	require.NoError(t, err)

	store := highscore.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), data))

	table := highscore.Open(context.Background(), store, highscore.Options{})
	require.Equal(t, 10, table.Len())
	assert.Equal(t, 14, table.Entries()[0].Score)
}

func TestStoreFailuresDegrade(t *testing.T) {
	boom := errors.New("disk on fire")
	store := &failingStore{loadErr: boom, saveErr: boom}

	table := highscore.Open(context.Background(), store, highscore.Options{})
	assert.Zero(t, table.Len())

	entry, err := table.Add(context.Background(), "kept", 99)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "kept", entry.Name)
	assert.Equal(t, 1, table.Len(), "entry is kept in memory")
}

func TestClear(t *testing.T) {
	table, store := openMemory(t)
	fillTable(t, table, 1, 2, 3)

	require.NoError(t, table.Clear(context.Background()))
	assert.Zero(t, table.Len())

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestCustomMax(t *testing.T) {
	table := highscore.Open(context.Background(), highscore.NewMemoryStore(), highscore.Options{Max: 3})
	fillTable(t, table, 1, 2, 3, 4)
	assert.Equal(t, 3, table.Len())
	assert.False(t, table.IsHighscore(2))
}
