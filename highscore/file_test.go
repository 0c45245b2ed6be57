package highscore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/metris/highscore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := highscore.NewFileStore(dir, "")
	ctx := context.Background()

	assert.Equal(t, filepath.Join(dir, highscore.DefaultKey+".json"), store.Path())

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, highscore.ErrNotFound)

	require.NoError(t, store.Save(ctx, []byte(`[{"name":"a","score":1}]`)))
	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"a","score":1}]`, string(data))

	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed away")
}

func TestFileStoreBackedTable(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	table := highscore.Open(ctx, highscore.NewFileStore(dir, "scores"), highscore.Options{})
	_, err := table.Add(ctx, "Grace", 4200)
	require.NoError(t, err)

	reopened := highscore.Open(ctx, highscore.NewFileStore(dir, "scores"), highscore.Options{})
	require.Equal(t, 1, reopened.Len())
	assert.Equal(t, "Grace", reopened.Entries()[0].Name)
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := highscore.NewFileStore(dir, "")
	require.NoError(t, os.WriteFile(store.Path(), []byte("garbage"), 0o644))

	table := highscore.Open(context.Background(), store, highscore.Options{})
	assert.Zero(t, table.Len())
}
