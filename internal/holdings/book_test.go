package holdings

import (
	"os"
	"path/filepath"
	"testing"

	"MarketAdvisor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_AddGetPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "holdings.json")

	b, err := NewBook(path)
	require.NoError(t, err)
	_, err = b.Add(" aapl", 150, 10)
	require.NoError(t, err)

	h, ok := b.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, 150.0, h.BasisPrice)
	assert.Equal(t, 10.0, h.Quantity)

	reopened, err := NewBook(path)
	require.NoError(t, err)
	basis := reopened.Basis("aapl")
	require.NotNil(t, basis)
	assert.Equal(t, 150.0, *basis)
}

func TestBook_AddAveragesBasis(t *testing.T) {
	b, err := NewBook("")
	require.NoError(t, err)

	_, err = b.Add("MSFT", 100, 10)
	require.NoError(t, err)
	h, err := b.Add("MSFT", 130, 20)
	require.NoError(t, err)

	assert.InDelta(t, 120.0, h.BasisPrice, 1e-9)
	assert.Equal(t, 30.0, h.Quantity)
}

func TestBook_AddWithoutQuantityReplaces(t *testing.T) {
	b, _ := NewBook("")
	_, _ = b.Add("TSLA", 200, 0)
	h, err := b.Add("TSLA", 180, 0)
	require.NoError(t, err)
	assert.Equal(t, 180.0, h.BasisPrice)
}

func TestBook_AddRejects(t *testing.T) {
	b, _ := NewBook("")

	_, err := b.Add("AAPL", 0, 1)
	assert.ErrorIs(t, err, model.ErrInvalidBasis)
	_, err = b.Add("AAPL", 10, -1)
	assert.Error(t, err)
	_, err = b.Add("  ", 10, 1)
	assert.Error(t, err)
	assert.Empty(t, b.List())
}

func TestBook_RemoveAndList(t *testing.T) {
	b, _ := NewBook("")
	_, _ = b.Add("ZM", 70, 1)
	_, _ = b.Add("AAPL", 150, 1)

	list := b.List()
	require.Len(t, list, 2)
	assert.Equal(t, "AAPL", list[0].Symbol)
	assert.Equal(t, "ZM", list[1].Symbol)

	removed, err := b.Remove("zm")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = b.Remove("zm")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Nil(t, b.Basis("ZM"))
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holdings.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := NewBook(path)
	assert.Error(t, err)
}

func TestBook_FailedSaveLeavesBookUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holdings.json")
	b, err := NewBook(path)
	require.NoError(t, err)
	_, err = b.Add("AAPL", 150, 10)
	require.NoError(t, err)

	// A directory where the temp file goes makes every write fail.
	require.NoError(t, os.Mkdir(path+".tmp", 0o755))

	_, err = b.Add("AAPL", 90, 0)
	require.Error(t, err)
	_, err = b.Add("TSLA", 200, 1)
	require.Error(t, err)
	removed, err := b.Remove("AAPL")
	require.Error(t, err)
	assert.False(t, removed)

	h, ok := b.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, 150.0, h.BasisPrice)
	assert.Equal(t, 10.0, h.Quantity)
	_, ok = b.Get("TSLA")
	assert.False(t, ok)
	assert.Len(t, b.List(), 1)

	reopened, err := NewBook(path)
	require.NoError(t, err)
	assert.Equal(t, 150.0, *reopened.Basis("AAPL"))
}
