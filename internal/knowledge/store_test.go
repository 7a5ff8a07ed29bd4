package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Read(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "returns.txt"), []byte("RETURNS:\nsome policy\n"), 0o644))

	store := NewStore(dir)

	text, ok, err := store.Read("returns")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, text, "some policy")
}

func TestStore_Read_Missing(t *testing.T) {
	store := NewStore(t.TempDir())

	text, ok, err := store.Read("payments")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestStore_Domains(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shipping.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))

	store := NewStore(dir)

	domains, err := store.Domains()
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "shipping"}, domains)
}
