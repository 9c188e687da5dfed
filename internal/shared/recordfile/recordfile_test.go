package recordfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeedsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "records.json")

	store, err := New(path, []string{"a", "b"})
	require.NoError(t, err)

	var got []string
	require.NoError(t, store.Load(&got))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestNewNilSeedStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")

	store, err := New(path, nil)
	require.NoError(t, err)

	var got []string
	require.NoError(t, store.Load(&got))
	assert.Empty(t, got)
}

func TestNewKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(`["existing"]`), 0644))

	store, err := New(path, []string{"seed"})
	require.NoError(t, err)

	var got []string
	require.NoError(t, store.Load(&got))
	assert.Equal(t, []string{"existing"}, got)
}

func TestSaveReplacesAndPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")

	store, err := New(path, nil)
	require.NoError(t, err)

	require.NoError(t, store.Save([][2]string{{"p1", "r1"}, {"p2", "r2"}}))
	require.NoError(t, store.Save([][2]string{{"p2", "r2"}, {"p1", "changed"}}))

	var got [][2]string
	require.NoError(t, store.Load(&got))
	assert.Equal(t, [][2]string{{"p2", "r2"}, {"p1", "changed"}}, got)
}

func TestLoadMissingFileLeavesValueUntouched(t *testing.T) {
	store := &Store{path: filepath.Join(t.TempDir(), "absent.json")}

	got := []string{"preset"}
	require.NoError(t, store.Load(&got))
	assert.Equal(t, []string{"preset"}, got)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	store := &Store{path: path}

	var got []string
	assert.Error(t, store.Load(&got))
}
