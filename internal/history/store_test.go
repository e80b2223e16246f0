package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T, limit int) *DB {
	t.Helper()
	s, err := Open(MemoryPath, limit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func addresses(t *testing.T, s *DB, limit int) []string {
	t.Helper()
	entries, err := s.List(limit)
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Address)
	}
	return out
}

func TestAddPrependsNewAddresses(t *testing.T) {
	s := openMemory(t, 0)
	require.NoError(t, s.Add("https://a.example/1.json"))
	require.NoError(t, s.Add("https://a.example/2.json"))
	require.NoError(t, s.Add("https://a.example/3.json"))

	assert.Equal(t, []string{
		"https://a.example/3.json",
		"https://a.example/2.json",
		"https://a.example/1.json",
	}, addresses(t, s, 0))
}

func TestAddExistingKeepsPosition(t *testing.T) {
	s := openMemory(t, 0)
	require.NoError(t, s.Add("a"))
	require.NoError(t, s.Add("b"))
	require.NoError(t, s.Add("a"))
	require.NoError(t, s.Add("  b "))

	assert.Equal(t, []string{"b", "a"}, addresses(t, s, 0))
}

func TestAddRejectsBlank(t *testing.T) {
	s := openMemory(t, 0)
	assert.ErrorIs(t, s.Add(""), ErrBlankAddress)
	assert.ErrorIs(t, s.Add(" \t"), ErrBlankAddress)
	assert.Empty(t, addresses(t, s, 0))
}

func TestAddTrimsToLimit(t *testing.T) {
	s := openMemory(t, 2)
	for _, a := range []string{"a", "b", "c"} {
		require.NoError(t, s.Add(a))
	}
	assert.Equal(t, []string{"c", "b"}, addresses(t, s, 0))
}

func TestListLimit(t *testing.T) {
	s := openMemory(t, 0)
	for _, a := range []string{"a", "b", "c"} {
		require.NoError(t, s.Add(a))
	}
	assert.Equal(t, []string{"c"}, addresses(t, s, 1))

	entries, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.False(t, entries[0].AddedAt.IsZero())
}

func TestRemoveAndClear(t *testing.T) {
	s := openMemory(t, 0)
	require.NoError(t, s.Add("a"))
	require.NoError(t, s.Add("b"))

	require.NoError(t, s.Remove("a"))
	assert.Equal(t, []string{"b"}, addresses(t, s, 0))
	assert.ErrorIs(t, s.Remove("a"), ErrNotFound)

	require.NoError(t, s.SetTheme("light"))
	require.NoError(t, s.Clear())
	assert.Empty(t, addresses(t, s, 0))

	mode, err := s.Theme("dark")
	require.NoError(t, err)
	assert.Equal(t, "light", mode, "clear keeps preferences")
}

func TestTheme(t *testing.T) {
	s := openMemory(t, 0)
	mode, err := s.Theme("dark")
	require.NoError(t, err)
	assert.Equal(t, "dark", mode)

	require.NoError(t, s.SetTheme("light"))
	require.NoError(t, s.SetTheme("dark"))
	mode, err = s.Theme("light")
	require.NoError(t, err)
	assert.Equal(t, "dark", mode)
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, s.Add("a"))
	require.NoError(t, s.SetTheme("light"))
	require.NoError(t, s.Close())

	s, err = Open(path, 0)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
	assert.Equal(t, []string{"a"}, addresses(t, s, 0))
	mode, err := s.Theme("dark")
	require.NoError(t, err)
	assert.Equal(t, "light", mode)
}
