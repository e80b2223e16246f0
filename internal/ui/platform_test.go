package ui

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	restore := StubPlatformActions()
	code := m.Run()
	restore()
	os.Exit(code)
}

func TestStubPlatformActions(t *testing.T) {
	require.NoError(t, CopyToClipboard("x"))
	require.NoError(t, OpenURL("https://example.com"))

	var copied []string
	copyToClipboardFn = func(s string) error { copied = append(copied, s); return nil }
	restore := StubPlatformActions()
	require.NoError(t, CopyToClipboard("ignored"))
	restore()
	require.NoError(t, CopyToClipboard("kept"))
	assert.Equal(t, []string{"kept"}, copied)

	copyToClipboardFn = func(string) error { return errors.New("no clipboard") }
	assert.Error(t, CopyToClipboard("x"))
	copyToClipboardFn = func(string) error { return nil }
}
