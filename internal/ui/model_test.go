package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonpeek/internal/config"
	"github.com/oakwood-commons/jsonpeek/internal/fetch"
	"github.com/oakwood-commons/jsonpeek/internal/history"
	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
	"github.com/oakwood-commons/jsonpeek/pkg/loader"
)

type stubFetcher struct {
	bodies map[string]string
	calls  []string
}

func (s *stubFetcher) Fetch(_ context.Context, address string) (fetch.Result, error) {
	s.calls = append(s.calls, address)
	body, ok := s.bodies[address]
	if !ok {
		return fetch.Result{Address: address}, &fetch.StatusError{Address: address, Code: 404, Status: "404 Not Found"}
	}
	return fetch.Result{Address: address, Body: []byte(body), StatusCode: 200}, nil
}

const sampleDoc = `{"a":1,"b":[1,2],"c":{"d":true}}`

func key(s string) tea.KeyPressMsg { return keyPress(s) }

func testConfig(t *testing.T) config.File {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func newTestModel(t *testing.T, opts Options) (*Model, *stubFetcher, *history.DB) {
	t.Helper()
	store, err := history.Open(history.MemoryPath, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	f := &stubFetcher{bodies: map[string]string{
		"https://example.com/doc.json": sampleDoc,
		"https://example.com/bad.json": `{"a":`,
	}}
	opts.Config = testConfig(t)
	opts.Fetcher = f
	opts.History = store
	opts.NoColor = true
	m := New(opts)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m, f, store
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

// fetchNow runs the pending fetch synchronously and feeds its result back.
func fetchNow(t *testing.T, m *Model, address string) {
	t.Helper()
	m.URLInput.SetValue(address)
	m.setFocus(focusURL)
	cmd := press(m, "enter")
	require.NotNil(t, cmd)
	require.True(t, m.Status.IsBusy())
	assert.Equal(t, MsgFetching, m.Status.Message())
	m.Update(m.fetchCmd(m.fetchSeq, address)())
}

func TestNewModelFocusesURLInput(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	assert.Equal(t, focusURL, m.focus)
	assert.Equal(t, "Viewer", m.ActiveTab())
	assert.Contains(t, m.render(), "No document loaded")
}

func TestSubmitEmptyAddress(t *testing.T) {
	m, f, _ := newTestModel(t, Options{})
	cmd := press(m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, MsgEnterURL, m.Status.Message())
	assert.Empty(t, f.calls)
}

func TestFetchSuccessLoadsDocumentAndHistory(t *testing.T) {
	m, f, store := newTestModel(t, Options{})
	fetchNow(t, m, "https://example.com/doc.json")

	assert.Equal(t, []string{"https://example.com/doc.json"}, f.calls)
	assert.Equal(t, MsgFetched, m.Status.Message())
	assert.Equal(t, "https://example.com/doc.json", m.Address())
	assert.Equal(t, focusTree, m.focus)
	require.NotNil(t, m.Tree.Document())
	assert.True(t, m.Tree.Document().OK())
	assert.Equal(t, sampleDoc, m.Editor.Value())

	entries, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, m.History.Len())

	view := m.render()
	assert.Contains(t, view, "object")
	assert.Contains(t, view, "▸ b: Array[2]")
	assert.Contains(t, view, "URL History")
	assert.Contains(t, view, "1/3")
}

func TestFetchFailureKeepsDocument(t *testing.T) {
	m, _, store := newTestModel(t, Options{})
	fetchNow(t, m, "https://example.com/doc.json")
	fetchNow(t, m, "https://example.com/missing.json")

	assert.Equal(t, MsgFetchFailed, m.Status.Message())
	assert.Contains(t, m.Status.Detail(), "404")
	assert.Equal(t, "https://example.com/doc.json", m.Address())
	entries, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "failed fetches are not remembered")
}

func TestStaleFetchIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	m.URLInput.SetValue("https://example.com/doc.json")
	press(m, "enter")
	stale := m.fetchCmd(m.fetchSeq, "https://example.com/doc.json")
	m.URLInput.SetValue("https://example.com/bad.json")
	press(m, "enter")

	m.Update(stale())
	assert.Nil(t, m.Tree.Document())
	assert.True(t, m.Status.IsBusy())
}

func TestMalformedFetchShowsErrorRegion(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	fetchNow(t, m, "https://example.com/bad.json")

	require.NotNil(t, m.Tree.Document())
	assert.False(t, m.Tree.Document().OK())
	view := m.render()
	assert.Contains(t, view, jsontree.ErrorCaption)
	assert.Contains(t, view, `{"a":`)
}

func TestTreeToggleKeys(t *testing.T) {
	m, _, _ := newTestModel(t, Options{Document: jsontree.Load(sampleDoc)})
	require.Equal(t, focusTree, m.focus)
	require.Len(t, m.Tree.Rows(), 3)

	press(m, "down", "enter")
	rows := m.Tree.Rows()
	require.Len(t, rows, 5)
	assert.Equal(t, "▾ b: Array[2]", rows[1].Text())
	assert.Equal(t, "    [0]: 1", rows[2].Text())

	press(m, "down")
	sel, ok := m.Tree.Selected()
	require.True(t, ok)
	assert.Equal(t, "b[0]", jsontree.FormatPath(sel.Path))

	press(m, "left")
	sel, _ = m.Tree.Selected()
	assert.Equal(t, "b", jsontree.FormatPath(sel.Path), "left on a child jumps to its parent")

	press(m, "left")
	assert.Len(t, m.Tree.Rows(), 3, "left on an expanded row collapses it")

	press(m, "right")
	assert.Len(t, m.Tree.Rows(), 5)
	press(m, "right")
	assert.Len(t, m.Tree.Rows(), 5, "right on an expanded row is a no-op")

	press(m, "space")
	assert.Len(t, m.Tree.Rows(), 3)

	press(m, "up", "enter")
	assert.Len(t, m.Tree.Rows(), 3, "leaf rows do not toggle")
}

func TestTreeCursorBounds(t *testing.T) {
	m, _, _ := newTestModel(t, Options{Document: jsontree.Load(sampleDoc)})
	press(m, "up", "up")
	assert.Equal(t, 0, m.Tree.Cursor())
	press(m, "G")
	assert.Equal(t, 2, m.Tree.Cursor())
	press(m, "down")
	assert.Equal(t, 2, m.Tree.Cursor())
	press(m, "g")
	assert.Equal(t, 0, m.Tree.Cursor())
}

func TestExpandAllCollapseAll(t *testing.T) {
	m, _, _ := newTestModel(t, Options{Document: jsontree.Load(sampleDoc)})
	press(m, "e")
	assert.Len(t, m.Tree.Rows(), 6)
	press(m, "E")
	assert.Len(t, m.Tree.Rows(), 3)
}

func TestCopySelected(t *testing.T) {
	var copied []string
	orig := copyToClipboardFn
	copyToClipboardFn = func(s string) error { copied = append(copied, s); return nil }
	defer func() { copyToClipboardFn = orig }()

	m, _, _ := newTestModel(t, Options{Document: jsontree.Load(sampleDoc)})
	press(m, "down", "y", "Y")
	require.Len(t, copied, 2)
	assert.Equal(t, "b", copied[0])
	assert.Equal(t, "[\n  1,\n  2\n]", copied[1])
	assert.Equal(t, MsgCopied, m.Status.Message())

	copyToClipboardFn = func(string) error { return errors.New("no clipboard") }
	press(m, "y")
	assert.Equal(t, "Copy failed.", m.Status.Message())
}

func TestThemeTogglePersists(t *testing.T) {
	m, _, store := newTestModel(t, Options{Document: jsontree.Load(sampleDoc)})
	assert.Equal(t, config.ThemeDark, m.Theme().Name)

	press(m, "ctrl+t")
	assert.Equal(t, config.ThemeLight, m.Theme().Name)
	mode, err := store.Theme(config.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, config.ThemeLight, mode)

	again := New(Options{Config: testConfig(t), History: store, NoColor: true})
	assert.Equal(t, config.ThemeLight, again.Theme().Name)

	press(m, "ctrl+t")
	assert.Equal(t, config.ThemeDark, m.Theme().Name)
}

func TestEditorApply(t *testing.T) {
	m, _, _ := newTestModel(t, Options{Document: jsontree.Load(sampleDoc)})
	press(m, "tab")
	assert.Equal(t, "Editor", m.ActiveTab())
	assert.Equal(t, focusEditor, m.focus)

	press(m, "ctrl+s")
	assert.Equal(t, MsgUnchanged, m.Status.Message())

	m.Editor.SetValue(`[1, true]`)
	press(m, "ctrl+s")
	assert.Equal(t, MsgApplied, m.Status.Message())
	assert.Equal(t, jsontree.KindArray, m.Tree.Document().Root().Kind())

	m.Editor.SetValue(`[1,`)
	press(m, "ctrl+s")
	assert.Equal(t, jsontree.ErrorCaption, m.Status.Message())
	assert.False(t, m.Tree.Document().OK())

	press(m, "esc")
	assert.Equal(t, "Viewer", m.ActiveTab())
	assert.Contains(t, m.render(), jsontree.ErrorCaption)
}

func TestHistoryFocusRefetchAndRemove(t *testing.T) {
	m, f, store := newTestModel(t, Options{})
	fetchNow(t, m, "https://example.com/doc.json")
	fetchNow(t, m, "https://example.com/bad.json")
	require.Equal(t, 2, m.History.Len())

	press(m, "h")
	require.Equal(t, focusHistory, m.focus)
	addr, ok := m.History.Selected()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/bad.json", addr)

	press(m, "down")
	cmd := press(m, "enter")
	require.NotNil(t, cmd)
	req, ok := cmd().(fetchRequestMsg)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/doc.json", req.Address)

	m.Update(req)
	m.Update(m.fetchCmd(m.fetchSeq, req.Address)())
	assert.Equal(t, "https://example.com/doc.json", f.calls[len(f.calls)-1])
	assert.Equal(t, 2, m.History.Len(), "re-fetching keeps the list unchanged")

	require.Equal(t, focusHistory, m.focus, "fetching from the list keeps its focus")
	cmd = press(m, "d")
	require.NotNil(t, cmd)
	m.Update(cmd())
	entries, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, m.History.Len())

	press(m, "esc")
	assert.Equal(t, focusTree, m.focus)
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t, Options{Document: jsontree.Load(sampleDoc)})
	press(m, "?")
	assert.True(t, m.HelpVisible)
	assert.Contains(t, m.render(), "toggle this help")

	cmd := press(m, "q")
	assert.Nil(t, cmd, "q closes help instead of quitting")
	assert.False(t, m.HelpVisible)
}

func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t, Options{Document: jsontree.Load(sampleDoc)})
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m.setFocus(focusURL)
	cmd = press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestURLInputEscReturnsToTree(t *testing.T) {
	m, _, _ := newTestModel(t, Options{Document: jsontree.Load(sampleDoc)})
	press(m, "u")
	assert.Equal(t, focusURL, m.focus)
	press(m, "esc")
	assert.Equal(t, focusTree, m.focus)
}

func TestViewUsesAltScreen(t *testing.T) {
	m, _, _ := newTestModel(t, Options{Document: jsontree.Load(`true`)})
	v := m.View()
	assert.True(t, v.AltScreen)
	assert.Contains(t, m.render(), "value of kind boolean")
	assert.Contains(t, m.render(), "◉ true")
}

func TestEditorApplyUsesInputFormat(t *testing.T) {
	m, _, _ := newTestModel(t, Options{Input: loader.Options{Format: loader.FormatYAML}})
	press(m, "esc", "tab")
	require.Equal(t, focusEditor, m.focus)
	m.Editor.SetValue("name: x\nitems:\n  - 1\n")
	press(m, "ctrl+s")
	assert.Equal(t, MsgApplied, m.Status.Message())
	rows := m.Tree.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, `  name: "x"`, rows[0].Text())
	assert.Equal(t, "▸ items: Array[1]", rows[1].Text())
}

func TestRenderModelSnapshot(t *testing.T) {
	opts := Options{
		Config:   testConfig(t),
		Document: jsontree.Load(sampleDoc),
		NoColor:  true,
	}
	out := RenderModelSnapshot(opts, SnapshotConfig{Width: 60, Height: 20})
	assert.Contains(t, out, "object")
	assert.Contains(t, out, "▸ b: Array[2]")
	assert.NotContains(t, out, "[0]: 1")

	out = RenderModelSnapshot(opts, SnapshotConfig{Width: 60, Height: 20, StartKeys: []string{"down", "enter"}})
	assert.Contains(t, out, "▾ b: Array[2]")
	assert.Contains(t, out, "[0]: 1")
}

func TestKeyPressNames(t *testing.T) {
	assert.Equal(t, "enter", keyPress("enter").String())
	assert.Equal(t, "ctrl+t", keyPress("ctrl+t").String())
	assert.Equal(t, "q", keyPress("q").String())
}

func TestTreePaneKeepsOneLinePerRow(t *testing.T) {
	m, _, _ := newTestModel(t, Options{
		Document: jsontree.Load(`{"a":"l1\nl2\nl3\nl4\nl5","b":1,"c":"\u001b[2J"}`),
	})
	m.Tree.SetSize(40, 4)

	view := m.Tree.View()
	assert.Len(t, strings.Split(view, "\n"), 4)
	assert.NotContains(t, view, "\x1b[2J")
	assert.Contains(t, view, `l1\nl2`)
}

func TestErrorRegionEscapesControlCharacters(t *testing.T) {
	m, _, _ := newTestModel(t, Options{Document: jsontree.Load("{\x1b[2J\r\nbroken")})
	m.Tree.SetSize(40, 10)

	view := m.Tree.View()
	assert.NotContains(t, view, "\x1b[2J")
	assert.NotContains(t, view, "\r")
	assert.Contains(t, view, `{\u001b[2J`)
}
