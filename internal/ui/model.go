package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jsonpeek/internal/config"
	"github.com/oakwood-commons/jsonpeek/internal/fetch"
	"github.com/oakwood-commons/jsonpeek/internal/history"
	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
	"github.com/oakwood-commons/jsonpeek/pkg/loader"
	"github.com/oakwood-commons/jsonpeek/pkg/logger"
)

// Fetcher retrieves the raw text at an address.
type Fetcher interface {
	Fetch(ctx context.Context, address string) (fetch.Result, error)
}

// Options configures a Model.
type Options struct {
	Context context.Context
	Config  config.File
	Fetcher Fetcher
	// History may be nil, which disables the URL history list and theme
	// persistence.
	History history.Store
	// Address is shown in the URL input and fetched on start unless
	// Document is also set.
	Address  string
	Document *jsontree.Document
	// ThemeName overrides the persisted display mode.
	ThemeName string
	NoColor   bool
	// Input selects how fetched and edited text is decoded. A zero
	// MaxDepth takes ui.tree.max_depth from Config.
	Input loader.Options
}

type tab int

const (
	tabViewer tab = iota
	tabEditor
)

func (t tab) String() string {
	if t == tabEditor {
		return "Editor"
	}
	return "Viewer"
}

type focusArea int

const (
	focusTree focusArea = iota
	focusURL
	focusHistory
	focusEditor
)

// fetchDoneMsg carries a finished fetch. Seq discards stale results when a
// newer fetch was started in the meantime.
type fetchDoneMsg struct {
	Seq     int
	Address string
	Result  fetch.Result
	Err     error
}

const historyListLimit = 50

// Model is the root Bubble Tea model: URL input, Viewer/Editor tabs, the
// tree and history panes and the status line.
type Model struct {
	ctx     context.Context
	log     *logr.Logger
	cfg     config.File
	fetcher Fetcher
	store   history.Store
	input   loader.Options

	URLInput textinput.Model
	Editor   textarea.Model
	Tree     *TreeModel
	History  *HistoryModel
	Status   StatusModel

	tab         tab
	focus       focusArea
	theme       Theme
	noColor     bool
	st          styles
	HelpVisible bool

	address  string
	fetchSeq int

	Width  int
	Height int
}

// New builds the model from opts.
func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config

	ti := textinput.New()
	ti.Placeholder = "URL"
	ti.Prompt = "❯ "
	ti.CharLimit = 2048
	ti.SetWidth(60)
	ti.SetValue(opts.Address)

	ta := textarea.New()
	ta.Placeholder = "Results..."
	ta.ShowLineNumbers = config.BoolValue(cfg.UI.Editor.LineNumbers, true)
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(80)
	ta.SetHeight(20)

	input := opts.Input
	if input.MaxDepth <= 0 {
		input.MaxDepth = cfg.UI.Tree.MaxDepth
	}

	m := &Model{
		ctx:      ctx,
		log:      logger.FromContext(ctx),
		cfg:      cfg,
		fetcher:  opts.Fetcher,
		store:    opts.History,
		input:    input,
		URLInput: ti,
		Editor:   ta,
		Tree:     NewTreeModel(cfg.UI.Tree.Indent),
		History:  NewHistoryModel(),
		Status:   NewStatusModel(),
		noColor:  opts.NoColor,
		address:  strings.TrimSpace(opts.Address),
		Width:    80,
		Height:   24,
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = cfg.UI.Theme.Default
		if m.store != nil {
			if saved, err := m.store.Theme(themeName); err == nil {
				themeName = saved
			} else {
				m.log.V(1).Info("reading persisted theme failed", "error", err.Error())
			}
		}
	}
	m.applyTheme(ThemeByName(cfg, themeName))
	m.reloadHistory()

	if opts.Document != nil {
		m.setDocument(opts.Document)
	}
	if opts.Document == nil && m.address == "" {
		m.setFocus(focusURL)
	} else {
		m.setFocus(focusTree)
	}
	m.layout()
	return m
}

// Theme returns the active display mode.
func (m *Model) Theme() Theme { return m.theme }

// ActiveTab returns "Viewer" or "Editor".
func (m *Model) ActiveTab() string { return m.tab.String() }

// Address returns the address of the displayed document.
func (m *Model) Address() string { return m.address }

// Init starts the cursor blink and, when an address was given without a
// document, the first fetch.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.address != "" && m.Tree.Document() == nil {
		cmds = append(cmds, m.startFetch(m.address))
	}
	return tea.Batch(cmds...)
}

// Update routes messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Status, cmd = m.Status.Update(msg)
		return m, cmd

	case fetchRequestMsg:
		m.URLInput.SetValue(msg.Address)
		return m, m.startFetch(msg.Address)

	case fetchDoneMsg:
		m.finishFetch(msg)
		return m, nil

	case historyRemoveMsg:
		m.removeHistory(msg.Address)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m.routeToFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.HelpVisible {
		if key == "?" || key == "esc" || key == "q" {
			m.HelpVisible = false
		}
		return m, nil
	}

	switch key {
	case "tab":
		m.switchTab()
		return m, nil
	case "ctrl+t":
		m.toggleTheme()
		return m, nil
	}

	switch m.focus {
	case focusURL:
		switch key {
		case "enter":
			return m, m.startFetch(m.URLInput.Value())
		case "esc":
			m.setFocus(focusTree)
			return m, nil
		}
		var cmd tea.Cmd
		m.URLInput, cmd = m.URLInput.Update(msg)
		return m, cmd

	case focusEditor:
		switch key {
		case "ctrl+s":
			m.applyEditor()
			return m, nil
		case "esc":
			m.switchTab()
			return m, nil
		}
		var cmd tea.Cmd
		m.Editor, cmd = m.Editor.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.HelpVisible = true
		return m, nil
	case "u":
		m.setFocus(focusURL)
		return m, textinput.Blink
	case "h":
		if m.focus == focusHistory {
			m.setFocus(focusTree)
		} else if m.History.Len() > 0 {
			m.setFocus(focusHistory)
		}
		return m, nil
	case "esc":
		if m.focus == focusHistory {
			m.setFocus(focusTree)
		}
		return m, nil
	case "r":
		if m.address != "" {
			return m, m.startFetch(m.address)
		}
		return m, nil
	case "o":
		m.openAddress()
		return m, nil
	}

	if m.focus == focusTree {
		switch key {
		case "y", "Y":
			m.copySelected(key == "Y")
			return m, nil
		case "e":
			m.Tree.ExpandAll()
			return m, nil
		case "E":
			m.Tree.CollapseAll()
			return m, nil
		}
	}
	return m.routeToFocused(msg)
}

func (m *Model) routeToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusTree:
		_, cmd = m.Tree.Update(msg)
	case focusHistory:
		_, cmd = m.History.Update(msg)
	case focusURL:
		m.URLInput, cmd = m.URLInput.Update(msg)
	case focusEditor:
		m.Editor, cmd = m.Editor.Update(msg)
	}
	return m, cmd
}

// startFetch validates the address and returns the commands that run the
// fetch and animate the spinner.
func (m *Model) startFetch(address string) tea.Cmd {
	address = strings.TrimSpace(address)
	if address == "" {
		m.Status.Error(MsgEnterURL, "")
		return nil
	}
	if m.fetcher == nil {
		m.Status.Error(MsgFetchFailed, "no fetcher configured")
		return nil
	}
	m.fetchSeq++
	m.log.V(1).Info("fetch started", logger.AddressKey, address)
	return tea.Batch(m.Status.Busy(MsgFetching), m.fetchCmd(m.fetchSeq, address))
}

func (m *Model) fetchCmd(seq int, address string) tea.Cmd {
	ctx := m.ctx
	f := m.fetcher
	return func() tea.Msg {
		res, err := f.Fetch(ctx, address)
		return fetchDoneMsg{Seq: seq, Address: address, Result: res, Err: err}
	}
}

func (m *Model) finishFetch(msg fetchDoneMsg) {
	if msg.Seq != m.fetchSeq {
		return
	}
	if msg.Err != nil {
		m.log.Info("fetch failed", logger.AddressKey, msg.Address, "error", msg.Err.Error())
		if errors.Is(msg.Err, fetch.ErrEmptyAddress) {
			m.Status.Error(MsgEnterURL, "")
			return
		}
		m.Status.Error(MsgFetchFailed, msg.Err.Error())
		return
	}
	m.address = msg.Address
	m.setDocument(loader.Load(msg.Result.Text(), m.input))
	m.Status.Success(MsgFetched)
	if m.store != nil {
		if err := m.store.Add(msg.Address); err != nil {
			m.log.Info("saving history failed", "error", err.Error())
		}
		m.reloadHistory()
	}
	if m.focus == focusURL {
		m.setFocus(focusTree)
	}
}

func (m *Model) setDocument(doc *jsontree.Document) {
	m.Tree.SetDocument(doc)
	m.Editor.SetValue(doc.Raw())
}

// applyEditor decodes the editor text into a new document. Unchanged text
// is not decoded again.
func (m *Model) applyEditor() {
	text := m.Editor.Value()
	if doc := m.Tree.Document(); doc != nil && doc.Raw() == text {
		m.Status.Info(MsgUnchanged)
		return
	}
	doc := loader.Load(text, m.input)
	m.Tree.SetDocument(doc)
	if !doc.OK() {
		m.Status.Error(jsontree.ErrorCaption, doc.Err().Error())
		return
	}
	m.Status.Success(MsgApplied)
}

func (m *Model) copySelected(value bool) {
	text, ok := m.Tree.copyText(value)
	if !ok {
		return
	}
	if err := CopyToClipboard(text); err != nil {
		m.Status.Error("Copy failed.", err.Error())
		return
	}
	m.Status.Success(MsgCopied)
}

func (m *Model) openAddress() {
	if m.address == "" || !strings.Contains(m.address, "://") {
		return
	}
	if err := OpenURL(m.address); err != nil {
		m.Status.Error("Open failed.", err.Error())
	}
}

func (m *Model) reloadHistory() {
	if m.store == nil {
		return
	}
	limit := m.cfg.History.Limit
	if limit <= 0 {
		limit = historyListLimit
	}
	entries, err := m.store.List(limit)
	if err != nil {
		m.log.Info("listing history failed", "error", err.Error())
		return
	}
	m.History.SetEntries(entries)
	if m.History.Len() == 0 && m.focus == focusHistory {
		m.setFocus(focusTree)
	}
	m.layout()
}

func (m *Model) removeHistory(address string) {
	if m.store == nil {
		return
	}
	if err := m.store.Remove(address); err != nil {
		m.Status.Error("Remove failed.", err.Error())
		return
	}
	m.reloadHistory()
}

func (m *Model) toggleTheme() {
	next := NextThemeName(m.theme.Name)
	m.applyTheme(ThemeByName(m.cfg, next))
	m.log.V(1).Info("theme changed", "theme", m.theme.Name)
	if m.store != nil {
		if err := m.store.SetTheme(m.theme.Name); err != nil {
			m.log.Info("saving theme failed", "error", err.Error())
		}
	}
}

func (m *Model) applyTheme(th Theme) {
	m.theme = th
	m.st = newStyles(th, m.noColor)
	m.Tree.setStyles(m.st)
	m.History.setStyles(m.st)
	m.Status.st = m.st
}

func (m *Model) switchTab() {
	if m.tab == tabViewer {
		m.tab = tabEditor
		m.setFocus(focusEditor)
		return
	}
	m.tab = tabViewer
	m.setFocus(focusTree)
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.Tree.Blur()
	m.History.Blur()
	m.URLInput.Blur()
	m.Editor.Blur()
	switch f {
	case focusTree:
		m.Tree.Focus()
	case focusHistory:
		m.History.Focus()
	case focusURL:
		m.URLInput.Focus()
	case focusEditor:
		m.Editor.Focus()
	}
}

// layout distributes the window between the panes. Fixed lines: the title
// bar, the tab bar and the status line.
func (m *Model) layout() {
	w := m.Width
	if w <= 0 {
		w = 80
	}
	body := m.Height - 3
	if body < 2 {
		body = 2
	}
	histH := 0
	if n := m.History.Len(); n > 0 {
		histH = n + 1
		if histH > 6 {
			histH = 6
		}
		if histH > body/2 {
			histH = body / 2
		}
	}
	treeH := body - histH
	if histH > 0 {
		treeH-- // blank separator line
	}
	m.Tree.SetSize(w, treeH)
	m.History.SetSize(w, histH)
	m.Status.Width = w

	inputW := w - runewidth.StringWidth(titleText) - runewidth.StringWidth(m.themeBadge()) - 6
	if inputW < 10 {
		inputW = 10
	}
	m.URLInput.SetWidth(inputW)
	m.Editor.SetWidth(w)
	m.Editor.SetHeight(body)
}

const titleText = "jsonpeek"

func (m *Model) themeBadge() string {
	if m.theme.Name == config.ThemeLight {
		return "☀ light"
	}
	return "☾ dark"
}

// View renders the whole screen.
func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Model) render() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render(" " + titleText + " "))
	b.WriteString(" ")
	b.WriteString(m.st.input.Render(m.URLInput.View()))
	b.WriteString(" ")
	b.WriteString(m.st.dim.Render(m.themeBadge()))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch {
	case m.HelpVisible:
		b.WriteString(renderHelp(m.st, m.Width))
	case m.tab == tabEditor:
		b.WriteString(m.Editor.View())
	default:
		b.WriteString(m.Tree.View())
		if hv := m.History.View(); hv != "" {
			b.WriteString("\n\n")
			b.WriteString(hv)
		}
	}
	b.WriteString("\n")
	b.WriteString(m.Status.View(m.position()))
	return b.String()
}

func (m *Model) renderTabs() string {
	var parts []string
	for _, t := range []tab{tabViewer, tabEditor} {
		if t == m.tab {
			parts = append(parts, m.st.tabOn.Render(t.String()))
		} else {
			parts = append(parts, m.st.tabOff.Render(t.String()))
		}
	}
	return strings.Join(parts, m.st.separator.Render(" │ ")) + "   " + m.st.dim.Render("? help")
}

// position is the "n/total" counter shown at the right of the status line.
func (m *Model) position() string {
	if m.tab != tabViewer || m.focus != focusTree {
		return ""
	}
	rows := m.Tree.Rows()
	if len(rows) == 0 {
		return ""
	}
	return strconv.Itoa(m.Tree.Cursor()+1) + "/" + strconv.Itoa(len(rows))
}
