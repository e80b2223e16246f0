package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// RunModel starts the TUI and blocks until the user quits. Extra
// ProgramOptions (e.g. custom IO) are passed to tea.NewProgram.
func RunModel(opts Options, progOpts ...tea.ProgramOption) error {
	m := New(opts)
	prog := tea.NewProgram(m, progOpts...)
	finalModel, err := prog.Run()
	if fm, ok := finalModel.(*Model); ok && fm != nil {
		fm.log.V(1).Info("tui closed", "address", fm.address, "theme", fm.theme.Name)
	}
	return err
}

// SnapshotConfig sizes a one-off frame and lists the keys replayed before
// it is drawn.
type SnapshotConfig struct {
	Width     int
	Height    int
	StartKeys []string
}

// RenderModelSnapshot builds a model without starting a program and
// returns a single rendered frame. No fetch is started, so opts should
// carry a Document.
func RenderModelSnapshot(opts Options, snap SnapshotConfig) string {
	m := New(opts)
	w, h := snap.Width, snap.Height
	if w <= 0 {
		w = m.Width
	}
	if h <= 0 {
		h = m.Height
	}
	m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	for _, k := range snap.StartKeys {
		m.Update(keyPress(k))
	}
	return m.render()
}

// keyPress converts a key name as printed by KeyPressMsg.String back into
// a message. Single runes become text keys; unknown names yield a zero
// message.
func keyPress(name string) tea.KeyPressMsg {
	switch name {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	}
	if rest, ok := strings.CutPrefix(name, "ctrl+"); ok && len(rest) == 1 {
		return tea.KeyPressMsg{Code: rune(rest[0]), Mod: tea.ModCtrl}
	}
	r := []rune(name)
	if len(r) == 1 {
		return tea.KeyPressMsg{Code: r[0], Text: name}
	}
	return tea.KeyPressMsg{}
}
