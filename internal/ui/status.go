package ui

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"
)

// Status messages shown by the fetch flow.
const (
	MsgEnterURL    = "Please enter a URL."
	MsgFetching    = "Fetching data..."
	MsgFetched     = "Data fetched successfully!"
	MsgFetchFailed = "Fetch failed."
	MsgApplied     = "Editor text applied."
	MsgUnchanged   = "No changes to apply."
	MsgCopied      = "Copied to clipboard."
)

type statusKind int

const (
	statusIdle statusKind = iota
	statusBusy
	statusSuccess
	statusError
)

// StatusModel is the bottom status line. While busy it shows a spinner.
type StatusModel struct {
	Spinner spinner.Model
	kind    statusKind
	message string
	detail  string
	Width   int
	st      styles
}

// NewStatusModel returns an idle status line.
func NewStatusModel() StatusModel {
	return StatusModel{
		Spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		Width:   80,
	}
}

// Busy shows msg with a running spinner.
func (s *StatusModel) Busy(msg string) tea.Cmd {
	s.kind = statusBusy
	s.message = msg
	s.detail = ""
	return s.Spinner.Tick
}

// Success shows msg in the success color.
func (s *StatusModel) Success(msg string) {
	s.kind = statusSuccess
	s.message = msg
	s.detail = ""
}

// Error shows msg in the error color, followed by detail when set.
func (s *StatusModel) Error(msg, detail string) {
	s.kind = statusError
	s.message = msg
	s.detail = detail
}

// Info shows a neutral message.
func (s *StatusModel) Info(msg string) {
	s.kind = statusIdle
	s.message = msg
	s.detail = ""
}

// IsBusy reports whether the spinner is running.
func (s StatusModel) IsBusy() bool { return s.kind == statusBusy }

// Message returns the current message without styling.
func (s StatusModel) Message() string { return s.message }

// Detail returns the error detail of the current message.
func (s StatusModel) Detail() string { return s.detail }

// Update advances the spinner while busy.
func (s StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && s.kind == statusBusy {
		var cmd tea.Cmd
		s.Spinner, cmd = s.Spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

// View renders the line, truncated to Width.
func (s StatusModel) View(right string) string {
	text := s.message
	if s.detail != "" {
		text += " " + s.detail
	}
	if s.kind == statusBusy {
		text = s.Spinner.View() + " " + text
	}
	width := s.Width
	if width <= 0 {
		width = 80
	}
	avail := width - runewidth.StringWidth(right) - 1
	if avail < 0 {
		avail = 0
	}
	text = runewidth.Truncate(text, avail, "…")
	gap := width - runewidth.StringWidth(text) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}

	style := s.st.status
	switch s.kind {
	case statusSuccess:
		style = s.st.statusOK
	case statusError:
		style = s.st.statusErr
	}
	return style.Render(text) + strings.Repeat(" ", gap) + s.st.dim.Render(right)
}
