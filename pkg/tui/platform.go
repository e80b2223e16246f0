package tui

import "github.com/oakwood-commons/jsonpeek/internal/ui"

// CopyToClipboard copies text to the system clipboard, the same way the
// viewer's y and Y keys do.
func CopyToClipboard(text string) error {
	return ui.CopyToClipboard(text)
}

// OpenURL opens the given URL in the default system browser using
// platform-specific commands (open on macOS, xdg-open on Linux,
// rundll32 on Windows).
func OpenURL(url string) error {
	return ui.OpenURL(url)
}
