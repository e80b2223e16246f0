package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// Clipboard and browser hooks. Tests swap them out with StubPlatformActions.
var (
	copyToClipboardFn = clipboard.WriteAll
	openURLFn         = openInBrowser
)

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// OpenURL hands address to the desktop's default browser.
func OpenURL(address string) error { return openURLFn(address) }

// StubPlatformActions turns the clipboard and browser hooks into no-ops
// until the returned restore function is called.
func StubPlatformActions() (restore func()) {
	prevCopy, prevOpen := copyToClipboardFn, openURLFn
	copyToClipboardFn = func(string) error { return nil }
	openURLFn = func(string) error { return nil }
	return func() {
		copyToClipboardFn, openURLFn = prevCopy, prevOpen
	}
}

// openInBrowser starts the platform opener and returns without waiting;
// the browser outlives the viewer.
func openInBrowser(address string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "linux":
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return fmt.Errorf("xdg-open not found (install xdg-utils)")
		}
		name = "xdg-open"
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return exec.CommandContext(context.Background(), name, append(args, address)...).Start()
}
