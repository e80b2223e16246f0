package ui

// keyHelp is one line of the help overlay.
type keyHelp struct {
	Keys string
	Desc string
}

type keySection struct {
	Title string
	Keys  []keyHelp
}

var helpSections = []keySection{
	{
		Title: "Global",
		Keys: []keyHelp{
			{"tab", "switch between Viewer and Editor"},
			{"ctrl+t", "toggle light/dark theme"},
			{"u", "focus the URL input"},
			{"?", "toggle this help"},
			{"q / ctrl+c", "quit"},
		},
	},
	{
		Title: "URL input",
		Keys: []keyHelp{
			{"enter", "fetch the address"},
			{"esc", "back to the tree"},
		},
	},
	{
		Title: "Viewer",
		Keys: []keyHelp{
			{"up/down j/k", "move the cursor"},
			{"pgup/pgdown", "move one page"},
			{"home/end g/G", "first/last row"},
			{"enter/space", "expand or collapse the selected row"},
			{"right", "expand the selected row"},
			{"left", "collapse, or jump to the parent row"},
			{"e / E", "expand all / collapse all"},
			{"y / Y", "copy the selected path / value"},
			{"r", "fetch the current address again"},
			{"o", "open the current address in a browser"},
			{"h", "focus the URL history"},
		},
	},
	{
		Title: "URL history",
		Keys: []keyHelp{
			{"enter", "fetch the selected address"},
			{"d", "remove the selected address"},
			{"h / esc", "back to the tree"},
		},
	},
	{
		Title: "Editor",
		Keys: []keyHelp{
			{"ctrl+s", "apply the edited text"},
			{"esc", "back to the Viewer"},
		},
	},
}
