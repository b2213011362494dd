// Package nav declares the dashboard sidebar.
package nav

import "strings"

// Kind is how a sidebar entry reacts when chosen.
type Kind string

const (
	// KindLink navigates to URL.
	KindLink Kind = "link"
	// KindAlert opens an informational dialog.
	KindAlert Kind = "alert"
	// KindAction runs a confirmation-gated action.
	KindAction Kind = "action"
)

// Entry is one sidebar item.
type Entry struct {
	Name  string
	URL   string
	Icon  string
	Kind  Kind
	Class string
}

// Menu is an ordered, static list of entries.
type Menu []Entry

// Default is the sidebar shown on every dashboard page.
var Default = Menu{
	{Name: "Agents", URL: "/agent", Icon: "bot", Kind: KindLink},
	{Name: "Connections & data", URL: "/connector", Icon: "unplug", Kind: KindLink},
	{Name: "Settings & balance", URL: "/balance", Icon: "settings", Kind: KindAlert},
	{Name: "Sign out", URL: "/logout", Icon: "log-out", Kind: KindAction, Class: "danger"},
}

// IsActive reports whether e should be highlighted on path. Only links can be
// active, and only when path starts with their URL.
func (e Entry) IsActive(path string) bool {
	return e.Kind == KindLink && e.URL != "" && strings.HasPrefix(path, e.URL)
}

// Item is an entry paired with its highlight state for rendering.
type Item struct {
	Entry
	Active bool
}

// Items resolves highlight state for every entry against path.
func (m Menu) Items(path string) []Item {
	items := make([]Item, 0, len(m))
	for _, e := range m {
		items = append(items, Item{Entry: e, Active: e.IsActive(path)})
	}
	return items
}
