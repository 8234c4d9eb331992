package dispatch

import (
	"sqlcli/internal/action"
	"sqlcli/internal/dataview"
	"sqlcli/internal/viewport"
)

// Clipboard abstracts the yank destination (spec §4.8's Yank actions
// "place text on an abstract Context"; the real OS clipboard is never
// invoked, see DESIGN.md).
type Clipboard interface {
	Set(text string)
}

// Context is what ActionHandlers see: the DataView/ViewportManager/
// buffer operations a handler needs, without depending on a real
// terminal (spec §4.8, "so handlers are testable without a real
// terminal").
type Context interface {
	View() *dataview.DataView
	SetView(*dataview.DataView)

	Viewport() *viewport.ViewportManager

	Mode() action.Mode
	SetMode(action.Mode)

	Clipboard() Clipboard

	RunQuery(sql string) error

	DebugInfo() string

	SetStatus(string)
}
