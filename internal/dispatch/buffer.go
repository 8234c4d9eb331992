package dispatch

import (
	"sqlcli/internal/action"
	"sqlcli/internal/dataview"
	"sqlcli/internal/queryengine"
	"sqlcli/internal/viewport"
)

// StringClipboard is an in-memory Clipboard, the default for buffers
// that don't wire a real OS clipboard (spec §1 excludes clipboard
// integration; see DESIGN.md).
type StringClipboard struct {
	Last string
}

func (c *StringClipboard) Set(text string) { c.Last = text }

// Buffer is the concrete Context: one query engine, one DataView, one
// ViewportManager, and the active mode — exclusively owned, matching
// §5's "DataView and ViewportManager are exclusively owned by their
// buffer; there is no cross-buffer mutation."
type Buffer struct {
	engine   *queryengine.Engine
	view     *dataview.DataView
	vp       *viewport.ViewportManager
	mode     action.Mode
	status   string
	lastSQL  string
	clipboard Clipboard
}

// NewBuffer builds a Buffer bound to engine, starting in Command mode
// with an empty DataView-less viewport until the first query runs.
func NewBuffer(engine *queryengine.Engine) *Buffer {
	return &Buffer{
		engine:    engine,
		vp:        viewport.New(nil),
		mode:      action.ModeCommand,
		clipboard: &StringClipboard{},
	}
}

func (b *Buffer) View() *dataview.DataView { return b.view }

func (b *Buffer) SetView(v *dataview.DataView) {
	b.view = v
	b.vp.SetDataView(v)
}

func (b *Buffer) Viewport() *viewport.ViewportManager { return b.vp }

func (b *Buffer) Mode() action.Mode { return b.mode }

func (b *Buffer) SetMode(m action.Mode) { b.mode = m }

func (b *Buffer) Clipboard() Clipboard { return b.clipboard }

// RunQuery runs sql through the engine and, on success, installs the
// resulting DataView as current (spec §7: "previous DataView is
// retained" on error).
func (b *Buffer) RunQuery(sql string) error {
	view, err := b.engine.Run(sql)
	if err != nil {
		return err
	}
	b.lastSQL = sql
	b.SetView(view)
	return nil
}

func (b *Buffer) LastQuery() string { return b.lastSQL }

func (b *Buffer) DebugInfo() string {
	if b.view == nil {
		return "no data loaded"
	}
	return b.view.Table().DebugDump()
}

func (b *Buffer) SetStatus(s string) { b.status = s }

func (b *Buffer) Status() string { return b.status }
