package dispatch

import (
	"errors"
	"os"
	"strings"

	"sqlcli/internal/action"
)

var errNoView = errors.New("no data loaded")

// NavigationHandler owns Navigate and JumpToRow (spec §4.8).
type NavigationHandler struct{}

func (NavigationHandler) Handle(ctx Context, act action.Action) (Result, error) {
	switch act.Kind {
	case action.KindNavigate:
		view := ctx.View()
		if view == nil {
			return ActionError, errNoView
		}
		vp := ctx.Viewport()
		row, col := vp.Crosshair()
		count := act.Count
		if count < 1 {
			count = 1
		}
		switch act.Direction {
		case action.Up:
			vp.SetCrosshair(row-count, col)
		case action.Down:
			vp.SetCrosshair(row+count, col)
		case action.Left:
			vp.SetCrosshair(row, col-count)
		case action.Right:
			vp.SetCrosshair(row, col+count)
		case action.Top:
			vp.SetCrosshair(0, col)
		case action.Bottom:
			vp.SetCrosshair(view.RowCount()-1, col)
		case action.PageUp:
			vp.PageUp()
		case action.PageDown:
			vp.PageDown()
		}
		return Handled, nil

	case action.KindJumpToRow:
		view := ctx.View()
		if view == nil {
			return ActionError, errNoView
		}
		_, col := ctx.Viewport().Crosshair()
		ctx.Viewport().SetCrosshair(act.Row, col)
		return Handled, nil
	}
	return NotHandled, nil
}

// ColumnHandler owns ToggleColumnPin, HideColumn, UnhideAllColumns,
// Sort, and SetPackingMode (spec §4.8, §4.6).
type ColumnHandler struct{}

func (ColumnHandler) Handle(ctx Context, act action.Action) (Result, error) {
	view := ctx.View()
	switch act.Kind {
	case action.KindToggleColumnPin:
		if view == nil {
			return ActionError, errNoView
		}
		view.PinColumnByName(act.Column)
		return Handled, nil

	case action.KindHideColumn:
		if view == nil {
			return ActionError, errNoView
		}
		view.HideColumnByName(act.Column)
		return Handled, nil

	case action.KindUnhideAllColumns:
		if view == nil {
			return ActionError, errNoView
		}
		view.UnhideAllColumns()
		return Handled, nil

	case action.KindSort:
		if view == nil {
			return ActionError, errNoView
		}
		idx, ok := view.Table().ColumnIndex(act.Column)
		if !ok {
			return ActionError, errors.New("unknown column: " + act.Column)
		}
		view.ApplySort(idx, act.Ascending)
		return Handled, nil

	case action.KindSetPackingMode:
		ctx.Viewport().SetPackingMode(ctx.Viewport().PackingMode().Cycle())
		return Handled, nil
	}
	return NotHandled, nil
}

// ExportHandler owns Export (spec §6, CSV/JSON export).
type ExportHandler struct {
	// WriteFile is invoked with the rendered content; overridable in
	// tests to avoid touching the filesystem.
	WriteFile func(path, content string) error
}

func (h ExportHandler) Handle(ctx Context, act action.Action) (Result, error) {
	if act.Kind != action.KindExport {
		return NotHandled, nil
	}
	view := ctx.View()
	if view == nil {
		return ActionError, errNoView
	}
	var content string
	var err error
	switch act.Format {
	case action.ExportCSV:
		content, err = view.ToCSV()
	case action.ExportJSON:
		content, err = view.ToJSON()
	}
	if err != nil {
		return ActionError, err
	}
	write := h.WriteFile
	if write == nil {
		write = func(path, content string) error {
			return os.WriteFile(path, []byte(content), 0o644)
		}
	}
	if err := write(act.Path, content); err != nil {
		return ActionError, err
	}
	return Handled, nil
}

// YankHandler owns Yank (spec §4.8).
type YankHandler struct{}

func (YankHandler) Handle(ctx Context, act action.Action) (Result, error) {
	if act.Kind != action.KindYank {
		return NotHandled, nil
	}
	view := ctx.View()
	if view == nil {
		return ActionError, errNoView
	}
	row, col := ctx.Viewport().Crosshair()
	cb := ctx.Clipboard()
	if cb == nil {
		return ActionError, errors.New("no clipboard available")
	}

	switch act.YankTarget {
	case action.YankCell:
		if row < 0 || row >= view.RowCount() {
			return ActionError, errors.New("crosshair out of range")
		}
		cb.Set(view.GetRow(row).Values[col].String())

	case action.YankRow:
		if row < 0 || row >= view.RowCount() {
			return ActionError, errors.New("crosshair out of range")
		}
		values := view.GetRow(row).Values
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = v.String()
		}
		cb.Set(strings.Join(parts, "\t"))

	case action.YankColumn:
		var parts []string
		for i := 0; i < view.RowCount(); i++ {
			parts = append(parts, view.GetRow(i).Values[col].String())
		}
		cb.Set(strings.Join(parts, "\n"))

	case action.YankAll:
		csv, err := view.ToCSV()
		if err != nil {
			return ActionError, err
		}
		cb.Set(csv)

	case action.YankQuery:
		cb.Set(act.SQL)
	}
	return Handled, nil
}

// UIHandler owns ShowHelp, ShowDebugInfo, ExitCurrentMode, SwitchMode,
// and ExecuteQuery (spec §4.8, §4.9).
type UIHandler struct{}

func (UIHandler) Handle(ctx Context, act action.Action) (Result, error) {
	switch act.Kind {
	case action.KindShowHelp:
		ctx.SetMode(action.ModeHelp)
		return Handled, nil

	case action.KindShowDebugInfo:
		ctx.SetMode(action.ModeDebug)
		ctx.SetStatus(ctx.DebugInfo())
		return Handled, nil

	case action.KindExitCurrentMode:
		ctx.SetMode(action.ModeResults)
		return Handled, nil

	case action.KindSwitchMode:
		ctx.SetMode(act.Mode)
		return Handled, nil

	case action.KindExecuteQuery:
		if err := ctx.RunQuery(act.SQL); err != nil {
			return ActionError, err
		}
		ctx.SetMode(action.ModeResults)
		return Handled, nil
	}
	return NotHandled, nil
}
