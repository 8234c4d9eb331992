// Package viewport implements ViewportManager, the rectangular window
// into a dataview.DataView used for rendering (spec §4.6). The column
// width algorithm and calculate_visible_column_indices are ported from
// the original sql-cli's ColumnWidthCalculator and ViewportManager;
// the crosshair/viewport_lock contract is the spec's addition over the
// original's plain row/col windowing, grounded in the original's
// buffer-level viewport_lock flag and the vim search manager's
// absolute-coordinate crosshair handling.
package viewport

import (
	"sqlcli/internal/dataview"
)

// PackingMode selects the column-width calculation strategy (spec §4.6).
type PackingMode int

const (
	Balanced PackingMode = iota
	DataFocus
	HeaderFocus
)

func (m PackingMode) String() string {
	switch m {
	case DataFocus:
		return "Data Focus"
	case HeaderFocus:
		return "Header Focus"
	default:
		return "Balanced"
	}
}

// Cycle advances to the next packing mode (Balanced -> DataFocus ->
// HeaderFocus -> Balanced), matching the original's mode-cycle keybinding.
func (m PackingMode) Cycle() PackingMode {
	switch m {
	case Balanced:
		return DataFocus
	case DataFocus:
		return HeaderFocus
	default:
		return Balanced
	}
}

const (
	minColWidth            = 3
	maxColWidth            = 50
	defaultColWidth        = 15
	maxColWidthDataFocus   = 100
	columnPadding          = 2
	minHeaderWidthDataFocus = 5
	maxHeaderToDataRatio   = 1.5
)

// ViewportManager maintains the visible row/column window, cached
// column widths, and the navigation crosshair over a DataView.
type ViewportManager struct {
	view *dataview.DataView

	rowOffset, colOffset           int
	terminalWidth, terminalHeight int

	columnWidths []int
	cacheDirty   bool

	crosshairRow, crosshairCol int
	viewportLock              bool
	packingMode               PackingMode
}

// New creates a manager over view with the default 80x24 terminal size.
func New(view *dataview.DataView) *ViewportManager {
	return &ViewportManager{
		view:           view,
		terminalWidth:  80,
		terminalHeight: 24,
		cacheDirty:     true,
		packingMode:    Balanced,
	}
}

// SetDataView replaces the underlying view, invalidating the width cache.
func (m *ViewportManager) SetDataView(view *dataview.DataView) {
	m.view = view
	m.crosshairRow, m.crosshairCol = 0, 0
	m.InvalidateCache()
}

func (m *ViewportManager) InvalidateCache() { m.cacheDirty = true }

// SetPackingMode changes the column-width strategy, invalidating the cache
// only if it actually changed.
func (m *ViewportManager) SetPackingMode(mode PackingMode) {
	if m.packingMode != mode {
		m.packingMode = mode
		m.InvalidateCache()
	}
}

func (m *ViewportManager) PackingMode() PackingMode { return m.packingMode }

// SetViewportSize sets terminal dimensions, invalidating the cache (spec
// §4.6: "Cache invalidates on: ... viewport resize").
func (m *ViewportManager) SetViewportSize(width, height int) {
	if width != m.terminalWidth || height != m.terminalHeight {
		m.terminalWidth, m.terminalHeight = width, height
		m.InvalidateCache()
	}
}

func (m *ViewportManager) SetViewportLock(locked bool) { m.viewportLock = locked }
func (m *ViewportManager) ViewportLock() bool          { return m.viewportLock }

// visibleRowRange is the window of row indices currently shown.
func (m *ViewportManager) visibleRowRange() (int, int) {
	total := m.view.RowCount()
	end := m.rowOffset + m.terminalHeight
	if end > total {
		end = total
	}
	if m.rowOffset > end {
		return end, end
	}
	return m.rowOffset, end
}

// recalculateColumnWidths ports ColumnWidthCalculator::recalculate_column_widths
// from the original implementation, generalized over the three packing modes.
func (m *ViewportManager) recalculateColumnWidths() {
	colCount := m.view.ColumnCount()
	m.columnWidths = make([]int, colCount)
	headers := m.view.ColumnNames()

	rowStart, rowEnd := m.visibleRowRange()
	rowSpan := rowEnd - rowStart

	for col := 0; col < colCount; col++ {
		headerWidth := 0
		if col < len(headers) {
			headerWidth = len([]rune(headers[col]))
		}

		maxDataWidth := 0
		samples := 0

		sampleSize := 100
		if rowSpan < sampleSize {
			sampleSize = rowSpan
		}
		sampleStep := 1
		if sampleSize > 0 && rowSpan > sampleSize {
			sampleStep = rowSpan / sampleSize
		}

		modeMax := maxColWidth
		if m.packingMode == DataFocus {
			modeMax = maxColWidthDataFocus
		}

		for i := 0; i < rowSpan; i++ {
			if sampleStep > 0 && i%sampleStep != 0 && i != 0 && i != rowSpan-1 {
				continue
			}
			row := m.view.GetRow(rowStart + i - m.rowOffset)
			if col >= len(row.Values) {
				continue
			}
			width := len([]rune(row.Values[col].String()))
			if width > maxDataWidth {
				maxDataWidth = width
			}
			samples++
			if maxDataWidth >= modeMax {
				break
			}
		}

		optimal := m.optimalWidthForMode(headerWidth, maxDataWidth, samples)
		minW, maxW := minColWidth, maxColWidth
		if m.packingMode == DataFocus {
			maxW = maxColWidthDataFocus
		}
		m.columnWidths[col] = clamp(optimal, minW, maxW)
	}
	m.cacheDirty = false
}

func (m *ViewportManager) optimalWidthForMode(headerWidth, maxDataWidth, samples int) int {
	switch m.packingMode {
	case DataFocus:
		if samples == 0 {
			return clamp(headerWidth, minHeaderWidthDataFocus, defaultColWidth)
		}
		if maxDataWidth <= 3 {
			return maxDataWidth + columnPadding
		}
		if maxDataWidth <= 10 && headerWidth > maxDataWidth*2 {
			return maxInt(maxDataWidth+columnPadding, minHeaderWidthDataFocus)
		}
		dataWidth := minInt(maxDataWidth+columnPadding, maxColWidthDataFocus)
		return maxInt(dataWidth, minHeaderWidthDataFocus)
	case HeaderFocus:
		headerWithPadding := headerWidth + columnPadding
		if samples == 0 {
			return headerWithPadding
		}
		return maxInt(headerWithPadding, minInt(maxDataWidth, maxColWidth))
	default: // Balanced
		if samples == 0 {
			return maxInt(headerWidth, defaultColWidth)
		}
		dataBasedWidth := maxDataWidth + columnPadding
		if headerWidth > maxDataWidth {
			maxAllowedHeader := int(float64(maxDataWidth) * maxHeaderToDataRatio)
			return maxInt(dataBasedWidth, minInt(headerWidth, maxAllowedHeader))
		}
		return maxInt(dataBasedWidth, headerWidth)
	}
}

// ColumnWidths returns the cached column widths, recalculating if dirty.
func (m *ViewportManager) ColumnWidths() []int {
	if m.cacheDirty {
		m.recalculateColumnWidths()
	}
	return m.columnWidths
}

func (m *ViewportManager) ColumnWidth(col int) int {
	widths := m.ColumnWidths()
	if col < 0 || col >= len(widths) {
		return defaultColWidth
	}
	return widths[col]
}

// CalculateVisibleColumnIndices returns pinned columns first (each with
// a 1-cell separator), then non-pinned columns starting at col_offset,
// stopping when the next column would exceed availableWidth (spec §4.6).
func (m *ViewportManager) CalculateVisibleColumnIndices(availableWidth int) []int {
	widths := m.ColumnWidths()
	var visible []int
	used := 0

	names := m.view.ColumnNames()
	pinnedN := m.view.PinnedCount()
	for col := 0; col < pinnedN; col++ {
		width := widths[col]
		if used+width+1 > availableWidth {
			continue
		}
		visible = append(visible, col)
		used += width + 1
	}

	for col := pinnedN + m.colOffset; col < len(names); col++ {
		width := widths[col]
		if used+width+1 > availableWidth {
			break
		}
		visible = append(visible, col)
		used += width + 1
	}
	return visible
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// SetCrosshair clamps (row, col) into range and scrolls to include it
// unless viewport_lock is set, in which case the crosshair itself
// clamps to the current window edge (spec §4.6 "Crosshair contract").
func (m *ViewportManager) SetCrosshair(row, col int) {
	row = clamp(row, 0, maxInt(0, m.view.RowCount()-1))
	col = clamp(col, 0, maxInt(0, m.view.ColumnCount()-1))

	if m.viewportLock {
		rowStart, rowEnd := m.visibleRowRange()
		if row < rowStart {
			row = rowStart
		} else if row >= rowEnd && rowEnd > rowStart {
			row = rowEnd - 1
		}
		m.crosshairRow, m.crosshairCol = row, col
		return
	}

	m.crosshairRow, m.crosshairCol = row, col
	m.scrollToIncludeCrosshair()
}

func (m *ViewportManager) Crosshair() (int, int) { return m.crosshairRow, m.crosshairCol }

// scrollToIncludeCrosshair moves row_offset/col_offset just enough to
// bring the crosshair back into the window, with a 1-cell margin
// (spec §4.6 "Scrolling semantics").
func (m *ViewportManager) scrollToIncludeCrosshair() {
	rowStart, rowEnd := m.visibleRowRange()
	if m.crosshairRow < rowStart {
		m.rowOffset = maxInt(0, m.crosshairRow-1)
		m.InvalidateCache()
	} else if m.crosshairRow >= rowEnd {
		m.rowOffset = maxInt(0, m.crosshairRow-m.terminalHeight+2)
		m.InvalidateCache()
	}

	if m.crosshairCol < m.colOffset {
		m.colOffset = maxInt(0, m.crosshairCol-1)
		m.InvalidateCache()
	} else {
		visible := m.CalculateVisibleColumnIndices(m.terminalWidth)
		if len(visible) > 0 && m.crosshairCol > visible[len(visible)-1] {
			m.colOffset = maxInt(0, m.colOffset+1)
			m.InvalidateCache()
		}
	}
}

// PageUp/PageDown move by terminal_height - header_rows (spec §4.6);
// one header row is assumed.
const headerRows = 1

func (m *ViewportManager) PageUp() {
	step := m.terminalHeight - headerRows
	m.rowOffset = maxInt(0, m.rowOffset-step)
	m.InvalidateCache()
}

func (m *ViewportManager) PageDown() {
	step := m.terminalHeight - headerRows
	total := m.view.RowCount()
	m.rowOffset = minInt(maxInt(0, total-1), m.rowOffset+step)
	m.InvalidateCache()
}

func (m *ViewportManager) RowOffset() int { return m.rowOffset }
func (m *ViewportManager) ColOffset() int { return m.colOffset }
