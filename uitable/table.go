package uitable

import "fmt"

// Column is one addressable column in a Table.
type Column struct {
	ID    uint32
	Name  string
	Len   uint32
	Pos   int
	Color int
	Align Align
}

// DataBindFunc receives a raw data value bound to a column id, the
// caller-supplied translation from application data to printable cells.
type DataBindFunc func(tbl *Table, colID uint32, data interface{})

// ColPrintFunc overrides how a single cell is rendered, bypassing the
// default positioned/padded/aligned print.
type ColPrintFunc func(tbl *Table, colID uint32, str string)

// Table is a column-addressed table rendered through a Backend.
type Table struct {
	backend Backend

	y, x          int
	width, height int
	colPad        int
	rowsCount     int
	defaultCol    string
	hdrColor      int

	cols []*Column

	dataBind DataBindFunc
	colPrint ColPrintFunc
}

// New constructs a Table against backend, seeding width/height from the
// backend's reported screen size.
func New(backend Backend) *Table {
	w, h := backend.Size()
	return &Table{
		backend:    backend,
		width:      w,
		height:     h - 2,
		colPad:     1,
		defaultCol: "*",
	}
}

// SetPos sets the table's top-left screen position.
func (t *Table) SetPos(y, x int) {
	t.y, t.x = y, x
	t.updatePositions()
}

// SetHeight overrides the computed height.
func (t *Table) SetHeight(h int) { t.height = h }

// SetDefaultColumn overrides the placeholder text used for an empty cell.
func (t *Table) SetDefaultColumn(s string) { t.defaultCol = s }

// SetDataBind registers the callback Bind invokes to translate application
// data into printable cells.
func (t *Table) SetDataBind(fn DataBindFunc) { t.dataBind = fn }

// SetColPrint registers a callback that overrides the default cell print.
func (t *Table) SetColPrint(fn ColPrintFunc) { t.colPrint = fn }

// SetHeaderColor sets the color applied while printing the header row.
func (t *Table) SetHeaderColor(color int) { t.hdrColor = color }

// AddColumn appends a left-aligned column of the given display width and
// returns it so callers can further configure it.
func (t *Table) AddColumn(id uint32, name string, length uint32) *Column {
	col := &Column{ID: id, Name: name, Len: length, Align: AlignLeft}
	t.cols = append(t.cols, col)
	t.updatePositions()
	return col
}

func (t *Table) updatePositions() {
	pos := t.x
	for _, col := range t.cols {
		col.Pos = pos
		pos += int(col.Len) + t.colPad
	}
}

// column looks up a column by id. Calling this with an id that was never
// added via AddColumn is a programmer error.
func (t *Table) column(id uint32) *Column {
	for _, col := range t.cols {
		if col.ID == id {
			return col
		}
	}
	panic(fmt.Sprintf("uitable: no column with id %d", id))
}

// SetColumnColor sets one column's foreground color.
func (t *Table) SetColumnColor(id uint32, color int) {
	t.column(id).Color = color
}

// SetColumnAlign sets one column's alignment.
func (t *Table) SetColumnAlign(id uint32, align Align) {
	t.column(id).Align = align
}

// Bind invokes the registered data-bind callback for one column. Calling
// this without having registered one via SetDataBind is a programmer
// error.
func (t *Table) Bind(colID uint32, data interface{}) {
	col := t.column(colID)
	if t.dataBind == nil {
		panic("uitable: Bind called with no data-bind callback registered")
	}
	t.dataBind(t, col.ID, data)
}

// AddRow advances to the next row, emitting a newline on backends that
// need one.
func (t *Table) AddRow() {
	t.rowsCount++
	t.backend.Newline()
}

// Clear blanks every row below the header.
func (t *Table) Clear() {
	t.rowsCount = 0
	blank := make([]byte, t.width)
	for i := range blank {
		blank[i] = ' '
	}
	for y := t.y + 1; y < t.y+t.height; y++ {
		t.backend.PrintAt(y, t.x, string(blank))
	}
}

// cellText picks the placeholder for an empty string.
func (t *Table) cellText(str string) string {
	if str == "" {
		return t.defaultCol
	}
	return str
}

func pad(s string, width int, align Align) string {
	if align == AlignLeft {
		return fmt.Sprintf("%-*.*s", width, width, s)
	}
	return fmt.Sprintf("%*.*s", width, width, s)
}

func (t *Table) printCell(col *Column, str string, color int) {
	if t.colPrint != nil {
		t.colPrint(t, col.ID, str)
		return
	}

	rowsY := t.y + t.rowsCount
	text := pad(t.cellText(str), int(col.Len), col.Align)

	if curses, ok := t.backend.(*Curses); ok {
		curses.SetColor(color)
		defer curses.ResetColor()
	}
	t.backend.PrintAt(rowsY, col.Pos, text)
	t.backend.PrintAt(rowsY, col.Pos+int(col.Len), pad("", t.colPad, AlignLeft))
}

// RowPrint prints one cell of the current row in column colID.
func (t *Table) RowPrint(colID uint32, str string) {
	col := t.column(colID)
	t.printCell(col, str, col.Color)
}

// HeaderPrint renders the header row: every column's name, in the header
// color, with the rest of the line filled with blanks up to the table's
// configured width on curses backends.
func (t *Table) HeaderPrint() {
	curses, isCurses := t.backend.(*Curses)
	if isCurses {
		curses.SetColor(t.hdrColor)
		maxWidth := t.width
		curses.PrintAt(t.y, t.x, pad("", maxWidth-t.x, AlignLeft))
		curses.ResetColor()
	}

	width := 0
	for _, col := range t.cols {
		t.printCell(col, col.Name, t.hdrColor)
		width += int(col.Len) + t.colPad
	}

	if isCurses {
		maxWidth := t.width
		if maxWidth > width {
			curses.SetColor(t.hdrColor)
			curses.PrintAt(t.y, width, pad("", maxWidth-width, AlignRight))
			curses.ResetColor()
		}
	}

	t.backend.Flush()
}
