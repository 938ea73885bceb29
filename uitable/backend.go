// Package uitable implements the table UI: a column-addressed table that
// can render through a curses-style screen or as plain sequential stdout
// text, plus a CSV export path for scripting. The rendering surface is an
// explicit Backend passed to the table's constructor, so a process can
// hold more than one table against different backends at once.
package uitable

// Align is a column's text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Backend is the rendering surface a Table writes to: either a curses-style
// addressable screen (Curses) or a plain linear writer (Stdout).
type Backend interface {
	// PrintAt renders s at screen row y, column x. The Stdout backend has
	// no real addressing: it ignores y and x and writes s sequentially, so
	// output lands in place only when callers print left-to-right,
	// top-to-bottom.
	PrintAt(y, x int, s string)

	// Newline ends the current row.
	Newline()

	// Size reports the usable screen dimensions, used to compute a
	// table's default height.
	Size() (width, height int)

	// Flush pushes buffered output to the terminal. A no-op for Stdout.
	Flush()

	// Close releases backend resources (e.g. tears down the curses
	// screen). A no-op for Stdout.
	Close()
}
