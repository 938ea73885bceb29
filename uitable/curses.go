package uitable

import (
	"github.com/gdamore/tcell/v2"
)

// Curses is the addressable-screen backend, built on tcell rather than
// linking against a real curses library, so the module stays a pure-Go
// binary with no cgo dependency.
type Curses struct {
	screen tcell.Screen
	style  tcell.Style
}

// NewCurses initializes a tcell screen for curses-style table rendering.
func NewCurses() (*Curses, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &Curses{screen: screen, style: tcell.StyleDefault}, nil
}

func (c *Curses) PrintAt(y, x int, str string) {
	col := x
	for _, r := range str {
		c.screen.SetContent(col, y, r, nil, c.style)
		col++
	}
}

// Newline is a no-op for Curses: every PrintAt call already carries its
// own (y, x), unlike Stdout's sequential writer.
func (c *Curses) Newline() {}

func (c *Curses) Size() (int, int) {
	return c.screen.Size()
}

func (c *Curses) Flush() {
	c.screen.Show()
}

func (c *Curses) Close() {
	c.screen.Fini()
}

// SetColor applies an ANSI-ish foreground color number to subsequent
// PrintAt calls. The style lives on the backend struct rather than as
// global curses attribute state, so it just takes effect on the next
// PrintAt.
func (c *Curses) SetColor(color int) {
	c.style = tcell.StyleDefault.Foreground(tcell.PaletteColor(color))
}

// ResetColor restores the default style.
func (c *Curses) ResetColor() {
	c.style = tcell.StyleDefault
}
