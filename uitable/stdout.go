package uitable

import (
	"fmt"
	"io"
	"os"
)

// Stdout is the plain-text backend: every PrintAt call is a sequential
// write with no real cursor addressing, matching ui.c's UI_STDOUT branch
// (plain printf, newline between rows).
type Stdout struct {
	w io.Writer
}

// NewStdout builds the plain-stdout backend writing to w (os.Stdout if
// nil).
func NewStdout(w io.Writer) *Stdout {
	if w == nil {
		w = os.Stdout
	}
	return &Stdout{w: w}
}

func (s *Stdout) PrintAt(y, x int, str string) {
	fmt.Fprint(s.w, str)
}

func (s *Stdout) Newline() {
	fmt.Fprintln(s.w)
}

// Size reports a conventional 80x24 terminal; Stdout has no real notion
// of screen size since it never addresses the cursor.
func (s *Stdout) Size() (int, int) { return 80, 24 }

func (s *Stdout) Flush() {}

func (s *Stdout) Close() {}
