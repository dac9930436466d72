package render

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Output is the line-oriented sink everything on screen goes through.
type Output struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOutput wraps w.
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

func (o *Output) write(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	io.WriteString(o.w, s)
}

// Println writes one line.
func (o *Output) Println(s string) {
	o.write(s + "\n")
}

// Print writes s without a trailing newline.
func (o *Output) Print(s string) {
	o.write(s)
}

// Overwrite moves up rows lines and right cols cells, then writes s and
// returns to the start of the following line.
func (o *Output) Overwrite(rows, cols int, s string) {
	var b strings.Builder
	b.WriteString("\r")
	if rows > 0 {
		b.WriteString(ansi.CursorUp(rows))
	}
	if cols > 0 {
		b.WriteString(ansi.CursorForward(cols))
	}
	b.WriteString(s)
	b.WriteString("\n")
	o.write(b.String())
}

// Backspace erases n cells to the left of the cursor.
func (o *Output) Backspace(n int) {
	if n <= 0 {
		return
	}
	o.write(ansi.CursorBackward(n) + ansi.EraseLineRight)
}
