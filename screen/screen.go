// Package screen buffers the rendered lines of one reply and releases them
// to the terminal a page at a time.
package screen

import (
	"fmt"

	"burrow/render"
)

// ContinueMarker overwrites the previous prompt when a page follows another.
const ContinueMarker = "{Continue}"

// Sink receives everything the buffer shows.
type Sink interface {
	Println(s string)
	Print(s string)
	Overwrite(rows, cols int, s string)
}

// Buffer holds the lines of the current reply and a cursor counting how
// many have been shown. 0 <= cursor <= total == len(lines).
type Buffer struct {
	out       Sink
	lines     []string
	cursor    int
	total     int
	promptLen int
}

// New creates an empty buffer writing to out.
func New(out Sink) *Buffer {
	return &Buffer{out: out}
}

// Reset clears the buffer before a new reply is written.
func (b *Buffer) Reset() {
	b.lines = b.lines[:0]
	b.cursor = 0
	b.total = 0
	b.promptLen = 0
}

// Write appends one line.
func (b *Buffer) Write(line string) {
	b.lines = append(b.lines, line)
	b.total++
}

// Writef appends one formatted line.
func (b *Buffer) Writef(format string, args ...any) {
	b.Write(fmt.Sprintf(format, args...))
}

// Cursor returns how many lines have been shown.
func (b *Buffer) Cursor() int { return b.cursor }

// Total returns how many lines were written since the last Reset.
func (b *Buffer) Total() int { return b.total }

// Remaining returns how many lines have not been shown yet.
func (b *Buffer) Remaining() int { return b.total - b.cursor }

// RenderPage shows lines from the cursor until budget display rows are
// used or the buffer is drained, then shows the prompt. A line wider than
// columns counts as the number of rows it wraps to.
func (b *Buffer) RenderPage(budget, columns int) {
	if budget < 1 {
		budget = 1
	}
	if b.cursor > 0 && b.cursor < b.total {
		// The user pressed enter on the prompt; mark that line as a page break.
		b.out.Overwrite(1, b.promptLen+2, render.Yellow(ContinueMarker))
	}

	rows := 0
	for rows < budget && b.cursor < b.total {
		line := b.lines[b.cursor]
		rows += Rows(line, columns)
		b.out.Println(line)
		b.cursor++
	}
	b.ShowPrompt()
}

// RestartFromTop rewinds the cursor and shows the first page again.
func (b *Buffer) RestartFromTop(budget, columns int) {
	b.cursor = 0
	b.RenderPage(budget, columns)
}

// ShowPrompt prints the status and prompt without showing any lines.
func (b *Buffer) ShowPrompt() {
	msg := ""
	if b.cursor < b.total {
		msg = fmt.Sprintf("%d/%d, %d more ", b.cursor, b.total, b.Remaining())
	}
	b.promptLen = len(msg)
	b.out.Print(render.Yellow(msg + "> "))
}

// Rows returns how many terminal rows line occupies at the given width.
func Rows(line string, columns int) int {
	w := render.StringWidth(line)
	if columns <= 0 || w <= columns {
		return 1
	}
	return (w + columns - 1) / columns
}
