package command

import (
	"fmt"
	"path"
	"strings"

	"burrow/lineedit"
)

// Mode is the dispatcher state.
type Mode int

const (
	// Normal reads whole lines and parses them as commands.
	Normal Mode = iota
	// AwaitingFilename reads single keystrokes into a file name.
	AwaitingFilename
)

func (m Mode) String() string {
	if m == AwaitingFilename {
		return "awaiting-filename"
	}
	return "normal"
}

// RawSwitch turns keystroke-at-a-time input delivery on or off.
type RawSwitch interface {
	SetRaw(on bool) error
}

// KeyResult reports what one keystroke in AwaitingFilename did.
type KeyResult struct {
	Echo     string // text to echo after the cursor
	Erase    int    // cells to erase left of the cursor
	Done     bool   // the dispatcher is back in Normal
	Filename string // the confirmed name, empty when aborted
	Item     int    // the ordinal the filename was requested for
	Err      error  // raw delivery could not be switched back off
}

// Dispatcher is the two-state input machine. In Normal it turns lines into
// Commands; in AwaitingFilename it edits a file name keystroke by keystroke.
type Dispatcher struct {
	mode   Mode
	raw    RawSwitch
	editor *lineedit.Editor
	scheme *lineedit.FilenameScheme
	item   int

	// set when AwaitingFilename was confirmed with CR, so an LF later in
	// the same input chunk is not read as an empty line
	swallowLF bool
}

// NewDispatcher creates a dispatcher in Normal mode. raw may be nil when
// input is not a terminal.
func NewDispatcher(raw RawSwitch) *Dispatcher {
	return &Dispatcher{
		raw:    raw,
		editor: lineedit.New(),
		scheme: &lineedit.FilenameScheme{},
	}
}

// Mode returns the current state.
func (d *Dispatcher) Mode() Mode {
	return d.mode
}

// Pending returns the file name typed so far.
func (d *Dispatcher) Pending() string {
	return d.editor.Text()
}

// HandleLine parses one line in Normal mode.
func (d *Dispatcher) HandleLine(line string) (Command, error) {
	return Parse(line)
}

// SkipByte reports whether b, arriving in Normal mode, is the LF half of
// the CRLF that confirmed a file name.
func (d *Dispatcher) SkipByte(b byte) bool {
	skip := d.swallowLF && b == '\n'
	d.swallowLF = false
	return skip
}

// EndChunk marks the end of one read from the input. A CR that confirmed a
// file name only pairs with an LF delivered in the same read; in raw mode
// Enter sends a lone CR and the next LF is a new empty line.
func (d *Dispatcher) EndChunk() {
	d.swallowLF = false
}

// BeginFilename enters AwaitingFilename for the item with the given
// ordinal, prefilled with name. Raw delivery is switched on.
func (d *Dispatcher) BeginFilename(item int, name string) error {
	d.editor.Set(name)
	d.scheme = &lineedit.FilenameScheme{}
	d.item = item
	d.mode = AwaitingFilename
	if d.raw != nil {
		if err := d.raw.SetRaw(true); err != nil {
			d.mode = Normal
			return err
		}
	}
	return nil
}

// HandleKey consumes one keystroke in AwaitingFilename.
func (d *Dispatcher) HandleKey(b byte) KeyResult {
	ev := d.scheme.HandleKey(d.editor, b)
	switch {
	case ev.Submit:
		return d.finish(strings.TrimSpace(d.editor.Text()))
	case ev.Cancel:
		return d.finish("")
	}
	return KeyResult{Echo: ev.Echo, Erase: ev.Erase}
}

// finish leaves AwaitingFilename, switching raw delivery back off.
func (d *Dispatcher) finish(name string) KeyResult {
	res := KeyResult{Done: true, Filename: name, Item: d.item}
	d.mode = Normal
	d.swallowLF = d.scheme.AfterCR()
	d.editor.Clear()
	d.item = 0
	if d.raw != nil {
		if err := d.raw.SetRaw(false); err != nil {
			res.Err = fmt.Errorf("restoring line input: %w", err)
		}
	}
	return res
}

// SuggestFilename derives a save name from a selector: its last path
// element reduced to the characters the filename editor accepts.
func SuggestFilename(selector string) string {
	base := path.Base(strings.ReplaceAll(selector, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	var b strings.Builder
	for i := 0; i < len(base); i++ {
		if c := base[i]; lineedit.FilenameChar(c) && c != '/' && c != '\\' {
			b.WriteByte(c)
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" || name == "." || name == ".." {
		return "download"
	}
	return name
}
