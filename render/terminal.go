package render

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal switches the input terminal between line and keystroke delivery.
type Terminal struct {
	fd       int
	original unix.Termios
	raw      bool
}

// NewTerminal creates a terminal controller for the given file.
func NewTerminal(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("reading termios: %w", err)
	}
	return &Terminal{fd: fd, original: *termios}, nil
}

// SetRaw toggles keystroke delivery. Raw here means canonical line editing
// and echo are off; signals and output processing stay as they were so
// Ctrl-C still works and newlines still render.
func (t *Terminal) SetRaw(on bool) error {
	if on == t.raw {
		return nil
	}
	mode := t.original
	if on {
		mode.Lflag &^= unix.ICANON | unix.ECHO
		mode.Iflag &^= unix.ICRNL
		mode.Cc[unix.VMIN] = 1
		mode.Cc[unix.VTIME] = 0
	}
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &mode); err != nil {
		return fmt.Errorf("setting termios: %w", err)
	}
	t.raw = on
	return nil
}

// Restore puts the terminal back into the mode it had when opened.
func (t *Terminal) Restore() error {
	t.raw = false
	return unix.IoctlSetTermios(t.fd, ioctlSetTermios, &t.original)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalSize returns the current terminal dimensions of f.
func TerminalSize(f *os.File) (width, height int, err error) {
	width, height, err = term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return width, height, nil
}
