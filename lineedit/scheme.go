package lineedit

// Event represents the result of handling a key press. The zero Event
// means the key was ignored.
type Event struct {
	Submit bool   // true if user wants to submit (Enter)
	Cancel bool   // true if user wants to cancel/exit
	Echo   string // characters to show for the key, if any
	Erase  int    // cells to erase to the left of the cursor
}

const (
	keyBackspace = 0x7f
	keyCtrlH     = 0x08
	keyEscape    = 0x1b
	keyCR        = '\r'
	keyLF        = '\n'
)

// FilenameScheme accepts the characters allowed in a save file name:
// letters, digits, space, '/', '.', ',' and '\'.
type FilenameScheme struct {
	lastCR bool
}

// HandleKey processes one byte of input and performs editor actions. A LF
// directly after a CR is swallowed so terminals sending CRLF confirm only
// once.
func (s *FilenameScheme) HandleKey(e *Editor, b byte) Event {
	wasCR := s.lastCR
	s.lastCR = b == keyCR

	switch {
	case b == keyLF && wasCR:
		return Event{}
	case b == keyCR || b == keyLF:
		return Event{Submit: true}
	case b == keyEscape:
		return Event{Cancel: true}
	case b == keyBackspace || b == keyCtrlH:
		if e.DeleteBackward() {
			return Event{Erase: 1}
		}
		return Event{}
	case FilenameChar(b):
		e.Insert(b)
		return Event{Echo: string(b)}
	}
	return Event{}
}

// AfterCR reports whether the last key handled was a CR.
func (s *FilenameScheme) AfterCR() bool { return s.lastCR }

// FilenameChar reports whether b may appear in a typed file name.
func FilenameChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == ' ', b == '/', b == '.', b == ',', b == '\\':
		return true
	}
	return false
}
