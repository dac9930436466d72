// Package lineedit provides a small single-line editor fed one keystroke
// at a time.
package lineedit

// Editor is a single-line text buffer with the cursor kept at the end.
type Editor struct {
	text []byte
}

// New creates a new empty Editor.
func New() *Editor {
	return &Editor{}
}

// Text returns the current text.
func (e *Editor) Text() string {
	return string(e.text)
}

// Len returns the length of the text.
func (e *Editor) Len() int {
	return len(e.text)
}

// Clear resets the editor to empty state.
func (e *Editor) Clear() {
	e.text = e.text[:0]
}

// Set replaces the text.
func (e *Editor) Set(text string) {
	e.text = []byte(text)
}

// Insert appends a character.
func (e *Editor) Insert(ch byte) {
	e.text = append(e.text, ch)
}

// DeleteBackward removes the last character (backspace).
// Returns true if a character was deleted.
func (e *Editor) DeleteBackward() bool {
	if len(e.text) == 0 {
		return false
	}
	e.text = e.text[:len(e.text)-1]
	return true
}
