// Package history implements the back/forward navigation stack.
package history

import (
	"errors"
	"fmt"

	"burrow/gopher"
)

var (
	// ErrAtEnd is reported when stepping forward past the newest entry.
	ErrAtEnd = errors.New("you are at the end")
	// ErrAtBeginning is reported when stepping back past the oldest entry.
	ErrAtBeginning = errors.New("you are at the beginning")
	// ErrInvalidIndex is returned by JumpTo for an out of range index.
	ErrInvalidIndex = errors.New("invalid history item")
)

// History is an ordered list of visited resources with a current position.
// Entries after the current position are the forward branch.
type History struct {
	entries  []*gopher.Resource
	pos      int
	suppress bool
}

// New creates an empty history.
func New() *History {
	return &History{pos: -1}
}

// RecordVisit merges a freshly fetched resource into the history. A visit
// caused by a replay (Back, Forward, JumpTo, Reload) only clears the
// suppress flag.
func (h *History) RecordVisit(target *gopher.Resource) {
	if h.suppress {
		h.suppress = false
		return
	}
	if target == nil {
		return
	}

	// A new navigation from the middle of the stack drops the forward branch.
	h.entries = h.entries[:h.pos+1]

	if cur := h.Current(); cur != nil && cur.Equal(target) {
		return
	}
	h.entries = append(h.entries, target)
	h.pos = len(h.entries) - 1
}

// Forward moves one entry forward and returns the resource to re-fetch.
func (h *History) Forward() (*gopher.Resource, error) {
	if h.pos+1 >= len(h.entries) {
		return nil, ErrAtEnd
	}
	h.pos++
	return h.replay(), nil
}

// Back moves one entry back and returns the resource to re-fetch.
func (h *History) Back() (*gopher.Resource, error) {
	if len(h.entries) == 0 || h.pos <= 0 {
		return nil, ErrAtBeginning
	}
	h.pos--
	return h.replay(), nil
}

// JumpTo moves to the entry at index and returns it for re-fetching.
func (h *History) JumpTo(index int) (*gopher.Resource, error) {
	if index < 0 || index >= len(h.entries) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	h.pos = index
	return h.replay(), nil
}

// Reload returns the current entry for re-fetching without moving.
func (h *History) Reload() (*gopher.Resource, error) {
	if h.Current() == nil {
		return nil, ErrAtBeginning
	}
	return h.replay(), nil
}

func (h *History) replay() *gopher.Resource {
	h.suppress = true
	return h.entries[h.pos]
}

// ClearSuppress forgets a pending replay, used when its fetch failed.
func (h *History) ClearSuppress() {
	h.suppress = false
}

// Suppressed reports whether the next RecordVisit will be ignored.
func (h *History) Suppressed() bool {
	return h.suppress
}

// Current returns the entry at the current position, or nil.
func (h *History) Current() *gopher.Resource {
	if h.pos < 0 || h.pos >= len(h.entries) {
		return nil
	}
	return h.entries[h.pos]
}

// Index returns the current position, -1 when empty.
func (h *History) Index() int {
	return h.pos
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Listing is a read-only snapshot of the history.
type Listing struct {
	Entries []*gopher.Resource
	Current int
}

// List returns a snapshot of all entries and the current position.
func (h *History) List() Listing {
	entries := make([]*gopher.Resource, len(h.entries))
	copy(entries, h.entries)
	return Listing{Entries: entries, Current: h.pos}
}
