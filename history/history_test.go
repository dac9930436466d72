package history

import (
	"errors"
	"testing"

	"burrow/gopher"
)

func res(sel string) *gopher.Resource {
	return gopher.NewResource("example.org", 70, sel, gopher.TypeDirectory, sel)
}

func selectors(h *History) []string {
	var out []string
	for _, r := range h.List().Entries {
		out = append(out, r.Selector)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRecordVisitAppends(t *testing.T) {
	h := New()
	for i, sel := range []string{"/a", "/b", "/c"} {
		h.RecordVisit(res(sel))
		if h.Len() != i+1 {
			t.Errorf("after %s: expected length %d, got %d", sel, i+1, h.Len())
		}
		if h.Index() != h.Len()-1 {
			t.Errorf("after %s: expected index %d, got %d", sel, h.Len()-1, h.Index())
		}
	}
}

func TestRecordVisitSkipsSameTarget(t *testing.T) {
	h := New()
	h.RecordVisit(res("/a"))
	h.RecordVisit(res("/a"))
	if h.Len() != 1 {
		t.Errorf("expected identical revisit to be merged, got length %d", h.Len())
	}
	h.RecordVisit(res("/b"))
	h.RecordVisit(res("/a"))
	if !equal(selectors(h), []string{"/a", "/b", "/a"}) {
		t.Errorf("unexpected entries %v", selectors(h))
	}
}

func TestDivergingNavigationTruncates(t *testing.T) {
	h := New()
	h.RecordVisit(res("/a"))
	h.RecordVisit(res("/b"))
	h.RecordVisit(res("/c"))

	if _, err := h.JumpTo(1); err != nil {
		t.Fatalf("JumpTo failed: %v", err)
	}
	h.RecordVisit(res("/b")) // completion of the replay

	h.RecordVisit(res("/d"))
	if !equal(selectors(h), []string{"/a", "/b", "/d"}) {
		t.Errorf("expected [/a /b /d], got %v", selectors(h))
	}
	if h.Index() != 2 {
		t.Errorf("expected index 2, got %d", h.Index())
	}
}

func TestRevisitCurrentDropsForward(t *testing.T) {
	h := New()
	h.RecordVisit(res("/a"))
	h.RecordVisit(res("/b"))
	h.Back()
	h.RecordVisit(res("/a"))

	h.RecordVisit(res("/a"))
	if !equal(selectors(h), []string{"/a"}) {
		t.Errorf("expected forward branch dropped, got %v", selectors(h))
	}
}

func TestReplayDoesNotChangeLength(t *testing.T) {
	h := New()
	h.RecordVisit(res("/a"))
	h.RecordVisit(res("/b"))
	h.RecordVisit(res("/c"))

	steps := []func() (*gopher.Resource, error){
		h.Back,
		h.Back,
		h.Forward,
		h.Reload,
		func() (*gopher.Resource, error) { return h.JumpTo(2) },
		func() (*gopher.Resource, error) { return h.JumpTo(0) },
	}
	for i, step := range steps {
		r, err := step()
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if !h.Suppressed() {
			t.Errorf("step %d: expected suppress flag set", i)
		}
		h.RecordVisit(r)
		if h.Suppressed() {
			t.Errorf("step %d: expected suppress flag consumed", i)
		}
		if h.Len() != 3 {
			t.Errorf("step %d: expected length 3, got %d", i, h.Len())
		}
	}
	if !equal(selectors(h), []string{"/a", "/b", "/c"}) {
		t.Errorf("entries changed: %v", selectors(h))
	}
	if h.Index() != 0 {
		t.Errorf("expected index 0, got %d", h.Index())
	}
}

func TestBackScenario(t *testing.T) {
	h := New()
	a, b := res("/a"), res("/b")
	h.RecordVisit(a)
	h.RecordVisit(b)

	r, err := h.Back()
	if err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	if r != a {
		t.Errorf("expected Back to return A, got %v", r)
	}
	if !h.Suppressed() {
		t.Error("expected suppress flag before the replay fetch")
	}
	h.RecordVisit(r)
	if h.Len() != 2 || h.Index() != 0 {
		t.Errorf("expected [A,B] at 0, got length %d index %d", h.Len(), h.Index())
	}
}

func TestBoundaries(t *testing.T) {
	h := New()
	if _, err := h.Back(); !errors.Is(err, ErrAtBeginning) {
		t.Errorf("Back on empty: expected ErrAtBeginning, got %v", err)
	}
	if _, err := h.Forward(); !errors.Is(err, ErrAtEnd) {
		t.Errorf("Forward on empty: expected ErrAtEnd, got %v", err)
	}
	if _, err := h.Reload(); err == nil {
		t.Error("Reload on empty should fail")
	}
	if h.Suppressed() {
		t.Error("failed steps must not set the suppress flag")
	}

	h.RecordVisit(res("/a"))
	if _, err := h.Back(); !errors.Is(err, ErrAtBeginning) {
		t.Errorf("Back at start: expected ErrAtBeginning, got %v", err)
	}
	if _, err := h.Forward(); !errors.Is(err, ErrAtEnd) {
		t.Errorf("Forward at end: expected ErrAtEnd, got %v", err)
	}
	if h.Index() != 0 || h.Len() != 1 {
		t.Errorf("boundary steps changed state: index %d length %d", h.Index(), h.Len())
	}
}

func TestJumpToInvalid(t *testing.T) {
	h := New()
	h.RecordVisit(res("/a"))
	h.RecordVisit(res("/b"))
	for _, idx := range []int{-1, 2, 10} {
		if _, err := h.JumpTo(idx); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("JumpTo(%d): expected ErrInvalidIndex, got %v", idx, err)
		}
	}
	if h.Index() != 1 || h.Suppressed() {
		t.Errorf("invalid jump changed state: index %d suppressed %v", h.Index(), h.Suppressed())
	}
}

func TestClearSuppress(t *testing.T) {
	h := New()
	h.RecordVisit(res("/a"))
	h.RecordVisit(res("/b"))
	h.Back()
	h.ClearSuppress() // replay fetch failed

	h.RecordVisit(res("/c"))
	if !equal(selectors(h), []string{"/a", "/c"}) {
		t.Errorf("expected fresh visit recorded after cleared replay, got %v", selectors(h))
	}
}

func TestListIsSnapshot(t *testing.T) {
	h := New()
	h.RecordVisit(res("/a"))
	l := h.List()
	l.Entries[0] = res("/mutated")
	if h.Current().Selector != "/a" {
		t.Error("List must not expose internal storage")
	}
	if l.Current != 0 {
		t.Errorf("expected current 0, got %d", l.Current)
	}
}
