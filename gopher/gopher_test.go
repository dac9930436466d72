package gopher

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		host     string
		port     int
		typ      byte
		selector string
		query    string
		title    string
	}{
		{"root", "gopher://example.org", "example.org", 70, TypeDirectory, "", "", ""},
		{"root slash", "gopher://example.org:70/", "example.org", 70, TypeDirectory, "", "", ""},
		{"directory", "gopher://example.org:70/1/", "example.org", 70, TypeDirectory, "/", "", ""},
		{"no scheme", "example.org:7070/0/notes.txt", "example.org", 7070, TypeText, "/notes.txt", "", ""},
		{"query", "gopher://example.org/7/search%09cats", "example.org", 70, TypeSearch, "/search", "cats", ""},
		{"name fragment", "gopher://dusted.dk:70/1/#DusteDs Home in Cyberspace", "dusted.dk", 70, TypeDirectory, "/", "", "DusteDs Home in Cyberspace"},
		{"question mark selector", "gopher://example.org/0/cgi?x=1", "example.org", 70, TypeText, "/cgi?x=1", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.addr)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.addr, err)
			}
			if r.Host != tt.host {
				t.Errorf("host: got %q, expected %q", r.Host, tt.host)
			}
			if r.Port != tt.port {
				t.Errorf("port: got %d, expected %d", r.Port, tt.port)
			}
			if r.Type != tt.typ {
				t.Errorf("type: got %q, expected %q", r.Type, tt.typ)
			}
			if r.Selector != tt.selector {
				t.Errorf("selector: got %q, expected %q", r.Selector, tt.selector)
			}
			if r.Query != tt.query {
				t.Errorf("query: got %q, expected %q", r.Query, tt.query)
			}
			if r.Name != tt.title {
				t.Errorf("name: got %q, expected %q", r.Name, tt.title)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, addr := range []string{"", "   ", "http://example.org/", "gopher://:70/", "gopher://example.org:99999/", "gopher://example.org:abc/"} {
		if _, err := Parse(addr); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Parse(%q): expected ErrInvalidURL, got %v", addr, err)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	r := NewResource("example.org", 7070, "/docs/a b", TypeText, "Docs").WithQuery("needle")
	back, err := Parse(r.String())
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", r.String(), err)
	}
	if !back.Equal(r) {
		t.Errorf("round trip changed resource: %+v -> %+v", r, back)
	}
	if back.Name != "Docs" {
		t.Errorf("expected name Docs, got %q", back.Name)
	}
}

func TestEqual(t *testing.T) {
	a := NewResource("Example.org", 70, "/x", TypeText, "one")
	b := NewResource("example.org", 70, "/x", TypeText, "two")
	if !a.Equal(b) {
		t.Error("resources differing only by name and host case should be equal")
	}
	if a.Equal(a.WithQuery("q")) {
		t.Error("query should take part in equality")
	}
	if a.Equal(NewResource("example.org", 70, "/x", TypeBinary, "")) {
		t.Error("type should take part in equality")
	}
	var nilRes *Resource
	if nilRes.Equal(a) || !nilRes.Equal(nil) {
		t.Error("nil handling is wrong")
	}
}

func TestWithQueryDoesNotMutate(t *testing.T) {
	a := NewResource("h", 70, "/s", TypeSearch, "")
	b := a.WithQuery("term")
	if a.Query != "" {
		t.Errorf("original mutated: %q", a.Query)
	}
	if b.Request() != "/s\tterm\r\n" {
		t.Errorf("unexpected request line %q", b.Request())
	}
	if a.Request() != "/s\r\n" {
		t.Errorf("unexpected request line %q", a.Request())
	}
}

func TestShortURI(t *testing.T) {
	r := NewResource("example.org", 70, "/about.txt", TypeText, "")
	if got := r.ShortURI(); got != "example.org:70/0/about.txt" {
		t.Errorf("got %q", got)
	}
}

func TestTypeLabel(t *testing.T) {
	if TypeLabel(TypeDirectory) != " DIR" {
		t.Errorf("got %q", TypeLabel(TypeDirectory))
	}
	if TypeLabel('x') != "?x?" {
		t.Errorf("got %q", TypeLabel('x'))
	}
	for _, typ := range []byte{TypeText, TypeSearch, TypeHTML, TypeBinary} {
		if len(TypeLabel(typ)) != 4 {
			t.Errorf("label for %q is not four columns: %q", typ, TypeLabel(typ))
		}
	}
}

func TestParseDirectory(t *testing.T) {
	body := strings.Join([]string{
		"iWelcome\tfake\t(NULL)\t0",
		"1Docs\t/docs\texample.org\t70",
		"0About\t/about.txt\texample.org\t7070",
		"3Oops\t\terror.host\t1",
		"garbage line",
		".",
		"1After\t/after\texample.org\t70",
	}, "\r\n")

	entries := ParseDirectory([]byte(body))
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Type != TypeInfo || entries[0].Name != "Welcome" {
		t.Errorf("unexpected info entry %+v", entries[0])
	}
	if entries[1].Selector != "/docs" || entries[1].Host != "example.org" || entries[1].Port != 70 {
		t.Errorf("unexpected directory entry %+v", entries[1])
	}
	if entries[2].Port != 7070 {
		t.Errorf("expected port 7070, got %d", entries[2].Port)
	}
	if entries[3].Type != TypeError {
		t.Errorf("expected error entry, got %+v", entries[3])
	}
	if entries[4].Type != TypeInfo || entries[4].Name != "garbage line" {
		t.Errorf("malformed line should become info, got %+v", entries[4])
	}

	r := entries[1].Resource()
	if r.Type != TypeDirectory || r.Name != "Docs" {
		t.Errorf("unexpected resource %+v", r)
	}
}

func TestSelectable(t *testing.T) {
	if Selectable(TypeInfo) || Selectable(TypeError) {
		t.Error("info and error lines must not be selectable")
	}
	if !Selectable(TypeText) || !Selectable(TypeSearch) {
		t.Error("text and search items must be selectable")
	}
}

func TestTrimTextTerminator(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello\r\nworld\r\n.\r\n", "hello\r\nworld"},
		{"hello\n.\n", "hello"},
		{".\r\n", ""},
		{"no terminator\n", "no terminator\n"},
		{"ends with dot.\n", "ends with dot.\n"},
	}
	for _, tt := range tests {
		if got := string(TrimTextTerminator([]byte(tt.in))); got != tt.want {
			t.Errorf("TrimTextTerminator(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestEntryJSON(t *testing.T) {
	data, err := json.Marshal([]Entry{{Type: TypeText, Name: "a", Selector: "/a", Host: "h", Port: 70}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `[{"type":"0","name":"a","selector":"/a","host":"h","port":70}]`
	if string(data) != want {
		t.Errorf("got %s, expected %s", data, want)
	}
}
