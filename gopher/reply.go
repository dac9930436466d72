package gopher

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Entry is one line of a directory listing.
type Entry struct {
	Type     byte
	Name     string
	Selector string
	Host     string
	Port     int
}

// Resource converts the entry into a fetchable Resource.
func (e Entry) Resource() *Resource {
	return NewResource(e.Host, e.Port, e.Selector, e.Type, e.Name)
}

// MarshalJSON keeps the type as a one character string.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Name     string `json:"name"`
		Selector string `json:"selector"`
		Host     string `json:"host"`
		Port     int    `json:"port"`
	}{string(e.Type), e.Name, e.Selector, e.Host, e.Port})
}

// Meta describes the exchange that produced a reply.
type Meta struct {
	Resource      *Resource
	BytesReceived int
	Elapsed       time.Duration
	RemoteAddr    string
	FileName      string // set when the payload was written to disk
}

// Kind classifies a reply payload.
type Kind int

const (
	KindDirectory Kind = iota + 1
	KindText
	KindBinary
	KindSaved
)

// Reply is the outcome of a fetch. Kind says which of Directory, Text and
// Buffer is populated; a saved reply populates none of them.
type Reply struct {
	Kind      Kind
	Directory []Entry
	Text      string
	Buffer    []byte
	Meta      Meta
}

// IsTextual reports whether replies for type t are read as text.
func IsTextual(t byte) bool {
	switch t {
	case TypeText, TypeHTML, TypeCSO, TypeError, TypeMail, TypeUUEncoded, TypeBinHex:
		return true
	}
	return false
}

// IsDirectory reports whether replies for type t are menus.
func IsDirectory(t byte) bool {
	return t == TypeDirectory || t == TypeSearch
}

// ParseDirectory decodes a menu body. Malformed lines become informational
// entries so nothing the server sent is silently lost.
func ParseDirectory(body []byte) []Entry {
	entries := []Entry{}
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "." {
			break
		}
		if line == "" {
			continue
		}
		fields := strings.Split(line[1:], "\t")
		e := Entry{Type: line[0], Name: fields[0]}
		if len(fields) > 1 {
			e.Selector = fields[1]
		}
		if len(fields) > 2 {
			e.Host = fields[2]
		}
		if len(fields) > 3 {
			e.Port, _ = strconv.Atoi(strings.TrimSpace(fields[3]))
		}
		if e.Port == 0 {
			e.Port = DefaultPort
		}
		if len(fields) < 4 && e.Type != TypeInfo && e.Type != TypeError {
			e = Entry{Type: TypeInfo, Name: line, Port: DefaultPort}
		}
		entries = append(entries, e)
	}
	return entries
}

// TrimTextTerminator removes the lone "." line that ends a text reply.
func TrimTextTerminator(body []byte) []byte {
	trimmed := bytes.TrimRight(body, "\r\n")
	if string(trimmed) == "." {
		return nil
	}
	if bytes.HasSuffix(trimmed, []byte("\n.")) {
		return bytes.TrimRight(trimmed[:len(trimmed)-1], "\r\n")
	}
	return body
}
