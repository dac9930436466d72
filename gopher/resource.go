// Package gopher holds the value types shared by the browser: addressable
// resources, directory entries and fetch replies.
package gopher

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPort is the well-known Gopher port.
const DefaultPort = 70

// Item types from RFC 1436 plus the common extensions.
const (
	TypeText      = '0'
	TypeDirectory = '1'
	TypeCSO       = '2'
	TypeError     = '3'
	TypeBinHex    = '4'
	TypeDOS       = '5'
	TypeUUEncoded = '6'
	TypeSearch    = '7'
	TypeTelnet    = '8'
	TypeBinary    = '9'
	TypeImage     = 'I'
	TypeGIF       = 'g'
	TypeTN3270    = 'T'
	TypeHTML      = 'h'
	TypeMail      = 'M'
	TypeInfo      = 'i'
)

// ErrInvalidURL is returned when an address cannot be turned into a Resource.
var ErrInvalidURL = errors.New("invalid gopher address")

// Resource identifies one fetchable location. It is never mutated after
// construction; use WithQuery to derive a new one.
type Resource struct {
	Host     string
	Port     int
	Selector string
	Type     byte
	Name     string
	Query    string
}

// NewResource builds a Resource, defaulting the port and type.
func NewResource(host string, port int, selector string, typ byte, name string) *Resource {
	if port == 0 {
		port = DefaultPort
	}
	if typ == 0 {
		typ = TypeDirectory
	}
	return &Resource{Host: host, Port: port, Selector: selector, Type: typ, Name: name}
}

// WithQuery returns a copy of r carrying q as its search query.
func (r *Resource) WithQuery(q string) *Resource {
	c := *r
	c.Query = q
	return &c
}

// Equal reports whether r and o address the same target. The display name
// does not take part in the comparison.
func (r *Resource) Equal(o *Resource) bool {
	if r == nil || o == nil {
		return r == o
	}
	return strings.EqualFold(r.Host, o.Host) &&
		r.Port == o.Port &&
		r.Type == o.Type &&
		r.Selector == o.Selector &&
		r.Query == o.Query
}

// Request returns the line sent to the server for this resource.
func (r *Resource) Request() string {
	if r.Query != "" {
		return r.Selector + "\t" + r.Query + "\r\n"
	}
	return r.Selector + "\r\n"
}

// ShortURI renders host:port/Tselector, the form used in listings.
func (r *Resource) ShortURI() string {
	s := fmt.Sprintf("%s:%d/%c%s", r.Host, r.Port, r.Type, r.Selector)
	if r.Query != "" {
		s += "%09" + r.Query
	}
	return s
}

// String renders the full gopher:// URL including the name fragment.
func (r *Resource) String() string {
	u := url.URL{
		Scheme: "gopher",
		Host:   r.Host + ":" + strconv.Itoa(r.Port),
		Path:   "/" + string(r.Type) + r.Selector,
	}
	s := u.String()
	if r.Query != "" {
		s += "%09" + url.PathEscape(r.Query)
	}
	if r.Name != "" {
		s += "#" + r.Name
	}
	return s
}

// Parse turns an address such as gopher://host:70/1/path%09query#Name into
// a Resource. The scheme and port are optional.
func Parse(addr string) (*Resource, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidURL)
	}
	if !strings.Contains(addr, "://") {
		addr = "gopher://" + addr
	}

	// The fragment carries a free-form display name which may contain
	// characters url.Parse rejects.
	var name string
	if i := strings.IndexByte(addr, '#'); i >= 0 {
		addr, name = addr[:i], addr[i+1:]
	}

	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "gopher" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("%w: bad port %q", ErrInvalidURL, p)
		}
	}

	r := &Resource{Host: host, Port: port, Type: TypeDirectory, Name: name}

	path := strings.TrimPrefix(u.Path, "/")
	if u.RawQuery != "" {
		// A literal '?' is part of the selector in gopher.
		path += "?" + u.RawQuery
	}
	if path != "" {
		r.Type = path[0]
		path = path[1:]
	}
	if i := strings.IndexByte(path, '\t'); i >= 0 {
		path, r.Query = path[:i], path[i+1:]
	}
	r.Selector = path
	return r, nil
}

// TypeLabel returns the four column tag shown in directory listings.
func TypeLabel(t byte) string {
	switch t {
	case TypeText:
		return " TXT"
	case TypeDirectory:
		return " DIR"
	case TypeCSO:
		return " CSO"
	case TypeError:
		return " ERR"
	case TypeBinHex:
		return "HXBN"
	case TypeDOS:
		return " DOS"
	case TypeUUEncoded:
		return "UENC"
	case TypeSearch:
		return "SRCH"
	case TypeTelnet:
		return " TEL"
	case TypeBinary:
		return " BIN"
	case TypeImage:
		return " IMG"
	case TypeGIF:
		return " GIF"
	case 't', TypeTN3270:
		return " TN3"
	case TypeHTML:
		return "HTML"
	case TypeMail:
		return "MAIL"
	default:
		return "?" + string(t) + "?"
	}
}

// Selectable reports whether entries of type t get an ordinal in a listing.
func Selectable(t byte) bool {
	return t != TypeInfo && t != TypeError
}
