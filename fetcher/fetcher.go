// Package fetcher retrieves Gopher resources over TCP, directly or through a
// SOCKS proxy.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/proxy"

	"burrow/gopher"
	"burrow/logging"
)

// Options configures the fetcher behavior.
type Options struct {
	TimeoutSeconds int
	Proxy          string // socks5://host:port, empty uses ALL_PROXY or a direct connection
	MaxBytes       int64  // reply size cap
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		TimeoutSeconds: 30,
		MaxBytes:       64 << 20,
	}
}

// Client fetches Gopher resources.
type Client struct {
	opts   Options
	dialer proxy.Dialer
}

// New creates a Client. Zero option fields take their defaults.
func New(o Options) (*Client, error) {
	def := DefaultOptions()
	if o.TimeoutSeconds <= 0 {
		o.TimeoutSeconds = def.TimeoutSeconds
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = def.MaxBytes
	}

	var d proxy.Dialer = proxy.FromEnvironment()
	if o.Proxy != "" {
		u, err := url.Parse(o.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy %q: %w", o.Proxy, err)
		}
		d, err = proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("configuring proxy %q: %w", o.Proxy, err)
		}
	}
	return &Client{opts: o, dialer: d}, nil
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return time.Duration(c.opts.TimeoutSeconds) * time.Second
}

func (c *Client) dial(ctx context.Context, addr string) (net.Conn, error) {
	if cd, ok := c.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, "tcp", addr)
	}
	return c.dialer.Dial("tcp", addr)
}

// Fetch sends the request for res and reads the whole reply. When saveAs is
// set the payload is written to that file instead of being returned.
func (c *Client) Fetch(ctx context.Context, res *gopher.Resource, saveAs string) (*gopher.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()

	log := logging.WithContext(ctx)
	start := time.Now()
	addr := net.JoinHostPort(res.Host, strconv.Itoa(res.Port))

	conn, err := c.dial(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { conn.SetDeadline(time.Now()) })
	defer stop()

	if _, err := io.WriteString(conn, res.Request()); err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	body, err := io.ReadAll(io.LimitReader(conn, c.opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading reply: %w", err)
	}
	if int64(len(body)) > c.opts.MaxBytes {
		return nil, fmt.Errorf("reply from %s exceeds %d bytes", addr, c.opts.MaxBytes)
	}

	reply := &gopher.Reply{
		Meta: gopher.Meta{
			Resource:      res,
			BytesReceived: len(body),
			Elapsed:       time.Since(start),
			RemoteAddr:    remoteHost(conn),
		},
	}

	payload := body
	if gopher.IsTextual(res.Type) {
		payload = gopher.TrimTextTerminator(body)
	}

	switch {
	case saveAs != "":
		if err := os.WriteFile(saveAs, payload, 0o644); err != nil {
			return nil, &WriteError{Path: saveAs, Err: err}
		}
		reply.Kind = gopher.KindSaved
		reply.Meta.FileName = saveAs
	case gopher.IsDirectory(res.Type):
		reply.Kind = gopher.KindDirectory
		reply.Directory = gopher.ParseDirectory(body)
	case gopher.IsTextual(res.Type):
		reply.Kind = gopher.KindText
		reply.Text = string(payload)
	default:
		reply.Kind = gopher.KindBinary
		reply.Buffer = body
	}

	log.Debug("reply received",
		zap.String("resource", res.ShortURI()),
		zap.Int("bytes", reply.Meta.BytesReceived),
		zap.Duration("elapsed", reply.Meta.Elapsed),
		zap.String("saved_as", saveAs),
	)
	return reply, nil
}

// WriteError reports a reply that was received but could not be saved.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func remoteHost(conn net.Conn) string {
	addr := conn.RemoteAddr()
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
