package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"burrow/gopher"
	"burrow/logging"
)

// Fetcher retrieves a resource. With saveAs set the payload is written to
// that file and the returned reply carries no payload.
type Fetcher interface {
	Fetch(ctx context.Context, res *gopher.Resource, saveAs string) (*gopher.Reply, error)
}

// Size is a terminal size in cells.
type Size struct {
	Columns int
	Rows    int
}

// Loop runs fetches in the background and serializes their completions
// with input and resize events onto one goroutine.
type Loop struct {
	ctx         context.Context
	fetcher     Fetcher
	completions chan Completion
}

// NewLoop creates a loop whose fetches run under ctx.
func NewLoop(ctx context.Context, f Fetcher) *Loop {
	return &Loop{
		ctx:         ctx,
		fetcher:     f,
		completions: make(chan Completion, 1),
	}
}

// Issue starts req in its own goroutine. It is the controller's issue hook.
func (l *Loop) Issue(req Request) {
	ctx := logging.WithFetchID(l.ctx)
	go func() {
		reply, err := l.fetcher.Fetch(ctx, req.Resource, req.SaveAs)
		select {
		case l.completions <- Completion{Request: req, Reply: reply, Err: err}:
		case <-l.ctx.Done():
		}
	}()
}

// Run feeds c from in, from fetch completions and from resize until the
// user quits or input ends, both of which return nil.
func (l *Loop) Run(ctx context.Context, c *Controller, in io.Reader, resize <-chan Size) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inputs := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case inputs <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case chunk := <-inputs:
			if err := c.HandleInput(chunk); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}

		case comp := <-l.completions:
			c.Complete(comp)

		case sz := <-resize:
			c.Resize(sz.Columns, sz.Rows)

		case err := <-readErr:
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("reading input: %w", err)
			}
			if err := c.FlushLine(); err != nil && !errors.Is(err, ErrQuit) {
				return err
			}
			return nil
		}
	}
}
