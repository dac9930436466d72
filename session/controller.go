// Package session ties the browser together: it owns the item list, the
// last reply and the outstanding request, and turns input lines, filename
// keystrokes, fetch completions and resizes into screen output.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"burrow/command"
	"burrow/fetcher"
	"burrow/gopher"
	"burrow/history"
	"burrow/logging"
	"burrow/render"
	"burrow/screen"
)

// Output is where the controller writes. render.Output implements it.
type Output interface {
	screen.Sink
	Backspace(n int)
}

// Request asks for Resource to be fetched. With SaveAs set the payload is
// written to that file instead of being displayed.
type Request struct {
	ID       uint64
	Resource *gopher.Resource
	SaveAs   string
}

// Completion is the outcome of a Request.
type Completion struct {
	Request Request
	Reply   *gopher.Reply
	Err     error
}

// Options sizes the viewport.
type Options struct {
	Slack   int // rows left free below a page
	Columns int
	Rows    int
}

// Controller is the session state machine. It is not safe for concurrent
// use; the event loop is its only caller.
type Controller struct {
	out     Output
	screen  *screen.Buffer
	history *history.History
	disp    *command.Dispatcher
	issue   func(Request)
	log     *zap.Logger

	items   []*gopher.Resource
	last    *gopher.Reply
	pending *Request
	nextID  uint64
	line    []byte

	slack   int
	columns int
	rows    int
}

// New creates a controller writing to out. issue is called for every
// request; its Completion must be passed back through Complete. raw may be
// nil when input is not a terminal.
func New(out Output, raw command.RawSwitch, issue func(Request), opts Options) *Controller {
	if opts.Columns <= 0 {
		opts.Columns = 80
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	return &Controller{
		out:     out,
		screen:  screen.New(out),
		history: history.New(),
		disp:    command.NewDispatcher(raw),
		issue:   issue,
		log:     logging.L().Named("session"),
		slack:   opts.Slack,
		columns: opts.Columns,
		rows:    opts.Rows,
	}
}

// Mode returns the dispatcher state.
func (c *Controller) Mode() command.Mode { return c.disp.Mode() }

// History returns the navigation history.
func (c *Controller) History() *history.History { return c.history }

// Screen returns the paged screen buffer.
func (c *Controller) Screen() *screen.Buffer { return c.screen }

// Items returns the selectable resources of the current directory, in
// ordinal order starting at 1.
func (c *Controller) Items() []*gopher.Resource {
	items := make([]*gopher.Resource, len(c.items))
	copy(items, c.items)
	return items
}

// Pending returns the outstanding request, or nil.
func (c *Controller) Pending() *Request { return c.pending }

// Banner prints the startup greeting.
func (c *Controller) Banner() {
	c.out.Println("")
	c.out.Println(render.Red("burrow, a line-mode gopher client"))
	c.out.Println("Press ? and enter for help.")
}

// Start issues the first fetch.
func (c *Controller) Start(res *gopher.Resource) error {
	return c.fetch(res, "")
}

// HandleInput feeds raw input bytes. Whole lines are handled as commands
// in Normal mode; bytes are handled one by one while a file name is being
// typed. ErrQuit is returned when the user quits.
func (c *Controller) HandleInput(chunk []byte) error {
	defer c.disp.EndChunk()
	for _, b := range chunk {
		if c.disp.Mode() == command.AwaitingFilename {
			c.HandleKey(b)
			continue
		}
		if c.disp.SkipByte(b) {
			continue
		}
		if b != '\n' {
			c.line = append(c.line, b)
			continue
		}
		line := strings.TrimRight(string(c.line), "\r")
		c.line = c.line[:0]
		if err := c.HandleLine(line); err != nil {
			return err
		}
	}
	return nil
}

// FlushLine handles a final line that was not terminated by a newline.
func (c *Controller) FlushLine() error {
	if len(c.line) == 0 || c.disp.Mode() != command.Normal {
		return nil
	}
	return c.HandleInput([]byte{'\n'})
}

// HandleLine executes one command line. Failures are reported on screen;
// only ErrQuit is returned.
func (c *Controller) HandleLine(line string) error {
	cmd, err := c.disp.HandleLine(line)
	if err != nil {
		c.report(err)
		return nil
	}
	if c.pending != nil && cmd.Kind != command.Quit && cmd.Kind != command.Help {
		c.report(ErrBusy)
		return nil
	}

	c.log.Debug("command", zap.Stringer("kind", cmd.Kind), zap.Int("number", cmd.Number))
	if err := c.execute(cmd); err != nil {
		if errors.Is(err, ErrQuit) {
			return err
		}
		c.report(err)
	}
	return nil
}

func (c *Controller) execute(cmd command.Command) error {
	switch cmd.Kind {
	case command.Advance:
		c.screen.RenderPage(c.budget(), c.columns)

	case command.Quit:
		c.out.Println(render.Green("Bye!"))
		return ErrQuit

	case command.Forward:
		return c.replay(c.history.Forward())

	case command.Back:
		return c.replay(c.history.Back())

	case command.HistoryJump:
		return c.replay(c.history.JumpTo(cmd.Number))

	case command.Reload:
		return c.replay(c.history.Reload())

	case command.Reprint:
		c.screen.RestartFromTop(c.budget(), c.columns)

	case command.Help:
		c.showHelp()
		c.screen.ShowPrompt()

	case command.HistoryList:
		c.showHistory()
		c.screen.ShowPrompt()

	case command.Go:
		res, err := gopher.Parse(cmd.Arg)
		if err != nil {
			return fmt.Errorf("could not fetch %q: %w", cmd.Arg, err)
		}
		return c.fetch(res, "")

	case command.SaveReply:
		return c.saveReply(cmd.Arg)

	case command.SaveItemPrompt:
		item, err := c.item(cmd.Number)
		if err != nil {
			return err
		}
		name := command.SuggestFilename(item.Selector)
		c.out.Print(render.Yellow("Save "+item.ShortURI()+" as: ") + name)
		if err := c.disp.BeginFilename(cmd.Number, name); err != nil {
			c.out.Println("")
			return fmt.Errorf("reading file name: %w", err)
		}
		c.log.Debug("mode changed", zap.Stringer("mode", c.disp.Mode()))

	case command.SaveItem:
		item, err := c.item(cmd.Number)
		if err != nil {
			return err
		}
		return c.saveItem(item, cmd.Arg)

	case command.Select:
		item, err := c.item(cmd.Number)
		if err != nil {
			return err
		}
		if cmd.Arg != "" {
			item = item.WithQuery(cmd.Arg)
		}
		return c.fetch(item, "")
	}
	return nil
}

// HandleKey consumes one keystroke while a file name is being typed.
func (c *Controller) HandleKey(b byte) {
	res := c.disp.HandleKey(b)
	switch {
	case res.Erase > 0:
		c.out.Backspace(res.Erase)
	case res.Echo != "":
		c.out.Print(res.Echo)
	}
	if !res.Done {
		return
	}

	c.out.Println("")
	c.log.Debug("mode changed", zap.Stringer("mode", c.disp.Mode()))
	if res.Err != nil {
		c.log.Warn("terminal mode", zap.Error(res.Err))
		c.out.Println(render.Red("Error: ") + res.Err.Error())
	}
	if res.Filename == "" {
		c.out.Println(render.Yellow("Save aborted."))
		c.screen.ShowPrompt()
		return
	}
	item, err := c.item(res.Item)
	if err == nil {
		err = c.saveItem(item, res.Filename)
	}
	if err != nil {
		c.report(err)
	}
}

// Complete applies the outcome of the outstanding request. Completions for
// any other request are ignored.
func (c *Controller) Complete(comp Completion) {
	if c.pending == nil || comp.Request.ID != c.pending.ID {
		c.log.Warn("ignoring stale completion", zap.Uint64("id", comp.Request.ID))
		return
	}
	c.pending = nil
	req := comp.Request

	if comp.Err != nil {
		c.history.ClearSuppress()
		c.log.Info("fetch failed", zap.String("resource", req.Resource.ShortURI()), zap.Error(comp.Err))
		var we *fetcher.WriteError
		if errors.As(comp.Err, &we) {
			c.report(&SaveError{Path: we.Path, Err: we.Err})
			return
		}
		c.report(&FetchError{Resource: req.Resource, Err: comp.Err})
		return
	}

	reply := comp.Reply
	c.log.Info("fetch completed",
		zap.String("resource", req.Resource.ShortURI()),
		zap.Int("bytes", reply.Meta.BytesReceived),
		zap.String("saved_as", req.SaveAs),
	)
	c.out.Println("")

	if req.SaveAs != "" {
		for _, l := range headerLines(reply) {
			c.out.Println(l)
		}
		c.out.Println(render.Green("File " + req.SaveAs + " saved."))
		res, err := c.history.Reload()
		if err != nil {
			c.screen.ShowPrompt()
			return
		}
		if err := c.fetch(res, ""); err != nil {
			c.report(err)
		}
		return
	}

	c.history.RecordVisit(req.Resource)
	c.log.Debug("history", zap.Int("index", c.history.Index()), zap.Int("len", c.history.Len()))

	lines, items := Render(reply)
	c.last = reply
	c.items = items
	c.screen.Reset()
	for _, l := range headerLines(reply) {
		c.screen.Write(l)
	}
	for _, l := range lines {
		c.screen.Write(l)
	}
	c.screen.RenderPage(c.budget(), c.columns)
}

// Resize updates the viewport used by the next page.
func (c *Controller) Resize(columns, rows int) {
	if columns > 0 {
		c.columns = columns
	}
	if rows > 0 {
		c.rows = rows
	}
	c.log.Debug("resized", zap.Int("columns", c.columns), zap.Int("rows", c.rows))
}

func (c *Controller) budget() int {
	return c.rows - c.slack
}

func (c *Controller) item(n int) (*gopher.Resource, error) {
	if n < 1 || n > len(c.items) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSelection, n)
	}
	return c.items[n-1], nil
}

func (c *Controller) replay(res *gopher.Resource, err error) error {
	if err != nil {
		return err
	}
	return c.fetch(res, "")
}

func (c *Controller) saveItem(item *gopher.Resource, name string) error {
	c.out.Println(render.Yellow("Saving " + item.ShortURI() + " to " + name + " ..."))
	return c.fetch(item, name)
}

func (c *Controller) fetch(res *gopher.Resource, saveAs string) error {
	if c.pending != nil {
		return ErrBusy
	}
	c.nextID++
	req := Request{ID: c.nextID, Resource: res, SaveAs: saveAs}
	c.pending = &req
	c.log.Info("fetch issued",
		zap.Uint64("id", req.ID),
		zap.String("resource", res.ShortURI()),
		zap.Bool("replay", c.history.Suppressed()),
		zap.String("save_as", saveAs),
	)
	c.issue(req)
	return nil
}

// saveReply writes the payload of the last displayed reply to name. A
// directory is written as a JSON array of its entries.
func (c *Controller) saveReply(name string) error {
	if c.last == nil {
		return ErrNoData
	}

	var data []byte
	switch c.last.Kind {
	case gopher.KindBinary:
		data = c.last.Buffer
	case gopher.KindText:
		data = []byte(c.last.Text)
	case gopher.KindDirectory:
		var err error
		if data, err = json.Marshal(c.last.Directory); err != nil {
			return &SaveError{Path: name, Err: err}
		}
		c.out.Println(render.Yellow("Note: Saving directory listing as JSON..."))
	}
	if len(data) == 0 {
		return ErrNoData
	}

	if err := os.WriteFile(name, data, 0o644); err != nil {
		return &SaveError{Path: name, Err: err}
	}
	c.log.Info("reply saved", zap.String("file", name), zap.Int("bytes", len(data)))
	c.out.Println(render.Green(fmt.Sprintf("Saved %d bytes to %s", len(data), name)))
	c.screen.ShowPrompt()
	return nil
}

// report shows err with a colored marker and re-shows the prompt.
func (c *Controller) report(err error) {
	var fe *FetchError
	var se *SaveError
	switch {
	case errors.As(err, &fe):
		c.out.Println(render.Red("Error fetching " + fe.Resource.ShortURI()))
		c.out.Println(errorMessage(fe.Err))
	case errors.As(err, &se):
		c.out.Println(render.Red("Error while saving file to disk: ") + errorMessage(se.Err))
	case errors.Is(err, history.ErrAtEnd):
		c.out.Println(render.Yellow("You are at the end."))
	case errors.Is(err, history.ErrAtBeginning):
		c.out.Println(render.Yellow("You are at the beginning."))
	case errors.Is(err, command.ErrInvalidCommand):
		c.out.Println(render.Yellow("Invalid command, ? for help."))
	case errors.Is(err, ErrBusy):
		c.out.Println(render.Yellow("Busy: " + err.Error() + "."))
	default:
		c.out.Println(render.Red("Error: ") + err.Error())
	}
	c.screen.ShowPrompt()
}

// errorMessage returns the text of err, or its type when it carries none.
func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fmt.Sprintf("unknown error (%T)", err)
}
