// burrow is a line-mode Gopher browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"burrow/command"
	"burrow/config"
	"burrow/fetcher"
	"burrow/gopher"
	"burrow/logging"
	"burrow/render"
	"burrow/session"
)

func main() {
	addr := ""
	printMode := false
	initConfig := false

	for _, arg := range os.Args[1:] {
		switch arg {
		case "-p", "--print":
			printMode = true
		case "--init-config":
			initConfig = true
		case "-h", "--help":
			printUsage()
			return
		default:
			if addr == "" {
				addr = arg
			}
		}
	}

	// Generate default config and exit
	if initConfig {
		fmt.Print(config.DefaultTOML())
		return
	}

	if printMode {
		if err := runPrint(addr); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`burrow - line-mode Gopher browser

Usage: burrow [options] [address]

Options:
  -p, --print       Print the reply to stdout (one-shot mode)
  --init-config     Output default config (redirect to ~/.config/burrow/config.toml)
  -h, --help        Show this help

Examples:
  burrow                                  Open the home hole
  burrow gopher://example.org/1/phlog     Open an address
  burrow -p example.org/0/about.txt       Print a text item to stdout
  burrow --init-config > ~/.config/burrow/config.toml

Configuration:
  Config file: ~/.config/burrow/config.toml (override with BURROW_CONFIG)
  Generate with: burrow --init-config > ~/.config/burrow/config.toml`)
}

// setup loads configuration and builds the ambient pieces shared by both
// modes. Colors are only used when stdout is a terminal.
func setup() (*config.Config, *fetcher.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.File,
	}); err != nil {
		return nil, nil, fmt.Errorf("initializing logging: %w", err)
	}

	render.SetColor(cfg.Display.Color && render.IsTerminal(os.Stdout))

	client, err := fetcher.New(fetcher.Options{
		TimeoutSeconds: cfg.Fetcher.TimeoutSeconds,
		Proxy:          cfg.Fetcher.Proxy,
		MaxBytes:       cfg.Fetcher.MaxBytes,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

func startResource(addr string, cfg *config.Config) (*gopher.Resource, error) {
	if addr == "" {
		addr = cfg.Session.Home
	}
	res, err := gopher.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("start address: %w", err)
	}
	return res, nil
}

func runPrint(addr string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync()

	res, err := startResource(addr, cfg)
	if err != nil {
		return err
	}

	reply, err := client.Fetch(context.Background(), res, "")
	if err != nil {
		return fmt.Errorf("fetching %s: %w", res.ShortURI(), err)
	}

	if reply.Kind == gopher.KindBinary {
		_, err := os.Stdout.Write(reply.Buffer)
		return err
	}
	lines, _ := session.Render(reply)
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}

func run(addr string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync()

	res, err := startResource(addr, cfg)
	if err != nil {
		return err
	}

	// Use terminal size if available, otherwise config fallbacks
	cols, rows := cfg.Display.Columns, cfg.Display.Rows
	if w, h, err := render.TerminalSize(os.Stdout); err == nil {
		cols, rows = w, h
	}

	var raw command.RawSwitch
	if render.IsTerminal(os.Stdin) {
		term, err := render.NewTerminal(os.Stdin)
		if err != nil {
			return fmt.Errorf("initializing terminal: %w", err)
		}
		defer term.Restore()
		raw = term
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.L().Info("starting",
		zap.String("address", res.String()),
		zap.Int("columns", cols),
		zap.Int("rows", rows),
		zap.Bool("tty", raw != nil),
	)

	loop := session.NewLoop(ctx, client)
	c := session.New(render.NewOutput(os.Stdout), raw, loop.Issue, session.Options{
		Slack:   cfg.Display.Slack,
		Columns: cols,
		Rows:    rows,
	})
	c.Banner()
	if err := c.Start(res); err != nil {
		return err
	}

	// Handle terminal resize
	resize := make(chan session.Size, 1)
	resizeCh := make(chan os.Signal, 1)
	signal.Notify(resizeCh, syscall.SIGWINCH)
	defer signal.Stop(resizeCh)
	go func() {
		for range resizeCh {
			w, h, err := render.TerminalSize(os.Stdout)
			if err != nil {
				continue
			}
			select {
			case resize <- session.Size{Columns: w, Rows: h}:
			default:
			}
		}
	}()

	err = loop.Run(ctx, c, os.Stdin, resize)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
