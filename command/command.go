// Package command parses the browser's one-line command language and
// tracks whether input is read as lines or as single keystrokes.
package command

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidCommand is returned for input that matches no command.
var ErrInvalidCommand = errors.New("invalid command")

// Kind identifies a parsed command.
type Kind int

const (
	Advance        Kind = iota // show the next page
	Quit                       // q, bye, exit
	Forward                    // n
	Back                       // p
	Reprint                    // r
	Reload                     // R
	Help                       // ?, help
	HistoryList                // h
	HistoryJump                // h N
	Go                         // g URL
	SaveReply                  // S FILE
	SaveItemPrompt             // s N
	SaveItem                   // s N FILE
	Select                     // N [QUERY]
)

var kindNames = map[Kind]string{
	Advance:        "advance",
	Quit:           "quit",
	Forward:        "forward",
	Back:           "back",
	Reprint:        "reprint",
	Reload:         "reload",
	Help:           "help",
	HistoryList:    "history",
	HistoryJump:    "history-jump",
	Go:             "go",
	SaveReply:      "save-reply",
	SaveItemPrompt: "save-item-prompt",
	SaveItem:       "save-item",
	Select:         "select",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Command is one parsed line: a verb, an optional number and optional
// trailing text.
type Command struct {
	Kind   Kind
	Number int
	Arg    string
}

// Parse classifies one line of input.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)

	switch line {
	case "":
		return Command{Kind: Advance}, nil
	case "q", "bye", "exit":
		return Command{Kind: Quit}, nil
	case "n":
		return Command{Kind: Forward}, nil
	case "p":
		return Command{Kind: Back}, nil
	case "r":
		return Command{Kind: Reprint}, nil
	case "R":
		return Command{Kind: Reload}, nil
	case "?", "help":
		return Command{Kind: Help}, nil
	case "h":
		return Command{Kind: HistoryList}, nil
	}

	if isDigit(line[0]) {
		n, rest := leadingNumber(line)
		if rest != "" && rest[0] != ' ' {
			return Command{}, ErrInvalidCommand
		}
		return Command{Kind: Select, Number: n, Arg: strings.TrimSpace(rest)}, nil
	}

	verb, rest := line[0], argument(line[1:])
	switch verb {
	case 'h':
		n, tail := leadingNumber(rest)
		if rest == "" || tail != "" {
			return Command{}, ErrInvalidCommand
		}
		return Command{Kind: HistoryJump, Number: n}, nil

	case 'g':
		return Command{Kind: Go, Arg: rest}, nil

	case 'S':
		if rest == "" {
			return Command{}, ErrInvalidCommand
		}
		return Command{Kind: SaveReply, Arg: rest}, nil

	case 's':
		rest = strings.TrimLeft(rest, " ")
		if rest == "" || !isDigit(rest[0]) {
			return Command{}, ErrInvalidCommand
		}
		n, tail := leadingNumber(rest)
		if tail == "" {
			return Command{Kind: SaveItemPrompt, Number: n}, nil
		}
		if tail[0] != ' ' || strings.TrimSpace(tail) == "" {
			return Command{}, ErrInvalidCommand
		}
		return Command{Kind: SaveItem, Number: n, Arg: strings.TrimSpace(tail)}, nil
	}

	return Command{}, ErrInvalidCommand
}

// argument drops the single optional space between a verb and its argument.
func argument(s string) string {
	return strings.TrimPrefix(s, " ")
}

// leadingNumber splits s into its leading decimal number and the rest.
// Numbers too large for an int saturate so they fail bounds checks later.
func leadingNumber(s string) (int, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return 0, s
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		n = int(^uint(0) >> 1)
	}
	return n, s[i:]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
