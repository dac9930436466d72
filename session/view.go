package session

import (
	"fmt"
	"strconv"
	"strings"

	"burrow/gopher"
	"burrow/html"
	"burrow/render"
)

// Render turns a reply into display lines. For a directory it also returns
// the selectable entries in ordinal order.
func Render(reply *gopher.Reply) ([]string, []*gopher.Resource) {
	var lines []string
	var items []*gopher.Resource

	switch reply.Kind {
	case gopher.KindDirectory:
		for _, e := range reply.Directory {
			switch {
			case gopher.Selectable(e.Type):
				items = append(items, e.Resource())
				lines = append(lines, gopher.TypeLabel(e.Type)+" "+ordinal(len(items))+" "+e.Name)
			case e.Type == gopher.TypeError:
				lines = append(lines, render.Red("ERR")+"   "+e.Name)
			default:
				lines = append(lines, "      "+e.Name)
			}
		}

	case gopher.KindText:
		lines = textLines(reply)

	case gopher.KindBinary:
		lines = append(lines, render.Red(fmt.Sprintf("%d bytes were downloaded to memory, \"S filename\" to save", len(reply.Buffer))))
	}
	return lines, items
}

// ordinal right-aligns n in two cells.
func ordinal(n int) string {
	pad := ""
	if n < 10 {
		pad = " "
	}
	return pad + render.Green(strconv.Itoa(n))
}

// textLines splits a text reply into lines with carriage returns removed.
// HTML items are converted to text first.
func textLines(reply *gopher.Reply) []string {
	if res := reply.Meta.Resource; res != nil && res.Type == gopher.TypeHTML {
		if lines, err := html.Lines(reply.Text); err == nil {
			return lines
		}
	}
	text := strings.ReplaceAll(reply.Text, "\r", "")
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// headerLines describes where a reply came from and how long it took,
// followed by a rule as wide as the description.
func headerLines(reply *gopher.Reply) []string {
	host := ""
	if reply.Meta.Resource != nil {
		host = reply.Meta.Resource.Host
	}
	msg := fmt.Sprintf("%d bytes from %s (%s) in %d ms.",
		reply.Meta.BytesReceived, host, reply.Meta.RemoteAddr, reply.Meta.Elapsed.Milliseconds())
	return []string{render.Yellow(msg), strings.Repeat("-", render.StringWidth(msg))}
}

var helpLines = []string{
	"Number [query] ..... Visit menu item, send query if it is a search server",
	"n .................. Next item in history",
	"p .................. Previous item in history",
	"h [Number] ......... View history [or visit history item]",
	"r .................. Reprint current item from the top",
	"R .................. Reload current item",
	"g URL .............. Go to gopherspace",
	"S filename ......... Save current item to file",
	"s Number [filename]  Save menu item to file (ESC aborts the name prompt)",
	"Enter .............. Show the next page",
	"?/help ............. This",
	"q/bye/exit ......... Exit program",
}

func (c *Controller) showHelp() {
	c.out.Println("")
	c.out.Println(render.Yellow("Instructions"))
	for _, l := range helpLines {
		c.out.Println(l)
	}
}

// historyIndent is the width of the marker and index columns.
const historyIndent = 7

func (c *Controller) showHistory() {
	l := c.history.List()
	c.out.Println("")
	c.out.Println(render.Yellow("History"))
	for i, res := range l.Entries {
		marker := "   "
		if i == l.Current {
			marker = "-> "
		}
		uri := render.Truncate(res.ShortURI(), c.columns-historyIndent, "…")
		c.out.Println(marker + " " + render.Yellow(fmt.Sprintf("%2d", i)) + " " + uri)
	}
}
