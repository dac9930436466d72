// Package html turns HTML documents served as Gopher type 'h' items into
// plain text lines for the pager.
package html

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node represents a content node in the document.
type Node struct {
	Type     NodeType
	Text     string
	Children []*Node
	Href     string // for links
}

// NodeType identifies the kind of content node.
type NodeType int

const (
	NodeDocument NodeType = iota
	NodeHeading1
	NodeHeading2
	NodeHeading3
	NodeParagraph
	NodeBlockquote
	NodeList
	NodeListItem
	NodeCode
	NodeCodeBlock
	NodeLink
	NodeText
	NodeStrong
	NodeEmphasis
)

// Document is a parsed HTML page.
type Document struct {
	Title   string
	Content *Node
}

// Parse extracts readable content from HTML.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	title := collapse(doc.Find("title").First().Text())
	doc.Find("script, style, noscript, template, head").Remove()

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Find("main").First()
	}
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		root = doc.Selection
	}

	content := &Node{Type: NodeDocument}
	for _, n := range root.Nodes {
		extractContent(n, content)
	}
	return &Document{Title: title, Content: content}, nil
}

// ParseString parses HTML from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Lines parses s and renders it as text lines.
func Lines(s string) ([]string, error) {
	doc, err := ParseString(s)
	if err != nil {
		return nil, err
	}
	return doc.Lines(), nil
}

func extractContent(n *html.Node, parent *Node) {
	var loose *Node
	flush := func() {
		if loose != nil && strings.TrimSpace(loose.PlainText()) != "" {
			parent.Children = append(parent.Children, loose)
		}
		loose = nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			switch c.Data {
			case "h1":
				flush()
				parent.Children = append(parent.Children, &Node{Type: NodeHeading1, Text: textContent(c)})

			case "h2":
				flush()
				parent.Children = append(parent.Children, &Node{Type: NodeHeading2, Text: textContent(c)})

			case "h3", "h4", "h5", "h6":
				flush()
				parent.Children = append(parent.Children, &Node{Type: NodeHeading3, Text: textContent(c)})

			case "p":
				flush()
				node := &Node{Type: NodeParagraph}
				extractInline(c, node)
				parent.Children = append(parent.Children, node)

			case "blockquote":
				flush()
				node := &Node{Type: NodeBlockquote}
				extractContent(c, node)
				parent.Children = append(parent.Children, node)

			case "ul", "ol":
				flush()
				node := &Node{Type: NodeList}
				extractList(c, node)
				parent.Children = append(parent.Children, node)

			case "pre":
				flush()
				parent.Children = append(parent.Children, &Node{Type: NodeCodeBlock, Text: rawText(c)})

			case "article", "main", "section", "div", "header", "footer", "nav", "body", "html", "table", "tbody", "tr", "td", "th", "form", "center":
				flush()
				extractContent(c, parent)

			case "br", "hr":
				flush()

			default:
				if loose == nil {
					loose = &Node{Type: NodeParagraph}
				}
				inline(c, loose)
			}

		case html.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			if loose == nil {
				loose = &Node{Type: NodeParagraph}
			}
			loose.Children = append(loose.Children, &Node{Type: NodeText, Text: c.Data})
		}
	}
	flush()
}

func extractList(n *html.Node, parent *Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			item := &Node{Type: NodeListItem}
			extractInline(c, item)
			parent.Children = append(parent.Children, item)
		}
	}
}

func extractInline(n *html.Node, parent *Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data != "" {
				parent.Children = append(parent.Children, &Node{Type: NodeText, Text: c.Data})
			}
		case html.ElementNode:
			inline(c, parent)
		}
	}
}

func inline(c *html.Node, parent *Node) {
	switch c.Data {
	case "a":
		link := &Node{Type: NodeLink, Href: getAttr(c, "href")}
		extractInline(c, link)
		parent.Children = append(parent.Children, link)

	case "strong", "b":
		node := &Node{Type: NodeStrong}
		extractInline(c, node)
		parent.Children = append(parent.Children, node)

	case "em", "i":
		node := &Node{Type: NodeEmphasis}
		extractInline(c, node)
		parent.Children = append(parent.Children, node)

	case "code":
		parent.Children = append(parent.Children, &Node{Type: NodeCode, Text: textContent(c)})

	default:
		extractInline(c, parent)
	}
}

func textContent(n *html.Node) string {
	return collapse(rawText(n))
}

func rawText(n *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// PlainText returns the plain text content of a node and its children.
func (n *Node) PlainText() string {
	var sb strings.Builder
	n.appendPlainText(&sb)
	return sb.String()
}

func (n *Node) appendPlainText(sb *strings.Builder) {
	if n.Text != "" {
		sb.WriteString(n.Text)
	}
	for _, child := range n.Children {
		child.appendPlainText(sb)
	}
}

// inlineText renders inline content, following link text with its target.
func (n *Node) inlineText() string {
	var sb strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Text != "" {
			sb.WriteString(n.Text)
		}
		for _, child := range n.Children {
			walk(child)
		}
		if n.Type == NodeLink && n.Href != "" {
			sb.WriteString(" <" + n.Href + ">")
		}
	}
	walk(n)
	return collapse(sb.String())
}

// Lines renders the document as text lines: headings underlined, list
// items bulleted, quotes prefixed and preformatted blocks kept verbatim.
// Blocks are separated by a blank line.
func (d *Document) Lines() []string {
	var lines []string
	if d.Title != "" {
		lines = append(lines, d.Title, strings.Repeat("=", len([]rune(d.Title))), "")
	}
	lines = appendBlocks(lines, d.Content, "")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func appendBlocks(lines []string, parent *Node, prefix string) []string {
	for _, n := range parent.Children {
		switch n.Type {
		case NodeHeading1:
			lines = append(lines, prefix+n.Text, prefix+strings.Repeat("=", len([]rune(n.Text))), "")
		case NodeHeading2:
			lines = append(lines, prefix+n.Text, prefix+strings.Repeat("-", len([]rune(n.Text))), "")
		case NodeHeading3:
			lines = append(lines, prefix+"### "+n.Text, "")
		case NodeParagraph:
			if text := n.inlineText(); text != "" {
				lines = append(lines, prefix+text, "")
			}
		case NodeBlockquote:
			lines = appendBlocks(lines, n, prefix+"> ")
		case NodeList:
			for _, item := range n.Children {
				lines = append(lines, prefix+"  * "+item.inlineText())
			}
			lines = append(lines, "")
		case NodeCodeBlock:
			for _, l := range strings.Split(strings.Trim(n.Text, "\n"), "\n") {
				lines = append(lines, prefix+strings.TrimRight(l, "\r"))
			}
			lines = append(lines, "")
		}
	}
	return lines
}
