package parser

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const anchorContainerClass = "seismic-page-anchor-container"

// Selectors shared by the classifier and the table extractor.
const (
	containerSelector = "div, p"
	listSelector      = "ul, ol"
	// nestedSelector is what a container's own text excludes.
	nestedSelector = "h1, h2, h3, h4, h5, h6, ul, ol, div, p, ." + anchorContainerClass
)

var fontSizeDecl = regexp.MustCompile(`(?i)font-size\s*:\s*(\d+)`)

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func isElement(n *html.Node, atoms ...atom.Atom) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, a := range atoms {
		if n.DataAtom == a {
			return true
		}
	}
	return false
}

func isHeading(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && headingLevel(n.Data) > 0
}

func isList(n *html.Node) bool      { return isElement(n, atom.Ul, atom.Ol) }
func isContainer(n *html.Node) bool { return isElement(n, atom.Div, atom.P) }
func isBoldTag(n *html.Node) bool   { return isElement(n, atom.B, atom.Strong) }
func isItalicTag(n *html.Node) bool { return isElement(n, atom.I, atom.Em) }

func isAnchorContainer(n *html.Node) bool { return hasClass(n, anchorContainerClass) }

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// closestWithin walks from n up to, but not including, root and returns the
// first node that matches. n itself is tested.
func closestWithin(n, root *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n; c != nil && c != root; c = c.Parent {
		if match(c) {
			return c
		}
	}
	return nil
}

// listDepth counts ul/ol ancestors of n strictly between n and root.
func listDepth(n, root *html.Node) int {
	depth := 0
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if isList(p) {
			depth++
		}
	}
	return depth
}

func hasDescendant(n *html.Node, match func(*html.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) || hasDescendant(c, match) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// documentOrder numbers every node under root in pre-order.
func documentOrder(root *html.Node) map[*html.Node]int {
	order := make(map[*html.Node]int)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		order[n] = len(order)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return order
}

// declaredFontSize returns the integer part of an inline font-size
// declaration, or 0 when there is none.
func declaredFontSize(n *html.Node) int {
	m := fontSizeDecl.FindStringSubmatch(attr(n, "style"))
	if m == nil {
		return 0
	}
	size, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return size
}

// isBlank reports whether s holds only whitespace, including non-breaking spaces.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func textNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}
