package parser

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dgallion1/seismic2word/internal/document"
)

// Font-size cutoffs (px) for headings declared through inline styles.
// Level 3 additionally requires bold emphasis.
const (
	Heading1MinFontSize = 28
	Heading2MinFontSize = 20
	Heading3MinFontSize = 16
)

// StyledHeadingLevel maps a declared font size to a heading level, or 0.
func StyledHeadingLevel(size int, bold bool) int {
	switch {
	case size >= Heading1MinFontSize:
		return 1
	case size >= Heading2MinFontSize:
		return 2
	case size >= Heading3MinFontSize && bold:
		return 3
	}
	return 0
}

// candidate is a classified element tagged with its source position.
type candidate struct {
	pos  int
	elem document.InlineElement
}

// claims is the ordered set of texts already captured by earlier rules.
// with returns a new set; the receiver is never modified.
type claims struct {
	texts []string
	seen  map[string]struct{}
}

func (c claims) with(text string) claims {
	next := claims{
		texts: append(slices.Clip(c.texts), text),
		seen:  make(map[string]struct{}, len(c.seen)+1),
	}
	for t := range c.seen {
		next.seen[t] = struct{}{}
	}
	next.seen[text] = struct{}{}
	return next
}

func (c claims) has(text string) bool {
	_, ok := c.seen[text]
	return ok
}

// covers reports whether text is a fragment of a captured text: contained in
// it and no longer than it. Longer text that merely mentions a capture is not
// covered.
func (c claims) covers(text string) bool {
	n := utf8.RuneCountInString(text)
	for _, t := range c.texts {
		if strings.Contains(t, text) && n <= utf8.RuneCountInString(t) {
			return true
		}
	}
	return false
}

// Classify breaks a rich-text content root into inline elements in document
// order, without duplicate content.
func Classify(content *goquery.Selection) []document.InlineElement {
	if content.Length() == 0 {
		return nil
	}
	c := classifier{root: content.First(), order: documentOrder(content.Get(0))}

	var all []candidate
	claimed := claims{}
	for _, rule := range []func(claims) ([]candidate, claims){
		c.nativeHeadings,
		c.styledHeadings,
		c.listItems,
		c.blockContainers,
		c.topLevelRuns,
	} {
		var found []candidate
		found, claimed = rule(claimed)
		all = append(all, found...)
	}
	return merge(all)
}

type classifier struct {
	root  *goquery.Selection
	order map[*html.Node]int
}

func (c classifier) rootNode() *html.Node { return c.root.Get(0) }

func (c classifier) at(n *html.Node, e document.InlineElement) candidate {
	return candidate{pos: c.order[n], elem: e}
}

func (c classifier) nativeHeadings(claimed claims) ([]candidate, claims) {
	var out []candidate
	c.root.Find("h1, h2, h3").Each(func(_ int, h *goquery.Selection) {
		text := strings.TrimSpace(h.Text())
		if text == "" {
			return
		}
		n := h.Get(0)
		out = append(out, c.at(n, document.HeadingElement(headingLevel(n.Data), text)))
		claimed = claimed.with(text)
	})
	return out, claimed
}

func (c classifier) styledHeadings(claimed claims) ([]candidate, claims) {
	var out []candidate
	c.root.Find(`span[style*="font-size"]`).Each(func(_ int, span *goquery.Selection) {
		text := strings.TrimSpace(span.Text())
		if text == "" || claimed.has(text) {
			return
		}
		n := span.Get(0)
		bold := hasDescendant(n, isBoldTag) || closestWithin(n, c.rootNode(), isBoldTag) != nil
		level := StyledHeadingLevel(declaredFontSize(n), bold)
		if level == 0 {
			return
		}
		out = append(out, c.at(n, document.HeadingElement(level, text)))
		claimed = claimed.with(text)
	})
	return out, claimed
}

func (c classifier) listItems(claimed claims) ([]candidate, claims) {
	var out []candidate
	c.root.Find("li").Each(func(_ int, li *goquery.Selection) {
		own := li.Clone()
		own.Find(listSelector).Remove()
		text := strings.TrimSpace(own.Text())
		if text == "" || claimed.has(text) {
			return
		}
		n := li.Get(0)
		elem := document.ListItemElement(listDepth(n, c.rootNode()), text, inlineRichContent(own))
		out = append(out, c.at(n, elem))
		claimed = claimed.with(text)
	})
	return out, claimed
}

func (c classifier) blockContainers(claimed claims) ([]candidate, claims) {
	var out []candidate
	root := c.rootNode()
	c.root.Find(containerSelector).Each(func(_ int, box *goquery.Selection) {
		n := box.Get(0)
		if closestWithin(n, root, isList) != nil {
			return
		}
		if closestWithin(n, root, func(m *html.Node) bool { return isHeading(m) || isAnchorContainer(m) }) != nil {
			return
		}
		if hasChildContainer(n) {
			return
		}

		own := box.Clone()
		own.Find(nestedSelector).Remove()
		raw := own.Text()
		if isBlank(raw) {
			out = append(out, c.at(n, document.BreakElement()))
			return
		}
		text := strings.TrimSpace(raw)
		if claimed.covers(text) {
			return
		}

		elem := document.TextElement(text, inlineRichContent(own))
		if sized := box.Find(`span[style*="font-size"]`).First(); sized.Length() > 0 {
			elem.FontSize = declaredFontSize(sized.Get(0))
		}
		out = append(out, c.at(n, elem))
		claimed = claimed.with(text)
	})
	return out, claimed
}

// hasChildContainer reports whether n has a direct child container. Only the
// innermost container of a nest is classified.
func hasChildContainer(n *html.Node) bool {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if isContainer(ch) && !isAnchorContainer(ch) {
			return true
		}
	}
	return false
}

func (c classifier) topLevelRuns(claimed claims) ([]candidate, claims) {
	var out []candidate
	for n := c.rootNode().FirstChild; n != nil; n = n.NextSibling {
		var text string
		switch n.Type {
		case html.TextNode:
			text = strings.TrimSpace(n.Data)
		case html.ElementNode:
			if isContainer(n) || isHeading(n) || isList(n) {
				continue
			}
			text = textContent(n)
		default:
			continue
		}
		if isBlank(text) || claimed.covers(text) {
			continue
		}

		bold := isBoldTag(n) || hasDescendant(n, isBoldTag)
		italic := isItalicTag(n) || hasDescendant(n, isItalicTag)
		out = append(out, c.at(n, document.InlineElement{
			Kind:    document.EmphasisKind(bold, italic),
			Content: text,
		}))
		claimed = claimed.with(text)
	}
	return out, claimed
}

// merge sorts candidates into document order and drops duplicates.
func merge(all []candidate) []document.InlineElement {
	slices.SortStableFunc(all, func(a, b candidate) int { return cmp.Compare(a.pos, b.pos) })
	items := make([]document.InlineElement, len(all))
	for i, c := range all {
		items[i] = c.elem
	}
	return Dedupe(items, make(map[string]struct{}))
}

// Dedupe keeps the first occurrence of each non-empty content, recording kept
// content in seen. Breaks are exempt, except that a break directly after a
// heading is dropped.
func Dedupe(items []document.InlineElement, seen map[string]struct{}) []document.InlineElement {
	out := make([]document.InlineElement, 0, len(items))
	for _, e := range items {
		if e.Kind == document.Break {
			if len(out) > 0 && out[len(out)-1].IsHeading() {
				continue
			}
			out = append(out, e)
			continue
		}
		if e.Content == "" {
			continue
		}
		if _, dup := seen[e.Content]; dup {
			continue
		}
		seen[e.Content] = struct{}{}
		out = append(out, e)
	}
	return out
}
