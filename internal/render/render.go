// Package render serializes a document into HTML that word processors
// import faithfully on paste: Word heading styles, bordered tables and
// indented lists.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/seismic2word/internal/document"
)

var headingStyles = [...]string{
	1: "mso-style-name:'Heading 1'; mso-outline-level:1; font-size:28px; color:#1a202c; margin:24px 0 12px 0; font-weight:bold;",
	2: "mso-style-name:'Heading 2'; mso-outline-level:2; font-size:22px; color:#2d3748; margin:20px 0 10px 0; font-weight:bold;",
	3: "mso-style-name:'Heading 3'; mso-outline-level:3; font-size:16px; color:#4a5568; margin:16px 0 8px 0; font-weight:bold;",
}

const (
	bodyStyle  = "body{font-family:Calibri,Arial,sans-serif;font-size:11pt;max-width:100%;}"
	tableStyle = "width:100%; table-layout:fixed; border-collapse:collapse; margin:12px 0;"
	cellStyle  = "border:1px solid #333; padding:8px; word-wrap:break-word;"
	headerCell = " font-weight:bold; background-color:#f0f0f0;"

	// Spacer is the empty Normal paragraph used for vertical gaps.
	Spacer = `<p style="mso-style-name:'Normal'; margin:0; line-height:100%;"><span style="font-size:11pt;">&nbsp;</span></p>`
)

var cellParagraphs = regexp.MustCompile(`\n\n+`)

type options struct {
	charset bool
}

// Option customizes Render.
type Option func(*options)

// WithCharset adds a UTF-8 meta tag to the head. Use it for output that is
// saved to disk rather than pasted.
func WithCharset() Option {
	return func(o *options) { o.charset = true }
}

// Render returns doc as a self-contained HTML document.
func Render(doc document.Document, opts ...Option) string {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var b strings.Builder
	b.WriteString("<html><head>")
	if o.charset {
		b.WriteString(`<meta charset="utf-8">`)
	}
	b.WriteString("<style>" + bodyStyle + "</style></head><body>")

	var prev document.Block
	for _, block := range doc.Blocks {
		if needsSpacer(prev, block) {
			b.WriteString(Spacer)
		}
		writeBlock(&b, block)
		prev = block
	}

	b.WriteString("</body></html>")
	return b.String()
}

// needsSpacer decides whether a gap paragraph goes between two top-level
// blocks. Headings carry their own margins and a paragraph ending in a
// break is already spaced.
func needsSpacer(prev, cur document.Block) bool {
	if prev == nil {
		return false
	}
	if isSectionBlock(prev) || isSectionBlock(cur) {
		return false
	}
	if p, ok := cur.(*document.Paragraph); ok && p.StartsWithHeading() {
		return false
	}
	if p, ok := prev.(*document.Paragraph); ok && p.EndsWithBreak() {
		return false
	}
	if prev.Kind() != cur.Kind() {
		return true
	}
	return cur.Kind() == document.KindTable
}

func isSectionBlock(b document.Block) bool {
	k := b.Kind()
	return k == document.KindDivider || k == document.KindAccordion
}

func writeBlock(b *strings.Builder, block document.Block) {
	switch block := block.(type) {
	case *document.Paragraph:
		writeParagraph(b, block)
	case *document.Table:
		writeTable(b, block)
	case *document.Divider:
		if block.Title != "" {
			writeHeading(b, 1, html.EscapeString(block.Title))
		}
	case *document.Accordion:
		writeHeading(b, 2, html.EscapeString(block.Title))
		for _, child := range block.Children {
			writeBlock(b, child)
		}
	}
}

func writeHeading(b *strings.Builder, level int, inner string) {
	if level < 1 || level > 3 {
		level = 3
	}
	fmt.Fprintf(b, `<h%d style="%s">%s</h%d>`, level, headingStyles[level], inner, level)
}

func writeParagraph(b *strings.Builder, p *document.Paragraph) {
	if len(p.Items) == 0 {
		if p.Text != "" {
			b.WriteString(`<p style="margin:6px 0;">` + html.EscapeString(p.Text) + `</p>`)
		}
		return
	}

	depth := 0
	for _, e := range p.Items {
		if e.Kind == document.ListItem {
			level := max(e.Level, 1)
			for ; depth < level; depth++ {
				fmt.Fprintf(b, `<ul style="margin:8px 0 8px %dpx;">`, 20+depth*20)
			}
			for ; depth > level; depth-- {
				b.WriteString("</ul>")
			}
			b.WriteString(`<li style="margin:4px 0;">` + display(e) + `</li>`)
			continue
		}

		for ; depth > 0; depth-- {
			b.WriteString("</ul>")
		}
		writeItem(b, e)
	}
	for ; depth > 0; depth-- {
		b.WriteString("</ul>")
	}
}

func writeItem(b *strings.Builder, e document.InlineElement) {
	text := html.EscapeString(e.Content)
	switch e.Kind {
	case document.Heading:
		writeHeading(b, e.Level, text)
	case document.Break:
		b.WriteString(Spacer)
	case document.Bold:
		writeLine(b, e, "<strong>"+text+"</strong>")
	case document.Italic:
		writeLine(b, e, "<em>"+text+"</em>")
	case document.BoldItalic:
		writeLine(b, e, "<strong><em>"+text+"</em></strong>")
	default:
		writeLine(b, e, display(e))
	}
}

func writeLine(b *strings.Builder, e document.InlineElement, inner string) {
	font := ""
	if e.FontSize > 0 {
		font = fmt.Sprintf("font-size:%dpt;", e.FontSize)
	}
	fmt.Fprintf(b, `<p style="margin:0 0 0 0;%s">%s</p>`, font, inner)
}

// display prefers the sanitized rich content over escaped plain content.
func display(e document.InlineElement) string {
	if e.RichContent != "" {
		return e.RichContent
	}
	return html.EscapeString(e.Content)
}

func writeTable(b *strings.Builder, t *document.Table) {
	if len(t.Rows) == 0 {
		return
	}
	b.WriteString(`<table style="` + tableStyle + `">`)
	for i, row := range t.Rows {
		style := cellStyle
		if i == 0 {
			style += headerCell
		}
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString(`<td style="` + style + `">` + cellHTML(cell) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
}

// cellHTML turns each "\n\n"-separated segment of a cell into its own paragraph.
func cellHTML(c document.Cell) string {
	source := c.RichContent
	if source == "" {
		source = html.EscapeString(c.Content)
	}
	var b strings.Builder
	for _, para := range cellParagraphs.Split(source, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString(`<p style="margin:4px 0;">` + para + `</p>`)
	}
	if b.Len() == 0 {
		return source
	}
	return b.String()
}
