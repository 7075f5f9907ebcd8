package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/seismic2word/internal/document"
)

// Heading run sizes in half-points, matching the HTML heading styles.
var headingSizes = [...]string{1: "42", 2: "33", 3: "24"}

// DocxSink writes the document as a .docx package, either to Path or to W.
type DocxSink struct {
	W    io.Writer
	Path string
}

func (s DocxSink) Name() string { return "docx" }

func (s DocxSink) Write(_ context.Context, p Payload) error {
	if s.Path == "" {
		return WriteDocx(s.W, p.Document)
	}
	var buf bytes.Buffer
	if err := WriteDocx(&buf, p.Document); err != nil {
		return err
	}
	return writeFile(s.Path, buf.Bytes())
}

// WriteDocx builds a Word package from doc and writes it to w.
func WriteDocx(w io.Writer, doc document.Document) error {
	f := BuildDocx(doc)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// BuildDocx lays out doc in a new Word document.
func BuildDocx(doc document.Document) *docx.Docx {
	f := docx.New().WithDefaultTheme()
	for _, b := range doc.Blocks {
		addBlock(f, b)
	}
	return f
}

func addBlock(f *docx.Docx, b document.Block) {
	switch b := b.(type) {
	case *document.Paragraph:
		if len(b.Items) == 0 && b.Text != "" {
			f.AddParagraph().AddText(b.Text)
		}
		for _, e := range b.Items {
			addItem(f, e)
		}
	case *document.Table:
		addTable(f, b)
	case *document.Divider:
		if b.Title != "" {
			addHeading(f, 1, b.Title)
		}
	case *document.Accordion:
		addHeading(f, 2, b.Title)
		for _, child := range b.Children {
			addBlock(f, child)
		}
	}
}

func addHeading(f *docx.Docx, level int, text string) {
	if level < 1 || level > 3 {
		level = 3
	}
	f.AddParagraph().AddText(text).Bold().Size(headingSizes[level])
}

func addItem(f *docx.Docx, e document.InlineElement) {
	switch e.Kind {
	case document.Heading:
		addHeading(f, e.Level, e.Content)
	case document.Break:
		f.AddParagraph()
	case document.ListItem:
		p := f.AddParagraph()
		p.AddText(strings.Repeat("    ", max(e.Level, 1)-1) + "• ")
		addRuns(p, e, "")
	case document.Bold, document.Italic, document.BoldItalic:
		r := f.AddParagraph().AddText(e.Content)
		if e.Kind != document.Italic {
			r.Bold()
		}
		if e.Kind != document.Bold {
			r.Italic()
		}
	default:
		size := ""
		if e.FontSize > 0 {
			size = strconv.Itoa(e.FontSize * 2)
		}
		addRuns(f.AddParagraph(), e, size)
	}
}

// addRuns appends e's text to p, one run per emphasis change.
func addRuns(p *docx.Paragraph, e document.InlineElement, size string) {
	runs := []run{{text: e.Content}}
	if e.RichContent != "" {
		runs = emphasisRuns(e.RichContent)
	}
	for _, r := range runs {
		out := p.AddText(r.text)
		if r.bold {
			out.Bold()
		}
		if r.italic {
			out.Italic()
		}
		if size != "" {
			out.Size(size)
		}
	}
}

func addTable(f *docx.Docx, t *document.Table) {
	cols := 0
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return
	}

	tbl := f.AddTable(len(t.Rows), cols, 0, nil)
	for i, row := range t.Rows {
		for j := range cols {
			out := tbl.TableRows[i].TableCells[j]
			var segs [][]run
			if j < len(row) {
				segs = cellSegments(row[j])
			}
			// Word rejects a cell without a paragraph.
			if len(segs) == 0 {
				out.AddParagraph()
				continue
			}
			for _, seg := range segs {
				p := out.AddParagraph()
				for _, r := range seg {
					tr := p.AddText(r.text)
					if r.bold || i == 0 {
						tr.Bold()
					}
					if r.italic {
						tr.Italic()
					}
				}
			}
		}
	}
}

// cellSegments splits a cell into paragraphs of emphasis runs.
func cellSegments(c document.Cell) [][]run {
	source := c.Content
	if c.RichContent != "" {
		source = c.RichContent
	}
	var out [][]run
	for _, seg := range strings.Split(source, "\n\n") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if c.RichContent != "" {
			out = append(out, emphasisRuns(seg))
		} else {
			out = append(out, []run{{text: seg}})
		}
	}
	return out
}

type run struct {
	text         string
	bold, italic bool
}

// emphasisRuns tokenizes a rich-content fragment into text runs. Only
// b, strong, i and em affect the runs; other tags are ignored.
func emphasisRuns(fragment string) []run {
	var runs []run
	bold, italic := 0, 0
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return runs
		case html.TextToken:
			text := string(z.Text())
			if text == "" {
				continue
			}
			runs = append(runs, run{text: text, bold: bold > 0, italic: italic > 0})
		case html.StartTagToken, html.EndTagToken:
			name, _ := z.TagName()
			delta := 1
			if tt == html.EndTagToken {
				delta = -1
			}
			switch atom.Lookup(name) {
			case atom.B, atom.Strong:
				bold = max(bold+delta, 0)
			case atom.I, atom.Em:
				italic = max(italic+delta, 0)
			}
		}
	}
}
