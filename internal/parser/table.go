package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dgallion1/seismic2word/internal/document"
)

// paragraphBreak separates paragraphs inside a single cell.
const paragraphBreak = "\n\n"

// ExtractTable converts a table element into rows of cells. Rows without
// cells are omitted.
func ExtractTable(table *goquery.Selection) []document.Row {
	var rows []document.Row
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row document.Row
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, extractCell(cell))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	return rows
}

func extractCell(cell *goquery.Selection) document.Cell {
	marked := markParagraphs(cell.Clone())

	out := document.Cell{Content: tidyParagraphs(marked.Text())}
	if inner, err := marked.Html(); err == nil {
		rich := tidyParagraphs(sanitizeEmphasis(inner))
		if hasEmphasis(rich) {
			out.RichContent = rich
		}
	}
	return out
}

// markParagraphs replaces line breaks with paragraph markers and puts a
// marker in front of every non-empty nested container. sel must be a
// detached clone.
func markParagraphs(sel *goquery.Selection) *goquery.Selection {
	sel.Find("br").Each(func(_ int, br *goquery.Selection) {
		n := br.Get(0)
		n.Parent.InsertBefore(textNode(paragraphBreak), n)
		n.Parent.RemoveChild(n)
	})
	sel.Find(containerSelector).Each(func(_ int, box *goquery.Selection) {
		if strings.TrimSpace(box.Text()) == "" {
			return
		}
		n := box.Get(0)
		n.Parent.InsertBefore(textNode(paragraphBreak), n)
	})
	return sel
}
