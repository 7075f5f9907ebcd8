// Package parser turns exported Seismic page markup into a document.Document.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dgallion1/seismic2word/internal/document"
)

var (
	// ErrEmptyInput is returned for blank or whitespace-only input.
	ErrEmptyInput = errors.New("parser: empty input")

	// ErrNoContent is returned when the markup holds no recognizable widget.
	ErrNoContent = errors.New("parser: no recognizable content")
)

// Widget roles, from the data-testid attribute.
const (
	testIDAttr      = "data-testid"
	widgetParagraph = "page.paragraph"
	widgetTable     = "page.table"
	widgetDivider   = "page.divider"
	widgetAccordion = "page.accordion"
)

const (
	richTextSelector    = ".seismic-page-RichTextView-content"
	dividerViewSelector = ".seismic-page-divider-view"
	dividerTextSelector = ".seismic-page-divider-view-text"
	virtualTextSelector = ".seismic-page-divider-view-text-virtual"

	untitledSection     = "Untitled Section"
	defaultSectionLevel = 2
)

// Parse reads all of r and parses it with ParseDocument.
func Parse(r io.Reader) (document.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return document.Document{}, fmt.Errorf("read markup: %w", err)
	}
	return ParseDocument(string(raw))
}

// ParseDocument parses raw page markup. It returns ErrEmptyInput for blank
// input, and the empty document together with ErrNoContent when no widget
// was recognized.
func ParseDocument(raw string) (document.Document, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return document.Document{}, ErrEmptyInput
	}

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return document.Document{}, fmt.Errorf("parse markup: %w", err)
	}

	doc := buildDocument(dom.Selection)
	if doc.Len() == 0 {
		return doc, ErrNoContent
	}
	return doc, nil
}

func buildDocument(page *goquery.Selection) document.Document {
	widgets := page.Find("[" + testIDAttr + "]")

	// Accordions first, so every other widget can be routed to the
	// accordion enclosing it.
	accordions := make(map[*html.Node]*document.Accordion)
	owners := make(map[*html.Node]*document.Accordion)
	widgets.Each(func(_ int, w *goquery.Selection) {
		if testID(w) == widgetAccordion {
			accordions[w.Get(0)] = &document.Accordion{
				Title:    accordionTitle(w),
				Level:    headerLevel(w),
				Children: []document.AccordionChild{},
			}
			return
		}
		enclosing := w.Closest(`[` + testIDAttr + `="` + widgetAccordion + `"]`)
		if enclosing.Length() == 0 {
			return
		}
		if acc, ok := accordions[enclosing.Get(0)]; ok {
			owners[w.Get(0)] = acc
		}
	})

	seen := make(map[string]struct{})
	var blocks []document.Block
	widgets.Each(func(_ int, w *goquery.Selection) {
		var child document.AccordionChild
		switch testID(w) {
		case widgetParagraph:
			content := w.Find(richTextSelector).First()
			if content.Length() == 0 {
				return
			}
			child = paragraph(content, seen)
		case widgetTable:
			table := w.Find("table").First()
			if table.Length() == 0 {
				return
			}
			child = &document.Table{Rows: ExtractTable(table)}
		case widgetAccordion:
			blocks = append(blocks, accordions[w.Get(0)])
			return
		case widgetDivider:
			blocks = append(blocks, &document.Divider{
				Title: labelText(w, dividerTextSelector),
				Level: headerLevel(w),
			})
			return
		default:
			return
		}

		if acc, ok := owners[w.Get(0)]; ok {
			acc.Children = append(acc.Children, child)
			return
		}
		blocks = append(blocks, child)
	})

	return document.Document{Blocks: blocks}
}

// paragraph classifies a rich-text root. seen carries content already kept by
// earlier paragraphs so no content repeats across the document.
func paragraph(content *goquery.Selection, seen map[string]struct{}) *document.Paragraph {
	classified := Classify(content)
	p := &document.Paragraph{Items: Dedupe(classified, seen)}
	if len(classified) == 0 {
		p.Text = strings.TrimSpace(content.Text())
	}
	return p
}

func testID(w *goquery.Selection) string {
	id, _ := w.Attr(testIDAttr)
	return id
}

func labelText(w *goquery.Selection, selector string) string {
	return strings.TrimSpace(w.Find(selector).First().Text())
}

func accordionTitle(w *goquery.Selection) string {
	if t := labelText(w, virtualTextSelector); t != "" {
		return t
	}
	if t := labelText(w, dividerTextSelector); t != "" {
		return t
	}
	return untitledSection
}

// headerLevel reads the __headingN class on a widget's divider view.
func headerLevel(w *goquery.Selection) int {
	header := w.Find(dividerViewSelector).First()
	switch {
	case header.HasClass("__heading1"):
		return 1
	case header.HasClass("__heading2"):
		return 2
	case header.HasClass("__heading3"):
		return 3
	}
	return defaultSectionLevel
}
