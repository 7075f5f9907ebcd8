// Package document defines the normalized model produced by the parser and
// consumed by the outline, render and export packages.
package document

import "encoding/json"

// Document is the root of a parsed page. Blocks are in source order.
type Document struct {
	Blocks []Block
}

// BlockKind names the Block variants.
type BlockKind string

const (
	KindParagraph BlockKind = "paragraph"
	KindTable     BlockKind = "table"
	KindDivider   BlockKind = "divider"
	KindAccordion BlockKind = "accordion"
)

// Block is one top-level structural unit: *Paragraph, *Table, *Divider or *Accordion.
type Block interface {
	Kind() BlockKind
}

// AccordionChild is the restricted set of blocks an accordion may hold.
// Only *Paragraph and *Table implement it.
type AccordionChild interface {
	Block
	accordionChild()
}

// Paragraph is a rich-text widget broken into classified inline elements.
type Paragraph struct {
	Items []InlineElement `json:"items"`
	// Text is the whole paragraph's plain text, used when no item was classified.
	Text string `json:"text,omitempty"`
}

// Table is a grid of cells. The first row is treated as the header row.
type Table struct {
	Rows []Row `json:"rows"`
}

// Row is one table row.
type Row []Cell

// Cell holds a table cell's text. Content uses "\n\n" between paragraphs.
type Cell struct {
	Content     string `json:"content"`
	RichContent string `json:"rich_content,omitempty"`
}

// Divider is a titled page separator.
type Divider struct {
	Title string `json:"title"`
	Level int    `json:"level"`
}

// Accordion is a collapsible titled section with nested paragraphs and tables.
type Accordion struct {
	Title    string           `json:"title"`
	Level    int              `json:"level"`
	Children []AccordionChild `json:"children"`
}

func (*Paragraph) Kind() BlockKind { return KindParagraph }
func (*Table) Kind() BlockKind     { return KindTable }
func (*Divider) Kind() BlockKind   { return KindDivider }
func (*Accordion) Kind() BlockKind { return KindAccordion }

func (*Paragraph) accordionChild() {}
func (*Table) accordionChild()     {}

// StartsWithHeading reports whether the first item is a heading.
func (p *Paragraph) StartsWithHeading() bool {
	return len(p.Items) > 0 && p.Items[0].Kind == Heading
}

// EndsWithBreak reports whether the last item is a break.
func (p *Paragraph) EndsWithBreak() bool {
	return len(p.Items) > 0 && p.Items[len(p.Items)-1].Kind == Break
}

// Summary counts the top-level blocks of a document.
type Summary struct {
	Blocks int `json:"blocks"`
	Tables int `json:"tables"`
}

// Summarize returns block and table counts for status reporting.
func (d Document) Summarize() Summary {
	s := Summary{Blocks: len(d.Blocks)}
	for _, b := range d.Blocks {
		if b.Kind() == KindTable {
			s.Tables++
		}
	}
	return s
}

// Len returns the number of top-level blocks.
func (d Document) Len() int { return len(d.Blocks) }

func (d Document) MarshalJSON() ([]byte, error) {
	blocks := d.Blocks
	if blocks == nil {
		blocks = []Block{}
	}
	return json.Marshal(blocks)
}

func (p *Paragraph) MarshalJSON() ([]byte, error) {
	type alias Paragraph
	items := p.Items
	if items == nil {
		items = []InlineElement{}
	}
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
		alias
	}{KindParagraph, alias{Items: items, Text: p.Text}})
}

func (t *Table) MarshalJSON() ([]byte, error) {
	type alias Table
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
		alias
	}{KindTable, alias(*t)})
}

func (d *Divider) MarshalJSON() ([]byte, error) {
	type alias Divider
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
		alias
	}{KindDivider, alias(*d)})
}

func (a *Accordion) MarshalJSON() ([]byte, error) {
	type alias Accordion
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
		alias
	}{KindAccordion, alias(*a)})
}
