package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/seismic2word/internal/document"
)

const (
	head = `<html><head><style>` + bodyStyle + `</style></head><body>`
	tail = `</body></html>`
)

func body(t *testing.T, doc document.Document) string {
	t.Helper()
	out := Render(doc)
	require.True(t, strings.HasPrefix(out, head) && strings.HasSuffix(out, tail), "unexpected envelope: %q", out)
	return strings.TrimSuffix(strings.TrimPrefix(out, head), tail)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, head+tail, Render(document.Document{}))
}

func TestRender_WithCharset(t *testing.T) {
	out := Render(document.Document{}, WithCharset())
	assert.True(t, strings.HasPrefix(out, `<html><head><meta charset="utf-8"><style>`), out)
}

func TestRender_TableHeaderRow(t *testing.T) {
	doc := document.Document{Blocks: []document.Block{
		&document.Table{Rows: []document.Row{
			{{Content: "Name"}, {Content: "Age"}},
			{{Content: "Ann"}, {Content: "30"}},
		}},
	}}

	hdr := `<td style="border:1px solid #333; padding:8px; word-wrap:break-word; font-weight:bold; background-color:#f0f0f0;">`
	cell := `<td style="border:1px solid #333; padding:8px; word-wrap:break-word;">`
	want := `<table style="width:100%; table-layout:fixed; border-collapse:collapse; margin:12px 0;">` +
		`<tr>` + hdr + `<p style="margin:4px 0;">Name</p></td>` + hdr + `<p style="margin:4px 0;">Age</p></td></tr>` +
		`<tr>` + cell + `<p style="margin:4px 0;">Ann</p></td>` + cell + `<p style="margin:4px 0;">30</p></td></tr>` +
		`</table>`
	assert.Equal(t, want, body(t, doc))
}

func TestRender_CellParagraphs(t *testing.T) {
	tests := []struct {
		name string
		cell document.Cell
		want string
	}{
		{"split", document.Cell{Content: "One\n\nTwo"}, `<p style="margin:4px 0;">One</p><p style="margin:4px 0;">Two</p>`},
		{"rich preferred", document.Cell{Content: "a b", RichContent: "a <b>b</b>"}, `<p style="margin:4px 0;">a <b>b</b></p>`},
		{"escaped", document.Cell{Content: "x < y"}, `<p style="margin:4px 0;">x &lt; y</p>`},
		{"empty", document.Cell{}, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellHTML(tt.cell))
		})
	}
}

func TestRender_Spacers(t *testing.T) {
	endsWithBreak := &document.Paragraph{Items: []document.InlineElement{
		document.TextElement("first", ""),
		document.BreakElement(),
	}}
	plain := &document.Paragraph{Items: []document.InlineElement{document.TextElement("second", "")}}
	table := &document.Table{Rows: []document.Row{{{Content: "t"}}}}
	headed := &document.Paragraph{Items: []document.InlineElement{document.HeadingElement(2, "Head")}}
	divider := &document.Divider{Title: "Part", Level: 1}

	tests := []struct {
		name string
		prev document.Block
		cur  document.Block
		want bool
	}{
		{"first block", nil, plain, false},
		{"paragraph ending in break", endsWithBreak, plain, false},
		{"paragraph to paragraph", plain, plain, false},
		{"table to table", table, table, true},
		{"paragraph to table", plain, table, true},
		{"table to paragraph", table, plain, true},
		{"table to headed paragraph", table, headed, false},
		{"divider to table", divider, table, false},
		{"table to divider", table, divider, false},
		{"table to accordion", table, &document.Accordion{Title: "A"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, needsSpacer(tt.prev, tt.cur))
		})
	}

	out := body(t, document.Document{Blocks: []document.Block{endsWithBreak, plain}})
	assert.Equal(t, 1, strings.Count(out, Spacer), "only the break itself renders a spacer")

	out = body(t, document.Document{Blocks: []document.Block{table, table}})
	assert.Equal(t, 1, strings.Count(out, Spacer))
}

func TestRender_NestedLists(t *testing.T) {
	p := &document.Paragraph{Items: []document.InlineElement{
		document.ListItemElement(1, "a", ""),
		document.ListItemElement(2, "b", "<b>b</b>"),
		document.ListItemElement(3, "c", ""),
		document.ListItemElement(1, "d", ""),
		document.TextElement("after", ""),
	}}

	want := `<ul style="margin:8px 0 8px 20px;"><li style="margin:4px 0;">a</li>` +
		`<ul style="margin:8px 0 8px 40px;"><li style="margin:4px 0;"><b>b</b></li>` +
		`<ul style="margin:8px 0 8px 60px;"><li style="margin:4px 0;">c</li>` +
		`</ul></ul><li style="margin:4px 0;">d</li></ul>` +
		`<p style="margin:0 0 0 0;">after</p>`
	assert.Equal(t, want, body(t, document.Document{Blocks: []document.Block{p}}))
}

func TestRender_ListClosedAtParagraphEnd(t *testing.T) {
	p := &document.Paragraph{Items: []document.InlineElement{document.ListItemElement(2, "deep", "")}}
	out := body(t, document.Document{Blocks: []document.Block{p}})
	assert.Equal(t, 2, strings.Count(out, "<ul "))
	assert.Equal(t, 2, strings.Count(out, "</ul>"))
}

func TestRender_InlineKinds(t *testing.T) {
	sized := document.TextElement("big & bold", "")
	sized.FontSize = 14
	p := &document.Paragraph{Items: []document.InlineElement{
		document.HeadingElement(1, "Top"),
		{Kind: document.Bold, Content: "b"},
		{Kind: document.Italic, Content: "i"},
		{Kind: document.BoldItalic, Content: "bi"},
		sized,
		document.TextElement("plain", "<em>plain</em>"),
	}}

	want := `<h1 style="` + headingStyles[1] + `">Top</h1>` +
		`<p style="margin:0 0 0 0;"><strong>b</strong></p>` +
		`<p style="margin:0 0 0 0;"><em>i</em></p>` +
		`<p style="margin:0 0 0 0;"><strong><em>bi</em></strong></p>` +
		`<p style="margin:0 0 0 0;font-size:14pt;">big &amp; bold</p>` +
		`<p style="margin:0 0 0 0;"><em>plain</em></p>`
	assert.Equal(t, want, body(t, document.Document{Blocks: []document.Block{p}}))
}

func TestRender_PlainTextFallback(t *testing.T) {
	doc := document.Document{Blocks: []document.Block{&document.Paragraph{Text: "raw <text>"}}}
	assert.Equal(t, `<p style="margin:6px 0;">raw &lt;text&gt;</p>`, body(t, doc))

	doc = document.Document{Blocks: []document.Block{&document.Paragraph{}}}
	assert.Empty(t, body(t, doc))
}

func TestRender_DividersAndAccordions(t *testing.T) {
	doc := document.Document{Blocks: []document.Block{
		&document.Divider{Title: "", Level: 2},
		&document.Divider{Title: "Part", Level: 3},
		&document.Accordion{Title: "More", Level: 3, Children: []document.AccordionChild{
			&document.Paragraph{Items: []document.InlineElement{document.TextElement("inside", "")}},
			&document.Table{Rows: []document.Row{{{Content: "c"}}}},
		}},
	}}

	out := body(t, doc)
	assert.True(t, strings.HasPrefix(out, `<h1 style="`+headingStyles[1]+`">Part</h1>`), out)
	assert.Contains(t, out, `<h2 style="`+headingStyles[2]+`">More</h2><p style="margin:0 0 0 0;">inside</p><table `)
	assert.NotContains(t, out, Spacer)
}
