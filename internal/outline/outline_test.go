package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/seismic2word/internal/document"
)

func para(items ...document.InlineElement) *document.Paragraph {
	return &document.Paragraph{Items: items}
}

// sampleDoc:
//
//	0 divider "Intro" (1)
//	1 paragraph: h2 "Setup", text, h3 "Tools"
//	2 table
//	3 divider "" (untitled)
//	4 accordion "FAQ"
//	5 divider "Appendix" (1)
//	6 paragraph: text
func sampleDoc() document.Document {
	return document.Document{Blocks: []document.Block{
		&document.Divider{Title: "Intro", Level: 1},
		para(
			document.HeadingElement(2, "Setup"),
			document.TextElement("Install it.", ""),
			document.HeadingElement(3, "Tools"),
		),
		&document.Table{Rows: []document.Row{{{Content: "a"}}}},
		&document.Divider{Title: "", Level: 2},
		&document.Accordion{Title: "FAQ", Level: 2},
		&document.Divider{Title: "Appendix", Level: 1},
		para(document.TextElement("The end.", "")),
	}}
}

func selected(sections []Section) []bool {
	out := make([]bool, len(sections))
	for i, s := range sections {
		out[i] = s.Selected
	}
	return out
}

func TestDerive(t *testing.T) {
	sections := Derive(sampleDoc())
	assert.Equal(t, []Section{
		{ID: 0, Title: "Intro", Level: 1, BlockIndex: 0, Kind: KindDivider, ElementIndex: NoElement, Selected: true},
		{ID: 1, Title: "Setup", Level: 2, BlockIndex: 1, Kind: KindParagraphHeading, ElementIndex: 0, Selected: true},
		{ID: 2, Title: "Tools", Level: 3, BlockIndex: 1, Kind: KindParagraphHeading, ElementIndex: 2, Selected: true},
		{ID: 3, Title: "FAQ", Level: 2, BlockIndex: 4, Kind: KindAccordion, ElementIndex: NoElement, Selected: true},
		{ID: 4, Title: "Appendix", Level: 1, BlockIndex: 5, Kind: KindDivider, ElementIndex: NoElement, Selected: true},
	}, sections)
}

func TestDerive_AccordionChildrenNotIndexed(t *testing.T) {
	doc := document.Document{Blocks: []document.Block{
		&document.Accordion{Title: "Outer", Level: 3, Children: []document.AccordionChild{
			para(document.HeadingElement(1, "Inner")),
		}},
	}}
	sections := Derive(doc)
	require.Len(t, sections, 1)
	assert.Equal(t, 2, sections[0].Level)
	assert.Equal(t, "Outer", sections[0].Title)
}

func TestDerive_Empty(t *testing.T) {
	assert.Empty(t, Derive(document.Document{}))
}

func TestToggle_DeselectCascadesForward(t *testing.T) {
	sections := Derive(sampleDoc())

	got := Toggle(sections, 0)
	assert.Equal(t, []bool{false, false, false, false, true}, selected(got))

	// The input slice is untouched.
	assert.Equal(t, []bool{true, true, true, true, true}, selected(sections))

	got = Toggle(sections, 1)
	assert.Equal(t, []bool{true, false, false, true, true}, selected(got))

	got = Toggle(sections, 2)
	assert.Equal(t, []bool{true, true, false, true, true}, selected(got))
}

func TestToggle_SelectCascadesBackward(t *testing.T) {
	sections := DeselectAll(Derive(sampleDoc()))

	got := Toggle(sections, 2)
	assert.Equal(t, []bool{true, true, true, false, false}, selected(got))

	// Selecting a level-1 section touches nothing before it.
	got = Toggle(sections, 4)
	assert.Equal(t, []bool{false, false, false, false, true}, selected(got))

	// Earlier shallower siblings are reselected up to the first level-1.
	got = Toggle(sections, 3)
	assert.Equal(t, []bool{true, false, false, true, false}, selected(got))
}

func TestToggle_UnknownID(t *testing.T) {
	sections := Derive(sampleDoc())
	got := Toggle(sections, 99)
	assert.Equal(t, sections, got)
}

func TestIncludeExclude(t *testing.T) {
	sections := DeselectAll(Derive(sampleDoc()))

	got := Include(sections, 1)
	assert.Equal(t, []bool{true, true, true, false, false}, selected(got))

	got = Exclude(got, 1)
	assert.Equal(t, []bool{true, false, false, false, false}, selected(got))

	// Excluding an already deselected section changes nothing.
	again := Exclude(got, 1)
	assert.Equal(t, selected(got), selected(again))
}

func TestSelectAllDeselectAll(t *testing.T) {
	sections := Derive(sampleDoc())
	none := DeselectAll(sections)
	assert.Equal(t, 0, CountSelected(none))
	assert.Equal(t, len(sections), CountSelected(SelectAll(none)))
}

func TestFilter_SelectAllIsIdentity(t *testing.T) {
	doc := sampleDoc()
	got := Filter(doc, SelectAll(Derive(doc)))
	assert.Equal(t, doc, got)
}

func TestFilter_DeselectedSection(t *testing.T) {
	doc := sampleDoc()
	sections := Toggle(Derive(doc), 0)

	got := Filter(doc, sections)
	// Everything up to "Appendix" goes, including the untitled divider owned
	// by "Tools" and the nested "FAQ" accordion.
	require.Len(t, got.Blocks, 2)
	assert.Same(t, doc.Blocks[5], got.Blocks[0])
	assert.Same(t, doc.Blocks[6], got.Blocks[1])
}

func TestFilter_LastSectionOnBlockDecides(t *testing.T) {
	doc := sampleDoc()
	sections := Derive(doc)
	sections = Toggle(sections, 2) // "Tools" off, "Setup" still on

	got := Filter(doc, sections)
	assert.Len(t, got.Blocks, 4)
	assert.Same(t, doc.Blocks[0], got.Blocks[0])
	assert.Same(t, doc.Blocks[4], got.Blocks[1])
}

func TestFilter_ContentBeforeFirstSectionKept(t *testing.T) {
	lead := para(document.TextElement("Lead", ""))
	doc := document.Document{Blocks: []document.Block{
		lead,
		&document.Divider{Title: "Only", Level: 1},
	}}
	got := Filter(doc, DeselectAll(Derive(doc)))
	require.Len(t, got.Blocks, 1)
	assert.Same(t, lead, got.Blocks[0])
}

func TestFilter_NoSections(t *testing.T) {
	doc := document.Document{Blocks: []document.Block{para(document.TextElement("x", ""))}}
	assert.Equal(t, doc, Filter(doc, nil))
}

func TestOverviewExample(t *testing.T) {
	doc := document.Document{Blocks: []document.Block{
		&document.Divider{Title: "Overview", Level: 1},
		para(document.HeadingElement(2, "Details"), document.ListItemElement(1, "Step 1", "")),
	}}

	sections := Derive(doc)
	require.Len(t, sections, 2)
	assert.Equal(t, 1, sections[0].Level)
	assert.Equal(t, "Overview", sections[0].Title)
	assert.Equal(t, 2, sections[1].Level)
	assert.Equal(t, "Details", sections[1].Title)

	sections = Toggle(sections, sections[0].ID)
	assert.Equal(t, []bool{false, false}, selected(sections))
	assert.Empty(t, Filter(doc, sections).Blocks)
}

func TestFindByTitle(t *testing.T) {
	sections := Derive(sampleDoc())
	assert.Equal(t, []int{3}, FindByTitle(sections, "  faq "))
	assert.Empty(t, FindByTitle(sections, "missing"))
}
