// Package outline derives the section index of a document and applies a
// section selection to it.
//
// Every function here is pure: selection changes return a new slice and
// never touch the Document.
package outline

import (
	"strings"

	"github.com/dgallion1/seismic2word/internal/document"
)

// Kind names what a section was derived from.
type Kind string

const (
	KindDivider          Kind = "divider"
	KindAccordion        Kind = "accordion"
	KindParagraphHeading Kind = "paragraph-heading"
)

// NoElement is the ElementIndex of sections not derived from a paragraph item.
const NoElement = -1

// Section is one outline entry pointing back into a Document.
type Section struct {
	ID         int    `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Level      int    `json:"level" yaml:"level"`
	BlockIndex int    `json:"block_index" yaml:"block_index"`
	Kind       Kind   `json:"kind" yaml:"kind"`
	// ElementIndex is the heading's index among its paragraph's items, or NoElement.
	ElementIndex int  `json:"element_index" yaml:"element_index"`
	Selected     bool `json:"selected" yaml:"selected"`
}

// Derive walks doc in order and returns its sections, all selected. Titled
// dividers open level-1 sections, accordions level-2 sections, and headings
// inside top-level paragraphs sections at their own level.
func Derive(doc document.Document) []Section {
	sections := []Section{}
	add := func(s Section) {
		s.ID = len(sections)
		s.Selected = true
		sections = append(sections, s)
	}

	for i, b := range doc.Blocks {
		switch b := b.(type) {
		case *document.Divider:
			if b.Title == "" {
				continue
			}
			add(Section{Title: b.Title, Level: 1, BlockIndex: i, Kind: KindDivider, ElementIndex: NoElement})
		case *document.Accordion:
			add(Section{Title: b.Title, Level: 2, BlockIndex: i, Kind: KindAccordion, ElementIndex: NoElement})
		case *document.Paragraph:
			for j, e := range b.Items {
				if !e.IsHeading() {
					continue
				}
				add(Section{Title: e.Content, Level: e.Level, BlockIndex: i, Kind: KindParagraphHeading, ElementIndex: j})
			}
		}
	}
	return sections
}

// Toggle flips the selection of section id. Deselecting also deselects the
// following sections nested deeper than it; selecting re-selects the
// preceding shallower sections back to the nearest level-1 section. An
// unknown id returns an unchanged copy.
func Toggle(sections []Section, id int) []Section {
	out := clone(sections)
	idx := indexOf(out, id)
	if idx < 0 {
		return out
	}

	target := out[idx]
	target.Selected = !target.Selected
	out[idx] = target

	if !target.Selected {
		for i := idx + 1; i < len(out) && out[i].Level > target.Level; i++ {
			out[i].Selected = false
		}
		return out
	}

	for i := idx - 1; i >= 0; i-- {
		if out[i].Level >= target.Level {
			continue
		}
		out[i].Selected = true
		if out[i].Level == 1 {
			break
		}
	}
	return out
}

// Include selects section id, its ancestors and every section nested
// under it.
func Include(sections []Section, id int) []Section {
	idx := indexOf(sections, id)
	if idx < 0 {
		return clone(sections)
	}
	out := sections
	if !out[idx].Selected {
		out = Toggle(out, id)
	} else {
		out = clone(out)
	}
	for i := idx + 1; i < len(out) && out[i].Level > out[idx].Level; i++ {
		out[i].Selected = true
	}
	return out
}

// Exclude deselects section id and every section nested under it.
func Exclude(sections []Section, id int) []Section {
	idx := indexOf(sections, id)
	if idx < 0 || !sections[idx].Selected {
		return clone(sections)
	}
	return Toggle(sections, id)
}

// SelectAll returns a copy with every section selected.
func SelectAll(sections []Section) []Section { return setAll(sections, true) }

// DeselectAll returns a copy with every section deselected.
func DeselectAll(sections []Section) []Section { return setAll(sections, false) }

func setAll(sections []Section, selected bool) []Section {
	out := clone(sections)
	for i := range out {
		out[i].Selected = selected
	}
	return out
}

// Filter returns doc restricted to the blocks whose owning section is
// selected. A block that opens sections follows the last of them; blocks
// before the first section are always kept. With no sections doc is
// returned as is.
func Filter(doc document.Document, sections []Section) document.Document {
	if len(sections) == 0 {
		return doc
	}

	opening := make(map[int]Section, len(sections))
	for _, s := range sections {
		opening[s.BlockIndex] = s
	}

	var kept []document.Block
	var owner *Section
	for i, b := range doc.Blocks {
		if s, ok := opening[i]; ok {
			owner = &s
		}
		if owner == nil || owner.Selected {
			kept = append(kept, b)
		}
	}
	return document.Document{Blocks: kept}
}

// FindByTitle returns the ids of sections whose title matches title,
// ignoring case and surrounding space.
func FindByTitle(sections []Section, title string) []int {
	title = strings.TrimSpace(title)
	var ids []int
	for _, s := range sections {
		if strings.EqualFold(strings.TrimSpace(s.Title), title) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// CountSelected returns how many sections are selected.
func CountSelected(sections []Section) int {
	n := 0
	for _, s := range sections {
		if s.Selected {
			n++
		}
	}
	return n
}

func indexOf(sections []Section, id int) int {
	for i, s := range sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func clone(sections []Section) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}
