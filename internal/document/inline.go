package document

// ElementKind names the InlineElement variants.
type ElementKind string

const (
	Heading    ElementKind = "heading"
	ListItem   ElementKind = "listitem"
	Text       ElementKind = "text"
	Bold       ElementKind = "bold"
	Italic     ElementKind = "italic"
	BoldItalic ElementKind = "bolditalic"
	Break      ElementKind = "break"
)

// InlineElement is one classified unit of a paragraph.
//
// Level is the heading level (1-3) for Heading and the list nesting depth
// (1 = outermost) for ListItem; it is zero for every other kind.
// RichContent is a fragment keeping only <b>, <strong>, <i> and <em>; it is
// empty when the source had no emphasis.
type InlineElement struct {
	Kind        ElementKind `json:"type"`
	Level       int         `json:"level,omitempty"`
	Content     string      `json:"content"`
	RichContent string      `json:"rich_content,omitempty"`
	FontSize    int         `json:"font_size,omitempty"`
}

// IsHeading reports whether e is a Heading.
func (e InlineElement) IsHeading() bool { return e.Kind == Heading }

// HeadingElement builds a Heading item.
func HeadingElement(level int, content string) InlineElement {
	return InlineElement{Kind: Heading, Level: level, Content: content}
}

// ListItemElement builds a ListItem item.
func ListItemElement(level int, content, rich string) InlineElement {
	if level < 1 {
		level = 1
	}
	return InlineElement{Kind: ListItem, Level: level, Content: content, RichContent: rich}
}

// TextElement builds a Text item.
func TextElement(content, rich string) InlineElement {
	return InlineElement{Kind: Text, Content: content, RichContent: rich}
}

// BreakElement builds a Break item.
func BreakElement() InlineElement {
	return InlineElement{Kind: Break}
}

// EmphasisKind picks Text, Bold, Italic or BoldItalic from emphasis flags.
func EmphasisKind(bold, italic bool) ElementKind {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	}
	return Text
}
