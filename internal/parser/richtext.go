package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// emphasisPolicy keeps bold and italic tags and drops every other tag,
// attribute and wrapper while keeping their text.
var emphasisPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em")
	return p
}()

var (
	emphasisTag   = regexp.MustCompile(`<(?:b|strong|i|em)>`)
	emptyEmphasis = regexp.MustCompile(`<(?:b|strong|i|em)>\s*</(?:b|strong|i|em)>`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	nbspRun       = regexp.MustCompile("\u00a0+")
	blankLines    = regexp.MustCompile(`\n\s*\n`)
	spaceRun      = regexp.MustCompile(`[ \t]+`)
)

// sanitizeEmphasis reduces a markup fragment to text plus emphasis tags.
func sanitizeEmphasis(fragment string) string {
	out := emphasisPolicy.Sanitize(fragment)
	for {
		next := emptyEmphasis.ReplaceAllString(out, "")
		if next == out {
			break
		}
		out = next
	}
	out = strings.ReplaceAll(out, "&nbsp;", " ")
	return nbspRun.ReplaceAllString(out, " ")
}

func hasEmphasis(fragment string) bool {
	return emphasisTag.MatchString(fragment)
}

// inlineRichContent renders sel's inner markup on a single line, keeping
// only emphasis. It returns "" when no emphasis survives.
func inlineRichContent(sel *goquery.Selection) string {
	inner, err := sel.Html()
	if err != nil {
		return ""
	}
	out := sanitizeEmphasis(inner)
	out = strings.TrimSpace(whitespaceRun.ReplaceAllString(out, " "))
	if !hasEmphasis(out) {
		return ""
	}
	return out
}

// tidyParagraphs folds non-breaking spaces, collapses blank-line runs to a
// single "\n\n" and trims every line.
func tidyParagraphs(s string) string {
	s = nbspRun.ReplaceAllString(s, " ")
	s = blankLines.ReplaceAllString(s, "\n\n")
	s = spaceRun.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
