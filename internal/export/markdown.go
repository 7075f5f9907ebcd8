package export

import (
	"context"
	"fmt"
	"io"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// ToMarkdown converts rendered HTML to CommonMark with GFM tables.
func ToMarkdown(html string) (string, error) {
	md, err := mdConverter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return md, nil
}

// MarkdownSink writes the export as Markdown. With Path set it writes a
// file, otherwise it streams to W.
type MarkdownSink struct {
	W    io.Writer
	Path string
}

func (s MarkdownSink) Name() string { return "markdown" }

func (s MarkdownSink) Write(_ context.Context, p Payload) error {
	md, err := ToMarkdown(p.HTML)
	if err != nil {
		return err
	}
	if s.Path != "" {
		return writeFile(s.Path, []byte(md))
	}
	_, err = io.WriteString(s.W, md)
	return err
}
