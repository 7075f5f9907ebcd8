package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dgallion1/seismic2word/internal/config"
	"github.com/dgallion1/seismic2word/internal/export"
	"github.com/dgallion1/seismic2word/internal/outline"
	"github.com/dgallion1/seismic2word/internal/render"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert Seismic page markup into Word-ready output",
	Long: `Convert reads Seismic page markup from a file (or stdin), applies the
section selection and writes the result to the chosen sink.

Sinks:
  stdout     HTML on standard output (default)
  file       HTML written to --out (default <export_dir>/seismic.html)
  clipboard  HTML placed on the system clipboard
  markdown   Markdown on stdout, or --out when given
  docx       a Word document at --out (default <export_dir>/seismic.docx)

Selection flags are applied in order: --deselect-all, then every
--include, then every --exclude. Titles match case-insensitively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	addSelectionFlags(f)
	f.String("sink", "stdout", "output sink: stdout, file, clipboard, markdown, docx")
	f.StringP("out", "o", "", "output path for file, markdown and docx sinks")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := config.Load(settings)
	log := newLogger(cmd.ErrOrStderr(), cfg, false)

	doc, err := readDocument(cmd, args, cfg.MaxInputBytes)
	if err != nil {
		return err
	}
	sum := doc.Summarize()
	fmt.Fprintf(cmd.ErrOrStderr(), "Parsed %d blocks (%d tables)\n", sum.Blocks, sum.Tables)

	f := cmd.Flags()
	sections, err := selectionFromFlags(f, outline.Derive(doc))
	if err != nil {
		return err
	}
	log.Debug("selection applied", "sections", len(sections), "selected", outline.CountSelected(sections))

	sinkName, _ := f.GetString("sink")
	out, _ := f.GetString("out")
	sink, err := buildSink(sinkName, out, cfg.ExportDir, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	filtered := outline.Filter(doc, sections)
	var opts []render.Option
	if sinkName == "file" || sinkName == "docx" {
		opts = append(opts, render.WithCharset())
	}
	payload := export.Payload{Document: filtered, HTML: render.Render(filtered, opts...)}
	if err := export.Export(cmd.Context(), log, sink, payload); err != nil {
		return err
	}
	if dest := sinkPath(sink); dest != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", dest)
	}
	return nil
}

func addSelectionFlags(f *pflag.FlagSet) {
	f.StringArray("exclude", nil, "deselect the section with this title and its subsections (repeatable)")
	f.StringArray("include", nil, "select the section with this title and its subsections (repeatable)")
	f.Bool("deselect-all", false, "start with every section deselected")
}

func selectionFromFlags(f *pflag.FlagSet, sections []outline.Section) ([]outline.Section, error) {
	deselectAll, _ := f.GetBool("deselect-all")
	include, _ := f.GetStringArray("include")
	exclude, _ := f.GetStringArray("exclude")
	return applySelection(sections, deselectAll, include, exclude)
}

// applySelection runs the selection flags over a freshly derived outline.
func applySelection(sections []outline.Section, deselectAll bool, include, exclude []string) ([]outline.Section, error) {
	if deselectAll {
		sections = outline.DeselectAll(sections)
	}
	for _, title := range include {
		ids := outline.FindByTitle(sections, title)
		if len(ids) == 0 {
			return nil, fmt.Errorf("no section titled %q", title)
		}
		for _, id := range ids {
			sections = outline.Include(sections, id)
		}
	}
	for _, title := range exclude {
		ids := outline.FindByTitle(sections, title)
		if len(ids) == 0 {
			return nil, fmt.Errorf("no section titled %q", title)
		}
		for _, id := range ids {
			sections = outline.Exclude(sections, id)
		}
	}
	return sections, nil
}

func buildSink(name, out, exportDir string, stdout io.Writer) (export.Sink, error) {
	switch name {
	case "stdout":
		return export.WriterSink{W: stdout}, nil
	case "file":
		if out == "" {
			out = filepath.Join(exportDir, "seismic.html")
		}
		return export.FileSink{Path: out}, nil
	case "clipboard":
		return export.NewClipboardSink(), nil
	case "markdown":
		if out != "" {
			return export.MarkdownSink{Path: out}, nil
		}
		return export.MarkdownSink{W: stdout}, nil
	case "docx":
		if out == "" {
			out = filepath.Join(exportDir, "seismic.docx")
		}
		return export.DocxSink{Path: out}, nil
	}
	return nil, fmt.Errorf("unknown sink %q (want stdout, file, clipboard, markdown or docx)", name)
}

func sinkPath(s export.Sink) string {
	switch s := s.(type) {
	case export.FileSink:
		return s.Path
	case export.MarkdownSink:
		return s.Path
	case export.DocxSink:
		return s.Path
	}
	return ""
}
