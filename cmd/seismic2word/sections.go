package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/dgallion1/seismic2word/internal/config"
	"github.com/dgallion1/seismic2word/internal/outline"
)

var (
	levelStyles = []lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
	}
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	deselectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Strikethrough(true)
	metaStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [file]",
	Short: "List the section outline of a Seismic page",
	Long: `Sections parses Seismic page markup and prints its outline: titled
dividers, accordions and headings inside paragraphs, with their ids and
selection state. The selection flags from convert can be used to preview
what an export would keep.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(settings)
		doc, err := readDocument(cmd, args, cfg.MaxInputBytes)
		if err != nil {
			return err
		}
		sections, err := selectionFromFlags(cmd.Flags(), outline.Derive(doc))
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return writeSections(cmd.OutOrStdout(), sections, format)
	},
}

func init() {
	sectionsCmd.Flags().StringP("format", "f", "text", "output format: text, json, yaml")
	addSelectionFlags(sectionsCmd.Flags())
	rootCmd.AddCommand(sectionsCmd)
}

func writeSections(w io.Writer, sections []outline.Section, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sections)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sections); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		writeOutline(w, sections)
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

// writeOutline prints one line per section, indented by level.
func writeOutline(w io.Writer, sections []outline.Section) {
	if len(sections) == 0 {
		fmt.Fprintln(w, metaStyle.Render("no sections"))
		return
	}
	for _, s := range sections {
		depth := max(s.Level-1, 0)
		style := levelStyles[min(depth, len(levelStyles)-1)]
		mark := selectedStyle.Render("[x]")
		title := style.Render(s.Title)
		if !s.Selected {
			mark = deselectedStyle.Render("[ ]")
			title = deselectedStyle.Render(s.Title)
		}
		meta := metaStyle.Render(fmt.Sprintf("#%d %s, block %d", s.ID, s.Kind, s.BlockIndex))
		fmt.Fprintf(w, "%s%s %s  %s\n", strings.Repeat("  ", depth), mark, title, meta)
	}
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("%d of %d selected", outline.CountSelected(sections), len(sections))))
}
