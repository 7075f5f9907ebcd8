package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/seismic2word/internal/document"
	"github.com/dgallion1/seismic2word/internal/parser"
)

// readDocument parses markup from the named file, or from stdin when no
// file (or "-") is given. Input beyond limit bytes is rejected.
func readDocument(cmd *cobra.Command, args []string, limit int64) (document.Document, error) {
	var r io.Reader = cmd.InOrStdin()
	name := "stdin"
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return document.Document{}, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r, name = f, args[0]
	}

	// Read one extra byte so oversized input is detected rather than truncated.
	lr := &io.LimitedReader{R: r, N: limit + 1}
	doc, err := parser.Parse(lr)
	if lr.N <= 0 {
		return document.Document{}, fmt.Errorf("%s exceeds max input size (%d bytes)", name, limit)
	}
	switch {
	case errors.Is(err, parser.ErrEmptyInput):
		return doc, fmt.Errorf("%s is empty: please supply Seismic page markup", name)
	case errors.Is(err, parser.ErrNoContent):
		return doc, fmt.Errorf("no content found in %s: make sure the Seismic article markup was copied", name)
	case err != nil:
		return doc, fmt.Errorf("parse %s: %w", name, err)
	}
	return doc, nil
}
