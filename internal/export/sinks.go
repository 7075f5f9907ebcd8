package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnsupported is returned when no clipboard utility is available.
var ErrClipboardUnsupported = errors.New("clipboard not supported on this system")

// WriterSink streams the HTML to an io.Writer, typically stdout.
type WriterSink struct {
	W     io.Writer
	Label string
}

func (s WriterSink) Name() string {
	if s.Label == "" {
		return "stdout"
	}
	return s.Label
}

func (s WriterSink) Write(_ context.Context, p Payload) error {
	_, err := io.WriteString(s.W, p.HTML)
	return err
}

// FileSink writes the HTML to Path, creating parent directories.
type FileSink struct {
	Path string
}

func (s FileSink) Name() string { return "file" }

func (s FileSink) Write(_ context.Context, p Payload) error {
	return writeFile(s.Path, []byte(p.HTML))
}

func writeFile(path string, data []byte) error {
	if path == "" {
		return errors.New("no output path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ClipboardSink copies the HTML to the system clipboard as text, which
// word processors accept through paste-special.
type ClipboardSink struct {
	write       func(string) error
	unsupported func() bool
}

// NewClipboardSink returns a sink backed by the system clipboard.
func NewClipboardSink() ClipboardSink {
	return ClipboardSink{
		write:       clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

func (s ClipboardSink) Name() string { return "clipboard" }

func (s ClipboardSink) Write(_ context.Context, p Payload) error {
	if s.unsupported != nil && s.unsupported() {
		return ErrClipboardUnsupported
	}
	return s.write(p.HTML)
}
