// Package export hands a rendered document to an output sink: a file, a
// stream, the system clipboard, Markdown or a .docx package.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/seismic2word/internal/document"
)

// Payload is one export: the filtered document and its rendered HTML.
type Payload struct {
	Document document.Document
	HTML     string
}

// Sink is an export destination.
type Sink interface {
	Name() string
	Write(ctx context.Context, p Payload) error
}

// SinkError reports that a sink rejected an export.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("export to %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// Export writes p to sink exactly once. Any failure is returned as a
// *SinkError; nothing is retried.
func Export(ctx context.Context, log *slog.Logger, sink Sink, p Payload) error {
	if err := ctx.Err(); err != nil {
		return &SinkError{Sink: sink.Name(), Err: err}
	}

	start := time.Now()
	err := sink.Write(ctx, p)
	if err != nil {
		var se *SinkError
		if !errors.As(err, &se) {
			se = &SinkError{Sink: sink.Name(), Err: err}
		}
		log.Warn("export failed", "sink", sink.Name(), "error", se.Err)
		return se
	}

	log.Debug("export done",
		"sink", sink.Name(),
		"blocks", p.Document.Len(),
		"bytes", len(p.HTML),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
