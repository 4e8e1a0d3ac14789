package generator

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"

	"github.com/Alia5/annogen/internal/codegen/meta"
	"github.com/Alia5/annogen/internal/log"
)

// Writer flushes staged artifacts to disk.
type Writer struct {
	logger *slog.Logger
	raw    log.RawLogger
}

func NewWriter(logger *slog.Logger, raw log.RawLogger) *Writer {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Writer{logger: logger, raw: raw}
}

// Flush formats every Go artifact first, so a formatting failure leaves
// the output untouched, then writes the files whose content changed. It
// returns the number of files written.
func (w *Writer) Flush(artifacts []meta.Artifact) (int, error) {
	prepared := make([]meta.Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		if filepath.Ext(a.Path) == ".go" {
			formatted, err := imports.Process(a.Path, a.Content, nil)
			if err != nil {
				w.dumpFailed(a)
				return 0, fmt.Errorf("format %s: %w", a.Path, err)
			}
			a.Content = formatted
		}
		prepared = append(prepared, a)
	}

	written := 0
	for _, a := range prepared {
		changed, err := w.write(a)
		if err != nil {
			return written, err
		}
		if changed {
			written++
		}
	}
	return written, nil
}

func (w *Writer) write(a meta.Artifact) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create output directory for %s: %w", a.Path, err)
	}
	if existing, err := os.ReadFile(a.Path); err == nil && bytes.Equal(existing, a.Content) {
		w.logger.Debug("Unchanged", "file", a.Path)
		return false, nil
	}
	if err := os.WriteFile(a.Path, a.Content, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", a.Path, err)
	}
	w.logger.Info("Generated file", "file", a.Path, "bytes", len(a.Content))
	w.raw.Log(a.Path, a.Content)
	return true, nil
}

// dumpFailed keeps the unformatted source next to its target for debugging.
func (w *Writer) dumpFailed(a meta.Artifact) {
	path := a.Path + ".error"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		w.logger.Warn("Could not write debug file", "file", path, "error", err)
		return
	}
	if err := os.WriteFile(path, a.Content, 0o644); err != nil {
		w.logger.Warn("Could not write debug file", "file", path, "error", err)
		return
	}
	w.logger.Error("Generated Go source does not format", "file", path)
}
