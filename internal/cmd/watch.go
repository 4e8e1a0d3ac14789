package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Alia5/annogen/internal/codegen/generator"
	"github.com/Alia5/annogen/internal/log"
)

type Watch struct {
	Folder   string        `arg:"" help:"Folder holding the annotated Go sources" type:"path"`
	Debounce time.Duration `help:"Quiet period after the last change before regenerating" default:"300ms" env:"ANNOGEN_WATCH_DEBOUNCE"`

	generator.Config `embed:""`
}

// Run is called by Kong when the watch command is executed.
func (w *Watch) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	gen := generator.New(w.Config, logger).WithRawLogger(rawLogger)
	return w.watch(ctx, logger, func() error { return gen.Run(w.Folder) })
}

// watch runs generate once, then again after every burst of .go changes,
// until ctx is cancelled. Generation errors are logged, never returned.
func (w *Watch) watch(ctx context.Context, logger *slog.Logger, generate func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(w.Folder); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Folder, err)
	}

	run := func() {
		if err := generate(); err != nil {
			logger.Error("Generation failed", "error", err)
		}
	}
	run()
	logger.Info("Watching for changes", "folder", w.Folder, "debounce", w.Debounce)

	debounce := time.NewTimer(w.Debounce)
	debounce.Stop()
	defer debounce.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopped watching", "folder", w.Folder)
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("Source changed", "file", event.Name, "op", event.Op.String())
			debounce.Reset(w.Debounce)
			pending = debounce.C
		case <-pending:
			pending = nil
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error", "error", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(event.Name)
	return filepath.Ext(name) == ".go" && !strings.HasSuffix(name, "_test.go")
}
