package static

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads an override dataset file whenever it changes on disk.
// Invalid edits are logged and ignored; the previous dataset stays.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Log      *zap.Logger
	OnChange func(*Dataset)
}

// Run watches until ctx is cancelled. The parent directory is watched so
// editors that replace the file on save are handled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("static: creating watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	abs, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("static: resolving %s: %w", w.Path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("static: watching %s: %w", filepath.Dir(abs), err)
	}

	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("dataset watcher error", zap.Error(err))

		case <-timer.C:
			d, err := Load(abs)
			if err != nil {
				log.Warn("dataset reload rejected", zap.String("path", abs), zap.Error(err))
				continue
			}
			log.Info("dataset reloaded", zap.String("path", abs))
			if w.OnChange != nil {
				w.OnChange(d)
			}
		}
	}
}
