// Package watch reports changes to a set of files.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events editors emit for one save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls a handler with the path of every watched file that is
// written or recreated.
type Watcher struct {
	files    map[string]bool
	logger   zerolog.Logger
	debounce time.Duration
}

// New returns a Watcher for files. Directories are watched rather than the
// files themselves so atomic saves (write to temp, rename) are seen.
func New(files []string, logger zerolog.Logger) (*Watcher, error) {
	w := &Watcher{files: make(map[string]bool, len(files)), logger: logger, debounce: DefaultDebounce}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("absolute path: %w", err)
		}
		w.files[abs] = true
	}
	return w, nil
}

// Run blocks until ctx is done, calling onChange for each changed file.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dirs := map[string]bool{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		w.logger.Debug().Str("dir", d).Msg("watching directory")
	}

	pending := map[string]bool{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", abs).
				Msg("file changed")
			pending[abs] = true
			timer.Reset(w.debounce)
		case <-timer.C:
			for p := range pending {
				onChange(p)
				delete(pending, p)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("file watcher error")
		}
	}
}
