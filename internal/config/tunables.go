package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Tunables is the flat key-value blob designers adjust between runs:
// speeds, radii, durations. Values are plain JSON scalars. Reads are safe
// from any goroutine; a reload swaps the whole map at once so readers
// never observe a half-applied file.
type Tunables struct {
	path string

	mu     sync.RWMutex
	values map[string]any
}

// LoadTunables reads the tunables blob. A missing file yields an empty
// set; every getter then falls back to its default.
func LoadTunables(path string) (*Tunables, error) {
	t := &Tunables{path: path, values: map[string]any{}}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload re-reads the backing file and swaps the value set.
func (t *Tunables) Reload() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading tunables %s: %w", t.path, err)
	}

	fresh := map[string]any{}
	if err := json.Unmarshal(data, &fresh); err != nil {
		return fmt.Errorf("parsing tunables %s: %w", t.path, err)
	}

	t.mu.Lock()
	t.values = fresh
	t.mu.Unlock()
	return nil
}

// Save writes the current value set back to the backing file.
func (t *Tunables) Save() error {
	t.mu.RLock()
	data, err := json.MarshalIndent(t.values, "", "  ")
	t.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encoding tunables: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("writing tunables %s: %w", t.path, err)
	}
	return nil
}

// Float returns the value for key, or def when absent or not a number.
func (t *Tunables) Float(key string, def float64) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.values[key].(float64); ok {
		return v
	}
	return def
}

// Bool returns the value for key, or def when absent or not a bool.
func (t *Tunables) Bool(key string, def bool) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.values[key].(bool); ok {
		return v
	}
	return def
}

// String returns the value for key, or def when absent or not a string.
func (t *Tunables) String(key string, def string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.values[key].(string); ok {
		return v
	}
	return def
}

// Set stores one value. Save persists it.
func (t *Tunables) Set(key string, value any) {
	t.mu.Lock()
	t.values[key] = value
	t.mu.Unlock()
}

// All returns a copy of the current value set.
func (t *Tunables) All() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]any, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// Watch blocks reloading the tunables whenever the backing file changes,
// until ctx is canceled. onReload, if set, runs after each successful
// reload. The parent directory is watched so editor save-via-rename is
// caught too.
func (t *Tunables) Watch(ctx context.Context, onReload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating tunables watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(t.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target, err := filepath.Abs(t.path)
	if err != nil {
		return fmt.Errorf("resolving tunables path: %w", err)
	}

	slog.Info("tunables watcher started", "path", t.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := t.Reload(); err != nil {
				slog.Warn("tunables reload failed", "error", err)
				continue
			}
			slog.Info("tunables reloaded", "path", t.path)
			if onReload != nil {
				onReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("tunables watcher error", "error", err)
		}
	}
}
