package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/chriserin/ftl/internal/loader"
	"github.com/chriserin/ftl/internal/logger"
	"github.com/chriserin/ftl/internal/messages"
)

// Change describes one handled file system event and the relink it caused.
type Change struct {
	Path    string
	Removed bool

	// Messages are the diagnostics from reloading Path.
	Messages []messages.CompilerMessage
	Report   *Report
}

// Watch watches paths for feature and interaction file changes until ctx is
// done. Each change reloads the affected source, relinks every file and is
// passed to notify. Directories created while watching are not followed.
func (p *Project) Watch(ctx context.Context, notify func(Change), paths ...string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	log := logger.WithPrefix("watch")
	for _, dir := range watchDirs(paths) {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		log.Debug("Watching", "path", dir)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			change, err := p.handle(ctx, ev)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				log.Error("Reload failed", "path", ev.Name, "error", err)
				continue
			}
			if change == nil {
				continue
			}
			log.Info("Relinked", "path", change.Path, "bound", change.Report.Bound, "unbound", change.Report.Unbound)
			if notify != nil {
				notify(*change)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", "error", err)
		}
	}
}

// handle applies one event. It returns nil for events that change nothing.
func (p *Project) handle(ctx context.Context, ev fsnotify.Event) (*Change, error) {
	ext := filepath.Ext(ev.Name)
	if ext != loader.FeatureExt && ext != loader.InteractionExt {
		return nil, nil
	}

	change := &Change{Path: ev.Name}
	gone := ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0
	changed := ev.Op&(fsnotify.Create|fsnotify.Write) != 0

	switch {
	case ext == loader.InteractionExt && (gone || changed):
		msgs, err := p.reloadInteractions()
		if err != nil {
			return nil, err
		}
		change.Messages = msgs
		change.Removed = gone
	case gone:
		if !p.RemoveFeature(ev.Name) {
			return nil, nil
		}
		change.Removed = true
	case changed:
		content, err := os.ReadFile(ev.Name)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("reading %s: %w", ev.Name, err)
		}
		msgs, err := p.AddFeature(ev.Name, content)
		if err != nil {
			return nil, err
		}
		change.Messages = msgs
	default:
		return nil, nil
	}

	report, err := p.LinkAll(ctx)
	if err != nil {
		return nil, err
	}
	change.Report = report
	return change, nil
}

// watchDirs returns every directory under paths. fsnotify watches are not
// recursive.
func watchDirs(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			path = filepath.Dir(path)
		}
		_ = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil || !fi.IsDir() {
				return nil
			}
			if clean := filepath.Clean(p); !seen[clean] {
				seen[clean] = true
				dirs = append(dirs, clean)
			}
			return nil
		})
	}
	return dirs
}
