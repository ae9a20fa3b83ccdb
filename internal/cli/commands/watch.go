package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/engine"
)

// watchDebounce collects bursts of events into one run.
const watchDebounce = 100 * time.Millisecond

// checkFunc checks the given files once.
type checkFunc func(ctx context.Context, files []string) error

// watch checks initial once, then checks changed files matching pats until
// ctx is cancelled. A changed .editorconfig checks every matching file again.
func watch(ctx context.Context, cmdCtx *CommandContext, pats patterns, run checkFunc, initial []engine.Source) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cmdCtx.Logger

	paths := make([]string, 0, len(initial))
	for _, src := range initial {
		paths = append(paths, src.Path)
	}
	if len(paths) > 0 {
		if err := run(ctx, paths); err != nil {
			return err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, pats.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", pats.dir, err)
	}
	_, _ = fmt.Fprintln(cmdCtx.Renderer.ErrWriter(), cmdCtx.Renderer.Muted("Watching "+pats.dir+" for changes, press Ctrl+C to stop"))

	var (
		pending  = make(map[string]bool)
		all      bool
		debounce <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDir(watcher, event.Name); err != nil {
						logger.Warn("failed to watch directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			switch {
			case filepath.Base(event.Name) == editorconfig.FileName:
				all = true
			case pats.Match(event.Name):
				pending[event.Name] = true
			default:
				continue
			}
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			files, err := changedFiles(pats, pending, all)
			clear(pending)
			all = false
			if err != nil {
				logger.Warn("failed to collect changed files", "error", err)
				continue
			}
			if len(files) == 0 {
				continue
			}
			logger.Debug("change detected", "files", len(files))
			if err := run(ctx, files); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func changedFiles(pats patterns, pending map[string]bool, all bool) ([]string, error) {
	if all {
		return pats.Expand()
	}
	files := make([]string, 0, len(pending))
	for path := range pending {
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files, nil
}

// watchDir adds dir and its subdirectories to watcher, skipping hidden
// directories and node_modules.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (d.Name() == "node_modules" || d.Name()[0] == '.') {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
