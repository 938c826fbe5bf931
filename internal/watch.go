package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/ternlint/internal/types"
)

// SourceExt is the extension of the files the engine lints.
const SourceExt = ".cs"

// wait for a while after a change so that a burst of writes is linted once
const debounceDelay = 100 * time.Millisecond

// ReportFunc receives the result of re-linting a changed file.
type ReportFunc func(filename string, issues []tt.Issue, err error)

// Watch re-lints source files under dirs whenever they are written, until
// ctx is done. Directories created while watching are picked up.
func (e *Engine) Watch(ctx context.Context, dirs []string, report ReportFunc) error {
	e.watcherMu.Lock()
	if e.watching {
		e.watcherMu.Unlock()
		return fmt.Errorf("already watching")
	}
	e.watching = true
	e.watcherMu.Unlock()

	defer func() {
		e.watcherMu.Lock()
		e.watching = false
		e.watcherMu.Unlock()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := addTree(watcher, dir); err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	e.logger.Info("watching for changes", zap.Strings("dirs", dirs))

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		wg      sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			if t.Stop() {
				wg.Done()
			}
		}
		mu.Unlock()
		wg.Wait()
	}()

	schedule := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[name]; ok && t.Stop() {
			wg.Done()
		}
		wg.Add(1)
		var timer *time.Timer
		timer = time.AfterFunc(debounceDelay, func() {
			defer wg.Done()
			mu.Lock()
			if pending[name] == timer {
				delete(pending, name)
			}
			mu.Unlock()
			if ctx.Err() != nil {
				return
			}
			issues, err := e.RunContext(ctx, name)
			report(name, issues, err)
		})
		pending[name] = timer
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			e.handleFileEvent(watcher, event, schedule)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(watcher *fsnotify.Watcher, event fsnotify.Event, schedule func(string)) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(watcher, event.Name); err != nil {
				e.logger.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !strings.HasSuffix(event.Name, SourceExt) || e.isIgnoredPath(event.Name) {
		return
	}
	e.logger.Debug("file changed", zap.String("file", event.Name))
	schedule(event.Name)
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
