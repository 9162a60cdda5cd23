// Package library loads the omnils cache files an R session writes
// into a SQLite-backed completion index and keeps the index fresh as
// the files are rewritten.
package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/rmatch/internal/match"
)

// pkgDescFile is the tab-separated package description file the R
// session keeps next to the omnils files.
const pkgDescFile = "pkg_descriptions"

// Library couples an omnils cache directory with the index store and
// the entry builder.
type Library struct {
	dir     string
	builder *match.Builder
	store   *Store
}

// New returns a Library over the given cache directory.
func New(dir string, builder *match.Builder, store *Store) *Library {
	return &Library{dir: dir, builder: builder, store: store}
}

// LoadAll converts every omnils and pkg_descriptions file under the
// cache directory into the index. Files that fail to load are logged
// and skipped; one bad file should not empty the whole index.
func (l *Library) LoadAll() error {
	dirEntries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("read library dir: %w", err)
	}

	loaded := 0
	for _, de := range dirEntries {
		if de.IsDir() || !isCacheFile(de.Name()) {
			continue
		}
		if err := l.loadFile(de.Name()); err != nil {
			log.Warn().Err(err).Str("file", de.Name()).Msg("skipping cache file")
			continue
		}
		loaded++
	}

	log.Info().Int("files", loaded).Str("dir", l.dir).Msg("library loaded")
	return nil
}

// loadFile reads one cache file and replaces its slice of the index.
func (l *Library) loadFile(name string) error {
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	lines := strings.Split(string(data), "\n")
	var entries []match.Entry
	if name == pkgDescFile {
		entries = l.builder.FromPkgDesc(lines)
	} else {
		entries = l.builder.FromOmnils(lines)
	}

	if err := l.store.ReplaceSource(name, entries); err != nil {
		return err
	}

	log.Debug().Str("file", name).Int("entries", len(entries)).Msg("cache file indexed")
	return nil
}

// Watch reloads cache files as the R session rewrites them, until the
// context is cancelled. Removed files are dropped from the index.
func (l *Library) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch %s: %w", l.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if !isCacheFile(name) {
				continue
			}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if err := l.loadFile(name); err != nil {
					log.Warn().Err(err).Str("file", name).Msg("reload failed")
				}
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if err := l.store.ReplaceSource(name, nil); err != nil {
					log.Warn().Err(err).Str("file", name).Msg("drop failed")
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// isCacheFile reports whether name is a file the R session maintains in
// the completion cache directory.
func isCacheFile(name string) bool {
	return strings.HasPrefix(name, "omnils_") || name == pkgDescFile
}
