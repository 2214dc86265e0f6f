package config

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Manager holds the current Config and reloads it on file change. It
// mirrors the teacher's license-file watcher: fsnotify when available,
// plus an always-on slow poll as a safety net in case the watch itself
// silently stops delivering events.
type Manager struct {
	path string

	mu  sync.RWMutex
	cur Config
}

func NewManager(path string) (*Manager, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Manager{path: path, cur: cfg}, nil
}

// Current returns the most recently loaded config. Safe for concurrent use.
func (m *Manager) Current() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Watch starts the fsnotify watch (skipped if it cannot be established)
// and a 60s poll that always runs, both until ctx is cancelled.
func (m *Manager) Watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	usePolling := false

	if err != nil {
		log.Printf("config: fsnotify unavailable (%v), falling back to polling", err)
		usePolling = true
	} else if err := watcher.Add(m.path); err != nil {
		log.Printf("config: failed to watch %s (%v), falling back to polling", m.path, err)
		usePolling = true
		watcher.Close()
	}

	if !usePolling {
		go func() {
			defer watcher.Close()
			for {
				select {
				case <-ctx.Done():
					return
				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
						time.Sleep(100 * time.Millisecond) // debounce editors that write in two steps
						m.reload()
					}
				case werr, ok := <-watcher.Errors:
					if !ok {
						return
					}
					log.Printf("config: watch error: %v", werr)
				}
			}
		}()
	}

	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.reload()
			}
		}
	}()
}

// Reload forces an immediate re-read of the config file, bypassing the
// watch/poll schedule. No HTTP route calls it.
func (m *Manager) Reload() {
	m.reload()
}

func (m *Manager) reload() {
	cfg, err := Load(m.path)
	if err != nil {
		log.Printf("config: reload of %s failed, keeping previous config: %v", m.path, err)
		return
	}
	m.mu.Lock()
	m.cur = cfg
	m.mu.Unlock()
	log.Printf("config: reloaded %s", m.path)
}
