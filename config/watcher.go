package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher watches a configuration file for changes.
type Watcher struct {
	watcher   *fsnotify.Watcher
	path      string
	callbacks []func(string)
	mu        sync.RWMutex
	done      chan struct{}
	stopOnce  sync.Once
}

// NewWatcher creates a watcher for the file at path. The file's directory
// is watched, not the file, so editors that save by rename are seen.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewWatcher",
			"path":     dir,
			"error":    err.Error(),
		}).Error("Failed to watch directory")
		_ = w.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewWatcher",
		"path":     dir,
		"file":     filepath.Base(path),
	}).Debug("Watching directory for changes")

	return &Watcher{
		watcher: w,
		path:    filepath.Clean(path),
		done:    make(chan struct{}),
	}, nil
}

// OnChange registers a callback to be called when the watched file changes.
// The callback receives the path of the changed file.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start watches for changes until Stop is called.
func (w *Watcher) Start() {
	logrus.WithFields(logrus.Fields{
		"function": "Start",
		"file":     w.path,
	}).Info("Configuration watcher started")

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Only trigger on write or create events
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logrus.WithFields(logrus.Fields{
					"function": "Start",
					"file":     event.Name,
					"op":       event.Op.String(),
				}).Debug("Configuration file changed")
				w.notifyCallbacks(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logrus.WithFields(logrus.Fields{
				"function": "Start",
				"error":    err.Error(),
			}).Error("Configuration watcher error")
		case <-w.done:
			return
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		logrus.WithFields(logrus.Fields{
			"function": "Stop",
		}).Info("Configuration watcher stopped")
	})
	return err
}

func (w *Watcher) notifyCallbacks(path string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(path)
	}
}
