package graph

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lioia/corpus-pagerank/pkg/utils"
)

// Watcher signals on Changes whenever an HTML page of a corpus directory is
// written, created or removed. Bursts of events are coalesced.
type Watcher struct {
	Dir     string
	Changes <-chan struct{}

	changes chan struct{}
	done    chan struct{}
	stop    sync.Once
	watcher *fsnotify.Watcher
}

func NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan struct{}, 1)
	return &Watcher{
		Dir:     dir,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel. Later calls are no-ops.
func (w *Watcher) Stop() {
	w.stop.Do(func() {
		w.watcher.Close()
		<-w.done
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	const debounce = 100 * time.Millisecond
	var last time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !last.IsZero() {
					w.emit()
				}
				return
			}
			if !strings.HasSuffix(filepath.Base(event.Name), ".html") {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				last = time.Now()
			}
		case <-ticker.C:
			if !last.IsZero() && time.Since(last) >= debounce {
				w.emit()
				last = time.Time{}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			utils.WarnLog("watcher", "Watch error on %s: %v", w.Dir, err)
		}
	}
}

// emit never blocks: a pending signal already covers this change.
func (w *Watcher) emit() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
