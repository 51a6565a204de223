package scripting

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher reports changed script and scene files under a set of
// directories. A path arrives on Events once its file has seen no change
// for 100ms, so a burst of writes is reported once, after the last write.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once the run
// goroutine has exited.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

// Drain returns every path queued so far without blocking.
func (w *Watcher) Drain() []string {
	var paths []string
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return paths
			}
			paths = append(paths, path)
		default:
			return paths
		}
	}
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	// A path is reported once it has been quiet for the debounce window, so
	// a save made of several writes is seen after the last one.
	pending := make(map[string]time.Time)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !IsScriptFile(event.Name) && !IsSceneFile(event.Name) {
				continue
			}
			// New deadlines are never earlier than queued ones, so the timer
			// only needs arming when nothing is queued.
			if len(pending) == 0 {
				timer.Reset(debounce)
			}
			pending[event.Name] = time.Now().Add(debounce)
		case <-timer.C:
			now := time.Now()
			var ready []string
			var next time.Duration
			for path, at := range pending {
				if wait := at.Sub(now); wait > 0 {
					if next == 0 || wait < next {
						next = wait
					}
					continue
				}
				ready = append(ready, path)
			}
			sort.Strings(ready)
			for _, path := range ready {
				delete(pending, path)
				select {
				case w.Events <- path:
				case <-w.closeCh:
					return
				}
			}
			if next > 0 {
				timer.Reset(next)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func IsSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func IsScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".lua"
}
