package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a fixed set of files. Directories are watched
// rather than the files themselves so editors that replace a file on save
// are still seen. Events for one path closer together than the debounce
// interval are dropped.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewWatcher(debounce time.Duration, files ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		watched[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		files:    watched,
		debounce: debounce,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher; Events and Errors are closed once it has.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := w.files[name]; !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[name] = now
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
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

// FileStamp identifies one version of a file on disk.
type FileStamp struct {
	ModTime time.Time
	Size    int64
}

func StampFile(path string) (FileStamp, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileStamp{}, err
	}
	return FileStamp{ModTime: fi.ModTime(), Size: fi.Size()}, nil
}

func (s FileStamp) Same(o FileStamp) bool {
	return s.Size == o.Size && s.ModTime.Equal(o.ModTime)
}

// WriteTracker remembers the version of each file this process last wrote,
// so watcher events caused by our own saves can be skipped.
type WriteTracker struct {
	mu     sync.Mutex
	stamps map[string]FileStamp
}

func NewWriteTracker() *WriteTracker {
	return &WriteTracker{stamps: make(map[string]FileStamp)}
}

// Wrote records the current version of path.
func (t *WriteTracker) Wrote(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	st, err := StampFile(abs)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.stamps[abs] = st
	t.mu.Unlock()
	return nil
}

// Changed reports whether path differs from the version recorded by Wrote.
// Files never written, or that can no longer be read, count as changed.
func (t *WriteTracker) Changed(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	t.mu.Lock()
	known, ok := t.stamps[abs]
	t.mu.Unlock()
	if !ok {
		return true
	}
	st, err := StampFile(abs)
	if err != nil {
		return true
	}
	return !st.Same(known)
}
