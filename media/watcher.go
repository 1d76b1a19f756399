// ABOUTME: Watches the asset directory for file changes
// ABOUTME: Changed files invalidate the probe cache and cached media elements

package media

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes an asset directory and reports changed files so the
// host can invalidate probed metadata and provisioned elements.
type Watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
}

// WatchAssets starts watching dir. onChange is called from the watcher
// goroutine with the path of every written, created, removed or renamed
// file. debugf may be nil.
func WatchAssets(dir string, onChange func(path string), debugf func(string, ...interface{})) (*Watcher, error) {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fw.Add(dir); err != nil {
		_ = fw.Close()

		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		fs:   fw,
		done: make(chan struct{}),
	}

	go func() {
		defer close(w.done)

		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}

				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					debugf("[media] asset changed: %s (%s)", ev.Name, ev.Op)
					onChange(ev.Name)
				}

			case err, ok := <-fw.Errors:
				if !ok {
					return
				}

				debugf("[media] watcher error: %v", err)
			}
		}
	}()

	return w, nil
}

// Close stops watching and waits for the event loop to exit
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done

	return err
}
