package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cuemby/nurseduty/pkg/events"
	"github.com/cuemby/nurseduty/pkg/log"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reports changes to document files in a data directory, including
// edits made outside the server. Writes made by the store show up too, since
// they land as a rename into place.
type Watcher struct {
	dir       string
	fsw       *fsnotify.Watcher
	publisher events.Publisher
	logger    zerolog.Logger
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewWatcher starts watching dir, creating it if needed
func NewWatcher(dir string, publisher events.Publisher) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if publisher == nil {
		publisher = events.Discard
	}
	return &Watcher{
		dir:       dir,
		fsw:       fsw,
		publisher: publisher,
		logger:    log.WithComponent("watcher"),
		stopCh:    make(chan struct{}),
	}, nil
}

// Start begins forwarding file events
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop stops the watcher and waits for it to exit
func (w *Watcher) Stop() error {
	close(w.stopCh)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watch error")
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, documentExt) {
		return
	}

	var op string
	switch {
	case ev.Has(fsnotify.Create):
		op = "create"
	case ev.Has(fsnotify.Write):
		op = "write"
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		op = "remove"
	default:
		return
	}

	collection := strings.TrimSuffix(name, documentExt)
	w.logger.Debug().Str("collection", collection).Str("op", op).Msg("document file changed")
	w.publisher.Publish(&events.Event{
		Type:       events.EventDocumentChanged,
		Collection: collection,
		Message:    "document file changed",
		Metadata:   map[string]string{"op": op, "path": ev.Name},
	})
}
