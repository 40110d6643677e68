// Package watch monitors a robot's mate view documents and re-runs the
// name-universe diagnostics whenever one of them changes. It never mutates
// anything; it exists so an editing session in Onshape can be checked for
// consistency as exports land on disk.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"robomend/internal/docio"
	"robomend/internal/logging"
	"robomend/internal/mates"
)

// Report is one diagnostics pass over the current documents.
type Report struct {
	Universe        *mates.NameUniverse
	Inconsistencies []mates.Inconsistency
	Err             error
	At              time.Time
}

// Watcher re-extracts the name universe on document writes, debounced so a
// burst of saves produces one report.
type Watcher struct {
	rd       *docio.RobotDir
	watcher  *fsnotify.Watcher
	reports  chan Report
	debounce time.Duration

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New builds a watcher over the robot directory. Reports arrive on
// Reports(); Close releases the watch goroutine.
func New(rd *docio.RobotDir) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		rd:       rd,
		watcher:  fw,
		reports:  make(chan Report, 4),
		debounce: 500 * time.Millisecond, // Collapse rapid saves
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Reports returns the channel diagnostics passes are delivered on.
func (w *Watcher) Reports() <-chan Report {
	return w.reports
}

// Start begins watching the robot directory. Non-blocking; an initial
// report is emitted immediately so callers see the current state. When the
// directory cannot be watched, no goroutine is launched and Close remains
// safe to call.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(w.rd.Dir()); err != nil {
		return err
	}
	logging.Watch("watching %s", w.rd.Dir())

	w.running = true
	go w.run()
	return nil
}

// Close stops the watcher and waits for the goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	err := w.watcher.Close()
	<-w.doneCh
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	w.emit()

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logging.Watch("document event: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			w.emit()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Watch("watch error: %v", err)
		}
	}
}

// relevant filters events down to writes touching the three view files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Base(event.Name)
	for _, k := range mates.AllViews {
		if name == filepath.Base(w.rd.ViewPath(k)) {
			return true
		}
	}
	return false
}

func (w *Watcher) emit() {
	views := w.rd.LoadViews()
	universe, diags, err := mates.Extract(views)
	report := Report{Universe: universe, Err: err, At: time.Now()}
	if err == nil {
		report.Inconsistencies = append(diags, mates.Diagnose(universe)...)
	}

	select {
	case w.reports <- report:
	default:
		// Drop if the consumer is behind; the next event re-emits.
	}
}
