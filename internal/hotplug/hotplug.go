// Package hotplug reports serial ports appearing and disappearing.
//
// A Watcher re-lists ports whenever the platform's device directory changes
// (via fsnotify) and on a fixed polling interval, and emits the difference
// between consecutive listings.
package hotplug

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/allbin/go-serialport"
	"github.com/fsnotify/fsnotify"
)

// Kind tells whether a port arrived or left
type Kind int

const (
	Added Kind = iota
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a single port change
type Event struct {
	Kind Kind
	ID   serial.SerialID
}

// Diff compares two listings by key. Results keep the order of the listing
// they were taken from.
func Diff(prev, next []serial.SerialID) (added, removed []serial.SerialID) {
	before := make(map[serial.PortKey]struct{}, len(prev))
	for _, id := range prev {
		before[id.Key] = struct{}{}
	}
	after := make(map[serial.PortKey]struct{}, len(next))
	for _, id := range next {
		after[id.Key] = struct{}{}
		if _, ok := before[id.Key]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if _, ok := after[id.Key]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// Watcher polls and watches for port changes
type Watcher struct {
	dir      string
	interval time.Duration
	list     func() []serial.SerialID
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDir overrides the directory watched for changes. An empty dir
// disables filesystem notifications.
func WithDir(dir string) Option {
	return func(w *Watcher) { w.dir = dir }
}

// WithInterval sets the polling interval
func WithInterval(interval time.Duration) Option {
	return func(w *Watcher) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// WithLister replaces serial.List as the source of listings
func WithLister(list func() []serial.SerialID) Option {
	return func(w *Watcher) { w.list = list }
}

// New creates a Watcher for the platform's device directory
func New(opts ...Option) *Watcher {
	w := &Watcher{
		dir:      serial.WatchDir(),
		interval: 2 * time.Second,
		list:     serial.List,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch takes an initial listing and starts reporting changes against it.
// The returned channel is closed once ctx is done. Ports present at start
// are returned as the initial listing, not as events.
func (w *Watcher) Watch(ctx context.Context) ([]serial.SerialID, <-chan Event, error) {
	var notify *fsnotify.Watcher
	watching := false
	if w.dir != "" {
		var err error
		notify, err = fsnotify.NewWatcher()
		if err != nil {
			return nil, nil, err
		}
		watching = notify.Add(w.dir) == nil
	}

	current := w.list()
	events := make(chan Event)

	go w.run(ctx, notify, watching, current, events)
	return current, events, nil
}

func (w *Watcher) run(ctx context.Context, notify *fsnotify.Watcher, watching bool, current []serial.SerialID, events chan<- Event) {
	defer close(events)

	var fsEvents <-chan fsnotify.Event
	var fsErrors <-chan error
	if notify != nil {
		defer notify.Close()
		fsEvents = notify.Events
		fsErrors = notify.Errors
	}

	// The by-path directory only exists while a device is attached, so the
	// watch is re-established from the polling loop
	addWatch := func() {
		if notify == nil || watching {
			return
		}
		watching = notify.Add(w.dir) == nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if ev.Name == w.dir && ev.Has(fsnotify.Remove) {
				watching = false
			}
		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) || errors.Is(err, os.ErrNotExist) {
				watching = false
			}
		case <-ticker.C:
			addWatch()
		}

		next := w.list()
		added, removed := Diff(current, next)
		current = next

		for _, id := range removed {
			if !send(ctx, events, Event{Kind: Removed, ID: id}) {
				return
			}
		}
		for _, id := range added {
			if !send(ctx, events, Event{Kind: Added, ID: id}) {
				return
			}
		}
	}
}

func send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
