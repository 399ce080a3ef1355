package watch

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mic-monitor/mic-monitor/internal/models"
)

// Defaults for DeviceWatcher.
const (
	DefaultDeviceDir       = "/dev/snd"
	DefaultDeviceDebounce  = 500 * time.Millisecond
	DefaultRefreshInterval = 30 * time.Second
)

// Refresher re-enumerates sources.
type Refresher interface {
	Refresh(ctx context.Context) models.Registry
}

// DeviceWatcher refreshes the registry when sound devices come and go.
type DeviceWatcher struct {
	Dir      string
	Debounce time.Duration
	Interval time.Duration

	refresher Refresher
}

// NewDeviceWatcher creates a DeviceWatcher with the default directory and
// timings.
func NewDeviceWatcher(refresher Refresher) *DeviceWatcher {
	return &DeviceWatcher{
		Dir:       DefaultDeviceDir,
		Debounce:  DefaultDeviceDebounce,
		Interval:  DefaultRefreshInterval,
		refresher: refresher,
	}
}

// Run watches until ctx is cancelled. When the directory can't be watched
// only the periodic refresh runs.
func (w *DeviceWatcher) Run(ctx context.Context) {
	var events <-chan fsnotify.Event
	var errs <-chan error

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Warning: [watch] failed to create device watcher: %v", err)
	} else {
		defer func() { _ = fsw.Close() }()
		if err := fsw.Add(w.Dir); err != nil {
			log.Printf("Warning: [watch] failed to watch %s: %v", w.Dir, err)
		} else {
			events, errs = fsw.Events, fsw.Errors
		}
	}

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// The debounce timer only signals; the refresh runs on this goroutine so
	// none can start after Run returns.
	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce(), func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Printf("Warning: [watch] device watcher error: %v", err)
		case <-fire:
			log.Printf("[watch] sound devices changed, refreshing sources")
			w.refresher.Refresh(ctx)
		case <-ticker.C:
			w.refresher.Refresh(ctx)
		}
	}
}

func (w *DeviceWatcher) debounce() time.Duration {
	if w.Debounce <= 0 {
		return DefaultDeviceDebounce
	}
	return w.Debounce
}
