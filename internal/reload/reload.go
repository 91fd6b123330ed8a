// Package reload implements pullconfd's reload controller (spec.md §5:
// "serialized, at most one validation in flight, a subsequent SIGHUP
// enqueues a new reload after the current one completes"). SIGHUP is
// always wired; an fsnotify-based directory watch is additionally
// available, opt-in per SPEC_FULL.md §6's Open Question decision.
// Debouncing follows the shape of the teacher's
// services/trace/graph.FileWatcher: batch fsnotify events behind a
// timer, then collapse to a single trigger.
package reload

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pullconf/pullconf/internal/catalog"
	"github.com/pullconf/pullconf/internal/logging"
)

// Result is one reload attempt's outcome, handed to every registered
// Observer after Controller.reload runs.
type Result struct {
	At       time.Time
	Success  bool
	Clients  int
	Failures []error // per-client CompileError.Failures, empty on success
}

// Observer is notified after every reload attempt. Used to drive the
// optional sqlite audit sidecar and the /metrics reload counters without
// coupling this package to either.
type Observer func(Result)

// Controller owns the single serialized reload worker.
type Controller struct {
	resourceDir string
	store       *catalog.Store
	log         *logging.Logger
	observers   []Observer

	trigger chan struct{} // depth-1: coalesces bursts into one pending reload
	mu      sync.Mutex
}

// New returns a Controller that reloads resourceDir into store on trigger.
func New(resourceDir string, store *catalog.Store, log *logging.Logger) *Controller {
	return &Controller{
		resourceDir: resourceDir,
		store:       store,
		log:         log,
		trigger:     make(chan struct{}, 1),
	}
}

// OnResult registers an Observer. Must be called before Run.
func (c *Controller) OnResult(obs Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, obs)
}

// LoadOnce runs a single synchronous reload, for server boot (spec.md
// §5: "a server with an empty catalog store never serves 200s").
func (c *Controller) LoadOnce() Result {
	return c.reload()
}

// Run blocks handling SIGHUP and (if watch is true) fsnotify events on
// resourceDir until ctx is cancelled. Each signal or debounced batch of
// filesystem events enqueues at most one pending reload; a reload
// already in flight absorbs further triggers until it completes.
func (c *Controller) Run(ctx context.Context, watch bool) error {
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)

	var watcher *fsnotify.Watcher
	var fsEvents <-chan fsnotifyBatch
	if watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		watcher = w
		defer watcher.Close()
		if err := addRecursive(watcher, c.resourceDir); err != nil {
			return err
		}
		fsEvents = debounce(ctx, watcher, 200*time.Millisecond)
	}

	go c.worker(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sighup:
			c.enqueue()
		case <-fsEvents:
			c.enqueue()
		}
	}
}

// enqueue schedules a reload without blocking: if one is already
// pending, this is a no-op (the pending trigger will pick up whatever
// state the resource directory is in by the time it runs).
func (c *Controller) enqueue() {
	select {
	case c.trigger <- struct{}{}:
	default:
	}
}

func (c *Controller) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.trigger:
			c.reload()
		}
	}
}

func (c *Controller) reload() Result {
	result := Result{At: time.Now()}

	catalogs, err := catalog.Compile(c.resourceDir)
	if err != nil {
		if cerr, ok := err.(*catalog.CompileError); ok {
			result.Failures = cerr.Failures
		} else {
			result.Failures = []error{err}
		}
		if c.log != nil {
			c.log.Error("reload failed, keeping previously published catalog", "error", err, "failure_count", len(result.Failures))
		}
		c.notify(result)
		return result
	}

	c.store.Swap(catalogs)
	result.Success = true
	result.Clients = len(catalogs)
	if c.log != nil {
		c.log.Info("reload succeeded", "clients", result.Clients)
	}
	c.notify(result)
	return result
}

func (c *Controller) notify(r Result) {
	c.mu.Lock()
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()
	for _, obs := range observers {
		obs(r)
	}
}

type fsnotifyBatch struct{}

// addRecursive watches every directory under root, mirroring the
// teacher's FileWatcher.addRecursive.
func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// debounce batches fsnotify events (ignoring dotfiles and non-.toml
// noise) behind a quiet window, following the teacher's debounceLoop.
func debounce(ctx context.Context, w *fsnotify.Watcher, window time.Duration) <-chan fsnotifyBatch {
	out := make(chan fsnotifyBatch, 1)
	go func() {
		defer close(out)
		var timer *time.Timer
		var timerC <-chan time.Time
		pending := false

		flush := func() {
			if !pending {
				return
			}
			select {
			case out <- fsnotifyBatch{}:
			default:
			}
			pending = false
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						_ = w.Add(ev.Name)
					}
				}
				if shouldIgnore(ev.Name) {
					continue
				}
				pending = true
				if timer == nil {
					timer = time.NewTimer(window)
					timerC = timer.C
				} else {
					timer.Reset(window)
				}
			case <-timerC:
				flush()
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return out
}

func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	return !strings.HasSuffix(base, ".toml")
}
