// Package watch notices manifest drops in the bridge directory. The
// reconciliation passes themselves stay synchronous; the watcher is only
// the doorbell that tells a host an inbound manifest arrived.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/meshbridge/meshbridge/pkg/errors"
	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/manifest"
)

// Options holds options for a watcher.
type Options struct {
	BridgeRoot string

	// OnManifest is invoked with the manifest path after a write to the
	// inbound manifest settles.
	OnManifest func(path string)

	// Debounce is how long writes must settle before OnManifest fires;
	// producers write manifests in several chunks. Defaults to 500ms.
	Debounce time.Duration
}

// Watcher watches the bridge root for inbound manifest writes.
type Watcher struct {
	opts    Options
	watcher *fsnotify.Watcher
	done    chan struct{}
	logger  zerolog.Logger
}

// New creates a watcher on the bridge root.
func New(opts Options) (*Watcher, error) {
	if opts.BridgeRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "bridge root is not configured")
	}
	if opts.OnManifest == nil {
		return nil, errors.New(errors.ErrInvalidInput, "watcher needs an OnManifest callback")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create filesystem watcher")
	}
	if err := fsWatch.Add(opts.BridgeRoot); err != nil {
		fsWatch.Close()
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot watch %s", opts.BridgeRoot)
	}

	return &Watcher{
		opts:    opts,
		watcher: fsWatch,
		done:    make(chan struct{}),
		logger:  logging.GetLogger("watch"),
	}, nil
}

// Run blocks, dispatching debounced manifest notifications until Close
// is called.
func (w *Watcher) Run() error {
	var pending string
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isManifestWrite(event) {
				continue
			}
			w.logger.Debug().Str("path", event.Name).Msg("Manifest write observed")
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			w.logger.Info().Str("path", pending).Msg("Inbound manifest settled")
			w.opts.OnManifest(pending)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watcher error")

		case <-w.done:
			return nil
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func isManifestWrite(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return false
	}
	base := filepath.Base(event.Name)
	return base == manifest.FileFromDCC || base == manifest.FileLegacy
}
