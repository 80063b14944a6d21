package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"battlemap/internal/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// HotReloader watches the running binary and calls back once a newer build
// replaces it. Used during development to offer a restart after go build.
type HotReloader struct {
	execPath    string
	mu          sync.Mutex
	startupTime time.Time
	watcher     *fsnotify.Watcher
	stopCh      chan struct{}
	doneCh      chan struct{}
	onNewBinary func()
	logger      zerolog.Logger
}

// NewHotReloader watches the current executable.
func NewHotReloader(logger zerolog.Logger) (*HotReloader, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	// go build writes a new file, so follow the symlink to the real one
	if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = realPath
	}
	return NewHotReloaderFor(execPath, logger)
}

// NewHotReloaderFor watches the file at path.
func NewHotReloaderFor(path string, logger zerolog.Logger) (*HotReloader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &HotReloader{
		execPath:    path,
		startupTime: info.ModTime(),
		logger:      logging.Component(logger, "hotreload"),
	}, nil
}

// OnNewBinary sets the callback for a detected rebuild. It runs on the
// watcher goroutine.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.mu.Lock()
	h.onNewBinary = callback
	h.mu.Unlock()
}

// Start begins watching. The directory is watched rather than the file
// because a rebuild replaces the file instead of writing into it.
func (h *HotReloader) Start() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(h.execPath)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(h.execPath), err)
	}
	h.watcher = w
	h.stopCh = make(chan struct{})
	h.doneCh = make(chan struct{})
	go h.watchLoop()
	h.logger.Debug().Str("path", h.execPath).Msg("watching binary")
	return nil
}

// Stop stops the watcher and waits for its goroutine.
func (h *HotReloader) Stop() {
	if h.watcher == nil {
		return
	}
	close(h.stopCh)
	h.watcher.Close()
	<-h.doneCh
	h.watcher = nil
}

func (h *HotReloader) watchLoop() {
	defer close(h.doneCh)
	for {
		select {
		case <-h.stopCh:
			return
		case ev, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != h.execPath {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if h.checkForUpdate() {
				h.logger.Info().Str("path", h.execPath).Msg("new binary detected")
				h.mu.Lock()
				cb := h.onNewBinary
				h.mu.Unlock()
				if cb != nil {
					cb()
				}
			}
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Warn().Err(err).Msg("watch error")
		}
	}
}

// checkForUpdate reports whether the binary is newer than the baseline.
func (h *HotReloader) checkForUpdate() bool {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !info.ModTime().After(h.startupTime) {
		return false
	}
	// report each build once
	h.startupTime = info.ModTime()
	return true
}

// ExecPath returns the watched path.
func (h *HotReloader) ExecPath() string {
	return h.execPath
}

// Restart replaces the current process with the new binary. It does not
// return on success.
func (h *HotReloader) Restart() error {
	return RestartProcess(h.execPath)
}

// RestartProcess execs execPath with the current arguments and environment.
func RestartProcess(execPath string) error {
	return syscall.Exec(execPath, os.Args, os.Environ())
}
