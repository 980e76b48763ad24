// Package preview serves one generated target locally and regenerates it when
// site sources change.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pvlsite/internal/logfields"
	"git.home.luguber.info/inful/pvlsite/internal/metrics"
)

// DebounceInterval is how long the watcher waits for further changes before rebuilding.
const DebounceInterval = 300 * time.Millisecond

// BuildFunc regenerates the previewed target and returns an id for the new build.
type BuildFunc func(ctx context.Context) (string, error)

// Options configures a preview server.
type Options struct {
	// Root is the site root to watch.
	Root string
	// OutputDir is the generated target served over HTTP.
	OutputDir string
	// Ignore lists directories under Root whose changes never trigger a rebuild,
	// typically every output target.
	Ignore []string
	Port   int
	Build  BuildFunc
	// Registry, when set, is exposed at /metrics.
	Registry *prom.Registry
}

// buildStatus tracks the current build state for error display.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) getStatus() (hasGoodBuild bool, err error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.hasGoodBuild, bs.lastError
}

// Run builds the site, serves it and rebuilds on change until ctx is canceled.
func Run(ctx context.Context, opts Options) error {
	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return fmt.Errorf("resolve site root: %w", err)
	}
	opts.Root = absRoot

	status := &buildStatus{}
	hub := NewLiveReloadHub()
	rebuild(ctx, opts.Build, status, hub)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", opts.Port, err)
	}
	srv := &http.Server{Handler: newHandler(opts, status, hub), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server failed", logfields.Error(err))
		}
	}()
	slog.Info("Preview server listening", "port", opts.Port, "url", fmt.Sprintf("http://localhost:%d", opts.Port))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	ignored := ignoredDirs(opts)
	addDirsRecursive(watcher, opts.Root, ignored)

	rebuildReq, trigger := setupRebuildDebouncer(DebounceInterval)
	startRebuildWorker(ctx, opts.Build, status, hub, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return shutdown(srv, hub)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, ignored, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func ignoredDirs(opts Options) []string {
	dirs := []string{filepath.Join(opts.Root, ".git")}
	for _, d := range append([]string{opts.OutputDir}, opts.Ignore...) {
		if d == "" {
			continue
		}
		if !filepath.IsAbs(d) {
			d = filepath.Join(opts.Root, d)
		}
		dirs = append(dirs, filepath.Clean(d))
	}
	return dirs
}

func shutdown(srv *http.Server, hub *LiveReloadHub) error {
	slog.Info("Shutting down preview server...")
	hub.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}

// newHandler serves the output directory with caching disabled and the live
// reload script injected into HTML pages. While the last build failed, pages are
// replaced by an error report.
func newHandler(opts Options, status *buildStatus, hub *LiveReloadHub) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/livereload", hub)
	mux.HandleFunc("/livereload.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write([]byte(LiveReloadScript))
	})
	if opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(opts.Registry))
	}

	files := http.FileServer(http.Dir(opts.OutputDir))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		if good, err := status.getStatus(); err != nil || !good {
			writeBuildError(w, err)
			return
		}
		path := r.URL.Path
		if strings.HasSuffix(path, "/") {
			path += "index.html"
		}
		if !strings.HasSuffix(path, ".html") {
			files.ServeHTTP(w, r)
			return
		}
		// #nosec G304 -- path is cleaned and resolved under the output directory.
		data, err := os.ReadFile(filepath.Join(opts.OutputDir, filepath.FromSlash(filepath.Clean("/"+path))))
		if err != nil {
			files.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(injectReloadScript(data))
	})
	return mux
}

func writeBuildError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	msg := "no successful build yet"
	if err != nil {
		msg = err.Error()
	}
	_, _ = fmt.Fprintf(w, "<!DOCTYPE html><html><body><h1>Build failed</h1><pre>%s</pre><script src=\"/livereload.js\"></script></body></html>",
		strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(msg))
}

var reloadTag = []byte(`<script src="/livereload.js"></script>`)

func injectReloadScript(page []byte) []byte {
	idx := bytes.LastIndex(page, []byte("</body>"))
	if idx < 0 {
		return append(page, reloadTag...)
	}
	out := make([]byte, 0, len(page)+len(reloadTag))
	out = append(out, page[:idx]...)
	out = append(out, reloadTag...)
	return append(out, page[idx:]...)
}

// setupRebuildDebouncer creates rebuild channel and trigger function with debouncing.
func setupRebuildDebouncer(interval time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(interval, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	return rebuildReq, trigger
}

// startRebuildWorker processes rebuild requests one at a time. Requests arriving
// during a build collapse into one follow-up build.
func startRebuildWorker(ctx context.Context, build BuildFunc, status *buildStatus, hub *LiveReloadHub, rebuildReq chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				slog.Info("Change detected; rebuilding site")
				rebuild(ctx, build, status, hub)
			}
		}
	}()
}

func rebuild(ctx context.Context, build BuildFunc, status *buildStatus, hub *LiveReloadHub) {
	start := time.Now()
	id, err := build(ctx)
	if err != nil {
		slog.Warn("rebuild failed", logfields.Error(err))
		status.setError(err)
		hub.Broadcast(fmt.Sprintf("error-%d", time.Now().UnixNano()))
		return
	}
	status.setSuccess()
	hub.Broadcast(id)
	slog.Info("Site rebuilt", logfields.BuildID(id), logfields.Since(start))
}

// handleFileEvent processes a filesystem event and triggers rebuild if needed.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, ignored []string, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || underAny(ev.Name, ignored) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(watcher, ev.Name, ignored)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string, ignored []string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if underAny(path, ignored) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func underAny(path string, dirs []string) bool {
	for _, d := range dirs {
		rel, err := filepath.Rel(d, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// .env files configure integration ids and do trigger rebuilds.
	if strings.HasPrefix(base, ".env") {
		return false
	}
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db" || base == "4913"
}
