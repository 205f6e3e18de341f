package gwserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/edgefn/model-gateway/internal/config"
	"github.com/edgefn/model-gateway/internal/metrics"
	"github.com/edgefn/model-gateway/internal/ratelimit"
	"github.com/edgefn/model-gateway/internal/routes"
	"github.com/edgefn/model-gateway/internal/upstream"
)

func Run(cfgPath string) error {
	startedAt := time.Now().Unix()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	accessLogger, accessClose, accessColor, err := openAccessLogger(cfg)
	if err != nil {
		return fmt.Errorf("init access log: %w", err)
	}
	if accessClose != nil {
		defer func() { _ = accessClose.Close() }()
	}

	pidCleanup, err := writePIDFile(cfg)
	if err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if pidCleanup != nil {
		defer func() { _ = pidCleanup.Close() }()
	}

	tbl, err := routes.Load(cfg.Routes.File)
	if err != nil {
		return fmt.Errorf("load routes file %q: %w", cfg.Routes.File, err)
	}

	limiter := ratelimit.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = limiter.Close() }()

	writeTimeout := time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond
	uclient := &upstream.Client{
		HTTP: &http.Client{Timeout: writeTimeout},
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	st := &state{table: tbl}
	st.SetStartedAtUnix(startedAt)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	installReloadSignalHandler(ctx, cfg, st)

	engine := NewRouter(cfg, st, limiter, m, uclient, accessLogger, accessColor)
	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: writeTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("model-gateway listening on %s (routes=%d)", cfg.Server.Listen, tbl.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	if cfg.Routes.Watch {
		g.Go(func() error { return watchRoutesFile(ctx, cfg, st) })
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func reloadTable(cfg *config.Config, st *state) error {
	tbl, err := routes.Load(cfg.Routes.File)
	if err != nil {
		return fmt.Errorf("reload routes file %q: %w", cfg.Routes.File, err)
	}
	st.SetTable(tbl)
	log.Printf("reload ok routes=%d", tbl.Len())
	return nil
}

func installReloadSignalHandler(ctx context.Context, cfg *config.Config, st *state) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-ctx.Done():
				signal.Stop(ch)
				return
			case <-ch:
				if err := reloadTable(cfg, st); err != nil {
					log.Printf("reload failed: %v", err)
				}
			}
		}
	}()
}

// watchRoutesFile reloads the route table when the routes file
// changes. Editors replace files instead of writing in place, so the
// watch is on the parent directory.
func watchRoutesFile(ctx context.Context, cfg *config.Config, st *state) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("routes watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(cfg.Routes.File)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %q: %w", filepath.Dir(target), err)
	}

	// debounce bursts of events from a single save
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !sameFile(ev.Name, target) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(200 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("routes watcher error: %v", err)
		case <-pending:
			pending = nil
			if err := reloadTable(cfg, st); err != nil {
				log.Printf("reload failed: %v", err)
			}
		}
	}
}

func sameFile(a, b string) bool {
	aa, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	return aa == b
}

func openAccessLogger(cfg *config.Config) (*log.Logger, io.Closer, bool, error) {
	if cfg == nil || !cfg.Logging.AccessLog {
		return nil, nil, false, nil
	}

	path := strings.TrimSpace(cfg.Logging.AccessLogPath)
	if path == "" {
		return log.New(os.Stdout, "", log.LstdFlags), nil, true, nil
	}

	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, false, err
		}
	}
	// #nosec G304 -- access_log_path comes from trusted config/env.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, false, err
	}
	return log.New(f, "", log.LstdFlags), f, false, nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func writePIDFile(cfg *config.Config) (io.Closer, error) {
	if cfg == nil {
		return nil, nil
	}
	path := strings.TrimSpace(cfg.Server.PidFile)
	if path == "" {
		return nil, nil
	}
	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	tmp := path + ".tmp"
	pid := strconv.Itoa(os.Getpid()) + "\n"
	// #nosec G304 -- pid_file comes from trusted config/env.
	if err := os.WriteFile(tmp, []byte(pid), 0o600); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	return closerFunc(func() error { return os.Remove(path) }), nil
}
