package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"monolift/src/config"
	"monolift/src/controller"
	"monolift/src/dispatcher"
	"monolift/src/server"
	"monolift/src/store"
)

func main() {
	addr := flag.String("addr", config.DefaultListenAddr, "HTTP listen address")
	storeKind := flag.String("store", "memory", "state store backend: memory or redis")
	redisAddr := flag.String("redis", config.DefaultRedisAddr, "redis address for -store redis")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	initLogger(*verbose)

	st, err := openStore(*storeKind, *redisAddr)
	if err != nil {
		slog.Error("Opening state store", "error", err)
		os.Exit(1)
	}

	disp := dispatcher.New(st, config.DefaultDispatch())
	ctrl := controller.New(st, disp)
	srv := &http.Server{
		Addr:    *addr,
		Handler: server.New(ctrl, disp).Router(),
	}

	disp.Start()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Elevator service listening", "addr", *addr, "store", *storeKind)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("Shutting down", "signal", sig)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown", "error", err)
	}
	if disp.Stop() {
		// The tick in progress finishes its travel and door dwell first.
		select {
		case <-disp.Done():
		case <-shutdownCtx.Done():
			slog.Warn("Dispatch loop did not stop in time")
		}
	}
}

func openStore(kind, redisAddr string) (store.Store, error) {
	switch kind {
	case "memory":
		return store.NewMemStore(), nil
	case "redis":
		rs := store.NewRedisStore(redis.NewClient(&redis.Options{Addr: redisAddr}))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis at %s: %w", redisAddr, err)
		}
		return rs, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", kind)
}

// initLogger sets up global logging with a compact time format and
// file:line source locations.
func initLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("15:04:05"))
				}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					file := source.File
					if lastSlash := strings.LastIndexByte(file, '/'); lastSlash >= 0 {
						file = file[lastSlash+1:]
					}
					a.Value = slog.StringValue(fmt.Sprintf("%s:%d", file, source.Line))
				}
			}
			return a
		},
	})
	slog.SetDefault(slog.New(handler))
}
