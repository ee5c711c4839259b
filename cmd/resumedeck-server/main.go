// ABOUTME: Main entry point for the resume service
// ABOUTME: Loads configuration and starts the WebSocket, HTTP and management servers

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harper/resumedeck/internal/config"
	"github.com/harper/resumedeck/internal/db"
	rderrors "github.com/harper/resumedeck/internal/errors"
	"github.com/harper/resumedeck/internal/events"
	rpchttp "github.com/harper/resumedeck/internal/http"
	"github.com/harper/resumedeck/internal/logger"
	"github.com/harper/resumedeck/internal/management"
	"github.com/harper/resumedeck/internal/resumes"
	"github.com/harper/resumedeck/internal/rpc"
	"github.com/harper/resumedeck/internal/storage"
	"github.com/harper/resumedeck/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults and RESUMEDECK_* env when empty)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if err := run(*configPath, *verbose); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(configPath string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.SetVerbose(verbose || cfg.Logging.Verbose)

	if dir, err := cfg.EnsureDirs(); err != nil {
		return rderrors.NewXDGPathError("XDG_DATA_HOME", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.AMQPURL != "" {
		p, err := events.DialAMQP(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			// events are best effort; the service works without a broker
			logger.Warn("events disabled: %v", err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	mgr := resumes.NewManager(resumes.ManagerConfig{
		PublicURL:      cfg.Server.PublicURL,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
	}, database, store, publisher)
	dispatcher := rpc.NewDispatcher(mgr)

	// base64 inflates uploads by 4/3; leave room for the envelope
	maxMessage := cfg.Uploads.MaxBytes*4/3 + 64*1024

	wsSrv := websocket.NewServer(dispatcher, maxMessage)
	wsMux := http.NewServeMux()
	wsMux.Handle("/ws", wsSrv)

	servers := []*http.Server{
		{Addr: fmt.Sprintf("%s:%d", cfg.Server.HTTPHost, cfg.Server.HTTPPort), Handler: rpchttp.NewServer(dispatcher, maxMessage)},
		{Addr: fmt.Sprintf("%s:%d", cfg.Server.WebSocketHost, cfg.Server.WebSocketPort), Handler: wsMux},
		{Addr: fmt.Sprintf("%s:%d", cfg.Server.ManagementHost, cfg.Server.ManagementPort), Handler: management.NewServer(cfg, database, mgr, wsSrv.Connections)},
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		srv.ReadHeaderTimeout = 10 * time.Second
		go func(srv *http.Server) {
			logger.Info("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	logger.Info("resume service ready: rpc=http://%s/rpc ws=ws://%s/ws files=%s/files",
		servers[0].Addr, servers[1].Addr, cfg.Server.PublicURL)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown %s: %v", srv.Addr, err)
		}
	}
	return runErr
}
