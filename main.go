package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/andrewpaige1/flashlearn/config"
	"github.com/andrewpaige1/flashlearn/handlers"
	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/middleware"
	"github.com/andrewpaige1/flashlearn/offline"
	"github.com/andrewpaige1/flashlearn/progress"
	"github.com/andrewpaige1/flashlearn/replay"
	"github.com/andrewpaige1/flashlearn/storage"
	"github.com/andrewpaige1/flashlearn/web"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("FLASHLEARN_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: .env file could not be loaded: %v", err)
		}
	}
}

const usage = `usage: flashlearn [serve|tui|import|token|sync|seed] [flags]`

func main() {
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "serve":
		err = runServe(ctx, args)
	case "tui":
		err = runTUI(ctx, args)
	case "import":
		err = runImport(ctx, args)
	case "token":
		err = runToken(args)
	case "sync":
		err = runSync(ctx, args)
	case "seed":
		err = runSeed(ctx, args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "flashlearn %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

// app holds the services every subcommand shares.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	repo     *storage.Repository
	recorder *progress.Recorder
	queue    *offline.Queue
	close    func() error
}

func newApp(ctx context.Context, log *logger.Logger) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if log == nil {
		if log, err = logger.New(cfg.LogMode); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	store, closeStore, err := config.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	repo := storage.NewRepository(store, log)
	recorder := progress.NewRecorder(repo, log, nil)

	dispatcher := offline.NewDispatcher()
	replay.NewHandlers(repo, recorder, log).Register(dispatcher)

	return &app{
		cfg:      cfg,
		log:      log,
		repo:     repo,
		recorder: recorder,
		queue:    offline.NewQueue(store, dispatcher, log),
		close:    closeStore,
	}, nil
}

func (a *app) shutdown() {
	if err := a.close(); err != nil {
		a.log.Warn("closing store", "error", err)
	}
	a.log.Sync()
}

func runServe(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments %v", args)
	}
	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.shutdown()
	cfg, log := a.cfg, a.log

	if cfg.SeedSample {
		if err := a.repo.InitializeSampleData(ctx); err != nil {
			log.Warn("seeding sample data failed", "error", err)
		}
	}

	bg := offline.NewBackgroundSync(a.queue, cfg.SyncInterval, log)
	if err := bg.Start(); err != nil {
		return err
	}
	defer bg.Stop()

	shell, err := newShell(ctx, cfg, log)
	if err != nil {
		return err
	}

	authMiddleware, err := middleware.EnsureValidToken(cfg, log)
	if err != nil {
		return err
	}

	h := &handlers.Handler{
		Repo:          a.repo,
		Recorder:      a.recorder,
		Queue:         a.queue,
		Sync:          bg,
		Log:           log,
		QuizTimeLimit: cfg.QuizTimeLimit(),
	}
	api := http.NewServeMux()
	h.Register(api)

	mux := http.NewServeMux()
	mux.Handle("/api/", authMiddleware(api))
	mux.Handle("GET /healthz", api)
	mux.HandleFunc("GET /sw.js", web.ServiceWorker)
	mux.Handle("/", shell)

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(middleware.RequestLogger(log)(mux))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "auth", cfg.AuthEnabled(), "store", cfg.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newShell installs and activates the offline shell over the embedded pages,
// or over SHELL_UPSTREAM when set.
func newShell(ctx context.Context, cfg *config.Config, log *logger.Logger) (*offline.Shell, error) {
	var network http.RoundTripper = offline.HandlerTransport{Handler: web.Handler()}
	if cfg.ShellUpstream != "" {
		t, err := offline.NewUpstreamTransport(cfg.ShellUpstream, nil)
		if err != nil {
			return nil, err
		}
		network = t
	}

	shell := offline.NewShell(cfg.CacheVersion, offline.NewCacheStorage(), network, log)
	if err := shell.Install(ctx); err != nil {
		return nil, fmt.Errorf("install offline shell: %w", err)
	}
	if removed := shell.Activate(); len(removed) > 0 {
		log.Info("removed stale caches", "caches", removed)
	}
	return shell, nil
}
