package app

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/searchktools/zzz/config"
	"github.com/searchktools/zzz/core"
	"github.com/searchktools/zzz/core/middleware"
	"github.com/searchktools/zzz/core/pools"
)

// App wires a Config to an Engine and owns the process-level concerns
// around it: GC tuning applied once at startup, signal-triggered shutdown,
// and a handful of knobs that are reasonable to tune without a restart.
type App struct {
	cfg     *config.Config
	engine  *core.Engine
	dynamic *config.Manager
}

// New builds an Engine from cfg and wraps it. Dynamic knobs (currently just
// a global rate limit) are seeded from ZZZ_-prefixed environment variables,
// e.g. ZZZ_RATE_LIMIT_PER_SECOND.
func New(cfg *config.Config) *App {
	dynamic := config.NewManager()
	dynamic.LoadFromEnv("ZZZ_")
	return &App{cfg: cfg, engine: core.NewEngine(cfg), dynamic: dynamic}
}

// NewWithEngine wraps an already-constructed Engine, for callers that need
// to register routes against it before handing it to App.
func NewWithEngine(cfg *config.Config, engine *core.Engine) *App {
	dynamic := config.NewManager()
	dynamic.LoadFromEnv("ZZZ_")
	return &App{cfg: cfg, engine: engine, dynamic: dynamic}
}

// Engine returns the underlying engine for route registration.
func (a *App) Engine() *core.Engine {
	return a.engine
}

// Dynamic returns the runtime-tunable configuration store, for callers that
// want to read or override knobs (or register a Watch callback) alongside
// the ones App itself applies.
func (a *App) Dynamic() *config.Manager {
	return a.dynamic
}

// Run applies GC tuning, registers any dynamic middleware the environment
// asked for, starts listening on cfg.Addr, and blocks until a SIGINT/SIGTERM
// triggers a graceful shutdown.
func (a *App) Run() {
	pools.ApplyGCConfig(pools.DefaultGCConfig())

	if rps := a.dynamic.GetInt("rate.limit.per.second", 0); rps > 0 {
		a.engine.Use("/", middleware.RateLimiter(rps))
	}

	go a.awaitSignal()

	log.Printf("zzz: listening on %s", a.cfg.Addr)
	if err := a.engine.Run(); err != nil {
		log.Fatalf("zzz: server startup failed: %v", err)
	}
}

func (a *App) awaitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("zzz: signal %v received, shutting down", sig)
	a.engine.Close()
	os.Exit(0)
}
