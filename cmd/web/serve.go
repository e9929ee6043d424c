// cmd/web/serve.go

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/config"
	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/domain"
	"github.com/yanizio/linkbio/internal/events"
	"github.com/yanizio/linkbio/internal/middleware"
	"github.com/yanizio/linkbio/internal/ratelimit"
	"github.com/yanizio/linkbio/internal/requestinfo"
	"github.com/yanizio/linkbio/internal/server"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	log := zap.L()
	defer log.Sync() //nolint:errcheck

	//
	// ── 1.  Storage ─────────────────────────────────────────────────────
	//
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if migrateOnStart {
		if err := migrateAll(ctx, db); err != nil {
			return err
		}
	}

	//
	// ── 2.  Shared services ─────────────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.Geo.CityDB); err != nil {
		return fmt.Errorf("geoip: %w", err)
	}
	defer requestinfo.CloseGeo()

	pub, err := events.New(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	defer pub.Close()

	limiter, err := ratelimit.New(ctx, ratelimit.Options{
		Rate:          cfg.RateLimit.Public,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer limiter.Close()

	hosts := domain.NewHostCache(func(ctx context.Context, host string) (int64, error) {
		return domain.PageIDByHost(ctx, db, host)
	}, cfg.Domains.HostTTL, cfg.Domains.MaxHosts)
	defer hosts.Close()

	env := &appEnv{
		db:      db,
		cfg:     cfg,
		events:  pub,
		hosts:   hosts,
		dns:     net.DefaultResolver,
		limiter: limiter,
	}

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestLog, middleware.Security)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			api.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		api.OK(w, map[string]string{"status": "ok"})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusNotFound, "not found")
	})

	for _, c := range component.All() {
		if err := c.Init(env); err != nil {
			return fmt.Errorf("init %s: %w", c.Name(), err)
		}
		c.Routes(r)
		log.Debug("component mounted", zap.String("component", c.Name()))
	}

	var root http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		root = middleware.ForceHTTPS(cfg.HTTP.PublicHost, hosts, r)
	}

	//
	// ── 4.  Serve until signalled ───────────────────────────────────────
	//
	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, root), cfg.HTTP.ShutdownTimeout)
}

// openDB opens the pool with the configured sizes.
func openDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	o := database.DefaultOptions()
	o.MaxOpenConns = cfg.Database.MaxOpenConns
	o.MaxIdleConns = cfg.Database.MaxIdleConns
	db, err := database.OpenWithOptions(ctx, cfg.DatabaseDSN(), o)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	zap.L().Info("database online")
	return db, nil
}
