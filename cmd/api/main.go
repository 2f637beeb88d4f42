package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/catalog/app"
	"github.com/joefazee/catalog/app/api"
	"github.com/joefazee/catalog/app/categories"
	apiDoc "github.com/joefazee/catalog/app/doc"
	_ "github.com/joefazee/catalog/docs"
	"github.com/joefazee/catalog/internal/deps"
	"github.com/joefazee/catalog/internal/logger"
	"github.com/joefazee/catalog/internal/router"
	"github.com/joefazee/catalog/internal/security"
)

// @title Catalog API
// @version 1.0
// @description Category tree service: hierarchical categories served from a two-tier cache, with filtering and storefront menus.
// @x-logo {"url": "https://go.dev/images/go-logo-white.svg", "altText": "Go API Logo"}

// @contact.name API Support Team

// @license.name MIT License
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a PASETO token.

// @servers.url http://localhost:8080/
// @servers.description Local Development Server
func main() {
	configFile := flag.String("config", "", "path to a yaml or env configuration file")
	flag.Parse()

	cfg, err := app.LoadConfig(*configFile)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zl, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}

	container, module, err := app.Bootstrap(cfg, zl)
	if err != nil {
		zl.Fatal(err, nil)
	}
	defer func() {
		if err := container.Close(); err != nil {
			zl.Error(err, logger.Fields{"phase": "shutdown"})
		}
	}()

	if cfg.Categories.WarmOnStart {
		warm(module.Coordinator, zl)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newEngine(cfg, container, module)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("starting catalog API server", logger.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error(err, logger.Fields{"phase": "listen"})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error(err, logger.Fields{"phase": "shutdown"})
	}
}

func newEngine(cfg *app.Config, container *deps.Container, module *categories.Module) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		api.RequestID(),
		api.RequestLogger(container.Logger),
		api.Metrics(container.Metrics),
		api.CorsMiddleware(),
	)

	probes := make(map[string]api.HealthProbe)
	for name, probe := range container.Probes() {
		probes[name] = api.HealthProbe(probe)
	}
	r.GET("/metrics", gin.WrapH(container.Metrics.Handler()))

	mounter := router.NewMounter(container)
	mounter.Public(r).Mount(func(g *gin.RouterGroup, _ *deps.Container) {
		g.GET("/healthz", api.HealthCheck(cfg.Env, app.Version, probes))
		module.Init(g)
	})
	mounter.Authorized(r, security.ScopeCatalogWrite).Mount(func(g *gin.RouterGroup, _ *deps.Container) {
		module.InitWithAuth(g)
	})

	apiDoc.Init(r, cfg.Env)
	return r
}

// warm fills both tiers. A failure is logged; reads rebuild on demand.
func warm(coord *categories.Coordinator, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := coord.RefreshAll(ctx)
	if err != nil {
		log.Warn("cache warm-up failed", logger.Fields{"error": err.Error()})
		return
	}
	log.Info("cache warmed", logger.Fields{
		"nodes":       res.Nodes,
		"roots":       len(res.Roots),
		"unreachable": len(res.Unreachable),
	})
}
