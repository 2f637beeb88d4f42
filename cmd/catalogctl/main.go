package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joefazee/catalog/app"
	"github.com/joefazee/catalog/internal/cache"
	"github.com/joefazee/catalog/internal/cli"
	"github.com/joefazee/catalog/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &cli.App{Connect: connect, Out: os.Stdout}
	root := cli.NewRootCmd(a)
	root.SetContext(ctx)
	return cli.Execute(a, root)
}

// connect wires the same stack as the API server. Logs go to stderr so stdout stays scriptable.
func connect(configFile string) (*cli.Backend, func() error, error) {
	cfg, err := app.LoadConfig(configFile)
	if err != nil {
		return nil, nil, err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewZeroLogger(os.Stderr, level, logger.Fields{"service": "catalogctl"})

	container, module, err := app.Bootstrap(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return &cli.Backend{
		Service:     module.Service,
		TokenMaker:  container.TokenMaker,
		TokenTTL:    cfg.Security.TokenTTL,
		SharedCache: cfg.Cache.Backend == cache.RedisBackend,
	}, container.Close, nil
}
