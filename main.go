package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"sahaya/app/api"
	"sahaya/app/client/gemini"
	"sahaya/app/config"
	"sahaya/app/service/area"
	"sahaya/app/service/assistant"
	"sahaya/app/service/history"
	"sahaya/app/service/resolver"
	"sahaya/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, gemini.NewClient)
	do.Provide(di, resolver.New)
	do.Provide(di, history.New)
	do.Provide(di, area.New)
	do.Provide(di, assistant.New)
	do.Provide(di, api.New)

	slog.Info("Service started", "mode", cfg.Safety.Mode)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	server := do.MustInvoke[*api.Server](di)

	var group errgroup.Group
	group.Go(server.Listen)
	group.Go(func() error {
		<-appCtx.Done()
		return server.Shutdown()
	})

	if err = group.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
