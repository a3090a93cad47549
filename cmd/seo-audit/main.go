package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"seoaudit/cmd/seo-audit/app"
	"seoaudit/internal/config"
	"seoaudit/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatal(err)
	}
	defer logging.Sync(logger)

	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, closeEnv, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer closeEnv()

	if err := app.Run(ctx, os.Args, os.Stdout, os.Stderr, env); err != nil {
		log.Print(err)
		closeEnv()
		logging.Sync(logger)
		os.Exit(1)
	}
}
