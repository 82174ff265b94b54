package main

import (
	"context"
	"os"

	"tracker/internal/amqp"
	"tracker/internal/cli"
	"tracker/internal/service"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("tracker")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	result := cli.InitStore(ctx, logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	// AMQP is opt-in; the console works fully without a broker.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	tracker := service.NewTracker(result.Store, amqpClient)
	defer tracker.Close()

	logger.Info("Starting expense tracker console", "backend", cfg.DataBackend)

	menu := cli.NewMenu(tracker, os.Stdin, os.Stdout)
	if err := menu.Run(ctx); err != nil {
		logger.Error("Console session failed", "error", err)
		os.Exit(1)
	}
}
