package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StrideCoach/internal/delivery"
	"StrideCoach/internal/notifier"
	"StrideCoach/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daily tip scheduler and the Telegram command loop",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	logger.Info("StrideCoach starting...")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a := newApp(ctx, cfg, logger, nil)
	defer a.Close()

	ledger, err := delivery.NewLedger(cfg.Delivery.StateFile, logger)
	if err != nil {
		return fmt.Errorf("init delivery ledger: %w", err)
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)

	sched := scheduler.NewScheduler(ctx, a.collector, a.orch, tn, ledger, logger)
	sched.MaxRetries = cfg.Delivery.MaxRetries
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	logger.Info("Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing daily task now")
		go sched.RunDailyNow()
	}

	logger.Info("StrideCoach is running. Press Ctrl+C to stop.", zap.String("daily_cron", cfg.Schedule.DailyCron))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		logger.Info("shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	cancel()
	return nil
}
