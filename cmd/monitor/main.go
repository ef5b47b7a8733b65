// cmd/monitor/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/voltline/inventory-backend/internal/config"
	"github.com/voltline/inventory-backend/internal/mail"
	"github.com/voltline/inventory-backend/internal/monitor"
	"github.com/voltline/inventory-backend/internal/repository/postgres"
	"github.com/voltline/inventory-backend/internal/service"
	"github.com/voltline/inventory-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	app := &cli.App{
		Name:  "monitor",
		Usage: "Sweep the inventory and send reorder alerts",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "interval",
				Usage:   "Seconds between sweeps (run-loop mode)",
				EnvVars: []string{"MONITOR_SWEEP_INTERVAL_SECONDS"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Concurrent component evaluations per sweep",
				EnvVars: []string{"MONITOR_WORKER_COUNT"},
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Log alerts instead of sending them",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "sweep",
				Usage:  "Run a single sweep and exit",
				Action: runOnce,
			},
			{
				Name:   "run",
				Usage:  "Sweep continuously until interrupted",
				Action: runLoop,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func buildSweeper(c *cli.Context) (*monitor.Sweeper, *postgres.DB, error) {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var transport mail.Transport = mail.NewLogTransport()
	if cfg.Mail.Enabled && !c.Bool("dry-run") {
		transport, err = mail.NewResendTransport(cfg.Mail)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set up mail transport: %w", err)
		}
	}

	componentRepo := postgres.NewComponentRepository(db.DB)
	offerRepo := postgres.NewOfferRepository(db.DB)
	orderRepo := postgres.NewOrderRepository(db.DB)
	alertRepo := postgres.NewAlertRepository(db.DB)

	alertService := service.NewAlertService(db, componentRepo, offerRepo, orderRepo, alertRepo, transport)

	workers := c.Int("workers")
	if workers <= 0 {
		workers = cfg.Monitor.WorkerCount
	}

	return monitor.NewSweeper(componentRepo, alertService, workers), db, nil
}

func runOnce(c *cli.Context) error {
	sweeper, db, err := buildSweeper(c)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := sweeper.Sweep(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("evaluated %d component(s), sent %d alert(s), %d failure(s)\n",
		result.Evaluated, result.AlertsSent, result.Failures)
	return nil
}

func runLoop(c *cli.Context) error {
	sweeper, db, err := buildSweeper(c)
	if err != nil {
		return err
	}
	defer db.Close()

	interval := c.Int("interval")
	if interval <= 0 {
		interval = config.Load().Monitor.SweepIntervalSeconds
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = sweeper.Run(ctx, time.Duration(interval)*time.Second)
	if err == context.Canceled {
		return nil
	}
	return err
}
