package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/healthdash/healthdash-go/internal/adapters/backend"
	"github.com/healthdash/healthdash-go/internal/config"
	"github.com/healthdash/healthdash-go/internal/core/dashboard"
	"github.com/healthdash/healthdash-go/internal/core/metrics"
	"github.com/healthdash/healthdash-go/internal/database"
	apperrors "github.com/healthdash/healthdash-go/pkg/errors"
	"github.com/healthdash/healthdash-go/pkg/logger"
	"github.com/healthdash/healthdash-go/pkg/version"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	// Initialize logger
	log := logger.New()

	if len(os.Args) >= 2 && os.Args[1] == "version" {
		fmt.Println(version.String())
		return
	}

	if err := ensureConfigFile(defaultConfigPath); err != nil {
		log.WithError(err).Warn("Could not write default config file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	logger.SetLevel(log, cfg.Logging.Level)

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.Migrate(db, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// Create repositories
	repos := database.NewRepositories(db)

	// Wire the data core
	client := backend.NewClient(cfg.Backend, log)
	mock := metrics.NewMockProvider(cfg.Fallback.RandomSeed)
	svc := dashboard.NewService(client, repos.Snapshot, mock, cfg, log)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var cmdErr error
	switch os.Args[1] {
	case "upload":
		cmdErr = runUpload(ctx, svc, os.Args[2:])
	case "metrics":
		cmdErr = runMetrics(ctx, svc, os.Args[2:])
	case "report":
		cmdErr = runReport(svc, os.Args[2:])
	case "reset":
		svc.ClearCurrentData()
		fmt.Println("cleared current dataset, back to mock data")
	default:
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		if apperrors.IsAppError(cmdErr) {
			log.WithField("code", apperrors.Code(cmdErr)).Fatal(cmdErr)
		}
		log.Fatal(cmdErr)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: dashboard <command> [flags]

commands:
  upload <file.csv> [-user id]   upload a readings CSV and activate the dataset
  metrics [-user id]             print the current KPI card values
  report [-out path]             write the plain-text weekly report
  reset                          drop the active dataset, restore mock data
  version                        print build information`)
}

func runUpload(ctx context.Context, svc *dashboard.Service, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	user := fs.String("user", "", "user identity for the saved snapshot")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("upload: missing CSV file argument")
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	outcome, err := svc.UploadFile(ctx, filepath.Base(path), f, *user)
	if err != nil {
		return err
	}

	fmt.Printf("uploaded %s, dataset id %s\n", outcome.FileName, outcome.DataID)
	if outcome.Message != "" {
		fmt.Println(outcome.Message)
	}
	if outcome.PersistErr != nil {
		fmt.Printf("warning: snapshot not saved: %v\n", outcome.PersistErr)
	}
	return nil
}

func runMetrics(ctx context.Context, svc *dashboard.Service, args []string) error {
	fs := flag.NewFlagSet("metrics", flag.ExitOnError)
	user := fs.String("user", "", "user identity to restore a snapshot for")
	fs.Parse(args)

	kpi, err := svc.GetMetrics(ctx, *user)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(kpi, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runReport(svc *dashboard.Service, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	out := fs.String("out", "weekly-health-report.txt", "output path")
	fs.Parse(args)

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	defer f.Close()

	if err := svc.ExportWeeklyReport(f); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}

// ensureConfigFile materializes a commented starter config on first run
func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	starter := map[string]interface{}{
		"backend": map[string]interface{}{
			"url":             "http://localhost:8000",
			"request_timeout": "30s",
			"max_retries":     3,
		},
		"database": map[string]interface{}{
			"path":            "./data/healthdash.db",
			"migrations_path": "./migrations",
		},
		"logging": map[string]interface{}{
			"level": "info",
		},
		"fallback": map[string]interface{}{
			"mock_on_unavailable": true,
			"synthetic_days":      30,
		},
	}

	data, err := yaml.Marshal(starter)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
