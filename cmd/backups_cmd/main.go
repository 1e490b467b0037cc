package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/2beens/gymlog/internal/backup"
	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/db"
	"github.com/2beens/gymlog/internal/logging"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// offsite export of the latest hosted backups into google drive

const exportTimeout = 10 * time.Minute

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	credentialsFile := flag.String("gd-creds", "./drive-credentials.json", "google drive service account credentials json")
	logsPath := flag.String("logs-path", "", "logs file path (empty for stdout)")
	once := flag.Bool("once", false, "export all backups once and exit")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      *logsPath,
		LogToStdout:      *logsPath == "",
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "gymlog-backups-cmd",
	})

	credentials, err := os.ReadFile(*credentialsFile)
	if err != nil {
		log.Fatalf("unable to read drive credentials file: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     os.Getenv("GYMLOG_DB_USER"),
		DBPassword: os.Getenv("GYMLOG_DB_PASS"),
	})
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	exporter, err := backup.NewDriveExporter(ctx, credentials, cfg.DriveExportFolder, backup.NewRepo(dbPool))
	if err != nil {
		log.Fatalf("new drive exporter: %s", err)
	}

	if *once {
		if _, err := exporter.Export(ctx, time.Time{}); err != nil {
			log.Fatalf("export: %s", err)
		}
		return
	}

	var (
		mu      sync.Mutex
		lastRun time.Time // zero: the first run exports everything
	)
	c := cron.New()
	_, err = c.AddFunc(cfg.DriveExportSchedule, func() {
		mu.Lock()
		defer mu.Unlock()

		started := time.Now()
		exportCtx, exportCancel := context.WithTimeout(ctx, exportTimeout)
		defer exportCancel()
		if _, err := exporter.Export(exportCtx, lastRun); err != nil {
			log.Errorf("scheduled export: %s", err)
			return
		}
		lastRun = started
	})
	if err != nil {
		log.Fatalf("invalid export schedule [%s]: %s", cfg.DriveExportSchedule, err)
	}

	log.Infof("drive export scheduled [%s] into folder [%s]", cfg.DriveExportSchedule, cfg.DriveExportFolder)
	c.Start()

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, stopping ...", receivedSig)

	<-c.Stop().Done()
}
