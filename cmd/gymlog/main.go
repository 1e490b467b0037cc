// Package main is the local gymlog journal: the same workouts, streaks and
// calendar as the hosted service, kept in a single sqlite file.
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/journal"
	"github.com/2beens/gymlog/internal/localdb"
	"github.com/2beens/gymlog/internal/logging"
	"github.com/2beens/gymlog/internal/storage"
	"github.com/2beens/gymlog/internal/workouts"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// localUser owns the bare keys of the sqlite file.
const localUser = ""

var (
	dbPath     string
	configPath string
	cliConfig  = &config.CliConfig{
		SQLitePath:       "./gymlog.db",
		DefaultWeekStart: workouts.WeekStartSunday,
		LogLevel:         "warn",
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "gymlog",
	Short:        "Local workout journal",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadCli(configPath)
		switch {
		case err == nil:
			cliConfig = cfg
		case errors.Is(err, fs.ErrNotExist):
			// no config file, keep the defaults
		default:
			return err
		}

		// stdout carries the command output
		log.SetOutput(os.Stderr)
		log.SetLevel(logging.GetLevel(cliConfig.LogLevel))

		if dbPath == "" {
			dbPath = cliConfig.SQLitePath
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite journal file (default from config, else ./gymlog.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path for the TOML config file")

	rootCmd.AddCommand(
		showCmd,
		logCmd,
		pbCmd,
		streaksCmd,
		calendarCmd,
		exportCmd,
		importCmd,
		settingsCmd,
		snapshotCmd,
	)
}

// localJournal is a journal service over the sqlite file. The caller must
// call the returned close func.
func localJournal() (*journal.Service, func(), error) {
	db, err := localdb.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal %s: %w", dbPath, err)
	}
	log.Debugf("using journal file: %s", dbPath)

	service := journal.NewService(journal.Params{
		KV: storage.NewSQLiteKV(db),
	})
	return service, func() { closeDB(db) }, nil
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Errorf("close journal db: %s", err)
	}
}
