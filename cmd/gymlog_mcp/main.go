// Package main runs the gymlog MCP server over stdio against a local sqlite
// journal. The backend mounts the same tools at /mcp over HTTP, scoped to
// the logged in user.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/journal"
	"github.com/2beens/gymlog/internal/localdb"
	"github.com/2beens/gymlog/internal/logging"
	gymlogmcp "github.com/2beens/gymlog/internal/mcp"
	"github.com/2beens/gymlog/internal/storage"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

// localUser owns the bare keys of the sqlite file, same as the gymlog cli.
const localUser = ""

func main() {
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	dbPath := flag.String("db", "", "sqlite journal file (default from config)")
	flag.Parse()

	// stdout is the MCP transport
	log.SetOutput(os.Stderr)

	path := *dbPath
	if path == "" {
		cfg, err := config.LoadCli(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		log.SetLevel(logging.GetLevel(cfg.LogLevel))
		path = cfg.SQLitePath
	}

	db, err := localdb.Open(path)
	if err != nil {
		log.Fatalf("open journal %s: %v", path, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("close journal db: %s", err)
		}
	}()

	service := journal.NewService(journal.Params{
		KV: storage.NewSQLiteKV(db),
	})
	server := gymlogmcp.NewServer(service, localUser)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Errorf("mcp server: %s", err)
	}
}
