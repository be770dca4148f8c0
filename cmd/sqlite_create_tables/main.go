package main

import (
	"context"

	"github.com/hetulpatel/tiniadmin/internal/config"
	"github.com/hetulpatel/tiniadmin/internal/logging"
	"github.com/hetulpatel/tiniadmin/internal/storage/sqlite"
)

func main() {
	logging.InitFromEnv()
	defer logging.Sync()

	cfg := config.Load()
	store, err := sqlite.Open(cfg.SQLite.Path, sqlite.WithJournalMode(cfg.SQLite.JournalMode))
	if err != nil {
		logging.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	if err := store.CreateTables(context.Background()); err != nil {
		logging.Fatalf("create tables: %v", err)
	}
	logging.Infof("SQLite tables created at %s", store.Path())
}
