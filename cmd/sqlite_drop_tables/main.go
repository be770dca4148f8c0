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

	if err := store.DropTables(context.Background()); err != nil {
		logging.Fatalf("drop tables: %v", err)
	}
	logging.Infof("SQLite tables dropped at %s", store.Path())
}
