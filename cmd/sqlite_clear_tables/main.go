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

	if err := store.ClearTables(context.Background()); err != nil {
		logging.Fatalf("clear tables: %v", err)
	}
	logging.Infof("SQLite tables cleared at %s", store.Path())
}
