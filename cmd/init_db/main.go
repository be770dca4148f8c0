package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/hetulpatel/tiniadmin/internal/cache"
	"github.com/hetulpatel/tiniadmin/internal/config"
	"github.com/hetulpatel/tiniadmin/internal/logging"
	"github.com/hetulpatel/tiniadmin/internal/seed"
	sqlstore "github.com/hetulpatel/tiniadmin/internal/storage/sqlite"
)

func main() {
	logging.InitFromEnv()
	defer logging.Sync()

	cfg := config.Load()
	ctx := context.Background()

	logging.Infof("creating tini admin database at %s", cfg.SQLite.Path)
	store, err := sqlstore.Open(cfg.SQLite.Path, sqlstore.WithJournalMode(cfg.SQLite.JournalMode))
	if err != nil {
		logging.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	res, err := store.Initialize(ctx, seed.Users(), seed.Activities())
	if err != nil {
		logging.Fatalf("initialize database: %v", err)
	}
	logging.Infof("tables users and activities ready")
	logging.Infof("inserted %d users and %d activities (existing rows skipped)", res.Users, res.Activities)

	if cfg.Redis.Enabled() {
		invalidateDashboard(ctx, cfg.Redis)
	}

	abs, err := filepath.Abs(store.Path())
	if err != nil {
		abs = store.Path()
	}
	logging.Infof("database created successfully: %s", abs)
}

func invalidateDashboard(ctx context.Context, rc config.RedisConfig) {
	dc, err := cache.NewRedisDashboardCache(rc.Addr, rc.Password, rc.DB, rc.Prefix)
	if err != nil {
		logging.Errorf("dashboard cache: %v", err)
		return
	}
	defer dc.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	n, err := dc.Invalidate(ctx, time.Now())
	if err != nil {
		logging.Errorf("invalidate dashboard cache: %v", err)
		return
	}
	logging.Debugf("dropped %d cached dashboard keys", n)
}
