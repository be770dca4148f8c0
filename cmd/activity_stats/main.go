package main

import (
	"context"
	"sort"
	"time"

	"github.com/hetulpatel/tiniadmin/internal/cache"
	"github.com/hetulpatel/tiniadmin/internal/config"
	"github.com/hetulpatel/tiniadmin/internal/logging"
	"github.com/hetulpatel/tiniadmin/internal/models"
	sqlstore "github.com/hetulpatel/tiniadmin/internal/storage/sqlite"
)

func main() {
	logging.InitFromEnv()
	defer logging.Sync()

	cfg := config.Load()
	ctx := context.Background()

	store, err := sqlstore.Open(cfg.SQLite.Path, sqlstore.WithJournalMode(cfg.SQLite.JournalMode))
	if err != nil {
		logging.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	users, err := store.CountUsers(ctx)
	if err != nil {
		logging.Fatalf("count users: %v", err)
	}
	total, err := store.CountActivities(ctx)
	if err != nil {
		logging.Fatalf("count activities: %v", err)
	}
	since := time.Now().Add(-24 * time.Hour)
	counts, err := store.ActionCounts(ctx, since)
	if err != nil {
		logging.Fatalf("action counts: %v", err)
	}

	if total == 0 {
		logging.Infof("no activities found in %s; run init_db and generate_activities first", store.Path())
		return
	}

	logging.Infof("%s: %d users, %d activities", store.Path(), users, total)
	logging.Infof("last 24h by action (since %s UTC):", models.FormatTimestamp(since))
	for _, a := range sortedActions(counts) {
		logging.Infof(" - %-20s %d", a, counts[a])
	}

	if cfg.Redis.Enabled() {
		logLastRefresh(ctx, cfg.Redis)
	}
}

func logLastRefresh(ctx context.Context, rc config.RedisConfig) {
	dc, err := cache.NewRedisDashboardCache(rc.Addr, rc.Password, rc.DB, rc.Prefix)
	if err != nil {
		logging.Errorf("dashboard cache: %v", err)
		return
	}
	defer dc.Close()

	at, ok, err := dc.LastRefresh(ctx)
	if err != nil {
		logging.Errorf("read dashboard refresh: %v", err)
		return
	}
	if !ok {
		logging.Infof("dashboard cache never refreshed")
		return
	}
	logging.Infof("dashboard cache refreshed at %s", at.Format(time.RFC3339))
}

func sortedActions(counts map[models.Action]int) []models.Action {
	actions := make([]models.Action, 0, len(counts))
	for a := range counts {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}
