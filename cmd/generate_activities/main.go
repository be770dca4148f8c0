package main

import (
	"context"
	"time"

	"github.com/hetulpatel/tiniadmin/internal/cache"
	"github.com/hetulpatel/tiniadmin/internal/config"
	"github.com/hetulpatel/tiniadmin/internal/generator"
	"github.com/hetulpatel/tiniadmin/internal/hashutil"
	"github.com/hetulpatel/tiniadmin/internal/kafka"
	"github.com/hetulpatel/tiniadmin/internal/logging"
	"github.com/hetulpatel/tiniadmin/internal/queue"
	sqlstore "github.com/hetulpatel/tiniadmin/internal/storage/sqlite"
)

func main() {
	logging.InitFromEnv()
	defer logging.Sync()

	cfg := config.Load()
	ctx := context.Background()

	logging.Infof("adding sample activities for analytics to %s", cfg.SQLite.Path)
	store, err := sqlstore.Open(cfg.SQLite.Path, sqlstore.WithJournalMode(cfg.SQLite.JournalMode))
	if err != nil {
		logging.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	seed := seedFor(cfg.ActivitySeed)
	batch := generator.NewSeeded(seed).Generate(time.Now())
	logging.Debugf("run %s seed=%d hourly=%d recent=%d", batch.RunID, seed, len(batch.Hourly), len(batch.Recent))

	n, err := store.InsertGenerated(ctx, batch.Hourly, batch.Recent)
	if err != nil {
		logging.Fatalf("insert activities: %v", err)
	}
	logging.Infof("added %d sample activities", n)

	if cfg.Kafka.Enabled() {
		publish(ctx, cfg.Kafka, batch)
	}
	if cfg.Redis.Enabled() {
		invalidateDashboard(ctx, cfg.Redis, batch.GeneratedAt)
	}
	logging.Infof("database now contains analytics data for the last %d hours", generator.Hours)
}

func seedFor(phrase string) uint64 {
	if phrase == "" {
		return uint64(time.Now().UnixNano())
	}
	return hashutil.Seed(phrase)
}

func publish(ctx context.Context, kc config.KafkaConfig, batch generator.Batch) {
	waitCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := kafka.WaitForBroker(waitCtx, kc.Brokers); err != nil {
		logging.Errorf("[kafka] wait for broker: %v", err)
		return
	}
	if err := kafka.EnsureTopic(waitCtx, kc.Brokers, kc.Topic); err != nil {
		logging.Errorf("[kafka] ensure topic %s: %v", kc.Topic, err)
		return
	}

	writer := kafka.NewWriter(kc.Brokers, kc.Topic)
	defer writer.Close()
	if err := queue.PublishActivities(ctx, writer, batch.RunID, batch.All()); err != nil {
		logging.Errorf("[kafka] publish run %s: %v", batch.RunID, err)
		return
	}
	logging.Infof("[kafka] published %d activities to %s", batch.Total(), kc.Topic)
}

func invalidateDashboard(ctx context.Context, rc config.RedisConfig, at time.Time) {
	dc, err := cache.NewRedisDashboardCache(rc.Addr, rc.Password, rc.DB, rc.Prefix)
	if err != nil {
		logging.Errorf("dashboard cache: %v", err)
		return
	}
	defer dc.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	n, err := dc.Invalidate(ctx, at)
	if err != nil {
		logging.Errorf("invalidate dashboard cache: %v", err)
		return
	}
	logging.Debugf("dropped %d cached dashboard keys", n)
}
