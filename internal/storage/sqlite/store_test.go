package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/tiniadmin/internal/generator"
	"github.com/hetulpatel/tiniadmin/internal/models"
	"github.com/hetulpatel/tiniadmin/internal/seed"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "tini_admin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func initTestStore(t *testing.T) *Store {
	t.Helper()
	store := openTestStore(t)
	_, err := store.Initialize(context.Background(), seed.Users(), seed.Activities())
	require.NoError(t, err)
	return store
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "admin.db")
	store, err := Open(path, WithJournalMode("WAL"))
	require.NoError(t, err)
	defer store.Close()

	require.Equal(t, path, store.Path())
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestOpenRejectsUnknownJournalMode(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "admin.db"), WithJournalMode("fast; DROP TABLE users"))
	require.ErrorContains(t, err, "unsupported journal mode")
}

func TestOpenFailsWhenParentIsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Open(filepath.Join(blocker, "admin.db"))
	require.Error(t, err)
}

func TestCloseNilStore(t *testing.T) {
	var s *Store
	require.NoError(t, s.Close())
}

func TestInitializeSeedsReferenceRows(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	res, err := store.Initialize(ctx, seed.Users(), seed.Activities())
	require.NoError(t, err)
	require.Equal(t, SeedResult{Users: 5, Activities: 5}, res)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)

	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
		require.Equal(t, "active", u.Status)
		require.Nil(t, u.LastLogin)
		require.False(t, u.CreatedAt.IsZero())
	}
	require.ElementsMatch(t, []string{"admin", "boss", "ghost_boss", "EMP001", "EMP002"}, names)
	require.Equal(t, "user", users[4].Role)
	require.Equal(t, "Người Dùng Thường", users[4].FullName)

	n, err := store.CountActivities(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := initTestStore(t)

	res, err := store.Initialize(ctx, seed.Users(), seed.Activities())
	require.NoError(t, err)
	require.Equal(t, SeedResult{}, res)

	users, err := store.CountUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, users)
	acts, err := store.CountActivities(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, acts)
}

func TestInitializeSkipsConflictingEmail(t *testing.T) {
	ctx := context.Background()
	store := initTestStore(t)

	res, err := store.Initialize(ctx, []models.User{
		{Username: "someone_else", Email: "admin@tini.com"},
		{Username: "fresh", Email: "fresh@tini.com"},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Users)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 6)
	require.Equal(t, "fresh", users[5].Username)
	require.Equal(t, "user", users[5].Role)
}

func TestInsertGeneratedRequiresSchema(t *testing.T) {
	store := openTestStore(t)
	batch := generator.NewSeeded(1).Generate(time.Now())

	_, err := store.InsertGenerated(context.Background(), batch.Hourly, batch.Recent)
	require.ErrorContains(t, err, "no such table")
}

func TestInsertGeneratedCountsMatchBatch(t *testing.T) {
	ctx := context.Background()
	store := initTestStore(t)

	batch := generator.NewSeeded(99).Generate(time.Now())
	n, err := store.InsertGenerated(ctx, batch.Hourly, batch.Recent)
	require.NoError(t, err)
	require.Equal(t, batch.Total(), n)

	total, err := store.CountActivities(ctx)
	require.NoError(t, err)
	require.Equal(t, 5+batch.Total(), total)

	counts, err := store.ActionCounts(ctx, time.Time{})
	require.NoError(t, err)
	require.Equal(t, generator.Hours, counts[models.ActionResponseTime])
	require.Equal(t, generator.Hours, counts[models.ActionSessionDuration])
	require.Equal(t, generator.RecentCount, counts[models.ActionPageView])
}

func TestInsertGeneratedPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := initTestStore(t)

	now := time.Date(2025, 8, 9, 12, 0, 0, 0, time.UTC)
	batch := []models.Activity{
		{UserID: 1, Action: models.ActionLogin, Details: "late", IPAddress: models.LoopbackIP, CreatedAt: now},
		{UserID: 2, Action: models.ActionLogin, Details: "early", IPAddress: models.LoopbackIP, CreatedAt: now.Add(-time.Hour)},
	}
	_, err := store.InsertGenerated(ctx, batch, nil)
	require.NoError(t, err)

	acts, err := store.ListActivitiesSince(ctx, now.Add(-2*time.Hour))
	require.NoError(t, err)

	var generated []models.Activity
	for _, a := range acts {
		if a.Details == "late" || a.Details == "early" {
			generated = append(generated, a)
		}
	}
	require.Len(t, generated, 2)
	require.Equal(t, "early", generated[0].Details)
	require.Less(t, generated[1].ID, generated[0].ID)
	require.Equal(t, now, generated[1].CreatedAt)
}

func TestEndToEndGeneratedRowsWithinWindow(t *testing.T) {
	ctx := context.Background()
	store := initTestStore(t)

	now := time.Now()
	batch := generator.NewSeeded(2024).Generate(now)
	_, err := store.InsertGenerated(ctx, batch.Hourly, batch.Recent)
	require.NoError(t, err)

	all, err := store.ListActivitiesSince(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 5+batch.Total())

	floor := now.Add(-24 * time.Hour).Truncate(time.Second)
	ceiling := time.Now().Add(2 * time.Second)
	for _, a := range all {
		require.False(t, a.CreatedAt.Before(floor), "activity %d at %s", a.ID, a.CreatedAt)
		require.False(t, a.CreatedAt.After(ceiling), "activity %d at %s", a.ID, a.CreatedAt)

		switch a.Action {
		case models.ActionResponseTime, models.ActionSessionDuration:
			_, err := strconv.Atoi(a.Details)
			require.NoError(t, err)
		case models.ActionSecurityAlert:
			require.Regexp(t, `^192\.168\.1\.\d{1,3}$`, a.IPAddress)
		default:
			require.Equal(t, models.LoopbackIP, a.IPAddress)
		}
	}
	require.True(t, sort.SliceIsSorted(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	}))
}

func TestClearAndDropTables(t *testing.T) {
	ctx := context.Background()
	store := initTestStore(t)

	require.NoError(t, store.ClearTables(ctx))
	n, err := store.CountUsers(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, store.DropTables(ctx))
	_, err = store.CountActivities(ctx)
	require.ErrorContains(t, err, "no such table")

	require.NoError(t, store.CreateTables(ctx))
	n, err = store.CountActivities(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func addRejectTrigger(t *testing.T, store *Store, table, condition string) {
	t.Helper()
	_, err := store.db.Exec(`CREATE TRIGGER reject_` + table + ` BEFORE INSERT ON ` + table +
		` WHEN ` + condition + ` BEGIN SELECT RAISE(ABORT, 'rejected by trigger'); END;`)
	require.NoError(t, err)
}

func TestInsertGeneratedRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := initTestStore(t)
	addRejectTrigger(t, store, "activities", "NEW.action = 'Page View'")

	batch := generator.NewSeeded(7).Generate(time.Now())
	_, err := store.InsertGenerated(ctx, batch.Hourly, batch.Recent)
	require.ErrorContains(t, err, "rejected by trigger")

	n, err := store.CountActivities(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestInitializeRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.CreateTables(ctx))
	addRejectTrigger(t, store, "activities", "NEW.details = 'Device registration'")

	_, err := store.Initialize(ctx, seed.Users(), seed.Activities())
	require.ErrorContains(t, err, "rejected by trigger")

	users, err := store.CountUsers(ctx)
	require.NoError(t, err)
	require.Zero(t, users)
	acts, err := store.CountActivities(ctx)
	require.NoError(t, err)
	require.Zero(t, acts)
}
