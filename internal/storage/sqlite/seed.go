package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hetulpatel/tiniadmin/internal/models"
)

// SeedResult counts the rows Initialize actually wrote.
type SeedResult struct {
	Users      int
	Activities int
}

const seedUserSQL = `
INSERT OR IGNORE INTO users (username, email, full_name, department, role)
VALUES (?, ?, ?, ?, ?)
`

// Seed activities have no natural key, so an identical row blocks a rerun.
const seedActivitySQL = `
INSERT INTO activities (user_id, action, details, ip_address)
SELECT ?, ?, ?, ?
WHERE NOT EXISTS (
	SELECT 1 FROM activities WHERE user_id = ? AND action = ? AND details = ?
)
`

// Initialize creates the tables and inserts the reference rows in a single
// transaction. Rows that already exist are skipped silently.
func (s *Store) Initialize(ctx context.Context, users []models.User, activities []models.Activity) (SeedResult, error) {
	var res SeedResult
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := createTables(ctx, tx); err != nil {
		return res, fmt.Errorf("create tables: %w", err)
	}
	if res.Users, err = seedUsers(ctx, tx, users); err != nil {
		return res, err
	}
	if res.Activities, err = seedActivities(ctx, tx, activities); err != nil {
		return res, err
	}
	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}

func seedUsers(ctx context.Context, tx *sql.Tx, users []models.User) (int, error) {
	stmt, err := tx.PrepareContext(ctx, seedUserSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare user insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, u := range users {
		role := u.Role
		if role == "" {
			role = "user"
		}
		r, err := stmt.ExecContext(ctx, u.Username, nullString(u.Email), nullString(u.FullName), nullString(u.Department), role)
		if err != nil {
			return inserted, fmt.Errorf("insert user %s: %w", u.Username, err)
		}
		n, err := r.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("insert user %s: %w", u.Username, err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

func seedActivities(ctx context.Context, tx *sql.Tx, activities []models.Activity) (int, error) {
	stmt, err := tx.PrepareContext(ctx, seedActivitySQL)
	if err != nil {
		return 0, fmt.Errorf("prepare activity insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, a := range activities {
		action := string(a.Action)
		r, err := stmt.ExecContext(ctx, a.UserID, action, a.Details, a.IPAddress, a.UserID, action, a.Details)
		if err != nil {
			return inserted, fmt.Errorf("insert activity %q: %w", action, err)
		}
		n, err := r.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("insert activity %q: %w", action, err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
