package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hetulpatel/tiniadmin/internal/models"
)

const insertActivitySQL = `
INSERT INTO activities (user_id, action, details, ip_address, created_at)
VALUES (?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))
`

// InsertGenerated writes batch through one prepared statement and then each
// recent row as its own insert, committing once. It never creates the schema,
// so a missing activities table surfaces as the driver's error.
func (s *Store) InsertGenerated(ctx context.Context, batch, recent []models.Activity) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertActivitySQL)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range batch {
		if _, err := stmt.ExecContext(ctx, activityArgs(a)...); err != nil {
			return 0, fmt.Errorf("insert activity %q: %w", a.Action, err)
		}
	}
	for _, a := range recent {
		if _, err := tx.ExecContext(ctx, insertActivitySQL, activityArgs(a)...); err != nil {
			return 0, fmt.Errorf("insert recent activity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(batch) + len(recent), nil
}

func activityArgs(a models.Activity) []any {
	var created any
	if !a.CreatedAt.IsZero() {
		created = models.FormatTimestamp(a.CreatedAt)
	}
	return []any{a.UserID, string(a.Action), a.Details, a.IPAddress, created}
}

// CountUsers returns the number of rows in users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM users`)
}

// CountActivities returns the number of rows in activities.
func (s *Store) CountActivities(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM activities`)
}

func (s *Store) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, username, email, full_name, department, role, status, created_at, last_login
FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			u                                   models.User
			email, fullName, dept, role, status sql.NullString
			createdAt, lastLogin                any
		)
		if err := rows.Scan(&u.ID, &u.Username, &email, &fullName, &dept, &role, &status, &createdAt, &lastLogin); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Email, u.FullName, u.Department = email.String, fullName.String, dept.String
		u.Role, u.Status = role.String, status.String
		if u.CreatedAt, err = models.ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", u.Username, err)
		}
		if lastLogin != nil {
			t, err := models.ParseTimestamp(lastLogin)
			if err != nil {
				return nil, fmt.Errorf("parse last_login for %s: %w", u.Username, err)
			}
			u.LastLogin = &t
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// ListActivitiesSince returns activities created at or after since, oldest first.
// A zero since returns everything.
func (s *Store) ListActivitiesSince(ctx context.Context, since time.Time) ([]models.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, action, details, ip_address, created_at
FROM activities WHERE created_at >= ? ORDER BY created_at, id`, sinceArg(since))
	if err != nil {
		return nil, fmt.Errorf("select activities: %w", err)
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var (
			a                   models.Activity
			userID              sql.NullInt64
			action, details, ip sql.NullString
			createdAt           any
		)
		if err := rows.Scan(&a.ID, &userID, &action, &details, &ip, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.UserID = userID.Int64
		a.Action = models.Action(action.String)
		a.Details, a.IPAddress = details.String, ip.String
		if a.CreatedAt, err = models.ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for activity %d: %w", a.ID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ActionCounts groups activities created at or after since by action.
func (s *Store) ActionCounts(ctx context.Context, since time.Time) (map[models.Action]int, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT COALESCE(action, ''), COUNT(*) FROM activities
WHERE created_at >= ? GROUP BY action`, sinceArg(since))
	if err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}
	defer rows.Close()

	counts := map[models.Action]int{}
	for rows.Next() {
		var (
			action string
			n      int
		)
		if err := rows.Scan(&action, &n); err != nil {
			return nil, fmt.Errorf("scan action count: %w", err)
		}
		counts[models.Action(action)] = n
	}
	return counts, rows.Err()
}

func sinceArg(since time.Time) string {
	if since.IsZero() {
		return ""
	}
	return models.FormatTimestamp(since)
}
