package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action is the category stored in activities.action.
type Action string

const (
	ActionLogin           Action = "Login"
	ActionResponseTime    Action = "Response Time"
	ActionSessionDuration Action = "Session Duration"
	ActionBounce          Action = "Bounce"
	ActionConversion      Action = "Conversion"
	ActionSecurityAlert   Action = "Security Alert"
	ActionPageView        Action = "Page View"
)

// LoopbackIP is recorded for every activity that did not come from the LAN.
const LoopbackIP = "127.0.0.1"

// TimestampLayout matches SQLite's CURRENT_TIMESTAMP so explicit and defaulted
// created_at values compare as strings.
const TimestampLayout = "2006-01-02 15:04:05"

// User mirrors a row of the users table.
type User struct {
	ID         int64
	Username   string
	Email      string
	FullName   string
	Department string
	Role       string
	Status     string
	CreatedAt  time.Time
	LastLogin  *time.Time
}

// Activity mirrors a row of the activities table. A zero CreatedAt lets the
// database default apply.
type Activity struct {
	ID        int64
	UserID    int64
	Action    Action
	Details   string
	IPAddress string
	CreatedAt time.Time
}

// ActivityEvent is the payload placed on the activity Kafka topic.
type ActivityEvent struct {
	RunID     uuid.UUID `json:"run_id"`
	Seq       int       `json:"seq"`
	UserID    int64     `json:"user_id"`
	Action    Action    `json:"action"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

// NewActivityEvent wraps a generated activity with its run identity.
func NewActivityEvent(runID uuid.UUID, seq int, a Activity) ActivityEvent {
	return ActivityEvent{
		RunID:     runID,
		Seq:       seq,
		UserID:    a.UserID,
		Action:    a.Action,
		Details:   a.Details,
		IPAddress: a.IPAddress,
		CreatedAt: a.CreatedAt.UTC(),
	}
}

// FormatTimestamp renders t in the stored layout, UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a stored created_at value. modernc returns DATETIME
// columns either as time.Time or as text depending on how they were written.
func ParseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseTimestampString(t)
	case []byte:
		return parseTimestampString(string(t))
	case nil:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
}

func parseTimestampString(s string) (time.Time, error) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, "2006-01-02T15:04:05Z"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.ParseInLocation(TimestampLayout, s, time.UTC)
}
