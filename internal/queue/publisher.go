package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/hetulpatel/tiniadmin/internal/models"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// PublishActivities sends one message per activity, keyed by run so a
// consumer sees a run in order.
func PublishActivities(ctx context.Context, writer MessageWriter, runID uuid.UUID, activities []models.Activity) error {
	if writer == nil || len(activities) == 0 {
		return nil
	}
	msgs, err := BuildMessages(runID, activities)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, msgs...)
}

// BuildMessages encodes activities as ActivityEvent JSON.
func BuildMessages(runID uuid.UUID, activities []models.Activity) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(activities))
	key := []byte(runID.String())
	for i, a := range activities {
		payload, err := json.Marshal(models.NewActivityEvent(runID, i, a))
		if err != nil {
			return nil, fmt.Errorf("marshal activity %d: %w", i, err)
		}
		msgs = append(msgs, kafka.Message{Key: key, Value: payload})
	}
	return msgs, nil
}
