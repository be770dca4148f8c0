package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrNoBrokers is returned when KAFKA_BROKERS resolved to an empty list.
var ErrNoBrokers = errors.New("no brokers configured")

// PollInterval is how often WaitForBroker redials.
var PollInterval = time.Second

func dialFirst(ctx context.Context, brokers []string) (*kafka.Conn, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	return kafka.DialContext(ctx, "tcp", brokers[0])
}

// WaitForBroker redials the first broker every PollInterval until it answers
// or ctx ends.
func WaitForBroker(ctx context.Context, brokers []string) error {
	if len(brokers) == 0 {
		return ErrNoBrokers
	}

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		conn, err := dialFirst(ctx, brokers)
		if err == nil {
			return conn.Close()
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for broker %s: %w (last error: %v)", brokers[0], ctx.Err(), err)
		case <-ticker.C:
		}
	}
}

// EnsureTopic creates a single-partition topic through the cluster controller.
// An existing topic is not an error.
func EnsureTopic(ctx context.Context, brokers []string, topic string) error {
	conn, err := dialFirst(ctx, brokers)
	if errors.Is(err, ErrNoBrokers) {
		return err
	}
	if err != nil {
		return fmt.Errorf("dial broker %s: %w", brokers[0], err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("get controller: %w", err)
	}

	addr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	ctrlConn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial controller %s: %w", addr, err)
	}
	defer ctrlConn.Close()

	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	return nil
}

// NewWriter keys by hash so one run's rows land on one partition in order.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}
