package kafka

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

// closedAddr returns a loopback address nothing listens on.
func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestNoBrokers(t *testing.T) {
	ctx := context.Background()
	require.ErrorIs(t, WaitForBroker(ctx, nil), ErrNoBrokers)
	require.ErrorIs(t, EnsureTopic(ctx, []string{}, "admin.activities"), ErrNoBrokers)
}

func TestWaitForBrokerGivesUpWithContext(t *testing.T) {
	prev := PollInterval
	PollInterval = 10 * time.Millisecond
	t.Cleanup(func() { PollInterval = prev })

	addr := closedAddr(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := WaitForBroker(ctx, []string{addr})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorContains(t, err, "waiting for broker "+addr)
}

func TestEnsureTopicUnreachableBroker(t *testing.T) {
	addr := closedAddr(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := EnsureTopic(ctx, []string{addr}, "admin.activities")
	require.ErrorContains(t, err, "dial broker "+addr)
}

func TestNewWriter(t *testing.T) {
	w := NewWriter([]string{"a:9092", "b:9092"}, "admin.activities")
	defer w.Close()

	require.Equal(t, "admin.activities", w.Topic)
	require.Equal(t, "tcp", w.Addr.Network())
	require.IsType(t, &kafka.Hash{}, w.Balancer)
	require.Equal(t, kafka.RequireOne, w.RequiredAcks)
}
