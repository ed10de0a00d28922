package handler_test

import (
	"context"
	"sync"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/remerata/bookcloud/internal/handler"
	"github.com/remerata/bookcloud/internal/model"
	"github.com/remerata/bookcloud/pkg/kafka"
)

type fakeSession struct {
	ctx    context.Context
	mu     sync.Mutex
	marked []*sarama.ConsumerMessage
}

var _ sarama.ConsumerGroupSession = (*fakeSession)(nil)

func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "" }
func (s *fakeSession) GenerationID() int32                      { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Context() context.Context                 { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg)
}

type fakeClaim struct {
	msgs chan *sarama.ConsumerMessage
}

var _ sarama.ConsumerGroupClaim = (*fakeClaim)(nil)

func (c *fakeClaim) Topic() string                            { return kafka.LendingTopic }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

func TestConsumer_ReusedAcrossSessions(t *testing.T) {
	t.Parallel()
	record := func(context.Context, model.LendingEvent) error { return nil }
	consumer := handler.NewConsumer(record, zap.NewExample())

	// the group client reuses one handler instance for the session that
	// follows every rebalance
	sess := &fakeSession{ctx: context.Background()}
	require.NoError(t, consumer.Setup(sess))
	require.NoError(t, consumer.Cleanup(sess))
	require.NoError(t, consumer.Setup(sess))
	require.NoError(t, consumer.Cleanup(sess))
}

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()
	var (
		mu       sync.Mutex
		recorded []model.LendingEvent
	)
	record := func(_ context.Context, ev model.LendingEvent) error {
		mu.Lock()
		defer mu.Unlock()
		recorded = append(recorded, ev)
		return nil
	}
	consumer := handler.NewConsumer(record, zap.NewExample())

	claim := &fakeClaim{msgs: make(chan *sarama.ConsumerMessage, 2)}
	claim.msgs <- &sarama.ConsumerMessage{
		Topic: kafka.LendingTopic,
		Value: []byte(`{"event":"REQUEST_SUBMITTED","bookUid":"b-1","bookTitle":"Dune","username":"alice"}`),
	}
	claim.msgs <- &sarama.ConsumerMessage{
		Topic: kafka.LendingTopic,
		Value: []byte(`not json`),
	}
	close(claim.msgs)

	sess := &fakeSession{ctx: context.Background()}
	require.NoError(t, consumer.ConsumeClaim(sess, claim))

	require.Len(t, recorded, 1)
	require.Equal(t, "REQUEST_SUBMITTED", recorded[0].Event)
	require.Equal(t, "alice", recorded[0].Username)
	// the undecodable message is still marked so it is not redelivered
	require.Len(t, sess.marked, 2)
}
