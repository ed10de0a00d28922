package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/remerata/bookcloud/internal/model"
)

type recordActivity func(ctx context.Context, ev model.LendingEvent) error

// Consumer drains the lending-events topic into the activity feed. The
// same instance is reused across group sessions, so Setup must be safe
// to run again after every rebalance.
type Consumer struct {
	recordHandler recordActivity
	log           *zap.Logger
}

func NewConsumer(record recordActivity, log *zap.Logger) *Consumer {
	return &Consumer{
		recordHandler: record,
		log:           log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Debug("message channel was closed")
				return nil
			}
			var ev model.LendingEvent
			if err := json.Unmarshal(message.Value, &ev); err != nil {
				consumer.log.Error("unmarshal lending event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}
			if err := consumer.recordHandler(session.Context(), ev); err != nil {
				consumer.log.Error("record activity", zap.String("event", ev.Event), zap.Error(err))
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
