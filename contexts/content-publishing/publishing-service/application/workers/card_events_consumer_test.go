package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"brandcast/contexts/content-publishing/publishing-service/adapters/memory"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
	"brandcast/contexts/content-publishing/publishing-service/ports"
)

type capturedSubscription struct {
	topic   string
	group   string
	handler func(context.Context, ports.EventEnvelope) error
}

type stubSubscriber struct {
	subscription capturedSubscription
}

func (s *stubSubscriber) Subscribe(
	_ context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	s.subscription = capturedSubscription{topic: topic, group: consumerGroup, handler: handler}
	return nil
}

func cardEventEnvelope(t *testing.T, eventType string, payload map[string]any) ports.EventEnvelope {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return ports.EventEnvelope{
		EventID:    "event-1",
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

func TestCardEventsConsumerSubscribesToResultTopic(t *testing.T) {
	subscriber := &stubSubscriber{}
	consumer := CardEventsConsumer{
		Subscriber: subscriber,
		Repository: memory.NewStore(nil),
	}

	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if subscriber.subscription.topic != "publishing.card" {
		t.Fatalf("unexpected topic %q", subscriber.subscription.topic)
	}
	if subscriber.subscription.group != "publishing-service-card-events-cg" {
		t.Fatalf("unexpected consumer group %q", subscriber.subscription.group)
	}
	if subscriber.subscription.handler == nil {
		t.Fatalf("handler must be registered")
	}
}

func TestCardEventsConsumerHandlesResultEvents(t *testing.T) {
	now := time.Now().UTC()
	store := memory.NewStore([]entities.Card{{
		ID:        "card-1",
		BrandID:   "brand-1",
		Title:     "observed",
		Status:    entities.CardStatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}})
	subscriber := &stubSubscriber{}
	consumer := CardEventsConsumer{Subscriber: subscriber, Repository: store}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	handler := subscriber.subscription.handler

	ok := cardEventEnvelope(t, "card.published", map[string]any{
		"card_id": "card-1", "brand_id": "brand-1", "published_count": 2, "failed_count": 0,
	})
	if err := handler(context.Background(), ok); err != nil {
		t.Fatalf("published event handling failed: %v", err)
	}

	failed := cardEventEnvelope(t, "card.failed", map[string]any{
		"card_id": "card-1", "brand_id": "brand-1", "published_count": 1, "failed_count": 1,
	})
	if err := handler(context.Background(), failed); err != nil {
		t.Fatalf("failed event handling failed: %v", err)
	}
}

func TestCardEventsConsumerRejectsBadEvents(t *testing.T) {
	subscriber := &stubSubscriber{}
	consumer := CardEventsConsumer{Subscriber: subscriber, Repository: memory.NewStore(nil)}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	handler := subscriber.subscription.handler

	missingID := cardEventEnvelope(t, "card.published", map[string]any{"brand_id": "brand-1"})
	if err := handler(context.Background(), missingID); !errors.Is(err, domainerrors.ErrInvalidPublishingInput) {
		t.Fatalf("expected ErrInvalidPublishingInput, got %v", err)
	}

	unknownCard := cardEventEnvelope(t, "card.published", map[string]any{"card_id": "ghost"})
	if err := handler(context.Background(), unknownCard); !errors.Is(err, domainerrors.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}
