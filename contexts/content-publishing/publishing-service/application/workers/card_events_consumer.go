package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	application "brandcast/contexts/content-publishing/publishing-service/application"
	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
	"brandcast/contexts/content-publishing/publishing-service/ports"
)

const defaultCardEventsConsumerGroupName = "publishing-service-card-events-cg"

type cardEventPayload struct {
	CardID         string `json:"card_id"`
	BrandID        string `json:"brand_id"`
	PublishedCount int    `json:"published_count"`
	FailedCount    int    `json:"failed_count"`
}

// CardEventsConsumer tails the card result stream and surfaces the per-card
// publish verdict against the card's current state. Events can arrive after
// an operator retry has already settled the card, so the stored state, not
// the event, is authoritative.
type CardEventsConsumer struct {
	Subscriber    ports.EventSubscriber
	Repository    ports.Repository
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c CardEventsConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := c.ConsumerGroup
	if group == "" {
		group = defaultCardEventsConsumerGroupName
	}
	if err := c.Subscriber.Subscribe(ctx, defaultOutboxTopic, group, c.handle); err != nil {
		logger.Error("card events consumer subscribe failed",
			"event", "publishing_card_events_subscribe_failed",
			"module", "content-publishing/publishing-service",
			"layer", "worker",
			"topic", defaultOutboxTopic,
			"consumer_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("card events consumer subscribed",
		"event", "publishing_card_events_subscribed",
		"module", "content-publishing/publishing-service",
		"layer", "worker",
		"topic", defaultOutboxTopic,
		"consumer_group", group,
	)
	return nil
}

func (c CardEventsConsumer) handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	var payload cardEventPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("card event decode failed",
			"event", "publishing_card_event_decode_failed",
			"module", "content-publishing/publishing-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	if payload.CardID == "" {
		logger.Warn("card event payload invalid",
			"event", "publishing_card_event_payload_invalid",
			"module", "content-publishing/publishing-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return domainerrors.ErrInvalidPublishingInput
	}

	card, err := c.Repository.GetCard(ctx, payload.CardID)
	if err != nil {
		logger.Error("card event lookup failed",
			"event", "publishing_card_event_lookup_failed",
			"module", "content-publishing/publishing-service",
			"layer", "worker",
			"event_id", event.EventID,
			"card_id", payload.CardID,
			"error", err.Error(),
		)
		return err
	}

	if event.EventType == "card.failed" {
		logger.Warn("card publish failure observed",
			"event", "publishing_card_failure_observed",
			"module", "content-publishing/publishing-service",
			"layer", "worker",
			"event_id", event.EventID,
			"card_id", card.ID,
			"brand_id", payload.BrandID,
			"card_status", card.Status,
			"published_count", payload.PublishedCount,
			"failed_count", payload.FailedCount,
		)
		return nil
	}
	logger.Info("card publish result observed",
		"event", "publishing_card_result_observed",
		"module", "content-publishing/publishing-service",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"card_id", card.ID,
		"brand_id", payload.BrandID,
		"card_status", card.Status,
		"published_count", payload.PublishedCount,
	)
	return nil
}
