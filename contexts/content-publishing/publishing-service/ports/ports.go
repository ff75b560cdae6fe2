package ports

import (
	"context"
	"time"

	catalogentities "brandcast/contexts/content-publishing/format-catalog/domain/entities"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	contractsv1 "brandcast/contracts/gen/events/v1"
)

type Repository interface {
	CreateCard(ctx context.Context, card entities.Card) error
	UpdateCard(ctx context.Context, card entities.Card) error
	GetCard(ctx context.Context, cardID string) (entities.Card, error)
	ListCardsByStatus(ctx context.Context, status entities.CardStatus, limit int) ([]entities.Card, error)
	ListDueScheduled(ctx context.Context, threshold time.Time, limit int) ([]entities.Card, error)

	CreateContract(ctx context.Context, contract entities.Contract) error
	UpdateContract(ctx context.Context, contract entities.Contract) error
	GetContract(ctx context.Context, contractID string) (entities.Contract, error)
	ListContractsByCard(ctx context.Context, cardID string) ([]entities.Contract, error)

	// ClaimContractForPublishing atomically flips a contract from ready or
	// failed into publishing. claimed=false means another invocation owns the
	// contract or it is not in a claimable state; that is not an error.
	ClaimContractForPublishing(ctx context.Context, contractID string, claimedAt time.Time) (entities.Contract, bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// FormatCatalog is the read-only catalog collaborator owned by the
// format-catalog module.
type FormatCatalog interface {
	Lookup(platformKey string, formatKey string) (catalogentities.PlatformFormat, error)
}

// ContractValidator is the single source of truth for payload publishability.
type ContractValidator interface {
	Validate(payload map[string]any, format catalogentities.PlatformFormat) catalogentities.ValidationResult
}

// AccessTokenProvider is the external auth collaborator. ok=false is a normal
// failure condition, never an error.
type AccessTokenProvider interface {
	ValidAccessToken(ctx context.Context, brandID string, platformKey string) (token string, ok bool, err error)
}

// Publisher implements one platform's publish protocol. It never returns an
// error: every failure mode is folded into the outcome.
type Publisher interface {
	PlatformKey() string
	Publish(
		ctx context.Context,
		contract entities.Contract,
		format catalogentities.PlatformFormat,
		accessToken string,
	) entities.PublishOutcome
}

// PublisherRegistry resolves a platform key to its publisher. Unknown keys
// resolve to a null publisher producing the unsupported-platform outcome.
type PublisherRegistry interface {
	Resolve(platformKey string) Publisher
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
