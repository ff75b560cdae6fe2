package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
	"brandcast/contexts/content-publishing/publishing-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

type Store struct {
	mu sync.RWMutex

	cards     map[string]entities.Card
	contracts map[string]entities.Contract
	outbox    map[string]outboxRecord
}

func NewStore(seed []entities.Card) *Store {
	cards := make(map[string]entities.Card, len(seed))
	for _, card := range seed {
		cards[card.ID] = card
	}
	return &Store{
		cards:     cards,
		contracts: make(map[string]entities.Contract),
		outbox:    make(map[string]outboxRecord),
	}
}

func (s *Store) CreateCard(_ context.Context, card entities.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[card.ID]; exists {
		return domainerrors.ErrCardExists
	}
	s.cards[card.ID] = card
	return nil
}

func (s *Store) UpdateCard(_ context.Context, card entities.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[card.ID]; !exists {
		return domainerrors.ErrCardNotFound
	}
	s.cards[card.ID] = card
	return nil
}

func (s *Store) GetCard(_ context.Context, cardID string) (entities.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, exists := s.cards[strings.TrimSpace(cardID)]
	if !exists {
		return entities.Card{}, domainerrors.ErrCardNotFound
	}
	return card, nil
}

func (s *Store) ListCardsByStatus(
	_ context.Context,
	status entities.CardStatus,
	limit int,
) ([]entities.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	cards := make([]entities.Card, 0)
	for _, card := range s.cards {
		if card.Status == status {
			cards = append(cards, card)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	if len(cards) > limit {
		cards = cards[:limit]
	}
	return cards, nil
}

func (s *Store) ListDueScheduled(
	_ context.Context,
	threshold time.Time,
	limit int,
) ([]entities.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	cards := make([]entities.Card, 0, limit)
	for _, card := range s.cards {
		if card.Status != entities.CardStatusScheduled || card.PublishAt == nil {
			continue
		}
		if card.PublishAt.UTC().After(threshold.UTC()) {
			continue
		}
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].PublishAt.Before(*cards[j].PublishAt)
	})
	if len(cards) > limit {
		cards = cards[:limit]
	}
	return cards, nil
}

func (s *Store) CreateContract(_ context.Context, contract entities.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[contract.CardID]; !exists {
		return domainerrors.ErrCardNotFound
	}
	if _, exists := s.contracts[contract.ID]; exists {
		return domainerrors.ErrContractExists
	}
	for _, existing := range s.contracts {
		if existing.CardID == contract.CardID &&
			existing.PlatformKey == contract.PlatformKey &&
			existing.FormatKey == contract.FormatKey {
			return domainerrors.ErrContractExists
		}
	}
	s.contracts[contract.ID] = contract
	return nil
}

func (s *Store) UpdateContract(_ context.Context, contract entities.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contracts[contract.ID]; !exists {
		return domainerrors.ErrContractNotFound
	}
	s.contracts[contract.ID] = contract
	return nil
}

func (s *Store) GetContract(_ context.Context, contractID string) (entities.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contract, exists := s.contracts[strings.TrimSpace(contractID)]
	if !exists {
		return entities.Contract{}, domainerrors.ErrContractNotFound
	}
	return contract, nil
}

func (s *Store) ListContractsByCard(_ context.Context, cardID string) ([]entities.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contracts := make([]entities.Contract, 0)
	for _, contract := range s.contracts {
		if contract.CardID == strings.TrimSpace(cardID) {
			contracts = append(contracts, contract)
		}
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.Before(contracts[j].CreatedAt)
	})
	return contracts, nil
}

// ClaimContractForPublishing performs the ready/failed -> publishing flip
// under the store lock, so concurrent invocations can never both own the
// same contract.
func (s *Store) ClaimContractForPublishing(
	_ context.Context,
	contractID string,
	claimedAt time.Time,
) (entities.Contract, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contract, exists := s.contracts[strings.TrimSpace(contractID)]
	if !exists {
		return entities.Contract{}, false, domainerrors.ErrContractNotFound
	}
	if err := contract.BeginPublishing(claimedAt); err != nil {
		return entities.Contract{}, false, nil
	}
	s.contracts[contract.ID] = contract
	return contract, true, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if _, exists := s.outbox[outboxID]; exists {
		return nil
	}
	s.outbox[outboxID] = outboxRecord{
		OutboxID:     outboxID,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.PublishedAt == nil {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.outbox[strings.TrimSpace(outboxID)]
	if !exists {
		return domainerrors.ErrInvalidPublishingInput
	}
	timestamp := publishedAt.UTC()
	row.PublishedAt = &timestamp
	s.outbox[outboxID] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
