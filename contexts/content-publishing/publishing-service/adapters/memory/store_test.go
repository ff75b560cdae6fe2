package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
	"brandcast/contexts/content-publishing/publishing-service/ports"
)

func seedStore(t *testing.T, contractStatus entities.ContractStatus) *Store {
	t.Helper()
	now := time.Now().UTC()
	store := NewStore([]entities.Card{{
		ID:        "card-1",
		BrandID:   "brand-1",
		Title:     "launch",
		Status:    entities.CardStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}})
	if err := store.CreateContract(context.Background(), entities.Contract{
		ID:          "contract-1",
		CardID:      "card-1",
		PlatformKey: "facebook",
		FormatKey:   "feed_post",
		Payload:     map[string]any{"message": "hello"},
		Status:      contractStatus,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("seed contract failed: %v", err)
	}
	return store
}

func TestClaimContractFlipsReadyToPublishing(t *testing.T) {
	store := seedStore(t, entities.ContractStatusReady)
	now := time.Now().UTC()

	claimed, ok, err := store.ClaimContractForPublishing(context.Background(), "contract-1", now)
	if err != nil || !ok {
		t.Fatalf("expected successful claim, got ok=%v err=%v", ok, err)
	}
	if claimed.Status != entities.ContractStatusPublishing {
		t.Fatalf("expected publishing, got %s", claimed.Status)
	}

	// Second claim must lose.
	_, ok, err = store.ClaimContractForPublishing(context.Background(), "contract-1", now)
	if err != nil {
		t.Fatalf("second claim errored: %v", err)
	}
	if ok {
		t.Fatalf("second claim must not succeed")
	}
}

func TestClaimContractRejectsDraftAndPublished(t *testing.T) {
	for _, status := range []entities.ContractStatus{entities.ContractStatusDraft, entities.ContractStatusPublished} {
		store := seedStore(t, status)
		_, ok, err := store.ClaimContractForPublishing(context.Background(), "contract-1", time.Now().UTC())
		if err != nil {
			t.Fatalf("claim from %s errored: %v", status, err)
		}
		if ok {
			t.Fatalf("claim from %s must not succeed", status)
		}
	}
}

func TestClaimContractAllowsFailedRetry(t *testing.T) {
	store := seedStore(t, entities.ContractStatusFailed)
	_, ok, err := store.ClaimContractForPublishing(context.Background(), "contract-1", time.Now().UTC())
	if err != nil || !ok {
		t.Fatalf("expected failed contract to be claimable, got ok=%v err=%v", ok, err)
	}
}

func TestClaimContractUnknownID(t *testing.T) {
	store := seedStore(t, entities.ContractStatusReady)
	_, _, err := store.ClaimContractForPublishing(context.Background(), "missing", time.Now().UTC())
	if !errors.Is(err, domainerrors.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
}

func TestCreateContractRejectsDuplicatePlatformFormatPair(t *testing.T) {
	store := seedStore(t, entities.ContractStatusDraft)
	err := store.CreateContract(context.Background(), entities.Contract{
		ID:          "contract-2",
		CardID:      "card-1",
		PlatformKey: "facebook",
		FormatKey:   "feed_post",
		Status:      entities.ContractStatusDraft,
	})
	if !errors.Is(err, domainerrors.ErrContractExists) {
		t.Fatalf("expected ErrContractExists, got %v", err)
	}
}

func TestOutboxAppendListAndAck(t *testing.T) {
	store := seedStore(t, entities.ContractStatusReady)
	now := time.Now().UTC()
	if err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:      "event-1",
		EventType:    "card.published",
		PartitionKey: "card-1",
		OccurredAt:   now,
	}); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "event-1" {
		t.Fatalf("unexpected pending rows: %+v", pending)
	}

	if err := store.MarkOutboxPublished(context.Background(), "event-1", now); err != nil {
		t.Fatalf("mark outbox published failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending after ack failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty pending set, got %d rows", len(pending))
	}
}

func TestListDueScheduledFiltersByThreshold(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	store := NewStore([]entities.Card{
		{ID: "due", Status: entities.CardStatusScheduled, PublishAt: &past, CreatedAt: now},
		{ID: "later", Status: entities.CardStatusScheduled, PublishAt: &future, CreatedAt: now},
		{ID: "draft", Status: entities.CardStatusDraft, CreatedAt: now},
	})

	due, err := store.ListDueScheduled(context.Background(), now, 10)
	if err != nil {
		t.Fatalf("list due failed: %v", err)
	}
	if len(due) != 1 || due[0].ID != "due" {
		t.Fatalf("unexpected due set: %+v", due)
	}
}
