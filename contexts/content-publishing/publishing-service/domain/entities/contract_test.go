package entities

import (
	"errors"
	"testing"
	"time"

	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
)

func TestContractClaimFromReadyAndFailedOnly(t *testing.T) {
	now := time.Now().UTC()
	claimable := []ContractStatus{ContractStatusReady, ContractStatusFailed}
	for _, status := range claimable {
		contract := Contract{ID: "c-1", Status: status}
		if err := contract.BeginPublishing(now); err != nil {
			t.Fatalf("claim from %s failed: %v", status, err)
		}
		if contract.Status != ContractStatusPublishing {
			t.Fatalf("expected publishing after claim, got %s", contract.Status)
		}
	}

	notClaimable := []ContractStatus{ContractStatusDraft, ContractStatusPublishing, ContractStatusPublished}
	for _, status := range notClaimable {
		contract := Contract{ID: "c-1", Status: status}
		if err := contract.BeginPublishing(now); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
			t.Fatalf("claim from %s: expected ErrInvalidStateTransition, got %v", status, err)
		}
	}
}

func TestContractMarkPublishedClearsErrorAndSetsTimestamp(t *testing.T) {
	now := time.Now().UTC()
	contract := Contract{ID: "c-1", Status: ContractStatusFailed, ErrorMessage: "temporary outage"}
	if err := contract.BeginPublishing(now); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := contract.MarkPublished(now, " post-42 "); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	if contract.ExternalPostID != "post-42" {
		t.Fatalf("unexpected external post id %q", contract.ExternalPostID)
	}
	if contract.ErrorMessage != "" {
		t.Fatalf("error message must clear on success, got %q", contract.ErrorMessage)
	}
	if contract.PublishedAt == nil {
		t.Fatalf("published timestamp must be set")
	}
}

func TestContractMarkPublishedRequiresPublishing(t *testing.T) {
	now := time.Now().UTC()
	contract := Contract{ID: "c-1", Status: ContractStatusReady}
	if err := contract.MarkPublished(now, "post-42"); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestContractMarkFailedRecordsMessage(t *testing.T) {
	now := time.Now().UTC()
	contract := Contract{ID: "c-1", Status: ContractStatusReady}
	if err := contract.BeginPublishing(now); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := contract.MarkFailed(now, "rate limited"); err != nil {
		t.Fatalf("mark failed errored: %v", err)
	}
	if contract.Status != ContractStatusFailed {
		t.Fatalf("expected failed, got %s", contract.Status)
	}
	if contract.ErrorMessage != "rate limited" {
		t.Fatalf("unexpected error message %q", contract.ErrorMessage)
	}
}

func TestContractMarkReadyClearsPreviousFailure(t *testing.T) {
	now := time.Now().UTC()
	contract := Contract{ID: "c-1", Status: ContractStatusFailed, ErrorMessage: "bad payload"}
	if err := contract.MarkReady(now); err != nil {
		t.Fatalf("mark ready failed: %v", err)
	}
	if contract.Status != ContractStatusReady || contract.ErrorMessage != "" {
		t.Fatalf("expected clean ready contract, got status %s error %q", contract.Status, contract.ErrorMessage)
	}
}

func TestCardScheduleRequiresFutureTime(t *testing.T) {
	now := time.Now().UTC()
	card := Card{ID: "card-1", Status: CardStatusDraft}
	if err := card.Schedule(now.Add(-time.Minute), now); !errors.Is(err, domainerrors.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
	if err := card.Schedule(now.Add(time.Hour), now); err != nil {
		t.Fatalf("future schedule failed: %v", err)
	}
	if card.Status != CardStatusScheduled || card.PublishAt == nil {
		t.Fatalf("expected scheduled card with publish time")
	}
}

func TestCardUnscheduleReturnsToDraft(t *testing.T) {
	now := time.Now().UTC()
	card := Card{ID: "card-1", Status: CardStatusDraft}
	if err := card.Schedule(now.Add(time.Hour), now); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if err := card.Unschedule(now); err != nil {
		t.Fatalf("unschedule failed: %v", err)
	}
	if card.Status != CardStatusDraft || card.PublishAt != nil {
		t.Fatalf("expected draft card without publish time")
	}
}

func TestCardRecordFirstSuccessIsSticky(t *testing.T) {
	now := time.Now().UTC()
	card := Card{ID: "card-1", Status: CardStatusPublishing}
	card.RecordFirstSuccess(now)
	first := *card.PublishedAt
	card.RecordFirstSuccess(now.Add(time.Hour))
	if !card.PublishedAt.Equal(first) {
		t.Fatalf("published timestamp must not move once set")
	}
}

func TestCardTerminalTransitionsRequirePublishing(t *testing.T) {
	now := time.Now().UTC()
	card := Card{ID: "card-1", Status: CardStatusDraft}
	if err := card.MarkPublished(now); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition for publish from draft, got %v", err)
	}
	if err := card.MarkFailed(now); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition for fail from draft, got %v", err)
	}

	if err := card.BeginPublishing(now); err != nil {
		t.Fatalf("begin publishing failed: %v", err)
	}
	if err := card.MarkFailed(now); err != nil {
		t.Fatalf("fail from publishing errored: %v", err)
	}

	// A failed card may be retried.
	if err := card.BeginPublishing(now); err != nil {
		t.Fatalf("retry from failed errored: %v", err)
	}
	if err := card.MarkPublished(now); err != nil {
		t.Fatalf("publish from publishing errored: %v", err)
	}
	// A published card is terminal.
	if err := card.BeginPublishing(now); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition from published, got %v", err)
	}
}
