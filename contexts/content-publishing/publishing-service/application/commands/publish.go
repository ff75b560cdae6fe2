package commands

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/errgroup"

	application "brandcast/contexts/content-publishing/publishing-service/application"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
	"brandcast/contexts/content-publishing/publishing-service/ports"
)

const defaultMaxParallel = 4

// PublishCard is the best-effort fan-out over one card's ready (or previously
// failed) contracts. One platform's failure never blocks or rolls back another
// platform's success; the card aggregate is computed only after every contract
// outcome has resolved.
func (uc UseCase) PublishCard(ctx context.Context, cmd PublishCardCommand) (entities.CardPublishSummary, error) {
	logger := application.ResolveLogger(uc.Logger)
	card, err := uc.Repository.GetCard(ctx, strings.TrimSpace(cmd.CardID))
	if err != nil {
		logger.Warn("card publish lookup failed",
			"event", "publishing_card_publish_lookup_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", strings.TrimSpace(cmd.CardID),
			"error", err.Error(),
		)
		return entities.CardPublishSummary{}, err
	}

	contracts, err := uc.Repository.ListContractsByCard(ctx, card.ID)
	if err != nil {
		logger.Error("card publish contract list failed",
			"event", "publishing_card_publish_contract_list_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"error", err.Error(),
		)
		return entities.CardPublishSummary{}, err
	}

	eligible := make([]entities.Contract, 0, len(contracts))
	for _, contract := range contracts {
		if contract.Status == entities.ContractStatusReady || contract.Status == entities.ContractStatusFailed {
			eligible = append(eligible, contract)
		}
	}
	if len(eligible) == 0 {
		logger.Warn("card publish precondition violated",
			"event", "publishing_card_publish_no_ready_contracts",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"contract_count", len(contracts),
		)
		return entities.CardPublishSummary{}, domainerrors.ErrNoReadyContracts
	}

	now := uc.now()
	if err := card.BeginPublishing(now); err != nil {
		return entities.CardPublishSummary{}, err
	}
	if err := uc.Repository.UpdateCard(ctx, card); err != nil {
		logger.Error("card publish start state update failed",
			"event", "publishing_card_publish_start_state_update_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"error", err.Error(),
		)
		return entities.CardPublishSummary{}, err
	}

	type contractResult struct {
		attempted bool
		success   bool
	}
	results := make([]contractResult, len(eligible))

	var group errgroup.Group
	groupCtx := ctx
	maxParallel := uc.MaxParallel
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}
	group.SetLimit(maxParallel)

	for index := range eligible {
		index := index
		group.Go(func() error {
			claimed, ok, err := uc.Repository.ClaimContractForPublishing(groupCtx, eligible[index].ID, uc.now())
			if err != nil {
				logger.Error("contract claim failed",
					"event", "publishing_contract_claim_failed",
					"module", "content-publishing/publishing-service",
					"layer", "application",
					"card_id", card.ID,
					"contract_id", eligible[index].ID,
					"error", err.Error(),
				)
				// A repository error is a failed attempt, not a lost race:
				// it must count toward the card aggregate, otherwise a card
				// whose every claim errors is left in publishing with no
				// invocation left to settle it.
				results[index] = contractResult{attempted: true}
				return nil
			}
			if !ok {
				// Another invocation owns this contract for the duration of
				// its attempt; skip it instead of double-publishing.
				logger.Debug("contract claim skipped",
					"event", "publishing_contract_claim_skipped",
					"module", "content-publishing/publishing-service",
					"layer", "application",
					"card_id", card.ID,
					"contract_id", eligible[index].ID,
				)
				return nil
			}

			outcome := uc.publishContract(groupCtx, card, claimed)
			results[index] = contractResult{
				attempted: true,
				success:   uc.applyOutcome(groupCtx, &claimed, outcome),
			}
			return nil
		})
	}
	// Join point: the card aggregate below must not run before every
	// per-contract outcome has resolved.
	_ = group.Wait()

	summary := entities.CardPublishSummary{}
	attempted := 0
	for _, result := range results {
		if !result.attempted {
			continue
		}
		attempted++
		if result.success {
			summary.PublishedCount++
		} else {
			summary.FailedCount++
		}
	}
	if attempted == 0 {
		// Every eligible contract was claimed by a concurrent invocation;
		// that invocation settles the card.
		logger.Info("card publish yielded to concurrent invocation",
			"event", "publishing_card_publish_yielded",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
		)
		return summary, nil
	}

	completedAt := uc.now()
	if summary.PublishedCount > 0 {
		card.RecordFirstSuccess(completedAt)
	}
	if summary.FailedCount == 0 {
		err = card.MarkPublished(completedAt)
	} else {
		err = card.MarkFailed(completedAt)
	}
	if err != nil {
		return summary, err
	}
	if err := uc.Repository.UpdateCard(ctx, card); err != nil {
		logger.Error("card publish final state update failed",
			"event", "publishing_card_publish_final_state_update_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"error", err.Error(),
		)
		return summary, err
	}

	eventType := "card.published"
	if summary.FailedCount > 0 {
		eventType = "card.failed"
	}
	if err := uc.appendOutbox(ctx, eventType, card.ID, map[string]any{
		"card_id":         card.ID,
		"brand_id":        card.BrandID,
		"published_count": summary.PublishedCount,
		"failed_count":    summary.FailedCount,
	}); err != nil {
		return summary, err
	}

	logger.Info("card publish completed",
		"event", "publishing_card_publish_completed",
		"module", "content-publishing/publishing-service",
		"layer", "application",
		"card_id", card.ID,
		"status", card.Status,
		"published_count", summary.PublishedCount,
		"failed_count", summary.FailedCount,
	)
	return summary, nil
}

// ProcessDueScheduled publishes every card whose publish time has arrived.
// A due card whose contracts were never readied is marked failed so the
// scheduler does not pick it up again every cycle.
func (uc UseCase) ProcessDueScheduled(ctx context.Context, limit int) error {
	logger := application.ResolveLogger(uc.Logger)
	due, err := uc.Repository.ListDueScheduled(ctx, uc.now(), limit)
	if err != nil {
		logger.Error("scheduler due list failed",
			"event", "publishing_scheduler_due_list_failed",
			"module", "content-publishing/publishing-service",
			"layer", "worker",
			"limit", limit,
			"error", err.Error(),
		)
		return err
	}
	var firstErr error
	for _, card := range due {
		if _, err := uc.PublishCard(ctx, PublishCardCommand{CardID: card.ID}); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			logger.Error("scheduler card publish failed",
				"event", "publishing_scheduler_card_publish_failed",
				"module", "content-publishing/publishing-service",
				"layer", "worker",
				"card_id", card.ID,
				"error", err.Error(),
			)
		}
	}
	if len(due) > 0 {
		logger.Info("scheduler cycle completed",
			"event", "publishing_scheduler_cycle_completed",
			"module", "content-publishing/publishing-service",
			"layer", "worker",
			"due_count", len(due),
		)
	}
	return firstErr
}

// publishContract resolves the contract's format, publisher, and access token
// and runs one publish attempt. It never returns an error: every failure mode
// is an outcome.
func (uc UseCase) publishContract(
	ctx context.Context,
	card entities.Card,
	contract entities.Contract,
) entities.PublishOutcome {
	format, err := uc.Catalog.Lookup(contract.PlatformKey, contract.FormatKey)
	if err != nil {
		return entities.PublishOutcome{Error: err.Error()}
	}

	token, ok, err := uc.Tokens.ValidAccessToken(ctx, card.BrandID, contract.PlatformKey)
	if err != nil || !ok || strings.TrimSpace(token) == "" {
		return entities.PublishOutcome{Error: domainerrors.ErrNoValidAccessToken.Error()}
	}

	publisher := uc.Publishers.Resolve(contract.PlatformKey)
	return publisher.Publish(ctx, contract, format, token)
}

// applyOutcome folds one outcome into the claimed contract and persists it as
// a single update. Returns whether the contract ended up published.
func (uc UseCase) applyOutcome(
	ctx context.Context,
	contract *entities.Contract,
	outcome entities.PublishOutcome,
) bool {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()
	if outcome.Success {
		if err := contract.MarkPublished(now, outcome.ExternalPostID); err != nil {
			logger.Error("contract publish transition failed",
				"event", "publishing_contract_publish_transition_failed",
				"module", "content-publishing/publishing-service",
				"layer", "application",
				"contract_id", contract.ID,
				"error", err.Error(),
			)
			return false
		}
	} else {
		if err := contract.MarkFailed(now, outcome.Error); err != nil {
			logger.Error("contract failure transition failed",
				"event", "publishing_contract_failure_transition_failed",
				"module", "content-publishing/publishing-service",
				"layer", "application",
				"contract_id", contract.ID,
				"error", err.Error(),
			)
			return false
		}
	}
	if err := uc.Repository.UpdateContract(ctx, *contract); err != nil {
		logger.Error("contract outcome persistence failed",
			"event", "publishing_contract_outcome_persistence_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"contract_id", contract.ID,
			"error", err.Error(),
		)
		return false
	}
	if outcome.Success {
		logger.Info("contract published",
			"event", "publishing_contract_published",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"contract_id", contract.ID,
			"platform", contract.PlatformKey,
			"external_post_id", contract.ExternalPostID,
		)
		return true
	}
	logger.Warn("contract publish failed",
		"event", "publishing_contract_publish_failed",
		"module", "content-publishing/publishing-service",
		"layer", "application",
		"contract_id", contract.ID,
		"platform", contract.PlatformKey,
		"error", contract.ErrorMessage,
	)
	return false
}

func (uc UseCase) appendOutbox(
	ctx context.Context,
	eventType string,
	partitionKey string,
	data map[string]any,
) error {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("outbox event id generation failed",
			"event", "publishing_outbox_event_id_generation_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"event_type", eventType,
			"error", err.Error(),
		)
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := uc.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       uc.now(),
		SourceService:    "publishing-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "card_id",
		PartitionKey:     partitionKey,
		Data:             payload,
	}); err != nil {
		logger.Error("outbox append failed",
			"event", "publishing_outbox_append_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"event_id", eventID,
			"event_type", eventType,
			"error", err.Error(),
		)
		return err
	}
	return nil
}
