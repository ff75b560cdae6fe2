package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	catalogentities "brandcast/contexts/content-publishing/format-catalog/domain/entities"
	application "brandcast/contexts/content-publishing/publishing-service/application"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
	"brandcast/contexts/content-publishing/publishing-service/ports"
)

type CreateCardCommand struct {
	CardID      string
	BrandID     string
	Title       string
	Body        string
	Description string
}

type AttachContractCommand struct {
	CardID      string
	PlatformKey string
	FormatKey   string
	Payload     map[string]any
}

type MarkContractReadyCommand struct {
	CardID     string
	ContractID string
}

type ScheduleCardCommand struct {
	CardID    string
	PublishAt time.Time
}

type UnscheduleCardCommand struct {
	CardID string
}

type PublishCardCommand struct {
	CardID string
}

type UseCase struct {
	Repository  ports.Repository
	Catalog     ports.FormatCatalog
	Validator   ports.ContractValidator
	Publishers  ports.PublisherRegistry
	Tokens      ports.AccessTokenProvider
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Outbox      ports.OutboxWriter
	MaxParallel int
	Logger      *slog.Logger
}

func (uc UseCase) CreateCard(ctx context.Context, cmd CreateCardCommand) (entities.Card, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()
	cardID := strings.TrimSpace(cmd.CardID)
	if cardID == "" {
		var err error
		cardID, err = uc.IDGen.NewID(ctx)
		if err != nil {
			logger.Error("card id generation failed",
				"event", "publishing_card_id_generation_failed",
				"module", "content-publishing/publishing-service",
				"layer", "application",
				"error", err.Error(),
			)
			return entities.Card{}, err
		}
	}
	card := entities.Card{
		ID:          cardID,
		BrandID:     strings.TrimSpace(cmd.BrandID),
		Title:       strings.TrimSpace(cmd.Title),
		Body:        cmd.Body,
		Description: strings.TrimSpace(cmd.Description),
		Status:      entities.CardStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if card.BrandID == "" || card.Title == "" {
		logger.Warn("card create invalid input",
			"event", "publishing_card_create_invalid_input",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"brand_id", card.BrandID,
		)
		return entities.Card{}, domainerrors.ErrInvalidPublishingInput
	}
	if err := uc.Repository.CreateCard(ctx, card); err != nil {
		logger.Error("card create failed",
			"event", "publishing_card_create_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"error", err.Error(),
		)
		return entities.Card{}, err
	}
	logger.Info("card created",
		"event", "publishing_card_created",
		"module", "content-publishing/publishing-service",
		"layer", "application",
		"card_id", card.ID,
		"brand_id", card.BrandID,
	)
	return card, nil
}

func (uc UseCase) AttachContract(ctx context.Context, cmd AttachContractCommand) (entities.Contract, error) {
	logger := application.ResolveLogger(uc.Logger)
	card, err := uc.Repository.GetCard(ctx, strings.TrimSpace(cmd.CardID))
	if err != nil {
		logger.Warn("contract attach card lookup failed",
			"event", "publishing_contract_attach_card_lookup_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", strings.TrimSpace(cmd.CardID),
			"error", err.Error(),
		)
		return entities.Contract{}, err
	}
	if card.Status != entities.CardStatusDraft && card.Status != entities.CardStatusScheduled {
		logger.Warn("contract attach invalid card state",
			"event", "publishing_contract_attach_invalid_state",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"status", card.Status,
		)
		return entities.Contract{}, domainerrors.ErrInvalidStateTransition
	}

	platformKey := normalizeKey(cmd.PlatformKey)
	formatKey := normalizeKey(cmd.FormatKey)
	format, err := uc.Catalog.Lookup(platformKey, formatKey)
	if err != nil {
		logger.Warn("contract attach unknown platform format",
			"event", "publishing_contract_attach_unknown_format",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"platform", platformKey,
			"format", formatKey,
			"error", err.Error(),
		)
		return entities.Contract{}, err
	}

	contractID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("contract id generation failed",
			"event", "publishing_contract_id_generation_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"error", err.Error(),
		)
		return entities.Contract{}, err
	}
	now := uc.now()
	contract := entities.Contract{
		ID:          contractID,
		CardID:      card.ID,
		PlatformKey: format.PlatformKey,
		FormatKey:   format.FormatKey,
		Payload:     cmd.Payload,
		Status:      entities.ContractStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Repository.CreateContract(ctx, contract); err != nil {
		logger.Warn("contract attach persistence failed",
			"event", "publishing_contract_attach_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"contract_id", contract.ID,
			"platform", contract.PlatformKey,
			"format", contract.FormatKey,
			"error", err.Error(),
		)
		return entities.Contract{}, err
	}
	logger.Info("contract attached",
		"event", "publishing_contract_attached",
		"module", "content-publishing/publishing-service",
		"layer", "application",
		"card_id", card.ID,
		"contract_id", contract.ID,
		"platform", contract.PlatformKey,
		"format", contract.FormatKey,
	)
	return contract, nil
}

// MarkContractReady re-validates the payload before the draft -> ready
// transition. The returned result carries the violations when validation
// fails; the error is ErrContractPayloadInvalid in that case.
func (uc UseCase) MarkContractReady(
	ctx context.Context,
	cmd MarkContractReadyCommand,
) (catalogentities.ValidationResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	contract, err := uc.Repository.GetContract(ctx, strings.TrimSpace(cmd.ContractID))
	if err != nil {
		logger.Warn("contract ready lookup failed",
			"event", "publishing_contract_ready_lookup_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"contract_id", strings.TrimSpace(cmd.ContractID),
			"error", err.Error(),
		)
		return catalogentities.ValidationResult{}, err
	}
	if contract.CardID != strings.TrimSpace(cmd.CardID) {
		return catalogentities.ValidationResult{}, domainerrors.ErrContractNotFound
	}

	format, err := uc.Catalog.Lookup(contract.PlatformKey, contract.FormatKey)
	if err != nil {
		logger.Error("contract ready format lookup failed",
			"event", "publishing_contract_ready_format_lookup_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"contract_id", contract.ID,
			"platform", contract.PlatformKey,
			"format", contract.FormatKey,
			"error", err.Error(),
		)
		return catalogentities.ValidationResult{}, err
	}

	result := uc.Validator.Validate(contract.Payload, format)
	if !result.OK {
		logger.Warn("contract payload rejected",
			"event", "publishing_contract_payload_rejected",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"contract_id", contract.ID,
			"platform", contract.PlatformKey,
			"format", contract.FormatKey,
			"violation_count", len(result.Violations),
		)
		return result, domainerrors.ErrContractPayloadInvalid
	}

	if err := contract.MarkReady(uc.now()); err != nil {
		logger.Warn("contract ready invalid state",
			"event", "publishing_contract_ready_invalid_state",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"contract_id", contract.ID,
			"status", contract.Status,
		)
		return catalogentities.ValidationResult{}, err
	}
	if err := uc.Repository.UpdateContract(ctx, contract); err != nil {
		logger.Error("contract ready state update failed",
			"event", "publishing_contract_ready_state_update_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"contract_id", contract.ID,
			"error", err.Error(),
		)
		return catalogentities.ValidationResult{}, err
	}
	logger.Info("contract marked ready",
		"event", "publishing_contract_marked_ready",
		"module", "content-publishing/publishing-service",
		"layer", "application",
		"contract_id", contract.ID,
		"card_id", contract.CardID,
	)
	return result, nil
}

func (uc UseCase) ScheduleCard(ctx context.Context, cmd ScheduleCardCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	card, err := uc.Repository.GetCard(ctx, strings.TrimSpace(cmd.CardID))
	if err != nil {
		return err
	}
	if err := card.Schedule(cmd.PublishAt, uc.now()); err != nil {
		logger.Warn("card schedule rejected",
			"event", "publishing_card_schedule_rejected",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"status", card.Status,
			"error", err.Error(),
		)
		return err
	}
	if err := uc.Repository.UpdateCard(ctx, card); err != nil {
		logger.Error("card schedule state update failed",
			"event", "publishing_card_schedule_state_update_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", card.ID,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("card scheduled",
		"event", "publishing_card_scheduled",
		"module", "content-publishing/publishing-service",
		"layer", "application",
		"card_id", card.ID,
		"publish_at", card.PublishAt.Format(time.RFC3339),
	)
	return nil
}

func (uc UseCase) UnscheduleCard(ctx context.Context, cmd UnscheduleCardCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	card, err := uc.Repository.GetCard(ctx, strings.TrimSpace(cmd.CardID))
	if err != nil {
		return err
	}
	if err := card.Unschedule(uc.now()); err != nil {
		return err
	}
	if err := uc.Repository.UpdateCard(ctx, card); err != nil {
		return err
	}
	logger.Info("card unscheduled",
		"event", "publishing_card_unscheduled",
		"module", "content-publishing/publishing-service",
		"layer", "application",
		"card_id", card.ID,
	)
	return nil
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
