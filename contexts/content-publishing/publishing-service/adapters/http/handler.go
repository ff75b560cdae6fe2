package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	catalogentities "brandcast/contexts/content-publishing/format-catalog/domain/entities"
	application "brandcast/contexts/content-publishing/publishing-service/application"
	"brandcast/contexts/content-publishing/publishing-service/application/commands"
	"brandcast/contexts/content-publishing/publishing-service/application/queries"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
	httptransport "brandcast/contexts/content-publishing/publishing-service/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) CreateCardHandler(
	ctx context.Context,
	req httptransport.CreateCardRequest,
) (httptransport.CardDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	card, err := h.Commands.CreateCard(ctx, commands.CreateCardCommand{
		BrandID:     req.BrandID,
		Title:       req.Title,
		Body:        req.Body,
		Description: req.Description,
	})
	if err != nil {
		logger.Warn("publishing http create card failed",
			"event", "publishing_http_create_card_failed",
			"module", "content-publishing/publishing-service",
			"layer", "adapter",
			"brand_id", strings.TrimSpace(req.BrandID),
			"error", err.Error(),
		)
		return httptransport.CardDTO{}, err
	}
	logger.Info("publishing http create card completed",
		"event", "publishing_http_create_card_completed",
		"module", "content-publishing/publishing-service",
		"layer", "adapter",
		"card_id", card.ID,
		"brand_id", card.BrandID,
	)
	return mapCard(card), nil
}

func (h Handler) GetCardHandler(ctx context.Context, cardID string) (httptransport.CardDTO, error) {
	card, err := h.Queries.GetCard(ctx, cardID)
	if err != nil {
		return httptransport.CardDTO{}, err
	}
	return mapCard(card), nil
}

func (h Handler) ListCardsByStatusHandler(
	ctx context.Context,
	status string,
	limit int,
) (httptransport.CardListResponse, error) {
	cards, err := h.Queries.ListCardsByStatus(ctx, entities.CardStatus(strings.ToLower(strings.TrimSpace(status))), limit)
	if err != nil {
		return httptransport.CardListResponse{}, err
	}
	items := make([]httptransport.CardDTO, 0, len(cards))
	for _, card := range cards {
		items = append(items, mapCard(card))
	}
	return httptransport.CardListResponse{Items: items}, nil
}

func (h Handler) AttachContractHandler(
	ctx context.Context,
	cardID string,
	req httptransport.AttachContractRequest,
) (httptransport.ContractDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	contract, err := h.Commands.AttachContract(ctx, commands.AttachContractCommand{
		CardID:      cardID,
		PlatformKey: req.PlatformKey,
		FormatKey:   req.FormatKey,
		Payload:     req.Payload,
	})
	if err != nil {
		logger.Warn("publishing http attach contract failed",
			"event", "publishing_http_attach_contract_failed",
			"module", "content-publishing/publishing-service",
			"layer", "adapter",
			"card_id", strings.TrimSpace(cardID),
			"platform_key", strings.TrimSpace(req.PlatformKey),
			"format_key", strings.TrimSpace(req.FormatKey),
			"error", err.Error(),
		)
		return httptransport.ContractDTO{}, err
	}
	logger.Info("publishing http attach contract completed",
		"event", "publishing_http_attach_contract_completed",
		"module", "content-publishing/publishing-service",
		"layer", "adapter",
		"card_id", strings.TrimSpace(cardID),
		"contract_id", contract.ID,
	)
	return mapContract(contract), nil
}

func (h Handler) ListContractsHandler(
	ctx context.Context,
	cardID string,
) (httptransport.ContractListResponse, error) {
	contracts, err := h.Queries.ListContractsByCard(ctx, cardID)
	if err != nil {
		return httptransport.ContractListResponse{}, err
	}
	items := make([]httptransport.ContractDTO, 0, len(contracts))
	for _, contract := range contracts {
		items = append(items, mapContract(contract))
	}
	return httptransport.ContractListResponse{Items: items}, nil
}

// MarkContractReadyHandler returns the validation result alongside the error
// so the transport can render violations on a 422.
func (h Handler) MarkContractReadyHandler(
	ctx context.Context,
	cardID string,
	contractID string,
) (httptransport.ValidationResultDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	result, err := h.Commands.MarkContractReady(ctx, commands.MarkContractReadyCommand{
		CardID:     cardID,
		ContractID: contractID,
	})
	if err != nil {
		logger.Warn("publishing http mark contract ready failed",
			"event", "publishing_http_mark_contract_ready_failed",
			"module", "content-publishing/publishing-service",
			"layer", "adapter",
			"card_id", strings.TrimSpace(cardID),
			"contract_id", strings.TrimSpace(contractID),
			"violation_count", len(result.Violations),
			"error", err.Error(),
		)
		return mapValidationResult(result), err
	}
	logger.Info("publishing http mark contract ready completed",
		"event", "publishing_http_mark_contract_ready_completed",
		"module", "content-publishing/publishing-service",
		"layer", "adapter",
		"card_id", strings.TrimSpace(cardID),
		"contract_id", strings.TrimSpace(contractID),
	)
	return mapValidationResult(result), nil
}

func (h Handler) ScheduleCardHandler(
	ctx context.Context,
	cardID string,
	req httptransport.ScheduleCardRequest,
) error {
	logger := application.ResolveLogger(h.Logger)
	publishAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.PublishAt))
	if err != nil {
		logger.Warn("publishing http schedule parse failed",
			"event", "publishing_http_schedule_parse_failed",
			"module", "content-publishing/publishing-service",
			"layer", "adapter",
			"card_id", strings.TrimSpace(cardID),
			"error", err.Error(),
		)
		return domainerrors.ErrInvalidSchedule
	}
	if err := h.Commands.ScheduleCard(ctx, commands.ScheduleCardCommand{
		CardID:    cardID,
		PublishAt: publishAt.UTC(),
	}); err != nil {
		logger.Warn("publishing http schedule failed",
			"event", "publishing_http_schedule_failed",
			"module", "content-publishing/publishing-service",
			"layer", "adapter",
			"card_id", strings.TrimSpace(cardID),
			"error", err.Error(),
		)
		return err
	}
	logger.Info("publishing http schedule completed",
		"event", "publishing_http_schedule_completed",
		"module", "content-publishing/publishing-service",
		"layer", "adapter",
		"card_id", strings.TrimSpace(cardID),
	)
	return nil
}

func (h Handler) UnscheduleCardHandler(ctx context.Context, cardID string) error {
	logger := application.ResolveLogger(h.Logger)
	if err := h.Commands.UnscheduleCard(ctx, commands.UnscheduleCardCommand{
		CardID: cardID,
	}); err != nil {
		logger.Warn("publishing http unschedule failed",
			"event", "publishing_http_unschedule_failed",
			"module", "content-publishing/publishing-service",
			"layer", "adapter",
			"card_id", strings.TrimSpace(cardID),
			"error", err.Error(),
		)
		return err
	}
	logger.Info("publishing http unschedule completed",
		"event", "publishing_http_unschedule_completed",
		"module", "content-publishing/publishing-service",
		"layer", "adapter",
		"card_id", strings.TrimSpace(cardID),
	)
	return nil
}

func (h Handler) PublishCardHandler(
	ctx context.Context,
	cardID string,
) (httptransport.PublishSummaryDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	summary, err := h.Commands.PublishCard(ctx, commands.PublishCardCommand{
		CardID: cardID,
	})
	if err != nil {
		logger.Warn("publishing http publish card failed",
			"event", "publishing_http_publish_card_failed",
			"module", "content-publishing/publishing-service",
			"layer", "adapter",
			"card_id", strings.TrimSpace(cardID),
			"error", err.Error(),
		)
		return httptransport.PublishSummaryDTO{}, err
	}

	card, err := h.Queries.GetCard(ctx, cardID)
	if err != nil {
		return httptransport.PublishSummaryDTO{}, err
	}
	logger.Info("publishing http publish card completed",
		"event", "publishing_http_publish_card_completed",
		"module", "content-publishing/publishing-service",
		"layer", "adapter",
		"card_id", card.ID,
		"published_count", summary.PublishedCount,
		"failed_count", summary.FailedCount,
		"card_status", string(card.Status),
	)
	return httptransport.PublishSummaryDTO{
		CardID:         card.ID,
		PublishedCount: summary.PublishedCount,
		FailedCount:    summary.FailedCount,
		CardStatus:     string(card.Status),
	}, nil
}

func mapCard(card entities.Card) httptransport.CardDTO {
	dto := httptransport.CardDTO{
		ID:          card.ID,
		BrandID:     card.BrandID,
		Title:       card.Title,
		Body:        card.Body,
		Description: card.Description,
		Status:      string(card.Status),
		CreatedAt:   card.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   card.UpdatedAt.Format(time.RFC3339),
	}
	if card.PublishAt != nil {
		dto.PublishAt = card.PublishAt.Format(time.RFC3339)
	}
	if card.PublishedAt != nil {
		dto.PublishedAt = card.PublishedAt.Format(time.RFC3339)
	}
	return dto
}

func mapContract(contract entities.Contract) httptransport.ContractDTO {
	dto := httptransport.ContractDTO{
		ID:             contract.ID,
		CardID:         contract.CardID,
		PlatformKey:    contract.PlatformKey,
		FormatKey:      contract.FormatKey,
		Payload:        contract.Payload,
		Status:         string(contract.Status),
		ExternalPostID: contract.ExternalPostID,
		ErrorMessage:   contract.ErrorMessage,
		CreatedAt:      contract.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      contract.UpdatedAt.Format(time.RFC3339),
	}
	if contract.PublishedAt != nil {
		dto.PublishedAt = contract.PublishedAt.Format(time.RFC3339)
	}
	return dto
}

func mapValidationResult(result catalogentities.ValidationResult) httptransport.ValidationResultDTO {
	violations := make([]httptransport.ViolationDTO, 0, len(result.Violations))
	for _, violation := range result.Violations {
		violations = append(violations, httptransport.ViolationDTO{
			Field:   violation.Field,
			Code:    string(violation.Code),
			Message: violation.Message,
		})
	}
	return httptransport.ValidationResultDTO{
		OK:         result.OK,
		Violations: violations,
	}
}
