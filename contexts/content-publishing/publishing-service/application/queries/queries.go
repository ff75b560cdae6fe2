package queries

import (
	"context"
	"log/slog"
	"strings"

	application "brandcast/contexts/content-publishing/publishing-service/application"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	"brandcast/contexts/content-publishing/publishing-service/ports"
)

type UseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc UseCase) GetCard(ctx context.Context, cardID string) (entities.Card, error) {
	logger := application.ResolveLogger(uc.Logger)
	normalizedCardID := strings.TrimSpace(cardID)
	card, err := uc.Repository.GetCard(ctx, normalizedCardID)
	if err != nil {
		logger.Warn("card query failed",
			"event", "publishing_query_get_card_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", normalizedCardID,
			"error", err.Error(),
		)
		return entities.Card{}, err
	}
	return card, nil
}

func (uc UseCase) ListContractsByCard(ctx context.Context, cardID string) ([]entities.Contract, error) {
	logger := application.ResolveLogger(uc.Logger)
	normalizedCardID := strings.TrimSpace(cardID)
	if _, err := uc.Repository.GetCard(ctx, normalizedCardID); err != nil {
		return nil, err
	}
	contracts, err := uc.Repository.ListContractsByCard(ctx, normalizedCardID)
	if err != nil {
		logger.Warn("contract list query failed",
			"event", "publishing_query_list_contracts_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"card_id", normalizedCardID,
			"error", err.Error(),
		)
		return nil, err
	}
	return contracts, nil
}

func (uc UseCase) ListCardsByStatus(
	ctx context.Context,
	status entities.CardStatus,
	limit int,
) ([]entities.Card, error) {
	logger := application.ResolveLogger(uc.Logger)
	cards, err := uc.Repository.ListCardsByStatus(ctx, status, limit)
	if err != nil {
		logger.Warn("card list query failed",
			"event", "publishing_query_list_cards_failed",
			"module", "content-publishing/publishing-service",
			"layer", "application",
			"status", string(status),
			"error", err.Error(),
		)
		return nil, err
	}
	return cards, nil
}
