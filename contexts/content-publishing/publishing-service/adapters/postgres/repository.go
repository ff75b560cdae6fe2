package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
	"brandcast/contexts/content-publishing/publishing-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCard(ctx context.Context, card entities.Card) error {
	if strings.TrimSpace(card.ID) == "" ||
		strings.TrimSpace(card.BrandID) == "" ||
		strings.TrimSpace(card.Title) == "" {
		r.logWarn("publishing_repo_create_card_invalid_input",
			"card_id", strings.TrimSpace(card.ID),
			"brand_id", strings.TrimSpace(card.BrandID),
		)
		return domainerrors.ErrInvalidPublishingInput
	}

	row := cardModelFromEntity(card)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			r.logWarn("publishing_repo_create_card_unique_conflict",
				"card_id", row.ID,
				"brand_id", row.BrandID,
			)
			return domainerrors.ErrCardExists
		}
		return r.logError("publishing_repo_create_card_failed", err,
			"card_id", row.ID,
			"brand_id", row.BrandID,
		)
	}
	return nil
}

func (r *Repository) UpdateCard(ctx context.Context, card entities.Card) error {
	result := r.db.WithContext(ctx).
		Model(&cardModel{}).
		Where("id = ?", strings.TrimSpace(card.ID)).
		Updates(cardUpdatesFromEntity(card))
	if result.Error != nil {
		return r.logError("publishing_repo_update_card_failed", result.Error,
			"card_id", strings.TrimSpace(card.ID),
		)
	}
	if result.RowsAffected == 0 {
		r.logWarn("publishing_repo_update_card_not_found",
			"card_id", strings.TrimSpace(card.ID),
		)
		return domainerrors.ErrCardNotFound
	}
	return nil
}

func (r *Repository) GetCard(ctx context.Context, cardID string) (entities.Card, error) {
	var row cardModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(cardID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Card{}, domainerrors.ErrCardNotFound
		}
		return entities.Card{}, r.logError("publishing_repo_get_card_failed", err,
			"card_id", strings.TrimSpace(cardID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCardsByStatus(
	ctx context.Context,
	status entities.CardStatus,
	limit int,
) ([]entities.Card, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []cardModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("publishing_repo_list_cards_by_status_failed", err,
			"status", string(status),
			"limit", limit,
		)
	}
	cards := make([]entities.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.toEntity())
	}
	return cards, nil
}

func (r *Repository) ListDueScheduled(
	ctx context.Context,
	threshold time.Time,
	limit int,
) ([]entities.Card, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []cardModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.CardStatusScheduled)).
		Where("publish_at_utc IS NOT NULL").
		Where("publish_at_utc <= ?", threshold.UTC()).
		Order("publish_at_utc ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("publishing_repo_list_due_scheduled_failed", err,
			"threshold_utc", threshold.UTC().Format(time.RFC3339),
			"limit", limit,
		)
	}
	cards := make([]entities.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.toEntity())
	}
	return cards, nil
}

func (r *Repository) CreateContract(ctx context.Context, contract entities.Contract) error {
	if strings.TrimSpace(contract.ID) == "" ||
		strings.TrimSpace(contract.CardID) == "" ||
		strings.TrimSpace(contract.PlatformKey) == "" ||
		strings.TrimSpace(contract.FormatKey) == "" {
		r.logWarn("publishing_repo_create_contract_invalid_input",
			"contract_id", strings.TrimSpace(contract.ID),
			"card_id", strings.TrimSpace(contract.CardID),
		)
		return domainerrors.ErrInvalidPublishingInput
	}

	row, err := contractModelFromEntity(contract)
	if err != nil {
		return r.logError("publishing_repo_create_contract_encode_failed", err,
			"contract_id", strings.TrimSpace(contract.ID),
		)
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			r.logWarn("publishing_repo_create_contract_unique_conflict",
				"contract_id", row.ID,
				"card_id", row.CardID,
				"platform_key", row.PlatformKey,
				"format_key", row.FormatKey,
			)
			return domainerrors.ErrContractExists
		}
		return r.logError("publishing_repo_create_contract_failed", err,
			"contract_id", row.ID,
			"card_id", row.CardID,
		)
	}
	return nil
}

func (r *Repository) UpdateContract(ctx context.Context, contract entities.Contract) error {
	updates, err := contractUpdatesFromEntity(contract)
	if err != nil {
		return r.logError("publishing_repo_update_contract_encode_failed", err,
			"contract_id", strings.TrimSpace(contract.ID),
		)
	}
	result := r.db.WithContext(ctx).
		Model(&contractModel{}).
		Where("id = ?", strings.TrimSpace(contract.ID)).
		Updates(updates)
	if result.Error != nil {
		return r.logError("publishing_repo_update_contract_failed", result.Error,
			"contract_id", strings.TrimSpace(contract.ID),
		)
	}
	if result.RowsAffected == 0 {
		r.logWarn("publishing_repo_update_contract_not_found",
			"contract_id", strings.TrimSpace(contract.ID),
		)
		return domainerrors.ErrContractNotFound
	}
	return nil
}

func (r *Repository) GetContract(ctx context.Context, contractID string) (entities.Contract, error) {
	var row contractModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(contractID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Contract{}, domainerrors.ErrContractNotFound
		}
		return entities.Contract{}, r.logError("publishing_repo_get_contract_failed", err,
			"contract_id", strings.TrimSpace(contractID),
		)
	}
	return row.toEntity()
}

func (r *Repository) ListContractsByCard(ctx context.Context, cardID string) ([]entities.Contract, error) {
	var rows []contractModel
	if err := r.db.WithContext(ctx).
		Where("card_id = ?", strings.TrimSpace(cardID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("publishing_repo_list_contracts_by_card_failed", err,
			"card_id", strings.TrimSpace(cardID),
		)
	}
	contracts := make([]entities.Contract, 0, len(rows))
	for _, row := range rows {
		contract, err := row.toEntity()
		if err != nil {
			return nil, r.logError("publishing_repo_list_contracts_decode_failed", err,
				"contract_id", row.ID,
			)
		}
		contracts = append(contracts, contract)
	}
	return contracts, nil
}

// ClaimContractForPublishing uses a conditional UPDATE as an optimistic lock:
// only a contract still in ready or failed flips to publishing, so two racing
// invocations can never both claim the same row.
func (r *Repository) ClaimContractForPublishing(
	ctx context.Context,
	contractID string,
	claimedAt time.Time,
) (entities.Contract, bool, error) {
	result := r.db.WithContext(ctx).
		Model(&contractModel{}).
		Where("id = ?", strings.TrimSpace(contractID)).
		Where("status IN ?", []string{
			string(entities.ContractStatusReady),
			string(entities.ContractStatusFailed),
		}).
		Updates(map[string]any{
			"status":     string(entities.ContractStatusPublishing),
			"updated_at": claimedAt.UTC(),
		})
	if result.Error != nil {
		return entities.Contract{}, false, r.logError("publishing_repo_claim_contract_failed", result.Error,
			"contract_id", strings.TrimSpace(contractID),
		)
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).
			Model(&contractModel{}).
			Where("id = ?", strings.TrimSpace(contractID)).
			Count(&exists).Error; err != nil {
			return entities.Contract{}, false, r.logError("publishing_repo_claim_contract_lookup_failed", err,
				"contract_id", strings.TrimSpace(contractID),
			)
		}
		if exists == 0 {
			return entities.Contract{}, false, domainerrors.ErrContractNotFound
		}
		return entities.Contract{}, false, nil
	}

	contract, err := r.GetContract(ctx, contractID)
	if err != nil {
		return entities.Contract{}, false, err
	}
	return contract, true, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("publishing_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if createResult.Error != nil {
		return r.logError("publishing_repo_append_outbox_insert_failed", createResult.Error,
			"outbox_id", row.OutboxID,
			"event_type", row.EventType,
		)
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return r.logError("publishing_repo_append_outbox_load_existing_failed", err,
			"outbox_id", row.OutboxID,
		)
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		r.logWarn("publishing_repo_append_outbox_payload_conflict",
			"outbox_id", row.OutboxID,
			"event_type", row.EventType,
		)
		return domainerrors.ErrInvalidPublishingInput
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("publishing_repo_list_pending_outbox_failed", err,
			"limit", limit,
		)
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

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("publishing_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		r.logWarn("publishing_repo_mark_outbox_published_not_found",
			"outbox_id", strings.TrimSpace(outboxID),
		)
		return domainerrors.ErrInvalidPublishingInput
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+7)
	fields = append(fields,
		"event", event,
		"module", "content-publishing/publishing-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("publishing repository operation failed", fields...)
	return err
}

func (r *Repository) logWarn(event string, attrs ...any) {
	fields := make([]any, 0, len(attrs)+5)
	fields = append(fields,
		"event", event,
		"module", "content-publishing/publishing-service",
		"layer", "adapter",
	)
	fields = append(fields, attrs...)
	r.logger.Warn("publishing repository warning", fields...)
}

type cardModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	BrandID     string     `gorm:"column:brand_id"`
	Title       string     `gorm:"column:title"`
	Body        string     `gorm:"column:body"`
	Description string     `gorm:"column:description"`
	Status      string     `gorm:"column:status"`
	PublishAt   *time.Time `gorm:"column:publish_at_utc"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (cardModel) TableName() string {
	return "publishing_cards"
}

func cardModelFromEntity(card entities.Card) cardModel {
	return cardModel{
		ID:          strings.TrimSpace(card.ID),
		BrandID:     strings.TrimSpace(card.BrandID),
		Title:       strings.TrimSpace(card.Title),
		Body:        card.Body,
		Description: card.Description,
		Status:      string(card.Status),
		PublishAt:   normalizeOptionalTime(card.PublishAt),
		PublishedAt: normalizeOptionalTime(card.PublishedAt),
		CreatedAt:   card.CreatedAt.UTC(),
		UpdatedAt:   card.UpdatedAt.UTC(),
	}
}

func cardUpdatesFromEntity(card entities.Card) map[string]any {
	row := cardModelFromEntity(card)
	return map[string]any{
		"brand_id":       row.BrandID,
		"title":          row.Title,
		"body":           row.Body,
		"description":    row.Description,
		"status":         row.Status,
		"publish_at_utc": row.PublishAt,
		"published_at":   row.PublishedAt,
		"updated_at":     row.UpdatedAt,
	}
}

func (m cardModel) toEntity() entities.Card {
	return entities.Card{
		ID:          m.ID,
		BrandID:     m.BrandID,
		Title:       m.Title,
		Body:        m.Body,
		Description: m.Description,
		Status:      entities.CardStatus(m.Status),
		PublishAt:   normalizeOptionalTime(m.PublishAt),
		PublishedAt: normalizeOptionalTime(m.PublishedAt),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type contractModel struct {
	ID             string     `gorm:"column:id;primaryKey"`
	CardID         string     `gorm:"column:card_id"`
	PlatformKey    string     `gorm:"column:platform_key"`
	FormatKey      string     `gorm:"column:format_key"`
	Payload        []byte     `gorm:"column:payload;type:jsonb"`
	Status         string     `gorm:"column:status"`
	ExternalPostID string     `gorm:"column:external_post_id"`
	ErrorMessage   string     `gorm:"column:error_message"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (contractModel) TableName() string {
	return "publishing_contracts"
}

func contractModelFromEntity(contract entities.Contract) (contractModel, error) {
	payload, err := json.Marshal(contract.Payload)
	if err != nil {
		return contractModel{}, err
	}
	return contractModel{
		ID:             strings.TrimSpace(contract.ID),
		CardID:         strings.TrimSpace(contract.CardID),
		PlatformKey:    strings.TrimSpace(contract.PlatformKey),
		FormatKey:      strings.TrimSpace(contract.FormatKey),
		Payload:        payload,
		Status:         string(contract.Status),
		ExternalPostID: strings.TrimSpace(contract.ExternalPostID),
		ErrorMessage:   contract.ErrorMessage,
		PublishedAt:    normalizeOptionalTime(contract.PublishedAt),
		CreatedAt:      contract.CreatedAt.UTC(),
		UpdatedAt:      contract.UpdatedAt.UTC(),
	}, nil
}

func contractUpdatesFromEntity(contract entities.Contract) (map[string]any, error) {
	row, err := contractModelFromEntity(contract)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"card_id":          row.CardID,
		"platform_key":     row.PlatformKey,
		"format_key":       row.FormatKey,
		"payload":          row.Payload,
		"status":           row.Status,
		"external_post_id": row.ExternalPostID,
		"error_message":    row.ErrorMessage,
		"published_at":     row.PublishedAt,
		"updated_at":       row.UpdatedAt,
	}, nil
}

func (m contractModel) toEntity() (entities.Contract, error) {
	payload := map[string]any{}
	if len(m.Payload) > 0 {
		if err := json.Unmarshal(m.Payload, &payload); err != nil {
			return entities.Contract{}, err
		}
	}
	return entities.Contract{
		ID:             m.ID,
		CardID:         m.CardID,
		PlatformKey:    m.PlatformKey,
		FormatKey:      m.FormatKey,
		Payload:        payload,
		Status:         entities.ContractStatus(m.Status),
		ExternalPostID: m.ExternalPostID,
		ErrorMessage:   m.ErrorMessage,
		PublishedAt:    normalizeOptionalTime(m.PublishedAt),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}, nil
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "publishing_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	t := value.UTC()
	return &t
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
