package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCardRequest struct {
	BrandID     string `json:"brand_id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Description string `json:"description,omitempty"`
}

type AttachContractRequest struct {
	PlatformKey string         `json:"platform_key"`
	FormatKey   string         `json:"format_key"`
	Payload     map[string]any `json:"payload"`
}

type ScheduleCardRequest struct {
	PublishAt string `json:"publish_at"`
}

type CardDTO struct {
	ID          string `json:"id"`
	BrandID     string `json:"brand_id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	PublishAt   string `json:"publish_at,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ContractDTO struct {
	ID             string         `json:"id"`
	CardID         string         `json:"card_id"`
	PlatformKey    string         `json:"platform_key"`
	FormatKey      string         `json:"format_key"`
	Payload        map[string]any `json:"payload"`
	Status         string         `json:"status"`
	ExternalPostID string         `json:"external_post_id,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	PublishedAt    string         `json:"published_at,omitempty"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

type ViolationDTO struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationResultDTO struct {
	OK         bool           `json:"ok"`
	Violations []ViolationDTO `json:"violations"`
}

type PublishSummaryDTO struct {
	CardID         string `json:"card_id"`
	PublishedCount int    `json:"published_count"`
	FailedCount    int    `json:"failed_count"`
	CardStatus     string `json:"card_status"`
}

type ContractListResponse struct {
	Items []ContractDTO `json:"items"`
}

type CardListResponse struct {
	Items []CardDTO `json:"items"`
}
