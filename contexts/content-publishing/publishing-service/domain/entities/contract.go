package entities

import (
	"strings"
	"time"

	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
)

type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "draft"
	ContractStatusReady      ContractStatus = "ready"
	ContractStatusPublishing ContractStatus = "publishing"
	ContractStatusPublished  ContractStatus = "published"
	ContractStatusFailed     ContractStatus = "failed"
)

// Contract binds a card to one (platform, format) pair together with the
// payload rendered for that target. Contracts transition independently of
// their siblings.
type Contract struct {
	ID             string
	CardID         string
	PlatformKey    string
	FormatKey      string
	Payload        map[string]any
	Status         ContractStatus
	ExternalPostID string
	ErrorMessage   string
	PublishedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c *Contract) MarkReady(now time.Time) error {
	switch c.Status {
	case ContractStatusDraft, ContractStatusReady, ContractStatusFailed:
	default:
		return domainerrors.ErrInvalidStateTransition
	}
	c.Status = ContractStatusReady
	c.ErrorMessage = ""
	c.UpdatedAt = now.UTC()
	return nil
}

// BeginPublishing is the claim point: only the caller that successfully flips
// a contract out of ready/failed owns it for the duration of one attempt.
func (c *Contract) BeginPublishing(now time.Time) error {
	switch c.Status {
	case ContractStatusReady, ContractStatusFailed:
	default:
		return domainerrors.ErrInvalidStateTransition
	}
	c.Status = ContractStatusPublishing
	c.UpdatedAt = now.UTC()
	return nil
}

func (c *Contract) MarkPublished(now time.Time, externalPostID string) error {
	if c.Status != ContractStatusPublishing {
		return domainerrors.ErrInvalidStateTransition
	}
	published := now.UTC()
	c.Status = ContractStatusPublished
	c.ExternalPostID = strings.TrimSpace(externalPostID)
	c.ErrorMessage = ""
	c.PublishedAt = &published
	c.UpdatedAt = published
	return nil
}

func (c *Contract) MarkFailed(now time.Time, message string) error {
	if c.Status != ContractStatusPublishing {
		return domainerrors.ErrInvalidStateTransition
	}
	c.Status = ContractStatusFailed
	c.ErrorMessage = strings.TrimSpace(message)
	c.UpdatedAt = now.UTC()
	return nil
}
