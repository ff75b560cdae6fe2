package entities

import (
	"time"

	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
)

type CardStatus string

const (
	CardStatusDraft      CardStatus = "draft"
	CardStatusScheduled  CardStatus = "scheduled"
	CardStatusPublishing CardStatus = "publishing"
	CardStatusPublished  CardStatus = "published"
	CardStatusFailed     CardStatus = "failed"
)

// Card is the content unit being published. It owns zero or more contracts,
// one per distinct (platform, format) pair. Its terminal status is a pure
// function of its contracts' statuses at the moment orchestration completes.
type Card struct {
	ID          string
	BrandID     string
	Title       string
	Body        string
	Description string
	Status      CardStatus
	PublishAt   *time.Time
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Card) Schedule(publishAt time.Time, now time.Time) error {
	if c.Status != CardStatusDraft && c.Status != CardStatusScheduled {
		return domainerrors.ErrInvalidStateTransition
	}
	if !publishAt.After(now) {
		return domainerrors.ErrInvalidSchedule
	}
	scheduled := publishAt.UTC()
	c.Status = CardStatusScheduled
	c.PublishAt = &scheduled
	c.UpdatedAt = now.UTC()
	return nil
}

func (c *Card) Unschedule(now time.Time) error {
	if c.Status != CardStatusScheduled {
		return domainerrors.ErrInvalidStateTransition
	}
	c.Status = CardStatusDraft
	c.PublishAt = nil
	c.UpdatedAt = now.UTC()
	return nil
}

func (c *Card) BeginPublishing(now time.Time) error {
	switch c.Status {
	case CardStatusDraft, CardStatusScheduled, CardStatusFailed, CardStatusPublishing:
	default:
		return domainerrors.ErrInvalidStateTransition
	}
	c.Status = CardStatusPublishing
	c.UpdatedAt = now.UTC()
	return nil
}

func (c *Card) MarkPublished(now time.Time) error {
	if c.Status != CardStatusPublishing {
		return domainerrors.ErrInvalidStateTransition
	}
	c.Status = CardStatusPublished
	c.RecordFirstSuccess(now)
	c.UpdatedAt = now.UTC()
	return nil
}

func (c *Card) MarkFailed(now time.Time) error {
	if c.Status != CardStatusPublishing {
		return domainerrors.ErrInvalidStateTransition
	}
	c.Status = CardStatusFailed
	c.UpdatedAt = now.UTC()
	return nil
}

// RecordFirstSuccess keeps a truthful first-success timestamp even when the
// card as a whole ends up failed with mixed outcomes.
func (c *Card) RecordFirstSuccess(now time.Time) {
	if c.PublishedAt != nil {
		return
	}
	published := now.UTC()
	c.PublishedAt = &published
}
