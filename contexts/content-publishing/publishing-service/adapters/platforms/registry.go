package platforms

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	catalogentities "brandcast/contexts/content-publishing/format-catalog/domain/entities"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	domainerrors "brandcast/contexts/content-publishing/publishing-service/domain/errors"
	"brandcast/contexts/content-publishing/publishing-service/ports"
)

// Registry maps platform keys to their publishers, populated at startup.
// Unknown keys resolve to a null publisher so call sites never special-case
// unsupported platforms.
type Registry struct {
	publishers map[string]ports.Publisher
	logger     *slog.Logger
}

func NewRegistry(logger *slog.Logger, publishers ...ports.Publisher) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	registry := &Registry{
		publishers: make(map[string]ports.Publisher, len(publishers)),
		logger:     logger,
	}
	for _, publisher := range publishers {
		registry.publishers[normalizePlatformKey(publisher.PlatformKey())] = publisher
	}
	return registry
}

func (r *Registry) Resolve(platformKey string) ports.Publisher {
	key := normalizePlatformKey(platformKey)
	if publisher, exists := r.publishers[key]; exists {
		return publisher
	}
	r.logger.Warn("no publisher registered for platform",
		"event", "platform_publisher_unresolved",
		"module", "content-publishing/publishing-service",
		"layer", "adapter",
		"platform", key,
	)
	return NullPublisher{Platform: key}
}

// NullPublisher reports every contract as an unsupported-platform failure.
type NullPublisher struct {
	Platform string
}

func (p NullPublisher) PlatformKey() string {
	return p.Platform
}

func (p NullPublisher) Publish(
	_ context.Context,
	_ entities.Contract,
	_ catalogentities.PlatformFormat,
	_ string,
) entities.PublishOutcome {
	return entities.PublishOutcome{
		Error: fmt.Sprintf("unsupported platform %q", p.Platform),
	}
}

func normalizePlatformKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func failedOutcome(message string) entities.PublishOutcome {
	return entities.PublishOutcome{Error: message}
}

func missingTokenOutcome() entities.PublishOutcome {
	return failedOutcome(domainerrors.ErrNoValidAccessToken.Error())
}

var _ ports.PublisherRegistry = (*Registry)(nil)
var _ ports.Publisher = NullPublisher{}
