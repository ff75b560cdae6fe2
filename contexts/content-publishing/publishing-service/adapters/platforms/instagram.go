package platforms

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	catalogentities "brandcast/contexts/content-publishing/format-catalog/domain/entities"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	"brandcast/contexts/content-publishing/publishing-service/ports"
)

const (
	PlatformKeyInstagram = "instagram"

	carouselFormatKey    = "carousel"
	minimumCarouselItems = 2

	insufficientCarouselItemsMessage = "insufficient carousel items: a carousel requires at least 2 slides"
)

// InstagramPublisher implements the container protocol: create one container
// resource per media item, then issue a separate publish call. Steps are
// strictly sequential; the first failure aborts the remaining steps. Success
// is defined solely by the publish step returning an external identifier.
type InstagramPublisher struct {
	Client *GraphClient
	UserID string
}

func (p InstagramPublisher) PlatformKey() string {
	return PlatformKeyInstagram
}

func (p InstagramPublisher) Publish(
	ctx context.Context,
	contract entities.Contract,
	format catalogentities.PlatformFormat,
	accessToken string,
) entities.PublishOutcome {
	if strings.TrimSpace(accessToken) == "" {
		return missingTokenOutcome()
	}
	if format.FormatKey == carouselFormatKey {
		return p.publishCarousel(ctx, contract, format, accessToken)
	}
	return p.publishSingle(ctx, contract, format, accessToken)
}

func (p InstagramPublisher) publishSingle(
	ctx context.Context,
	contract entities.Contract,
	format catalogentities.PlatformFormat,
	accessToken string,
) entities.PublishOutcome {
	values := url.Values{}
	values.Set("access_token", accessToken)
	values.Set("caption", p.renderCaption(contract, format))

	switch {
	case stringField(contract.Payload, "video_url") != "":
		values.Set("media_type", "REELS")
		values.Set("video_url", stringField(contract.Payload, "video_url"))
		if cover := stringField(contract.Payload, "cover_url"); cover != "" {
			values.Set("cover_url", cover)
		}
	case stringField(contract.Payload, "image_url") != "":
		values.Set("image_url", stringField(contract.Payload, "image_url"))
	default:
		return failedOutcome("payload carries neither image_url nor video_url")
	}
	if format.Rules.Ephemeral {
		values.Set("media_type", "STORIES")
	}

	containerID, err := p.Client.Post(ctx, p.user()+"/media", values)
	if err != nil {
		return failedOutcome("create media container: " + err.Error())
	}
	return p.publishContainer(ctx, containerID, accessToken)
}

func (p InstagramPublisher) publishCarousel(
	ctx context.Context,
	contract entities.Contract,
	format catalogentities.PlatformFormat,
	accessToken string,
) entities.PublishOutcome {
	slides := objectSliceField(contract.Payload, "slides")
	if len(slides) < minimumCarouselItems {
		// Enforced before any publish call is attempted.
		return failedOutcome(insufficientCarouselItemsMessage)
	}

	childIDs := make([]string, 0, len(slides))
	for index, slide := range slides {
		values := url.Values{}
		values.Set("access_token", accessToken)
		values.Set("is_carousel_item", "true")
		values.Set("image_url", stringField(slide, "image_url"))
		if altText := stringField(slide, "alt_text"); altText != "" {
			values.Set("alt_text", altText)
		}
		childID, err := p.Client.Post(ctx, p.user()+"/media", values)
		if err != nil {
			return failedOutcome("create carousel item " + strconv.Itoa(index+1) + ": " + err.Error())
		}
		childIDs = append(childIDs, childID)
	}

	values := url.Values{}
	values.Set("access_token", accessToken)
	values.Set("media_type", "CAROUSEL")
	values.Set("children", strings.Join(childIDs, ","))
	values.Set("caption", p.renderCaption(contract, format))
	parentID, err := p.Client.Post(ctx, p.user()+"/media", values)
	if err != nil {
		return failedOutcome("create carousel container: " + err.Error())
	}
	return p.publishContainer(ctx, parentID, accessToken)
}

// publishContainer is the final protocol step. A failure here after container
// creation is terminal: the container id stays in the error message for
// operator remediation and is never reused automatically.
func (p InstagramPublisher) publishContainer(
	ctx context.Context,
	containerID string,
	accessToken string,
) entities.PublishOutcome {
	values := url.Values{}
	values.Set("access_token", accessToken)
	values.Set("creation_id", containerID)
	postID, err := p.Client.Post(ctx, p.user()+"/media_publish", values)
	if err != nil {
		return failedOutcome(fmt.Sprintf("publish media container %s: %v", containerID, err))
	}
	return entities.PublishOutcome{
		Success:        true,
		ExternalPostID: postID,
	}
}

func (p InstagramPublisher) renderCaption(
	contract entities.Contract,
	format catalogentities.PlatformFormat,
) string {
	caption := stringField(contract.Payload, "caption")
	if format.Rules.HashtagStyle == catalogentities.HashtagStyleNone {
		return caption
	}
	return renderHashtags(caption, stringSliceField(contract.Payload, "hashtags"))
}

func (p InstagramPublisher) user() string {
	if p.UserID == "" {
		return "me"
	}
	return p.UserID
}

var _ ports.Publisher = InstagramPublisher{}
