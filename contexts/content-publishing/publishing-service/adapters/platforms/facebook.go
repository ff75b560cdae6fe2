package platforms

import (
	"context"
	"net/url"
	"strings"

	catalogentities "brandcast/contexts/content-publishing/format-catalog/domain/entities"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
	"brandcast/contexts/content-publishing/publishing-service/ports"
)

const PlatformKeyFacebook = "facebook"

// FacebookPublisher implements the single-step feed protocol: build one
// platform-native request from the payload and issue one write call. Any
// non-success response short-circuits with the platform's error message
// surfaced verbatim.
type FacebookPublisher struct {
	Client *GraphClient
	PageID string
}

func (p FacebookPublisher) PlatformKey() string {
	return PlatformKeyFacebook
}

func (p FacebookPublisher) Publish(
	ctx context.Context,
	contract entities.Contract,
	format catalogentities.PlatformFormat,
	accessToken string,
) entities.PublishOutcome {
	if strings.TrimSpace(accessToken) == "" {
		return missingTokenOutcome()
	}

	message := stringField(contract.Payload, "message")
	if format.Rules.HashtagStyle != catalogentities.HashtagStyleNone {
		message = renderHashtags(message, stringSliceField(contract.Payload, "hashtags"))
	}

	page := p.PageID
	if page == "" {
		page = "me"
	}

	values := url.Values{}
	values.Set("access_token", accessToken)
	endpoint := page + "/feed"
	if imageURL := stringField(contract.Payload, "image_url"); imageURL != "" {
		endpoint = page + "/photos"
		values.Set("url", imageURL)
		values.Set("caption", message)
	} else {
		values.Set("message", message)
	}
	if link := stringField(contract.Payload, "link"); link != "" && format.Rules.AllowsLinks {
		values.Set("link", link)
	}

	postID, err := p.Client.Post(ctx, endpoint, values)
	if err != nil {
		return failedOutcome(err.Error())
	}
	return entities.PublishOutcome{
		Success:        true,
		ExternalPostID: postID,
	}
}

var _ ports.Publisher = FacebookPublisher{}
