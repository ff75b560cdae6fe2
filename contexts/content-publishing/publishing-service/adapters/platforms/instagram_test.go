package platforms

import (
	"context"
	"strings"
	"testing"

	catalogentities "brandcast/contexts/content-publishing/format-catalog/domain/entities"
	"brandcast/contexts/content-publishing/publishing-service/domain/entities"
)

func instagramFormat(key string, rules catalogentities.FormatRules) catalogentities.PlatformFormat {
	return catalogentities.PlatformFormat{
		PlatformKey: "instagram",
		FormatKey:   key,
		Rules:       rules,
	}
}

func TestInstagramSingleImageRunsContainerProtocol(t *testing.T) {
	server, calls := graphStub(t,
		`{"id":"container-1"}`,
		`{"id":"media-55"}`,
	)
	publisher := InstagramPublisher{
		Client: NewGraphClient(server.URL, 0, nil),
		UserID: "user-1",
	}

	outcome := publisher.Publish(context.Background(), entities.Contract{
		Payload: map[string]any{
			"caption":   "sunset",
			"hashtags":  []any{"nofilter"},
			"image_url": "https://cdn.example.com/sunset.jpg",
		},
	}, instagramFormat("feed_image", catalogentities.FormatRules{
		HashtagStyle: catalogentities.HashtagStyleMany,
	}), "ig-token")

	if !outcome.Success || outcome.ExternalPostID != "media-55" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if len(*calls) != 2 {
		t.Fatalf("expected container plus publish calls, got %d", len(*calls))
	}
	create := (*calls)[0]
	if create.Path != "/user-1/media" {
		t.Fatalf("unexpected create path %s", create.Path)
	}
	if create.Values["caption"] != "sunset\n\n#nofilter" {
		t.Fatalf("unexpected caption %q", create.Values["caption"])
	}
	publish := (*calls)[1]
	if publish.Path != "/user-1/media_publish" || publish.Values["creation_id"] != "container-1" {
		t.Fatalf("unexpected publish call %+v", publish)
	}
}

func TestInstagramReelSetsMediaType(t *testing.T) {
	server, calls := graphStub(t,
		`{"id":"container-2"}`,
		`{"id":"media-56"}`,
	)
	publisher := InstagramPublisher{
		Client: NewGraphClient(server.URL, 0, nil),
		UserID: "user-1",
	}

	outcome := publisher.Publish(context.Background(), entities.Contract{
		Payload: map[string]any{
			"caption":   "clip",
			"video_url": "https://cdn.example.com/clip.mp4",
			"cover_url": "https://cdn.example.com/cover.jpg",
		},
	}, instagramFormat("reel", catalogentities.FormatRules{
		HashtagStyle:       catalogentities.HashtagStyleMany,
		MaxDurationSeconds: 90,
	}), "ig-token")

	if !outcome.Success {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	create := (*calls)[0]
	if create.Values["media_type"] != "REELS" || create.Values["cover_url"] == "" {
		t.Fatalf("unexpected create form %+v", create.Values)
	}
}

func TestInstagramStoryOverridesMediaType(t *testing.T) {
	server, calls := graphStub(t,
		`{"id":"container-3"}`,
		`{"id":"media-57"}`,
	)
	publisher := InstagramPublisher{
		Client: NewGraphClient(server.URL, 0, nil),
		UserID: "user-1",
	}

	outcome := publisher.Publish(context.Background(), entities.Contract{
		Payload: map[string]any{
			"caption":   "gone tomorrow",
			"image_url": "https://cdn.example.com/story.jpg",
		},
	}, instagramFormat("story", catalogentities.FormatRules{
		HashtagStyle: catalogentities.HashtagStyleNone,
		Ephemeral:    true,
	}), "ig-token")

	if !outcome.Success {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if (*calls)[0].Values["media_type"] != "STORIES" {
		t.Fatalf("ephemeral format must post a story, got %q", (*calls)[0].Values["media_type"])
	}
}

func TestInstagramCarouselHappyPath(t *testing.T) {
	server, calls := graphStub(t,
		`{"id":"child-1"}`,
		`{"id":"child-2"}`,
		`{"id":"parent-1"}`,
		`{"id":"media-58"}`,
	)
	publisher := InstagramPublisher{
		Client: NewGraphClient(server.URL, 0, nil),
		UserID: "user-1",
	}

	outcome := publisher.Publish(context.Background(), entities.Contract{
		Payload: map[string]any{
			"caption": "three looks",
			"slides": []any{
				map[string]any{"image_url": "https://cdn.example.com/1.jpg", "alt_text": "look one"},
				map[string]any{"image_url": "https://cdn.example.com/2.jpg"},
			},
		},
	}, instagramFormat("carousel", catalogentities.FormatRules{
		HashtagStyle: catalogentities.HashtagStyleMany,
	}), "ig-token")

	if !outcome.Success || outcome.ExternalPostID != "media-58" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if len(*calls) != 4 {
		t.Fatalf("expected 4 calls, got %d", len(*calls))
	}
	for i := 0; i < 2; i++ {
		child := (*calls)[i]
		if child.Values["is_carousel_item"] != "true" {
			t.Fatalf("child %d missing carousel marker: %+v", i, child.Values)
		}
	}
	parent := (*calls)[2]
	if parent.Values["media_type"] != "CAROUSEL" || parent.Values["children"] != "child-1,child-2" {
		t.Fatalf("unexpected parent form %+v", parent.Values)
	}
	if (*calls)[3].Values["creation_id"] != "parent-1" {
		t.Fatalf("unexpected publish form %+v", (*calls)[3].Values)
	}
}

func TestInstagramCarouselRejectsSingleSlideWithoutCalls(t *testing.T) {
	server, calls := graphStub(t)
	publisher := InstagramPublisher{
		Client: NewGraphClient(server.URL, 0, nil),
		UserID: "user-1",
	}

	outcome := publisher.Publish(context.Background(), entities.Contract{
		Payload: map[string]any{
			"caption": "lonely",
			"slides": []any{
				map[string]any{"image_url": "https://cdn.example.com/1.jpg"},
			},
		},
	}, instagramFormat("carousel", catalogentities.FormatRules{
		HashtagStyle: catalogentities.HashtagStyleMany,
	}), "ig-token")

	if outcome.Success {
		t.Fatalf("expected failure")
	}
	if outcome.Error != insufficientCarouselItemsMessage {
		t.Fatalf("unexpected error %q", outcome.Error)
	}
	if len(*calls) != 0 {
		t.Fatalf("no platform call may be issued for an undersized carousel, got %d", len(*calls))
	}
}

func TestInstagramPublishStepFailureKeepsContainerID(t *testing.T) {
	server, _ := graphStub(t,
		`{"id":"container-9"}`,
		`{"error":{"message":"media not ready","type":"Transient","code":9007}}`,
	)
	publisher := InstagramPublisher{
		Client: NewGraphClient(server.URL, 0, nil),
		UserID: "user-1",
	}

	outcome := publisher.Publish(context.Background(), entities.Contract{
		Payload: map[string]any{
			"caption":   "stalled",
			"image_url": "https://cdn.example.com/stalled.jpg",
		},
	}, instagramFormat("feed_image", catalogentities.FormatRules{
		HashtagStyle: catalogentities.HashtagStyleNone,
	}), "ig-token")

	if outcome.Success {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(outcome.Error, "publish media container container-9") ||
		!strings.Contains(outcome.Error, "media not ready") {
		t.Fatalf("unexpected error %q", outcome.Error)
	}
}

func TestInstagramMissingMediaField(t *testing.T) {
	server, calls := graphStub(t)
	publisher := InstagramPublisher{
		Client: NewGraphClient(server.URL, 0, nil),
		UserID: "user-1",
	}

	outcome := publisher.Publish(context.Background(), entities.Contract{
		Payload: map[string]any{"caption": "mediafree"},
	}, instagramFormat("feed_image", catalogentities.FormatRules{
		HashtagStyle: catalogentities.HashtagStyleNone,
	}), "ig-token")

	if outcome.Success || outcome.Error != "payload carries neither image_url nor video_url" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if len(*calls) != 0 {
		t.Fatalf("no call expected, got %d", len(*calls))
	}
}
