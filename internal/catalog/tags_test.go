package catalog

import (
	"context"
	"testing"
)

func TestGetOrCreateTag(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateTag(ctx, "outdoor")
	if err != nil {
		t.Fatalf("GetOrCreateTag failed: %v", err)
	}
	second, err := s.GetOrCreateTag(ctx, "outdoor")
	if err != nil {
		t.Fatalf("GetOrCreateTag failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Same name produced different tags: %d vs %d", first.ID, second.ID)
	}

	if _, err := s.GetOrCreateTag(ctx, "   "); err == nil {
		t.Error("Expected error for blank tag name")
	}
}

func TestAssignTagsReplacesExisting(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")
	videoID := seedVideo(t, s, activityID, "Finals")

	if err := s.AssignTagsToVideo(ctx, videoID, []string{"outdoor", "championship"}); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}

	// Reassignment replaces, it does not merge
	if err := s.AssignTagsToVideo(ctx, videoID, []string{"indoor", " ", ""}); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}

	tags, err := s.GetVideoTags(ctx, videoID)
	if err != nil {
		t.Fatalf("GetVideoTags failed: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "indoor" {
		t.Errorf("Tags = %v, want just indoor", tags)
	}

	// Old tags still exist in the tag table for reuse
	names, err := s.GetUniqueTags(ctx)
	if err != nil {
		t.Fatalf("GetUniqueTags failed: %v", err)
	}
	if len(names) != 3 {
		t.Errorf("Unique tags = %v, want 3 names", names)
	}
}

func TestAssignTagsEmptyListClears(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")
	videoID := seedVideo(t, s, activityID, "Finals")

	if err := s.AssignTagsToVideo(ctx, videoID, []string{"outdoor"}); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}
	if err := s.AssignTagsToVideo(ctx, videoID, nil); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}

	tags, err := s.GetVideoTags(ctx, videoID)
	if err != nil {
		t.Fatalf("GetVideoTags failed: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("Got %d tags after clearing, want 0", len(tags))
	}
}

func TestGetVideosByTags(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")

	first := seedVideo(t, s, activityID, "Finals")
	second := seedVideo(t, s, activityID, "Warmup")
	seedVideo(t, s, activityID, "Untagged")

	if err := s.AssignTagsToVideo(ctx, first, []string{"outdoor", "championship"}); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}
	if err := s.AssignTagsToVideo(ctx, second, []string{"outdoor"}); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}

	videos, err := s.GetVideosByTags(ctx, []string{"outdoor"})
	if err != nil {
		t.Fatalf("GetVideosByTags failed: %v", err)
	}
	if len(videos) != 2 {
		t.Errorf("Got %d videos for outdoor, want 2", len(videos))
	}

	// Any-of semantics, no duplicates for multi-tag matches
	videos, err = s.GetVideosByTags(ctx, []string{"outdoor", "championship"})
	if err != nil {
		t.Fatalf("GetVideosByTags failed: %v", err)
	}
	if len(videos) != 2 {
		t.Errorf("Got %d videos for any-of query, want 2", len(videos))
	}

	none, err := s.GetVideosByTags(ctx, nil)
	if err != nil {
		t.Fatalf("GetVideosByTags failed: %v", err)
	}
	if none != nil {
		t.Errorf("Empty tag list returned %v, want nil", none)
	}
}

func TestDeleteTagCascadesJunction(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")
	videoID := seedVideo(t, s, activityID, "Finals")

	if err := s.AssignTagsToVideo(ctx, videoID, []string{"outdoor"}); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}

	tags, err := s.GetAllTags(ctx)
	if err != nil {
		t.Fatalf("GetAllTags failed: %v", err)
	}
	if err := s.DeleteTag(ctx, tags[0].ID); err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}

	remaining, err := s.GetVideoTags(ctx, videoID)
	if err != nil {
		t.Fatalf("GetVideoTags failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Video still has %d tags after tag delete", len(remaining))
	}
}
