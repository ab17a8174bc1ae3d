package catalog

import (
	"context"
	"testing"
)

func boolPtr(b bool) *bool {
	return &b
}

// seedSearchFixture builds a small catalog exercising every search
// dimension: two activities in different classes, local and link-only
// videos, mixed formats, sizes, durations, versions and tags.
func seedSearchFixture(t testing.TB, s *Store) {
	t.Helper()
	ctx := context.Background()

	sports, err := s.AddActivity(ctx, "Sports Day", "", "Grade 5", "A")
	if err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}
	concert, err := s.AddActivity(ctx, "Spring Concert", "", "Grade 6", "B")
	if err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}

	videos := []*Video{
		{ActivityID: sports, Title: "Finals", FileName: "finals.mp4", FileSize: 50 << 20,
			Duration: 300, Format: "MP4", HasLocalCopy: true},
		{ActivityID: sports, Title: "Finals", FileName: "finals_v2.mp4", FileSize: 80 << 20,
			Duration: 320, Format: "MP4", HasLocalCopy: true, Description: "remastered"},
		{ActivityID: sports, Title: "Warmup", YouTubeURL: "https://youtu.be/abc123def45",
			HasYouTubeLink: true, Format: ""},
		{ActivityID: concert, Title: "Overture", FileName: "overture.mov", FileSize: 10 << 20,
			Duration: 120, Format: "MOV", HasLocalCopy: true},
	}
	var ids []int64
	for _, v := range videos {
		id, err := s.AddVideo(ctx, v)
		if err != nil {
			t.Fatalf("AddVideo failed: %v", err)
		}
		ids = append(ids, id)
	}

	if err := s.AssignTagsToVideo(ctx, ids[0], []string{"championship", "outdoor"}); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}
	if err := s.AssignTagsToVideo(ctx, ids[3], []string{"music"}); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}
}

func TestSearchVideosFilters(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	seedSearchFixture(t, s)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter SearchFilter
		want   int
	}{
		{"no filter", SearchFilter{}, 4},
		{"text matches title", SearchFilter{Text: "Finals"}, 2},
		{"text matches description", SearchFilter{Text: "remastered"}, 1},
		{"text matches activity name", SearchFilter{Text: "Concert"}, 1},
		{"text matches file name", SearchFilter{Text: "overture"}, 1},
		{"class filter", SearchFilter{Class: "Grade 5"}, 3},
		{"class All is unfiltered", SearchFilter{Class: "All"}, 4},
		{"section filter", SearchFilter{Section: "B"}, 1},
		{"tag filter", SearchFilter{Tags: []string{"championship"}}, 1},
		{"multiple tags are any-of", SearchFilter{Tags: []string{"championship", "music"}}, 2},
		{"unknown tag", SearchFilter{Tags: []string{"nope"}}, 0},
		{"format filter", SearchFilter{Format: "MOV"}, 1},
		{"size min", SearchFilter{SizeMin: 60 << 20}, 1},
		{"size max", SearchFilter{SizeMax: 20 << 20}, 1},
		{"duration range", SearchFilter{DurationMin: 100, DurationMax: 310}, 2},
		{"version min", SearchFilter{VersionMin: 2}, 1},
		{"status filter", SearchFilter{Status: StatusActive}, 4},
		{"local only", SearchFilter{HasLocalCopy: boolPtr(true)}, 3},
		{"link only", SearchFilter{HasLocalCopy: boolPtr(false)}, 1},
		{"youtube only", SearchFilter{HasYouTubeLink: boolPtr(true)}, 1},
		{"combined", SearchFilter{Text: "Finals", Class: "Grade 5", SizeMin: 60 << 20}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SearchVideos(ctx, tt.filter)
			if err != nil {
				t.Fatalf("SearchVideos failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("SearchVideos returned %d videos, want %d", len(got), tt.want)
			}

			count, err := s.CountVideos(ctx, tt.filter)
			if err != nil {
				t.Fatalf("CountVideos failed: %v", err)
			}
			if count != tt.want {
				t.Errorf("CountVideos = %d, want %d", count, tt.want)
			}
		})
	}
}

func TestSearchVideosDateRange(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	seedSearchFixture(t, s)
	ctx := context.Background()

	// Everything was uploaded just now
	all, err := s.SearchVideos(ctx, SearchFilter{DateFrom: "2000-01-01", DateTo: "2999-12-31"})
	if err != nil {
		t.Fatalf("SearchVideos failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("Open date range returned %d videos, want 4", len(all))
	}

	none, err := s.SearchVideos(ctx, SearchFilter{DateTo: "2000-01-01"})
	if err != nil {
		t.Fatalf("SearchVideos failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Past date range returned %d videos, want 0", len(none))
	}
}

func TestSearchVideosPagination(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	seedSearchFixture(t, s)
	ctx := context.Background()

	page, err := s.SearchVideos(ctx, SearchFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("SearchVideos failed: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("First page has %d videos, want 2", len(page))
	}

	// Count ignores pagination
	count, err := s.CountVideos(ctx, SearchFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("CountVideos failed: %v", err)
	}
	if count != 4 {
		t.Errorf("CountVideos = %d, want 4", count)
	}
}

func TestSearchVideosTagJoinNoDuplicates(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")
	videoID := seedVideo(t, s, activityID, "Finals")

	// Multiple matching tags on one video must not duplicate the result row
	if err := s.AssignTagsToVideo(ctx, videoID, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}

	filter := SearchFilter{Tags: []string{"a", "b", "c"}}
	got, err := s.SearchVideos(ctx, filter)
	if err != nil {
		t.Fatalf("SearchVideos failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("SearchVideos returned %d rows, want 1", len(got))
	}

	count, err := s.CountVideos(ctx, filter)
	if err != nil {
		t.Fatalf("CountVideos failed: %v", err)
	}
	if count != 1 {
		t.Errorf("CountVideos = %d, want 1", count)
	}
}
