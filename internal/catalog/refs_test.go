package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestClassCRUD(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.AddClass(ctx, "Grade 5", "fifth grade", "#ff0000")
	if err != nil {
		t.Fatalf("AddClass failed: %v", err)
	}
	if _, err := s.AddClass(ctx, "Grade 5", "", ""); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Duplicate AddClass = %v, want ErrDuplicateName", err)
	}

	c, err := s.GetClassByID(ctx, id)
	if err != nil {
		t.Fatalf("GetClassByID failed: %v", err)
	}
	if c.Name != "Grade 5" || c.Color != "#ff0000" {
		t.Errorf("Class = %+v", c)
	}

	if err := s.UpdateClass(ctx, id, "Grade 5", "updated", "#ff00ff"); err != nil {
		t.Fatalf("UpdateClass failed: %v", err)
	}
	if err := s.DeleteClass(ctx, id); err != nil {
		t.Fatalf("DeleteClass failed: %v", err)
	}
	if _, err := s.GetClassByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetClassByID after delete = %v, want ErrNotFound", err)
	}
}

func TestSectionListWithActivityCounts(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.AddSection(ctx, "B", "", ""); err != nil {
		t.Fatalf("AddSection failed: %v", err)
	}
	sectionID, err := s.AddSection(ctx, "A", "", "")
	if err != nil {
		t.Fatalf("AddSection failed: %v", err)
	}

	// Point an activity at the section by reference ID
	activityID := seedActivity(t, s, "Sports Day")
	if _, err := s.db.Exec("UPDATE activities SET section_id = ? WHERE id = ?", sectionID, activityID); err != nil {
		t.Fatalf("Failed to link activity to section: %v", err)
	}

	sections, err := s.GetAllSections(ctx)
	if err != nil {
		t.Fatalf("GetAllSections failed: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("Got %d sections, want 2", len(sections))
	}
	if sections[0].Name != "A" || sections[0].ActivityCount != 1 {
		t.Errorf("Section A = %+v, want 1 activity", sections[0])
	}
	if sections[1].Name != "B" || sections[1].ActivityCount != 0 {
		t.Errorf("Section B = %+v, want 0 activities", sections[1])
	}

	names, err := s.GetSectionNames(ctx)
	if err != nil {
		t.Fatalf("GetSectionNames failed: %v", err)
	}
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("Section names = %v, want [A B]", names)
	}
}

func TestLinks(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")

	firstID, err := s.AddLink(ctx, activityID, "Photo album", "https://photos.example.com/album", "shared album")
	if err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}
	if _, err := s.AddLink(ctx, activityID, "Scores", "https://example.com/scores", ""); err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}

	links, err := s.GetActivityLinks(ctx, activityID)
	if err != nil {
		t.Fatalf("GetActivityLinks failed: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("Got %d links, want 2", len(links))
	}

	if err := s.DeleteLink(ctx, firstID); err != nil {
		t.Fatalf("DeleteLink failed: %v", err)
	}
	links, err = s.GetActivityLinks(ctx, activityID)
	if err != nil {
		t.Fatalf("GetActivityLinks failed: %v", err)
	}
	if len(links) != 1 || links[0].Title != "Scores" {
		t.Errorf("Links after delete = %+v", links)
	}

	// Links cascade with their activity
	if err := s.DeleteActivity(ctx, activityID); err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}
	links, err = s.GetActivityLinks(ctx, activityID)
	if err != nil {
		t.Fatalf("GetActivityLinks failed: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("Got %d links after activity delete, want 0", len(links))
	}
}
