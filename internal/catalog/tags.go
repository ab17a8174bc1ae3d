package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"video-catalog/internal/logging"
)

// GetOrCreateTag gets an existing tag by name or creates a new one.
func (s *Store) GetOrCreateTag(ctx context.Context, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tag name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return s.getOrCreateTagLocked(ctx, s.db, name)
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getOrCreateTagLocked does the lookup-then-insert. Callers hold the write
// lock; db may be the pool or an open transaction.
func (s *Store) getOrCreateTagLocked(ctx context.Context, db execQuerier, name string) (*Tag, error) {
	var tag Tag
	var color sql.NullString

	err := db.QueryRowContext(ctx,
		"SELECT id, name, color, created_date FROM tags WHERE name = ?",
		name,
	).Scan(&tag.ID, &tag.Name, &color, &tag.CreatedDate)
	if err == nil {
		tag.Color = color.String
		return &tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up tag: %w", err)
	}

	createdDate := nowString()
	result, err := db.ExecContext(ctx,
		"INSERT INTO tags (name, color, created_date) VALUES (?, '', ?)",
		name, createdDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	tag.ID, _ = result.LastInsertId()
	tag.Name = name
	tag.CreatedDate = createdDate
	return &tag, nil
}

// GetAllTags returns every tag ordered by name.
func (s *Store) GetAllTags(ctx context.Context) ([]Tag, error) {
	return s.queryTags(ctx, "get_all_tags",
		"SELECT id, name, color, created_date FROM tags ORDER BY name")
}

// GetVideoTags returns the tags assigned to a video, ordered by name.
func (s *Store) GetVideoTags(ctx context.Context, videoID int64) ([]Tag, error) {
	return s.queryTags(ctx, "get_video_tags", `
		SELECT t.id, t.name, t.color, t.created_date
		FROM tags t
		JOIN video_tags vt ON vt.tag_id = t.id
		WHERE vt.video_id = ?
		ORDER BY t.name
	`, videoID)
}

// GetUniqueTags returns all tag names, ordered.
func (s *Store) GetUniqueTags(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "get_unique_tags",
		"SELECT DISTINCT name FROM tags ORDER BY name")
}

// DeleteTag removes a tag; the junction rows cascade.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	done := observeQuery("delete_tag")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	done(nil)
	return nil
}

// AssignTagsToVideo replaces a video's tag set with the given names.
// Blank names are skipped, missing tags are created, and the whole swap
// happens in one transaction so a failure leaves the old set intact.
func (s *Store) AssignTagsToVideo(ctx context.Context, videoID int64, tagNames []string) error {
	done := observeQuery("assign_tags_to_video")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // No-op after commit
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM video_tags WHERE video_id = ?", videoID); err != nil {
		done(err)
		return fmt.Errorf("failed to clear video tags: %w", err)
	}

	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		tag, err := s.getOrCreateTagLocked(ctx, tx, name)
		if err != nil {
			done(err)
			return err
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO video_tags (video_id, tag_id) VALUES (?, ?)",
			videoID, tag.ID,
		)
		if err != nil {
			done(err)
			return fmt.Errorf("failed to assign tag %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		done(err)
		return fmt.Errorf("failed to commit tag assignment: %w", err)
	}

	logging.Debug("Assigned %d tags to video %d", len(tagNames), videoID)
	done(nil)
	return nil
}

// GetVideosByTags returns videos carrying any of the given tag names,
// newest upload first.
func (s *Store) GetVideosByTags(ctx context.Context, tagNames []string) ([]Video, error) {
	if len(tagNames) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tagNames)), ",")
	query := `
		SELECT DISTINCT ` + videoColumns + `, a.name, a.class, a.section
		FROM videos v
		LEFT JOIN activities a ON v.activity_id = a.id
		JOIN video_tags vt ON vt.video_id = v.id
		JOIN tags t ON vt.tag_id = t.id
		WHERE t.name IN (` + placeholders + `)
		ORDER BY v.upload_date DESC
	`

	args := make([]any, len(tagNames))
	for i, name := range tagNames {
		args[i] = name
	}

	return s.queryVideosWithActivity(ctx, "get_videos_by_tags", query, args...)
}

func (s *Store) queryTags(ctx context.Context, operation, query string, args ...any) ([]Tag, error) {
	done := observeQuery(operation)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("failed to close rows: %v", err)
		}
	}()

	var tags []Tag
	for rows.Next() {
		var tag Tag
		var color sql.NullString
		if err := rows.Scan(&tag.ID, &tag.Name, &color, &tag.CreatedDate); err != nil {
			done(err)
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tag.Color = color.String
		tags = append(tags, tag)
	}

	err = rows.Err()
	done(err)
	return tags, err
}
