package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"video-catalog/internal/logging"
)

// AddCollection creates a new collection and returns its ID.
// Returns ErrDuplicateName when the name is taken.
func (s *Store) AddCollection(ctx context.Context, name, description, color string) (int64, error) {
	done := observeQuery("add_collection")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO collections (name, description, color, created_date) VALUES (?, ?, ?, ?)",
		name, description, color, nowString(),
	)
	if err != nil {
		if isConstraintError(err) {
			done(nil)
			return 0, ErrDuplicateName
		}
		done(err)
		return 0, fmt.Errorf("failed to add collection: %w", err)
	}

	id, err := result.LastInsertId()
	done(err)
	return id, err
}

// GetAllCollections returns every collection with its member count and the
// distinct tag names across its members, ordered by name.
func (s *Store) GetAllCollections(ctx context.Context) ([]Collection, error) {
	done := observeQuery("get_all_collections")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, c.color, c.created_date,
		       COUNT(DISTINCT cv.id) as videos_count,
		       GROUP_CONCAT(DISTINCT t.name) as tags
		FROM collections c
		LEFT JOIN collection_videos cv ON cv.collection_id = c.id
		LEFT JOIN videos v ON cv.video_id = v.id
		LEFT JOIN video_tags vt ON vt.video_id = v.id
		LEFT JOIN tags t ON vt.tag_id = t.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("failed to close rows: %v", err)
		}
	}()

	var collections []Collection
	for rows.Next() {
		var c Collection
		var description, color, tags sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &color, &c.CreatedDate, &c.VideoCount, &tags); err != nil {
			done(err)
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		c.Description = description.String
		c.Color = color.String
		c.Tags = tags.String
		collections = append(collections, c)
	}

	err = rows.Err()
	done(err)
	return collections, err
}

// GetCollectionByID returns a single collection, or ErrNotFound.
func (s *Store) GetCollectionByID(ctx context.Context, id int64) (*Collection, error) {
	done := observeQuery("get_collection_by_id")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c Collection
	var description, color sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, color, created_date FROM collections WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &description, &color, &c.CreatedDate)

	if errors.Is(err, sql.ErrNoRows) {
		done(nil)
		return nil, ErrNotFound
	}
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	c.Description = description.String
	c.Color = color.String
	done(nil)
	return &c, nil
}

// UpdateCollection updates a collection's name, description and color.
func (s *Store) UpdateCollection(ctx context.Context, id int64, name, description, color string) error {
	done := observeQuery("update_collection")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		"UPDATE collections SET name = ?, description = ?, color = ? WHERE id = ?",
		name, description, color, id,
	)
	if err != nil {
		if isConstraintError(err) {
			done(nil)
			return ErrDuplicateName
		}
		done(err)
		return fmt.Errorf("failed to update collection: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	done(nil)
	return nil
}

// DeleteCollection removes a collection; memberships cascade. The member
// videos themselves are untouched.
func (s *Store) DeleteCollection(ctx context.Context, id int64) error {
	done := observeQuery("delete_collection")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	done(nil)
	return nil
}

// AddVideoToCollection adds a membership row. Adding a video that is
// already a member returns ErrDuplicateName.
func (s *Store) AddVideoToCollection(ctx context.Context, collectionID, videoID int64) error {
	done := observeQuery("add_video_to_collection")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO collection_videos (collection_id, video_id, added_date) VALUES (?, ?, ?)",
		collectionID, videoID, nowString(),
	)
	if err != nil {
		if isConstraintError(err) {
			done(nil)
			return ErrDuplicateName
		}
		done(err)
		return fmt.Errorf("failed to add video to collection: %w", err)
	}

	done(nil)
	return nil
}

// RemoveVideoFromCollection removes a membership row.
func (s *Store) RemoveVideoFromCollection(ctx context.Context, collectionID, videoID int64) error {
	done := observeQuery("remove_video_from_collection")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM collection_videos WHERE collection_id = ? AND video_id = ?",
		collectionID, videoID,
	)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to remove video from collection: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	done(nil)
	return nil
}

// GetCollectionVideos returns a collection's members, most recently added
// first. Each video carries the membership's added date.
func (s *Store) GetCollectionVideos(ctx context.Context, collectionID int64) ([]Video, error) {
	done := observeQuery("get_collection_videos")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+videoColumns+`, a.name, a.class, a.section, cv.added_date
		FROM videos v
		LEFT JOIN activities a ON v.activity_id = a.id
		JOIN collection_videos cv ON cv.video_id = v.id
		WHERE cv.collection_id = ?
		ORDER BY cv.added_date DESC
	`, collectionID)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query collection videos: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("failed to close rows: %v", err)
		}
	}()

	var videos []Video
	for rows.Next() {
		var activityName, activityClass, activitySection sql.NullString
		var addedDate string
		v, err := scanVideo(rows, &activityName, &activityClass, &activitySection, &addedDate)
		if err != nil {
			done(err)
			return nil, fmt.Errorf("failed to scan collection video: %w", err)
		}
		v.ActivityName = activityName.String
		v.ActivityClass = activityClass.String
		v.ActivitySection = activitySection.String
		v.AddedDate = addedDate
		videos = append(videos, v)
	}

	err = rows.Err()
	done(err)
	return videos, err
}

// GetVideoCollections returns the collections a video belongs to, ordered
// by name, each carrying the membership's added date.
func (s *Store) GetVideoCollections(ctx context.Context, videoID int64) ([]Collection, error) {
	done := observeQuery("get_video_collections")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, c.color, c.created_date, cv.added_date
		FROM collections c
		JOIN collection_videos cv ON cv.collection_id = c.id
		WHERE cv.video_id = ?
		ORDER BY c.name
	`, videoID)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query video collections: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("failed to close rows: %v", err)
		}
	}()

	var collections []Collection
	for rows.Next() {
		var c Collection
		var description, color sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &color, &c.CreatedDate, &c.AddedDate); err != nil {
			done(err)
			return nil, fmt.Errorf("failed to scan video collection: %w", err)
		}
		c.Description = description.String
		c.Color = color.String
		collections = append(collections, c)
	}

	err = rows.Err()
	done(err)
	return collections, err
}
