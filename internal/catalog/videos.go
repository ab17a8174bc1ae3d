package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"video-catalog/internal/logging"
)

// videoColumns is the canonical select list for video rows. Every query that
// feeds scanVideo must select exactly these columns, in this order, before
// any extra joined columns.
const videoColumns = `v.id, v.activity_id, v.title, v.file_path, v.youtube_url, v.file_name,
	v.file_size, v.duration, v.format, v.resolution, v.version_number, v.event_date,
	v.upload_date, v.description, v.tags, v.thumbnail_path, v.document_path,
	v.has_local_copy, v.has_youtube_link, v.has_document, v.version_status, v.version_notes`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanVideo scans a row selected with videoColumns. Extra destinations for
// joined columns are appended after the fixed set.
func scanVideo(sc rowScanner, extras ...any) (Video, error) {
	var v Video
	var filePath, youtubeURL, fileName, format, resolution sql.NullString
	var eventDate, description, tags, thumbnailPath, documentPath sql.NullString
	var versionStatus, versionNotes sql.NullString
	var fileSize, versionNumber, hasLocal, hasYoutube, hasDocument sql.NullInt64
	var duration sql.NullFloat64

	dest := []any{
		&v.ID, &v.ActivityID, &v.Title, &filePath, &youtubeURL, &fileName,
		&fileSize, &duration, &format, &resolution, &versionNumber, &eventDate,
		&v.UploadDate, &description, &tags, &thumbnailPath, &documentPath,
		&hasLocal, &hasYoutube, &hasDocument, &versionStatus, &versionNotes,
	}
	dest = append(dest, extras...)

	if err := sc.Scan(dest...); err != nil {
		return v, err
	}

	v.FilePath = filePath.String
	v.YouTubeURL = youtubeURL.String
	v.FileName = fileName.String
	v.FileSize = fileSize.Int64
	v.Duration = duration.Float64
	v.Format = format.String
	v.Resolution = resolution.String
	v.VersionNumber = int(versionNumber.Int64)
	v.EventDate = eventDate.String
	v.Description = description.String
	v.Tags = tags.String
	v.ThumbnailPath = thumbnailPath.String
	v.DocumentPath = documentPath.String
	v.HasLocalCopy = hasLocal.Int64 != 0
	v.HasYouTubeLink = hasYoutube.Int64 != 0
	v.HasDocument = hasDocument.Int64 != 0
	v.VersionStatus = versionStatus.String
	v.VersionNotes = versionNotes.String
	return v, nil
}

// AddVideo inserts a new video record and returns its ID.
//
// When v.VersionNumber is zero the next version for (activity, title) is
// assigned inside the same transaction as the insert, so concurrent adds of
// the same title can never claim the same version. An empty VersionStatus
// defaults to ACTIVE. UploadDate is always set server-side.
func (s *Store) AddVideo(ctx context.Context, v *Video) (int64, error) {
	done := observeQuery("add_video")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		done(err)
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // No-op after commit
	}()

	version := v.VersionNumber
	if version <= 0 {
		err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(version_number), 0) + 1
			FROM videos
			WHERE activity_id = ? AND title = ?
		`, v.ActivityID, v.Title).Scan(&version)
		if err != nil {
			done(err)
			return 0, fmt.Errorf("failed to determine version number: %w", err)
		}
	}

	status := v.VersionStatus
	if status == "" {
		status = StatusActive
	}

	uploadDate := nowString()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO videos (
			activity_id, title, file_path, youtube_url, file_name,
			file_size, duration, format, resolution, version_number,
			event_date, upload_date, description, tags, thumbnail_path,
			document_path, has_local_copy, has_youtube_link, has_document,
			version_status, version_notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		v.ActivityID, v.Title, v.FilePath, v.YouTubeURL, v.FileName,
		v.FileSize, v.Duration, v.Format, v.Resolution, version,
		v.EventDate, uploadDate, v.Description, v.Tags, v.ThumbnailPath,
		v.DocumentPath, boolToInt(v.HasLocalCopy), boolToInt(v.HasYouTubeLink), boolToInt(v.HasDocument),
		status, v.VersionNotes,
	)
	if err != nil {
		done(err)
		return 0, fmt.Errorf("failed to insert video: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		done(err)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		done(err)
		return 0, fmt.Errorf("failed to commit video insert: %w", err)
	}

	v.ID = id
	v.VersionNumber = version
	v.VersionStatus = status
	v.UploadDate = uploadDate

	s.ClearStatisticsCache()
	logging.Debug("Added video %d (%q v%d)", id, v.Title, version)
	done(nil)
	return id, nil
}

// GetAllVideos returns videos with activity information, newest upload first.
// limit <= 0 disables pagination.
func (s *Store) GetAllVideos(ctx context.Context, limit, offset int) ([]Video, error) {
	query := `
		SELECT ` + videoColumns + `, a.name, a.class, a.section
		FROM videos v
		LEFT JOIN activities a ON v.activity_id = a.id
		ORDER BY v.upload_date DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}
	return s.queryVideosWithActivity(ctx, "get_all_videos", query)
}

// GetVideosFiltered returns videos whose activity matches the class and/or
// section filters. Empty string or "All" means no restriction.
func (s *Store) GetVideosFiltered(ctx context.Context, classFilter, sectionFilter string) ([]Video, error) {
	query := `
		SELECT ` + videoColumns + `, a.name, a.class, a.section
		FROM videos v
		LEFT JOIN activities a ON v.activity_id = a.id
	`
	var conditions []string
	var args []any

	if classFilter != "" && classFilter != "All" {
		conditions = append(conditions, "a.class = ?")
		args = append(args, classFilter)
	}
	if sectionFilter != "" && sectionFilter != "All" {
		conditions = append(conditions, "a.section = ?")
		args = append(args, sectionFilter)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY v.upload_date DESC"

	return s.queryVideosWithActivity(ctx, "get_videos_filtered", query, args...)
}

// GetVideosByActivity returns an activity's videos, newest version first.
// limit <= 0 disables pagination.
func (s *Store) GetVideosByActivity(ctx context.Context, activityID int64, limit, offset int) ([]Video, error) {
	query := `
		SELECT ` + videoColumns + `, a.name, a.class, a.section
		FROM videos v
		LEFT JOIN activities a ON v.activity_id = a.id
		WHERE v.activity_id = ?
		ORDER BY v.version_number DESC, v.upload_date DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}
	return s.queryVideosWithActivity(ctx, "get_videos_by_activity", query, activityID)
}

// GetTotalVideoCount returns the number of videos, optionally restricted to
// one activity (activityID > 0).
func (s *Store) GetTotalVideoCount(ctx context.Context, activityID int64) (int, error) {
	done := observeQuery("get_total_video_count")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	var err error
	if activityID > 0 {
		err = s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM videos WHERE activity_id = ?", activityID).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos").Scan(&count)
	}

	done(err)
	return count, err
}

// GetVideoByID returns a single video with its activity name, or ErrNotFound.
func (s *Store) GetVideoByID(ctx context.Context, id int64) (*Video, error) {
	done := observeQuery("get_video_by_id")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+videoColumns+`, a.name
		FROM videos v
		LEFT JOIN activities a ON v.activity_id = a.id
		WHERE v.id = ?
	`, id)

	var activityName sql.NullString
	v, err := scanVideo(row, &activityName)
	if errors.Is(err, sql.ErrNoRows) {
		done(nil)
		return nil, ErrNotFound
	}
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	v.ActivityName = activityName.String
	done(nil)
	return &v, nil
}

// UpdateVideo replaces every mutable field of a video record.
// UploadDate and the record's identity are not touched.
func (s *Store) UpdateVideo(ctx context.Context, id int64, v *Video) error {
	done := observeQuery("update_video")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `
		UPDATE videos SET
			title = ?, file_path = ?, youtube_url = ?, file_name = ?,
			file_size = ?, duration = ?, format = ?, resolution = ?,
			version_number = ?, event_date = ?, description = ?, tags = ?,
			thumbnail_path = ?, document_path = ?, has_local_copy = ?,
			has_youtube_link = ?, has_document = ?, version_status = ?,
			version_notes = ?
		WHERE id = ?
	`,
		v.Title, v.FilePath, v.YouTubeURL, v.FileName,
		v.FileSize, v.Duration, v.Format, v.Resolution,
		v.VersionNumber, v.EventDate, v.Description, v.Tags,
		v.ThumbnailPath, v.DocumentPath, boolToInt(v.HasLocalCopy),
		boolToInt(v.HasYouTubeLink), boolToInt(v.HasDocument), v.VersionStatus,
		v.VersionNotes, id,
	)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to update video: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	s.ClearStatisticsCache()
	done(nil)
	return nil
}

// UpdateThumbnailPath records a generated thumbnail for a video.
func (s *Store) UpdateThumbnailPath(ctx context.Context, id int64, thumbnailPath string) error {
	return s.execOnVideo(ctx, "update_thumbnail_path",
		"UPDATE videos SET thumbnail_path = ? WHERE id = ?", thumbnailPath, id)
}

// SetDocument records an attached document for a video.
func (s *Store) SetDocument(ctx context.Context, id int64, documentPath string) error {
	return s.execOnVideo(ctx, "set_document",
		"UPDATE videos SET document_path = ?, has_document = 1 WHERE id = ?", documentPath, id)
}

// SetVersionStatus changes a video's lifecycle status (ACTIVE, DRAFT, ARCHIVED).
func (s *Store) SetVersionStatus(ctx context.Context, id int64, status string) error {
	return s.execOnVideo(ctx, "set_version_status",
		"UPDATE videos SET version_status = ? WHERE id = ?", status, id)
}

func (s *Store) execOnVideo(ctx context.Context, operation, query string, args ...any) error {
	done := observeQuery(operation)

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		done(err)
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	done(nil)
	return nil
}

// DeleteVideo removes a video record and invalidates the statistics cache.
// Files on disk are the caller's responsibility.
func (s *Store) DeleteVideo(ctx context.Context, id int64) error {
	done := observeQuery("delete_video")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to delete video: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	s.ClearStatisticsCache()
	logging.Info("Deleted video %d", id)
	done(nil)
	return nil
}

// GetNextVersionNumber returns the version the next upload of this title
// would receive. Informational only: AddVideo recomputes it transactionally.
func (s *Store) GetNextVersionNumber(ctx context.Context, activityID int64, title string) (int, error) {
	done := observeQuery("get_next_version_number")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var next int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version_number), 0) + 1
		FROM videos
		WHERE activity_id = ? AND title = ?
	`, activityID, title).Scan(&next)

	done(err)
	return next, err
}

// GetVideoVersions returns every version of a title within an activity,
// oldest first.
func (s *Store) GetVideoVersions(ctx context.Context, activityID int64, title string) ([]Video, error) {
	query := `
		SELECT ` + videoColumns + `, a.name, a.class, a.section
		FROM videos v
		LEFT JOIN activities a ON v.activity_id = a.id
		WHERE v.activity_id = ? AND v.title = ?
		ORDER BY v.version_number ASC, v.upload_date ASC
	`
	return s.queryVideosWithActivity(ctx, "get_video_versions", query, activityID, title)
}

// GetVideosMissingThumbnails returns local videos that have no thumbnail
// recorded, for backfill runs.
func (s *Store) GetVideosMissingThumbnails(ctx context.Context) ([]Video, error) {
	query := `
		SELECT ` + videoColumns + `, a.name, a.class, a.section
		FROM videos v
		LEFT JOIN activities a ON v.activity_id = a.id
		WHERE v.has_local_copy = 1
		  AND (v.thumbnail_path IS NULL OR v.thumbnail_path = '')
		ORDER BY v.id
	`
	return s.queryVideosWithActivity(ctx, "get_videos_missing_thumbnails", query)
}

// GetUniqueFormats returns distinct non-empty format values, ordered.
func (s *Store) GetUniqueFormats(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "get_unique_formats",
		"SELECT DISTINCT format FROM videos WHERE format IS NOT NULL AND format != '' ORDER BY format")
}

// GetUniqueVersionStatuses returns distinct non-empty version statuses, ordered.
func (s *Store) GetUniqueVersionStatuses(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "get_unique_version_statuses",
		"SELECT DISTINCT version_status FROM videos WHERE version_status IS NOT NULL AND version_status != '' ORDER BY version_status")
}

// GetSearchSuggestions returns up to limit titles and activity names that
// start with the query. Queries shorter than two characters return nothing.
func (s *Store) GetSearchSuggestions(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, nil
	}

	pattern := query + "%"
	return s.queryStrings(ctx, "get_search_suggestions", `
		SELECT DISTINCT title FROM videos
		WHERE title LIKE ?
		UNION
		SELECT DISTINCT name FROM activities
		WHERE name LIKE ?
		ORDER BY 1
		LIMIT ?
	`, pattern, pattern, limit)
}

// queryVideosWithActivity runs a video query selecting videoColumns plus
// a.name, a.class and a.section, under the read lock.
func (s *Store) queryVideosWithActivity(ctx context.Context, operation, query string, args ...any) ([]Video, error) {
	done := observeQuery(operation)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("failed to close rows: %v", err)
		}
	}()

	var videos []Video
	for rows.Next() {
		var activityName, activityClass, activitySection sql.NullString
		v, err := scanVideo(rows, &activityName, &activityClass, &activitySection)
		if err != nil {
			done(err)
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		v.ActivityName = activityName.String
		v.ActivityClass = activityClass.String
		v.ActivitySection = activitySection.String
		videos = append(videos, v)
	}

	err = rows.Err()
	done(err)
	return videos, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
