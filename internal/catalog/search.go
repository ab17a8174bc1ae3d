package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"video-catalog/internal/logging"
)

// SearchFilter holds every search dimension. Zero values mean "no filter".
// The class and section filters also treat "All" as unset so UI dropdowns
// can pass their sentinel value straight through.
type SearchFilter struct {
	Text    string
	Class   string
	Section string
	Tags    []string

	// Dates are YYYY-MM-DD and are inclusive on both ends.
	DateFrom string
	DateTo   string

	Format      string
	SizeMin     int64
	SizeMax     int64
	DurationMin float64
	DurationMax float64
	VersionMin  int
	Status      string

	// Tristate flags: nil means no filter.
	HasLocalCopy   *bool
	HasYouTubeLink *bool

	// Limit <= 0 disables pagination.
	Limit  int
	Offset int
}

// buildQuery renders the filter into FROM and WHERE clauses with their
// arguments. SearchVideos and CountVideos both build from the same output,
// which keeps a page of results and its total count consistent for any
// filter combination.
func (f *SearchFilter) buildQuery() (from, where string, args []any) {
	if len(f.Tags) > 0 {
		from = `
		FROM videos v
		LEFT JOIN activities a ON v.activity_id = a.id
		LEFT JOIN video_tags vt ON vt.video_id = v.id
		LEFT JOIN tags t ON vt.tag_id = t.id`
	} else {
		from = `
		FROM videos v
		LEFT JOIN activities a ON v.activity_id = a.id`
	}

	var sb strings.Builder
	sb.WriteString(" WHERE 1=1")

	if text := strings.TrimSpace(f.Text); text != "" {
		sb.WriteString(" AND (v.title LIKE ? OR v.description LIKE ? OR v.tags LIKE ? OR a.name LIKE ? OR v.file_name LIKE ?)")
		pattern := "%" + text + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}

	if f.Class != "" && f.Class != "All" {
		sb.WriteString(" AND a.class = ?")
		args = append(args, f.Class)
	}

	if f.Section != "" && f.Section != "All" {
		sb.WriteString(" AND a.section = ?")
		args = append(args, f.Section)
	}

	if len(f.Tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Tags)), ",")
		sb.WriteString(" AND t.name IN (" + placeholders + ")")
		for _, tag := range f.Tags {
			args = append(args, tag)
		}
	}

	if f.DateFrom != "" {
		sb.WriteString(" AND v.upload_date >= ?")
		args = append(args, f.DateFrom+" 00:00:00")
	}

	if f.DateTo != "" {
		sb.WriteString(" AND v.upload_date <= ?")
		args = append(args, f.DateTo+" 23:59:59")
	}

	if f.Format != "" {
		sb.WriteString(" AND v.format = ?")
		args = append(args, f.Format)
	}

	if f.SizeMin > 0 {
		sb.WriteString(" AND v.file_size >= ?")
		args = append(args, f.SizeMin)
	}

	if f.SizeMax > 0 {
		sb.WriteString(" AND v.file_size <= ?")
		args = append(args, f.SizeMax)
	}

	if f.DurationMin > 0 {
		sb.WriteString(" AND v.duration >= ?")
		args = append(args, f.DurationMin)
	}

	if f.DurationMax > 0 {
		sb.WriteString(" AND v.duration <= ?")
		args = append(args, f.DurationMax)
	}

	if f.VersionMin > 0 {
		sb.WriteString(" AND v.version_number >= ?")
		args = append(args, f.VersionMin)
	}

	if f.Status != "" {
		sb.WriteString(" AND v.version_status = ?")
		args = append(args, f.Status)
	}

	if f.HasLocalCopy != nil {
		sb.WriteString(" AND v.has_local_copy = ?")
		args = append(args, boolToInt(*f.HasLocalCopy))
	}

	if f.HasYouTubeLink != nil {
		sb.WriteString(" AND v.has_youtube_link = ?")
		args = append(args, boolToInt(*f.HasYouTubeLink))
	}

	return from, sb.String(), args
}

// SearchVideos returns videos matching the filter, newest upload first.
func (s *Store) SearchVideos(ctx context.Context, filter SearchFilter) ([]Video, error) {
	done := observeQuery("search_videos")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	from, where, args := filter.buildQuery()

	query := "SELECT DISTINCT " + videoColumns + ", a.name, a.class, a.section" + from + where +
		" ORDER BY v.upload_date DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to search videos: %w", err)
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
			return nil, fmt.Errorf("failed to scan search result: %w", err)
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

// CountVideos returns how many videos match the filter, ignoring pagination.
// It shares the query builder with SearchVideos so the two can never drift.
func (s *Store) CountVideos(ctx context.Context, filter SearchFilter) (int, error) {
	done := observeQuery("count_videos")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	from, where, args := filter.buildQuery()
	query := "SELECT COUNT(DISTINCT v.id)" + from + where

	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)

	done(err)
	return count, err
}
