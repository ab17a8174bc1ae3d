package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"video-catalog/internal/logging"
)

// ErrDuplicateName is returned when an insert or rename collides with an
// existing unique name (activities, collections, classes, sections, tags).
var ErrDuplicateName = errors.New("name already exists")

// ErrNotFound is returned when an update or delete matches no rows.
var ErrNotFound = errors.New("not found")

func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// AddActivity creates a new activity and returns its ID.
// Returns ErrDuplicateName when an activity with the same name exists.
func (s *Store) AddActivity(ctx context.Context, name, description, class, section string) (int64, error) {
	done := observeQuery("add_activity")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO activities (name, description, class, section, created_date) VALUES (?, ?, ?, ?, ?)",
		name, description, class, section, nowString(),
	)
	if err != nil {
		if isConstraintError(err) {
			done(nil)
			return 0, ErrDuplicateName
		}
		done(err)
		return 0, fmt.Errorf("failed to add activity: %w", err)
	}

	id, err := result.LastInsertId()
	done(err)
	return id, err
}

// GetAllActivities returns every activity with its video count and the
// colors of its class and section, ordered by name.
func (s *Store) GetAllActivities(ctx context.Context) ([]Activity, error) {
	return s.GetActivitiesFiltered(ctx, "", "")
}

// GetActivitiesFiltered returns activities restricted by class and/or
// section name. Empty string or "All" means no restriction.
func (s *Store) GetActivitiesFiltered(ctx context.Context, classFilter, sectionFilter string) ([]Activity, error) {
	done := observeQuery("get_activities")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		SELECT a.id, a.name, a.description, a.class, a.section,
		       a.class_id, a.section_id, a.created_date,
		       COUNT(v.id) as videos_count,
		       c.color as class_color,
		       sec.color as section_color
		FROM activities a
		LEFT JOIN videos v ON v.activity_id = a.id
		LEFT JOIN classes c ON a.class = c.name
		LEFT JOIN sections sec ON a.section = sec.name
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

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " GROUP BY a.id ORDER BY a.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("failed to close rows: %v", err)
		}
	}()

	var activities []Activity
	for rows.Next() {
		var a Activity
		var description, class, section, classColor, sectionColor sql.NullString
		var classID, sectionID sql.NullInt64

		err := rows.Scan(&a.ID, &a.Name, &description, &class, &section,
			&classID, &sectionID, &a.CreatedDate,
			&a.VideoCount, &classColor, &sectionColor)
		if err != nil {
			done(err)
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		a.Description = description.String
		a.Class = class.String
		a.Section = section.String
		a.ClassID = classID.Int64
		a.SectionID = sectionID.Int64
		a.ClassColor = classColor.String
		a.SectionColor = sectionColor.String
		activities = append(activities, a)
	}

	err = rows.Err()
	done(err)
	return activities, err
}

// GetActivityByID returns a single activity, or ErrNotFound.
func (s *Store) GetActivityByID(ctx context.Context, id int64) (*Activity, error) {
	done := observeQuery("get_activity_by_id")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a Activity
	var description, class, section sql.NullString
	var classID, sectionID sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, class, section, class_id, section_id, created_date
		FROM activities WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &description, &class, &section, &classID, &sectionID, &a.CreatedDate)

	if errors.Is(err, sql.ErrNoRows) {
		done(nil)
		return nil, ErrNotFound
	}
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	a.Description = description.String
	a.Class = class.String
	a.Section = section.String
	a.ClassID = classID.Int64
	a.SectionID = sectionID.Int64

	done(nil)
	return &a, nil
}

// UpdateActivity updates an activity's name, description, class and section.
func (s *Store) UpdateActivity(ctx context.Context, id int64, name, description, class, section string) error {
	done := observeQuery("update_activity")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		"UPDATE activities SET name = ?, description = ?, class = ?, section = ? WHERE id = ?",
		name, description, class, section, id,
	)
	if err != nil {
		if isConstraintError(err) {
			done(nil)
			return ErrDuplicateName
		}
		done(err)
		return fmt.Errorf("failed to update activity: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	done(nil)
	return nil
}

// DeleteActivity removes an activity and cascades to its videos, video tags
// and links. The statistics cache is invalidated since counts changed.
func (s *Store) DeleteActivity(ctx context.Context, id int64) error {
	done := observeQuery("delete_activity")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	s.ClearStatisticsCache()
	logging.Info("Deleted activity %d", id)
	done(nil)
	return nil
}

// GetClassNames returns all class names from the predefined classes table.
func (s *Store) GetClassNames(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "get_class_names",
		"SELECT name FROM classes ORDER BY name")
}

// GetSectionNames returns all section names from the predefined sections table.
func (s *Store) GetSectionNames(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "get_section_names",
		"SELECT name FROM sections ORDER BY name")
}

// GetUniqueClasses returns distinct non-empty class names recorded on
// activities, ordered alphabetically.
func (s *Store) GetUniqueClasses(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "get_unique_classes",
		"SELECT DISTINCT class FROM activities WHERE class IS NOT NULL AND class != '' ORDER BY class")
}

// GetUniqueSections returns distinct non-empty section names recorded on
// activities, ordered alphabetically.
func (s *Store) GetUniqueSections(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "get_unique_sections",
		"SELECT DISTINCT section FROM activities WHERE section IS NOT NULL AND section != '' ORDER BY section")
}

// GetSectionsForClass returns distinct sections used by activities of a class.
func (s *Store) GetSectionsForClass(ctx context.Context, className string) ([]string, error) {
	return s.queryStrings(ctx, "get_sections_for_class", `
		SELECT DISTINCT section FROM activities
		WHERE class = ? AND section IS NOT NULL AND section != ''
		ORDER BY section
	`, className)
}

// GetClassesForSection returns distinct classes whose activities use a section.
func (s *Store) GetClassesForSection(ctx context.Context, sectionName string) ([]string, error) {
	return s.queryStrings(ctx, "get_classes_for_section", `
		SELECT DISTINCT class FROM activities
		WHERE section = ? AND class IS NOT NULL AND class != ''
		ORDER BY class
	`, sectionName)
}

// queryStrings runs a single-column string query under the read lock.
func (s *Store) queryStrings(ctx context.Context, operation, query string, args ...any) ([]string, error) {
	done := observeQuery(operation)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		done(err)
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("failed to close rows: %v", err)
		}
	}()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			done(err)
			return nil, err
		}
		values = append(values, v)
	}

	err = rows.Err()
	done(err)
	return values, err
}
