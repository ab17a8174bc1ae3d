package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"video-catalog/internal/logging"
)

// Classes and sections share a shape, so the CRUD below funnels through
// helpers keyed by table name. The table and join column are fixed strings
// chosen here, never caller input.

// AddClass creates a class reference entry. Returns ErrDuplicateName when
// the name is taken.
func (s *Store) AddClass(ctx context.Context, name, description, color string) (int64, error) {
	return s.addRef(ctx, "add_class", "classes", name, description, color)
}

// AddSection creates a section reference entry.
func (s *Store) AddSection(ctx context.Context, name, description, color string) (int64, error) {
	return s.addRef(ctx, "add_section", "sections", name, description, color)
}

// GetAllClasses returns every class with the number of activities pointing
// at it, ordered by name.
func (s *Store) GetAllClasses(ctx context.Context) ([]Class, error) {
	rows, err := s.queryRefs(ctx, "get_all_classes", "classes", "class_id")
	if err != nil {
		return nil, err
	}
	classes := make([]Class, len(rows))
	for i, r := range rows {
		classes[i] = Class(r)
	}
	return classes, nil
}

// GetAllSections returns every section with its activity count, ordered by name.
func (s *Store) GetAllSections(ctx context.Context) ([]Section, error) {
	rows, err := s.queryRefs(ctx, "get_all_sections", "sections", "section_id")
	if err != nil {
		return nil, err
	}
	sections := make([]Section, len(rows))
	for i, r := range rows {
		sections[i] = Section(r)
	}
	return sections, nil
}

// GetClassByID returns a single class, or ErrNotFound.
func (s *Store) GetClassByID(ctx context.Context, id int64) (*Class, error) {
	r, err := s.getRefByID(ctx, "get_class_by_id", "classes", id)
	if err != nil {
		return nil, err
	}
	c := Class(*r)
	return &c, nil
}

// GetSectionByID returns a single section, or ErrNotFound.
func (s *Store) GetSectionByID(ctx context.Context, id int64) (*Section, error) {
	r, err := s.getRefByID(ctx, "get_section_by_id", "sections", id)
	if err != nil {
		return nil, err
	}
	sec := Section(*r)
	return &sec, nil
}

// UpdateClass updates a class's name, description and color.
func (s *Store) UpdateClass(ctx context.Context, id int64, name, description, color string) error {
	return s.updateRef(ctx, "update_class", "classes", id, name, description, color)
}

// UpdateSection updates a section's name, description and color.
func (s *Store) UpdateSection(ctx context.Context, id int64, name, description, color string) error {
	return s.updateRef(ctx, "update_section", "sections", id, name, description, color)
}

// DeleteClass removes a class reference entry. Activities keep their
// denormalized class name.
func (s *Store) DeleteClass(ctx context.Context, id int64) error {
	return s.deleteRef(ctx, "delete_class", "classes", id)
}

// DeleteSection removes a section reference entry.
func (s *Store) DeleteSection(ctx context.Context, id int64) error {
	return s.deleteRef(ctx, "delete_section", "sections", id)
}

// refRow is the common row shape of the classes and sections tables.
type refRow struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Color         string `json:"color,omitempty"`
	CreatedDate   string `json:"createdDate"`
	ActivityCount int    `json:"activityCount"`
}

func (s *Store) addRef(ctx context.Context, operation, table, name, description, color string) (int64, error) {
	done := observeQuery(operation)

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (name, description, color, created_date) VALUES (?, ?, ?, ?)", table),
		name, description, color, nowString(),
	)
	if err != nil {
		if isConstraintError(err) {
			done(nil)
			return 0, ErrDuplicateName
		}
		done(err)
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	id, err := result.LastInsertId()
	done(err)
	return id, err
}

func (s *Store) queryRefs(ctx context.Context, operation, table, joinColumn string) ([]refRow, error) {
	done := observeQuery(operation)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT r.id, r.name, r.description, r.color, r.created_date,
		       COUNT(a.id) as activities_count
		FROM %s r
		LEFT JOIN activities a ON a.%s = r.id
		GROUP BY r.id
		ORDER BY r.name
	`, table, joinColumn)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("failed to close rows: %v", err)
		}
	}()

	var refs []refRow
	for rows.Next() {
		var r refRow
		var description, color sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &description, &color, &r.CreatedDate, &r.ActivityCount); err != nil {
			done(err)
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		r.Description = description.String
		r.Color = color.String
		refs = append(refs, r)
	}

	err = rows.Err()
	done(err)
	return refs, err
}

func (s *Store) getRefByID(ctx context.Context, operation, table string, id int64) (*refRow, error) {
	done := observeQuery(operation)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var r refRow
	var description, color sql.NullString
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, name, description, color, created_date FROM %s WHERE id = ?", table), id,
	).Scan(&r.ID, &r.Name, &description, &color, &r.CreatedDate)

	if errors.Is(err, sql.ErrNoRows) {
		done(nil)
		return nil, ErrNotFound
	}
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to get %s row: %w", table, err)
	}

	r.Description = description.String
	r.Color = color.String
	done(nil)
	return &r, nil
}

func (s *Store) updateRef(ctx context.Context, operation, table string, id int64, name, description, color string) error {
	done := observeQuery(operation)

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET name = ?, description = ?, color = ? WHERE id = ?", table),
		name, description, color, id,
	)
	if err != nil {
		if isConstraintError(err) {
			done(nil)
			return ErrDuplicateName
		}
		done(err)
		return fmt.Errorf("failed to update %s row: %w", table, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	done(nil)
	return nil
}

func (s *Store) deleteRef(ctx context.Context, operation, table string, id int64) error {
	done := observeQuery(operation)

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to delete %s row: %w", table, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	done(nil)
	return nil
}

// AddLink attaches an external link to an activity.
func (s *Store) AddLink(ctx context.Context, activityID int64, title, url, description string) (int64, error) {
	done := observeQuery("add_link")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO links (activity_id, title, url, description, created_date) VALUES (?, ?, ?, ?, ?)",
		activityID, title, url, description, nowString(),
	)
	if err != nil {
		done(err)
		return 0, fmt.Errorf("failed to add link: %w", err)
	}

	id, err := result.LastInsertId()
	done(err)
	return id, err
}

// GetActivityLinks returns an activity's external links, newest first.
func (s *Store) GetActivityLinks(ctx context.Context, activityID int64) ([]Link, error) {
	done := observeQuery("get_activity_links")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, activity_id, title, url, description, created_date
		FROM links
		WHERE activity_id = ?
		ORDER BY created_date DESC
	`, activityID)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("failed to close rows: %v", err)
		}
	}()

	var links []Link
	for rows.Next() {
		var l Link
		var description sql.NullString
		if err := rows.Scan(&l.ID, &l.ActivityID, &l.Title, &l.URL, &description, &l.CreatedDate); err != nil {
			done(err)
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		l.Description = description.String
		links = append(links, l)
	}

	err = rows.Err()
	done(err)
	return links, err
}

// DeleteLink removes an external link.
func (s *Store) DeleteLink(ctx context.Context, id int64) error {
	done := observeQuery("delete_link")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM links WHERE id = ?", id)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to delete link: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		done(nil)
		return ErrNotFound
	}

	done(nil)
	return nil
}
