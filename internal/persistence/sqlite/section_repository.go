package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

const sectionColumns = "id, course_code, title, capacity, created_at, updated_at"

// SectionRepository implements persistence.SectionRepository using SQLite.
type SectionRepository struct {
	pool *ConnectionPool
}

// NewSectionRepository creates a new SQLite section repository.
func NewSectionRepository(pool *ConnectionPool) *SectionRepository {
	return &SectionRepository{pool: pool}
}

// CreateSection inserts a new section.
func (r *SectionRepository) CreateSection(ctx context.Context, section persistence.Section) error {
	if section.ID == "" {
		return persistence.ErrConstraintViolation
	}
	query := fmt.Sprintf("INSERT INTO sections (%s) VALUES (?, ?, ?, ?, ?, ?)", sectionColumns)
	_, err := r.pool.db.ExecContext(ctx, query,
		section.ID,
		section.CourseCode,
		section.Title,
		section.Capacity,
		section.CreatedAt.UTC().Format(time.RFC3339),
		section.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetSection retrieves a section by ID.
func (r *SectionRepository) GetSection(ctx context.Context, id string) (persistence.Section, error) {
	return getSection(ctx, r.pool.db, id)
}

// ListSections returns all sections ordered by course code and id.
func (r *SectionRepository) ListSections(ctx context.Context) ([]persistence.Section, error) {
	query := fmt.Sprintf("SELECT %s FROM sections ORDER BY course_code ASC, id ASC", sectionColumns)
	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var sections []persistence.Section
	for rows.Next() {
		var (
			section              persistence.Section
			createdAt, updatedAt string
		)
		if err := rows.Scan(&section.ID, &section.CourseCode, &section.Title, &section.Capacity, &createdAt, &updatedAt); err != nil {
			return nil, mapError(err)
		}
		if section.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse created_at: %w", err)
		}
		if section.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse updated_at: %w", err)
		}
		sections = append(sections, section)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return sections, nil
}

func getSection(ctx context.Context, q querier, id string) (persistence.Section, error) {
	if id == "" {
		return persistence.Section{}, persistence.ErrNotFound
	}

	var (
		section              persistence.Section
		createdAt, updatedAt string
	)
	query := fmt.Sprintf("SELECT %s FROM sections WHERE id = ?", sectionColumns)
	err := q.QueryRowContext(ctx, query, id).Scan(
		&section.ID,
		&section.CourseCode,
		&section.Title,
		&section.Capacity,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Section{}, mapError(err)
	}
	if section.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Section{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if section.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Section{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return section, nil
}

func updateSectionCapacity(ctx context.Context, q querier, sectionID string, capacity int, updatedAt time.Time) error {
	result, err := q.ExecContext(ctx,
		"UPDATE sections SET capacity = ?, updated_at = ? WHERE id = ?",
		capacity,
		updatedAt.UTC().Format(time.RFC3339),
		sectionID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
