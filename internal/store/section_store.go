package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/taskdash/internal/model"
)

// CreateSection appends a new section after the existing ones.
// Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateSection(ctx context.Context, section model.Section) (model.Section, error) {
	if strings.TrimSpace(section.Name) == "" {
		return model.Section{}, fmt.Errorf("section name must not be empty")
	}
	if section.ID == "" {
		section.ID = uuid.New().String()
	}
	section.CreatedAt = time.Now().UTC()

	if section.SortOrder == 0 {
		var maxOrder int
		err := s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM sections")
		if err != nil {
			return model.Section{}, fmt.Errorf("getting max sort_order: %w", err)
		}
		section.SortOrder = maxOrder + 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sections (id, name, sort_order, created_at)
		VALUES (?, ?, ?, ?)`,
		section.ID, section.Name, section.SortOrder, section.CreatedAt,
	)
	if err != nil {
		return model.Section{}, fmt.Errorf("creating section: %w", err)
	}
	return section, nil
}

// RenameSection updates the display name of a section.
func (s *SQLiteStore) RenameSection(ctx context.Context, id, name string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE sections SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("renaming section %s: %w", id, err)
	}
	return expectRow(result, "section", id)
}

// DeleteSection removes a section. Tasks that reference it are left
// untouched. The default section is never removed.
func (s *SQLiteStore) DeleteSection(ctx context.Context, id string) error {
	if id == model.DefaultSectionID {
		return nil
	}
	result, err := s.db.ExecContext(ctx, "DELETE FROM sections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting section %s: %w", id, err)
	}
	return expectRow(result, "section", id)
}

// GetSectionByID retrieves a single section by ID.
func (s *SQLiteStore) GetSectionByID(ctx context.Context, id string) (*model.Section, error) {
	var section model.Section
	err := s.db.GetContext(ctx, &section,
		"SELECT id, name, sort_order, created_at FROM sections WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("section %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting section %s: %w", id, err)
	}
	return &section, nil
}

// GetSections retrieves all sections in display order.
func (s *SQLiteStore) GetSections(ctx context.Context) ([]model.Section, error) {
	var sections []model.Section
	err := s.db.SelectContext(ctx, &sections,
		"SELECT id, name, sort_order, created_at FROM sections ORDER BY sort_order, created_at")
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	return sections, nil
}
