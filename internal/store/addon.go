package store

import (
	"database/sql"
	"fmt"

	"docstudio/internal/models"
)

// AddonStore handles the add-ons selected by a project.
type AddonStore struct {
	db *sql.DB
}

// NewAddonStore creates a new AddonStore.
func NewAddonStore(db *sql.DB) *AddonStore {
	return &AddonStore{db: db}
}

// ListByProject returns the selected add-ons of a project.
func (s *AddonStore) ListByProject(ref string) ([]models.Addon, error) {
	rows, err := s.db.Query(`
		SELECT id, project_ref, addon_type, variant, created_at
		FROM project_addons WHERE project_ref = $1
		ORDER BY addon_type ASC
	`, ref)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	defer rows.Close()

	var addons []models.Addon
	for rows.Next() {
		var a models.Addon
		if err := rows.Scan(&a.ID, &a.ProjectRef, &a.Type, &a.Variant, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan addon: %w", err)
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}

// Select enables an add-on for a project, replacing the variant if the
// add-on type is already selected.
func (s *AddonStore) Select(ref, addonType, variant string) error {
	_, err := s.db.Exec(`
		INSERT INTO project_addons (project_ref, addon_type, variant)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_ref, addon_type) DO UPDATE SET variant = EXCLUDED.variant
	`, ref, addonType, variant)
	if err != nil {
		return fmt.Errorf("select addon: %w", err)
	}
	return nil
}

// Remove disables an add-on.
func (s *AddonStore) Remove(ref, addonType string) error {
	_, err := s.db.Exec(`DELETE FROM project_addons WHERE project_ref = $1 AND addon_type = $2`, ref, addonType)
	if err != nil {
		return fmt.Errorf("remove addon: %w", err)
	}
	return nil
}
