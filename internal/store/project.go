// Package store provides database access methods for all docstudio
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"docstudio/internal/models"
)

// ProjectStore handles project lookups and dashboard access keys.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, ref, name, cloud_provider, region, rest_url, access_key_hash, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }, p *models.Project) error {
	return row.Scan(
		&p.ID, &p.Ref, &p.Name, &p.CloudProvider, &p.Region,
		&p.RestURL, &p.AccessKeyHash, &p.CreatedAt, &p.UpdatedAt,
	)
}

// FindByRef retrieves a project by its ref. Returns nil if not found.
func (s *ProjectStore) FindByRef(ref string) (*models.Project, error) {
	p := &models.Project{}
	err := scanProject(s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE ref = $1`, ref), p)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by ref: %w", err)
	}
	return p, nil
}

// List returns all projects ordered by name.
func (s *ProjectStore) List() ([]models.Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Create inserts a project with a bcrypt-hashed access key.
func (s *ProjectStore) Create(p *models.Project, accessKey string) (*models.Project, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(accessKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash access key: %w", err)
	}

	out := &models.Project{}
	err = scanProject(s.db.QueryRow(`
		INSERT INTO projects (ref, name, cloud_provider, region, rest_url, access_key_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+projectColumns,
		p.Ref, p.Name, p.CloudProvider, p.Region, p.RestURL, string(hash),
	), out)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return out, nil
}

// Delete removes a project and, by cascade, its databases and add-ons.
func (s *ProjectStore) Delete(ref string) error {
	if _, err := s.db.Exec(`DELETE FROM projects WHERE ref = $1`, ref); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// CheckAccessKey verifies a plaintext access key against the project's stored hash.
func (s *ProjectStore) CheckAccessKey(p *models.Project, key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.AccessKeyHash), []byte(key)) == nil
}
