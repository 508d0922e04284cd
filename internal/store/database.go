package store

import (
	"database/sql"
	"fmt"

	"docstudio/internal/models"
)

// DatabaseStore reads the databases (primary and read replicas) of a project.
type DatabaseStore struct {
	db *sql.DB
}

// NewDatabaseStore creates a new DatabaseStore.
func NewDatabaseStore(db *sql.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

const databaseColumns = `identifier, project_ref, db_host, db_port, db_user, db_name, region, status, is_primary, inserted_at`

func scanDatabase(row interface{ Scan(...any) error }, d *models.Database) error {
	return row.Scan(
		&d.Identifier, &d.ProjectRef, &d.Host, &d.Port, &d.User, &d.Name,
		&d.Region, &d.Status, &d.IsPrimary, &d.InsertedAt,
	)
}

// ListByProject returns every database of a project, primary first, then
// replicas by creation time.
func (s *DatabaseStore) ListByProject(ref string) ([]models.Database, error) {
	rows, err := s.db.Query(`
		SELECT `+databaseColumns+`
		FROM databases WHERE project_ref = $1
		ORDER BY is_primary DESC, inserted_at ASC
	`, ref)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	defer rows.Close()

	var dbs []models.Database
	for rows.Next() {
		var d models.Database
		if err := scanDatabase(rows, &d); err != nil {
			return nil, fmt.Errorf("scan database: %w", err)
		}
		dbs = append(dbs, d)
	}
	return dbs, rows.Err()
}

// FindByIdentifier retrieves one database. Returns nil if not found.
func (s *DatabaseStore) FindByIdentifier(identifier string) (*models.Database, error) {
	d := &models.Database{}
	err := scanDatabase(s.db.QueryRow(`SELECT `+databaseColumns+` FROM databases WHERE identifier = $1`, identifier), d)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find database: %w", err)
	}
	return d, nil
}

// Create inserts a database row.
func (s *DatabaseStore) Create(d *models.Database) error {
	status := d.Status
	if status == "" {
		status = models.DatabaseActiveHealthy
	}
	err := s.db.QueryRow(`
		INSERT INTO databases (identifier, project_ref, db_host, db_port, db_user, db_name, region, status, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING status, inserted_at
	`, d.Identifier, d.ProjectRef, d.Host, d.Port, d.User, d.Name, d.Region, status, d.IsPrimary,
	).Scan(&d.Status, &d.InsertedAt)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	return nil
}
