package store

import (
	"database/sql"
	"fmt"

	"docstudio/internal/models"
)

// PoolingStore reads and updates pooler settings.
type PoolingStore struct {
	db *sql.DB
}

// NewPoolingStore creates a new PoolingStore.
func NewPoolingStore(db *sql.DB) *PoolingStore {
	return &PoolingStore{db: db}
}

const poolingColumns = `p.identifier, p.pool_mode, p.db_host, p.db_port, p.db_user, p.db_name, p.connection_string, p.updated_at`

func scanPooling(row interface{ Scan(...any) error }, p *models.PoolingConfiguration) error {
	return row.Scan(
		&p.Identifier, &p.PoolMode, &p.Host, &p.Port, &p.User, &p.Name,
		&p.ConnectionString, &p.UpdatedAt,
	)
}

// ListByProject returns the pooler settings of every database of a project.
func (s *PoolingStore) ListByProject(ref string) ([]models.PoolingConfiguration, error) {
	rows, err := s.db.Query(`
		SELECT `+poolingColumns+`
		FROM pooling_configurations p
		JOIN databases d ON d.identifier = p.identifier
		WHERE d.project_ref = $1
		ORDER BY d.is_primary DESC, d.inserted_at ASC
	`, ref)
	if err != nil {
		return nil, fmt.Errorf("list pooling configurations: %w", err)
	}
	defer rows.Close()

	var out []models.PoolingConfiguration
	for rows.Next() {
		var p models.PoolingConfiguration
		if err := scanPooling(rows, &p); err != nil {
			return nil, fmt.Errorf("scan pooling configuration: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// FindByIdentifier retrieves the pooler settings of one database. Returns
// nil if the database has none.
func (s *PoolingStore) FindByIdentifier(identifier string) (*models.PoolingConfiguration, error) {
	p := &models.PoolingConfiguration{}
	err := scanPooling(s.db.QueryRow(`
		SELECT `+poolingColumns+` FROM pooling_configurations p WHERE p.identifier = $1
	`, identifier), p)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pooling configuration: %w", err)
	}
	return p, nil
}

// Upsert creates or replaces the pooler settings of a database.
func (s *PoolingStore) Upsert(p *models.PoolingConfiguration) error {
	err := s.db.QueryRow(`
		INSERT INTO pooling_configurations (identifier, pool_mode, db_host, db_port, db_user, db_name, connection_string)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (identifier) DO UPDATE SET
			pool_mode = EXCLUDED.pool_mode,
			db_host = EXCLUDED.db_host,
			db_port = EXCLUDED.db_port,
			db_user = EXCLUDED.db_user,
			db_name = EXCLUDED.db_name,
			connection_string = EXCLUDED.connection_string,
			updated_at = NOW()
		RETURNING updated_at
	`, p.Identifier, p.PoolMode, p.Host, p.Port, p.User, p.Name, p.ConnectionString).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert pooling configuration: %w", err)
	}
	return nil
}

// SetPoolMode switches a database's pooler between transaction and session mode.
func (s *PoolingStore) SetPoolMode(identifier, mode string) error {
	res, err := s.db.Exec(`
		UPDATE pooling_configurations SET pool_mode = $1, updated_at = NOW() WHERE identifier = $2
	`, mode, identifier)
	if err != nil {
		return fmt.Errorf("set pool mode: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set pool mode: no pooling configuration for %q", identifier)
	}
	return nil
}
