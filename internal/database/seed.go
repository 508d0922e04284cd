package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Development project seeded into an empty database.
const (
	DevProjectRef = "qzvkrwxhnbtpadlcyefm"
	DevAccessKey  = "dev-access-key"
	DevReplicaID  = DevProjectRef + "-rr-us-east-1-k3v9d"
)

// Seed populates the database with initial development data: one project
// with a primary database, a read replica and their pooler settings. The
// dashboard access key is DevAccessKey.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count); err != nil {
		return fmt.Errorf("seed check projects: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DevAccessKey), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO projects (ref, name, cloud_provider, region, rest_url, access_key_hash)
		  VALUES ($1, $2, $3, $4, $5, $6)`,
			[]any{DevProjectRef, "Dev project", "AWS", "eu-central-1", "https://" + DevProjectRef + ".supabase.co", string(hash)}},
		{`INSERT INTO databases (identifier, project_ref, db_host, db_port, region, is_primary)
		  VALUES ($1, $2, $3, 5432, $4, TRUE)`,
			[]any{DevProjectRef, DevProjectRef, "db." + DevProjectRef + ".supabase.co", "eu-central-1"}},
		{`INSERT INTO databases (identifier, project_ref, db_host, db_port, region, is_primary)
		  VALUES ($1, $2, $3, 5432, $4, FALSE)`,
			[]any{DevReplicaID, DevProjectRef, DevReplicaID + ".supabase.co", "us-east-1"}},
		{`INSERT INTO pooling_configurations (identifier, pool_mode, db_host, db_port, connection_string)
		  VALUES ($1, 'transaction', $2, 6543, $3)`,
			[]any{DevProjectRef, "aws-0-eu-central-1.pooler.supabase.com",
				"postgres://postgres." + DevProjectRef + ":[YOUR-PASSWORD]@aws-0-eu-central-1.pooler.supabase.com:6543/postgres"}},
		{`INSERT INTO pooling_configurations (identifier, pool_mode, db_host, db_port, connection_string)
		  VALUES ($1, 'session', $2, 6543, $3)`,
			[]any{DevReplicaID, "aws-0-us-east-1.pooler.supabase.com",
				"postgres://postgres." + DevProjectRef + ":[YOUR-PASSWORD]@aws-0-us-east-1.pooler.supabase.com:6543/postgres"}},
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s.query, s.args...); err != nil {
			return fmt.Errorf("seed insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with dev project",
		"ref", DevProjectRef,
		"access_key", DevAccessKey,
	)

	return nil
}
