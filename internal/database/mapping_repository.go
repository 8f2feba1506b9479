package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// MappingRepository is the persisted label-to-client table. It satisfies
// the matcher's MappingStore interface; labels arriving here are already
// normalized.
type MappingRepository struct {
	db *sql.DB
}

// NewMappingRepository creates a mapping repository over the given
// connection.
func NewMappingRepository(db *sql.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// Get returns the client id mapped to a label, if any.
func (r *MappingRepository) Get(label string) (string, bool, error) {
	var clientID string
	err := r.db.QueryRow(`SELECT client_id FROM client_mappings WHERE label = ?`, label).Scan(&clientID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select mapping: %w", err)
	}
	return clientID, true, nil
}

// Set upserts a label mapping.
func (r *MappingRepository) Set(label, clientID string) error {
	_, err := r.db.Exec(
		`INSERT INTO client_mappings (label, client_id) VALUES (?, ?)
		 ON CONFLICT(label) DO UPDATE SET client_id = excluded.client_id`,
		label, clientID,
	)
	if err != nil {
		return fmt.Errorf("upsert mapping: %w", err)
	}
	return nil
}

// Remove forgets a label. Removing an unknown label is not an error.
func (r *MappingRepository) Remove(label string) error {
	if _, err := r.db.Exec(`DELETE FROM client_mappings WHERE label = ?`, label); err != nil {
		return fmt.Errorf("delete mapping: %w", err)
	}
	return nil
}

// RemoveForClient forgets every label pointing at a client.
func (r *MappingRepository) RemoveForClient(clientID string) error {
	if _, err := r.db.Exec(`DELETE FROM client_mappings WHERE client_id = ?`, clientID); err != nil {
		return fmt.Errorf("delete mappings for client: %w", err)
	}
	return nil
}

// List returns all mappings keyed by label, mainly for the API surface.
func (r *MappingRepository) List() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT label, client_id FROM client_mappings ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("select mappings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var label, clientID string
		if err := rows.Scan(&label, &clientID); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		out[label] = clientID
	}
	return out, rows.Err()
}
