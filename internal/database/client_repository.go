package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"petgenie/models"
)

// ErrClientNotFound is returned when a client id has no row.
var ErrClientNotFound = errors.New("client not found")

// ClientRepository stores the client roster and their pets.
type ClientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a client repository over the given connection.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a client with their pets. A missing id is generated.
func (r *ClientRepository) Create(client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO clients (id, name, email, phone) VALUES (?, ?, ?, ?)`,
		client.ID, client.Name, client.Email, client.Phone,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}

	for i := range client.Pets {
		res, err := tx.Exec(`INSERT INTO pets (client_id, name) VALUES (?, ?)`, client.ID, client.Pets[i].Name)
		if err != nil {
			return fmt.Errorf("insert pet: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			client.Pets[i].ID = id
		}
	}

	return tx.Commit()
}

// Get returns one client with pets, or ErrClientNotFound.
func (r *ClientRepository) Get(id string) (*models.Client, error) {
	var client models.Client
	err := r.db.QueryRow(
		`SELECT id, name, email, phone FROM clients WHERE id = ?`, id,
	).Scan(&client.ID, &client.Name, &client.Email, &client.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select client: %w", err)
	}

	pets, err := r.petsFor(client.ID)
	if err != nil {
		return nil, err
	}
	client.Pets = pets
	return &client, nil
}

// List returns the whole roster ordered by name, pets included.
func (r *ClientRepository) List() ([]models.Client, error) {
	rows, err := r.db.Query(`SELECT id, name, email, phone FROM clients ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("select clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range clients {
		pets, err := r.petsFor(clients[i].ID)
		if err != nil {
			return nil, err
		}
		clients[i].Pets = pets
	}
	return clients, nil
}

// Update rewrites a client's fields and replaces their pet list.
func (r *ClientRepository) Update(client *models.Client) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE clients SET name = ?, email = ?, phone = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		client.Name, client.Email, client.Phone, client.ID,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrClientNotFound
	}

	if _, err := tx.Exec(`DELETE FROM pets WHERE client_id = ?`, client.ID); err != nil {
		return fmt.Errorf("clear pets: %w", err)
	}
	for i := range client.Pets {
		res, err := tx.Exec(`INSERT INTO pets (client_id, name) VALUES (?, ?)`, client.ID, client.Pets[i].Name)
		if err != nil {
			return fmt.Errorf("insert pet: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			client.Pets[i].ID = id
		}
	}

	return tx.Commit()
}

// Delete removes a client; pets and mappings cascade.
func (r *ClientRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) petsFor(clientID string) ([]models.Pet, error) {
	rows, err := r.db.Query(`SELECT id, name FROM pets WHERE client_id = ? ORDER BY id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("select pets: %w", err)
	}
	defer rows.Close()

	var pets []models.Pet
	for rows.Next() {
		var p models.Pet
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		pets = append(pets, p)
	}
	return pets, rows.Err()
}
