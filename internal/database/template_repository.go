package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"petgenie/models"
)

// ErrTemplateNotFound is returned when a template id has no row.
var ErrTemplateNotFound = errors.New("visit template not found")

// TemplateRepository stores the reusable visit template catalogue.
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a template repository over the given
// connection.
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts a template. A missing id is generated.
func (r *TemplateRepository) Create(tpl *models.VisitTemplate) error {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	_, err := r.db.Exec(
		`INSERT INTO visit_templates (id, name, service_type, duration_minutes) VALUES (?, ?, ?, ?)`,
		tpl.ID, tpl.Name, string(tpl.ServiceType), tpl.DurationMinutes,
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// Get returns one template, or ErrTemplateNotFound.
func (r *TemplateRepository) Get(id string) (*models.VisitTemplate, error) {
	var tpl models.VisitTemplate
	var serviceType string
	err := r.db.QueryRow(
		`SELECT id, name, service_type, duration_minutes FROM visit_templates WHERE id = ?`, id,
	).Scan(&tpl.ID, &tpl.Name, &serviceType, &tpl.DurationMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select template: %w", err)
	}
	tpl.ServiceType = models.ServiceType(serviceType)
	return &tpl, nil
}

// List returns the whole catalogue ordered by name.
func (r *TemplateRepository) List() ([]models.VisitTemplate, error) {
	rows, err := r.db.Query(`SELECT id, name, service_type, duration_minutes FROM visit_templates ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("select templates: %w", err)
	}
	defer rows.Close()

	var templates []models.VisitTemplate
	for rows.Next() {
		var tpl models.VisitTemplate
		var serviceType string
		if err := rows.Scan(&tpl.ID, &tpl.Name, &serviceType, &tpl.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		tpl.ServiceType = models.ServiceType(serviceType)
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// Delete removes a template.
func (r *TemplateRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM visit_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
