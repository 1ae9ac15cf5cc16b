package repository

import (
	"fmt"

	"github.com/jmdelacruz/pharmacy-inventory/internal/models"
)

// CreateSupplier inserts a new supplier
func (r *Repository) CreateSupplier(s *models.Supplier) error {
	query := `
		INSERT INTO suppliers (name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, s.Name, s.Email, s.Phone).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

// ListSuppliers returns all suppliers ordered by name
func (r *Repository) ListSuppliers() ([]models.Supplier, error) {
	query := `
		SELECT id, name, email, phone, created_at, updated_at
		FROM suppliers
		ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []models.Supplier
	for rows.Next() {
		var s models.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read suppliers: %w", err)
	}
	return suppliers, nil
}

// DeleteSupplier removes a supplier. Referencing products keep their rows;
// the supplier_id foreign key is cleared by ON DELETE SET NULL.
func (r *Repository) DeleteSupplier(id int64) error {
	res, err := r.db.Exec(`DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}
