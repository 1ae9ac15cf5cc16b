package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmdelacruz/pharmacy-inventory/internal/models"
)

const productColumns = "id, name, sku, category, supplier_id, stock, price, expiry_date, is_archived, created_at, updated_at"

// CreateProduct inserts a new product and fills in the generated fields
func (r *Repository) CreateProduct(p *models.Product) error {
	query := `
		INSERT INTO products (name, sku, category, supplier_id, stock, price, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_archived, created_at, updated_at`
	err := r.db.QueryRow(query, p.Name, p.SKU, p.Category, p.SupplierID, p.Stock, p.Price, p.ExpiryDate).
		Scan(&p.ID, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return models.ErrDuplicateSKU
	}
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct applies a partial update to a non-archived product and
// returns the updated row. The modification timestamp is always refreshed.
func (r *Repository) UpdateProduct(id int64, upd models.ProductUpdate) (*models.Product, error) {
	var set []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.SKU != nil {
		add("sku", *upd.SKU)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.SupplierID != nil {
		add("supplier_id", *upd.SupplierID)
	}
	if upd.Stock != nil {
		add("stock", *upd.Stock)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.ExpiryDate != nil {
		add("expiry_date", *upd.ExpiryDate)
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE id = $%d AND is_archived = FALSE
		RETURNING %s`, strings.Join(set, ", "), len(args), productColumns)

	p, err := scanProduct(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, models.ErrDuplicateSKU
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

// ArchiveProduct removes a product from the active set by flipping its
// archived flag. The row is kept so SKU uniqueness still covers it.
func (r *Repository) ArchiveProduct(id int64) error {
	query := `
		UPDATE products
		SET is_archived = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_archived = FALSE`
	res, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to archive product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to archive product: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SearchProducts matches non-archived products by exact SKU or
// case-insensitive name substring
func (r *Repository) SearchProducts(query string) ([]models.Product, error) {
	stmt := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE (sku = $1 OR LOWER(name) LIKE LOWER($2))
		  AND is_archived = FALSE`, productColumns)
	rows, err := r.db.Query(stmt, query, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return collectProducts(rows)
}

// ListProducts returns up to limit non-archived products ordered by name,
// starting at offset
func (r *Repository) ListProducts(limit, offset int) ([]models.Product, error) {
	stmt := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE is_archived = FALSE
		ORDER BY name
		LIMIT $1 OFFSET $2`, productColumns)
	rows, err := r.db.Query(stmt, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return collectProducts(rows)
}

// ActiveProducts returns every non-archived product
func (r *Repository) ActiveProducts() ([]models.Product, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM products WHERE is_archived = FALSE`, productColumns)
	rows, err := r.db.Query(stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return collectProducts(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.SupplierID,
		&p.Stock, &p.Price, &p.ExpiryDate, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()
	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}
