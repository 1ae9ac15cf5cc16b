package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/jmdelacruz/pharmacy-inventory/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	lowStockThreshold = 10
	expiryWindow      = 30 * 24 * time.Hour

	defaultPage  = 1
	defaultLimit = 20
)

// Placeholder strings reported in place of empty summary detail lists.
const (
	msgNoExpired      = "No expired medicines."
	msgNoLowStock     = "No low stock items."
	msgNoSoonToExpire = "No medicines expiring soon."
)

// ProductStore persists product records
type ProductStore interface {
	CreateProduct(p *models.Product) error
	UpdateProduct(id int64, upd models.ProductUpdate) (*models.Product, error)
	ArchiveProduct(id int64) error
	SearchProducts(query string) ([]models.Product, error)
	ListProducts(limit, offset int) ([]models.Product, error)
	ActiveProducts() ([]models.Product, error)
}

// SupplierStore persists supplier records
type SupplierStore interface {
	CreateSupplier(s *models.Supplier) error
	ListSuppliers() ([]models.Supplier, error)
	DeleteSupplier(id int64) error
}

// InventoryService handles product management and reporting
type InventoryService struct {
	products  ProductStore
	suppliers SupplierStore
	log       *logrus.Logger
	now       func() time.Time
}

// NewInventoryService initializes a new inventory service
func NewInventoryService(products ProductStore, suppliers SupplierStore, log *logrus.Logger) *InventoryService {
	return &InventoryService{
		products:  products,
		suppliers: suppliers,
		log:       log,
		now:       time.Now,
	}
}

// CreateProduct validates and persists a new product. Stock defaults to 0
// and expiry date may be absent at this layer.
func (s *InventoryService) CreateProduct(p *models.Product) (*models.Product, error) {
	if p.Name == "" || p.SKU == "" {
		return nil, fmt.Errorf("%w: name and sku are required", models.ErrValidation)
	}
	if p.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than zero", models.ErrValidation)
	}

	if err := s.products.CreateProduct(p); err != nil {
		return nil, err
	}

	s.log.Infof("Product created: %s (sku %s)", p.Name, p.SKU)
	return p, nil
}

// UpdateProduct applies a partial update to a non-archived product
func (s *InventoryService) UpdateProduct(id int64, upd models.ProductUpdate) (*models.Product, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: at least one field is required to update", models.ErrValidation)
	}

	p, err := s.products.UpdateProduct(id, upd)
	if err != nil {
		return nil, err
	}

	s.log.Infof("Product updated: %d", id)
	return p, nil
}

// ArchiveProduct removes a product from the active set
func (s *InventoryService) ArchiveProduct(id int64) error {
	if err := s.products.ArchiveProduct(id); err != nil {
		return err
	}
	s.log.Infof("Product archived: %d", id)
	return nil
}

// FindBySKUOrName returns the first non-archived product matching the query
// by exact SKU or case-insensitive name substring
func (s *InventoryService) FindBySKUOrName(query string) (*models.Product, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: product SKU or name is required", models.ErrValidation)
	}

	matches, err := s.products.SearchProducts(query)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, models.ErrNotFound
	}
	return &matches[0], nil
}

// ListProducts returns one page of non-archived products ordered by name.
// One extra row is fetched to decide whether a next page exists.
func (s *InventoryService) ListProducts(page, limit int) (*models.ProductPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	offset := (page - 1) * limit
	rows, err := s.products.ListProducts(limit+1, offset)
	if err != nil {
		return nil, err
	}

	next := len(rows) > limit
	if next {
		rows = rows[:limit]
	}
	if rows == nil {
		rows = []models.Product{}
	}
	return &models.ProductPage{Data: rows, NextPage: next}, nil
}

// GetSummary computes the inventory summary over all non-archived products.
// The report is computed fresh on every call.
func (s *InventoryService) GetSummary() (*models.InventorySummary, error) {
	products, err := s.products.ActiveProducts()
	if err != nil {
		return nil, err
	}

	now := s.now()
	horizon := now.Add(expiryWindow)

	var lowStock, expired, soonToExpire []models.Product
	var value float64
	for _, p := range products {
		if p.Stock <= lowStockThreshold {
			lowStock = append(lowStock, p)
		}
		if p.ExpiryDate != nil {
			if p.ExpiryDate.Before(now) {
				expired = append(expired, p)
			} else if !p.ExpiryDate.After(horizon) {
				soonToExpire = append(soonToExpire, p)
			}
		}
		value += float64(p.Stock) * p.Price
	}

	sort.Slice(lowStock, func(i, j int) bool { return lowStock[i].Stock < lowStock[j].Stock })
	sort.Slice(expired, func(i, j int) bool { return expired[i].ExpiryDate.Before(*expired[j].ExpiryDate) })
	sort.Slice(soonToExpire, func(i, j int) bool { return soonToExpire[i].ExpiryDate.Before(*soonToExpire[j].ExpiryDate) })

	return &models.InventorySummary{
		Summary: models.SummaryStats{
			TotalProducts:  len(products),
			LowStock:       len(lowStock),
			Expired:        len(expired),
			InventoryValue: fmt.Sprintf("₱%.2f", value),
		},
		Details: models.SummaryDetails{
			ExpiredMedicines: listOrMessage(expired, msgNoExpired),
			LowStockItems:    listOrMessage(lowStock, msgNoLowStock),
			SoonToExpire:     listOrMessage(soonToExpire, msgNoSoonToExpire),
		},
	}, nil
}

// CreateSupplier validates and persists a new supplier
func (s *InventoryService) CreateSupplier(sup *models.Supplier) (*models.Supplier, error) {
	if sup.Name == "" {
		return nil, fmt.Errorf("%w: supplier name is required", models.ErrValidation)
	}
	if err := s.suppliers.CreateSupplier(sup); err != nil {
		return nil, err
	}
	s.log.Infof("Supplier created: %s", sup.Name)
	return sup, nil
}

// ListSuppliers returns all suppliers
func (s *InventoryService) ListSuppliers() ([]models.Supplier, error) {
	return s.suppliers.ListSuppliers()
}

// DeleteSupplier removes a supplier; product references are cleared by the store
func (s *InventoryService) DeleteSupplier(id int64) error {
	if err := s.suppliers.DeleteSupplier(id); err != nil {
		return err
	}
	s.log.Infof("Supplier deleted: %d", id)
	return nil
}

func listOrMessage(products []models.Product, message string) interface{} {
	if len(products) == 0 {
		return message
	}
	return products
}
