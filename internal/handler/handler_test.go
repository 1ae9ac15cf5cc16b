package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmdelacruz/pharmacy-inventory/internal/config"
	"github.com/jmdelacruz/pharmacy-inventory/internal/jwtutil"
	"github.com/jmdelacruz/pharmacy-inventory/internal/middleware"
	"github.com/jmdelacruz/pharmacy-inventory/internal/models"
	"github.com/jmdelacruz/pharmacy-inventory/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserStore struct {
	users  map[string]*models.User
	nextID int64
}

func (m *memUserStore) CreateUser(user *models.User) error {
	if _, exists := m.users[user.Username]; exists {
		return models.ErrDuplicateUsername
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.Username] = &stored
	return nil
}

func (m *memUserStore) FindUserByUsername(username string) (*models.User, error) {
	user, exists := m.users[username]
	if !exists {
		return nil, models.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (m *memUserStore) FindUserByID(id int64) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			found := *user
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memUserStore) UpdatePassword(id int64, passwordHash string) error {
	for _, user := range m.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return models.ErrNotFound
}

type memProductStore struct {
	products []models.Product
	nextID   int64
}

func (m *memProductStore) CreateProduct(p *models.Product) error {
	for _, existing := range m.products {
		if existing.SKU == p.SKU {
			return models.ErrDuplicateSKU
		}
	}
	m.nextID++
	p.ID = m.nextID
	m.products = append(m.products, *p)
	return nil
}

func (m *memProductStore) UpdateProduct(id int64, upd models.ProductUpdate) (*models.Product, error) {
	for i := range m.products {
		p := &m.products[i]
		if p.ID != id || p.IsArchived {
			continue
		}
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Stock != nil {
			p.Stock = *upd.Stock
		}
		if upd.Price != nil {
			p.Price = *upd.Price
		}
		updated := *p
		return &updated, nil
	}
	return nil, models.ErrNotFound
}

func (m *memProductStore) ArchiveProduct(id int64) error {
	for i := range m.products {
		if m.products[i].ID == id && !m.products[i].IsArchived {
			m.products[i].IsArchived = true
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memProductStore) SearchProducts(query string) ([]models.Product, error) {
	var matches []models.Product
	for _, p := range m.products {
		if p.IsArchived {
			continue
		}
		if p.SKU == query || strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (m *memProductStore) ListProducts(limit, offset int) ([]models.Product, error) {
	active, _ := m.ActiveProducts()
	if offset >= len(active) {
		return nil, nil
	}
	active = active[offset:]
	if len(active) > limit {
		active = active[:limit]
	}
	return active, nil
}

func (m *memProductStore) ActiveProducts() ([]models.Product, error) {
	var active []models.Product
	for _, p := range m.products {
		if !p.IsArchived {
			active = append(active, p)
		}
	}
	return active, nil
}

type memSupplierStore struct {
	suppliers []models.Supplier
	nextID    int64
}

func (m *memSupplierStore) CreateSupplier(s *models.Supplier) error {
	m.nextID++
	s.ID = m.nextID
	m.suppliers = append(m.suppliers, *s)
	return nil
}

func (m *memSupplierStore) ListSuppliers() ([]models.Supplier, error) {
	return m.suppliers, nil
}

func (m *memSupplierStore) DeleteSupplier(id int64) error {
	for i, s := range m.suppliers {
		if s.ID == id {
			m.suppliers = append(m.suppliers[:i], m.suppliers[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// newTestRouter wires the handler behind the same routes and middleware as
// cmd/api, backed by in-memory stores.
func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	cfg := &config.Config{AdminUsers: []string{"admin"}}
	tokens := jwtutil.New("test-secret", time.Hour)
	authSvc := service.NewAuthService(&memUserStore{users: make(map[string]*models.User)}, service.BcryptHasher{}, tokens, log)
	inventorySvc := service.NewInventoryService(&memProductStore{}, &memSupplierStore{}, log)
	h := NewHandler(authSvc, inventorySvc, cfg, log)

	r := mux.NewRouter()
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.Auth(tokens))
	authRouter.HandleFunc("/auth/change-password", h.ChangePassword).Methods("POST")
	authRouter.HandleFunc("/profile", h.Profile).Methods("GET")
	authRouter.HandleFunc("/products", h.CreateProduct).Methods("POST")
	authRouter.HandleFunc("/products", h.ListProducts).Methods("GET")
	authRouter.HandleFunc("/products/search", h.SearchProduct).Methods("GET")
	authRouter.HandleFunc("/products/summary", h.InventorySummary).Methods("GET")
	authRouter.HandleFunc("/products/{id:[0-9]+}", h.UpdateProduct).Methods("PUT")
	authRouter.HandleFunc("/products/{id:[0-9]+}", h.ArchiveProduct).Methods("DELETE")
	authRouter.HandleFunc("/suppliers", h.CreateSupplier).Methods("POST")
	authRouter.HandleFunc("/suppliers", h.ListSuppliers).Methods("GET")
	authRouter.HandleFunc("/suppliers/{id:[0-9]+}", h.DeleteSupplier).Methods("DELETE")

	return r
}

func doJSON(t *testing.T, r *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, r *mux.Router, username, password string) string {
	t.Helper()

	rec := doJSON(t, r, "POST", "/auth/register", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, r, "POST", "/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func TestRegisterEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/auth/register", "", map[string]string{"username": "alice", "password": "s3cret"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotContains(t, rec.Body.String(), "password")

	// second registration with the same username
	rec = doJSON(t, r, "POST", "/auth/register", "", map[string]string{"username": "alice", "password": "other"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already exists")
}

func TestRegisterMissingFields(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/auth/register", "", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpointIdenticalFailures(t *testing.T) {
	r := newTestRouter(t)
	_ = loginToken(t, r, "alice", "s3cret")

	wrongPassword := doJSON(t, r, "POST", "/auth/login", "", map[string]string{"username": "alice", "password": "bad"})
	unknownUser := doJSON(t, r, "POST", "/auth/login", "", map[string]string{"username": "ghost", "password": "bad"})

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, http.StatusBadRequest, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestChangePasswordEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r, "alice", "s3cret")

	// unauthenticated request is rejected by the middleware
	rec := doJSON(t, r, "POST", "/auth/change-password", "", map[string]string{"old_password": "s3cret", "new_password": "n3w"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, "POST", "/auth/change-password", token, map[string]string{"old_password": "wrong", "new_password": "n3w"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, "POST", "/auth/change-password", token, map[string]string{"old_password": "s3cret", "new_password": "n3w"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, "POST", "/auth/login", "", map[string]string{"username": "alice", "password": "s3cret"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, r, "POST", "/auth/login", "", map[string]string{"username": "alice", "password": "n3w"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileEndpoint(t *testing.T) {
	r := newTestRouter(t)

	token := loginToken(t, r, "admin", "s3cret")
	rec := doJSON(t, r, "GET", "/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)

	token = loginToken(t, r, "bob", "s3cret")
	rec = doJSON(t, r, "GET", "/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_admin":false`)
}

func TestCreateProductEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r, "alice", "s3cret")

	// expiry_date is required at the boundary
	rec := doJSON(t, r, "POST", "/products", token, map[string]interface{}{
		"name": "Paracetamol", "sku": "PARA-500", "price": 9.99,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, "POST", "/products", token, map[string]interface{}{
		"name": "Paracetamol", "sku": "PARA-500", "price": 9.99, "expiry_date": "2027-01-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "PARA-500", created.SKU)
	require.NotNil(t, created.ExpiryDate)
	assert.Equal(t, 2027, created.ExpiryDate.Year())

	// duplicate SKU conflicts
	rec = doJSON(t, r, "POST", "/products", token, map[string]interface{}{
		"name": "Other", "sku": "PARA-500", "price": 1, "expiry_date": "2027-01-31",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateProductEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r, "alice", "s3cret")

	rec := doJSON(t, r, "POST", "/products", token, map[string]interface{}{
		"name": "Paracetamol", "sku": "PARA-500", "price": 9.99, "expiry_date": "2027-01-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// empty update set
	rec = doJSON(t, r, "PUT", "/products/1", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, "PUT", "/products/1", token, map[string]interface{}{"stock": 42})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 42, updated.Stock)

	rec = doJSON(t, r, "PUT", "/products/99", token, map[string]interface{}{"stock": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArchiveProductEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r, "alice", "s3cret")

	rec := doJSON(t, r, "POST", "/products", token, map[string]interface{}{
		"name": "Paracetamol", "sku": "PARA-500", "price": 9.99, "expiry_date": "2027-01-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, "DELETE", "/products/1", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// archived product is gone from search and repeat archive
	rec = doJSON(t, r, "GET", "/products/search?query=PARA-500", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, r, "DELETE", "/products/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchProductEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r, "alice", "s3cret")

	rec := doJSON(t, r, "GET", "/products/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, "GET", "/products/search?query=nothing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, "POST", "/products", token, map[string]interface{}{
		"name": "Paracetamol", "sku": "PARA-500", "price": 9.99, "expiry_date": "2027-01-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, "GET", "/products/search?query=paracet", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PARA-500")
}

func TestListProductsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r, "alice", "s3cret")

	rec := doJSON(t, r, "GET", "/products", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page models.ProductPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Empty(t, page.Data)
	assert.False(t, page.NextPage)
	assert.Contains(t, rec.Body.String(), `"next_page":false`)
}

func TestInventorySummaryEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r, "alice", "s3cret")

	rec := doJSON(t, r, "GET", "/products/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No expired medicines.")
	assert.Contains(t, rec.Body.String(), "No low stock items.")
	assert.Contains(t, rec.Body.String(), "No medicines expiring soon.")
	assert.Contains(t, rec.Body.String(), "₱0.00")
}

func TestSupplierEndpoints(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r, "alice", "s3cret")

	rec := doJSON(t, r, "POST", "/suppliers", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, "POST", "/suppliers", token, map[string]string{"name": "MediSupply"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, "GET", "/suppliers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "MediSupply")

	rec = doJSON(t, r, "DELETE", "/suppliers/1", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, r, "DELETE", "/suppliers/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
