package subscription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/subtrack/internal/apperr"
	"github.com/ayush/subtrack/internal/middleware"
	"github.com/ayush/subtrack/internal/models"
)

// memStore is an in-memory Store that expands categories on reads the way
// the Mongo $lookup does.
type memStore struct {
	subs  map[string]models.Subscription
	cats  map[string]models.Category
	calls map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		subs:  map[string]models.Subscription{},
		cats:  map[string]models.Category{},
		calls: map[string]int{},
	}
}

func (m *memStore) expand(sub models.Subscription) models.Subscription {
	if cat, ok := m.cats[sub.CategoryID.Hex()]; ok {
		sub.Category = &cat
	}
	return sub
}

func (m *memStore) FindAll(context.Context) ([]models.Subscription, error) {
	m.calls["FindAll"]++
	var out []models.Subscription
	for _, s := range m.subs {
		out = append(out, m.expand(s))
	}
	return out, nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*models.Subscription, error) {
	m.calls["FindByID"]++
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid subscription ID")
	}
	s, ok := m.subs[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Subscription not found")
	}
	s = m.expand(s)
	return &s, nil
}

func (m *memStore) Create(_ context.Context, sub *models.Subscription) (string, error) {
	m.calls["Create"]++
	sub.ID = primitive.NewObjectID()
	sub.CreatedAt = time.Now()
	m.subs[sub.ID.Hex()] = *sub
	return sub.ID.Hex(), nil
}

func (m *memStore) UpdateByID(_ context.Context, id string, fields bson.M) error {
	m.calls["UpdateByID"]++
	s, ok := m.subs[id]
	if !ok {
		return apperr.New(apperr.NotFound, "Subscription not found")
	}
	if v, ok := fields["name"]; ok {
		s.Name = v.(string)
	}
	if v, ok := fields["price"]; ok {
		s.Price = v.(float64)
	}
	if v, ok := fields["is_active"]; ok {
		s.IsActive = v.(bool)
	}
	m.subs[id] = s
	return nil
}

func (m *memStore) DeleteByID(_ context.Context, id string) error {
	m.calls["DeleteByID"]++
	if _, ok := m.subs[id]; !ok {
		return apperr.New(apperr.NotFound, "Subscription not found")
	}
	delete(m.subs, id)
	return nil
}

type staticSessions map[string]string

func (s staticSessions) Get(_ context.Context, sid string) (string, error) {
	return s[sid], nil
}

func newRouter(store Store) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/subscriptions", func(r chi.Router) {
		r.Use(middleware.RequireAuth(staticSessions{"tok": "user-1"}))
		NewHandler(store).Routes(r)
	})
	return r
}

func do(h http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer tok")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seedCategory(store *memStore, name string) models.Category {
	cat := models.Category{ID: primitive.NewObjectID(), Name: name, Description: name}
	store.cats[cat.ID.Hex()] = cat
	return cat
}

func TestUnauthenticated(t *testing.T) {
	store := newMemStore()
	rec := do(newRouter(store), http.MethodGet, "/api/subscriptions", "", false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, len(store.calls))
}

func TestListEmpty(t *testing.T) {
	rec := do(newRouter(newMemStore()), http.MethodGet, "/api/subscriptions", "", true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCreateExpandsCategory(t *testing.T) {
	store := newMemStore()
	cat := seedCategory(store, "Streaming")
	h := newRouter(store)

	body := `{"name":"Netflix","price":9.99,"duration":"Monthly","category":"` + cat.ID.Hex() + `","description":"video"}`
	rec := do(h, http.MethodPost, "/api/subscriptions", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sub models.Subscription
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.Equal(t, "Netflix", sub.Name)
	assert.Equal(t, 9.99, sub.Price)
	assert.True(t, sub.IsActive, "isActive defaults to true")
	require.NotNil(t, sub.Category, "category reference must be expanded")
	assert.Equal(t, "Streaming", sub.Category.Name)

	// the list read carries the embedded category too
	rec = do(h, http.MethodGet, "/api/subscriptions", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var subs []models.Subscription
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Category)
	assert.Equal(t, "Streaming", subs[0].Category.Name)
}

func TestCreateInvalidCategoryID(t *testing.T) {
	store := newMemStore()
	body := `{"name":"Netflix","price":9.99,"duration":"Monthly","category":"nope","description":"video"}`
	rec := do(newRouter(store), http.MethodPost, "/api/subscriptions", body, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid category ID"}`, rec.Body.String())
	assert.Zero(t, store.calls["Create"])
}

func TestCreateMissingPrice(t *testing.T) {
	store := newMemStore()
	body := `{"name":"Netflix","duration":"Monthly","category":"abc","description":"video"}`
	rec := do(newRouter(store), http.MethodPost, "/api/subscriptions", body, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Validation Error: \"price\" is required"}`, rec.Body.String())
}

func TestCreatePriceTypeMismatch(t *testing.T) {
	body := `{"name":"Netflix","price":"ten","duration":"Monthly","category":"abc","description":"video"}`
	rec := do(newRouter(newMemStore()), http.MethodPost, "/api/subscriptions", body, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Validation Error: \"price\" must be a number"}`, rec.Body.String())
}

func TestCreateZeroPriceIsValid(t *testing.T) {
	store := newMemStore()
	cat := seedCategory(store, "Free tier")

	body := `{"name":"Trial","price":0,"duration":"Monthly","category":"` + cat.ID.Hex() + `","description":"free"}`
	rec := do(newRouter(store), http.MethodPost, "/api/subscriptions", body, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetNotFound(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	rec := do(newRouter(newMemStore()), http.MethodGet, "/api/subscriptions/"+id, "", true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Subscription not found"}`, rec.Body.String())
}

func TestDelete(t *testing.T) {
	store := newMemStore()
	cat := seedCategory(store, "Streaming")
	h := newRouter(store)

	body := `{"name":"Netflix","price":9.99,"duration":"Monthly","category":"` + cat.ID.Hex() + `","description":"video"}`
	rec := do(h, http.MethodPost, "/api/subscriptions", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sub models.Subscription
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))

	rec = do(h, http.MethodDelete, "/api/subscriptions/"+sub.ID.Hex(), "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Subscription deleted"}`, rec.Body.String())

	rec = do(h, http.MethodDelete, "/api/subscriptions/"+sub.ID.Hex(), "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
