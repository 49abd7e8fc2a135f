package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/aliblock43/point-property-hub/models"
)

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/properties/luxury-downtown-condo", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Property{
			ID:     "p1",
			Title:  "Luxury Downtown Condo",
			Slug:   "luxury-downtown-condo",
			Status: models.PropertyStatusActive,
			Views:  12,
		})
	})
	mux.HandleFunc("GET /api/properties/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch property"})
	})
	mux.HandleFunc("GET /api/properties/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Property not found"})
	})
	mux.HandleFunc("GET /api/properties", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Property{{ID: "p1", Status: models.PropertyStatusActive}})
	})
	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid email or password"})
			return
		}
		json.NewEncoder(w).Encode(models.LoginResponse{Token: "token123"})
	})
	mux.HandleFunc("GET /api/admin/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid token"})
			return
		}
		json.NewEncoder(w).Encode([]models.ContactMessage{{ID: "m1", Status: models.MessageStatusUnread}})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSlugLookupReturnsRecord(t *testing.T) {
	server := newFakeServer(t)
	c := New(server.URL)

	property, err := c.GetPropertyBySlug(context.Background(), "luxury-downtown-condo")
	assert.Equal(t, nil, err)
	assert.Equal(t, "p1", property.ID)
	assert.Equal(t, "luxury-downtown-condo", property.Slug)
}

func TestSlugLookupMissIsNotFoundNotError(t *testing.T) {
	server := newFakeServer(t)
	c := New(server.URL)

	_, err := c.GetPropertyBySlug(context.Background(), "does-not-exist")
	assert.Equal(t, true, errors.Is(err, ErrNotFound))
}

func TestSlugLookupServerErrorIsNotNotFound(t *testing.T) {
	server := newFakeServer(t)
	c := New(server.URL)

	_, err := c.GetPropertyBySlug(context.Background(), "broken")
	assert.NotEqual(t, nil, err)
	assert.Equal(t, false, errors.Is(err, ErrNotFound))
}

func TestListProperties(t *testing.T) {
	server := newFakeServer(t)
	c := New(server.URL)

	properties, err := c.ListProperties(context.Background(), nil)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(properties))
}

func TestLoginStoresToken(t *testing.T) {
	server := newFakeServer(t)
	c := New(server.URL)

	_, err := c.Login(context.Background(), "admin@example.com", "wrong")
	assert.NotEqual(t, nil, err)

	resp, err := c.Login(context.Background(), "admin@example.com", "s3cret")
	assert.Equal(t, nil, err)
	assert.Equal(t, "token123", resp.Token)

	messages, err := c.AdminListMessages(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(messages))
}
