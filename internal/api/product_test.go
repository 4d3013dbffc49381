package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dashunya17/CookingBenefits/internal/models"
)

func seedProduct(t *testing.T, db *gorm.DB, name, category string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		IsCommon: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestCatalogEndpointIsPublic(t *testing.T) {
	env := setupAPITest(t)
	seedProduct(t, env.db, "Eggs", "dairy")
	seedProduct(t, env.db, "Beef", "meat")

	w := env.do(t, http.MethodGet, "/api/v1/products/catalog", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []struct {
			Name string `json:"name"`
		} `json:"products"`
	}
	decodeJSON(t, w, &resp)
	assert.Len(t, resp.Products, 2)

	w = env.do(t, http.MethodGet, "/api/v1/products/catalog?category=meat", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Beef", resp.Products[0].Name)
}

func TestPantryEndpointsRequireAuth(t *testing.T) {
	env := setupAPITest(t)

	w := env.do(t, http.MethodGet, "/api/v1/products/available", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/products/available", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPantryAddListRemove(t *testing.T) {
	env := setupAPITest(t)
	token, _ := env.registerUser(t, "pantry@example.com")
	eggs := seedProduct(t, env.db, "Eggs", "dairy")

	w := env.do(t, http.MethodPost, "/api/v1/products/available", token, map[string]string{
		"product_id": eggs.ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/products/available", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Products []struct {
			Name string `json:"name"`
		} `json:"products"`
	}
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Eggs", resp.Products[0].Name)

	w = env.do(t, http.MethodDelete, "/api/v1/products/available/"+eggs.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/products/available", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &resp)
	assert.Empty(t, resp.Products)
}

func TestPantryAddUnknownProduct(t *testing.T) {
	env := setupAPITest(t)
	token, _ := env.registerUser(t, "pantry@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/products/available", token, map[string]string{
		"product_id": uuid.NewString(),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExclusionEndpoints(t *testing.T) {
	env := setupAPITest(t)
	token, _ := env.registerUser(t, "exclusions@example.com")
	peanuts := seedProduct(t, env.db, "Peanuts", "nuts")

	w := env.do(t, http.MethodPost, "/api/v1/products/exclusions", token, map[string]string{
		"product_id": peanuts.ID.String(),
		"reason":     "allergy",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/products/exclusions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Products []struct {
			Name   string `json:"name"`
			Reason string `json:"reason"`
		} `json:"products"`
	}
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Peanuts", resp.Products[0].Name)
	assert.Equal(t, "allergy", resp.Products[0].Reason)

	w = env.do(t, http.MethodDelete, "/api/v1/products/exclusions/"+peanuts.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/products/exclusions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &resp)
	assert.Empty(t, resp.Products)
}

func TestProductAdminEndpointsRequireAdminRole(t *testing.T) {
	env := setupAPITest(t)
	userToken, _ := env.registerUser(t, "plain@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/products", userToken, map[string]string{
		"name":     "Salt",
		"category": "spices",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductAdminCRUD(t *testing.T) {
	env := setupAPITest(t)
	adminToken, _ := env.registerAdmin(t, "admin@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/products", adminToken, map[string]string{
		"name":     "Salt",
		"category": "spices",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	}
	decodeJSON(t, w, &created)
	assert.Equal(t, "Salt", created.Name)

	// Duplicate name conflicts.
	w = env.do(t, http.MethodPost, "/api/v1/products", adminToken, map[string]string{
		"name":     "Salt",
		"category": "spices",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/products/"+created.ID.String(), adminToken, map[string]string{
		"name":     "Sea salt",
		"category": "spices",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/products/admin/all", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Products []struct {
			Name string `json:"name"`
		} `json:"products"`
	}
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Sea salt", resp.Products[0].Name)

	w = env.do(t, http.MethodDelete, "/api/v1/products/"+created.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/products/"+created.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
