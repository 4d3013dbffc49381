package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dashunya17/CookingBenefits/internal/api"
	"github.com/dashunya17/CookingBenefits/internal/models"
	"github.com/dashunya17/CookingBenefits/internal/service"
	"github.com/dashunya17/CookingBenefits/internal/testhelpers"
)

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	auth     *service.AuthService
	products *service.ProductService
	recipes  *service.RecipeService
}

func setupAPITest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	authSvc := service.NewAuthService(db, "test-secret")
	productSvc := service.NewProductService(db, nil, nil)
	recipeSvc := service.NewRecipeService(db, productSvc, nil, nil)

	router := gin.New()
	v1 := router.Group("/api/v1")
	api.NewAuthHandler(authSvc).RegisterRoutes(v1)
	api.NewProductHandler(productSvc, authSvc, nil).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeSvc, authSvc, nil, nil).RegisterRoutes(v1)

	return &testEnv{
		router:   router,
		db:       db,
		auth:     authSvc,
		products: productSvc,
		recipes:  recipeSvc,
	}
}

// registerUser creates an account through the service and returns its token.
func (e *testEnv) registerUser(t *testing.T, email string) (string, *models.User) {
	t.Helper()
	token, user, err := e.auth.Register(email, "password123", "Test User")
	require.NoError(t, err)
	return token, user
}

// registerAdmin creates an account, promotes it and logs in again so the
// token carries the admin role.
func (e *testEnv) registerAdmin(t *testing.T, email string) (string, *models.User) {
	t.Helper()
	_, user, err := e.auth.Register(email, "password123", "Test Admin")
	require.NoError(t, err)
	require.NoError(t, e.db.Model(user).Update("role", models.RoleAdmin).Error)

	token, admin, err := e.auth.Login(email, "password123")
	require.NoError(t, err)
	return token, admin
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
