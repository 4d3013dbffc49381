package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dashunya17/CookingBenefits/internal/middleware"
	"github.com/dashunya17/CookingBenefits/internal/models"
	"github.com/dashunya17/CookingBenefits/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
	authService    *service.AuthService
	rateLimiter    *middleware.RateLimiter
}

func NewProductHandler(productService *service.ProductService, authService *service.AuthService, rateLimiter *middleware.RateLimiter) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		authService:    authService,
		rateLimiter:    rateLimiter,
	}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.GET("/catalog", h.GetCatalog)

		authed := products.Group("")
		authed.Use(middleware.AuthMiddleware(h.authService))
		{
			authed.GET("/available", h.GetUserProducts)
			authed.GET("/exclusions", h.GetExclusions)

			mutating := authed.Group("")
			if h.rateLimiter != nil {
				mutating.Use(h.rateLimiter.RateLimitMiddleware())
			}
			mutating.POST("/available", h.AddUserProduct)
			mutating.DELETE("/available/:productId", h.RemoveUserProduct)
			mutating.POST("/exclusions", h.AddExclusion)
			mutating.DELETE("/exclusions/:productId", h.RemoveExclusion)
		}

		admin := products.Group("")
		admin.Use(middleware.AuthMiddleware(h.authService), middleware.AdminRequired())
		{
			admin.POST("", h.CreateProduct)
			admin.PUT("/:id", h.UpdateProduct)
			admin.DELETE("/:id", h.DeleteProduct)
			admin.GET("/admin/all", h.GetAllProducts)
		}
	}
}

func (h *ProductHandler) GetCatalog(c *gin.Context) {
	products, err := h.productService.GetCatalog(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch catalog"})
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, gin.H{"products": resp})
}

func (h *ProductHandler) GetUserProducts(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.productService.GetUserProducts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pantry"})
		return
	}

	resp := make([]ProductResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toProductResponse(&items[i].Product))
	}
	c.JSON(http.StatusOK, gin.H{"products": resp})
}

type AddUserProductRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

func (h *ProductHandler) AddUserProduct(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req AddUserProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.productService.AddUserProduct(c.Request.Context(), userID, req.ProductID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add product"})
		return
	}
	c.Status(http.StatusOK)
}

func (h *ProductHandler) RemoveUserProduct(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.productService.RemoveUserProduct(c.Request.Context(), userID, productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove product"})
		return
	}
	c.Status(http.StatusOK)
}

func (h *ProductHandler) GetExclusions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.productService.GetExclusions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch exclusions"})
		return
	}

	type exclusionResponse struct {
		ProductResponse
		Reason string `json:"reason,omitempty"`
	}
	resp := make([]exclusionResponse, 0, len(items))
	for i := range items {
		resp = append(resp, exclusionResponse{
			ProductResponse: toProductResponse(&items[i].Product),
			Reason:          items[i].Reason,
		})
	}
	c.JSON(http.StatusOK, gin.H{"products": resp})
}

type AddExclusionRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Reason    string    `json:"reason"`
}

func (h *ProductHandler) AddExclusion(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req AddExclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.productService.AddExclusion(c.Request.Context(), userID, req.ProductID, req.Reason); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add exclusion"})
		return
	}
	c.Status(http.StatusOK)
}

func (h *ProductHandler) RemoveExclusion(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.productService.RemoveExclusion(c.Request.Context(), userID, productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove exclusion"})
		return
	}
	c.Status(http.StatusOK)
}

type ProductRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	IsCommon *bool  `json:"is_common"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		Name:     req.Name,
		Category: req.Category,
		IsCommon: req.IsCommon == nil || *req.IsCommon,
	}
	created, err := h.productService.CreateProduct(c.Request.Context(), &product)
	if err != nil {
		if errors.Is(err, service.ErrProductNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "product with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(created))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := models.Product{
		Name:     req.Name,
		Category: req.Category,
		IsCommon: req.IsCommon == nil || *req.IsCommon,
	}
	updated, err := h.productService.UpdateProduct(c.Request.Context(), id, &update)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}
	c.JSON(http.StatusOK, toProductResponse(updated))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	products, err := h.productService.GetAllProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, gin.H{"products": resp})
}
