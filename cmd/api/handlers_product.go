package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/comercio-api/internal/httpx"
	"github.com/MikeMC777/comercio-api/internal/product"
)

func listProductsHandler(catalog product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := intQuery(c, "page", 1)
		if page < 1 {
			page = 1
		}
		limit := intQuery(c, "limit", 20)
		if limit < 1 || limit > 100 {
			limit = 20
		}
		products, err := catalog.List(c.Request.Context(), product.Query{
			Q:        c.Query("q"),
			Category: c.Query("category"),
			Limit:    limit,
			Offset:   (page - 1) * limit,
		})
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.Data(c, http.StatusOK, gin.H{"products": products, "count": len(products)})
	}
}

func listProductCategoriesHandler(catalog product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := catalog.Categories(c.Request.Context())
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.Data(c, http.StatusOK, gin.H{"categories": cats, "count": len(cats)})
	}
}

func getProductHandler(catalog product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := catalog.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if err == product.ErrNotFound {
				httpx.Error(c, http.StatusNotFound, "product not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.Data(c, http.StatusOK, p)
	}
}

func createProductHandler(catalog product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Code == "" || req.Name == "" {
			httpx.Error(c, http.StatusBadRequest, "code and name are required")
			return
		}
		if req.Price.IsNegative() {
			httpx.Error(c, http.StatusBadRequest, "price cannot be negative")
			return
		}
		p := &product.Product{
			ID:          uuid.NewString(),
			Code:        req.Code,
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
		}
		if err := catalog.Create(c.Request.Context(), p); err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.Data(c, http.StatusCreated, p)
	}
}

func updateProductHandler(catalog product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		id := c.Param("id")
		if _, err := catalog.GetByID(c.Request.Context(), id); err != nil {
			if err == product.ErrNotFound {
				httpx.Error(c, http.StatusNotFound, "product not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		p := &product.Product{
			ID:          id,
			Code:        req.Code,
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
		}
		updatePrice := req.Price != nil
		if updatePrice {
			if req.Price.IsNegative() {
				httpx.Error(c, http.StatusBadRequest, "price cannot be negative")
				return
			}
			p.Price = *req.Price
		}
		if err := catalog.Update(c.Request.Context(), p, updatePrice); err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		updated, err := catalog.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.Data(c, http.StatusOK, updated)
	}
}

func deleteProductHandler(catalog product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := catalog.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "product not found")
			return
		}
		httpx.Message(c, http.StatusOK, "product deleted", nil)
	}
}
