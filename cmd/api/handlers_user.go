package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/comercio-api/internal/auth"
	"github.com/MikeMC777/comercio-api/internal/httpx"
	"github.com/MikeMC777/comercio-api/internal/user"
)

func listUsersHandler(accounts user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := intQuery(c, "page", 1)
		if page < 1 {
			page = 1
		}
		limit := intQuery(c, "limit", 20)
		if limit < 1 || limit > 100 {
			limit = 20
		}
		users, total, err := accounts.List(c.Request.Context(), user.Query{
			Q:      c.Query("q"),
			Limit:  limit,
			Offset: (page - 1) * limit,
		})
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		pages := total / limit
		if total%limit != 0 {
			pages++
		}
		httpx.Paged(c, users, httpx.Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages})
	}
}

func getUserHandler(accounts user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := accounts.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeAccountError(c, err)
			return
		}
		httpx.Data(c, http.StatusOK, u)
	}
}

func createUserHandler(accounts accountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := accounts.Register(c.Request.Context(), req.Email, req.Name, req.Password, auth.Role(req.Role))
		if err != nil {
			writeAccountError(c, err)
			return
		}
		httpx.Data(c, http.StatusCreated, u)
	}
}

func updateUserHandler(accounts accountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Role     string `json:"role"`
			Active   *bool  `json:"active"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := accounts.Update(c.Request.Context(), c.Param("id"), user.UpdateParams{
			Email:    req.Email,
			Name:     req.Name,
			Role:     auth.Role(req.Role),
			Active:   req.Active,
			Password: req.Password,
		})
		if err != nil {
			writeAccountError(c, err)
			return
		}
		httpx.Data(c, http.StatusOK, u)
	}
}

func deleteUserHandler(accounts user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := accounts.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "user not found")
			return
		}
		httpx.Message(c, http.StatusOK, "user deleted", nil)
	}
}
