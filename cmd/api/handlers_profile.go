package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/comercio-api/internal/httpx"
	"github.com/MikeMC777/comercio-api/internal/user"
)

func getProfileHandler(accounts user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.CallerIdentity(c)
		if !ok {
			httpx.Error(c, http.StatusUnauthorized, "authentication required")
			return
		}
		u, err := accounts.GetByID(c.Request.Context(), id.ID)
		if err != nil {
			writeAccountError(c, err)
			return
		}
		httpx.Data(c, http.StatusOK, u)
	}
}

// updateProfileHandler lets a caller edit their own name, email and
// password. Role and active flags are admin territory and stay untouched.
func updateProfileHandler(accounts accountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.CallerIdentity(c)
		if !ok {
			httpx.Error(c, http.StatusUnauthorized, "authentication required")
			return
		}
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := accounts.Update(c.Request.Context(), id.ID, user.UpdateParams{
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			writeAccountError(c, err)
			return
		}
		httpx.Data(c, http.StatusOK, u)
	}
}
