package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/comercio-api/internal/auth"
	"github.com/MikeMC777/comercio-api/internal/httpx"
	"github.com/MikeMC777/comercio-api/internal/user"
)

type accountService interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	Register(ctx context.Context, email, name, password string, role auth.Role) (*user.User, error)
	Update(ctx context.Context, id string, p user.UpdateParams) (*user.User, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

func loginHandler(accounts accountService, tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			httpx.Error(c, http.StatusBadRequest, "email and password are required")
			return
		}
		u, err := accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeAccountError(c, err)
			return
		}
		tok, exp, err := tokens.Issue(auth.Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.Data(c, http.StatusOK, gin.H{
			"token":      tok,
			"expires_at": exp,
			"expires_in": int(tokens.TTL().Seconds()),
			"user":       u,
		})
	}
}

// registerHandler is the public storefront signup. The account is always
// created as a customer; elevated roles only come from the admin user CRUD.
func registerHandler(accounts accountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := accounts.Register(c.Request.Context(), req.Email, req.Name, req.Password, auth.RoleCustomer)
		if err != nil {
			writeAccountError(c, err)
			return
		}
		httpx.Data(c, http.StatusCreated, u)
	}
}

func verifyHandler(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// piggybacks on the same middleware used everywhere else
		httpx.Authenticate(tokens)(c)
		if c.IsAborted() {
			return
		}
		id, _ := httpx.CallerIdentity(c)
		httpx.Data(c, http.StatusOK, gin.H{
			"id":    id.ID,
			"email": id.Email,
			"name":  id.Name,
			"role":  id.Role,
		})
	}
}

// requestPasswordResetHandler answers neutrally whether or not the email
// exists. Outside production the token is echoed back so the flow can be
// exercised without a mailer.
func requestPasswordResetHandler(accounts accountService, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			httpx.Error(c, http.StatusBadRequest, "the email field is required")
			return
		}
		token, err := accounts.RequestPasswordReset(c.Request.Context(), req.Email)
		if err != nil && !errors.Is(err, user.ErrNotFound) {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		extra := gin.H{}
		if !production && token != "" {
			extra["token"] = token
		}
		httpx.Message(c, http.StatusOK, "if the email exists, a reset token was issued", extra)
	}
}

func confirmPasswordResetHandler(accounts accountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Token       string `json:"token"`
			NewPassword string `json:"new_password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" || req.NewPassword == "" {
			httpx.Error(c, http.StatusBadRequest, "token and new_password are required")
			return
		}
		if err := accounts.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
			writeAccountError(c, err)
			return
		}
		httpx.Message(c, http.StatusOK, "password updated", nil)
	}
}
