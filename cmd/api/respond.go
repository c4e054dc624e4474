package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/comercio-api/internal/httpx"
	"github.com/MikeMC777/comercio-api/internal/order"
	"github.com/MikeMC777/comercio-api/internal/user"
)

// writeOrderError maps the lifecycle error taxonomy onto HTTP statuses.
// Persistence failures come out as a generic 500.
func writeOrderError(c *gin.Context, err error) {
	var ve *order.ValidationError
	var le *order.LockedError
	switch {
	case errors.As(err, &ve), errors.As(err, &le):
		httpx.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrItemNotFound),
		errors.Is(err, order.ErrProductNotFound):
		httpx.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrForbidden):
		httpx.Error(c, http.StatusForbidden, err.Error())
	default:
		httpx.Error(c, http.StatusInternalServerError, "internal error")
	}
}

func writeAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		httpx.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, user.ErrAlreadyExist):
		httpx.Error(c, http.StatusConflict, "email already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		httpx.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, user.ErrMissingFields),
		errors.Is(err, user.ErrWeakPassword),
		errors.Is(err, user.ErrInvalidResetToken):
		httpx.Error(c, http.StatusBadRequest, err.Error())
	default:
		httpx.Error(c, http.StatusInternalServerError, "internal error")
	}
}
