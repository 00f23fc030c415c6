package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recycle-connect/internal/repository"
)

type updateProfileReq struct {
	FullName        *string `json:"fullName"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	City            *string `json:"city"`
	ProfileComplete *bool   `json:"profileComplete"`
}

// UpdateProfile merges the supplied mutable fields over the caller's
// profile. Identity fields (id, username, email, role) are never
// touched regardless of what the body contains.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full name must not be empty"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, userID, repository.UserProfileUpdate{
		FullName:        req.FullName,
		Phone:           req.Phone,
		Address:         req.Address,
		City:            req.City,
		ProfileComplete: req.ProfileComplete,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, newUserResponse(u))
}
