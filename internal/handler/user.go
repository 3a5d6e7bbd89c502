package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kelechi-obi/orgvault/internal/config"
	"github.com/kelechi-obi/orgvault/internal/repository"
	"github.com/kelechi-obi/orgvault/internal/utils"
)

// UserHandler serves the protected user profile endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

type updateUserReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// GetUser returns a user's profile.  A caller may always view their own
// record; anyone else is visible only when the two users share at least one
// organisation.  An existing but unshared user yields 403, not 404.
func (h *UserHandler) GetUser(c echo.Context) error {
	id := c.Param("id")
	caller, err := currentUser(c)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	if id == caller.UserID {
		// The gate already resolved the caller on this request.
		return successJSON(c, http.StatusOK, "User found", toUserPart(caller))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "User not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "Internal server error")
	}

	shared, err := h.Users.SharesOrganisation(ctx, caller.UserID, u.UserID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Internal server error")
	}
	if !shared {
		return errorJSON(c, http.StatusForbidden, "Access denied")
	}

	return successJSON(c, http.StatusOK, "User found", toUserPart(u))
}

// UpdateUser applies a partial profile update.  Only the account owner may
// change their record; a new password is re-hashed before storage.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id := c.Param("id")
	callerID, err := currentUserID(c)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	if id != callerID {
		return errorJSON(c, http.StatusForbidden, "Access denied")
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	upd := repository.UserUpdate{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "Failed to update user")
		}
		upd.PasswordHash = hash
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Update(ctx, callerID, upd); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return errorJSON(c, http.StatusConflict, "Email already in use")
		}
		return errorJSON(c, http.StatusBadRequest, "Failed to update user")
	}

	u, err := h.Users.GetByUserID(ctx, callerID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Internal server error")
	}
	return successJSON(c, http.StatusOK, "User updated successfully", toUserPart(u))
}

// DeleteUser removes the caller's own account.  Membership rows cascade at
// the storage layer.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id := c.Param("id")
	callerID, err := currentUserID(c)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	if id != callerID {
		return errorJSON(c, http.StatusForbidden, "Access denied")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, callerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "User not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "Failed to delete user")
	}
	return c.NoContent(http.StatusNoContent)
}
