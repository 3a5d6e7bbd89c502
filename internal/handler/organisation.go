package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kelechi-obi/orgvault/internal/config"
	"github.com/kelechi-obi/orgvault/internal/model"
	"github.com/kelechi-obi/orgvault/internal/queue"
	"github.com/kelechi-obi/orgvault/internal/repository"
	"github.com/kelechi-obi/orgvault/internal/service"
	"github.com/kelechi-obi/orgvault/internal/utils"
)

// OrganisationHandler serves the protected organisation endpoints.  All
// reads are scoped to the caller's memberships.
type OrganisationHandler struct {
	Cfg   config.Config
	Orgs  *repository.OrganisationRepo
	Users *repository.UserRepo
}

func NewOrganisationHandler(cfg config.Config, o *repository.OrganisationRepo, u *repository.UserRepo) *OrganisationHandler {
	return &OrganisationHandler{Cfg: cfg, Orgs: o, Users: u}
}

type createOrgReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
type addMemberReq struct {
	UserID string `json:"userId"`
}

// GetOrganisations lists every organisation the caller belongs to.  When
// the caller has no memberships the response is 404 by default, matching
// the other list endpoints; setting ORG_EMPTY_LIST_OK flips the policy to
// 200 with an empty collection.
func (h *OrganisationHandler) GetOrganisations(c echo.Context) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orgs, err := h.Orgs.ListForUser(ctx, callerID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to fetch organisations")
	}
	if len(orgs) == 0 && !h.Cfg.OrgEmptyListOK {
		return errorJSON(c, http.StatusNotFound, "No organisations found for the user")
	}

	parts := make([]orgPart, 0, len(orgs))
	for _, o := range orgs {
		parts = append(parts, toOrgPart(o))
	}
	return successJSON(c, http.StatusOK, "Organisations retrieved successfully", echo.Map{
		"organisations": parts,
	})
}

// GetOrganisation fetches a single organisation by its public id.  Only
// members may view it: a non-member receives 403 even though the 404/403
// split leaks existence, which matches the rest of the API's conventions.
func (h *OrganisationHandler) GetOrganisation(c echo.Context) error {
	orgID := c.Param("orgId")
	callerID, err := currentUserID(c)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	org, err := h.Orgs.GetByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "Organisation not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "Failed to fetch organisation")
	}

	member, err := h.Orgs.IsMember(ctx, org.OrgID, callerID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to fetch organisation")
	}
	if !member {
		return errorJSON(c, http.StatusForbidden, "Access denied")
	}

	return successJSON(c, http.StatusOK, "Organisation found", toOrgPart(org))
}

// CreateOrganisation creates an organisation with the caller recorded as
// creator and first member, both rows committed in one transaction.
func (h *OrganisationHandler) CreateOrganisation(c echo.Context) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req createOrgReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": []fieldError{{Field: "name", Message: "Name is required"}},
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	org := model.Organisation{
		OrgID:       utils.NewID(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatorID:   callerID,
	}
	if err := h.Orgs.CreateWithCreator(ctx, &org); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Failed to create organisation")
	}

	_ = service.PublishOrganisationCreated(ctx, queue.OrganisationCreatedEvent{
		OrgID:     org.OrgID,
		Name:      org.Name,
		CreatorID: org.CreatorID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return successJSON(c, http.StatusCreated, "Organisation created successfully", toOrgPart(org))
}

// AddUser grants an existing user membership in an organisation.  The
// storage-level unique key backs up the pre-check, so calling this twice
// for the same pair fails the second time rather than duplicating the row.
func (h *OrganisationHandler) AddUser(c echo.Context) error {
	orgID := c.Param("orgId")

	var req addMemberReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return errorJSON(c, http.StatusBadRequest, "User ID is required and must be a non-empty string")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByUserID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "User not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "Failed to add user to organisation")
	}
	if _, err := h.Orgs.GetByOrgID(ctx, orgID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "Organisation not found")
		}
		return errorJSON(c, http.StatusInternalServerError, "Failed to add user to organisation")
	}

	if err := h.Orgs.AddMember(ctx, orgID, req.UserID); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return errorJSON(c, http.StatusBadRequest, "User is already a member of the organisation")
		}
		return errorJSON(c, http.StatusInternalServerError, "Failed to add user to organisation")
	}

	return successJSON(c, http.StatusOK, "User added to organisation successfully", nil)
}
