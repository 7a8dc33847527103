package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get handles GET /api/profile/:user_id.
//
// @Summary      Get a user's profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string  true  "User ID"
// @Success      200      {object}  domain.Profile
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/profile/{user_id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), ctxActor(c), c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Update handles PATCH /api/profile/:user_id.
//
// @Summary      Update a profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string               true  "User ID"
// @Param        body     body      profilePatchRequest  true  "Fields to change"
// @Success      200      {object}  domain.Profile
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/profile/{user_id} [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req profilePatchRequest
	extra, err := bindPatch(c, &req, profilePatchFields...)
	if err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), ctxActor(c), c.Param("user_id"), toProfilePatch(req, extra))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// ListBusiness handles GET /api/profiles/business.
//
// @Summary      List business profiles
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Profile
// @Failure      401  {object}  errorResponse
// @Router       /api/profiles/business [get]
func (h *ProfileHandler) ListBusiness(c echo.Context) error {
	return h.list(c, domain.RoleBusiness)
}

// ListCustomer handles GET /api/profiles/customer.
//
// @Summary      List customer profiles
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Profile
// @Failure      401  {object}  errorResponse
// @Router       /api/profiles/customer [get]
func (h *ProfileHandler) ListCustomer(c echo.Context) error {
	return h.list(c, domain.RoleCustomer)
}

func (h *ProfileHandler) list(c echo.Context, role domain.Role) error {
	list, err := h.service.ListByType(c.Request().Context(), ctxActor(c), role)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Profile{}
	}
	return c.JSON(http.StatusOK, list)
}
