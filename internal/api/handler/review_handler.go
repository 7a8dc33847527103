package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// List handles GET /api/reviews.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        business_user_id  query     string  false  "Reviews of this business user"
// @Param        reviewer_id       query     string  false  "Reviews written by this customer"
// @Param        ordering          query     string  false  "updated_at or rating, prefix - for descending"
// @Success      200               {array}   domain.Review
// @Failure      401               {object}  errorResponse
// @Router       /api/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	reviews, err := h.service.List(c.Request().Context(), ctxActor(c), ports.ListReviewsFilter{
		BusinessUserID: c.QueryParam("business_user_id"),
		ReviewerID:     c.QueryParam("reviewer_id"),
		Ordering:       c.QueryParam("ordering"),
	})
	if err != nil {
		return err
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

// Create handles POST /api/reviews.
//
// @Summary      Review a business user
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  domain.Review
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.service.Create(c.Request().Context(), ctxActor(c), ports.CreateReviewInput{
		BusinessUserID: req.BusinessUser,
		Rating:         req.Rating,
		Description:    req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

// Update handles PATCH /api/reviews/:id.
//
// @Summary      Update a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Review ID"
// @Param        body  body      reviewPatchRequest  true  "Fields to change"
// @Success      200   {object}  domain.Review
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/reviews/{id} [patch]
func (h *ReviewHandler) Update(c echo.Context) error {
	var req reviewPatchRequest
	extra, err := bindPatch(c, &req, reviewPatchFields...)
	if err != nil {
		return err
	}

	review, err := h.service.Update(c.Request().Context(), ctxActor(c), c.Param("id"), toReviewPatch(req, extra))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, review)
}

// Delete handles DELETE /api/reviews/:id.
//
// @Summary      Delete a review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id   path  string  true  "Review ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), ctxActor(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
