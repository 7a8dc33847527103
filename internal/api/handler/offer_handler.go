package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/ports"
)

type OfferHandler struct {
	service ports.OfferService
}

func NewOfferHandler(service ports.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

// List handles GET /api/offers. The list is public.
//
// @Summary      List offers
// @Tags         offers
// @Produce      json
// @Param        creator_id         query     string  false  "Only offers of this business user"
// @Param        min_price          query     number  false  "Minimum starting price"
// @Param        max_delivery_time  query     int     false  "Maximum fastest delivery time in days"
// @Param        search             query     string  false  "Search in title and description"
// @Param        ordering           query     string  false  "created_at, updated_at or min_price, prefix - for descending"
// @Param        page               query     int     false  "Page number (1-based)"
// @Param        page_size          query     int     false  "Items per page"
// @Success      200                {object}  offerListResponse
// @Failure      400                {object}  errorResponse
// @Router       /api/offers [get]
func (h *OfferHandler) List(c echo.Context) error {
	in := ports.ListOffersInput{
		CreatorID: c.QueryParam("creator_id"),
		Search:    c.QueryParam("search"),
		Ordering:  c.QueryParam("ordering"),
	}

	if v := c.QueryParam("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "min_price must be a number")
		}
		in.MinPrice = &f
	}
	if v := c.QueryParam("max_delivery_time"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "max_delivery_time must be an integer")
		}
		in.MaxDeliveryTime = &n
	}
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be an integer")
		}
		in.Page = n
	}
	if v := c.QueryParam("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "page_size must be an integer")
		}
		in.Limit = n
	}

	res, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOfferListResponse(res))
}

// Create handles POST /api/offers.
//
// @Summary      Create an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOfferRequest  true  "Offer with its packages"
// @Success      201   {object}  domain.Offer
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/offers [post]
func (h *OfferHandler) Create(c echo.Context) error {
	var req createOfferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	offer, err := h.service.Create(c.Request().Context(), ctxActor(c), toCreateOfferInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, offer)
}

// Get handles GET /api/offers/:id.
//
// @Summary      Get an offer
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Offer ID"
// @Success      200  {object}  domain.Offer
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/offers/{id} [get]
func (h *OfferHandler) Get(c echo.Context) error {
	offer, err := h.service.Get(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offer)
}

// Update handles PATCH /api/offers/:id.
//
// @Summary      Update an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Offer ID"
// @Param        body  body      updateOfferRequest  true  "Fields to change; details replaces all packages"
// @Success      200   {object}  domain.Offer
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/offers/{id} [patch]
func (h *OfferHandler) Update(c echo.Context) error {
	var req updateOfferRequest
	extra, err := bindPatch(c, &req, offerPatchFields...)
	if err != nil {
		return err
	}

	offer, err := h.service.Update(c.Request().Context(), ctxActor(c), c.Param("id"), toUpdateOfferInput(req, extra))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offer)
}

// Delete handles DELETE /api/offers/:id.
//
// @Summary      Delete an offer
// @Tags         offers
// @Security     BearerAuth
// @Param        id   path  string  true  "Offer ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/offers/{id} [delete]
func (h *OfferHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), ctxActor(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPackage handles GET /api/offerdetails/:id.
//
// @Summary      Get a single offer package
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  domain.Package
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/offerdetails/{id} [get]
func (h *OfferHandler) GetPackage(c echo.Context) error {
	pkg, err := h.service.GetPackage(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pkg)
}
