package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry order creation safely.
const HeaderIdempotencyKey = "Idempotency-Key"

type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /api/orders.
//
// @Summary      Order an offer package
// @Description  Creates an order for the authenticated customer. Repeating a request with the same Idempotency-Key returns the original order with 200.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Client-generated key for safe retries"
// @Param        body             body      createOrderRequest  true   "Package to order"
// @Success      201              {object}  domain.Order
// @Success      200              {object}  domain.Order        "Replay of an earlier request"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), ctxActor(c), ports.CreateOrderInput{
		OfferDetailID:  req.OfferDetailID,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		return c.JSON(http.StatusOK, res.Order)
	}
	return c.JSON(http.StatusCreated, res.Order)
}

// List handles GET /api/orders.
//
// @Summary      List the caller's orders
// @Description  Orders where the caller is the customer or the business user. Admins see all orders.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.service.List(c.Request().Context(), ctxActor(c))
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /api/orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.service.Get(c.Request().Context(), ctxActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Update handles PATCH /api/orders/:id.
//
// @Summary      Update an order
// @Description  The business user of the ordered offer may change the status. Admins may also change the order terms.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Order ID"
// @Param        body  body      orderPatchRequest  true  "Fields to change"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/orders/{id} [patch]
func (h *OrderHandler) Update(c echo.Context) error {
	var req orderPatchRequest
	extra, err := bindPatch(c, &req, orderPatchFields...)
	if err != nil {
		return err
	}

	order, err := h.service.Update(c.Request().Context(), ctxActor(c), c.Param("id"), toOrderPatch(req, extra))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /api/orders/:id.
//
// @Summary      Delete an order
// @Tags         orders
// @Security     BearerAuth
// @Param        id   path  string  true  "Order ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), ctxActor(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// OrderCount handles GET /api/order-count/:business_user_id.
//
// @Summary      Count in-progress orders of a business user
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        business_user_id  path      string  true  "Business user ID"
// @Success      200               {object}  orderCountResponse
// @Failure      401               {object}  errorResponse
// @Failure      404               {object}  errorResponse
// @Router       /api/order-count/{business_user_id} [get]
func (h *OrderHandler) OrderCount(c echo.Context) error {
	n, err := h.service.CountForBusiness(c.Request().Context(), ctxActor(c), c.Param("business_user_id"), domain.OrderInProgress)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderCountResponse{OrderCount: n})
}

// CompletedOrderCount handles GET /api/completed-order-count/:business_user_id.
//
// @Summary      Count completed orders of a business user
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        business_user_id  path      string  true  "Business user ID"
// @Success      200               {object}  completedOrderCountResponse
// @Failure      401               {object}  errorResponse
// @Failure      404               {object}  errorResponse
// @Router       /api/completed-order-count/{business_user_id} [get]
func (h *OrderHandler) CompletedOrderCount(c echo.Context) error {
	n, err := h.service.CountForBusiness(c.Request().Context(), ctxActor(c), c.Param("business_user_id"), domain.OrderCompleted)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, completedOrderCountResponse{CompletedOrderCount: n})
}
