package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
)

// Context keys set by the Auth middleware.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// ctxActor returns the identity the Auth middleware attached to the request.
// Requests without a token yield the anonymous actor; rejecting them is up to
// the access policy.
func ctxActor(c echo.Context) policy.Actor {
	id, _ := c.Get(ContextUserID).(string)
	role, _ := c.Get(ContextRole).(string)
	return policy.Actor{ID: id, Role: domain.Role(role)}
}
