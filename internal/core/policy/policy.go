// Package policy decides who may do what to offers, orders, reviews and profiles.
//
// Evaluate is a pure function over the actor and an ownership snapshot of the
// target that the caller loads beforehand. It performs no I/O and keeps no state,
// so it is safe to call from any goroutine.
package policy

import (
	"fmt"
	"slices"

	"github.com/coderr/marketplace/internal/core/domain"
)

// Action is the operation being attempted.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is the kind of entity the action targets.
type Resource string

const (
	ResourceOffer   Resource = "offer"
	ResourceOrder   Resource = "order"
	ResourceReview  Resource = "review"
	ResourceProfile Resource = "profile"
)

// Actor is the identity performing a request. The zero value is anonymous.
type Actor struct {
	ID   string
	Role domain.Role
}

// Authenticated reports whether the actor carries a usable identity.
func (a Actor) Authenticated() bool {
	return a.ID != "" && a.Role.Valid()
}

// Target is the ownership snapshot of the resource, as loaded by the caller.
//
// OwnerID is the offer's business user, the business user of an order's offer,
// a review's author or a profile's user. CustomerID is only set for orders.
// On create, Missing refers to the referenced resource (the ordered offer, the
// reviewed business) and Duplicate reports an existing review by the actor.
type Target struct {
	OwnerID    string
	CustomerID string
	Missing    bool
	Duplicate  bool
}

// Request is a single question put to the evaluator.
type Request struct {
	Actor    Actor
	Action   Action
	Resource Resource
	Target   Target
}

// Decision is the evaluator's answer. Fields is only set for allowed updates.
type Decision struct {
	Allowed bool
	Fields  FieldSet
	Err     error
}

// Outcome is a short label for the decision, suitable for metrics.
func (d Decision) Outcome() string {
	switch {
	case d.Allowed:
		return "allow"
	case d.Err == domain.ErrAuthenticationRequired:
		return "authentication_required"
	case d.Err == domain.ErrNotFound:
		return "not_found"
	case d.Err == domain.ErrConflict:
		return "conflict"
	default:
		return "forbidden"
	}
}

// FieldSet lists the wire names of the fields an actor may update.
type FieldSet []string

// Permits reports whether name is in the set.
func (f FieldSet) Permits(name string) bool {
	return slices.Contains(f, name)
}

// Check returns ErrImmutableField for the first name outside the set.
func (f FieldSet) Check(names []string) error {
	for _, n := range names {
		if !f.Permits(n) {
			return fmt.Errorf("%w: %s", domain.ErrImmutableField, n)
		}
	}
	return nil
}

var ownerFields = map[Resource]FieldSet{
	ResourceOffer:   {"title", "image", "description", "details"},
	ResourceOrder:   {"status"},
	ResourceReview:  {"rating", "description"},
	ResourceProfile: {"first_name", "last_name", "file", "location", "tel", "description", "working_hours"},
}

var adminFields = map[Resource]FieldSet{
	ResourceOffer:   ownerFields[ResourceOffer],
	ResourceOrder:   {"status", "title", "revisions", "delivery_time_in_days", "price", "features", "offer_type"},
	ResourceReview:  ownerFields[ResourceReview],
	ResourceProfile: ownerFields[ResourceProfile],
}

// Evaluate answers whether r.Actor may perform r.Action on the target.
//
// Checks run in a fixed order: authentication, existence of the target,
// role and ownership, then uniqueness. A denied decision carries exactly one of
// ErrAuthenticationRequired, ErrNotFound, ErrForbidden or ErrConflict.
func Evaluate(r Request) Decision {
	if !r.Actor.Authenticated() {
		return deny(domain.ErrAuthenticationRequired)
	}
	if r.Target.Missing && r.Action != ActionCreate {
		return deny(domain.ErrNotFound)
	}

	switch r.Action {
	case ActionRead:
		return Decision{Allowed: true}
	case ActionCreate:
		return evaluateCreate(r)
	case ActionUpdate:
		return evaluateUpdate(r)
	case ActionDelete:
		return evaluateDelete(r)
	}
	return deny(domain.ErrForbidden)
}

func evaluateCreate(r Request) Decision {
	var required domain.Role
	switch r.Resource {
	case ResourceOffer:
		required = domain.RoleBusiness
	case ResourceOrder, ResourceReview:
		required = domain.RoleCustomer
	default:
		// profiles come into existence with their user
		return deny(domain.ErrForbidden)
	}
	if r.Actor.Role != required {
		return deny(domain.ErrForbidden)
	}
	if r.Target.Missing {
		return deny(domain.ErrNotFound)
	}
	if r.Resource == ResourceReview && r.Target.Duplicate {
		return deny(domain.ErrConflict)
	}
	return Decision{Allowed: true}
}

func evaluateUpdate(r Request) Decision {
	owns := r.Target.OwnerID == r.Actor.ID

	switch r.Actor.Role {
	case domain.RoleAdmin:
		return Decision{Allowed: true, Fields: slices.Clone(adminFields[r.Resource])}
	case domain.RoleBusiness:
		if owns {
			return Decision{Allowed: true, Fields: slices.Clone(ownerFields[r.Resource])}
		}
	case domain.RoleCustomer:
		// the purchaser loses all write access once an order exists
		if owns && r.Resource != ResourceOrder {
			return Decision{Allowed: true, Fields: slices.Clone(ownerFields[r.Resource])}
		}
	}
	return deny(domain.ErrForbidden)
}

func evaluateDelete(r Request) Decision {
	switch r.Actor.Role {
	case domain.RoleAdmin:
		if r.Resource != ResourceProfile {
			return Decision{Allowed: true}
		}
	case domain.RoleBusiness, domain.RoleCustomer:
		if r.Resource == ResourceReview && r.Target.OwnerID == r.Actor.ID {
			return Decision{Allowed: true}
		}
	}
	return deny(domain.ErrForbidden)
}

func deny(err error) Decision {
	return Decision{Err: err}
}
