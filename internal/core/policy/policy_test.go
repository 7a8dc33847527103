package policy

import (
	"errors"
	"testing"

	"github.com/coderr/marketplace/internal/core/domain"
)

var (
	anonymous = Actor{}
	admin     = Actor{ID: "admin-1", Role: domain.RoleAdmin}
	business  = Actor{ID: "biz-1", Role: domain.RoleBusiness}
	business2 = Actor{ID: "biz-2", Role: domain.RoleBusiness}
	customer  = Actor{ID: "cust-1", Role: domain.RoleCustomer}
	customer2 = Actor{ID: "cust-2", Role: domain.RoleCustomer}
)

var allActors = []Actor{anonymous, admin, business, business2, customer, customer2}

var allResources = []Resource{ResourceOffer, ResourceOrder, ResourceReview, ResourceProfile}

func expectErr(t *testing.T, d Decision, want error) {
	t.Helper()
	if d.Allowed {
		t.Fatalf("expected denial with %v, got allow", want)
	}
	if !errors.Is(d.Err, want) {
		t.Fatalf("expected %v, got %v", want, d.Err)
	}
}

func expectAllow(t *testing.T, d Decision) {
	t.Helper()
	if !d.Allowed {
		t.Fatalf("expected allow, got %v", d.Err)
	}
	if d.Err != nil {
		t.Fatalf("allowed decision must not carry an error, got %v", d.Err)
	}
}

func TestEvaluate_AnonymousNeedsAuthentication(t *testing.T) {
	for _, res := range allResources {
		for _, act := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
			d := Evaluate(Request{Actor: anonymous, Action: act, Resource: res})
			expectErr(t, d, domain.ErrAuthenticationRequired)
		}
	}
}

func TestEvaluate_UnknownRoleIsAnonymous(t *testing.T) {
	d := Evaluate(Request{Actor: Actor{ID: "x", Role: "guest"}, Action: ActionRead, Resource: ResourceOffer})
	expectErr(t, d, domain.ErrAuthenticationRequired)
}

func TestEvaluate_ReadAllowedForAuthenticated(t *testing.T) {
	for _, a := range allActors[1:] {
		for _, res := range allResources {
			expectAllow(t, Evaluate(Request{Actor: a, Action: ActionRead, Resource: res, Target: Target{OwnerID: "someone-else"}}))
		}
	}
}

func TestEvaluate_ReadMissingIsNotFound(t *testing.T) {
	d := Evaluate(Request{Actor: customer, Action: ActionRead, Resource: ResourceOffer, Target: Target{Missing: true}})
	expectErr(t, d, domain.ErrNotFound)
}

func TestEvaluate_CreateOfferOnlyBusiness(t *testing.T) {
	for _, a := range allActors[1:] {
		d := Evaluate(Request{Actor: a, Action: ActionCreate, Resource: ResourceOffer})
		if a.Role == domain.RoleBusiness {
			expectAllow(t, d)
			continue
		}
		expectErr(t, d, domain.ErrForbidden)
	}
}

func TestEvaluate_CreateOrderOnlyCustomer(t *testing.T) {
	for _, a := range allActors[1:] {
		d := Evaluate(Request{Actor: a, Action: ActionCreate, Resource: ResourceOrder, Target: Target{OwnerID: business.ID}})
		if a.Role == domain.RoleCustomer {
			expectAllow(t, d)
			continue
		}
		expectErr(t, d, domain.ErrForbidden)
	}
}

func TestEvaluate_CreateOrderMissingOffer(t *testing.T) {
	d := Evaluate(Request{Actor: customer, Action: ActionCreate, Resource: ResourceOrder, Target: Target{Missing: true}})
	expectErr(t, d, domain.ErrNotFound)

	// role is checked before existence
	d = Evaluate(Request{Actor: business, Action: ActionCreate, Resource: ResourceOrder, Target: Target{Missing: true}})
	expectErr(t, d, domain.ErrForbidden)
}

func TestEvaluate_CreateReview(t *testing.T) {
	for _, a := range allActors[1:] {
		d := Evaluate(Request{Actor: a, Action: ActionCreate, Resource: ResourceReview, Target: Target{OwnerID: business.ID}})
		if a.Role == domain.RoleCustomer {
			expectAllow(t, d)
			continue
		}
		expectErr(t, d, domain.ErrForbidden)
	}

	d := Evaluate(Request{Actor: customer, Action: ActionCreate, Resource: ResourceReview, Target: Target{Duplicate: true}})
	expectErr(t, d, domain.ErrConflict)

	d = Evaluate(Request{Actor: customer, Action: ActionCreate, Resource: ResourceReview, Target: Target{Missing: true}})
	expectErr(t, d, domain.ErrNotFound)
}

func TestEvaluate_CreateProfileNeverAllowed(t *testing.T) {
	for _, a := range allActors[1:] {
		expectErr(t, Evaluate(Request{Actor: a, Action: ActionCreate, Resource: ResourceProfile}), domain.ErrForbidden)
	}
}

func TestEvaluate_OfferUpdateDeleteOwnership(t *testing.T) {
	target := Target{OwnerID: business.ID}
	for _, a := range allActors[1:] {
		upd := Evaluate(Request{Actor: a, Action: ActionUpdate, Resource: ResourceOffer, Target: target})
		if a == admin || a == business {
			expectAllow(t, upd)
			if !upd.Fields.Permits("details") || !upd.Fields.Permits("title") {
				t.Fatalf("%s: expected offer fields, got %v", a.ID, upd.Fields)
			}
		} else {
			expectErr(t, upd, domain.ErrForbidden)
		}

		del := Evaluate(Request{Actor: a, Action: ActionDelete, Resource: ResourceOffer, Target: target})
		if a == admin {
			expectAllow(t, del)
		} else {
			expectErr(t, del, domain.ErrForbidden)
		}
	}
}

func TestEvaluate_UpdateMissingIsNotFound(t *testing.T) {
	for _, res := range allResources {
		d := Evaluate(Request{Actor: admin, Action: ActionUpdate, Resource: res, Target: Target{Missing: true}})
		expectErr(t, d, domain.ErrNotFound)
	}
}

func TestEvaluate_OrderUpdateFields(t *testing.T) {
	target := Target{OwnerID: business.ID, CustomerID: customer.ID}

	d := Evaluate(Request{Actor: business, Action: ActionUpdate, Resource: ResourceOrder, Target: target})
	expectAllow(t, d)
	if len(d.Fields) != 1 || !d.Fields.Permits("status") {
		t.Fatalf("business owner should only set status, got %v", d.Fields)
	}

	d = Evaluate(Request{Actor: admin, Action: ActionUpdate, Resource: ResourceOrder, Target: target})
	expectAllow(t, d)
	if !d.Fields.Permits("status") || !d.Fields.Permits("price") {
		t.Fatalf("admin should set status and terms, got %v", d.Fields)
	}
	if d.Fields.Permits("customer_user") || d.Fields.Permits("offer") {
		t.Fatalf("order references must never be mutable, got %v", d.Fields)
	}

	expectErr(t, Evaluate(Request{Actor: customer, Action: ActionUpdate, Resource: ResourceOrder, Target: target}), domain.ErrForbidden)
	expectErr(t, Evaluate(Request{Actor: business2, Action: ActionUpdate, Resource: ResourceOrder, Target: target}), domain.ErrForbidden)
}

func TestEvaluate_CustomerCannotUpdateOrderEvenIfOwnerIDMatches(t *testing.T) {
	d := Evaluate(Request{Actor: customer, Action: ActionUpdate, Resource: ResourceOrder, Target: Target{OwnerID: customer.ID}})
	expectErr(t, d, domain.ErrForbidden)
}

func TestEvaluate_ReviewUpdateDelete(t *testing.T) {
	target := Target{OwnerID: customer.ID}
	for _, a := range allActors[1:] {
		upd := Evaluate(Request{Actor: a, Action: ActionUpdate, Resource: ResourceReview, Target: target})
		del := Evaluate(Request{Actor: a, Action: ActionDelete, Resource: ResourceReview, Target: target})
		if a == admin || a == customer {
			expectAllow(t, upd)
			expectAllow(t, del)
			if upd.Fields.Permits("business_user") || !upd.Fields.Permits("rating") {
				t.Fatalf("unexpected review fields %v", upd.Fields)
			}
			continue
		}
		expectErr(t, upd, domain.ErrForbidden)
		expectErr(t, del, domain.ErrForbidden)
	}
}

func TestEvaluate_ProfileUpdate(t *testing.T) {
	target := Target{OwnerID: business.ID}
	for _, a := range allActors[1:] {
		d := Evaluate(Request{Actor: a, Action: ActionUpdate, Resource: ResourceProfile, Target: target})
		if a == admin || a == business {
			expectAllow(t, d)
			continue
		}
		expectErr(t, d, domain.ErrForbidden)
	}
}

func TestEvaluate_OrderDeleteOnlyAdmin(t *testing.T) {
	target := Target{OwnerID: business.ID, CustomerID: customer.ID}
	for _, a := range allActors[1:] {
		d := Evaluate(Request{Actor: a, Action: ActionDelete, Resource: ResourceOrder, Target: target})
		if a == admin {
			expectAllow(t, d)
			continue
		}
		expectErr(t, d, domain.ErrForbidden)
	}
}

func TestEvaluate_ProfileDeleteNeverAllowed(t *testing.T) {
	for _, a := range allActors[1:] {
		expectErr(t, Evaluate(Request{Actor: a, Action: ActionDelete, Resource: ResourceProfile, Target: Target{OwnerID: a.ID}}), domain.ErrForbidden)
	}
}

func TestEvaluate_ScenarioOfferUpdate(t *testing.T) {
	offer := Target{OwnerID: business.ID}
	expectErr(t, Evaluate(Request{Actor: customer, Action: ActionUpdate, Resource: ResourceOffer, Target: offer}), domain.ErrForbidden)
	expectAllow(t, Evaluate(Request{Actor: admin, Action: ActionUpdate, Resource: ResourceOffer, Target: offer}))
}

func TestEvaluate_ScenarioOrderLifecycle(t *testing.T) {
	order := Target{OwnerID: business.ID, CustomerID: customer.ID}
	expectErr(t, Evaluate(Request{Actor: customer, Action: ActionUpdate, Resource: ResourceOrder, Target: order}), domain.ErrForbidden)
	expectAllow(t, Evaluate(Request{Actor: business, Action: ActionUpdate, Resource: ResourceOrder, Target: order}))
	expectAllow(t, Evaluate(Request{Actor: admin, Action: ActionDelete, Resource: ResourceOrder, Target: order}))
	expectErr(t, Evaluate(Request{Actor: business, Action: ActionDelete, Resource: ResourceOrder, Target: order}), domain.ErrForbidden)
}

func TestEvaluate_FieldsAreCopies(t *testing.T) {
	d := Evaluate(Request{Actor: admin, Action: ActionUpdate, Resource: ResourceReview})
	d.Fields[0] = "reviewer"

	again := Evaluate(Request{Actor: admin, Action: ActionUpdate, Resource: ResourceReview})
	if again.Fields.Permits("reviewer") {
		t.Fatal("mutating a returned field set leaked into the policy table")
	}
}

func TestFieldSet_Check(t *testing.T) {
	fs := FieldSet{"status"}
	if err := fs.Check([]string{"status"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := fs.Check([]string{"status", "price"})
	if !errors.Is(err, domain.ErrImmutableField) || !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrImmutableField, got %v", err)
	}
}

func TestDecision_Outcome(t *testing.T) {
	cases := map[string]Decision{
		"allow":                   {Allowed: true},
		"authentication_required": deny(domain.ErrAuthenticationRequired),
		"not_found":               deny(domain.ErrNotFound),
		"conflict":                deny(domain.ErrConflict),
		"forbidden":               deny(domain.ErrForbidden),
	}
	for want, d := range cases {
		if got := d.Outcome(); got != want {
			t.Errorf("Outcome() = %q, want %q", got, want)
		}
	}
}
