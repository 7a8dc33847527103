package domain

import "time"

// OfferType is the tier of a package within an offer.
type OfferType string

const (
	OfferTypeBasic    OfferType = "basic"
	OfferTypeStandard OfferType = "standard"
	OfferTypePremium  OfferType = "premium"
)

// Valid reports whether t is a known tier.
func (t OfferType) Valid() bool {
	switch t {
	case OfferTypeBasic, OfferTypeStandard, OfferTypePremium:
		return true
	}
	return false
}

// UnlimitedRevisions marks a package without a revision cap.
const UnlimitedRevisions = -1

// Package is one purchasable tier of an offer.
type Package struct {
	ID                 string    `json:"id" bson:"id"`
	Title              string    `json:"title" bson:"title"`
	Revisions          int       `json:"revisions" bson:"revisions"`
	DeliveryTimeInDays int       `json:"delivery_time_in_days" bson:"delivery_time_in_days"`
	Price              float64   `json:"price" bson:"price"`
	Features           []string  `json:"features" bson:"features"`
	OfferType          OfferType `json:"offer_type" bson:"offer_type"`
}

// Offer is owned by exactly one business user and carries at least one package.
type Offer struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user"`
	Title           string    `json:"title"`
	Image           string    `json:"image,omitempty"`
	Description     string    `json:"description"`
	Details         []Package `json:"details"`
	MinPrice        float64   `json:"min_price"`
	MinDeliveryTime int       `json:"min_delivery_time"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Summarize recomputes the derived minimums from the current packages.
func (o *Offer) Summarize() {
	o.MinPrice = 0
	o.MinDeliveryTime = 0
	for i, p := range o.Details {
		if i == 0 || p.Price < o.MinPrice {
			o.MinPrice = p.Price
		}
		if i == 0 || p.DeliveryTimeInDays < o.MinDeliveryTime {
			o.MinDeliveryTime = p.DeliveryTimeInDays
		}
	}
}

// Package returns the package with the given ID, if present.
func (o *Offer) Package(id string) (Package, bool) {
	for _, p := range o.Details {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// OfferPatch carries the optional fields of an offer update.
// A non-nil Details replaces every package of the offer.
type OfferPatch struct {
	Title       *string
	Image       *string
	Description *string
	Details     []Package
	// Extra holds request fields that have no patchable counterpart.
	Extra []string
}

// Fields returns the wire names of the fields set on the patch.
func (p OfferPatch) Fields() []string {
	var out []string
	if p.Title != nil {
		out = append(out, "title")
	}
	if p.Image != nil {
		out = append(out, "image")
	}
	if p.Description != nil {
		out = append(out, "description")
	}
	if p.Details != nil {
		out = append(out, "details")
	}
	return append(out, p.Extra...)
}
