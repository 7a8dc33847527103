package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is written by one customer about one business user.
type Review struct {
	ID             string    `json:"id"`
	BusinessUserID string    `json:"business_user"`
	ReviewerID     string    `json:"reviewer"`
	Rating         int       `json:"rating"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReviewPatch carries the optional fields of a review update.
type ReviewPatch struct {
	Rating      *int
	Description *string
	// Extra holds request fields that have no patchable counterpart.
	Extra []string
}

// Fields returns the wire names of the fields set on the patch.
func (p ReviewPatch) Fields() []string {
	var out []string
	if p.Rating != nil {
		out = append(out, "rating")
	}
	if p.Description != nil {
		out = append(out, "description")
	}
	return append(out, p.Extra...)
}
