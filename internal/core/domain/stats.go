package domain

// BaseInfo is the platform-wide summary shown on the landing page.
type BaseInfo struct {
	ReviewCount          int64   `json:"review_count"`
	AverageRating        float64 `json:"average_rating"`
	OfferCount           int64   `json:"offer_count"`
	BusinessProfileCount int64   `json:"business_profile_count"`
}
