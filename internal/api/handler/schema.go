package handler

import "github.com/coderr/marketplace/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username         string `json:"username"          validate:"required"`
	Email            string `json:"email"             validate:"required,email"`
	Password         string `json:"password"          validate:"required"`
	RepeatedPassword string `json:"repeated_password" validate:"required,eqfield=Password"`
	Type             string `json:"type"              validate:"required,oneof=customer business"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// --- Profiles ---

type profilePatchRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	File         *string `json:"file"`
	Location     *string `json:"location"`
	Tel          *string `json:"tel"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours"`
}

var profilePatchFields = []string{"first_name", "last_name", "file", "location", "tel", "description", "working_hours"}

// --- Offers ---

type packageRequest struct {
	Title              string   `json:"title"                 validate:"required"`
	Revisions          int      `json:"revisions"             validate:"gte=-1"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days" validate:"gt=0"`
	Price              float64  `json:"price"                 validate:"gt=0"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"            validate:"required,oneof=basic standard premium"`
}

type createOfferRequest struct {
	Title       string           `json:"title"       validate:"required"`
	Image       string           `json:"image"`
	Description string           `json:"description"`
	Details     []packageRequest `json:"details"     validate:"required,min=1,dive"`
}

type updateOfferRequest struct {
	Title       *string          `json:"title"`
	Image       *string          `json:"image"`
	Description *string          `json:"description"`
	Details     []packageRequest `json:"details" validate:"omitempty,min=1,dive"`
}

var offerPatchFields = []string{"title", "image", "description", "details"}

type offerListResponse struct {
	Count      int64           `json:"count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
	Results    []*domain.Offer `json:"results"`
}

// --- Orders ---

type createOrderRequest struct {
	OfferDetailID string `json:"offer_detail_id" validate:"required"`
}

type orderPatchRequest struct {
	Status             *string  `json:"status"`
	Title              *string  `json:"title"`
	Revisions          *int     `json:"revisions"`
	DeliveryTimeInDays *int     `json:"delivery_time_in_days"`
	Price              *float64 `json:"price"`
	Features           []string `json:"features"`
	OfferType          *string  `json:"offer_type"`
}

var orderPatchFields = []string{"status", "title", "revisions", "delivery_time_in_days", "price", "features", "offer_type"}

type orderCountResponse struct {
	OrderCount int64 `json:"order_count"`
}

type completedOrderCountResponse struct {
	CompletedOrderCount int64 `json:"completed_order_count"`
}

// --- Reviews ---

type createReviewRequest struct {
	BusinessUser string `json:"business_user" validate:"required"`
	Rating       int    `json:"rating"        validate:"required,gte=1,lte=5"`
	Description  string `json:"description"`
}

type reviewPatchRequest struct {
	Rating      *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Description *string `json:"description"`
}

var reviewPatchFields = []string{"rating", "description"}
