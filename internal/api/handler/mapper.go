package handler

import (
	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

// --- Request → Service input ---

func toPackageInputs(reqs []packageRequest) []ports.PackageInput {
	if reqs == nil {
		return nil
	}
	out := make([]ports.PackageInput, 0, len(reqs))
	for _, p := range reqs {
		out = append(out, ports.PackageInput{
			Title:              p.Title,
			Revisions:          p.Revisions,
			DeliveryTimeInDays: p.DeliveryTimeInDays,
			Price:              p.Price,
			Features:           p.Features,
			OfferType:          domain.OfferType(p.OfferType),
		})
	}
	return out
}

func toCreateOfferInput(req createOfferRequest) ports.CreateOfferInput {
	return ports.CreateOfferInput{
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
		Details:     toPackageInputs(req.Details),
	}
}

func toUpdateOfferInput(req updateOfferRequest, extra []string) ports.UpdateOfferInput {
	return ports.UpdateOfferInput{
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
		Details:     toPackageInputs(req.Details),
		Extra:       extra,
	}
}

func toProfilePatch(req profilePatchRequest, extra []string) domain.ProfilePatch {
	return domain.ProfilePatch{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		File:         req.File,
		Location:     req.Location,
		Tel:          req.Tel,
		Description:  req.Description,
		WorkingHours: req.WorkingHours,
		Extra:        extra,
	}
}

func toOrderPatch(req orderPatchRequest, extra []string) domain.OrderPatch {
	p := domain.OrderPatch{
		Title:              req.Title,
		Revisions:          req.Revisions,
		DeliveryTimeInDays: req.DeliveryTimeInDays,
		Price:              req.Price,
		Features:           req.Features,
		Extra:              extra,
	}
	if req.Status != nil {
		s := domain.OrderStatus(*req.Status)
		p.Status = &s
	}
	if req.OfferType != nil {
		t := domain.OfferType(*req.OfferType)
		p.OfferType = &t
	}
	return p
}

func toReviewPatch(req reviewPatchRequest, extra []string) domain.ReviewPatch {
	return domain.ReviewPatch{Rating: req.Rating, Description: req.Description, Extra: extra}
}

// --- Domain → Response ---

func toAuthResponse(token string, u *domain.User) authResponse {
	return authResponse{Token: token, UserID: u.ID, Username: u.Username, Email: u.Email}
}

func toOfferListResponse(r *ports.ListOffersResult) offerListResponse {
	items := r.Items
	if items == nil {
		items = []*domain.Offer{}
	}
	return offerListResponse{
		Count:      r.Total,
		Page:       r.Page,
		PageSize:   r.Limit,
		TotalPages: r.TotalPages,
		Results:    items,
	}
}
