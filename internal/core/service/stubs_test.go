package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
	"github.com/coderr/marketplace/internal/core/ports"
)

var (
	adminActor     = policy.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	businessActor  = policy.Actor{ID: "biz-1", Role: domain.RoleBusiness}
	business2Actor = policy.Actor{ID: "biz-2", Role: domain.RoleBusiness}
	customerActor  = policy.Actor{ID: "cust-1", Role: domain.RoleCustomer}
	customer2Actor = policy.Actor{ID: "cust-2", Role: domain.RoleCustomer}
)

func ptr[T any](v T) *T { return &v }

func anonymousActor() policy.Actor { return policy.Actor{} }

// ---------------------------------------------------------------------------
// Users and profiles
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User // by ID
	seq   int
	err   error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		clone := *u
		r.users[u.ID] = &clone
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || (user.Email != "" && u.Email == user.Email) {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubProfileRepo struct {
	profiles  map[string]*domain.Profile // by user ID
	createErr error
	updated   int
}

func newStubProfileRepo(profiles ...*domain.Profile) *stubProfileRepo {
	r := &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
	for _, p := range profiles {
		clone := *p
		r.profiles[p.UserID] = &clone
	}
	return r
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *p
	r.profiles[p.UserID] = &clone
	return nil
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) Update(_ context.Context, p *domain.Profile) error {
	if _, ok := r.profiles[p.UserID]; !ok {
		return domain.ErrProfileNotFound
	}
	clone := *p
	r.profiles[p.UserID] = &clone
	r.updated++
	return nil
}

func (r *stubProfileRepo) ListByType(_ context.Context, role domain.Role) ([]*domain.Profile, error) {
	var out []*domain.Profile
	for _, p := range r.profiles {
		if p.Type == role {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProfileRepo) CountByType(ctx context.Context, role domain.Role) (int64, error) {
	list, err := r.ListByType(ctx, role)
	return int64(len(list)), err
}

// ---------------------------------------------------------------------------
// Offers
// ---------------------------------------------------------------------------

type stubOfferRepo struct {
	offers     map[string]*domain.Offer
	seq        int
	lastFilter ports.ListOffersFilter
	listTotal  int64
	deleted    []string
}

func newStubOfferRepo(offers ...*domain.Offer) *stubOfferRepo {
	r := &stubOfferRepo{offers: make(map[string]*domain.Offer)}
	for _, o := range offers {
		r.offers[o.ID] = cloneOffer(o)
	}
	return r
}

func cloneOffer(o *domain.Offer) *domain.Offer {
	clone := *o
	clone.Details = append([]domain.Package(nil), o.Details...)
	return &clone
}

func (r *stubOfferRepo) Create(_ context.Context, o *domain.Offer) error {
	r.seq++
	o.ID = fmt.Sprintf("offer-%d", r.seq)
	r.offers[o.ID] = cloneOffer(o)
	return nil
}

func (r *stubOfferRepo) FindByID(_ context.Context, id string) (*domain.Offer, error) {
	o, ok := r.offers[id]
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	return cloneOffer(o), nil
}

func (r *stubOfferRepo) FindByPackageID(_ context.Context, packageID string) (*domain.Offer, error) {
	for _, o := range r.offers {
		if _, ok := o.Package(packageID); ok {
			return cloneOffer(o), nil
		}
	}
	return nil, domain.ErrPackageNotFound
}

func (r *stubOfferRepo) Update(_ context.Context, o *domain.Offer) error {
	if _, ok := r.offers[o.ID]; !ok {
		return domain.ErrOfferNotFound
	}
	r.offers[o.ID] = cloneOffer(o)
	return nil
}

func (r *stubOfferRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.offers[id]; !ok {
		return domain.ErrOfferNotFound
	}
	delete(r.offers, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubOfferRepo) List(_ context.Context, f ports.ListOffersFilter) ([]*domain.Offer, int64, error) {
	r.lastFilter = f
	var out []*domain.Offer
	for _, o := range r.offers {
		out = append(out, cloneOffer(o))
	}
	total := r.listTotal
	if total == 0 {
		total = int64(len(out))
	}
	return out, total, nil
}

func (r *stubOfferRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.offers)), nil
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	orders      map[string]*domain.Order
	seq         int
	entries     []*domain.StatusHistoryEntry
	listedFor   []string
	lastCountBy string
	count       int64
}

func newStubOrderRepo(orders ...*domain.Order) *stubOrderRepo {
	r := &stubOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		r.orders[o.ID] = cloneOrder(o)
	}
	return r
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.StatusHistory = append([]domain.StatusHistoryEntry(nil), o.StatusHistory...)
	return &clone
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.seq++
	o.ID = fmt.Sprintf("order-%d", r.seq)
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) Update(_ context.Context, o *domain.Order, entry *domain.StatusHistoryEntry) error {
	if _, ok := r.orders[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.orders[o.ID] = cloneOrder(o)
	if entry != nil {
		r.entries = append(r.entries, entry)
	}
	return nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) ListForUser(_ context.Context, userID string) ([]*domain.Order, error) {
	r.listedFor = append(r.listedFor, userID)
	var out []*domain.Order
	for _, o := range r.orders {
		if userID == "" || o.InvolvesUser(userID) {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) CountByBusinessAndStatus(_ context.Context, businessUserID string, status domain.OrderStatus) (int64, error) {
	r.lastCountBy = businessUserID + ":" + string(status)
	return r.count, nil
}

type stubEventRepo struct {
	insertErr error
	inserted  []*domain.OrderEvent
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.OrderEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

type stubIdempotency struct {
	keys       map[string]string
	lookupErr  error
	remembered int
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, scope, key string) (string, bool, error) {
	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	id, ok := s.keys[scope+"|"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, scope, key, orderID string) error {
	s.keys[scope+"|"+key] = orderID
	s.remembered++
	return nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func (p *stubPublisher) Enqueue(e domain.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

// ---------------------------------------------------------------------------
// Reviews
// ---------------------------------------------------------------------------

type stubReviewRepo struct {
	reviews    map[string]*domain.Review
	seq        int
	lastFilter ports.ListReviewsFilter
	count      int64
	avg        float64
	// raceDuplicate makes Create fail as if a concurrent insert won.
	raceDuplicate bool
}

func newStubReviewRepo(reviews ...*domain.Review) *stubReviewRepo {
	r := &stubReviewRepo{reviews: make(map[string]*domain.Review)}
	for _, rv := range reviews {
		clone := *rv
		r.reviews[rv.ID] = &clone
	}
	return r
}

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	if r.raceDuplicate {
		return domain.ErrDuplicateReview
	}
	r.seq++
	rv.ID = fmt.Sprintf("review-%d", r.seq)
	clone := *rv
	r.reviews[rv.ID] = &clone
	return nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, id string) (*domain.Review, error) {
	rv, ok := r.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	clone := *rv
	return &clone, nil
}

func (r *stubReviewRepo) Exists(_ context.Context, businessUserID, reviewerID string) (bool, error) {
	for _, rv := range r.reviews {
		if rv.BusinessUserID == businessUserID && rv.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubReviewRepo) Update(_ context.Context, rv *domain.Review) error {
	clone := *rv
	r.reviews[rv.ID] = &clone
	return nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id string) error {
	delete(r.reviews, id)
	return nil
}

func (r *stubReviewRepo) List(_ context.Context, f ports.ListReviewsFilter) ([]*domain.Review, error) {
	r.lastFilter = f
	var out []*domain.Review
	for _, rv := range r.reviews {
		clone := *rv
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubReviewRepo) Summary(_ context.Context) (int64, float64, error) {
	return r.count, r.avg, nil
}
