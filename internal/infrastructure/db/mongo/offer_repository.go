package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type OfferRepository struct {
	coll *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{coll: db.Collection(collectionOffers)}
}

// Packages are embedded, so ordering a package only needs the offer document.
type offerDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"user_id"`
	Title           string             `bson:"title"`
	Image           string             `bson:"image,omitempty"`
	Description     string             `bson:"description"`
	Details         []domain.Package   `bson:"details"`
	MinPrice        float64            `bson:"min_price"`
	MinDeliveryTime int                `bson:"min_delivery_time"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (d offerDoc) toDomain() *domain.Offer {
	return &domain.Offer{
		ID:              d.ID.Hex(),
		UserID:          d.UserID,
		Title:           d.Title,
		Image:           d.Image,
		Description:     d.Description,
		Details:         d.Details,
		MinPrice:        d.MinPrice,
		MinDeliveryTime: d.MinDeliveryTime,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := offerDoc{
		ID:              primitive.NewObjectID(),
		UserID:          o.UserID,
		Title:           o.Title,
		Image:           o.Image,
		Description:     o.Description,
		Details:         o.Details,
		MinPrice:        o.MinPrice,
		MinDeliveryTime: o.MinDeliveryTime,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	o.ID = doc.ID.Hex()
	return nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id string) (*domain.Offer, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, domain.ErrOfferNotFound)
}

func (r *OfferRepository) FindByPackageID(ctx context.Context, packageID string) (*domain.Offer, error) {
	return r.findOne(ctx, bson.M{"details.id": packageID}, domain.ErrPackageNotFound)
}

func (r *OfferRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc offerDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OfferRepository) Update(ctx context.Context, o *domain.Offer) error {
	oid, ok := objectID(o.ID)
	if !ok {
		return domain.ErrOfferNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":             o.Title,
		"image":             o.Image,
		"description":       o.Description,
		"details":           o.Details,
		"min_price":         o.MinPrice,
		"min_delivery_time": o.MinDeliveryTime,
		"updated_at":        o.UpdatedAt,
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrOfferNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

// List returns one page of offers matching the filter and the total number of
// matches.
func (r *OfferRepository) List(ctx context.Context, f ports.ListOffersFilter) ([]*domain.Offer, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := offerFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count offers: %w", err)
	}

	opts := options.Find().
		SetSort(sortSpec(f.Ordering)).
		SetSkip(pageSkip(f.Page, f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list offers: %w", err)
	}
	defer cur.Close(ctx)

	var docs []offerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode offers: %w", err)
	}
	items := make([]*domain.Offer, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}

func (r *OfferRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{})
}

func offerFilter(f ports.ListOffersFilter) bson.M {
	filter := bson.M{}
	if f.CreatorID != "" {
		filter["user_id"] = f.CreatorID
	}
	if f.MinPrice != nil {
		filter["min_price"] = bson.M{"$gte": *f.MinPrice}
	}
	if f.MaxDeliveryTime != nil {
		filter["min_delivery_time"] = bson.M{"$lte": *f.MaxDeliveryTime}
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	return filter
}

// pageSkip returns how many documents precede page. Computed in int64 and
// never negative.
func pageSkip(page, limit int) int64 {
	if page < 1 || limit < 1 {
		return 0
	}
	prior := int64(page) - 1
	if prior > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return prior * int64(limit)
}

// sortSpec turns "field" or "-field" into a Mongo sort document. _id breaks
// ties so pages are stable.
func sortSpec(ordering string) bson.D {
	dir := 1
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		dir = -1
		field = ordering[1:]
	}
	if field == "" {
		return bson.D{{Key: "_id", Value: -1}}
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
