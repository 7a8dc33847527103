package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderr/marketplace/internal/core/domain"
)

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(collectionOrders)}
}

type orderDoc struct {
	ID                 primitive.ObjectID          `bson:"_id,omitempty"`
	OfferID            string                      `bson:"offer_id"`
	OfferDetailID      string                      `bson:"offer_detail_id"`
	CustomerUserID     string                      `bson:"customer_user_id"`
	BusinessUserID     string                      `bson:"business_user_id"`
	Title              string                      `bson:"title"`
	Revisions          int                         `bson:"revisions"`
	DeliveryTimeInDays int                         `bson:"delivery_time_in_days"`
	Price              float64                     `bson:"price"`
	Features           []string                    `bson:"features"`
	OfferType          string                      `bson:"offer_type"`
	Status             string                      `bson:"status"`
	StatusHistory      []domain.StatusHistoryEntry `bson:"status_history"`
	IdempotencyKey     string                      `bson:"idempotency_key,omitempty"`
	CreatedAt          time.Time                   `bson:"created_at"`
	UpdatedAt          time.Time                   `bson:"updated_at"`
}

func (d orderDoc) toDomain() *domain.Order {
	return &domain.Order{
		ID:                 d.ID.Hex(),
		OfferID:            d.OfferID,
		OfferDetailID:      d.OfferDetailID,
		CustomerUserID:     d.CustomerUserID,
		BusinessUserID:     d.BusinessUserID,
		Title:              d.Title,
		Revisions:          d.Revisions,
		DeliveryTimeInDays: d.DeliveryTimeInDays,
		Price:              d.Price,
		Features:           d.Features,
		OfferType:          domain.OfferType(d.OfferType),
		Status:             domain.OrderStatus(d.Status),
		StatusHistory:      d.StatusHistory,
		IdempotencyKey:     d.IdempotencyKey,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := orderDoc{
		ID:                 primitive.NewObjectID(),
		OfferID:            o.OfferID,
		OfferDetailID:      o.OfferDetailID,
		CustomerUserID:     o.CustomerUserID,
		BusinessUserID:     o.BusinessUserID,
		Title:              o.Title,
		Revisions:          o.Revisions,
		DeliveryTimeInDays: o.DeliveryTimeInDays,
		Price:              o.Price,
		Features:           o.Features,
		OfferType:          string(o.OfferType),
		Status:             string(o.Status),
		StatusHistory:      o.StatusHistory,
		IdempotencyKey:     o.IdempotencyKey,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = doc.ID.Hex()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

// Update sets the mutable order fields and, when entry is given, pushes it onto
// the status history in the same atomic update.
func (r *OrderRepository) Update(ctx context.Context, o *domain.Order, entry *domain.StatusHistoryEntry) error {
	oid, ok := objectID(o.ID)
	if !ok {
		return domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"title":                 o.Title,
			"revisions":             o.Revisions,
			"delivery_time_in_days": o.DeliveryTimeInDays,
			"price":                 o.Price,
			"features":              o.Features,
			"offer_type":            string(o.OfferType),
			"status":                string(o.Status),
			"updated_at":            o.UpdatedAt,
		},
	}
	if entry != nil {
		update["$push"] = bson.M{"status_history": entry}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["$or"] = bson.A{
			bson.M{"customer_user_id": userID},
			bson.M{"business_user_id": userID},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	out := make([]*domain.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *OrderRepository) CountByBusinessAndStatus(ctx context.Context, businessUserID string, status domain.OrderStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{
		"business_user_id": businessUserID,
		"status":           string(status),
	})
}
