package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coderr/marketplace/internal/core/domain"
)

// OrderEventRepository appends to the order_events audit collection.
type OrderEventRepository struct {
	coll *mongo.Collection
}

func NewOrderEventRepository(db *mongo.Database) *OrderEventRepository {
	return &OrderEventRepository{coll: db.Collection(collectionOrderEvents)}
}

func (r *OrderEventRepository) InsertEvent(ctx context.Context, event *domain.OrderEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"order_id":     event.OrderID,
		"type":         event.Type,
		"actor_id":     event.ActorID,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.Status != "" {
		doc["status"] = string(event.Status)
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
