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
	"github.com/coderr/marketplace/internal/core/ports"
)

type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(collectionReviews)}
}

type reviewDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	BusinessUserID string             `bson:"business_user_id"`
	ReviewerID     string             `bson:"reviewer_id"`
	Rating         int                `bson:"rating"`
	Description    string             `bson:"description"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (d reviewDoc) toDomain() *domain.Review {
	return &domain.Review{
		ID:             d.ID.Hex(),
		BusinessUserID: d.BusinessUserID,
		ReviewerID:     d.ReviewerID,
		Rating:         d.Rating,
		Description:    d.Description,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// Create inserts a review. The unique (business_user_id, reviewer_id) index
// turns a concurrent second review into ErrDuplicateReview.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := reviewDoc{
		ID:             primitive.NewObjectID(),
		BusinessUserID: rv.BusinessUserID,
		ReviewerID:     rv.ReviewerID,
		Rating:         rv.Rating,
		Description:    rv.Description,
		CreatedAt:      rv.CreatedAt,
		UpdatedAt:      rv.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}
	rv.ID = doc.ID.Hex()
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc reviewDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReviewRepository) Exists(ctx context.Context, businessUserID, reviewerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{
		"business_user_id": businessUserID,
		"reviewer_id":      reviewerID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check review: %w", err)
	}
	return n > 0, nil
}

func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	oid, ok := objectID(rv.ID)
	if !ok {
		return domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"rating":      rv.Rating,
		"description": rv.Description,
		"updated_at":  rv.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) List(ctx context.Context, f ports.ListReviewsFilter) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.BusinessUserID != "" {
		filter["business_user_id"] = f.BusinessUserID
	}
	if f.ReviewerID != "" {
		filter["reviewer_id"] = f.ReviewerID
	}

	ordering := f.Ordering
	if ordering == "" {
		ordering = "-updated_at"
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(sortSpec(ordering)))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	out := make([]*domain.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Summary computes the review count and average rating in one aggregation.
func (r *ReviewRepository) Summary(ctx context.Context) (int64, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"avg":   bson.M{"$avg": "$rating"},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("review summary: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Count int64   `bson:"count"`
		Avg   float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("decode review summary: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Count, rows[0].Avg, nil
}
