package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	listingserrors "hostelhub/internal/listings/errors"
	"hostelhub/pkg/config"
	mongotx "hostelhub/pkg/db/mongo"
	"hostelhub/pkg/model"
)

const (
	CollectionName = "Listings"
)

type mongoListingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id string) (*model.Listing, error)
	Search(ctx context.Context, filter *model.ListingFilter, limit int, offset int64) ([]*model.Listing, error)
	CountSearch(ctx context.Context, filter *model.ListingFilter) (int64, error)
	Update(ctx context.Context, id string, listing *model.Listing) (*mongo.UpdateResult, error)
	SetActive(ctx context.Context, id string, active bool) error
	AddReview(ctx context.Context, id string, review model.Review, rating float64) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoListingRepository(cfg *config.Config) ListingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoListingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless we are already inside
// a transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoListingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	if remaining := time.Until(deadline); remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	listing.CreatedAt = now
	listing.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, listing)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		listing.ID = oid.Hex()
	}
	return nil
}

func (r *mongoListingRepository) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, id)
	}

	var listing model.Listing
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}

	return &listing, nil
}

func (r *mongoListingRepository) Search(ctx context.Context, filter *model.ListingFilter, limit int, offset int64) ([]*model.Listing, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildSearchFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*model.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	return listings, nil
}

func (r *mongoListingRepository) CountSearch(ctx context.Context, filter *model.ListingFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildSearchFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// buildSearchFilter always scopes to active listings; soft-deleted records
// never surface in search results.
func buildSearchFilter(filter *model.ListingFilter) bson.M {
	query := bson.M{"is_active": true}
	if filter == nil {
		return query
	}

	if filter.Text != "" {
		query["$text"] = bson.M{"$search": filter.Text}
	}
	if filter.City != "" {
		query["address.city"] = filter.City
	}
	if filter.State != "" {
		query["address.state"] = filter.State
	}
	if filter.Country != "" {
		query["address.country"] = filter.Country
	}

	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["rooms.price"] = price
	}

	if len(filter.Amenities) > 0 {
		query["amenities"] = bson.M{"$all": filter.Amenities}
	}

	return query
}

func (r *mongoListingRepository) Update(ctx context.Context, id string, listing *model.Listing) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":         listing.Name,
			"description":  listing.Description,
			"address":      listing.Address,
			"contact_info": listing.ContactInfo,
			"amenities":    listing.Amenities,
			"images":       listing.Images,
			"rooms":        listing.Rooms,
			"policies":     listing.Policies,
			"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, listingserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoListingRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing active flag: %w", err)
	}

	if result.MatchedCount == 0 {
		return listingserrors.ErrNotFound
	}

	return nil
}

// AddReview appends the review and writes the recomputed aggregate rating in
// a single update so the invariant cannot be observed broken.
func (r *mongoListingRepository) AddReview(ctx context.Context, id string, review model.Review, rating float64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$push": bson.M{"reviews": review},
		"$set": bson.M{
			"rating":     rating,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to add review: %w", err)
	}

	if result.MatchedCount == 0 {
		return listingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoListingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
