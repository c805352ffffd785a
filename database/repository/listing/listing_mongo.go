package listingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"imobil/database"
	"imobil/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo creates a new instance of ListingRepository using MongoDB.
func NewMongoListingRepo(db *mongo.Database) ListingRepository {
	repo := &MongoListingRepo{coll: db.Collection("listings")}

	if err := repo.ensureIndexes(); err != nil {
		zap.L().Error("failed to create listing indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoListingRepo) ensureIndexes() error {
	ctx, cancel := database.NewContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "featured_until", Value: 1}}},
		{Keys: bson.D{{Key: "payment_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a listing by its unique ID.
func (r *MongoListingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var listing models.Listing
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch listing with id %s: %w", id.Hex(), err)
	}
	return &listing, nil
}

// Create inserts a new listing document.
func (r *MongoListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Delete removes a listing document by its ID.
func (r *MongoListingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete listing with id %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyPromotion marks the listing featured until promo.FeaturedUntil. An
// existing later featured_until is kept.
func (r *MongoListingRepo) ApplyPromotion(ctx context.Context, id primitive.ObjectID, promo models.Promotion) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"featured":   true,
			"free_tier":  false,
			"updated_at": time.Now(),
		},
		"$max": bson.M{"featured_until": promo.FeaturedUntil},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to apply promotion: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid records a confirmed payment. Re-applying the same record leaves the
// document unchanged apart from updated_at.
func (r *MongoListingRepo) MarkPaid(ctx context.Context, id primitive.ObjectID, record models.PaymentRecord) error {
	return r.updateSet(ctx, bson.M{"_id": id}, bson.M{
		"is_paid":      true,
		"payment_id":   record.PaymentID,
		"payer_email":  record.PayerEmail,
		"payment_type": record.PaymentType,
		"amount_paid":  record.Amount,
		"currency":     record.Currency,
		"paid_at":      record.PaidAt,
	})
}

// ClearExpiredPromotion unfeatures the listing if its window has ended.
func (r *MongoListingRepo) ClearExpiredPromotion(ctx context.Context, id primitive.ObjectID, now time.Time) (bool, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id, "featured": true, "featured_until": bson.M{"$lte": now}}
	update := bson.M{"$set": bson.M{"featured": false, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to clear promotion for listing %s: %w", id.Hex(), err)
	}
	return result.ModifiedCount > 0, nil
}

func (r *MongoListingRepo) updateSet(ctx context.Context, filter, set bson.M) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	set["updated_at"] = time.Now()
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
