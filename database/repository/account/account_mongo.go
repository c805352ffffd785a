package accountRepo

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
	"go.uber.org/zap"
)

// MongoAccountRepo implements AccountRepository using MongoDB.
type MongoAccountRepo struct {
	coll *mongo.Collection
}

// NewMongoAccountRepo creates a new instance of AccountRepository using MongoDB.
func NewMongoAccountRepo(db *mongo.Database) AccountRepository {
	repo := &MongoAccountRepo{coll: db.Collection("accounts")}

	if err := repo.ensureIndexes(); err != nil {
		zap.L().Error("failed to create account indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoAccountRepo) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var account models.Account
	if err := r.coll.FindOne(ctx, filter).Decode(&account); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return &account, nil
}

// GetByID retrieves an account by its unique ID.
func (r *MongoAccountRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByPhone retrieves an account by its normalized phone number.
func (r *MongoAccountRepo) GetByPhone(ctx context.Context, phone string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

// GetByEmail retrieves an account by its email address.
func (r *MongoAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// Create inserts a new account document.
func (r *MongoAccountRepo) Create(ctx context.Context, account *models.Account) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	account.CreatedAt = now
	account.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// SetPhone records a phone number on an account.
func (r *MongoAccountRepo) SetPhone(ctx context.Context, id primitive.ObjectID, phone string) error {
	return r.updateSet(ctx, id, bson.M{"phone": phone, "verified": true})
}

// UpdateProfile changes the display name and email of an account.
func (r *MongoAccountRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email string) error {
	return r.updateSet(ctx, id, bson.M{"name": name, "email": email})
}

func (r *MongoAccountRepo) updateSet(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	set["updated_at"] = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update account %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
