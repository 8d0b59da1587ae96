package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/shopkart-dev/shopkart-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

func (r *MongoCartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *MongoCartRepository) Save(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) error {
	update := bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"user": userID}, update,
		options.Update().SetUpsert(true))
	return err
}

type MongoWishlistRepository struct {
	collection *mongo.Collection
}

func NewMongoWishlistRepository(db *mongo.Database) *MongoWishlistRepository {
	return &MongoWishlistRepository{collection: db.Collection("wishlists")}
}

func (r *MongoWishlistRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&wishlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (r *MongoWishlistRepository) Save(ctx context.Context, userID primitive.ObjectID, items []models.WishlistItem) error {
	update := bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"user": userID}, update,
		options.Update().SetUpsert(true))
	return err
}
