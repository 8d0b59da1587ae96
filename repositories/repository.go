package repositories

import (
	"context"
	"errors"

	"github.com/shopkart-dev/shopkart-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Find* methods exclude the photo payload.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	PhotoByID(ctx context.Context, id primitive.ObjectID) (*models.ProductPhoto, error)
}

type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	// Save replaces the stored item list wholesale, creating the cart
	// document if absent. Last writer wins.
	Save(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) error
}

type WishlistRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error)
	Save(ctx context.Context, userID primitive.ObjectID, items []models.WishlistItem) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// FindByBuyer and FindAll return orders newest first.
	FindByBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error)
	FindByRequestID(ctx context.Context, requestID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
}
