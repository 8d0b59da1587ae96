package services

import (
	"context"
	"errors"

	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartService struct {
	carts     repositories.CartRepository
	wishlists repositories.WishlistRepository
	products  repositories.ProductRepository
}

func NewCartService(carts repositories.CartRepository, wishlists repositories.WishlistRepository, products repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, wishlists: wishlists, products: products}
}

// GetCart resolves the user's cart against current product data. Lines
// whose product no longer exists are dropped from the view; the stored
// document is left alone.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) ([]models.ResolvedCartItem, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return []models.ResolvedCartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	resolved := make([]models.ResolvedCartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.Product)
		if errors.Is(err, repositories.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, models.ResolvedCartItem{Product: *product, Quantity: item.Quantity})
	}
	return resolved, nil
}

// SaveCart overwrites the stored cart. Quantities below 1 default to 1.
func (s *CartService) SaveCart(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) error {
	for i := range items {
		if items[i].Quantity < 1 {
			items[i].Quantity = 1
		}
	}
	return s.carts.Save(ctx, userID, items)
}

// MergeCarts is the guest-to-authenticated reconciliation policy: the
// server cart wins when it has anything in it, otherwise the local copy
// is pushed. Pure function; SyncCart applies it.
func MergeCarts(local, server []models.CartItem) []models.CartItem {
	if len(server) > 0 {
		return server
	}
	return local
}

// SyncCart merges a client's offline cart with the stored one on login
// and returns the resolved result of whichever copy won.
func (s *CartService) SyncCart(ctx context.Context, userID primitive.ObjectID, local []models.CartItem) ([]models.ResolvedCartItem, error) {
	var server []models.CartItem
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if cart != nil {
		server = cart.Items
	}

	merged := MergeCarts(local, server)
	if len(server) == 0 && len(merged) > 0 {
		if err := s.SaveCart(ctx, userID, merged); err != nil {
			return nil, err
		}
	}
	return s.GetCart(ctx, userID)
}

// GetWishlist mirrors GetCart's read-time filtering for the wishlist.
func (s *CartService) GetWishlist(ctx context.Context, userID primitive.ObjectID) ([]models.Product, error) {
	wishlist, err := s.wishlists.FindByUser(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return []models.Product{}, nil
	}
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(wishlist.Items))
	for _, item := range wishlist.Items {
		product, err := s.products.FindByID(ctx, item.Product)
		if errors.Is(err, repositories.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

func (s *CartService) SaveWishlist(ctx context.Context, userID primitive.ObjectID, items []models.WishlistItem) error {
	return s.wishlists.Save(ctx, userID, items)
}
