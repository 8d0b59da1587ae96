package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/shopkart-dev/shopkart-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory implementation of every repository
// interface, used by tests.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[primitive.ObjectID]models.User
	products  map[primitive.ObjectID]models.Product
	carts     map[primitive.ObjectID]models.Cart
	wishlists map[primitive.ObjectID]models.Wishlist
	orders    []models.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[primitive.ObjectID]models.User),
		products:  make(map[primitive.ObjectID]models.Product),
		carts:     make(map[primitive.ObjectID]models.Cart),
		wishlists: make(map[primitive.ObjectID]models.Wishlist),
	}
}

// ----- users -----

func (s *MemoryStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := u
	return &user, nil
}

func (s *MemoryStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

// MemoryProducts adapts a MemoryStore to the ProductRepository interface.
// A separate type keeps the Create/Update/Delete method sets of the user
// and product repositories from colliding.
type MemoryProducts struct {
	store *MemoryStore
}

func NewMemoryProducts(store *MemoryStore) *MemoryProducts {
	return &MemoryProducts{store: store}
}

func (p *MemoryProducts) Create(ctx context.Context, product *models.Product) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	p.store.products[product.ID] = *product
	return nil
}

func (p *MemoryProducts) Update(ctx context.Context, product *models.Product) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	if _, ok := p.store.products[product.ID]; !ok {
		return ErrNotFound
	}
	product.UpdatedAt = time.Now()
	p.store.products[product.ID] = *product
	return nil
}

func (p *MemoryProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	if _, ok := p.store.products[id]; !ok {
		return ErrNotFound
	}
	delete(p.store.products, id)
	return nil
}

func (p *MemoryProducts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	prod, ok := p.store.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	prod.Photo = models.ProductPhoto{}
	return &prod, nil
}

func (p *MemoryProducts) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	for _, prod := range p.store.products {
		if prod.Slug == slug {
			found := prod
			found.Photo = models.ProductPhoto{}
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (p *MemoryProducts) FindAll(ctx context.Context) ([]models.Product, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	products := make([]models.Product, 0, len(p.store.products))
	for _, prod := range p.store.products {
		prod.Photo = models.ProductPhoto{}
		products = append(products, prod)
	}
	return products, nil
}

func (p *MemoryProducts) PhotoByID(ctx context.Context, id primitive.ObjectID) (*models.ProductPhoto, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	prod, ok := p.store.products[id]
	if !ok || len(prod.Photo.Data) == 0 {
		return nil, ErrNotFound
	}
	photo := prod.Photo
	return &photo, nil
}

// ----- carts -----

type MemoryCarts struct {
	store *MemoryStore
}

func NewMemoryCarts(store *MemoryStore) *MemoryCarts {
	return &MemoryCarts{store: store}
}

func (c *MemoryCarts) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	cart, ok := c.store.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	found := cart
	found.Items = append([]models.CartItem(nil), cart.Items...)
	return &found, nil
}

func (c *MemoryCarts) Save(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	cart, ok := c.store.carts[userID]
	if !ok {
		cart = models.Cart{ID: primitive.NewObjectID(), UserID: userID}
	}
	cart.Items = append([]models.CartItem(nil), items...)
	cart.UpdatedAt = time.Now()
	c.store.carts[userID] = cart
	return nil
}

// ----- wishlists -----

type MemoryWishlists struct {
	store *MemoryStore
}

func NewMemoryWishlists(store *MemoryStore) *MemoryWishlists {
	return &MemoryWishlists{store: store}
}

func (w *MemoryWishlists) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	w.store.mu.RLock()
	defer w.store.mu.RUnlock()
	wishlist, ok := w.store.wishlists[userID]
	if !ok {
		return nil, ErrNotFound
	}
	found := wishlist
	found.Items = append([]models.WishlistItem(nil), wishlist.Items...)
	return &found, nil
}

func (w *MemoryWishlists) Save(ctx context.Context, userID primitive.ObjectID, items []models.WishlistItem) error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	wishlist, ok := w.store.wishlists[userID]
	if !ok {
		wishlist = models.Wishlist{ID: primitive.NewObjectID(), UserID: userID}
	}
	wishlist.Items = append([]models.WishlistItem(nil), items...)
	wishlist.UpdatedAt = time.Now()
	w.store.wishlists[userID] = wishlist
	return nil
}

// ----- orders -----

type MemoryOrders struct {
	store *MemoryStore
	// FailCreate makes the next Create call fail; lets tests exercise
	// the persist-after-settlement path.
	FailCreate error
	// FailFind makes the next single-order lookup fail, standing in for
	// a transient database error.
	FailFind error
}

func NewMemoryOrders(store *MemoryStore) *MemoryOrders {
	return &MemoryOrders{store: store}
}

func (o *MemoryOrders) Create(ctx context.Context, order *models.Order) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	if o.FailCreate != nil {
		err := o.FailCreate
		o.FailCreate = nil
		return err
	}
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	o.store.orders = append(o.store.orders, *order)
	return nil
}

func (o *MemoryOrders) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return o.findOne(func(order models.Order) bool { return order.ID == id })
}

func (o *MemoryOrders) FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error) {
	return o.findOne(func(order models.Order) bool {
		return transactionID != "" && order.Payment.Transaction.ID == transactionID
	})
}

func (o *MemoryOrders) FindByRequestID(ctx context.Context, requestID string) (*models.Order, error) {
	return o.findOne(func(order models.Order) bool {
		return requestID != "" && order.RequestID == requestID
	})
}

func (o *MemoryOrders) findOne(match func(models.Order) bool) (*models.Order, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()
	if o.FailFind != nil {
		err := o.FailFind
		o.FailFind = nil
		return nil, err
	}
	for _, order := range o.store.orders {
		if match(order) {
			found := order
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (o *MemoryOrders) FindByBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.Order, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()
	var orders []models.Order
	for i := len(o.store.orders) - 1; i >= 0; i-- {
		if o.store.orders[i].Buyer == buyer {
			orders = append(orders, o.store.orders[i])
		}
	}
	return orders, nil
}

func (o *MemoryOrders) FindAll(ctx context.Context) ([]models.Order, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()
	orders := make([]models.Order, 0, len(o.store.orders))
	for i := len(o.store.orders) - 1; i >= 0; i-- {
		orders = append(orders, o.store.orders[i])
	}
	return orders, nil
}

func (o *MemoryOrders) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	for i := range o.store.orders {
		if o.store.orders[i].ID == id {
			o.store.orders[i].Status = status
			updated := o.store.orders[i]
			return &updated, nil
		}
	}
	return nil, ErrNotFound
}
