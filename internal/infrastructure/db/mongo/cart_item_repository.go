package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

type CartItemRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewCartItemRepository(db *mongo.Database) *CartItemRepository {
	return &CartItemRepository{db: db, coll: db.Collection(collectionCartItems)}
}

var _ ports.CartItemRepository = (*CartItemRepository)(nil)

type cartItemDocument struct {
	ID        int64 `bson:"_id"`
	Rev       int64 `bson:"rev"`
	UserID    int64 `bson:"user_id"`
	ProductID int64 `bson:"product_id"`
	Quantity  int   `bson:"quantity"`
}

func toCartItemDocument(it *domain.CartItem, rev int64) cartItemDocument {
	return cartItemDocument{ID: it.ID, Rev: rev, UserID: it.UserID, ProductID: it.ProductID, Quantity: it.Quantity}
}

func (d cartItemDocument) toDomain() *domain.CartItem {
	return &domain.CartItem{ID: d.ID, UserID: d.UserID, ProductID: d.ProductID, Quantity: d.Quantity}
}

func (r *CartItemRepository) List(ctx context.Context, filter ports.OwnerFilter) ([]*domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, ownerFilter(filter.UserID), sortByID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	var docs []cartItemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	items := make([]*domain.CartItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, nil
}

func (r *CartItemRepository) FindByID(ctx context.Context, id int64) (*domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CartItemRepository) find(ctx context.Context, id int64) (*cartItemDocument, error) {
	var doc cartItemDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	return &doc, nil
}

func (r *CartItemRepository) Create(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionCartItems)
	if err != nil {
		return nil, err
	}

	created := *item
	created.ID = id
	if _, err := r.coll.InsertOne(ctx, toCartItemDocument(&created, 1)); err != nil {
		return nil, fmt.Errorf("insert cart item: %w", err)
	}
	return &created, nil
}

func (r *CartItemRepository) Update(ctx context.Context, id int64, fn ports.CartItemMutation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		doc, err := r.find(ctx, id)
		if err != nil {
			return err
		}

		next, err := fn(doc.toDomain())
		if err != nil {
			return err
		}
		next.ID = id

		err = replaceRevision(ctx, r.coll, id, doc.Rev, toCartItemDocument(next, doc.Rev+1))
		if errors.Is(err, errConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("update cart item: %w", err)
		}
		return nil
	}
	return fmt.Errorf("update cart item %d: %w", id, errConflict)
}

func (r *CartItemRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}
