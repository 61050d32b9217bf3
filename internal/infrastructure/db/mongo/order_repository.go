package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

type OrderRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{db: db, coll: db.Collection(collectionOrders)}
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

// orderDocument stores the total as Decimal128 so it is never rounded
// through a float.
type orderDocument struct {
	ID          int64                `bson:"_id"`
	Rev         int64                `bson:"rev"`
	UserID      int64                `bson:"user_id"`
	TotalAmount primitive.Decimal128 `bson:"total_amount"`
	CreatedAt   time.Time            `bson:"created_at"`
}

func toOrderDocument(o *domain.Order, rev int64) (orderDocument, error) {
	amount, err := primitive.ParseDecimal128(o.TotalAmount.StringFixed(domain.AmountScale))
	if err != nil {
		return orderDocument{}, fmt.Errorf("encode total amount: %w", err)
	}
	return orderDocument{
		ID:          o.ID,
		Rev:         rev,
		UserID:      o.UserID,
		TotalAmount: amount,
		CreatedAt:   o.CreatedAt.UTC(),
	}, nil
}

func (d orderDocument) toDomain() (*domain.Order, error) {
	amount, err := decimal.NewFromString(d.TotalAmount.String())
	if err != nil {
		return nil, fmt.Errorf("decode total amount of order %d: %w", d.ID, err)
	}
	return &domain.Order{
		ID:          d.ID,
		UserID:      d.UserID,
		TotalAmount: amount,
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}

func (r *OrderRepository) List(ctx context.Context, filter ports.OwnerFilter) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, ownerFilter(filter.UserID), sortByID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var docs []orderDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}

func (r *OrderRepository) find(ctx context.Context, id int64) (*orderDocument, error) {
	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &doc, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionOrders)
	if err != nil {
		return nil, err
	}

	created := *order
	created.ID = id
	doc, err := toOrderDocument(&created, 1)
	if err != nil {
		return nil, err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return &created, nil
}

func (r *OrderRepository) Update(ctx context.Context, id int64, fn ports.OrderMutation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		doc, err := r.find(ctx, id)
		if err != nil {
			return err
		}
		current, err := doc.toDomain()
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		next.ID = id

		replacement, err := toOrderDocument(next, doc.Rev+1)
		if err != nil {
			return err
		}
		err = replaceRevision(ctx, r.coll, id, doc.Rev, replacement)
		if errors.Is(err, errConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return nil
	}
	return fmt.Errorf("update order %d: %w", id, errConflict)
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
