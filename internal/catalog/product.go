package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRecord is one revision of a product. It is never mutated; price
// changes produce a new record carrying the same id.
type ProductRecord struct {
	id       uuid.UUID
	name     string
	category *Category
	price    decimal.Decimal
}

// NewProductRecord validates and normalizes a product. A nil id is replaced
// with a random one and an invalid price defaults to zero.
func NewProductRecord(id uuid.UUID, name string, category *Category, price decimal.NullDecimal) (ProductRecord, error) {
	if name == "" {
		return ProductRecord{}, fmt.Errorf("%w: product name can't be empty", ErrInvalidArgument)
	}
	if category == nil {
		return ProductRecord{}, fmt.Errorf("%w: category can't be nil", ErrInvalidArgument)
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	p := decimal.Zero
	if price.Valid {
		p = price.Decimal
	}

	return ProductRecord{
		id:       id,
		name:     name,
		category: category,
		price:    p,
	}, nil
}

func (p ProductRecord) ID() uuid.UUID          { return p.id }
func (p ProductRecord) Name() string           { return p.name }
func (p ProductRecord) Category() *Category    { return p.category }
func (p ProductRecord) Price() decimal.Decimal { return p.price }

// WithPrice returns a new revision of the product at the given price.
func (p ProductRecord) WithPrice(price decimal.Decimal) ProductRecord {
	p.price = price
	return p
}

// SameProduct reports whether both records are revisions of one product.
func (p ProductRecord) SameProduct(other ProductRecord) bool {
	return p.id == other.id
}
