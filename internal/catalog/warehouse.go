package catalog

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Warehouse holds the current product records of one catalog and the
// pre-update values captured by the latest price change.
type Warehouse struct {
	name string

	mu       sync.RWMutex
	products []ProductRecord
	changed  []ProductRecord
}

func newWarehouse(name string) *Warehouse {
	return &Warehouse{name: name}
}

// Name is empty for anonymous warehouses.
func (w *Warehouse) Name() string { return w.name }

// Equal compares warehouses by name.
func (w *Warehouse) Equal(other *Warehouse) bool {
	if w == other {
		return true
	}
	if w == nil || other == nil {
		return false
	}
	return w.name == other.name
}

func (w *Warehouse) IsEmpty() bool {
	return w.Len() == 0
}

func (w *Warehouse) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.products)
}

// Products returns a copy of all records in insertion order.
func (w *Warehouse) Products() []ProductRecord {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return snapshot(w.products)
}

func (w *Warehouse) AddProduct(id uuid.UUID, name string, category *Category, price decimal.NullDecimal) (ProductRecord, error) {
	p, err := NewProductRecord(id, name, category, price)
	if err != nil {
		return ProductRecord{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.indexOf(p.id) >= 0 {
		return ProductRecord{}, fmt.Errorf("%w: %s", ErrDuplicateIdentity, p.id)
	}

	w.products = append(w.products, p)
	return p, nil
}

func (w *Warehouse) ProductByID(id uuid.UUID) (ProductRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	i := w.indexOf(id)
	if i < 0 {
		return ProductRecord{}, false
	}
	return w.products[i], true
}

// UpdateProductPrice replaces the product with a revision at the new price.
// The replaced record becomes the only entry of ChangedProducts.
func (w *Warehouse) UpdateProductPrice(id uuid.UUID, price decimal.Decimal) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated := make([]ProductRecord, len(w.products))
	var changed []ProductRecord
	for i, p := range w.products {
		if p.id == id {
			changed = append(changed, p)
			p = p.WithPrice(price)
		}
		updated[i] = p
	}

	w.products = updated
	w.changed = changed
	return nil
}

func (w *Warehouse) ChangedProducts() []ProductRecord {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return snapshot(w.changed)
}

// ProductsGroupedByCategory partitions the records by category. Categories
// without products are absent.
func (w *Warehouse) ProductsGroupedByCategory() map[*Category][]ProductRecord {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[*Category][]ProductRecord)
	for _, p := range w.products {
		out[p.category] = append(out[p.category], p)
	}
	return out
}

func (w *Warehouse) ProductsBy(category *Category) []ProductRecord {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]ProductRecord, 0)
	for _, p := range w.products {
		if p.category == category {
			out = append(out, p)
		}
	}
	return out
}

// Reset drops all records and the change log.
func (w *Warehouse) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.products = nil
	w.changed = nil
}

func (w *Warehouse) indexOf(id uuid.UUID) int {
	for i, p := range w.products {
		if p.id == id {
			return i
		}
	}
	return -1
}

func snapshot(ps []ProductRecord) []ProductRecord {
	out := make([]ProductRecord, len(ps))
	copy(out, ps)
	return out
}
