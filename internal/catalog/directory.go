package catalog

import (
	"sort"
	"sync"
)

// Directory hands out warehouses. Named warehouses are cached for the life of
// the directory; anonymous ones are not.
type Directory struct {
	mu sync.Mutex
	m  map[string]*Warehouse
}

func NewDirectory() *Directory {
	return &Directory{m: map[string]*Warehouse{}}
}

// Open returns a new, empty anonymous warehouse.
func (d *Directory) Open() *Warehouse {
	return newWarehouse("")
}

// OpenNamed returns the warehouse registered under name, creating it if
// needed. The returned warehouse is always empty: an existing one is reset.
func (d *Directory) OpenNamed(name string) *Warehouse {
	d.mu.Lock()
	w, ok := d.m[name]
	if !ok {
		w = newWarehouse(name)
		d.m[name] = w
	}
	d.mu.Unlock()

	if ok {
		w.Reset()
	}
	return w
}

// Lookup returns a previously opened warehouse without resetting it.
func (d *Directory) Lookup(name string) (*Warehouse, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.m[name]
	return w, ok
}

func (d *Directory) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]string, 0, len(d.m))
	for name := range d.m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
