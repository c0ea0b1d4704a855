package catalog

import (
	"fmt"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Category groups products. There is at most one *Category per key within a
// registry, so categories compare by pointer.
type Category struct {
	key string
}

// Key returns the raw name the category was interned with.
func (c *Category) Key() string { return c.key }

// Name returns the display name: the first character upper-cased, the rest as is.
func (c *Category) Name() string {
	r, size := utf8.DecodeRuneInString(c.key)
	if size == 0 || r == utf8.RuneError {
		return c.key
	}
	return string(unicode.ToUpper(r)) + c.key[size:]
}

func (c *Category) String() string { return c.Name() }

type CategoryRegistry struct {
	mu sync.RWMutex
	m  map[string]*Category
}

func NewCategoryRegistry() *CategoryRegistry {
	return &CategoryRegistry{m: map[string]*Category{}}
}

// Intern returns the category registered under name, creating it on first use.
// Registered categories are never removed.
func (r *CategoryRegistry) Intern(name string) (*Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name can't be empty", ErrInvalidArgument)
	}

	if c, ok := r.Lookup(name); ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.m[name]; ok {
		return c, nil
	}
	c := &Category{key: name}
	r.m[name] = c
	return c, nil
}

func (r *CategoryRegistry) Lookup(name string) (*Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.m[name]
	return c, ok
}

func (r *CategoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}
