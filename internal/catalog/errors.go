package catalog

import "errors"

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDuplicateIdentity = errors.New("product with that id already exists")
	ErrNotFound          = errors.New("product not found")
)
