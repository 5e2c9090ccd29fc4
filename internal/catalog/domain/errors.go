package domain

import "errors"

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrNegativePrice      = errors.New("price must not be negative")
	ErrOwnerRequired      = errors.New("owner id is required")
	ErrNotOwner           = errors.New("requesting owner does not own this entity")
	ErrCategoryCrossOwner = errors.New("category does not belong to the same owner")
)
