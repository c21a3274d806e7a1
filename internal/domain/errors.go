package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrCategoryNotFound = errors.New("hotel category not found")
	ErrNoMatchingRoom   = errors.New("no matching room in hotel category")
	ErrEmptySelection   = errors.New("empty room selection")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrEmptyGroup       = errors.New("empty hotel category group")
	ErrNoSelection      = errors.New("module has no selected rooms")
)
