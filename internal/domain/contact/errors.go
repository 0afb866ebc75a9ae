package contact

import "errors"

var (
	ErrNotFound   = errors.New("contact not found")
	ErrConflict   = errors.New("email already exists")
	ErrValidation = errors.New("invalid contact")
)
