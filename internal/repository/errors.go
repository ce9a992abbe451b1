package repository

import "errors"

var (
	ErrNotFound     = errors.New("resourсe not found")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrInvalidInput = errors.New("invalid input data")
)
