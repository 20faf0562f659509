package market

import "errors"

var (
	// ErrNotFound indicates a referenced record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInvalidQuantity indicates a quantity field is not a finite positive decimal
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientCredits indicates a transfer exceeds the source client's fulfilled holdings
	ErrInsufficientCredits = errors.New("insufficient fulfilled credits")
)
