package application

import "errors"

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrUnknownProduct is returned when an operation needs a product the working set does not hold.
	ErrUnknownProduct = errors.New("product is not in the working set")
	// ErrNotConfirmed is returned when the operator declines a deletion.
	ErrNotConfirmed = errors.New("deletion not confirmed")
	// ErrReconcile marks a mutation the remote store accepted but whose reload failed.
	ErrReconcile = errors.New("mutation accepted but reload failed")
)
