package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/counter-panel/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrUnknownOrder is returned when an operation needs an order the working set does not hold.
	ErrUnknownOrder = errors.New("order is not in the working set")
	// ErrReconcile marks a mutation the remote store accepted but whose reload failed.
	ErrReconcile = errors.New("mutation accepted but reload failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidTransition) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
