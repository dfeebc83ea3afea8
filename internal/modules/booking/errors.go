package booking

import (
	"errors"
	"fmt"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

var ErrBookingConflict = domain.NewError(domain.KindConflict, "booking was changed by another request, retry")

// storeErr turns repository failures into domain errors. Domain errors raised
// inside a Mutate callback pass through unchanged.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return domain.NotFound("%s not found", what)
	case errors.Is(err, repository.ErrConcurrentUpdate):
		return ErrBookingConflict
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("%s: %w", what, err)
}
