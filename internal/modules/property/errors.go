package property

import (
	"errors"
	"fmt"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

var ErrNotOwner = domain.Forbidden("you do not own this property")

func storeErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFound("%s not found", what)
	}
	return fmt.Errorf("%s: %w", what, err)
}
