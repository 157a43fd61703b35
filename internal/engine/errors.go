package engine

import (
	"fmt"

	"bloodlink/pkg/types"
)

func errRequired(field string) error {
	return fmt.Errorf("%w: %s is required", types.ErrInvalidInput, field)
}

func errInvalid(field string, value any) error {
	return fmt.Errorf("%w: %s %v", types.ErrInvalidInput, field, value)
}
