package edm

import (
	"fmt"

	"github.com/google/uuid"
)

// ParseGuid parses the body of a guid literal. Only the canonical
// 8-4-4-4-12 form is accepted.
func ParseGuid(value string) (uuid.UUID, error) {
	if len(value) != 36 {
		return uuid.UUID{}, fmt.Errorf("invalid Edm.Guid value '%s'", value)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid Edm.Guid value '%s': %w", value, err)
	}
	return id, nil
}
