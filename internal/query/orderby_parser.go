package query

import (
	"encoding/json"
	"strings"
)

// Direction is the sort direction of an $orderby item.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// OrderByItem represents a single orderby clause
type OrderByItem struct {
	Property  string
	Direction Direction
}

// MarshalJSON renders the item as a single-entry object, {"Rating":"asc"}.
func (o OrderByItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Direction{o.Property: o.Direction})
}

// parseOrderBy parses the $orderby query option. The direction defaults to
// ascending and source order is preserved.
func parseOrderBy(value string) ([]OrderByItem, error) {
	parts, err := splitList(value, ErrInvalidOrderBy)
	if err != nil {
		return nil, err
	}
	result := make([]OrderByItem, 0, len(parts))

	for _, part := range parts {
		tokens := strings.Fields(part)
		if len(tokens) > 2 || !IsPath(tokens[0], false) {
			return nil, ErrInvalidOrderBy
		}

		item := OrderByItem{
			Property:  tokens[0],
			Direction: Ascending,
		}

		if len(tokens) == 2 {
			switch direction := Direction(strings.ToLower(tokens[1])); direction {
			case Ascending, Descending:
				item.Direction = direction
			default:
				return nil, ErrInvalidOrderBy
			}
		}

		result = append(result, item)
	}

	return result, nil
}
