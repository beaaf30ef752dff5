package query

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseOrderBy(t *testing.T) {
	tests := []struct {
		input    string
		expected []OrderByItem
	}{
		{"ReleaseDate desc, Rating", []OrderByItem{{"ReleaseDate", Descending}, {"Rating", Ascending}}},
		{"Name", []OrderByItem{{"Name", Ascending}}},
		{"Name ASC", []OrderByItem{{"Name", Ascending}}},
		{"Name DeSc", []OrderByItem{{"Name", Descending}}},
		{"Category/Name desc,Price", []OrderByItem{{"Category/Name", Descending}, {"Price", Ascending}}},
		{"  Name   desc  ", []OrderByItem{{"Name", Descending}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			items, err := parseOrderBy(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(items, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, items)
			}
		})
	}
}

func TestParseOrderByInvalid(t *testing.T) {
	for _, input := range []string{"", " ", "Name,", "Name up", "Name desc extra", "1Name", "*"} {
		t.Run(input, func(t *testing.T) {
			if _, err := parseOrderBy(input); err != ErrInvalidOrderBy {
				t.Errorf("Expected ErrInvalidOrderBy for %q, got %v", input, err)
			}
		})
	}
}

func TestOrderByItemJSON(t *testing.T) {
	data, err := json.Marshal([]OrderByItem{{"ReleaseDate", Descending}, {"Rating", Ascending}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != `[{"ReleaseDate":"desc"},{"Rating":"asc"}]` {
		t.Errorf("Unexpected JSON %s", data)
	}
}
