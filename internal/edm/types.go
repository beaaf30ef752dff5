package edm

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TypeName is the EDM primitive type carried by a literal.
type TypeName string

const (
	TypeString         TypeName = "Edm.String"
	TypeInt64          TypeName = "Edm.Int64"
	TypeDecimal        TypeName = "Edm.Decimal"
	TypeBoolean        TypeName = "Edm.Boolean"
	TypeDateTime       TypeName = "Edm.DateTime"
	TypeDateTimeOffset TypeName = "Edm.DateTimeOffset"
	TypeGuid           TypeName = "Edm.Guid"
	TypeNull           TypeName = "Edm.Null"
)

func (t TypeName) String() string { return string(t) }

// FromGoValue infers the EDM type of a literal value. time.Time maps to
// Edm.DateTimeOffset because a Go time always carries a location.
func FromGoValue(value interface{}) (TypeName, error) {
	if value == nil {
		return TypeNull, nil
	}

	switch value.(type) {
	case string:
		return TypeString, nil
	case bool:
		return TypeBoolean, nil
	case time.Time:
		return TypeDateTimeOffset, nil
	case uuid.UUID:
		return TypeGuid, nil
	case decimal.Decimal:
		return TypeDecimal, nil
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return TypeInt64, nil
	case reflect.Float32, reflect.Float64:
		return TypeDecimal, nil
	default:
		return "", fmt.Errorf("unsupported Go type for literal: %T", value)
	}
}
