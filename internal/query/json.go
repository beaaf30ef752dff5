package query

import (
	"encoding/json"
	"time"

	"github.com/nlstn/go-odata-query/internal/edm"
)

// MarshalJSON renders {"type":"eq","left":...,"right":...}.
func (e *BinaryExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  NodeKind `json:"type"`
		Left  ASTNode  `json:"left"`
		Right ASTNode  `json:"right"`
	}{e.Kind(), e.Left, e.Right})
}

// MarshalJSON renders {"type":"functioncall","func":"substring","args":[...]}.
func (e *FunctionCallExpr) MarshalJSON() ([]byte, error) {
	args := e.Args
	if args == nil {
		args = []ASTNode{}
	}
	return json.Marshal(struct {
		Type NodeKind  `json:"type"`
		Func string    `json:"func"`
		Args []ASTNode `json:"args"`
	}{KindFunctionCall, e.Function, args})
}

// MarshalJSON renders {"type":"property","name":"User/Name"}.
func (e *PropertyExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type NodeKind `json:"type"`
		Name string   `json:"name"`
	}{KindProperty, e.Name})
}

// MarshalJSON renders {"type":"literal","value":...}. Date/time values use
// their literal body text.
func (e *LiteralExpr) MarshalJSON() ([]byte, error) {
	value := e.Value
	if t, ok := value.(time.Time); ok {
		if e.Type == edm.TypeDateTime {
			value = edm.FormatDateTime(t)
		} else {
			value = edm.FormatDateTimeOffset(t)
		}
	}
	return json.Marshal(struct {
		Type  NodeKind    `json:"type"`
		Value interface{} `json:"value"`
	}{KindLiteral, value})
}

// MarshalJSON renders the result as an object keyed by option name, with an
// "error" key when parsing failed.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Top         *int64        `json:"$top,omitempty"`
		Skip        *int64        `json:"$skip,omitempty"`
		Select      []string      `json:"$select,omitempty"`
		Expand      []string      `json:"$expand,omitempty"`
		OrderBy     []OrderByItem `json:"$orderby,omitempty"`
		InlineCount InlineCount   `json:"$inlinecount,omitempty"`
		Format      string        `json:"$format,omitempty"`
		Filter      ASTNode       `json:"$filter,omitempty"`
		Error       string        `json:"error,omitempty"`
	}{r.Top, r.Skip, r.Select, r.Expand, r.OrderBy, r.InlineCount, r.Format, r.Filter, r.Error})
}
