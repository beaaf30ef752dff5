package query

import (
	"strconv"
	"strings"
)

// InlineCount is the value of $inlinecount.
type InlineCount string

const (
	InlineCountAllPages InlineCount = "allpages"
	InlineCountNone     InlineCount = "none"
)

// parseInteger parses an optionally negative run of digits. Anything else,
// including values out of int64 range, is reported as invalid.
func parseInteger(value string, invalid error) (int64, error) {
	digits := strings.TrimPrefix(value, "-")
	if digits == "" {
		return 0, invalid
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return 0, invalid
		}
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, invalid
	}
	return n, nil
}

// parseTop parses the $top query option
func parseTop(value string) (int64, error) {
	return parseInteger(value, ErrInvalidTop)
}

// parseSkip parses the $skip query option
func parseSkip(value string) (int64, error) {
	return parseInteger(value, ErrInvalidSkip)
}

// splitList splits a comma-separated option value into trimmed items. An
// empty value or an empty item is invalid.
func splitList(value string, invalid error) ([]string, error) {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			return nil, invalid
		}
		result = append(result, trimmed)
	}
	return result, nil
}

// parseSelect parses the $select query option. Items are paths, "*" or
// namespace-qualified wildcards such as "DemoService.*".
func parseSelect(value string) ([]string, error) {
	items, err := splitList(value, ErrInvalidSelect)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if !IsPath(item, true) {
			return nil, ErrInvalidSelect
		}
	}
	return items, nil
}

// parseExpand parses the $expand query option
func parseExpand(value string) ([]string, error) {
	items, err := splitList(value, ErrInvalidExpand)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if !IsPath(item, false) {
			return nil, ErrInvalidExpand
		}
	}
	return items, nil
}

// parseInlineCount parses the $inlinecount query option
func parseInlineCount(value string) (InlineCount, error) {
	switch InlineCount(value) {
	case InlineCountAllPages, InlineCountNone:
		return InlineCount(value), nil
	}
	return "", ErrInvalidInlineCount
}

// parseFormat parses the $format query option: a short name such as "json"
// or a MIME type such as "application/atom+xml", optionally with parameters.
func parseFormat(value string) (string, error) {
	if value == "" {
		return "", ErrInvalidFormat
	}
	for i := 0; i < len(value); i++ {
		if !isFormatChar(value[i]) {
			return "", ErrInvalidFormat
		}
	}
	return value, nil
}

func isFormatChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c):
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~/;=", c) >= 0
}
