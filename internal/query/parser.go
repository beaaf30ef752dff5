package query

import (
	"errors"
	"log/slog"
	"net/url"
	"sort"
	"strings"
)

// Option is the name of a recognized query option.
type Option string

const (
	OptionTop         Option = "$top"
	OptionSkip        Option = "$skip"
	OptionSelect      Option = "$select"
	OptionExpand      Option = "$expand"
	OptionOrderBy     Option = "$orderby"
	OptionInlineCount Option = "$inlinecount"
	OptionFormat      Option = "$format"
	OptionFilter      Option = "$filter"
)

// Result represents the parsed options of one query string. Absent options
// keep their zero value. Error is set by the first option that failed; the
// options parsed before it are kept.
type Result struct {
	Top         *int64
	Skip        *int64
	Select      []string
	Expand      []string
	OrderBy     []OrderByItem
	InlineCount InlineCount
	Format      string
	Filter      ASTNode

	Error        string
	FailedOption Option

	err error
}

// Err returns the error behind Error, or nil.
func (r *Result) Err() error {
	return r.err
}

func (r *Result) fail(option Option, err error) {
	r.FailedOption = option
	r.err = err
	r.Error = err.Error()
}

// Config controls a parse.
type Config struct {
	// StrictArity rejects function calls whose argument count is not declared
	// in the function catalogue.
	StrictArity bool
	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

func (c *Config) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// optionParser parses one option value into result.
type optionParser func(value string, result *Result, cfg *Config) error

// optionParsers is the closed set of recognized options.
var optionParsers = map[Option]optionParser{
	OptionTop: func(value string, result *Result, _ *Config) error {
		top, err := parseTop(value)
		if err != nil {
			return err
		}
		result.Top = &top
		return nil
	},
	OptionSkip: func(value string, result *Result, _ *Config) error {
		skip, err := parseSkip(value)
		if err != nil {
			return err
		}
		result.Skip = &skip
		return nil
	},
	OptionSelect: func(value string, result *Result, _ *Config) error {
		items, err := parseSelect(value)
		if err != nil {
			return err
		}
		result.Select = items
		return nil
	},
	OptionExpand: func(value string, result *Result, _ *Config) error {
		items, err := parseExpand(value)
		if err != nil {
			return err
		}
		result.Expand = items
		return nil
	},
	OptionOrderBy: func(value string, result *Result, _ *Config) error {
		items, err := parseOrderBy(value)
		if err != nil {
			return err
		}
		result.OrderBy = items
		return nil
	},
	OptionInlineCount: func(value string, result *Result, _ *Config) error {
		count, err := parseInlineCount(value)
		if err != nil {
			return err
		}
		result.InlineCount = count
		return nil
	},
	OptionFormat: func(value string, result *Result, _ *Config) error {
		format, err := parseFormat(value)
		if err != nil {
			return err
		}
		result.Format = format
		return nil
	},
	OptionFilter: parseFilterOption,
}

// Options returns the recognized option names in sorted order.
func Options() []Option {
	options := make([]Option, 0, len(optionParsers))
	for option := range optionParsers {
		options = append(options, option)
	}
	sort.Slice(options, func(i, j int) bool { return options[i] < options[j] })
	return options
}

// IsOption reports whether key names a recognized option.
func IsOption(key string) bool {
	_, ok := optionParsers[Option(key)]
	return ok
}

// parseFilterOption parses the $filter query option
func parseFilterOption(value string, result *Result, cfg *Config) error {
	node, err := ParseFilter(value)
	if err != nil {
		return err
	}
	if cfg != nil && cfg.StrictArity {
		if err := CheckArity(node); err != nil {
			return &SyntaxError{Pos: -1, Msg: err.Error(), Err: err}
		}
	}
	result.Filter = node
	return nil
}

// Pair is one key=value segment of a query string.
type Pair struct {
	Key   string
	Value string
}

// SplitRawQuery splits a query string on '&' into ordered pairs. A segment
// without '=' has an empty value; empty segments are dropped.
func SplitRawQuery(rawQuery string) []Pair {
	if rawQuery == "" {
		return nil
	}
	segments := strings.Split(rawQuery, "&")
	pairs := make([]Pair, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs
}

// DecodePairs URL-decodes the keys and values of pairs.
func DecodePairs(pairs []Pair) ([]Pair, error) {
	decoded := make([]Pair, len(pairs))
	for i, pair := range pairs {
		key, err := url.QueryUnescape(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(pair.Value)
		if err != nil {
			return nil, err
		}
		decoded[i] = Pair{Key: key, Value: value}
	}
	return decoded, nil
}

// ParseQuery parses an already decoded query string.
func ParseQuery(rawQuery string, cfg *Config) (*Result, error) {
	return ParsePairs(SplitRawQuery(rawQuery), cfg)
}

// ParseEncodedQuery parses a URL-encoded query string. It splits on '&'
// before decoding so encoded separators inside values survive.
func ParseEncodedQuery(rawQuery string, cfg *Config) (*Result, error) {
	pairs, err := DecodePairs(SplitRawQuery(rawQuery))
	if err != nil {
		cfg.logger().Debug("query string could not be decoded", "error", err)
		result := &Result{}
		result.fail("", ErrInvalidQuery)
		return result, nil
	}
	return ParsePairs(pairs, cfg)
}

// ParsePairs dispatches each pair to its option parser. Unrecognized keys
// are skipped. Processing stops at the first failure: option validation
// failures are reported only through Result.Error, while $filter syntax
// errors are additionally returned as a *SyntaxError.
func ParsePairs(pairs []Pair, cfg *Config) (*Result, error) {
	logger := cfg.logger()
	result := &Result{}

	for _, pair := range pairs {
		option := Option(pair.Key)
		parse, ok := optionParsers[option]
		if !ok {
			logger.Debug("ignoring unrecognized query option", "key", pair.Key)
			continue
		}

		err := parse(pair.Value, result, cfg)
		if err == nil {
			continue
		}

		var syntaxErr *SyntaxError
		if errors.As(err, &syntaxErr) {
			logger.Debug("invalid $filter expression", "error", syntaxErr.Msg, "position", syntaxErr.Pos)
			result.fail(option, syntaxErr)
			result.Error = ErrInvalidFilter.Error() + ": " + syntaxErr.Error()
			return result, syntaxErr
		}

		logger.Debug("invalid query option", "option", option, "error", err)
		result.fail(option, err)
		return result, nil
	}

	return result, nil
}
