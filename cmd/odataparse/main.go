// Command odataparse parses an OData query string and prints the result as
// JSON. It exits with status 1 when the query string is rejected.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	odata "github.com/nlstn/go-odata-query"
	"github.com/spf13/cobra"
)

// errRejected is returned when the query string parsed with an error. The
// result JSON has already been written at that point.
var errRejected = errors.New("query string rejected")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "odataparse [query]",
		Short: "Parse an OData query string and print it as JSON",
		Long: "Parse an OData query string such as '$top=10&$filter=Price gt 5' and print the\n" +
			"parsed options as JSON. Without an argument the query is read from stdin.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := cmd.Flags()
	flags.Bool("pretty", false, "indent the JSON output")
	flags.Bool("strict-arity", false, "reject function calls with an unexpected argument count")
	flags.Bool("decode", false, "treat the input as URL-encoded")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Int("cache-size", 0, "number of parse outcomes to memoize")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	rawQuery, err := readQuery(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	opts := []odata.Option{odata.WithLogger(logger), odata.WithCache(cfg.CacheSize)}
	if cfg.StrictArity {
		opts = append(opts, odata.WithStrictArity())
	}
	parser, err := odata.NewParser(opts...)
	if err != nil {
		return err
	}

	var result *odata.Result
	if cfg.Decode {
		result, _ = parser.ParseEncoded(cmd.Context(), rawQuery)
	} else {
		result, _ = parser.ParseContext(cmd.Context(), rawQuery)
	}

	if err := writeResult(cmd.OutOrStdout(), result, cfg.Pretty); err != nil {
		return err
	}
	if result.Error != "" {
		logger.Debug("query string rejected", "error", result.Error)
		return fmt.Errorf("%w: %s", errRejected, result.Error)
	}
	return nil
}

// readQuery takes the query from args, falling back to in. A leading '?' and
// the trailing newline are stripped.
func readQuery(in io.Reader, args []string) (string, error) {
	var raw string
	if len(args) > 0 {
		raw = args[0]
	} else {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		raw = strings.TrimRight(string(data), "\r\n")
	}
	return strings.TrimPrefix(raw, "?"), nil
}

func writeResult(w io.Writer, result *odata.Result, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
