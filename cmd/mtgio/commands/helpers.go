package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/mtgio/internal/constants"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
	"github.com/fivetwenty-io/mtgio/pkg/mtgclient"
)

// Output formats.
const (
	OutputFormatJSON  = constants.FormatJSON
	OutputFormatYAML  = constants.FormatYAML
	OutputFormatTable = constants.FormatTable

	defaultYAMLIndent = 2
)

// Common static errors used throughout the commands package.
var (
	ErrSetCodeArgument = errors.New("set code argument is required")
	ErrCardIDArgument  = errors.New("card id argument is required")
)

// StandardJSONRenderer writes data as indented JSON.
func StandardJSONRenderer[T any](w io.Writer, data T) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML.
func StandardYAMLRenderer[T any](w io.Writer, data T) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// OutputFormat returns the validated --output value.
func OutputFormat() (string, error) {
	output := strings.ToLower(viper.GetString("output"))

	switch output {
	case "", OutputFormatTable:
		return OutputFormatTable, nil
	case OutputFormatJSON, OutputFormatYAML:
		return output, nil
	default:
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidOutputFormat, output)
	}
}

// renderResponse writes resp in the selected format. Table output is
// delegated to renderTable and followed by the metadata footer.
func renderResponse[T any](w io.Writer, resp *mtg.Response[T], renderTable func(io.Writer, T) error) error {
	output, err := OutputFormat()
	if err != nil {
		return err
	}

	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(w, resp)
	case OutputFormatYAML:
		return StandardYAMLRenderer(w, resp)
	default:
		err := renderTable(w, resp.Content)
		if err != nil {
			return err
		}

		return renderMetaFooter(w, resp.Meta)
	}
}

// newTable creates a table with the given header.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	cells := make([]any, len(header))
	for i, cell := range header {
		cells[i] = cell
	}

	table := tablewriter.NewWriter(w)
	table.Header(cells...)

	return table
}

func renderTable(table *tablewriter.Table) error {
	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderMetaFooter prints the counters carried by the response headers.
func renderMetaFooter(w io.Writer, meta mtg.Meta) error {
	if meta == (mtg.Meta{}) {
		return nil
	}

	parts := []string{
		"page size: " + formatCounter(meta.PageSize),
		"count: " + formatCounter(meta.Count),
		"total: " + formatCounter(meta.TotalCount),
		"rate limit: " + formatCounter(meta.RatelimitRemaining) + "/" + formatCounter(meta.RatelimitLimit) + " remaining",
	}

	_, err := fmt.Fprintf(w, "\n%s\n", strings.Join(parts, ", "))
	if err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	return nil
}

func formatCounter(value *uint32) string {
	if value == nil {
		return constants.NotAvailable
	}

	return strconv.FormatUint(uint64(*value), 10)
}

func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

// titleCase capitalises each word, e.g. "supertypes" becomes "Supertypes".
func titleCase(value string) string {
	return cases.Title(language.English).String(value)
}

// filterClause is a parsed --filter flag.
type filterClause struct {
	Key   string
	Value string
}

// parseFilterFlags splits each key=value flag at the first "=". Values may
// contain "," (all of) and "|" (any of) and are passed through untouched.
func parseFilterFlags(flags []string) ([]filterClause, error) {
	clauses := make([]filterClause, 0, len(flags))

	for _, flag := range flags {
		key, value, ok := strings.Cut(flag, mtg.SeparatorKeyValue)

		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidFilterFlag, flag)
		}

		clauses = append(clauses, filterClause{Key: key, Value: value})
	}

	return clauses, nil
}

// buildSetFilter combines --name, --block and --filter into one filter.
func buildSetFilter(name, block string, clauses []filterClause) mtg.SetFilter {
	builder := mtg.NewSetFilterBuilder()

	if name != "" {
		builder.Name(name)
	}

	if block != "" {
		builder.Block(block)
	}

	for _, clause := range clauses {
		builder.Custom(clause.Key, clause.Value)
	}

	return builder.Build()
}

// requireKeys trims args and fails with errMissing when none are given or
// any is blank.
func requireKeys(args []string, errMissing error) ([]string, error) {
	if len(args) == 0 {
		return nil, errMissing
	}

	keys := make([]string, len(args))

	for i, arg := range args {
		keys[i] = strings.TrimSpace(arg)
		if keys[i] == "" {
			return nil, errMissing
		}
	}

	return keys, nil
}

// collectBatch runs operations concurrently and gathers the content of the
// successful ones in order.
func collectBatch[T any](ctx context.Context, client mtg.Client, operations []mtg.BatchOperation) ([]T, error) {
	results := mtg.NewBatchExecutor(client, mtg.DefaultBatchConcurrency).Execute(ctx, operations)

	items := make([]T, 0, len(results))

	for _, result := range results {
		if resp, ok := result.Data.(*mtg.Response[T]); ok && result.Success {
			items = append(items, resp.Content)
		}
	}

	return items, mtg.BatchErrors(results)
}

// buildClientConfig translates the CLI settings into a client configuration.
func buildClientConfig(logger mtg.Logger) (*mtg.Config, error) {
	config := &mtg.Config{
		APIEndpoint:       viper.GetString("api"),
		RetryMax:          viper.GetInt("retry-max"),
		RequestsPerSecond: viper.GetInt("rate-limit"),
		Debug:             viper.GetBool("verbose"),
		Logger:            logger,
	}

	cacheType := mtg.CacheType(strings.ToLower(viper.GetString("cache.type")))
	if cacheType == "" || cacheType == mtg.CacheTypeNone {
		return config, nil
	}

	builder := mtg.NewCacheBuilder().WithType(cacheType)

	ttl := viper.GetDuration("cache.ttl")
	if ttl > 0 {
		options := mtg.DefaultCacheOptions()
		options.TTL = ttl

		builder.WithOptions(options)

		config.CacheTTL = ttl
	}

	switch cacheType {
	case mtg.CacheTypeMemory:
		builder.WithMemoryConfig(mtg.DefaultCacheSize)
	case mtg.CacheTypeNATS:
		builder.WithNATSConfig(&mtg.NATSKVConfig{
			URL:    viper.GetString("cache.nats.url"),
			Bucket: viper.GetString("cache.nats.bucket"),
			TTL:    ttl,
		})
	default:
		return nil, fmt.Errorf("%w: cache.type %q", constants.ErrInvalidConfigValue, cacheType)
	}

	config.Cache = builder.Config()

	return config, nil
}

// createClient builds an API client from the CLI settings. The returned
// function releases it.
func createClient(ctx context.Context) (mtg.Client, func(), error) {
	logger := NewZerologLogger(NewCLILogger(os.Stderr, viper.GetBool("no-color"), viper.GetBool("verbose")))

	config, err := buildClientConfig(logger)
	if err != nil {
		return nil, nil, err
	}

	client, err := mtgclient.New(ctx, config)
	if err != nil {
		return nil, nil, fmt.Errorf("creating client: %w", err)
	}

	closeFn := func() {
		if closer, ok := client.(io.Closer); ok {
			_ = closer.Close()
		}
	}

	return client, closeFn, nil
}

// commandContext returns a context bounded by the command's lifetime.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

// logLevel maps --verbose onto a zerolog level.
func logLevel(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}

	return zerolog.WarnLevel
}

// DefaultTimeout bounds a whole command, retries included.
const DefaultTimeout = 2 * time.Minute
