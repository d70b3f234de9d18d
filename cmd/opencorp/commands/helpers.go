package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/fivetwenty-io/opencorp/internal/logging"
	"github.com/fivetwenty-io/opencorp/pkg/occlient"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration keys shared by flags, the config file and OPENCORP_* variables.
const (
	KeyConfig     = "config"
	KeyAPIURL     = "api_url"
	KeyToken      = "token"
	KeyAPIVersion = "api_version"
	KeyOutput     = "output"
	KeyRetries    = "retries"
	KeyVerbose    = "verbose"
	KeyCache      = "cache"
	KeyNATSURL    = "nats_url"
)

const (
	NotAvailable = "N/A"
	Masked       = "***"
)

// preferredColumns are shown first, in this order, when records carry them.
var preferredColumns = []string{
	"name",
	"code",
	"company_number",
	"jurisdiction_code",
	"position",
	"current_status",
	"incorporation_date",
	"opencorporates_url",
}

// CreateClient builds a client from the merged flag, file and environment
// configuration. cache may be nil.
func CreateClient(cache opencorp.Cache) (opencorp.Client, error) {
	config := &opencorp.Config{
		BaseURL:     viper.GetString(KeyAPIURL),
		APIVersion:  viper.GetString(KeyAPIVersion),
		APIToken:    viper.GetString(KeyToken),
		HTTPTimeout: constants.DefaultHTTPTimeout,
		RetryMax:    viper.GetInt(KeyRetries),
		Cache:       cache,
	}

	if viper.GetBool(KeyVerbose) {
		config.Debug = true
		config.Logger = logging.NewConsoleLogger(os.Stderr, true)
	}

	client, err := occlient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// newCache returns nil for "none" or an empty kind.
func newCache(kind string) (opencorp.Cache, error) {
	switch opencorp.CacheType(kind) {
	case "", opencorp.CacheTypeNone:
		return nil, nil
	case opencorp.CacheTypeMemory:
		return opencorp.NewCacheFromConfig(opencorp.DefaultCacheConfig())
	case opencorp.CacheTypeNATS:
		natsURL := viper.GetString(KeyNATSURL)
		if natsURL == "" {
			return nil, constants.ErrNATSURLNotConfigured
		}

		return opencorp.NewCacheFromConfig(&opencorp.CacheConfig{
			Type: opencorp.CacheTypeNATS,
			NATS: &opencorp.NATSKVConfig{
				URL:    natsURL,
				Bucket: constants.DefaultNATSBucket,
				TTL:    constants.DefaultCacheTTL,
			},
		})
	default:
		return nil, fmt.Errorf("%w: %s", opencorp.ErrUnsupportedCacheType, kind)
	}
}

func closeCache(cache opencorp.Cache) {
	if closer, ok := cache.(io.Closer); ok {
		_ = closer.Close()
	}
}

// parseParams turns repeated key=value flags into ordered query parameters.
func parseParams(pairs []string) (*opencorp.Params, error) {
	params := opencorp.NewParams()

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidParam, pair)
		}

		params.Set(key, value)
	}

	return params, nil
}

func outputFormat() (string, error) {
	format := viper.GetString(KeyOutput)

	switch format {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

// encode writes value as JSON or YAML.
func encode(w io.Writer, format string, value interface{}) error {
	if format == constants.FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(value)
	}

	encoder := yaml.NewEncoder(w)
	if err := encoder.Encode(value); err != nil {
		return err
	}

	return encoder.Close()
}

// renderRecords prints one row per record.
func renderRecords(w io.Writer, records []opencorp.Record) error {
	columns := recordColumns(records)

	table := tablewriter.NewWriter(w)
	table.Header(toAny(columns)...)

	for _, record := range records {
		row := make([]interface{}, len(columns))
		for i, column := range columns {
			row[i] = cell(record[column])
		}

		_ = table.Append(row...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderRecord prints one record as property/value rows.
func renderRecord(w io.Writer, record opencorp.Record) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	for _, key := range slices.Sorted(maps.Keys(record)) {
		_ = table.Append(key, cell(record[key]))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func recordColumns(records []opencorp.Record) []string {
	var columns []string

	for _, column := range preferredColumns {
		for _, record := range records {
			if _, ok := record[column]; ok {
				columns = append(columns, column)

				break
			}
		}
	}

	if len(columns) > 0 || len(records) == 0 {
		return columns
	}

	for _, key := range slices.Sorted(maps.Keys(records[0])) {
		if isScalar(records[0][key]) {
			columns = append(columns, key)
		}
	}

	return columns
}

func isScalar(value interface{}) bool {
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		return false
	default:
		return true
	}
}

func cell(value interface{}) string {
	var text string

	switch typed := value.(type) {
	case nil:
		return NotAvailable
	case string:
		text = typed
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(typed)
		if err != nil {
			return NotAvailable
		}

		text = string(data)
	default:
		text = fmt.Sprint(typed)
	}

	return truncate(text, constants.CellDisplayLength)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return string(runes[:limit-3]) + "..."
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, value := range values {
		out[i] = value
	}

	return out
}

func joinTerm(words []string) string {
	return strings.Join(words, " ")
}
