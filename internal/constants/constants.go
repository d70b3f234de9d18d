package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Configuration locations.
const (
	// ConfigDirName is created under the user's home directory.
	ConfigDirName = ".opencorp"

	// ConfigFileName is the base name of the CLI config file.
	ConfigFileName = "config"

	// ConfigFileType is the viper config type.
	ConfigFileType = "yml"

	// EnvPrefix is the prefix of environment variables read by the CLI.
	EnvPrefix = "OPENCORP"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits. Retries are off unless a caller sets RetryMax.
const (
	// DefaultRetryWaitMin is the minimum wait between opted-in retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between opted-in retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Concurrency limits.
const (
	// DefaultConcurrencyLimit bounds parallel page fetches.
	DefaultConcurrencyLimit = 3

	// MaxConcurrencyLimit caps user-supplied concurrency.
	MaxConcurrencyLimit = 16
)

// HTTP client identification.
const (
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "opencorp-go/1.0"

	// RequestIDHeader carries the per-call request ID.
	RequestIDHeader = "X-Request-Id"
)

// Cache settings.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long fetched pages stay cached.
	DefaultCacheTTL = 10 * time.Minute

	// DefaultNATSBucket is the KV bucket used by the NATS cache.
	DefaultNATSBucket = "opencorp_pages"
)

// Output formats.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// Display limits.
const (
	// CellDisplayLength truncates long table cells.
	CellDisplayLength = 48

	// BodyPreviewLength limits raw bodies printed in table mode.
	BodyPreviewLength = 2000
)
