package constants

import "errors"

// Command-line errors.
var (
	ErrInvalidParam          = errors.New("invalid --param, expected key=value")
	ErrUnknownConfigKey      = errors.New("unknown configuration key")
	ErrInvalidConfigValue    = errors.New("invalid configuration value")
	ErrTokenRequired         = errors.New("an API token is required")
	ErrInvalidOutputFormat   = errors.New("invalid output format")
	ErrInvalidConcurrency    = errors.New("concurrency must be between 1 and 16")
	ErrNATSURLNotConfigured  = errors.New("nats cache selected but no nats_url configured")
	ErrPageAndAllExclusive   = errors.New("--page and --all cannot be used together")
	ErrNonInteractiveNoToken = errors.New("no token given and stdin is not a terminal")
)

// ErrNotFound is returned by the CLI when a fetch or match finds nothing.
var ErrNotFound = errors.New("not found")
