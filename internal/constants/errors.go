package constants

import "errors"

// Configuration errors.
var (
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrConfigKeyRequired  = errors.New("configuration key is required")
	ErrInvalidConfigValue = errors.New("invalid configuration value")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format, expected table, json or yaml")
	ErrInvalidFilterFlag   = errors.New("invalid --filter value, expected key=value")
	ErrInvalidPageSize     = errors.New("page size must be between 1 and 100")
)
