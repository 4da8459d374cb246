package config

import "errors"

// Configuration errors.
// These errors are returned by LoadConfigFile and Config.Validate and can be
// matched with errors.Is.
var (
	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidRoot is returned when root is neither a string nor a list of strings.
	ErrInvalidRoot = errors.New("invalid root: must be a string or a list of strings")

	// ErrNoRoot is returned when the list of roots is empty.
	ErrNoRoot = errors.New("no root specified")

	// ErrNoTagName is returned when a tag definition has an empty name.
	ErrNoTagName = errors.New("tag name is empty")

	// ErrDuplicateTag is returned when two tags share a name.
	ErrDuplicateTag = errors.New("duplicate tag name")

	// ErrEmptyRegex is returned when a tag definition has no regex.
	ErrEmptyRegex = errors.New("tag regex is empty")

	// ErrNegativeLimit is returned when warn.limit is below zero.
	ErrNegativeLimit = errors.New("invalid warn limit: must be non-negative")

	// ErrUnknownWarnTag is returned when warn.tags names a tag that is not defined.
	ErrUnknownWarnTag = errors.New("warn.tags references an undefined tag")

	// ErrInvalidFormat is returned for an unsupported report format.
	ErrInvalidFormat = errors.New("invalid format: must be text or markdown")
)
