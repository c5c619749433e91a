package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for CLI configuration
var (
	ErrConfigNotFound     = goerr.New("configuration file not found")
	ErrInvalidConfig      = goerr.New("invalid configuration")
	ErrDuplicateResource  = goerr.New("duplicate resource in schema file")
	ErrInvalidBackend     = goerr.New("invalid backend")
	ErrMissingBackendFlag = goerr.New("required backend flag is missing")
	ErrInvalidLogOption   = goerr.New("invalid logger option")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	ResourceKey   = "resource"
	BackendKey    = "backend"
	FlagKey       = "flag"
)
