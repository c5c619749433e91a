package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for schema validation
var (
	ErrInvalidPath      = goerr.New("invalid resource path")
	ErrNoFields         = goerr.New("schema has no fields")
	ErrInvalidFieldID   = goerr.New("invalid field ID")
	ErrDuplicateFieldID = goerr.New("duplicate field ID")
	ErrInvalidFieldType = goerr.New("invalid field type")
	ErrMissingOptions   = goerr.New("enum field requires at least one option")
	ErrInvalidImageSpec = goerr.New("invalid image spec")
	ErrUnknownRuleField = goerr.New("rule references unknown field")
)

// Context keys for error values
const (
	ResourceKey   = "resource"
	PathKey       = "path"
	FieldIDKey    = "field_id"
	FieldTypeKey  = "field_type"
	FieldIndexKey = "field_index"
	RuleKey       = "rule"
)
