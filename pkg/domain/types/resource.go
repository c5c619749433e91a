package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// Resource identifies an admin screen and its backend collection, e.g. "home-offer"
type Resource string

const (
	ResourceCategory    Resource = "category"
	ResourceCustomer    Resource = "customer"
	ResourceDeal        Resource = "deal"
	ResourceHomeOffer   Resource = "home-offer"
	ResourceProduct     Resource = "product"
	ResourceSubAdmin    Resource = "sub-admin"
	ResourceCoinSetting Resource = "coin-setting"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validate checks if the Resource name is well formed
func (r Resource) Validate() error {
	if r == "" {
		return goerr.New("resource cannot be empty")
	}
	if !idPattern.MatchString(string(r)) {
		return goerr.New("resource must be lowercase alphanumeric with hyphens", goerr.V("resource", r))
	}
	return nil
}

// String returns the string representation of Resource
func (r Resource) String() string {
	return string(r)
}

// FormMode tells whether a form creates a new record or edits an existing one
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

func (m FormMode) String() string {
	return string(m)
}
