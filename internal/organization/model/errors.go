package model

import "errors"

var (
	// ErrOrganizationNotFound indicates that the organization does not exist.
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrSettingsNotFound indicates that no AI settings row exists for the organization.
	ErrSettingsNotFound = errors.New("ai settings not found")
)
