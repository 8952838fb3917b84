package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Upstream errors
	ErrMsgUpstreamUnavailable = "upstream service unavailable"
	ErrMsgCharacterNotFound   = "character not found"

	// Catalog errors
	ErrMsgCollectibleNotFound = "collectible not found"
	ErrMsgInvalidKind         = "invalid collectible kind"

	// Registration errors
	ErrMsgCharacterExists    = "character already registered"
	ErrMsgNoPrimaryCharacter = "no primary character"
	ErrMsgGroupNotFound      = "group not found"
	ErrMsgGroupExists        = "group already exists"
	ErrMsgAlreadyGroupMember = "character already in group"
	ErrMsgNotGroupMember     = "character not in group"
	ErrMsgGroupPermission    = "only the group creator can change this group"
	ErrMsgInvalidExpansion   = "invalid expansion"
	ErrMsgInvalidLodestoneID = "invalid lodestone id"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Upstream errors
	ErrUpstreamUnavailable = errors.New(ErrMsgUpstreamUnavailable)
	ErrCharacterNotFound   = errors.New(ErrMsgCharacterNotFound)

	// Catalog errors
	ErrCollectibleNotFound = errors.New(ErrMsgCollectibleNotFound)
	ErrInvalidKind         = errors.New(ErrMsgInvalidKind)

	// Registration errors
	ErrCharacterExists    = errors.New(ErrMsgCharacterExists)
	ErrNoPrimaryCharacter = errors.New(ErrMsgNoPrimaryCharacter)
	ErrGroupNotFound      = errors.New(ErrMsgGroupNotFound)
	ErrGroupExists        = errors.New(ErrMsgGroupExists)
	ErrAlreadyGroupMember = errors.New(ErrMsgAlreadyGroupMember)
	ErrNotGroupMember     = errors.New(ErrMsgNotGroupMember)
	ErrGroupPermission    = errors.New(ErrMsgGroupPermission)
	ErrInvalidExpansion   = errors.New(ErrMsgInvalidExpansion)
	ErrInvalidLodestoneID = errors.New(ErrMsgInvalidLodestoneID)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// IsUpstreamError reports whether err is one of the gateway failures a roster
// member may be skipped for
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrCharacterNotFound)
}
