package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"

	// Service error messages
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgUnavailableError     = "Upstream collection services are unavailable. Please try again later."
	ErrMsgCharacterNotFound    = "Character not found or not public"
	ErrMsgCollectibleNotFound  = "Collectible not found"
	ErrMsgInvalidKindError     = "Kind must be mounts or minions"
	ErrMsgInvalidLodestoneErr  = "Lodestone ID must be numeric"
	ErrMsgRequestTimeoutError  = "Request timed out"
	ErrMsgInvalidRequestDetail = "Invalid request. Please check your inputs."
)
