package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Character Operations
const (
	ErrMsgFailedToInsertCharacter = "failed to insert character"
	ErrMsgFailedToGetCharacter    = "failed to get character"
	ErrMsgFailedToListCharacters  = "failed to list characters"
	ErrMsgFailedToClearPrimary    = "failed to clear primary character"
	ErrMsgFailedToSetPrimary      = "failed to set primary character"
	ErrMsgFailedToRemoveCharacter = "failed to remove character"
)

// Error Messages - Group Operations
const (
	ErrMsgFailedToCreateGroup  = "failed to create group"
	ErrMsgFailedToGetGroup     = "failed to get group"
	ErrMsgFailedToDeleteGroup  = "failed to delete group"
	ErrMsgFailedToAddMember    = "failed to add group member"
	ErrMsgFailedToRemoveMember = "failed to remove group member"
	ErrMsgFailedToGetRoster    = "failed to get group roster"
	ErrMsgFailedToListGroups   = "failed to list groups"
)

// Error Messages - Progress Operations
const (
	ErrMsgFailedToSetProgress = "failed to set msq progress"
	ErrMsgFailedToGetProgress = "failed to get msq progress"
)
