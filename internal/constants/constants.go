package constants

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
)

const (
	DefaultGridSide   = 15
	DefaultMinWordLen = 3
	DefaultMaxWordLen = 15
	NameLength        = 3
	LeaderboardSize   = 10
)

const (
	ErrorCodeInvalidRequest  = "invalid_request"
	ErrorCodeInvalidGrid     = "invalid_grid"
	ErrorCodeSessionNotFound = "session_not_found"
	ErrorCodeAlreadyFound    = "already_found"
	ErrorCodeNotInDictionary = "not_in_dictionary"
	ErrorCodeNotInGrid       = "not_in_grid"
	ErrorCodeSessionTooShort = "session_too_short"
	ErrorCodeInvalidName     = "invalid_name"
	ErrorCodeRateLimited     = "rate_limited"
	ErrorCodePersistence     = "persistence_failed"
)
