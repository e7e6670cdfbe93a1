package constants

// Session
const (
	SessionCookieName = "pm_session"
	ContextKeyUserID  = "user_id"
)

// Validation limits
const (
	MinPasswordLength = 7
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NotificationListLimit caps how many notifications the list endpoint returns.
const NotificationListLimit = 20
