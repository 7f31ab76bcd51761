package common

// SessionTokenHeaderName is the HTTP header used to carry the session token
// on authenticated requests ("Authorization: Bearer <token>").
const SessionTokenHeaderName = "Authorization"

// Collection keys shared by the remote and fallback stores.
const (
	CollectionUsers    = "users"
	CollectionMessages = "messages"
	CollectionSettings = "admin_settings"
)
