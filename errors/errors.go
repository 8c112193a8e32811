package errors

import stderrors "errors"

const (
	UnableToLoadUser      = "Unable to load user data."
	UnableToFetchProfile  = "Unable to fetch profile."
	SaveFailed            = "Failed to save accommodations."
	SaveSucceeded         = "Accommodations saved successfully!"
	UsernameUpdateFailed  = "Failed to update username."
	UsernameUpdated       = "Username updated successfully."
	SelectorNotLoaded     = "Accommodations are still loading"
	SelectorSaveInFlight  = "A save is already in progress"
	UnknownCategory       = "Unknown accommodation category"
	InvalidRequestFormat  = "Invalid request format"
	StoreUnavailable      = "Profile store is temporarily unavailable"
	InvalidSignInRequest  = "Invalid sign-in request"
	AuthenticationFailure = "User authentication failed."
)

var (
	ErrProfileNotFound  = stderrors.New("profile not found")
	ErrCacheMiss        = stderrors.New("profile cache miss")
	ErrUnknownCategory  = stderrors.New("unknown accommodation category")
	ErrNotLoaded        = stderrors.New("selections not loaded")
	ErrLoadFailed       = stderrors.New("selections failed to load")
	ErrSaveInFlight     = stderrors.New("save already in flight")
	ErrUnauthenticated  = stderrors.New("unauthenticated")
	ErrTokenRevoked     = stderrors.New("token revoked")
	ErrUnknownProvider  = stderrors.New("unknown identity provider")
	ErrInvalidRedirect  = stderrors.New("invalid redirect target")
	ErrEmptyUsername    = stderrors.New("username cannot be empty")
	ErrSessionDiscarded = stderrors.New("editor session discarded")
)

// Is and As let callers branch on the sentinels above without a second
// errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}
