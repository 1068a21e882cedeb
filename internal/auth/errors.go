package auth

import "errors"

// Error taxonomy of the authentication layer. Every public method reports
// failures through these sentinels (possibly wrapped); none are swallowed.
var (
	// ErrWeakPassword is returned by SetPassword when the password fails
	// the minimum-length policy. Nothing is written to storage.
	ErrWeakPassword = errors.New("password does not meet the minimum length")

	// ErrInvalidCredentials is returned when a password or passcode fails
	// verification. Deliberately carries no detail beyond "incorrect": the
	// caller cannot distinguish a missing record from a wrong secret.
	ErrInvalidCredentials = errors.New("incorrect password or passcode")

	// ErrNotUnlocked is returned when an operation requiring a key runs
	// while the corresponding lock is engaged. This is a caller contract
	// violation and fails loudly rather than silently no-opping.
	ErrNotUnlocked = errors.New("operation requires an unlocked session")

	// ErrNoPasswordSet is returned by Unlock before any password exists.
	ErrNoPasswordSet = errors.New("no password has been set")

	// ErrJournalPasscodeNotSet is returned by UnlockJournal before a
	// journal passcode exists.
	ErrJournalPasscodeNotSet = errors.New("journal passcode has not been set")

	// ErrCorruptAuthData is returned when the persisted auth record cannot
	// be parsed. Recovery is not possible by design; the only remedial
	// action is a full reset of the encrypted store.
	ErrCorruptAuthData = errors.New("auth record is corrupted")
)
