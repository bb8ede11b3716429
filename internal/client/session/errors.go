package session

import "errors"

var (
	// ErrInvalidCredentials means the remote exchange rejected the pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRemoteUnavailable covers network failures and server errors during
	// the exchange.
	ErrRemoteUnavailable = errors.New("authentication service unavailable")
	// ErrBiometricUnavailable means the device has no usable biometric
	// capability (no hardware, or nothing enrolled).
	ErrBiometricUnavailable = errors.New("biometric unlock unavailable")
	// ErrBiometricNotEnabled means the user never opted in.
	ErrBiometricNotEnabled = errors.New("biometric unlock not enabled")
	// ErrBiometricChallengeFailed covers a failed or cancelled ceremony.
	ErrBiometricChallengeFailed = errors.New("biometric challenge failed")
	// ErrNoStoredBiometricCredential means the enabled flag is set but the
	// credential pair is missing, a corrupt-state condition.
	ErrNoStoredBiometricCredential = errors.New("no stored biometric credential")
	// ErrStorageFailure is a secure-store I/O error on a persistence step.
	ErrStorageFailure = errors.New("secure storage failure")
	// ErrNotAuthenticated is returned by operations that require an active
	// session.
	ErrNotAuthenticated = errors.New("not authenticated")
)
