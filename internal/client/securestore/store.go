// Package securestore persists small secrets for the client in a local sqlite
// database, encrypting every value with AES-256-GCM under a per-device key.
// It plays the role the platform keychain plays on a phone: confidential,
// survives restarts, cleared only explicitly.
package securestore

import "context"

// Fixed keys of the persisted auth record. Only the session manager writes
// these.
const (
	KeyToken             = "token"
	KeyUser              = "user"
	KeyBiometricEnabled  = "biometric_enabled"
	KeyBiometricEmail    = "biometric_email"
	KeyBiometricPassword = "biometric_password"
	KeyIsRememberMeEmail = "is_remember_me_email"
	KeyRememberMeEmail   = "remember_me_email"
)

// Store is a confidential key-value store. Get returns (nil, nil) for a
// missing key. Apply performs its sets and deletes in one transaction: either
// everything is persisted or nothing is.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Apply(ctx context.Context, set map[string][]byte, del []string) error
	Clear(ctx context.Context) error
}
