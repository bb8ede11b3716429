package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/grana-app/grana-go/internal/client/api"
	"github.com/grana-app/grana-go/internal/client/biometric"
	"github.com/grana-app/grana-go/internal/client/securestore"
)

var trueBytes = []byte("true")

func isTrue(v []byte) bool { return string(v) == "true" }

// Manager owns the in-memory session and is the sole writer of the
// auth-related keys in the secure store. A single mutex serializes every
// read-modify-persist sequence, so a forced sign-out can never interleave
// its purge with an in-flight sign-in's writes.
//
// Biometric ceremonies run outside that mutex: they can block on the user
// indefinitely and must not stall the rest of the session machinery.
type Manager struct {
	store securestore.Store
	api   api.Client
	gate  biometric.Gate

	bridge *Bridge

	mu                 sync.Mutex
	status             Status
	session            *Session
	capability         biometric.Capability
	biometricEnabled   bool
	rememberMe         bool
	rememberedEmail    string
	biometricAttempted bool
}

// NewManager wires the manager to its collaborators and registers the
// forced-sign-out hook on the transport. The hook only ever fires for
// requests that carried the bearer header, so it cannot re-enter a sign-in
// that is still holding the manager mutex during its exchange.
func NewManager(store securestore.Store, client api.Client, gate biometric.Gate) *Manager {
	m := &Manager{
		store:  store,
		api:    client,
		gate:   gate,
		bridge: NewBridge(),
		status: StatusInitializing,
	}
	client.OnUnauthorized(func() {
		_ = m.ForceSignOut(context.Background())
	})
	return m
}

// Subscribe registers an observer of session transitions.
func (m *Manager) Subscribe(ctx context.Context) (<-chan Snapshot, func()) {
	return m.bridge.Subscribe(ctx)
}

// Snapshot returns the current observable state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:             m.status,
		Loading:            m.status == StatusInitializing,
		BiometricAvailable: m.capability.Available(),
		BiometricEnabled:   m.biometricEnabled,
		RememberMe:         m.rememberMe,
		RememberedEmail:    m.rememberedEmail,
	}
	if m.session != nil {
		s := *m.session
		snap.Session = &s
	}
	return snap
}

func (m *Manager) publishLocked() {
	m.bridge.Publish(m.snapshotLocked())
}

// Initialize restores persisted state once at process start: it probes the
// biometric capability, loads the persisted record, validates any stored
// token, and settles on Authenticated or Unauthenticated. An expired or
// malformed token is the expected shape of "your session ran out" and is
// recovered silently by purging it, never surfaced as an error.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = StatusInitializing
	m.capability = m.gate.Probe(ctx)
	m.publishLocked()

	var readErr error
	get := func(key string) []byte {
		if readErr != nil {
			return nil
		}
		v, err := m.store.Get(ctx, key)
		if err != nil {
			readErr = err
		}
		return v
	}
	token := get(securestore.KeyToken)
	profile := get(securestore.KeyUser)
	bioFlag := get(securestore.KeyBiometricEnabled)
	remFlag := get(securestore.KeyIsRememberMeEmail)
	remEmail := get(securestore.KeyRememberMeEmail)
	if readErr != nil {
		m.status = StatusUnauthenticated
		m.publishLocked()
		return fmt.Errorf("%w: %v", ErrStorageFailure, readErr)
	}

	m.biometricEnabled = isTrue(bioFlag)
	m.rememberMe = isTrue(remFlag)
	// A stored email without its flag is leftover from an interrupted purge;
	// don't surface it.
	m.rememberedEmail = ""
	if m.rememberMe {
		m.rememberedEmail = string(remEmail)
	}

	restored := false
	if TokenIsValid(string(token)) {
		if s, err := sessionFromRecord(profile, string(token)); err == nil {
			m.session = s
			m.api.SetAuthToken(s.Token)
			m.status = StatusAuthenticated
			restored = true
		}
	}
	if !restored {
		m.status = StatusUnauthenticated
		if len(token) > 0 || len(profile) > 0 {
			if err := m.store.Apply(ctx, nil, []string{securestore.KeyToken, securestore.KeyUser}); err != nil {
				m.publishLocked()
				return fmt.Errorf("%w: %v", ErrStorageFailure, err)
			}
		}
	}
	m.publishLocked()
	return nil
}

// SignIn exchanges the credential pair for a session. The new token and
// profile, the remember-me email, and (only while biometric unlock is
// enabled) the replayable credential pair are persisted in one transaction;
// the bearer header is installed and the in-memory session replaced only
// after that persistence succeeds, so observers never see a half-applied
// state.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signInLocked(ctx, email, password)
}

func (m *Manager) signInLocked(ctx context.Context, email, password string) error {
	res, err := m.api.Exchange(ctx, email, password)
	if err != nil {
		if api.IsUnauthorized(err) {
			return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	s := FromUser(res.User, res.Token)
	profile, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	set := map[string][]byte{
		securestore.KeyToken: []byte(res.Token),
		securestore.KeyUser:  profile,
	}
	var del []string
	if m.rememberMe {
		set[securestore.KeyIsRememberMeEmail] = trueBytes
		set[securestore.KeyRememberMeEmail] = []byte(email)
	} else {
		del = append(del, securestore.KeyIsRememberMeEmail, securestore.KeyRememberMeEmail)
	}
	if m.biometricEnabled {
		set[securestore.KeyBiometricEmail] = []byte(email)
		set[securestore.KeyBiometricPassword] = []byte(password)
	}
	if err := m.store.Apply(ctx, set, del); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	m.session = s
	m.status = StatusAuthenticated
	if m.rememberMe {
		m.rememberedEmail = email
	} else {
		m.rememberedEmail = ""
	}
	m.api.SetAuthToken(res.Token)
	m.publishLocked()
	return nil
}

// SignOut destroys the active session: purges the persisted token and
// profile, clears the bearer header, and transitions to Unauthenticated.
// Memory and header are cleared even when the purge fails, so the process
// cannot keep using a session the store may still hold; the storage error is
// still reported.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signOutLocked(ctx)
}

// ForceSignOut is the transport-interceptor entry point: the backend
// rejected an authorized request, so the session is gone regardless of what
// the user was doing. It is a no-op when already signed out.
func (m *Manager) ForceSignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusAuthenticated {
		return nil
	}
	return m.signOutLocked(ctx)
}

func (m *Manager) signOutLocked(ctx context.Context) error {
	purgeErr := m.store.Apply(ctx, nil, []string{securestore.KeyToken, securestore.KeyUser})
	m.session = nil
	m.status = StatusUnauthenticated
	m.api.ClearAuthToken()
	m.publishLocked()
	if purgeErr != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, purgeErr)
	}
	return nil
}

// UpdateSession replaces the session's profile fields after a remote profile
// update. Only the persisted profile record changes; the token is untouched.
func (m *Manager) UpdateSession(ctx context.Context, u api.UserPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusAuthenticated {
		return ErrNotAuthenticated
	}

	s := FromUser(u, m.session.Token)
	profile, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if err := m.store.Set(ctx, securestore.KeyUser, profile); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	m.session = s
	m.publishLocked()
	return nil
}

// EnableBiometric turns biometric unlock on after a fresh successful
// ceremony. It does not store any credentials itself: the pair is captured on
// the next successful SignIn while the flag is already set.
func (m *Manager) EnableBiometric(ctx context.Context) error {
	cap := m.gate.Probe(ctx)
	if !cap.Available() {
		return ErrBiometricUnavailable
	}

	outcome, err := m.gate.Challenge(ctx, "Confirm it's you to enable biometric sign-in")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBiometricChallengeFailed, err)
	}
	if outcome != biometric.OutcomeSuccess {
		return fmt.Errorf("%w: %s", ErrBiometricChallengeFailed, outcome)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Set(ctx, securestore.KeyBiometricEnabled, trueBytes); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	m.capability = cap
	m.biometricEnabled = true
	m.publishLocked()
	return nil
}

// DisableBiometric turns the flag off and purges the stored credential pair
// with it. The flag and the pair are never allowed to diverge.
func (m *Manager) DisableBiometric(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	del := []string{
		securestore.KeyBiometricEnabled,
		securestore.KeyBiometricEmail,
		securestore.KeyBiometricPassword,
	}
	if err := m.store.Apply(ctx, nil, del); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	m.biometricEnabled = false
	m.publishLocked()
	return nil
}

// SignInWithBiometric runs the hardware ceremony and, on success, replays
// the stored credential pair through the normal sign-in path. Capability and
// the enabled flag are both checked before any prompt is issued. A replayed
// exchange can still fail on its own if the stored password was changed
// server-side; that failure propagates as ErrInvalidCredentials like any
// other.
func (m *Manager) SignInWithBiometric(ctx context.Context) error {
	cap := m.gate.Probe(ctx)

	m.mu.Lock()
	m.capability = cap
	enabled := m.biometricEnabled
	m.mu.Unlock()

	if !cap.Available() {
		return ErrBiometricUnavailable
	}
	if !enabled {
		return ErrBiometricNotEnabled
	}

	outcome, err := m.gate.Challenge(ctx, "Sign in to Grana")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBiometricChallengeFailed, err)
	}
	if outcome != biometric.OutcomeSuccess {
		return fmt.Errorf("%w: %s", ErrBiometricChallengeFailed, outcome)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	email, err := m.store.Get(ctx, securestore.KeyBiometricEmail)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	password, err := m.store.Get(ctx, securestore.KeyBiometricPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(email) == 0 || len(password) == 0 {
		return ErrNoStoredBiometricCredential
	}
	return m.signInLocked(ctx, string(email), string(password))
}

// TryBiometricOnce makes at most one unsolicited biometric attempt per
// process lifetime, after Initialize has settled the capability and enabled
// flags. The one-shot guard is never reset: a cancelled prompt must not come
// back on its own. Returns true when the attempt signed the user in; a
// failed or cancelled ceremony is a normal outcome, not an error.
func (m *Manager) TryBiometricOnce(ctx context.Context) (bool, error) {
	m.mu.Lock()
	eligible := !m.biometricAttempted &&
		m.status == StatusUnauthenticated &&
		m.biometricEnabled &&
		m.capability.Available()
	if eligible {
		m.biometricAttempted = true
	}
	m.mu.Unlock()

	if !eligible {
		return false, nil
	}
	if err := m.SignInWithBiometric(ctx); err != nil {
		if errors.Is(err, ErrBiometricChallengeFailed) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetRememberMe toggles the remember-me convenience. Enabling while a
// session is active captures its email immediately; enabling while signed
// out arms the flag so the next successful sign-in stores the email.
// Disabling purges the stored email with the flag.
func (m *Manager) SetRememberMe(ctx context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !enabled {
		del := []string{securestore.KeyIsRememberMeEmail, securestore.KeyRememberMeEmail}
		if err := m.store.Apply(ctx, nil, del); err != nil {
			return fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		m.rememberMe = false
		m.rememberedEmail = ""
		m.publishLocked()
		return nil
	}

	email := m.rememberedEmail
	if m.session != nil {
		email = m.session.Email
	}
	set := map[string][]byte{securestore.KeyIsRememberMeEmail: trueBytes}
	if email != "" {
		set[securestore.KeyRememberMeEmail] = []byte(email)
	}
	if err := m.store.Apply(ctx, set, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	m.rememberMe = true
	m.rememberedEmail = email
	m.publishLocked()
	return nil
}
