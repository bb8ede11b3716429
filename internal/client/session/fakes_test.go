package session

import (
	"context"
	"sync"

	"github.com/grana-app/grana-go/internal/client/api"
	"github.com/grana-app/grana-go/internal/client/biometric"
)

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	getErr   error
	setErr   error
	applyErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) Apply(_ context.Context, set map[string][]byte, del []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyErr != nil {
		return s.applyErr
	}
	for k, v := range set {
		cp := make([]byte, len(v))
		copy(cp, v)
		s.data[k] = cp
	}
	for _, k := range del {
		delete(s.data, k)
	}
	return nil
}

func (s *memStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]byte)
	return nil
}

func (s *memStore) get(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// fakeAPI implements api.Client with a programmable exchange.
type fakeAPI struct {
	mu         sync.Mutex
	exchangeFn func(ctx context.Context, email, password string) (*api.ExchangeResult, error)
	exchanges  int
	token      string
	hook       func()
}

func (f *fakeAPI) Exchange(ctx context.Context, email, password string) (*api.ExchangeResult, error) {
	f.mu.Lock()
	f.exchanges++
	fn := f.exchangeFn
	f.mu.Unlock()
	return fn(ctx, email, password)
}

func (f *fakeAPI) SetAuthToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAPI) ClearAuthToken() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
}

func (f *fakeAPI) OnUnauthorized(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hook = fn
}

func (f *fakeAPI) authToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAPI) exchangeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exchanges
}

func (f *fakeAPI) fireUnauthorized() {
	f.mu.Lock()
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (f *fakeAPI) Close() error                   { return nil }
func (f *fakeAPI) Ping(context.Context) error     { return nil }
func (f *fakeAPI) DeleteUser(context.Context) error { return nil }

func (f *fakeAPI) CreateUser(context.Context, api.NewUser) (*api.UserPayload, error) {
	return nil, nil
}

func (f *fakeAPI) UpdateUser(context.Context, api.UserUpdate) (*api.UserPayload, error) {
	return nil, nil
}

func (f *fakeAPI) ChangePassword(context.Context, string, string) error { return nil }

func (f *fakeAPI) FindPerfil(context.Context, string) (*api.Perfil, error) { return nil, nil }

func (f *fakeAPI) AvatarUploadURL(context.Context, string) (*api.AvatarTicket, error) {
	return nil, nil
}

// fakeGate implements biometric.Gate with fixed capability and a
// programmable ceremony outcome.
type fakeGate struct {
	mu         sync.Mutex
	capability biometric.Capability
	outcome    biometric.Outcome
	err        error
	challenges int
}

func (g *fakeGate) Probe(context.Context) biometric.Capability {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.capability
}

func (g *fakeGate) Challenge(context.Context, string) (biometric.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.challenges++
	return g.outcome, g.err
}

func (g *fakeGate) challengeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.challenges
}
