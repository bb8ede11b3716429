package session

// Status is the authentication state of the process.
//
// The machine moves Initializing -> {Authenticated, Unauthenticated} once at
// startup; after that the only transitions are Unauthenticated <->
// Authenticated driven by sign-in and sign-out.
type Status int

const (
	StatusInitializing Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
