// Package api is the client's transport to the Grana backend: a thin
// REST/JSON wrapper with a mutable default Authorization header and an
// observation hook for authorization failures on outbound calls.
package api

import "context"

// UserPayload is the profile snapshot the backend returns with a session.
type UserPayload struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	UserName  string `json:"userName"`
	Telephone string `json:"telephone"`
	PerfilID  string `json:"perfilId"`
}

// ExchangeResult is the outcome of a successful credential exchange.
type ExchangeResult struct {
	Token string      `json:"token"`
	User  UserPayload `json:"user"`
}

// NewUser is the registration payload.
type NewUser struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"fullName"`
	UserName  string `json:"userName"`
	Telephone string `json:"telephone"`
}

// UserUpdate carries the mutable profile fields.
type UserUpdate struct {
	FullName  string `json:"fullName"`
	UserName  string `json:"userName"`
	Telephone string `json:"telephone"`
}

// Perfil is a role with its permission set, used to gate screens.
type Perfil struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// AvatarTicket is a pair of presigned object-storage URLs for the profile
// picture: PUT to UploadURL, later GET from DownloadURL.
type AvatarTicket struct {
	UploadURL   string `json:"uploadUrl"`
	DownloadURL string `json:"downloadUrl"`
}

// Client is the narrow transport contract consumed by the session manager and
// the profile services.
//
// SetAuthToken/ClearAuthToken mutate the default Authorization header applied
// to subsequent requests. OnUnauthorized registers a callback invoked when an
// authorized request (one that carried the header) is rejected with 401,
// before the error is returned to the original caller. Exchange is always
// anonymous, token installed or not: its 401 means bad credentials and must
// not tear down an existing session.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Exchange(ctx context.Context, email, password string) (*ExchangeResult, error)

	CreateUser(ctx context.Context, u NewUser) (*UserPayload, error)
	UpdateUser(ctx context.Context, u UserUpdate) (*UserPayload, error)
	DeleteUser(ctx context.Context) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	FindPerfil(ctx context.Context, id string) (*Perfil, error)
	AvatarUploadURL(ctx context.Context, contentType string) (*AvatarTicket, error)

	SetAuthToken(token string)
	ClearAuthToken()
	OnUnauthorized(fn func())
}
