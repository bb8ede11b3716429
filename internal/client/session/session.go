// Package session owns the client's authenticated identity: restoring it at
// startup, acquiring it via credential or biometric sign-in, persisting it to
// the secure store, and tearing it down on explicit or forced sign-out.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/grana-app/grana-go/internal/client/api"
)

// Session is the authenticated identity currently active in the process.
// The bearer token is held in memory only; the persisted profile record is
// written without it.
type Session struct {
	Subject   string `json:"subject"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	UserName  string `json:"userName"`
	Telephone string `json:"telephone"`
	PerfilID  string `json:"perfilId"`
	Token     string `json:"-"`
}

// FromUser builds a Session from the backend's profile payload.
func FromUser(u api.UserPayload, token string) *Session {
	return &Session{
		Subject:   u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		UserName:  u.UserName,
		Telephone: u.Telephone,
		PerfilID:  u.PerfilID,
		Token:     token,
	}
}

func sessionFromRecord(data []byte, token string) (*Session, error) {
	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode profile record: %w", err)
	}
	s.Token = token
	return s, nil
}
