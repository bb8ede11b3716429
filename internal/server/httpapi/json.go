package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grana-app/grana-go/internal/server/models"
	"github.com/grana-app/grana-go/internal/shared"
)

// userResponse is the profile snapshot returned to the client.
type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	UserName  string `json:"userName"`
	Telephone string `json:"telephone"`
	PerfilID  string `json:"perfilId"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		UserName:  u.UserName,
		Telephone: u.Telephone,
		PerfilID:  u.PerfilID,
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, shared.ErrorValidation)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps service errors to HTTP statuses and renders the
// {"message": ...} body the client expects.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, shared.ErrorUnauthorized),
		errors.Is(err, shared.ErrInvalidToken),
		errors.Is(err, shared.ErrTokenExpired):
		status = http.StatusUnauthorized
		message = "invalid credentials"
	case errors.Is(err, shared.ErrorNotFound):
		status = http.StatusNotFound
		message = "not found"
	case errors.Is(err, shared.ErrorEmailAlreadyExists):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, shared.ErrorInvalidPasswordFormat),
		errors.Is(err, shared.ErrorValidation):
		status = http.StatusBadRequest
		message = err.Error()
	}

	writeJSON(w, status, map[string]string{"message": message})
}
