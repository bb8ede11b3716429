package httpapi

import (
	"net/http"
)

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FullName  string `json:"fullName"`
		UserName  string `json:"userName"`
		Telephone string `json:"telephone"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password, req.FullName, req.UserName, req.Telephone)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName  string `json:"fullName"`
		UserName  string `json:"userName"`
		Telephone string `json:"telephone"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userIDFromContext(r.Context()), req.FullName, req.UserName, req.Telephone)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), userIDFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.users.ChangePassword(r.Context(), userIDFromContext(r.Context()), req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFindPerfil(w http.ResponseWriter, r *http.Request) {
	perfil, err := s.perfils.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Permissions []string `json:"permissions"`
	}{ID: perfil.ID, Name: perfil.Name, Permissions: perfil.Permissions})
}

func (s *Server) handleAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentType string `json:"contentType"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	ticket, err := s.avatars.IssueTicket(r.Context(), req.ContentType)
	if err != nil {
		writeError(w, err)
		return
	}

	// Remember the key so the stored avatar can be located later.
	if err := s.users.SetAvatarKey(r.Context(), userIDFromContext(r.Context()), ticket.Key); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		UploadURL   string `json:"uploadUrl"`
		DownloadURL string `json:"downloadUrl"`
	}{UploadURL: ticket.UploadURL, DownloadURL: ticket.DownloadURL})
}
