// Package httpapi exposes the Grana account API over REST/JSON: login, user
// lifecycle, perfil lookup, and presigned avatar uploads.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/grana-app/grana-go/internal/logging"
	"github.com/grana-app/grana-go/internal/server/models"
	"github.com/grana-app/grana-go/internal/server/services"
)

// UserService is the account surface the handlers need.
type UserService interface {
	Register(ctx context.Context, email, password, fullName, userName, telephone string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, fullName, userName, telephone string) (*models.User, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	SetAvatarKey(ctx context.Context, id, avatarKey string) error
	Delete(ctx context.Context, id string) error
}

// PerfilService resolves perfils for authorization checks on the client.
type PerfilService interface {
	Find(ctx context.Context, id string) (*models.Perfil, error)
}

// AvatarService presigns object-storage URLs for profile pictures.
type AvatarService interface {
	IssueTicket(ctx context.Context, contentType string) (*services.AvatarTicket, error)
}

type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	perfils   PerfilService
	avatars   AvatarService
	jwtSecret []byte
}

func NewServer(a string, l logging.Logger, us UserService, ps PerfilService, as AvatarService, secretKey string) *Server {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		perfils:   ps,
		avatars:   as,
		jwtSecret: []byte(secretKey),
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /user", s.handleRegister)

	mux.Handle("PUT /user", s.requireAuth(s.handleUpdateUser))
	mux.Handle("DELETE /user", s.requireAuth(s.handleDeleteUser))
	mux.Handle("PATCH /user/change/password", s.requireAuth(s.handleChangePassword))
	mux.Handle("GET /perfil/{id}", s.requireAuth(s.handleFindPerfil))
	mux.Handle("POST /user/avatar/upload-url", s.requireAuth(s.handleAvatarUploadURL))

	return mux
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
