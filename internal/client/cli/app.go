// Package cli is the interactive shell of the Grana client. It is a thin
// presentation layer: every state change goes through the session manager and
// the profile services, the shell only prompts and prints.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/grana-app/grana-go/internal/client/api"
	"github.com/grana-app/grana-go/internal/client/biometric"
	"github.com/grana-app/grana-go/internal/client/config"
	"github.com/grana-app/grana-go/internal/client/securestore"
	"github.com/grana-app/grana-go/internal/client/services"
	"github.com/grana-app/grana-go/internal/client/session"
)

type App struct {
	config  *config.Config
	db      *sql.DB
	client  api.Client
	gate    *biometric.PINGate
	manager *session.Manager
	users   services.UserService
	perfils services.PerfilService

	reader *bufio.Reader
	out    io.Writer
	online atomic.Bool
}

// NewApp opens the local encrypted store, connects the REST client and wires
// the session manager with its biometric gate.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	store, db, err := securestore.Open(ctx, c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	apiClient := api.NewHTTPClient(c.ServerBaseURL)
	gate := biometric.NewPINGate(filepath.Join(c.DataDir, "pin.json"))
	manager := session.NewManager(store, apiClient, gate)

	return &App{
		config:  c,
		db:      db,
		client:  apiClient,
		gate:    gate,
		manager: manager,
		users:   services.NewUserService(apiClient, manager),
		perfils: services.NewPerfilService(apiClient),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.manager.Snapshot().Status == session.StatusAuthenticated
}

func (a *App) status() string {
	snap := a.manager.Snapshot()
	s := ""
	if snap.Session != nil {
		s = snap.Session.Email
	}
	if !a.online.Load() {
		if s != "" {
			s += " "
		}
		s += "offline"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run restores the session, makes the one-shot unsolicited biometric attempt
// and hands control to the REPL. It returns when the user exits or stdin is
// closed.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Grana CLI (type 'help' for commands)")

	if err := a.manager.Initialize(ctx); err != nil {
		fmt.Fprintln(a.out, "warning: could not restore session:", err)
	}
	if snap := a.manager.Snapshot(); snap.Session != nil {
		fmt.Fprintf(a.out, "Welcome back, %s\n", snap.Session.FullName)
	}

	a.watchTransitions(ctx)
	go a.watchServerStatus(ctx, a.config.OnlineCheckInterval)

	if ok, err := a.manager.TryBiometricOnce(ctx); err != nil {
		fmt.Fprintln(a.out, "Biometric sign-in failed:", err)
	} else if ok {
		fmt.Fprintln(a.out, "Signed in with biometrics")
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin), a.out)
	return nil
}

// watchTransitions reports forced sign-outs. The shell's own commands print
// their outcomes inline; this subscriber only catches transitions the user
// did not ask for, like a 401 tearing the session down mid-command.
func (a *App) watchTransitions(ctx context.Context) {
	ch, _ := a.manager.Subscribe(ctx)
	go func() {
		var last session.Status
		for snap := range ch {
			if last == session.StatusAuthenticated && snap.Status == session.StatusUnauthenticated {
				fmt.Fprintln(a.out, "\nSession expired, please login again")
			}
			last = snap.Status
		}
	}()
}

// watchServerStatus probes server reachability on a fixed interval and
// reports changes.
func (a *App) watchServerStatus(ctx context.Context, interval time.Duration) {
	a.online.Store(true)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.client.Ping(pingCtx)
			cancel()

			if err != nil && a.online.CompareAndSwap(true, false) {
				fmt.Fprintln(a.out, "\nServer unreachable")
			} else if err == nil && a.online.CompareAndSwap(false, true) {
				fmt.Fprintln(a.out, "\nServer back online")
			}

		case <-ctx.Done():
			return
		}
	}
}
