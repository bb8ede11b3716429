package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	LoginBio(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context) error
	Passwd(ctx context.Context) error
	Perfil(ctx context.Context) error
	Remember(ctx context.Context, mode string) error
	Biometric(ctx context.Context, mode string) error
	PinSet(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	DeleteAccount(ctx context.Context) error
}

// runREPL starts a read-eval-print loop for the Grana CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands while signed out: help, register, login, login-bio, exit.
// Commands while signed in: help, whoami, profile, passwd, perfil,
// remember on|off, biometric on|off, pin set, avatar <path>, delete-account,
// logout, exit.
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, w io.Writer) {
	for {
		fmt.Fprintf(w, "grana %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: whoami, profile, passwd, perfil, remember on|off, biometric on|off, pin set, avatar <path>, delete-account, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, login-bio, remember on|off, pin set, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "login-bio":
			_ = a.LoginBio(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "passwd":
			_ = a.Passwd(ctx)

		case "perfil":
			_ = a.Perfil(ctx)

		case "remember":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: remember on|off")
				continue
			}
			_ = a.Remember(ctx, args[0])

		case "biometric":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: biometric on|off")
				continue
			}
			_ = a.Biometric(ctx, args[0])

		case "pin":
			if len(args) != 1 || args[0] != "set" {
				fmt.Fprintln(w, "Usage: pin set")
				continue
			}
			_ = a.PinSet(ctx)

		case "avatar":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: avatar <path>")
				continue
			}
			_ = a.Avatar(ctx, args[0])

		case "delete-account":
			_ = a.DeleteAccount(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
