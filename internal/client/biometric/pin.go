package biometric

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/grana-app/grana-go/internal/cryptox"
	"github.com/grana-app/grana-go/internal/filex"
	"github.com/grana-app/grana-go/internal/shared"
	"golang.org/x/term"
)

// enrollment is the on-disk PIN record: argon2id hash plus its salt, stored
// in a 0600 JSON file beside the secure store.
type enrollment struct {
	Salt []byte `json:"salt"`
	Hash []byte `json:"hash"`
}

// PINGate implements Gate with a device PIN prompted over the terminal.
type PINGate struct {
	path     string
	inFlight sync.Mutex

	// indirections for tests
	isTerminal   func() bool
	readPassword func() ([]byte, error)
	printPrompt  func(prompt string)
}

// NewPINGate creates a gate whose enrollment record lives at path.
func NewPINGate(path string) *PINGate {
	return &PINGate{
		path: path,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		readPassword: func() ([]byte, error) {
			defer fmt.Println()
			return term.ReadPassword(int(os.Stdin.Fd()))
		},
		printPrompt: func(prompt string) {
			fmt.Printf("%s\nPIN (empty to cancel): ", prompt)
		},
	}
}

// Probe reports terminal presence as the hardware bit and the existence of
// the enrollment record as the enrolled bit.
func (g *PINGate) Probe(ctx context.Context) Capability {
	_, err := os.Stat(g.path)
	return Capability{
		HardwarePresent: g.isTerminal(),
		Enrolled:        err == nil,
	}
}

// Enroll derives an argon2id hash from pin with a fresh salt and persists it.
// The pin slice is wiped before returning.
func (g *PINGate) Enroll(ctx context.Context, pin []byte) error {
	defer shared.WipeByteArray(pin)

	if len(pin) == 0 {
		return fmt.Errorf("pin must not be empty")
	}

	salt := shared.GenerateRandByteArray(32)
	rec := enrollment{Salt: salt, Hash: cryptox.DeriveKey(pin, salt)}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := filex.WriteSecretFile(g.path, data); err != nil {
		return fmt.Errorf("failed to save enrollment: %w", err)
	}
	return nil
}

// Unenroll removes the enrollment record. Removing a non-existent record is
// not an error.
func (g *PINGate) Unenroll(ctx context.Context) error {
	err := os.Remove(g.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Challenge runs one PIN ceremony: prompt, hidden read, verify. Empty input
// is a cancellation, a wrong PIN a failure; neither is retried here.
func (g *PINGate) Challenge(ctx context.Context, prompt string) (Outcome, error) {
	if !g.inFlight.TryLock() {
		return OutcomeFailed, ErrChallengeInFlight
	}
	defer g.inFlight.Unlock()

	rec, err := g.loadEnrollment()
	if err != nil {
		return OutcomeFailed, err
	}

	if err := ctx.Err(); err != nil {
		return OutcomeCancelled, err
	}

	g.printPrompt(prompt)
	pin, err := g.readPassword()
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to read pin: %w", err)
	}
	defer shared.WipeByteArray(pin)

	if len(pin) == 0 {
		return OutcomeCancelled, nil
	}

	if !cryptox.VerifyKey(rec.Hash, cryptox.DeriveKey(pin, rec.Salt)) {
		return OutcomeFailed, nil
	}
	return OutcomeSuccess, nil
}

func (g *PINGate) loadEnrollment() (*enrollment, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to read enrollment: %w", err)
	}

	rec := &enrollment{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("enrollment record is corrupt: %w", err)
	}
	return rec, nil
}
