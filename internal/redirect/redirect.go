// Package redirect toggles the filesystem redirection a 32-bit process
// gets on a 64-bit Windows host, so probes see the real directories.
package redirect

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
)

// Token is the opaque previous redirection state returned by Disable
type Token uintptr

// Provider disables and restores OS filesystem redirection
type Provider interface {
	// Available reports whether the OS offers the capability at all
	Available() bool

	// Disable turns redirection off for the calling thread and returns the previous state
	Disable() (Token, error)

	// Revert restores the state captured by Disable
	Revert(Token) error
}

// Noop is the provider used where redirection does not exist
type Noop struct{}

// Available implements Provider.Available
func (Noop) Available() bool { return false }

// Disable implements Provider.Disable
func (Noop) Disable() (Token, error) { return 0, nil }

// Revert implements Provider.Revert
func (Noop) Revert(Token) error { return nil }

// Scope is one enter/leave pairing over a Provider
type Scope struct {
	provider Provider
	log      *zerolog.Logger
}

// NewScope creates a scope over provider; a nil provider behaves like Noop
func NewScope(provider Provider, log *zerolog.Logger) *Scope {
	if provider == nil {
		provider = Noop{}
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Scope{provider: provider, log: log}
}

// Enter disables redirection. A provider failure is logged and degrades to
// "nothing changed": the returned token is still safe to pass to Leave.
// Redirection is per OS thread, so the goroutine stays locked to its thread
// until Leave.
func (s *Scope) Enter() (Token, bool) {
	runtime.LockOSThread()
	token, err := s.provider.Disable()
	if err != nil {
		s.log.Debug().Err(err).Msg("disable fs redirection failed, continuing with default view")
		return 0, false
	}
	return token, true
}

// Leave restores the view captured by Enter. entered must be the second
// value returned by Enter so a failed Enter is not reverted.
func (s *Scope) Leave(token Token, entered bool) {
	defer runtime.UnlockOSThread()
	if !entered {
		return
	}
	if err := s.provider.Revert(token); err != nil {
		s.log.Warn().Err(err).Msg("revert fs redirection failed")
	}
}

// Do runs fn with redirection disabled and always restores the previous
// view, including when fn returns an error or panics.
func (s *Scope) Do(fn func() error) error {
	token, entered := s.Enter()
	defer s.Leave(token, entered)
	return fn()
}

// Check is Do for predicates
func (s *Scope) Check(fn func() bool) bool {
	var ok bool
	_ = s.Do(func() error {
		ok = fn()
		return nil
	})
	return ok
}

// Describe returns a human readable capability summary
func Describe(p Provider) string {
	if p == nil || !p.Available() {
		return "unavailable (no-op)"
	}
	return fmt.Sprintf("available (%T)", p)
}
