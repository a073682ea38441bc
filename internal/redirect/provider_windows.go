//go:build windows

package redirect

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procWow64Disable = modkernel32.NewProc("Wow64DisableWow64FsRedirection")
	procWow64Revert  = modkernel32.NewProc("Wow64RevertWow64FsRedirection")
)

// Wow64 drives the WOW64 file-system redirector
type Wow64 struct{}

// NewProvider returns the WOW64 provider when kernel32 exports the toggle,
// otherwise the no-op provider (32-bit only systems).
func NewProvider() Provider {
	if procWow64Disable.Find() != nil || procWow64Revert.Find() != nil {
		return Noop{}
	}
	return Wow64{}
}

// Available implements Provider.Available
func (Wow64) Available() bool { return true }

// Disable implements Provider.Disable
func (Wow64) Disable() (Token, error) {
	var old uintptr
	r, _, err := procWow64Disable.Call(uintptr(unsafe.Pointer(&old)))
	if r == 0 {
		return 0, wrapCallErr(err)
	}
	return Token(old), nil
}

// Revert implements Provider.Revert
func (Wow64) Revert(token Token) error {
	r, _, err := procWow64Revert.Call(uintptr(token))
	if r == 0 {
		return wrapCallErr(err)
	}
	return nil
}

func wrapCallErr(err error) error {
	var errno windows.Errno
	if errors.As(err, &errno) && errno == 0 {
		return errors.New("wow64 redirection call failed")
	}
	return err
}
