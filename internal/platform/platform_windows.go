//go:build windows

package platform

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"
	"unsafe"

	"github.com/quantmind-br/sdklaunch/internal/core"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetNativeSystemInfo = modkernel32.NewProc("GetNativeSystemInfo")
	procGetSystemInfo       = modkernel32.NewProc("GetSystemInfo")
	procAttachConsole       = modkernel32.NewProc("AttachConsole")
)

const (
	processorArchitectureAMD64 = 9
	processorArchitectureIA64  = 6
	processorArchitectureARM64 = 12

	attachParentProcess = ^uint32(0) // (DWORD)-1
)

type systemInfo struct {
	ProcessorArchitecture     uint16
	Reserved                  uint16
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

func nativeArch() core.Arch {
	var info systemInfo
	proc := procGetNativeSystemInfo
	if proc.Find() != nil {
		// pre-XP systems have no native variant and are never 64-bit
		proc = procGetSystemInfo
	}
	proc.Call(uintptr(unsafe.Pointer(&info)))

	switch info.ProcessorArchitecture {
	case processorArchitectureAMD64, processorArchitectureIA64, processorArchitectureARM64:
		return core.ArchX86_64
	default:
		return core.ArchX86
	}
}

func attachConsole() ConsoleState {
	if procAttachConsole.Find() != nil {
		return ConsoleNone
	}
	r, _, err := procAttachConsole.Call(uintptr(attachParentProcess))
	if r != 0 {
		return ConsoleAttached
	}
	if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
		return ConsoleAlreadyAttached
	}
	return ConsoleNone
}

type winRegistry struct{}

func newRegistry() Registry {
	return winRegistry{}
}

func (winRegistry) StringValue(view View, keyPath, name string) (string, error) {
	access := uint32(registry.QUERY_VALUE)
	switch view {
	case View32:
		access |= registry.WOW64_32KEY
	case View64:
		access |= registry.WOW64_64KEY
	}

	k, err := registry.OpenKey(registry.LOCAL_MACHINE, keyPath, access)
	if err != nil {
		return "", fmt.Errorf("open HKLM\\%s (%s view): %w", keyPath, view, err)
	}
	defer k.Close()

	var valType uint32
	data, err := readGrowing(func(buf []byte) (int, bool, error) {
		n, typ, err := k.GetValue(name, buf)
		valType = typ
		if errors.Is(err, registry.ErrShortBuffer) {
			return n, true, nil
		}
		return n, false, err
	}, initialValueSize, maxValueSize)
	if err != nil {
		return "", fmt.Errorf("read HKLM\\%s [%s]: %w", keyPath, name, err)
	}

	if valType != registry.SZ && valType != registry.EXPAND_SZ {
		return "", fmt.Errorf("HKLM\\%s [%s]: not a string value (type %d)", keyPath, name, valType)
	}

	value := decodeUTF16(data)
	if valType == registry.EXPAND_SZ {
		if expanded, err := registry.ExpandString(value); err == nil {
			value = expanded
		}
	}
	return value, nil
}

func decodeUTF16(b []byte) string {
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		c := binary.LittleEndian.Uint16(b[i:])
		if c == 0 {
			break
		}
		u = append(u, c)
	}
	return string(utf16.Decode(u))
}

func shortPath(path string) (string, error) {
	long, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return "", err
	}

	size := uint32(len(path) + 1)
	for attempt := 0; attempt < 4; attempt++ {
		buf := make([]uint16, size)
		n, err := windows.GetShortPathName(long, &buf[0], size)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", errors.New("empty short path")
		}
		if n < size {
			return windows.UTF16ToString(buf[:n]), nil
		}
		size = n
	}
	return "", errors.New("short path buffer did not settle")
}
