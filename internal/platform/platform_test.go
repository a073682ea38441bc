package platform

import (
	"errors"
	"testing"

	"github.com/quantmind-br/sdklaunch/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGrowing(t *testing.T) {
	t.Run("fits first time", func(t *testing.T) {
		calls := 0
		data, err := readGrowing(func(buf []byte) (int, bool, error) {
			calls++
			return copy(buf, "1.8"), false, nil
		}, 16, 64)

		require.NoError(t, err)
		assert.Equal(t, "1.8", string(data))
		assert.Equal(t, 1, calls)
	})

	t.Run("grows until it fits", func(t *testing.T) {
		value := make([]byte, 100)
		var sizes []int
		data, err := readGrowing(func(buf []byte) (int, bool, error) {
			sizes = append(sizes, len(buf))
			if len(buf) < len(value) {
				return len(value), true, nil
			}
			return copy(buf, value), false, nil
		}, 16, 1024)

		require.NoError(t, err)
		assert.Len(t, data, 100)
		// 16 -> jumps straight to the reported size
		assert.Equal(t, []int{16, 100}, sizes)
	})

	t.Run("doubles when size unknown", func(t *testing.T) {
		var sizes []int
		_, err := readGrowing(func(buf []byte) (int, bool, error) {
			sizes = append(sizes, len(buf))
			if len(buf) < 64 {
				return 0, true, nil
			}
			return 0, false, nil
		}, 16, 1024)

		require.NoError(t, err)
		assert.Equal(t, []int{16, 32, 64}, sizes)
	})

	t.Run("bounded", func(t *testing.T) {
		calls := 0
		_, err := readGrowing(func(buf []byte) (int, bool, error) {
			calls++
			return 0, true, nil
		}, 16, 64)

		assert.ErrorIs(t, err, ErrValueTooLarge)
		assert.Equal(t, 3, calls) // 16, 32, 64
	})

	t.Run("read error stops", func(t *testing.T) {
		boom := errors.New("value not found")
		_, err := readGrowing(func(buf []byte) (int, bool, error) {
			return 0, false, boom
		}, 16, 64)
		assert.ErrorIs(t, err, boom)
	})
}

func TestLabelFor(t *testing.T) {
	tests := map[string]core.Arch{
		"amd64": core.ArchX86_64,
		"arm64": core.ArchX86_64,
		"386":   core.ArchX86,
		"arm":   core.ArchX86,
	}
	for goarch, want := range tests {
		assert.Equal(t, want, labelFor(goarch), goarch)
	}
}

func TestViewString(t *testing.T) {
	assert.Equal(t, "default", ViewDefault.String())
	assert.Equal(t, "32-bit", View32.String())
	assert.Equal(t, "64-bit", View64.String())
}

func TestConsoleState(t *testing.T) {
	assert.True(t, ConsoleAttached.HasConsole())
	assert.True(t, ConsoleAlreadyAttached.HasConsole())
	assert.False(t, ConsoleNone.HasConsole())
	assert.Equal(t, "already-attached", ConsoleAlreadyAttached.String())
	assert.Equal(t, "none", ConsoleNone.String())
}

func TestHost_NativeArch(t *testing.T) {
	arch := Host{}.NativeArch()
	assert.Contains(t, []core.Arch{core.ArchX86, core.ArchX86_64}, arch)
}
