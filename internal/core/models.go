package core

import "time"

// Strategy identifies the discovery technique that produced a runtime
type Strategy string

const (
	StrategyCache        Strategy = "cache"
	StrategyEnv          Strategy = "env"
	StrategyPath         Strategy = "path"
	StrategyRegistry     Strategy = "registry"
	StrategyProgramFiles Strategy = "programfiles"
)

// Runtime is a located runtime binary
type Runtime struct {
	Path      string    `json:"path"`
	Version   string    `json:"version,omitempty"`
	Strategy  Strategy  `json:"strategy"`
	Verified  bool      `json:"verified"` // version banner recognised, not just runnable
	LocatedAt time.Time `json:"located_at"`
}

// Arch is the architecture label used for arch-specific library folders
type Arch string

const (
	ArchX86    Arch = "x86"    // primary
	ArchX86_64 Arch = "x86_64" // secondary (wide)
)

// IsWide reports whether the label names a 64-bit architecture
func (a Arch) IsWide() bool {
	return a == ArchX86_64
}

// Exit codes for the CLI boundary
const (
	ExitSuccess  = 0
	ExitFailure  = 1 // located, but a requested sub-operation, staging or launch failed
	ExitNotFound = 2 // runtime not found, or invalid invocation
)
