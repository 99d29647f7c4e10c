//go:build !linux

package capability

import (
	"kernel.org/pub/linux/libs/security/libcap/cap"
)

// ProcBackend is not available on this platform, Supported always returns
// false.
type ProcBackend struct{}

var _ Backend = ProcBackend{}

func (ProcBackend) Supported(cap.Value) bool { return false }

func (ProcBackend) Load() (State, error) { return State{}, ErrUnsupported }

func (ProcBackend) Commit(State) error { return ErrUnsupported }
