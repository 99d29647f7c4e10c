//go:build linux

package capability

import (
	"kernel.org/pub/linux/libs/security/libcap/cap"
)

// ProcBackend reads and writes the capabilities of the current process via
// libcap. Commit applies the state to all threads of the process.
type ProcBackend struct{}

var _ Backend = ProcBackend{}

// Supported reports whether the running kernel knows capability v.
func (ProcBackend) Supported(v cap.Value) bool {
	return v < cap.MaxBits()
}

// Load returns the capability state of the current process.
func (ProcBackend) Load() (State, error) {
	c, err := cap.GetPID(0)
	if err != nil {
		return State{}, err
	}

	var s State
	for v := cap.Value(0); v < cap.MaxBits() && v < 64; v++ {
		for _, f := range []struct {
			flag cap.Flag
			mask *Mask
		}{
			{cap.Effective, &s.Effective},
			{cap.Permitted, &s.Permitted},
			{cap.Inheritable, &s.Inheritable},
		} {
			on, err := c.GetFlag(f.flag, v)
			if err != nil {
				return State{}, err
			}
			if on {
				*f.mask = f.mask.With(v)
			}
		}
	}
	return s, nil
}

// Commit makes s the capability state of the current process.
func (ProcBackend) Commit(s State) error {
	c, err := s.set()
	if err != nil {
		return err
	}
	return c.SetProc()
}
