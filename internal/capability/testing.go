package capability

import (
	"syscall"

	"kernel.org/pub/linux/libs/security/libcap/cap"
)

// TestBackend is an in-memory Backend. Commit follows the kernel rules for
// capset: the effective set must be a subset of the permitted set, and the
// permitted set cannot grow.
type TestBackend struct {
	// Unsupported makes Supported return false.
	Unsupported bool
	// LoadErr is returned by Load if set.
	LoadErr error
	// Current is the state returned by Load and replaced by Commit.
	Current State
	// Calls records the method calls in order.
	Calls []string
}

var _ Backend = &TestBackend{}

func (b *TestBackend) Supported(cap.Value) bool {
	b.Calls = append(b.Calls, "supported")
	return !b.Unsupported
}

func (b *TestBackend) Load() (State, error) {
	b.Calls = append(b.Calls, "load")
	if b.LoadErr != nil {
		return State{}, b.LoadErr
	}
	return b.Current, nil
}

func (b *TestBackend) Commit(s State) error {
	b.Calls = append(b.Calls, "commit")
	if s.Effective&^s.Permitted != 0 || s.Permitted&^b.Current.Permitted != 0 {
		return syscall.EPERM
	}
	b.Current = s
	return nil
}

// NewTestElevated returns a token as if Elevate had succeeded against a
// process permitted to use Target.
func NewTestElevated() *Elevated {
	b := &TestBackend{Current: State{Permitted: Mask(0).With(Target)}}
	e, err := Elevate(b)
	if err != nil {
		// not reachable
		panic(err)
	}
	return e
}
