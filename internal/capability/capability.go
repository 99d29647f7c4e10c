package capability

import (
	"fmt"
	"strings"

	"kernel.org/pub/linux/libs/security/libcap/cap"

	"github.com/restic/get-all-xattrs/internal/debug"
	"github.com/restic/get-all-xattrs/internal/errors"
)

// Target is the capability the helper raises. It allows listing and reading
// extended attributes in the trusted namespace.
const Target = cap.SYS_ADMIN

var (
	// ErrUnsupported is returned if the kernel does not know Target.
	ErrUnsupported = errors.New("capability not supported by the kernel")
	// ErrLoad is returned if the current capability state cannot be read.
	ErrLoad = errors.New("unable to read process capabilities")
	// ErrNotPermitted is returned if the kernel refuses the new state,
	// usually because Target is missing from the permitted set.
	ErrNotPermitted = errors.New("unable to set process capabilities")
)

// Hint tells the operator how to grant the permitted capability.
const Hint = "(`get-all-xattrs` needs CAP_SYS_ADMIN to show xattrs from all namespaces, " +
	"re-run either after `setcap cap_sys_admin=p get-all-xattrs` or with `sudo`)"

// Mask is a set of capabilities, bit n stands for capability value n.
type Mask uint64

// Has reports whether v is in the set.
func (m Mask) Has(v cap.Value) bool {
	return v < 64 && m&(1<<uint(v)) != 0
}

// With returns a copy of the set that also contains v.
func (m Mask) With(v cap.Value) Mask {
	return m | 1<<uint(v)
}

// Values lists the capabilities in the set in ascending order.
func (m Mask) Values() []cap.Value {
	var vs []cap.Value
	for v := cap.Value(0); v < 64; v++ {
		if m.Has(v) {
			vs = append(vs, v)
		}
	}
	return vs
}

// State is the permitted/effective/inheritable capability triple of a
// process.
type State struct {
	Effective   Mask
	Permitted   Mask
	Inheritable Mask
}

func (s State) set() (*cap.Set, error) {
	c := cap.NewSet()
	for _, f := range []struct {
		flag cap.Flag
		mask Mask
	}{
		{cap.Effective, s.Effective},
		{cap.Permitted, s.Permitted},
		{cap.Inheritable, s.Inheritable},
	} {
		if vs := f.mask.Values(); len(vs) > 0 {
			if err := c.SetFlag(f.flag, true, vs...); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// String renders the state in libcap text form, e.g. "cap_sys_admin=ep".
func (s State) String() string {
	c, err := s.set()
	if err != nil {
		return fmt.Sprintf("<invalid capability state e=%#x p=%#x i=%#x: %v>",
			s.Effective, s.Permitted, s.Inheritable, err)
	}
	return c.String()
}

// Raise returns s with v added to the effective set. The permitted and
// inheritable sets are left untouched.
func Raise(s State, v cap.Value) State {
	s.Effective = s.Effective.With(v)
	return s
}

// Backend loads and commits the capability state of the current process.
type Backend interface {
	// Supported reports whether the kernel knows capability v.
	Supported(v cap.Value) bool
	// Load returns the current state.
	Load() (State, error)
	// Commit makes s the active state.
	Commit(s State) error
}

// Elevated proves that Target is in the effective set of the process. It can
// only be obtained from Elevate.
type Elevated struct {
	value cap.Value
	state State
}

// Capability returns the raised capability.
func (e *Elevated) Capability() cap.Value {
	return e.value
}

// State returns the state that was committed.
func (e *Elevated) State() State {
	return e.state
}

func (e *Elevated) String() string {
	return fmt.Sprintf("%v raised (%v)", strings.ToUpper(e.value.String()), e.state)
}

// Elevate raises Target into the effective set using b. It must be called
// exactly once, before any attribute is read. All errors are fatal.
func Elevate(b Backend) (*Elevated, error) {
	if !b.Supported(Target) {
		return nil, errors.Fatalf("%v not supported: %v", Target, ErrUnsupported)
	}

	cur, err := b.Load()
	if err != nil {
		return nil, errors.Fatalf("cap_get_proc: %v", fmt.Errorf("%w: %w", ErrLoad, err))
	}
	debug.Log("current capabilities: %v", cur)

	next := Raise(cur, Target)
	if err := b.Commit(next); err != nil {
		err = errors.Fatalf("cap_set_proc: %v", fmt.Errorf("%w: %w", ErrNotPermitted, err))
		return nil, errors.WithHint(err, Hint)
	}
	debug.Log("raised capabilities: %v", next)

	return &Elevated{value: Target, state: next}, nil
}

// HasPermitted reports whether v is in the permitted set of the process.
func HasPermitted(b Backend, v cap.Value) (bool, error) {
	if !b.Supported(v) {
		return false, nil
	}

	s, err := b.Load()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return s.Permitted.Has(v), nil
}
