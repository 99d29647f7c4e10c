//go:build linux

package capability_test

import (
	"testing"

	"kernel.org/pub/linux/libs/security/libcap/cap"

	"github.com/restic/get-all-xattrs/internal/capability"
	rtest "github.com/restic/get-all-xattrs/internal/test"
)

func TestProcBackendLoad(t *testing.T) {
	b := capability.ProcBackend{}
	rtest.Assert(t, b.Supported(cap.CHOWN), "CAP_CHOWN should be known to every kernel")

	s, err := b.Load()
	rtest.OK(t, err)

	// the kernel never reports an effective capability that is not permitted
	rtest.Equals(t, capability.Mask(0), s.Effective&^s.Permitted)
	rtest.Equals(t, cap.GetProc().String(), s.String())
}

func TestProcBackendCommitUnchanged(t *testing.T) {
	b := capability.ProcBackend{}

	s, err := b.Load()
	rtest.OK(t, err)

	// committing the current state is always allowed
	rtest.OK(t, b.Commit(s))

	after, err := b.Load()
	rtest.OK(t, err)
	rtest.Equals(t, s, after)
}
