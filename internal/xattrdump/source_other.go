//go:build !linux

package xattrdump

// SyscallSource is not available on this platform, all calls fail with
// ErrUnsupported.
type SyscallSource struct{}

var _ Source = SyscallSource{}

func (SyscallSource) Listxattr(string, []byte) (int, error) {
	return -1, ErrUnsupported
}

func (SyscallSource) Getxattr(string, string, []byte) (int, error) {
	return -1, ErrUnsupported
}
