// Package capability raises CAP_SYS_ADMIN into the effective set of the
// running process. The process must already hold the capability in its
// permitted set, e.g. via `setcap cap_sys_admin=p get-all-xattrs`.
//
// Capability state is modeled as an explicit State value which a Backend
// loads from and commits to the kernel. Elevate returns an *Elevated token;
// code that needs the raised capability takes that token as a constructor
// argument instead of relying on process-global state.
package capability
