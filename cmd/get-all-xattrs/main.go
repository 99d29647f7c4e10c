package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/restic/get-all-xattrs/internal/capability"
	"github.com/restic/get-all-xattrs/internal/debug"
	"github.com/restic/get-all-xattrs/internal/errors"
	"github.com/restic/get-all-xattrs/internal/xattrdump"
)

func init() {
	// don't import `go.uber.org/automaxprocs` to disable the log output
	_, _ = maxprocs.Set()
}

func newRootCommand(gopts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-all-xattrs",
		Short: "Print all extended attributes of the paths read from stdin",
		Long: `
get-all-xattrs reads NUL-separated paths from stdin and prints the extended
attributes of each path, including those in the trusted namespace, which
require CAP_SYS_ADMIN to be listed. Symbolic links are not followed.

The helper only raises CAP_SYS_ADMIN into its effective set, the capability
must already be permitted:

    setcap cap_sys_admin=p get-all-xattrs

OUTPUT
======

For every attribute the hex encoded name is printed, followed by a space, the
hex encoded value and a newline. For an empty value only the name is printed,
without a newline. The attributes of each path are followed by a line "--".

EXIT STATUS
===========

Exit status is 0 if all paths were processed.
Exit status is 1 if an attribute could not be listed or read.
Exit status is 10 if CAP_SYS_ADMIN could not be raised.
Exit status is 11 if the kernel does not support CAP_SYS_ADMIN.
Exit status is 12 if the process capabilities could not be read.
`,
		Args:              cobra.NoArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return gopts.PreRun()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runHelper(*gopts, capability.ProcBackend{}, xattrdump.SyscallSource{})
		},
	}

	gopts.AddFlags(cmd.PersistentFlags())

	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(
		newFeaturesCommand(gopts),
		newVersionCommand(gopts),
	)

	return cmd
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, capability.ErrNotPermitted):
		return 10
	case errors.Is(err, capability.ErrUnsupported):
		return 11
	case errors.Is(err, capability.ErrLoad):
		return 12
	default:
		return 1
	}
}

func exitMessage(err error) string {
	var msg string
	if errors.IsFatal(err) {
		msg = err.Error()
	} else {
		msg = fmt.Sprintf("%+v", err)
	}

	if hint := errors.Hint(err); hint != "" {
		msg += "\n  " + hint
	}
	return msg
}

func main() {
	debug.Log("main %#v", os.Args)
	debug.Log("get-all-xattrs %s compiled with %v on %v/%v",
		version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	err := newRootCommand(&globalOptions).Execute()

	code := exitCode(err)
	if code != 0 {
		_, _ = fmt.Fprintln(globalOptions.stderr, exitMessage(err))
	}
	os.Exit(code)
}
