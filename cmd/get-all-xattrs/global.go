package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/restic/get-all-xattrs/internal/feature"
)

// GlobalOptions hold the options and streams shared by all commands.
type GlobalOptions struct {
	Features string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

var globalOptions = GlobalOptions{
	stdin:  os.Stdin,
	stdout: os.Stdout,
	stderr: os.Stderr,
}

func (opts *GlobalOptions) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&opts.Features, "features", os.Getenv(feature.EnvName), "comma-separated list of feature flags `name[=bool]` to change (default: $"+feature.EnvName+")")
}

// PreRun applies the selected feature flags.
func (opts *GlobalOptions) PreRun() error {
	return feature.Flag.Apply(opts.Features, func(s string) {
		_, _ = fmt.Fprintln(opts.stderr, s)
	})
}
