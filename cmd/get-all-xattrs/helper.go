package main

import (
	"io"

	"github.com/restic/get-all-xattrs/internal/capability"
	"github.com/restic/get-all-xattrs/internal/debug"
	"github.com/restic/get-all-xattrs/internal/errors"
	"github.com/restic/get-all-xattrs/internal/feature"
	"github.com/restic/get-all-xattrs/internal/xattrdump"
)

// runHelper raises the capability, then dumps the attributes of every path
// read from stdin, one path at a time. The first error ends the run.
func runHelper(gopts GlobalOptions, backend capability.Backend, src xattrdump.Source) error {
	elevated, err := capability.Elevate(backend)
	if err != nil {
		return err
	}

	d, err := xattrdump.New(elevated, src, gopts.stdout, xattrdump.Options{
		TerminateEmptyValues: feature.Flag.Enabled(feature.TerminateEmptyValues),
		RetrySizeChanges:     feature.Flag.Enabled(feature.RetrySizeChanges),
	})
	if err != nil {
		return err
	}

	paths := xattrdump.NewPathReader(gopts.stdin)
	for n := 0; ; n++ {
		path, err := paths.Next()
		if err == io.EOF {
			debug.Log("done, %d paths", n)
			return nil
		}
		if err != nil {
			return errors.Fatalf("%v", err)
		}

		if err := d.Dump(path); err != nil {
			// partial output is kept
			_ = d.Flush()
			return errors.Fatalf("%v", err)
		}
	}
}
