package feature_test

import (
	"testing"

	"github.com/restic/get-all-xattrs/internal/feature"
	rtest "github.com/restic/get-all-xattrs/internal/test"
)

func TestSetFeatureFlag(t *testing.T) {
	flags := buildTestFlagSet()
	rtest.Assert(t, !flags.Enabled(alpha), "expected alpha feature to be disabled")

	t.Run("enable", func(t *testing.T) {
		feature.TestSetFlag(t, flags, alpha, true)
		rtest.Assert(t, flags.Enabled(alpha), "expected alpha feature to be enabled")
	})

	rtest.Assert(t, !flags.Enabled(alpha), "expected alpha feature to be disabled again")
}
