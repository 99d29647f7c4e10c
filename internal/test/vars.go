package test

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

var (
	TestCleanupTempDirs         = getBoolVar("XATTR_HELPER_TEST_CLEANUP", true)
	TestTempDir                 = getStringVar("XATTR_HELPER_TEST_TMPDIR", "")
	TestIntegrationDisallowSkip = getStringVar("XATTR_HELPER_TEST_DISALLOW_SKIP", "")
)

func getStringVar(name, defaultValue string) string {
	if e := os.Getenv(name); e != "" {
		return e
	}

	return defaultValue
}

func getBoolVar(name string, defaultValue bool) bool {
	if e := os.Getenv(name); e != "" {
		switch e {
		case "1", "true":
			return true
		case "0", "false":
			return false
		default:
			fmt.Fprintf(os.Stderr, "invalid value for variable %q, using default\n", name)
		}
	}

	return defaultValue
}

// SkipDisallowed fails the test if it needs to run. The environment
// variable XATTR_HELPER_TEST_DISALLOW_SKIP contains a comma-separated list of
// test names that must be run. If name is in this list, the test is marked as
// failed.
func SkipDisallowed(t testing.TB, name string) {
	t.Helper()
	for _, s := range strings.Split(TestIntegrationDisallowSkip, ",") {
		if s == name {
			t.Fatalf("test %v is in list of tests that need to run ($XATTR_HELPER_TEST_DISALLOW_SKIP)", name)
		}
	}
}
