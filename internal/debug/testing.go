package debug

import (
	"io"
	"log"
	"testing"
)

// TestLogTo configures debug to log every message to w until the test ends.
func TestLogTo(t testing.TB, w io.Writer) {
	prev := opts
	opts.logger = log.New(w, "", 0)
	opts.isEnabled = true

	t.Cleanup(func() {
		opts = prev
	})
}

// TestDisableLog turns off debug logging until the test ends.
func TestDisableLog(t testing.TB) {
	prev := opts
	opts.logger = nil
	opts.isEnabled = false

	t.Cleanup(func() {
		opts = prev
	})
}
