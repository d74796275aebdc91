package testutil

import "testing"

// RequireDocker skips container-backed tests in -short mode.
func RequireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
}
