// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir makes dir the user's home for the rest of the test and clears
// the variables that would otherwise take precedence when the mcpick config
// directory is resolved (XDG_CONFIG_HOME, APPDATA). The returned function
// restores every variable it touched.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	var restores []func()
	if runtime.GOOS == "windows" {
		restores = append(restores, MustSetenv(t, "USERPROFILE", dir), MustUnsetenv(t, "APPDATA"))
	} else {
		restores = append(restores, MustSetenv(t, "HOME", dir), MustUnsetenv(t, "XDG_CONFIG_HOME"))
	}

	return func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}
}
