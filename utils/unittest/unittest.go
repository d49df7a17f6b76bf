package unittest

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// RequirePanicsWith requires that f panics with a value whose string form contains expectedMsg.
func RequirePanicsWith(t testing.TB, expectedMsg string, f func()) {
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected to panic with `%s`, but did not panic", expectedMsg)
		require.Contains(t, fmt.Sprint(r), expectedMsg)
	}()
	f()
}

// RequireReturnsBefore requires that the given function returns before the
// duration expires.
func RequireReturnsBefore(t testing.TB, f func(), duration time.Duration, message string) {
	done := make(chan struct{})

	go func() {
		f()
		close(done)
	}()

	select {
	case <-time.After(duration):
		require.Fail(t, "function did not return in time: "+message)
	case <-done:
		return
	}
}

func TempDir(t testing.TB) string {
	dir, err := os.MkdirTemp("", "slotpool-testing-temp-")
	require.NoError(t, err)
	return dir
}

func RunWithTempDir(t testing.TB, f func(string)) {
	dir := TempDir(t)
	defer os.RemoveAll(dir)
	f(dir)
}

// CrashTest runs f in a child test process and checks that the process exits with a failure
// after writing expectedErrorMsg. runTestName is the name of the test calling CrashTest.
func CrashTest(t *testing.T, f func(*testing.T), expectedErrorMsg string, runTestName string) {
	if os.Getenv("CRASH_TEST") == "1" {
		f(t)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run="+runTestName)
	cmd.Env = append(os.Environ(), "CRASH_TEST=1")

	out, err := cmd.CombinedOutput()
	require.Contains(t, string(out), expectedErrorMsg)

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "test %s did not crash: %v", runTestName, err)
	require.False(t, exitErr.Success())
}
