package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-slotpool/config"
	"github.com/onflow/flow-slotpool/module/irrecoverable"
	"github.com/onflow/flow-slotpool/module/metrics"
	"github.com/onflow/flow-slotpool/module/slotpool"
	"github.com/onflow/flow-slotpool/utils/unittest"
)

// runSession feeds the input lines to a shell over the backend and returns the printed lines,
// banner excluded.
func runSession(t *testing.T, backend *slotpool.Backend, input ...string) []string {
	out := &bytes.Buffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signalerCtx := irrecoverable.NewMockSignalerContext(t, ctx)

	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	var err error
	unittest.RequireReturnsBefore(t, func() {
		err = NewRepl(backend, in, out, unittest.Logger()).Run(signalerCtx)
	}, time.Second, "shell did not return")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Contains(t, lines[0], "slot pool ready")
	return lines[1:]
}

func newBackend(capacity uint32) *slotpool.Backend {
	return slotpool.NewBackend(capacity, unittest.Logger(), metrics.NewNoopCollector())
}

func TestRepl_Session(t *testing.T) {
	lines := runSession(t, newBackend(4),
		"insert 1 10",
		"insert 2 20",
		"insert 3 30",
		"traverse",
		"remove 2",
		"",
		"remove",
		"traverse",
		"size",
		"exit",
		"insert 4 40", // never read
	)

	require.Equal(t, []string{
		"inserted {key: 1, value: 10}",
		"inserted {key: 2, value: 20}",
		"inserted {key: 3, value: 30}",
		"{key: 1, value: 10}",
		"{key: 2, value: 20}",
		"{key: 3, value: 30}",
		"removed {key: 2, value: 20}",
		"removed {key: 1, value: 10}",
		"{key: 3, value: 30}",
		"1 of 4 slots live (partial)",
	}, lines)
}

func TestRepl_Errors(t *testing.T) {
	backend := newBackend(1)
	lines := runSession(t, backend,
		"remove",
		"traverse",
		"insert 1 10",
		"insert 2 20",
		"remove 7",
		"insert 1",
		"insert one 10",
		"remove 1 2",
		"frobnicate",
		"check",
	)

	require.Equal(t, []string{
		"error: slot pool is empty",
		"error: slot pool is empty",
		"inserted {key: 1, value: 10}",
		"error: slot pool is full",
		"error: no live payload with key 7: key not found in slot pool",
		"error: usage: insert <key> <value>",
		`error: invalid key "one": not an integer`,
		"error: usage: remove [key]",
		`unknown command "frobnicate", type help for the list of commands`,
		"pool is consistent",
	}, lines)
	// rejected commands leave the pool untouched.
	require.Equal(t, uint32(1), backend.Size())
}

// TestRepl_EOF ensures the end of the input ends the shell, whatever the last command was.
func TestRepl_EOF(t *testing.T) {
	backend := newBackend(2)
	lines := runSession(t, backend, "insert 5 50", "QUIT")
	require.Equal(t, []string{"inserted {key: 5, value: 50}"}, lines)

	lines = runSession(t, backend, "reset")
	require.Equal(t, []string{"pool reset, 2 slots free"}, lines)
	require.Equal(t, uint32(0), backend.Size())
}

func TestRepl_Help(t *testing.T) {
	lines := runSession(t, newBackend(1), "help")
	require.Len(t, lines, len(commands))
	for i, c := range commands {
		assert.Contains(t, lines[i], c.usage())
		assert.Contains(t, lines[i], c.help)
	}
}

func TestRepl_Debug(t *testing.T) {
	lines := runSession(t, newBackend(2), "insert 1 10", "debug")
	dump := strings.Join(lines[1:], "\n")
	assert.Contains(t, dump, "(slotlist.DebugView)")
	assert.Contains(t, dump, "Capacity: (uint32) 2")
	assert.Contains(t, dump, "Size: (uint32) 1")
	assert.Contains(t, dump, "FreeSize: (uint32) 1")
}

// TestRepl_SaveLoad ensures payloads saved by one shell are loaded back by another, in order.
func TestRepl_SaveLoad(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		path := filepath.Join(dir, "pool.cbor")

		lines := runSession(t, newBackend(3),
			"insert 1 10",
			"insert 2 20",
			"insert 3 30",
			"remove 1",
			"insert 4 40",
			"save "+path,
		)
		require.Equal(t, "saved 3 payloads to "+path, lines[len(lines)-1])

		target := newBackend(3)
		lines = runSession(t, target, "insert 9 90", "load "+path, "traverse")
		require.Equal(t, []string{
			"inserted {key: 9, value: 90}",
			"loaded 3 payloads from " + path,
			"{key: 2, value: 20}",
			"{key: 3, value: 30}",
			"{key: 4, value: 40}",
		}, lines)

		// a snapshot larger than the pool is rejected, and the pool keeps its payloads.
		lines = runSession(t, newBackend(2), "insert 9 90", "load "+path, "traverse")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[1], "error: snapshot holds 3 payloads, pool has 2 slots")
		assert.Equal(t, "{key: 9, value: 90}", lines[2])

		lines = runSession(t, newBackend(2), "load "+filepath.Join(dir, "missing"))
		require.Len(t, lines, 1)
		assert.True(t, strings.HasPrefix(lines[0], "error: could not read snapshot"))
	})
}

// TestRun_MetricsServer runs the whole driver with metrics enabled and scrapes the server while
// the shell is waiting for input.
func TestRun_MetricsServer(t *testing.T) {
	c, err := config.DefaultConfig()
	require.NoError(t, err)
	c.Capacity = 4
	c.Metrics.Enabled = true
	c.Metrics.Namespace = "test"
	c.Metrics.Port = uint(unittest.FreePort(t))

	in, writer := io.Pipe()
	out := &bytes.Buffer{}
	done := make(chan error, 1)
	go func() {
		done <- run(context.Background(), c, unittest.Logger(), in, out)
	}()

	_, err = fmt.Fprintln(writer, "insert 1 10")
	require.NoError(t, err)

	url := fmt.Sprintf("http://localhost:%d/metrics", c.Metrics.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return false
		}
		return strings.Contains(string(body), "test_slots_default_live_count 1")
	}, 5*time.Second, 50*time.Millisecond)

	// closing the input ends the shell, which stops the server.
	require.NoError(t, writer.Close())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not stop after the input was closed")
	}
}

// TestRun_Cancelled ensures the driver stops when its context is cancelled while the shell waits for input.
func TestRun_Cancelled(t *testing.T) {
	c, err := config.DefaultConfig()
	require.NoError(t, err)

	in, writer := io.Pipe()
	defer writer.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, c, unittest.Logger(), in, io.Discard)
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not stop after cancellation")
	}
}
