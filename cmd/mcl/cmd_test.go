// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/kkx/mcl/internal/config"
	"github.com/kkx/mcl/internal/testutil/remotetest"
)

type stubConfigProvider struct {
	cfg *config.Config
	err error
}

func (p stubConfigProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return p.cfg, p.err
}

// testCLI runs commands against a data directory in t.TempDir() and the
// fake distribution server srv.
type testCLI struct {
	t      *testing.T
	cfg    *config.Config
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newTestCLI(t *testing.T, srv *remotetest.Server) *testCLI {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.ManifestURL = srv.ManifestURL()
	cfg.ResourcesURL = srv.ResourcesURL()
	return &testCLI{t: t, cfg: cfg}
}

// run executes args and returns the error. Output accumulates in stdout and
// stderr across calls.
func (c *testCLI) run(args ...string) error {
	c.t.Helper()
	app := NewApp(Dependencies{
		Config: stubConfigProvider{cfg: c.cfg},
		Stdout: &c.stdout,
		Stderr: &c.stderr,
	})
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

// mustRun executes args, fails the test on error, and returns what the
// command wrote to stdout.
func (c *testCLI) mustRun(args ...string) string {
	c.t.Helper()
	c.stdout.Reset()
	if err := c.run(args...); err != nil {
		c.t.Fatalf("mcl %v: %v\nstderr:\n%s", args, err, c.stderr.String())
	}
	return c.stdout.String()
}
