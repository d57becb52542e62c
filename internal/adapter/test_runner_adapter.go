package adapter

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	m "covrun.dev/pkg/covrun/internal/model"
)

// CoverTestArgs configures a single instrumented `go test` invocation.
type CoverTestArgs struct {
	// WorkDir is the directory the test runner executes in. The coverage
	// dataset path is resolved relative to it.
	WorkDir m.Path

	// Target is the package (or pattern) whose tests run.
	Target m.Path

	// CoverPkg is the instrumentation scope passed to -coverpkg. When empty
	// the runner instruments only the tested packages.
	CoverPkg []string

	// Profile is the coverage dataset the run writes.
	Profile m.Path

	// Stdout and Stderr receive the runner's own output verbatim.
	Stdout io.Writer
	Stderr io.Writer
}

// TestRunnerAdapter abstracts the Go toolchain invocations the harness makes.
type TestRunnerAdapter interface {
	// RunCoverTest runs `go test -coverprofile` for the given target.
	// Test failures and tool failures both come back as the command's
	// error, carrying the child exit status.
	RunCoverTest(ctx context.Context, args CoverTestArgs) error

	// RenderHTML runs `go tool cover -html` over an existing dataset.
	RenderHTML(ctx context.Context, workDir, profile, output m.Path) error
}

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct {
	timeout time.Duration
}

// DefaultTestTimeout bounds a single instrumented test invocation.
const DefaultTestTimeout = 10 * time.Minute

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter with the
// default timeout.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{timeout: DefaultTestTimeout}
}

// NewLocalTestRunnerAdapterWithTimeout constructs a LocalTestRunnerAdapter
// with a caller-chosen timeout.
func NewLocalTestRunnerAdapterWithTimeout(timeout time.Duration) *LocalTestRunnerAdapter {
	if timeout <= 0 {
		timeout = DefaultTestTimeout
	}

	return &LocalTestRunnerAdapter{timeout: timeout}
}

// RunCoverTest runs `go test` with coverage instrumentation for one target.
func (a *LocalTestRunnerAdapter) RunCoverTest(ctx context.Context, args CoverTestArgs) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", coverTestCmdArgs(args)...)
	cmd.Dir = string(args.WorkDir)
	cmd.Stdout = args.Stdout
	cmd.Stderr = args.Stderr

	slog.Debug("running instrumented tests", "target", args.Target, "profile", args.Profile, "coverpkg", args.CoverPkg)

	return cmd.Run()
}

func coverTestCmdArgs(args CoverTestArgs) []string {
	cmdArgs := []string{"test", "-coverprofile=" + string(args.Profile)}
	if len(args.CoverPkg) > 0 {
		cmdArgs = append(cmdArgs, "-coverpkg="+strings.Join(args.CoverPkg, ","))
	}

	return append(cmdArgs, string(args.Target))
}

// RenderHTML renders a dataset into line-level HTML via the cover tool.
func (a *LocalTestRunnerAdapter) RenderHTML(ctx context.Context, workDir, profile, output m.Path) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "tool", "cover", "-html="+string(profile), "-o", string(output))
	cmd.Dir = string(workDir)

	slog.Debug("rendering line coverage html", "profile", profile, "output", output)

	return cmd.Run()
}
