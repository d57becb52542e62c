package domain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/cover"

	"covrun.dev/pkg/covrun/internal/adapter"
	"covrun.dev/pkg/covrun/internal/controller"
	m "covrun.dev/pkg/covrun/internal/model"
	"covrun.dev/pkg/covrun/pkg/cov"
)

// MeasureArgs configures an instrumented test run.
type MeasureArgs struct {
	// Targets are the test packages to execute. Empty means ./...
	Targets []m.Path

	// Source is the instrumentation scope (-coverpkg patterns).
	Source []string

	// Profile is where the coverage dataset lands.
	Profile m.Path

	// Threads caps concurrent per-target runs when several targets are given.
	Threads int

	// Stdout and Stderr receive the test runner's output verbatim.
	Stdout io.Writer
	Stderr io.Writer
}

// ReportArgs configures report rendering.
type ReportArgs struct {
	Profile     m.Path
	Omit        []string
	ShowMissing bool
	Format      controller.Format
}

// MergeArgs configures merging several datasets into one.
type MergeArgs struct {
	Inputs []m.Path
	Output m.Path
}

// DiffArgs configures comparing two datasets.
type DiffArgs struct {
	Before m.Path
	After  m.Path
	Omit   []string

	// Output, when set, receives the block-level count delta as a dataset
	// of its own (after minus before).
	Output m.Path
}

// HTMLArgs configures line-coverage HTML rendering.
type HTMLArgs struct {
	Profile m.Path
	Output  m.Path
}

// ViewArgs configures the interactive report browser.
type ViewArgs struct {
	Profile m.Path
	Omit    []string
}

// Workflow is the top-level coverage harness: a measured test run followed
// by report rendering, plus the dataset utilities built on the same parts.
type Workflow interface {
	Measure(ctx context.Context, args MeasureArgs) error
	Report(ctx context.Context, args ReportArgs) error
	Merge(ctx context.Context, args MergeArgs) error
	Diff(ctx context.Context, args DiffArgs) error
	RenderHTML(ctx context.Context, args HTMLArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type harness struct {
	fs       adapter.SourceFSAdapter
	runner   adapter.TestRunnerAdapter
	profiles adapter.ProfileStore
	ui       controller.UI
}

// NewHarness constructs the Workflow backed by the provided adapters.
func NewHarness(
	fs adapter.SourceFSAdapter,
	runner adapter.TestRunnerAdapter,
	profiles adapter.ProfileStore,
	ui controller.UI,
) Workflow {
	return &harness{
		fs:       fs,
		runner:   runner,
		profiles: profiles,
		ui:       ui,
	}
}

// Measure runs the targets' tests under coverage instrumentation and leaves
// the dataset at args.Profile. The runner's exit status propagates through
// the returned error untranslated, so test failures and tool failures look
// exactly like the underlying invocation's.
func (h *harness) Measure(ctx context.Context, args MeasureArgs) error {
	targets := args.Targets
	if len(targets) == 0 {
		targets = []m.Path{"./..."}
	}

	if len(targets) == 1 {
		return h.runner.RunCoverTest(ctx, adapter.CoverTestArgs{
			WorkDir:  ".",
			Target:   targets[0],
			CoverPkg: args.Source,
			Profile:  args.Profile,
			Stdout:   args.Stdout,
			Stderr:   args.Stderr,
		})
	}

	return h.measureMany(ctx, args, targets)
}

// measureMany runs one instrumented invocation per target into partial
// datasets, then merges them into the final one. The merge only happens
// after every run finished, keeping the run-then-report ordering intact.
func (h *harness) measureMany(ctx context.Context, args MeasureArgs, targets []m.Path) error {
	threads := args.Threads
	if threads < 1 {
		threads = 1
	}

	tmpDir, err := h.fs.CreateTempDir("covrun-partial-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}

	defer func() {
		if err := h.fs.RemoveAll(tmpDir); err != nil {
			slog.Warn("failed to clean scratch dir", "dir", tmpDir, "error", err)
		}
	}()

	partials := make([]m.Path, len(targets))

	// Concurrent runs share the output writers; their writes have to be
	// serialized.
	stdout, stderr := sharedWriters(args.Stdout, args.Stderr)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, target := range targets {
		target := target
		partial := h.fs.JoinPath(string(tmpDir), fmt.Sprintf("partial-%d.out", i))
		partials[i] = partial

		group.Go(func() error {
			return h.runner.RunCoverTest(groupCtx, adapter.CoverTestArgs{
				WorkDir:  ".",
				Target:   target,
				CoverPkg: args.Source,
				Profile:  partial,
				Stdout:   stdout,
				Stderr:   stderr,
			})
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	sets := make([][]*cover.Profile, 0, len(partials))

	for _, partial := range partials {
		// Targets without test files produce no dataset.
		if !h.fs.FileExists(partial) {
			continue
		}

		profiles, err := h.profiles.Load(partial)
		if err != nil {
			return err
		}

		sets = append(sets, profiles)
	}

	if len(sets) == 0 {
		return fmt.Errorf("no coverage recorded for any of the %d targets", len(targets))
	}

	merged, err := cov.MergeProfiles(sets...)
	if err != nil {
		return fmt.Errorf("merge partial datasets: %w", err)
	}

	return h.profiles.Save(args.Profile, merged)
}

// Report loads the dataset written by Measure and renders the per-file
// summary. It fails with adapter.ErrNoData when Measure never ran in this
// directory.
func (h *harness) Report(ctx context.Context, args ReportArgs) error {
	summary, err := h.loadSummary(args.Profile, args.Omit)
	if err != nil {
		return err
	}

	return h.ui.DisplaySummary(ctx, summary, controller.SummaryOptions{
		ShowMissing: args.ShowMissing,
		Format:      args.Format,
	})
}

// Merge combines several datasets into one.
func (h *harness) Merge(ctx context.Context, args MergeArgs) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sets := make([][]*cover.Profile, 0, len(args.Inputs))

	for _, input := range args.Inputs {
		profiles, err := h.profiles.Load(input)
		if err != nil {
			return err
		}

		sets = append(sets, profiles)
	}

	merged, err := cov.MergeProfiles(sets...)
	if err != nil {
		return err
	}

	slog.Info("merged coverage datasets", "inputs", len(args.Inputs), "files", len(merged), "output", args.Output)

	return h.profiles.Save(args.Output, merged)
}

// Diff renders the per-file coverage movement between two datasets and,
// when an output path is given, writes the block-level count delta as a
// dataset of its own.
func (h *harness) Diff(ctx context.Context, args DiffArgs) error {
	if args.Output != "" {
		if err := h.writeBlockDelta(args); err != nil {
			return err
		}
	}

	before, err := h.loadSummary(args.Before, args.Omit)
	if err != nil {
		return err
	}

	after, err := h.loadSummary(args.After, args.Omit)
	if err != nil {
		return err
	}

	return h.ui.DisplayDiff(ctx, DiffSummaries(before, after))
}

func (h *harness) writeBlockDelta(args DiffArgs) error {
	before, err := h.profiles.Load(args.Before)
	if err != nil {
		return err
	}

	after, err := h.profiles.Load(args.After)
	if err != nil {
		return err
	}

	delta, err := cov.DiffProfiles(before, after)
	if err != nil {
		return err
	}

	slog.Info("wrote block-level delta dataset", "output", args.Output, "files", len(delta))

	return h.profiles.Save(args.Output, delta)
}

// RenderHTML shells out to the cover tool for line-level HTML.
func (h *harness) RenderHTML(ctx context.Context, args HTMLArgs) error {
	if !h.fs.FileExists(args.Profile) {
		return fmt.Errorf("%w: %s (run the instrumented tests first)", adapter.ErrNoData, args.Profile)
	}

	return h.runner.RenderHTML(ctx, ".", args.Profile, args.Output)
}

// View opens the interactive report browser.
func (h *harness) View(ctx context.Context, args ViewArgs) error {
	summary, err := h.loadSummary(args.Profile, args.Omit)
	if err != nil {
		return err
	}

	return h.ui.BrowseSummary(ctx, summary)
}

// syncWriter funnels writes from concurrent test runs onto one destination.
type syncWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.w.Write(p)
}

// sharedWriters wraps both writers behind a single mutex so interleaved
// stdout/stderr lines stay whole.
func sharedWriters(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	mu := &sync.Mutex{}

	if stdout != nil {
		stdout = &syncWriter{mu: mu, w: stdout}
	}

	if stderr != nil {
		stderr = &syncWriter{mu: mu, w: stderr}
	}

	return stdout, stderr
}

func (h *harness) loadSummary(profile m.Path, omit []string) (m.Summary, error) {
	profiles, err := h.profiles.Load(profile)
	if err != nil {
		return m.Summary{}, err
	}

	opts := SummarizeOptions{Omit: omit}

	// Repository-relative display paths are best effort: outside a module
	// the import paths are shown as-is.
	if root, rootErr := h.fs.FindProjectRoot("."); rootErr == nil {
		if module, modErr := h.fs.ModulePath(root); modErr == nil {
			opts.Module = module
		}
	}

	return Summarize(profiles, opts)
}
