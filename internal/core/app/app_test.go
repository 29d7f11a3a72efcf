package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"classmetrics/internal/core/config"
	"classmetrics/internal/core/errors"
	"classmetrics/internal/core/ports"
	"classmetrics/internal/data/history"
	"classmetrics/internal/engine/metric"
	"classmetrics/internal/engine/record"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu       sync.Mutex
	accepted map[string]int
	failed   map[string]error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{accepted: make(map[string]int), failed: make(map[string]error)}
}

func (s *recordingSink) Accept(path string, _ []*record.ClassRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accepted[filepath.Base(path)]++
}

func (s *recordingSink) NotifyError(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[filepath.Base(path)] = err
}

func (s *recordingSink) acceptedCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted[name]
}

func writeSource(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// project lays out a small package where Service extends Base and holds a
// Store, plus a test class and a generated file that scans must skip.
func project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeSource(t, root, "src/p/Base.java", "package p;\n\npublic class Base {}\n")
	writeSource(t, root, "src/p/Store.java", "package p;\n\npublic class Store {\n    int size() { return 0; }\n}\n")
	writeSource(t, root, "src/p/Service.java", `package p;

public class Service extends Base {
    private Store store;

    int run(int n) {
        if (n > 0) {
            return store.size();
        }
        return n;
    }
}
`)
	writeSource(t, root, "src/p/ServiceTest.java", "package p;\n\nclass ServiceTest {}\n")
	writeSource(t, root, "generated/p/Gen.java", "package p;\n\nclass Gen {}\n")
	return root
}

func testConfig(root string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scan.Roots = []string{root}
	cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, "generated")
	cfg.Engine.Workers = 2
	cfg.Output.Dir = filepath.Join(root, "out")
	return cfg
}

func classByName(classes []*record.ClassRecord, name string) *record.ClassRecord {
	for _, c := range classes {
		if c.ClassName == name {
			return c
		}
	}
	return nil
}

func TestScanDirectoriesAppliesFilters(t *testing.T) {
	root := project(t)
	a, err := New(testConfig(root), Dependencies{Summary: io.Discard})
	require.NoError(t, err)

	files, err := a.ScanDirectories([]string{root, root})
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"Base.java", "Service.java", "Store.java"}, names)
}

func TestScanDirectoriesIncludesTestsWhenConfigured(t *testing.T) {
	root := project(t)
	cfg := testConfig(root)
	cfg.Scan.IncludeTests = true
	cfg.Exclude.Files = []string{"Base*.java"}
	a, err := New(cfg, Dependencies{Summary: io.Discard})
	require.NoError(t, err)

	files, err := a.ScanDirectories([]string{root})
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "Service.java", filepath.Base(files[0]))
	assert.Equal(t, "ServiceTest.java", filepath.Base(files[1]))
}

func TestScanMissingRoot(t *testing.T) {
	a, err := New(testConfig(t.TempDir()), Dependencies{Summary: io.Discard})
	require.NoError(t, err)
	_, err = a.ScanDirectories([]string{filepath.Join(t.TempDir(), "absent")})
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestRunComputesCrossFileCoupling(t *testing.T) {
	root := project(t)
	sink := newRecordingSink()
	a, err := New(testConfig(root), Dependencies{Sink: sink, Summary: io.Discard})
	require.NoError(t, err)

	rep, err := a.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rep.Files, 3)
	assert.Empty(t, rep.Errors)
	require.Len(t, rep.Classes, 3)
	assert.Len(t, rep.Hashes, 3)

	service := classByName(rep.Classes, "p.Service")
	require.NotNil(t, service)
	assert.Equal(t, 2, service.FanOut)
	assert.Equal(t, 2, service.WMC)

	store := classByName(rep.Classes, "p.Store")
	require.NotNil(t, store)
	assert.Equal(t, 1, store.FanIn)

	base := classByName(rep.Classes, "p.Base")
	require.NotNil(t, base)
	assert.Equal(t, 1, base.NOC)

	assert.Equal(t, 1, sink.acceptedCount("Service.java"))
	assert.Equal(t, 1, sink.acceptedCount("Base.java"))
	assert.Equal(t, 2, rep.MethodCount())
}

func TestRunReportsFileErrors(t *testing.T) {
	root := project(t)
	writeSource(t, root, "src/p/Broken.java", "class Broken { void m( { }")

	cfg := testConfig(root)
	cfg.Engine.StrictParse = true
	sink := newRecordingSink()
	a, err := New(cfg, Dependencies{Sink: sink, Summary: io.Discard})
	require.NoError(t, err)

	rep, err := a.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, "Broken.java", filepath.Base(rep.Errors[0].Path))
	assert.True(t, errors.IsCode(rep.Errors[0].Err, errors.CodeParse))
	assert.Len(t, rep.Classes, 3)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Contains(t, sink.failed, "Broken.java")
}

// lateFailure builds fine during registry validation and fails once a
// traversal hands it a resolver.
type lateFailure struct{ metric.Base }

func (lateFailure) FinalizeClass(*record.ClassRecord) {}

func TestRunAbortsOnPluginConstructionFailure(t *testing.T) {
	root := project(t)
	registry, err := metric.NewRegistry(metric.Definition{
		Name: "late",
		Class: func(env metric.Env) (metric.ClassMetric, error) {
			if env.Resolver != nil {
				return nil, fmt.Errorf("no state for %T", env.Resolver)
			}
			return lateFailure{}, nil
		},
	})
	require.NoError(t, err)

	sink := newRecordingSink()
	a, err := New(testConfig(root), Dependencies{Registry: registry, Sink: sink, Summary: io.Discard})
	require.NoError(t, err)

	rep, err := a.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, rep)
	assert.True(t, errors.IsCode(err, errors.CodeConstruction))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Empty(t, sink.failed)
}

func TestRunCancelled(t *testing.T) {
	root := project(t)
	a, err := New(testConfig(root), Dependencies{Summary: io.Discard})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsUnknownDisabledMetric(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Engine.DisabledMetrics = []string{"halstead"}
	_, err := New(cfg, Dependencies{})
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestDisabledMetricLeavesValueZero(t *testing.T) {
	root := project(t)
	cfg := testConfig(root)
	cfg.Engine.DisabledMetrics = []string{"wmc"}
	a, err := New(cfg, Dependencies{Summary: io.Discard})
	require.NoError(t, err)

	rep, err := a.Run(context.Background(), nil)
	require.NoError(t, err)
	service := classByName(rep.Classes, "p.Service")
	require.NotNil(t, service)
	assert.Zero(t, service.WMC)
}

func TestReconfigure(t *testing.T) {
	root := project(t)
	a, err := New(testConfig(root), Dependencies{Summary: io.Discard})
	require.NoError(t, err)

	bad := testConfig(root)
	bad.Exclude.Files = []string{"[abc"}
	assert.True(t, errors.IsCode(a.Reconfigure(bad), errors.CodeValidationError))
	assert.Equal(t, 2, a.Config().Engine.Workers)

	next := testConfig(root)
	next.Engine.Workers = 5
	require.NoError(t, a.Reconfigure(next))
	assert.Equal(t, 5, a.Config().Engine.Workers)
}

func TestRunScanWritesOutputsAndHistory(t *testing.T) {
	root := project(t)
	cfg := testConfig(root)
	cfg.Output.Formats = []string{config.FormatCSV, config.FormatJSON, config.FormatMarkdown}
	cfg.Output.VariablesAndFields = true
	cfg.DB.Enabled = true
	cfg.DB.Project = "shop"

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var summary bytes.Buffer
	a, err := New(cfg, Dependencies{History: store, Summary: &summary})
	require.NoError(t, err)

	res, err := a.RunScan(context.Background(), ports.ScanRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 3, res.Classes)
	assert.Zero(t, res.Errors)

	for _, name := range []string{ClassCSV, MethodCSV, VariableCSV, FieldCSV, MetricsJSON, HotspotsMD} {
		path := filepath.Join(cfg.Output.Dir, name)
		assert.Contains(t, res.Written, path)
		assert.FileExists(t, path)
	}

	classCSV, err := os.ReadFile(filepath.Join(cfg.Output.Dir, ClassCSV))
	require.NoError(t, err)
	assert.Contains(t, string(classCSV), "p.Service")

	assert.Contains(t, summary.String(), "files 3")
	assert.Contains(t, summary.String(), res.RunID)

	runs, err := store.LatestRuns(context.Background(), "shop", 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)
	assert.Equal(t, 3, runs[0].Classes)

	trend, err := a.ClassTrend(context.Background(), "p.Service", 5)
	require.NoError(t, err)
	require.Len(t, trend, 1)
	assert.Equal(t, 2, trend[0].WMC)
}

func TestClassTrendWithoutHistory(t *testing.T) {
	a, err := New(testConfig(t.TempDir()), Dependencies{Summary: io.Discard})
	require.NoError(t, err)
	_, err = a.ClassTrend(context.Background(), "p.A", 5)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestChangedSinceLastRun(t *testing.T) {
	root := project(t)
	a, err := New(testConfig(root), Dependencies{Summary: io.Discard})
	require.NoError(t, err)
	rep, err := a.Run(context.Background(), nil)
	require.NoError(t, err)

	service := filepath.Join(root, "src", "p", "Service.java")
	require.Contains(t, rep.Files, service)
	assert.False(t, a.changedSinceLastRun([]string{service}))

	// Rewriting identical bytes is not a change.
	content, err := os.ReadFile(service)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(service, content, 0o644))
	assert.False(t, a.changedSinceLastRun([]string{service}))

	require.NoError(t, os.WriteFile(service, append(content, '\n'), 0o644))
	assert.True(t, a.changedSinceLastRun([]string{service}))

	fresh := writeSource(t, root, "src/p/Fresh.java", "class Fresh {}")
	assert.True(t, a.changedSinceLastRun([]string{fresh}))

	base := filepath.Join(root, "src", "p", "Base.java")
	require.NoError(t, os.Remove(base))
	assert.True(t, a.changedSinceLastRun([]string{base}))

	assert.False(t, a.changedSinceLastRun([]string{filepath.Join(root, "never.java")}))
}

func TestWatchRerunsOnChange(t *testing.T) {
	root := project(t)
	cfg := testConfig(root)
	cfg.Watch.Debounce = 20 * time.Millisecond
	cfg.Watch.MaxRerunsPerMinute = 0

	sink := newRecordingSink()
	a, err := New(cfg, Dependencies{Sink: sink, Summary: io.Discard})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, nil) }()

	require.Eventually(t, func() bool {
		return sink.acceptedCount("Store.java") == 1
	}, 5*time.Second, 10*time.Millisecond)

	// Keep editing until a rerun is seen; the first edit may land before
	// the watches are registered.
	edit := 0
	require.Eventually(t, func() bool {
		edit++
		writeSource(t, root, "src/p/Store.java",
			fmt.Sprintf("package p;\n\npublic class Store {\n    // edit %d\n}\n", edit))
		return sink.acceptedCount("Store.java") >= 2
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchRebuildsWatcherOnReconfigure(t *testing.T) {
	root := project(t)
	cfg := testConfig(root)
	cfg.Watch.Debounce = 20 * time.Millisecond
	cfg.Watch.MaxRerunsPerMinute = 0

	sink := newRecordingSink()
	a, err := New(cfg, Dependencies{Sink: sink, Summary: io.Discard})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, nil) }()

	require.Eventually(t, func() bool {
		return sink.acceptedCount("Store.java") == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Zero(t, sink.acceptedCount("ServiceTest.java"))

	next := testConfig(root)
	next.Scan.IncludeTests = true
	next.Watch.Debounce = 20 * time.Millisecond
	next.Watch.MaxRerunsPerMinute = 0
	require.NoError(t, a.Reconfigure(next))

	require.Eventually(t, func() bool {
		return sink.acceptedCount("ServiceTest.java") == 1
	}, 5*time.Second, 10*time.Millisecond)

	// Test sources only reach the rerun loop through the rebuilt watcher.
	edit := 0
	require.Eventually(t, func() bool {
		edit++
		writeSource(t, root, "src/p/ServiceTest.java",
			fmt.Sprintf("package p;\n\nclass ServiceTest {\n    // edit %d\n}\n", edit))
		return sink.acceptedCount("ServiceTest.java") >= 2
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
