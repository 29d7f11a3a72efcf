package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"classmetrics/internal/core/errors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), time.Second)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func snapshotAt(project string, at time.Time, wmc int) Snapshot {
	return Snapshot{
		Run: Run{Project: project, StartedAt: at, Duration: 1500 * time.Millisecond, Files: 1, Classes: 1, Methods: 1},
		Classes: []ClassRow{
			{File: "src/Shop.java", Class: "com.acme.Shop", Kind: "class", ContentHash: "ab12", LOC: 20, WMC: wmc, CBO: 2, RFC: 3, LCOM: 1},
		},
		Methods: []MethodRow{
			{Class: "com.acme.Shop", Method: "count/1[int]", Line: 9, LOC: 6, WMC: wmc, Params: 1},
		},
	}
}

func TestStore_SaveRunAndLatestRuns(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

	first, err := store.SaveRun(ctx, snapshotAt("shop", base, 3))
	if err != nil {
		t.Fatalf("save first run: %v", err)
	}
	second, err := store.SaveRun(ctx, snapshotAt("shop", base.Add(time.Hour), 5))
	if err != nil {
		t.Fatalf("save second run: %v", err)
	}
	if first == "" || first == second {
		t.Fatalf("expected distinct generated run ids, got %q and %q", first, second)
	}

	runs, err := store.LatestRuns(ctx, "shop", 10)
	if err != nil {
		t.Fatalf("latest runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second {
		t.Fatalf("expected newest run first, got %+v", runs[0])
	}
	if runs[1].Duration != 1500*time.Millisecond || !runs[1].StartedAt.Equal(base) {
		t.Fatalf("expected run header to roundtrip, got %+v", runs[1])
	}

	limited, err := store.LatestRuns(ctx, "shop", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d runs", len(limited))
	}
}

func TestStore_ClassTrendDeltas(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

	for i, wmc := range []int{3, 5, 4} {
		if _, err := store.SaveRun(ctx, snapshotAt("shop", base.Add(time.Duration(i)*time.Hour), wmc)); err != nil {
			t.Fatal(err)
		}
	}

	points, err := store.ClassTrend(ctx, "shop", "com.acme.Shop", 2)
	if err != nil {
		t.Fatalf("class trend: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected the last 2 points, got %d", len(points))
	}
	if points[0].WMC != 5 || points[1].WMC != 4 {
		t.Fatalf("expected oldest-first order, got %+v", points)
	}
	if points[0].DeltaWMC != 0 || points[1].DeltaWMC != -1 {
		t.Fatalf("unexpected deltas: %+v", points)
	}
}

func TestStore_ProjectIsolation(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

	if _, err := store.SaveRun(ctx, snapshotAt("project-a", base, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(ctx, snapshotAt("", base, 2)); err != nil {
		t.Fatal(err)
	}

	aRuns, err := store.LatestRuns(ctx, "project-a", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(aRuns) != 1 {
		t.Fatalf("unexpected project-a runs: %+v", aRuns)
	}

	defaults, err := store.ClassTrend(ctx, "default", "com.acme.Shop", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(defaults) != 1 || defaults[0].WMC != 2 {
		t.Fatalf("expected blank project to map to default, got %+v", defaults)
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir(), time.Second)
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	if err := os.WriteFile(path, []byte("this is not sqlite, padded well past the header size"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path, time.Second)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	if !errors.IsCode(err, errors.CodePersistence) {
		t.Fatalf("expected persistence error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = EnsureSchema(db)
	if err == nil {
		t.Fatal("expected drift error")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsCorruptError(t *testing.T) {
	if IsCorruptError(nil) || IsCorruptError(sql.ErrConnDone) {
		t.Fatal("expected ordinary errors not to be treated as corrupt")
	}
	if !IsCorruptError(errors.New(errors.CodePersistence, "database disk image is malformed")) {
		t.Fatal("expected malformed sqlite message to be treated as corrupt")
	}
}
