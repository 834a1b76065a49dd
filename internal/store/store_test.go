package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/hargabyte/agentsizer/internal/scenario"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(BackendSQLite, filepath.Join(t.TempDir(), "nested", "scenarios.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testScenario(id string) scenario.Scenario {
	return scenario.Scenario{
		ID:   id,
		Name: "Claims intake",
		TargetScores: scenario.Scores{
			scenario.DimUserReach:       3,
			scenario.DimDataSensitivity: 2,
		},
		Systems:  []string{"SAP S/4HANA"},
		Metadata: scenario.Metadata{Organization: "Contoso"},
		Costs:    scenario.CostAssumptions{Users: 250},
	}
}

func contentHash(t *testing.T, sc scenario.Scenario) string {
	t.Helper()
	h, err := scenario.Hash(sc)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	return h
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("postgres", t.TempDir()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestSaveAndGetScenario(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if s.Backend() != BackendSQLite {
		t.Errorf("expected backend sqlite, got %s", s.Backend())
	}

	want := testScenario("sc-1")
	if err := s.SaveScenario(ctx, want); err != nil {
		t.Fatalf("SaveScenario failed: %v", err)
	}

	got, err := s.GetScenario(ctx, "sc-1")
	if err != nil {
		t.Fatalf("GetScenario failed: %v", err)
	}
	if contentHash(t, got) != contentHash(t, want) {
		t.Errorf("expected round trip to preserve content, got hash %s want %s",
			contentHash(t, got), contentHash(t, want))
	}
	if got.TargetScores[scenario.DimUserReach] != 3 {
		t.Errorf("expected user reach 3, got %d", got.TargetScores[scenario.DimUserReach])
	}
}

func TestGetScenario_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetScenario(context.Background(), "missing")
	if !errors.Is(err, scenario.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveScenario_MissingID(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveScenario(context.Background(), scenario.Scenario{Name: "x"}); err == nil {
		t.Error("expected error for scenario without id")
	}
}

func TestSaveScenario_NonFiniteRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc := testScenario("nan")
	sc.Costs.StorageGB = math.NaN()
	if err := s.SaveScenario(ctx, sc); !errors.Is(err, scenario.ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}

	if _, err := s.GetScenario(ctx, "nan"); !errors.Is(err, scenario.ErrNotFound) {
		t.Errorf("expected nothing stored, got %v", err)
	}
}

func TestSaveScenario_UpdateKeepsCreatedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return t0 }
	sc := testScenario("sc-1")
	if err := s.SaveScenario(ctx, sc); err != nil {
		t.Fatal(err)
	}

	t1 := t0.Add(time.Hour)
	s.now = func() time.Time { return t1 }
	sc.Name = "Claims intake v2"
	if err := s.SaveScenario(ctx, sc); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListScenarios(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 scenario after update, got %d", len(list))
	}
	row := list[0]
	if row.Name != "Claims intake v2" {
		t.Errorf("expected updated name, got %s", row.Name)
	}
	if !row.CreatedAt.Equal(t0) {
		t.Errorf("expected created_at %v, got %v", t0, row.CreatedAt)
	}
	if !row.UpdatedAt.Equal(t1) {
		t.Errorf("expected updated_at %v, got %v", t1, row.UpdatedAt)
	}
	if row.ContentHash != contentHash(t, sc) {
		t.Errorf("expected hash %s, got %s", contentHash(t, sc), row.ContentHash)
	}
	if row.Mode != "full" {
		t.Errorf("expected mode full, got %s", row.Mode)
	}
}

func TestListScenarios_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		s.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if err := s.SaveScenario(ctx, testScenario(id)); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListScenarios(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, row := range list {
		ids = append(ids, row.ID)
	}
	if len(ids) != 3 || ids[0] != "c" || ids[2] != "a" {
		t.Errorf("expected [c b a], got %v", ids)
	}
}

func TestDeleteScenario(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveScenario(ctx, testScenario("sc-1")); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteScenario(ctx, "sc-1"); err != nil {
		t.Fatalf("DeleteScenario failed: %v", err)
	}
	if _, err := s.GetScenario(ctx, "sc-1"); !errors.Is(err, scenario.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteScenario(ctx, "sc-1"); !errors.Is(err, scenario.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestHistory_SQLiteNotVersioned(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.History(context.Background(), "sc-1"); !errors.Is(err, ErrNotVersioned) {
		t.Errorf("expected ErrNotVersioned, got %v", err)
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveScenario(ctx, testScenario("sc-1")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.GetScenario(ctx, "sc-1"); err != nil {
		t.Errorf("expected scenario to persist across reopen, got %v", err)
	}
}
