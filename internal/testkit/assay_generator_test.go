package testkit

import (
	"testing"
)

func TestAssayGenerator_Deterministic(t *testing.T) {
	cfg := DefaultAssayConfig()

	a := NewAssayGenerator(cfg).Generate()
	b := NewAssayGenerator(cfg).Generate()

	if len(a.Records) != 2*2*cfg.Replicates {
		t.Fatalf("expected %d records, got %d", 4*cfg.Replicates, len(a.Records))
	}
	for i := range a.Records {
		for j := range a.Records[i] {
			if a.Records[i][j] != b.Records[i][j] {
				t.Fatalf("record %d differs: %v vs %v", i, a.Records[i], b.Records[i])
			}
		}
	}
}

func TestAssayGenerator_TableLoads(t *testing.T) {
	f := NewAssayGenerator(DefaultAssayConfig()).Generate()
	tbl := f.MustTable(t)

	values, err := tbl.Numeric("value")
	if err != nil {
		t.Fatalf("numeric: %v", err)
	}
	if len(values) != tbl.Len() {
		t.Errorf("expected %d values, got %d", tbl.Len(), len(values))
	}
}

func TestFixtures_WriteDelimited(t *testing.T) {
	dir := t.TempDir()
	path := TwoGroups().WriteFile(t, dir, "groups.csv", ',')
	if path == "" {
		t.Fatal("expected a path")
	}

	tbl := BalancedTwoByTwo().MustTable(t)
	if tbl.Len() != 12 {
		t.Errorf("expected 12 rows, got %d", tbl.Len())
	}
	if OutlierProbe(20).MustTable(t).Len() != 9 {
		t.Error("expected 9 rows in outlier probe")
	}
}
