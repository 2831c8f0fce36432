package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"dukanpos/internal/domain"
	"dukanpos/internal/snapshot"
)

func TestLoadSeedsDefaultStateOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := New(path)

	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if len(state.Stores) != 1 || state.Settings.Username == "" {
		t.Fatalf("expected seeded default state, got %+v", state)
	}

	// The seed is persisted immediately so a second process sees it too.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected snapshot file after first load: %v", err)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := New(path)
	ctx := context.Background()

	state, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	state.Items = append(state.Items, domain.Item{
		ID: "item-a", Code: "A-01", Name: "Sugar 1kg",
		SalePrice: decimal.NewFromFloat(10.5), Quantity: 7,
		StoreID: state.Stores[0].ID, LowStockThreshold: 3,
	})
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded, err := New(path).Load(ctx)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Items) != 1 {
		t.Fatalf("expected 1 item after reload, got %d", len(reloaded.Items))
	}
	if !reloaded.Items[0].SalePrice.Equal(decimal.NewFromFloat(10.5)) {
		t.Fatalf("price drifted across save/load: %s", reloaded.Items[0].SalePrice)
	}
}

func TestSaveReplacesPriorStateWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := New(path)
	ctx := context.Background()

	first, _ := store.Load(ctx)
	first.Customers = []domain.Customer{{ID: "c1", Name: "One"}}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	second := snapshot.DefaultState()
	second.Customers = []domain.Customer{{ID: "c2", Name: "Two"}}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	reloaded, _ := store.Load(ctx)
	if len(reloaded.Customers) != 1 || reloaded.Customers[0].ID != "c2" {
		t.Fatalf("save must fully overwrite, got %+v", reloaded.Customers)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := New(path).Load(context.Background()); err == nil {
		t.Fatalf("expected error for corrupt snapshot file")
	}
}

func TestSaveLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "snapshot.json"))
	ctx := context.Background()

	if err := store.Save(ctx, snapshot.DefaultState()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "snapshot.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only snapshot.json, got %v", names)
	}
}
