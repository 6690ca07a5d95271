package cart

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/matst80/slask-storefront/pkg/catalog"
)

func testLines() []Line {
	return []Line{
		{Item: catalog.Item{Id: 1, Title: "Backpack", Price: 10.00, Category: "bags"}, Quantity: 2},
		{Item: catalog.Item{Id: 2, Title: "T-Shirt", Price: 5.50, Category: "clothing"}, Quantity: 1},
	}
}

func verifyRoundTrip(t *testing.T, storage Storage) {
	t.Helper()
	ctx := context.Background()

	if _, err := storage.Fetch(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing key, got %v", err)
	}

	lines := testLines()
	if err := storage.Save(ctx, "k", lines); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := storage.Fetch(ctx, "k")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(got) != len(lines) {
		t.Fatalf("expected %d lines, got %d", len(lines), len(got))
	}
	for i := range lines {
		if got[i].Item.Id != lines[i].Item.Id || got[i].Quantity != lines[i].Quantity || got[i].Item.Price != lines[i].Item.Price {
			t.Errorf("line %d differs: %+v != %+v", i, got[i], lines[i])
		}
	}

	if err := storage.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := storage.Fetch(ctx, "k"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	// Deleting an already erased cart is not an error.
	if err := storage.Delete(ctx, "k"); err != nil {
		t.Errorf("second delete failed: %v", err)
	}
}

func TestDiskCartStorage(t *testing.T) {
	verifyRoundTrip(t, NewDiskCartStorage(t.TempDir()))
}

func TestDiskCartStorageMalformedFile(t *testing.T) {
	dir := t.TempDir()
	storage := NewDiskCartStorage(dir)
	if err := os.WriteFile(storage.fileName("bad"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.Fetch(context.Background(), "bad"); err == nil {
		t.Error("expected error for malformed stored cart")
	}

	// A store backed by the malformed key starts out empty.
	store := NewStore("bad", storage)
	if err := store.Load(context.Background()); err == nil {
		t.Error("expected load error to be reported")
	}
	if cart := store.Snapshot(); len(cart.Lines) != 0 || cart.Total != 0 {
		t.Errorf("expected empty cart, got %+v", cart)
	}
}

func TestRedisCartStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	storage := NewRedisCartStorage(mr.Addr(), "", 0, time.Hour)
	defer storage.Close()
	verifyRoundTrip(t, storage)
}
