package storefront

import (
	"testing"

	"github.com/matst80/slask-storefront/pkg/catalog"
)

func testItems() []catalog.Item {
	return []catalog.Item{
		{Id: 1, Title: "Fjallraven Backpack", Price: 109.95},
		{Id: 2, Title: "Mens Casual T-Shirt", Price: 22.3},
		{Id: 3, Title: "Womens Jacket", Price: 56.99},
		{Id: 4, Title: "SanDisk SSD", Price: 109},
	}
}

func TestApplyEmptyTextIsIdentity(t *testing.T) {
	items := testItems()
	result := Apply(items, "")
	if len(result) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(result))
	}
	for i := range items {
		if result[i].Id != items[i].Id {
			t.Errorf("item %d reordered, got id %d", i, result[i].Id)
		}
	}
}

func TestApplyCaseInsensitive(t *testing.T) {
	tests := []struct {
		text string
		want []catalog.ItemId
	}{
		{"backpack", []catalog.ItemId{1}},
		{"BACKPACK", []catalog.ItemId{1}},
		{"eNs", []catalog.ItemId{2, 3}},
		{"sHiRt", []catalog.ItemId{2}},
		{"zzz", []catalog.ItemId{}},
		{"s", []catalog.ItemId{2, 3, 4}},
	}
	for _, tc := range tests {
		result := Apply(testItems(), tc.text)
		if len(result) != len(tc.want) {
			t.Errorf("Apply(%q) returned %d items, expected %d", tc.text, len(result), len(tc.want))
			continue
		}
		for i, id := range tc.want {
			if result[i].Id != id {
				t.Errorf("Apply(%q)[%d] = id %d, expected %d", tc.text, i, result[i].Id, id)
			}
		}
	}
}

func TestSnapshotDiscardsStaleResults(t *testing.T) {
	snap := NewSnapshot()
	first := snap.Begin()
	second := snap.Begin()

	// Second request resolves first.
	if !snap.Complete(second, "electronics", []catalog.Item{{Id: 4, Title: "SSD"}}) {
		t.Fatal("latest token should install")
	}
	// The superseded fetch arrives late and must be dropped.
	if snap.Complete(first, "jewelery", []catalog.Item{{Id: 9, Title: "Ring"}}) {
		t.Fatal("stale token should be discarded")
	}
	category, items := snap.Current()
	if category != "electronics" || len(items) != 1 || items[0].Id != 4 {
		t.Errorf("snapshot reflects stale fetch: %s %v", category, items)
	}
}

func TestSnapshotGet(t *testing.T) {
	snap := NewSnapshot()
	token := snap.Begin()
	snap.Complete(token, AllCategories, testItems())
	item, ok := snap.Get(3)
	if !ok || item.Title != "Womens Jacket" {
		t.Errorf("expected item 3, got %v %v", item, ok)
	}
	if _, ok := snap.Get(99); ok {
		t.Error("expected miss for unknown id")
	}
}
