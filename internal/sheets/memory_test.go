package sheets

import (
	"context"
	"testing"
)

func TestMemoryStoreAppendAndOverwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rows, err := store.ReadTable(ctx, "Users")
	if err != nil {
		t.Fatalf("ReadTable empty: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("empty table has %d rows", len(rows))
	}

	if err := store.AppendRows(ctx, "Users", [][]string{{"header"}, {"row1"}}); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}
	if err := store.AppendRows(ctx, "Users", [][]string{{"row2"}}); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}
	rows, _ = store.ReadTable(ctx, "Users")
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	if err := store.OverwriteTable(ctx, "Users", [][]string{{"header"}}); err != nil {
		t.Fatalf("OverwriteTable: %v", err)
	}
	rows, _ = store.ReadTable(ctx, "Users")
	if len(rows) != 1 {
		t.Fatalf("rows after overwrite = %d", len(rows))
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.AppendRows(ctx, "T", [][]string{{"a", "b"}}); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}
	rows, _ := store.ReadTable(ctx, "T")
	rows[0][0] = "mutated"

	again, _ := store.ReadTable(ctx, "T")
	if again[0][0] != "a" {
		t.Errorf("caller mutation leaked into the store")
	}
}

func TestMemoryStoreTablesAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.AppendRows(ctx, "A", [][]string{{"x"}}); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}
	rows, _ := store.ReadTable(ctx, "B")
	if len(rows) != 0 {
		t.Errorf("table B shares rows with A")
	}
}
