package memory

import (
	"context"
	"testing"

	"ledgerpro/internal/core"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func record(id int64) core.Record {
	return core.Record{
		ID:        id,
		LedgerID:  1,
		Date:      civil.Date{Year: 2024, Month: 5, Day: 1},
		Direction: core.Income,
		Category:  "工资",
		Amount:    decimal.NewFromInt(5000),
	}
}

func TestStoreAppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()

	ref, err := s.AppendRecord(ctx, record(7))
	if err != nil || ref != "mem:7" {
		t.Fatalf("AppendRecord = %q, %v", ref, err)
	}
	if _, err := s.AppendRecord(ctx, record(7)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppendRecord(ctx, record(3)); err != nil {
		t.Fatal(err)
	}

	rows, _ := s.ListMirrored(ctx)
	if len(rows) != 2 || rows[0].ID != 3 || rows[1].ID != 7 {
		t.Fatalf("ListMirrored = %+v", rows)
	}
}

func TestStoreRemove(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AppendRecord(ctx, record(1))

	if ok, err := s.RemoveRecord(ctx, 1); !ok || err != nil {
		t.Fatalf("RemoveRecord(1) = %v, %v", ok, err)
	}
	if ok, _ := s.RemoveRecord(ctx, 1); ok {
		t.Error("second RemoveRecord reported a row")
	}
	if rows, _ := s.ListMirrored(ctx); len(rows) != 0 {
		t.Errorf("rows left: %+v", rows)
	}
}

func TestStoreRejectsUnsavedRecord(t *testing.T) {
	if _, err := New().AppendRecord(context.Background(), record(0)); err == nil {
		t.Error("expected error for record without id")
	}
}
