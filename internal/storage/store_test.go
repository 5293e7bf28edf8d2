package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"ledgerpro/internal/core"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func record(ledgerID int64, date string, dir core.Direction, category, amount string) core.Record {
	d, err := civil.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Record{
		LedgerID:  ledgerID,
		Date:      d,
		Direction: dir,
		Category:  category,
		Amount:    decimal.RequireFromString(amount),
	}
}

func TestInitSeedsOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A second Init must neither fail nor seed again.
	if err := s.Init(ctx); err != nil {
		t.Fatalf("second Init: %v", err)
	}

	ledgers, err := s.ListLedgers(ctx)
	if err != nil {
		t.Fatalf("ListLedgers: %v", err)
	}
	if len(ledgers) != 1 || ledgers[0].Name != core.DefaultLedgerName {
		t.Fatalf("ledgers = %+v", ledgers)
	}

	cats, err := s.ListCategories(ctx, ledgers[0].ID)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if !reflect.DeepEqual(cats, core.DefaultCategories) {
		t.Errorf("categories = %v, want %v", cats, core.DefaultCategories)
	}
}

func TestAddLedger(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.AddLedger(ctx, "Travel")
	if err != nil || !ok {
		t.Fatalf("AddLedger = %v, %v", ok, err)
	}
	ok, err = s.AddLedger(ctx, "Travel")
	if err != nil || ok {
		t.Fatalf("duplicate AddLedger = %v, %v; want false, nil", ok, err)
	}

	ledgers, _ := s.ListLedgers(ctx)
	if len(ledgers) != 2 || ledgers[1].Name != "Travel" {
		t.Fatalf("ledgers = %+v", ledgers)
	}
	cats, _ := s.ListCategories(ctx, ledgers[1].ID)
	if !reflect.DeepEqual(cats, core.NewLedgerCategories) {
		t.Errorf("new ledger categories = %v", cats)
	}
}

func TestDeleteLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("last ledger is kept", func(t *testing.T) {
		s := newTestStore(t)
		ledgers, _ := s.ListLedgers(ctx)
		id := ledgers[0].ID
		if _, err := s.SaveRecord(ctx, record(id, "2024-05-01", core.Income, "工资", "5000")); err != nil {
			t.Fatal(err)
		}

		if _, err := s.DeleteLedger(ctx, id); !errors.Is(err, core.ErrLastLedger) {
			t.Fatalf("DeleteLedger = %v, want ErrLastLedger", err)
		}
		after, _ := s.ListLedgers(ctx)
		recs, _ := s.ListRecords(ctx, id)
		if len(after) != 1 || len(recs) != 1 {
			t.Errorf("state changed: ledgers=%d records=%d", len(after), len(recs))
		}
	})

	t.Run("cascade", func(t *testing.T) {
		s := newTestStore(t)
		s.AddLedger(ctx, "Travel")
		ledgers, _ := s.ListLedgers(ctx)
		keep, drop := ledgers[0].ID, ledgers[1].ID

		s.SaveRecord(ctx, record(keep, "2024-05-01", core.Income, "工资", "5000"))
		first, _ := s.SaveRecord(ctx, record(drop, "2024-05-02", core.Expense, "交通", "12"))
		second, _ := s.SaveRecord(ctx, record(drop, "2024-05-03", core.Expense, "餐饮", "30"))

		removed, err := s.DeleteLedger(ctx, drop)
		if err != nil {
			t.Fatalf("DeleteLedger: %v", err)
		}
		if len(removed) != 2 || removed[0] != first || removed[1] != second {
			t.Errorf("removed ids = %v, want [%d %d]", removed, first, second)
		}

		after, _ := s.ListLedgers(ctx)
		if len(after) != 1 || after[0].ID != keep {
			t.Errorf("ledgers = %+v", after)
		}
		if recs, _ := s.ListRecords(ctx, drop); len(recs) != 0 {
			t.Errorf("records of deleted ledger remain: %d", len(recs))
		}
		if cats, _ := s.ListCategories(ctx, drop); len(cats) != 0 {
			t.Errorf("categories of deleted ledger remain: %v", cats)
		}
		if recs, _ := s.ListRecords(ctx, keep); len(recs) != 1 {
			t.Errorf("other ledger records = %d, want 1", len(recs))
		}
	})

	t.Run("unknown ledger", func(t *testing.T) {
		s := newTestStore(t)
		s.AddLedger(ctx, "Travel")
		if _, err := s.DeleteLedger(ctx, 999); !errors.Is(err, core.ErrLedgerNotFound) {
			t.Fatalf("DeleteLedger = %v, want ErrLedgerNotFound", err)
		}
		if after, _ := s.ListLedgers(ctx); len(after) != 2 {
			t.Errorf("ledgers = %+v", after)
		}
	})
}

func TestCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ledgers, _ := s.ListLedgers(ctx)
	id := ledgers[0].ID

	first, err1 := s.AddCategory(ctx, id, "Gifts")
	second, err2 := s.AddCategory(ctx, id, "Gifts")
	if err1 != nil || err2 != nil {
		t.Fatalf("AddCategory errors: %v, %v", err1, err2)
	}
	if !first || second {
		t.Errorf("AddCategory twice = (%v, %v), want (true, false)", first, second)
	}

	// Same name in another ledger is independent.
	s.AddLedger(ctx, "Travel")
	ledgers, _ = s.ListLedgers(ctx)
	if ok, _ := s.AddCategory(ctx, ledgers[1].ID, "Gifts"); !ok {
		t.Error("category scoped to ledger rejected")
	}

	if err := s.DeleteCategory(ctx, id, "Gifts"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := s.DeleteCategory(ctx, id, "Nope"); err != nil {
		t.Fatalf("DeleteCategory on missing name: %v", err)
	}
	cats, _ := s.ListCategories(ctx, id)
	for _, c := range cats {
		if c == "Gifts" {
			t.Error("Gifts still listed")
		}
	}
}

func TestRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ledgers, _ := s.ListLedgers(ctx)
	id := ledgers[0].ID

	empty, err := s.ListRecords(ctx, id)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("ListRecords on empty ledger = %v, %v", empty, err)
	}

	in := record(id, "2024-05-03", core.Expense, "餐饮", "120.50")
	in.Note = "lunch"
	recID, err := s.SaveRecord(ctx, in)
	if err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	s.SaveRecord(ctx, record(id, "2024-05-01", core.Income, "工资", "5000"))
	s.SaveRecord(ctx, record(id, "2024-06-01", core.Expense, "交通", "8"))

	all, err := s.ListRecords(ctx, id)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records", len(all))
	}
	wantDates := []string{"2024-06-01", "2024-05-03", "2024-05-01"}
	for i, r := range all {
		if r.Date.String() != wantDates[i] {
			t.Errorf("record %d date = %s, want %s", i, r.Date, wantDates[i])
		}
	}

	got := all[1]
	if got.ID != recID || got.Direction != core.Expense || got.Category != "餐饮" ||
		!got.Amount.Equal(decimal.RequireFromString("120.50")) || got.Note != "lunch" {
		t.Errorf("saved record = %+v", got)
	}

	may, err := s.ListRecordsInRange(ctx, id,
		civil.Date{Year: 2024, Month: 5, Day: 1}, civil.Date{Year: 2024, Month: 5, Day: 31})
	if err != nil || len(may) != 2 {
		t.Fatalf("ListRecordsInRange = %d, %v", len(may), err)
	}

	fetched, err := s.GetRecord(ctx, recID)
	if err != nil || fetched.Note != "lunch" {
		t.Errorf("GetRecord = %+v, %v", fetched, err)
	}

	ledgerID, deleted, err := s.DeleteRecord(ctx, recID)
	if err != nil || !deleted || ledgerID != id {
		t.Fatalf("DeleteRecord = %d, %v, %v", ledgerID, deleted, err)
	}
	if _, deleted, _ := s.DeleteRecord(ctx, recID); deleted {
		t.Error("second DeleteRecord reported a deletion")
	}
	if _, err := s.GetRecord(ctx, recID); !errors.Is(err, core.ErrRecordNotFound) {
		t.Errorf("GetRecord after delete = %v", err)
	}
}

func TestLegacyTypeLiteralsAreRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ledgers, _ := s.ListLedgers(ctx)
	id := ledgers[0].ID

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO records (ledger_id, date, type, category, amount, note) VALUES (?, '2024-05-01', '收入', '工资', 10, NULL)", id); err != nil {
		t.Fatal(err)
	}
	recs, err := s.ListRecords(ctx, id)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if recs[0].Direction != core.Income || recs[0].Note != "" {
		t.Errorf("legacy row = %+v", recs[0])
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: Postgres}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("postgres rebind = %q", got)
	}
	lite := &Store{dialect: SQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite rebind = %q", got)
	}
}
