package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ledgerpro/internal/core"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Header is the first row of a mirror sheet. Column A always holds the
// record id, which is how mirrored rows are found again.
var Header = []any{"ID", "Ledger", "Date", "Type", "Category", "Amount", "Note"}

// Ports for outbound adapters.
type (
	// RecordMirror keeps a copy of records outside the database.
	RecordMirror interface {
		// AppendRecord writes the record once. Appending an id that is
		// already mirrored returns the existing row reference.
		AppendRecord(ctx context.Context, r core.Record) (rowRef string, err error)

		// RemoveRecord drops the row for id and reports whether it existed.
		RemoveRecord(ctx context.Context, id int64) (bool, error)
	}

	// RecordReader lists what a mirror currently holds.
	RecordReader interface {
		ListMirrored(ctx context.Context) ([]core.Record, error)
	}
)

// RowValues renders a record in the mirror column order.
func RowValues(r core.Record) []any {
	return []any{
		r.ID,
		r.LedgerID,
		r.Date.String(),
		r.Direction.String(),
		r.Category,
		r.Amount.StringFixed(2),
		r.Note,
	}
}

// ParseRow is the inverse of RowValues. Header and blank rows return
// ok=false; malformed rows return an error.
func ParseRow(cols []string) (core.Record, bool, error) {
	if len(cols) == 0 || strings.TrimSpace(cols[0]) == "" {
		return core.Record{}, false, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(cols[0]), 10, 64)
	if err != nil {
		// Header row or a note typed into the sheet by hand.
		return core.Record{}, false, nil
	}
	if len(cols) < 6 {
		return core.Record{}, false, fmt.Errorf("row %d: want at least 6 columns, got %d", id, len(cols))
	}

	r := core.Record{ID: id, Category: strings.TrimSpace(cols[4])}
	if r.LedgerID, err = strconv.ParseInt(strings.TrimSpace(cols[1]), 10, 64); err != nil {
		return core.Record{}, false, fmt.Errorf("row %d ledger: %w", id, err)
	}
	if r.Date, err = civil.ParseDate(strings.TrimSpace(cols[2])); err != nil {
		return core.Record{}, false, fmt.Errorf("row %d date: %w", id, err)
	}
	if r.Direction, err = core.ParseDirection(cols[3]); err != nil {
		return core.Record{}, false, fmt.Errorf("row %d type: %w", id, err)
	}
	amount := strings.ReplaceAll(strings.TrimSpace(cols[5]), ",", ".")
	if r.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Record{}, false, fmt.Errorf("row %d amount: %w", id, err)
	}
	if len(cols) > 6 {
		r.Note = strings.TrimSpace(cols[6])
	}
	return r, true, nil
}
