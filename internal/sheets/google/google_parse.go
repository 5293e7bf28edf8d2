package google

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"ledgerpro/internal/core"
	ports "ledgerpro/internal/sheets"
)

// a1 builds an A1 range, quoting the sheet name when it needs it.
func a1(sheet, cells string) string {
	if strings.ContainsAny(sheet, " '!") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet + "!" + cells
}

func rowRef(sheet string, row int) string {
	return a1(sheet, fmt.Sprintf("A%d:G%d", row, row))
}

// locateRecord returns the 1-based sheet row whose first column is id.
func locateRecord(values [][]any, id int64) (int, bool) {
	want := strconv.FormatInt(id, 10)
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == want {
			return i + 1, true
		}
	}
	return 0, false
}

func parseRows(ctx context.Context, values [][]any) []core.Record {
	out := make([]core.Record, 0, len(values))
	for i, row := range values {
		r, ok, err := ports.ParseRow(toStrings(row))
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed mirror row", "row", i+1, "error", err)
			continue
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
