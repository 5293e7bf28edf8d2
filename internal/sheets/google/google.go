package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"ledgerpro/internal/core"
	ports "ledgerpro/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string

	mu        sync.Mutex
	hasHeader bool
}

// Ensure interface conformance
var (
	_ ports.RecordMirror = (*Client)(nil)
	_ ports.RecordReader = (*Client)(nil)
)

// New creates a Sheets client that mirrors records into sheet of the given
// spreadsheet. Credentials come from the service account environment, see
// newSheetsService.
func New(ctx context.Context, spreadsheetID, sheet string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		sheet = "Records"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.DebugContext(ctx, "Reading service account credentials", "path", serviceAccountFile)
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendRecord writes r as a new row after the last used one. Redelivered
// events find the existing row by id and do not write twice.
func (c *Client) AppendRecord(ctx context.Context, r core.Record) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if r.ID <= 0 {
		return "", errors.New("mirror record: missing id")
	}
	if err := c.ensureHeader(ctx); err != nil {
		return "", err
	}

	row, found, err := c.findRow(ctx, r.ID)
	if err != nil {
		return "", err
	}
	if found {
		return rowRef(c.sheet, row), nil
	}

	vr := &gsheet.ValueRange{Values: [][]any{ports.RowValues(r)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, a1(c.sheet, "A:G"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append record %d to %s: %w", r.ID, c.sheet, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return a1(c.sheet, "A:G"), nil
}

// RemoveRecord clears the row holding id. Rows are cleared rather than
// deleted so references handed out earlier stay valid.
func (c *Client) RemoveRecord(ctx context.Context, id int64) (bool, error) {
	if c.svc == nil {
		return false, errors.New("sheets service not initialized")
	}
	row, found, err := c.findRow(ctx, id)
	if err != nil || !found {
		return false, err
	}
	rng := rowRef(c.sheet, row)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("clear %s: %w", rng, err)
	}
	return true, nil
}

// ListMirrored reads every record row back. Rows that do not parse are
// logged and skipped.
func (c *Client) ListMirrored(ctx context.Context) ([]core.Record, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := a1(c.sheet, "A:G")
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseRows(ctx, resp.Values), nil
}

func (c *Client) ensureHeader(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasHeader {
		return nil
	}

	rng := a1(c.sheet, "A1:G1")
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		vr := &gsheet.ValueRange{Values: [][]any{ports.Header}}
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write header %s: %w", rng, err)
		}
	}
	c.hasHeader = true
	return nil
}

func (c *Client) findRow(ctx context.Context, id int64) (int, bool, error) {
	rng := a1(c.sheet, "A:A")
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("read %s: %w", rng, err)
	}
	row, ok := locateRecord(resp.Values, id)
	return row, ok, nil
}
