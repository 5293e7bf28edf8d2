package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ledgerpro/internal/amqp"
	"ledgerpro/internal/cache"
	"ledgerpro/internal/calendar"
	"ledgerpro/internal/core"
	"ledgerpro/internal/export"
	"ledgerpro/internal/i18n"
	"ledgerpro/internal/log"
	"ledgerpro/internal/report"

	"cloud.google.com/go/civil"
)

var (
	// ErrDuplicate marks an add refused by a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate name")
	ErrEmptyName = errors.New("empty name")
)

// Store is the storage gateway the service orchestrates.
type Store interface {
	ListLedgers(ctx context.Context) ([]core.Ledger, error)
	AddLedger(ctx context.Context, name string) (bool, error)
	DeleteLedger(ctx context.Context, id int64) (removed []int64, err error)
	ListCategories(ctx context.Context, ledgerID int64) ([]string, error)
	AddCategory(ctx context.Context, ledgerID int64, name string) (bool, error)
	DeleteCategory(ctx context.Context, ledgerID int64, name string) error
	SaveRecord(ctx context.Context, r core.Record) (int64, error)
	ListRecords(ctx context.Context, ledgerID int64) ([]core.Record, error)
	ListRecordsInRange(ctx context.Context, ledgerID int64, start, end civil.Date) ([]core.Record, error)
	DeleteRecord(ctx context.Context, id int64) (ledgerID int64, deleted bool, err error)
	Close() error
}

// Publisher announces record changes, e.g. to the sheets mirror worker.
type Publisher interface {
	Publish(ctx context.Context, ev *amqp.RecordEvent) error
	Close() error
}

// Outcome is the user facing result of a write. Reason holds the sentinel
// behind a refusal so that callers can map it; it is nil on success.
type Outcome struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Reason  error  `json:"-"`
}

func done(key string, locale core.Locale) Outcome {
	return Outcome{OK: true, Message: i18n.Translate(key, locale)}
}

func refused(key string, locale core.Locale, reason error) Outcome {
	return Outcome{Message: i18n.Translate(key, locale), Reason: reason}
}

// LedgerService orchestrates ledger operations across storage, the record
// cache and AMQP.
type LedgerService struct {
	store     Store
	records   cache.Cache[[]core.Record]
	publisher Publisher
	now       func() time.Time
}

// NewLedgerService wires the service. records and publisher may be nil.
func NewLedgerService(store Store, records cache.Cache[[]core.Record], publisher Publisher) *LedgerService {
	if records == nil {
		records = cache.Nop[[]core.Record]{}
	}
	return &LedgerService{
		store:     store,
		records:   records,
		publisher: publisher,
		now:       time.Now,
	}
}

func recordsKey(ledgerID int64) string {
	return "records:" + strconv.FormatInt(ledgerID, 10)
}

func (s *LedgerService) invalidate(ctx context.Context, ledgerID int64) {
	s.records.Delete(ctx, recordsKey(ledgerID))
}

func (s *LedgerService) ListLedgers(ctx context.Context) ([]core.Ledger, error) {
	ledgers, err := s.store.ListLedgers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	return ledgers, nil
}

// AddLedger creates a ledger seeded with the default category subset.
func (s *LedgerService) AddLedger(ctx context.Context, sess core.Session, name string) (Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return refused("name_required", sess.Locale, ErrEmptyName), nil
	}
	ok, err := s.store.AddLedger(ctx, name)
	if err != nil {
		return Outcome{}, fmt.Errorf("add ledger: %w", err)
	}
	if !ok {
		return refused("duplicate_ledger", sess.Locale, ErrDuplicate), nil
	}
	return done("ledger_created", sess.Locale), nil
}

// DeleteLedger removes a ledger with all its records and categories. The
// last remaining ledger is never deleted. Every removed record is announced
// as a RecordDeleted event so mirrors drop it too.
func (s *LedgerService) DeleteLedger(ctx context.Context, sess core.Session, id int64) (Outcome, error) {
	removed, err := s.store.DeleteLedger(ctx, id)
	switch {
	case errors.Is(err, core.ErrLastLedger):
		return refused("last_ledger", sess.Locale, core.ErrLastLedger), nil
	case errors.Is(err, core.ErrLedgerNotFound):
		return refused("ledger_missing", sess.Locale, core.ErrLedgerNotFound), nil
	case err != nil:
		return Outcome{}, fmt.Errorf("delete ledger %d: %w", id, err)
	}
	s.invalidate(ctx, id)
	for _, rid := range removed {
		s.publish(ctx, amqp.NewRecordEvent(amqp.RecordDeleted, rid, id))
	}
	log.FromContext(ctx).WithComponent(log.ComponentLedger).
		InfoContext(ctx, "Ledger deleted", log.FieldLedgerID, id, "records", len(removed))
	return done("ledger_deleted", sess.Locale), nil
}

func (s *LedgerService) ListCategories(ctx context.Context, sess core.Session) ([]string, error) {
	if sess.LedgerID <= 0 {
		return []string{}, nil
	}
	cats, err := s.store.ListCategories(ctx, sess.LedgerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *LedgerService) AddCategory(ctx context.Context, sess core.Session, name string) (Outcome, error) {
	if sess.LedgerID <= 0 {
		return refused("ledger_required", sess.Locale, core.ErrNoLedger), nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return refused("name_required", sess.Locale, ErrEmptyName), nil
	}
	ok, err := s.store.AddCategory(ctx, sess.LedgerID, name)
	if err != nil {
		return Outcome{}, fmt.Errorf("add category: %w", err)
	}
	if !ok {
		return refused("duplicate_category", sess.Locale, ErrDuplicate), nil
	}
	return done("category_added", sess.Locale), nil
}

// DeleteCategory removes the category name from the ledger's set. Records
// keep their copy of the name.
func (s *LedgerService) DeleteCategory(ctx context.Context, sess core.Session, name string) (Outcome, error) {
	if sess.LedgerID <= 0 {
		return refused("ledger_required", sess.Locale, core.ErrNoLedger), nil
	}
	if err := s.store.DeleteCategory(ctx, sess.LedgerID, strings.TrimSpace(name)); err != nil {
		return Outcome{}, fmt.Errorf("delete category: %w", err)
	}
	return done("category_removed", sess.Locale), nil
}

var validationMessages = []struct {
	err error
	key string
}{
	{core.ErrNoLedger, "ledger_required"},
	{core.ErrInvalidDate, "date_required"},
	{core.ErrInvalidDirection, "type_required"},
	{core.ErrEmptyCategory, "category_required"},
	{core.ErrInvalidAmount, "amount_positive"},
}

// IsValidation reports whether err is one of the record validation errors.
func IsValidation(err error) bool {
	if errors.Is(err, ErrEmptyName) {
		return true
	}
	for _, v := range validationMessages {
		if errors.Is(err, v.err) {
			return true
		}
	}
	return false
}

// SaveRecord validates r against the session's ledger and stores it. A
// refused record returns id 0 and touches nothing.
func (s *LedgerService) SaveRecord(ctx context.Context, sess core.Session, r core.Record) (int64, Outcome, error) {
	r.ID = 0
	r.LedgerID = sess.LedgerID
	r.Category = strings.TrimSpace(r.Category)
	r.Note = strings.TrimSpace(r.Note)
	r.Amount = r.Amount.Round(2)

	if err := r.Validate(); err != nil {
		for _, v := range validationMessages {
			if errors.Is(err, v.err) {
				return 0, refused(v.key, sess.Locale, err), nil
			}
		}
		return 0, Outcome{}, err
	}

	id, err := s.store.SaveRecord(ctx, r)
	if err != nil {
		return 0, Outcome{}, fmt.Errorf("save record: %w", err)
	}
	s.invalidate(ctx, r.LedgerID)

	logger := log.FromContext(ctx).WithComponent(log.ComponentLedger)
	log.NewStructuredLogger(logger).LogRecordSaved(ctx, id, r.LedgerID,
		r.Direction.String(), r.Category, r.Amount.StringFixed(2))

	s.publish(ctx, amqp.NewRecordEvent(amqp.RecordCreated, id, r.LedgerID))
	return id, done("saved", sess.Locale), nil
}

// DeleteRecord removes a record by id. An absent id is a refusal, not an error.
func (s *LedgerService) DeleteRecord(ctx context.Context, sess core.Session, id int64) (Outcome, error) {
	ledgerID, deleted, err := s.store.DeleteRecord(ctx, id)
	if err != nil {
		return Outcome{}, fmt.Errorf("delete record %d: %w", id, err)
	}
	if !deleted {
		return refused("record_missing", sess.Locale, core.ErrRecordNotFound), nil
	}
	s.invalidate(ctx, ledgerID)
	s.publish(ctx, amqp.NewRecordEvent(amqp.RecordDeleted, id, ledgerID))
	return done("record_deleted", sess.Locale), nil
}

// publish sends ev when AMQP is configured. Failures are logged only: the
// write is already committed and the mirror worker reconciles on start.
func (s *LedgerService) publish(ctx context.Context, ev *amqp.RecordEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		fields := log.NewFields()
		fields[log.FieldEventID] = ev.EventID
		fields[log.FieldRecordID] = ev.RecordID
		log.NewStructuredLogger(log.FromContext(ctx).WithComponent(log.ComponentAMQP)).
			LogError(ctx, "Failed to publish record event", err, log.OpMirror, fields)
	}
}

// ListRecords returns the ledger's records, newest first, through the cache.
func (s *LedgerService) ListRecords(ctx context.Context, sess core.Session) ([]core.Record, error) {
	if sess.LedgerID <= 0 {
		return []core.Record{}, nil
	}
	key := recordsKey(sess.LedgerID)
	if recs, ok := s.records.Get(ctx, key); ok {
		return recs, nil
	}
	recs, err := s.store.ListRecords(ctx, sess.LedgerID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	s.records.Set(ctx, key, recs)
	return recs, nil
}

func (s *LedgerService) ListRecordsInRange(ctx context.Context, sess core.Session, start, end civil.Date) ([]core.Record, error) {
	if sess.LedgerID <= 0 {
		return []core.Record{}, nil
	}
	recs, err := s.store.ListRecordsInRange(ctx, sess.LedgerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list records in range: %w", err)
	}
	return recs, nil
}

// Dashboard is everything the overview page shows for one ledger.
type Dashboard struct {
	Summary     core.Summary            `json:"summary"`
	Composition []report.CategoryAmount `json:"composition"`
	Trend       []report.DayAmount      `json:"trend"`
	Monthly     []report.MonthTotal     `json:"monthly"`
	Ranking     []report.CategoryAmount `json:"ranking"`
	Records     []i18n.DisplayRecord    `json:"records"`
}

// Dashboard aggregates the ledger's records after applying the filter.
func (s *LedgerService) Dashboard(ctx context.Context, sess core.Session, filter report.Criteria) (Dashboard, error) {
	recs, err := s.ListRecords(ctx, sess)
	if err != nil {
		return Dashboard{}, err
	}
	recs = report.Filter(recs, filter)
	return Dashboard{
		Summary:     core.Summarize(recs),
		Composition: report.Composition(recs, sess.Locale),
		Trend:       report.DailyTrend(recs),
		Monthly:     report.MonthlyTotals(recs),
		Ranking:     report.ExpenseRanking(recs, sess.Locale),
		Records:     i18n.Present(recs, sess.Locale),
	}, nil
}

// Calendar builds the heat-map grid for year and month. A zero selected
// date means the first of the month.
func (s *LedgerService) Calendar(ctx context.Context, sess core.Session, year int, month time.Month, mode calendar.Mode, selected civil.Date) (calendar.Grid, error) {
	if month < time.January || month > time.December {
		return calendar.Grid{}, core.ErrInvalidDate
	}
	recs, err := s.ListRecords(ctx, sess)
	if err != nil {
		return calendar.Grid{}, err
	}
	if selected == (civil.Date{}) {
		selected = civil.Date{Year: year, Month: month, Day: 1}
	}
	return calendar.BuildGrid(calendar.Request{
		Year:     year,
		Month:    month,
		Records:  recs,
		Mode:     mode,
		Selected: selected,
		Today:    civil.DateOf(s.now()),
	}), nil
}

// Report resolves the period of kind around ref and aggregates it.
func (s *LedgerService) Report(ctx context.Context, sess core.Session, kind report.Kind, ref civil.Date) (report.Result, error) {
	rng, err := report.Resolve(kind, ref)
	if err != nil {
		return report.Result{}, err
	}
	recs, err := s.ListRecordsInRange(ctx, sess, rng.Start, rng.End)
	if err != nil {
		return report.Result{}, err
	}
	log.FromContext(ctx).WithComponent(log.ComponentLedger).DebugContext(ctx, "Report built",
		log.FieldOperation, log.OpReport,
		log.FieldLedgerID, sess.LedgerID,
		"range", rng.String(),
		"records", len(recs))
	return report.Build(recs, rng, sess.Locale), nil
}

// Export is a rendered report download.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportReport renders the balanced export table of a report as XLSX.
func (s *LedgerService) ExportReport(ctx context.Context, sess core.Session, kind report.Kind, ref civil.Date) (Export, error) {
	res, err := s.Report(ctx, sess, kind, ref)
	if err != nil {
		return Export{}, err
	}
	data, err := export.Spreadsheet(res.Export)
	if err != nil {
		return Export{}, fmt.Errorf("render spreadsheet: %w", err)
	}

	name := ""
	ledgers, err := s.store.ListLedgers(ctx)
	if err != nil {
		return Export{}, fmt.Errorf("list ledgers: %w", err)
	}
	for _, l := range ledgers {
		if l.ID == sess.LedgerID {
			name = l.Name
			break
		}
	}
	return Export{
		FileName:    export.FileName(name, res.Range.Start, res.Range.End),
		ContentType: export.ContentType,
		Data:        data,
	}, nil
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	return errors.Join(errs...)
}
