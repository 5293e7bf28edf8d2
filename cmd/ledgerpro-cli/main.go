package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ledgerpro/internal/backend"
	"ledgerpro/internal/calendar"
	"ledgerpro/internal/cli"
	"ledgerpro/internal/core"
	"ledgerpro/internal/log"
	"ledgerpro/internal/report"
	"ledgerpro/internal/services"

	"cloud.google.com/go/civil"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	cli.LoadEnvFile()
	bootstrap := cli.SetupLogger("warn", log.ComponentCLI, os.Stderr)
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentCLI, os.Stderr)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = log.WithLogger(ctx, logger)

	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err)
		os.Exit(1)
	}
	defer res.Cleanup()

	app := &app{svc: res.Service, out: os.Stdout, locale: core.ParseLocale(cfg.DefaultLocale), now: time.Now}
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		var refused *refusal
		if errors.As(err, &refused) {
			fmt.Fprintln(os.Stderr, renderOutcome(false, refused.Error()))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		res.Cleanup()
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "ledgerpro CLI")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  ledgerpro-cli <command> [options]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  ledgers              List ledgers (-add NAME, -delete ID)")
	fmt.Fprintln(w, "  categories           List the ledger's categories (-add NAME, -delete NAME)")
	fmt.Fprintln(w, "  add                  Record a transaction (-date -type -category -amount -note)")
	fmt.Fprintln(w, "  records              List records (-start -end for a date range)")
	fmt.Fprintln(w, "  delete               Delete a record by id (-id)")
	fmt.Fprintln(w, "  calendar             Show the month heat-map (-year -month -mode -day)")
	fmt.Fprintln(w, "  report               Show a weekly/monthly/yearly report (-kind -date)")
	fmt.Fprintln(w, "  export               Write a report as XLSX (-kind -date -out DIR)")
	fmt.Fprintln(w, "\nEvery command accepts -ledger ID and -lang CN|EN.")
}

type app struct {
	svc    *services.LedgerService
	out    io.Writer
	locale core.Locale
	now    func() time.Time
}

// sessionFlags registers the flags shared by every command.
type sessionFlags struct {
	ledger int64
	lang   string
}

func (a *app) flags(name string) (*flag.FlagSet, *sessionFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	sf := &sessionFlags{}
	fs.Int64Var(&sf.ledger, "ledger", 0, "ledger id (default: first ledger)")
	fs.StringVar(&sf.lang, "lang", string(a.locale), "display language, CN or EN")
	return fs, sf
}

func (a *app) session(ctx context.Context, sf *sessionFlags) (core.Session, error) {
	sess := core.Session{Locale: core.ParseLocale(sf.lang), LedgerID: sf.ledger}
	if sess.LedgerID > 0 {
		return sess, nil
	}
	ledgers, err := a.svc.ListLedgers(ctx)
	if err != nil {
		return sess, err
	}
	if len(ledgers) > 0 {
		sess.LedgerID = ledgers[0].ID
	}
	return sess, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "ledgers":
		return a.ledgers(ctx, args)
	case "categories":
		return a.categories(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "records":
		return a.records(ctx, args)
	case "delete":
		return a.deleteRecord(ctx, args)
	case "calendar":
		return a.calendar(ctx, args)
	case "report":
		return a.report(ctx, args)
	case "export":
		return a.export(ctx, args)
	case "help", "-h", "--help":
		printUsage(a.out)
		return nil
	}
	printUsage(a.out)
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) print(s string) {
	fmt.Fprintln(a.out, s)
}

// refusal is a write the service turned down. It still exits non-zero.
type refusal struct {
	out services.Outcome
}

func (r *refusal) Error() string { return r.out.Message }

func (r *refusal) Unwrap() error { return r.out.Reason }

func (a *app) outcome(out services.Outcome) error {
	if !out.OK {
		return &refusal{out: out}
	}
	a.print(renderOutcome(true, out.Message))
	return nil
}

func (a *app) ledgers(ctx context.Context, args []string) error {
	fs, sf := a.flags("ledgers")
	add := fs.String("add", "", "create a ledger with this name")
	del := fs.Int64("delete", 0, "delete the ledger with this id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := a.session(ctx, sf)
	if err != nil {
		return err
	}

	switch {
	case *add != "":
		out, err := a.svc.AddLedger(ctx, sess, *add)
		if err != nil {
			return err
		}
		return a.outcome(out)
	case *del > 0:
		out, err := a.svc.DeleteLedger(ctx, sess, *del)
		if err != nil {
			return err
		}
		return a.outcome(out)
	}

	ledgers, err := a.svc.ListLedgers(ctx)
	if err != nil {
		return err
	}
	a.print(renderLedgers(ledgers, sess.LedgerID, sess.Locale))
	return nil
}

func (a *app) categories(ctx context.Context, args []string) error {
	fs, sf := a.flags("categories")
	add := fs.String("add", "", "add a category")
	del := fs.String("delete", "", "remove a category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := a.session(ctx, sf)
	if err != nil {
		return err
	}

	switch {
	case *add != "":
		out, err := a.svc.AddCategory(ctx, sess, *add)
		if err != nil {
			return err
		}
		return a.outcome(out)
	case *del != "":
		out, err := a.svc.DeleteCategory(ctx, sess, *del)
		if err != nil {
			return err
		}
		return a.outcome(out)
	}

	cats, err := a.svc.ListCategories(ctx, sess)
	if err != nil {
		return err
	}
	a.print(renderCategories(cats, sess.Locale))
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs, sf := a.flags("add")
	date := fs.String("date", "", "YYYY-MM-DD (default: today)")
	typ := fs.String("type", string(core.Expense), "income or expense")
	category := fs.String("category", "", "category name")
	amount := fs.String("amount", "", "amount, e.g. 12.50")
	note := fs.String("note", "", "free text note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := a.session(ctx, sf)
	if err != nil {
		return err
	}

	r := core.Record{Category: *category, Note: *note, Date: civil.DateOf(a.now())}
	if *date != "" {
		if r.Date, err = civil.ParseDate(*date); err != nil {
			return fmt.Errorf("invalid -date %q", *date)
		}
	}
	if r.Direction, err = core.ParseDirection(*typ); err != nil {
		return fmt.Errorf("invalid -type %q", *typ)
	}
	// A rejected amount stays zero and is refused with the localized message.
	r.Amount, _ = core.ParseAmount(*amount)

	id, out, err := a.svc.SaveRecord(ctx, sess, r)
	if err != nil {
		return err
	}
	if out.OK {
		a.print(renderOutcome(true, fmt.Sprintf("%s (#%d)", out.Message, id)))
		return nil
	}
	return a.outcome(out)
}

func (a *app) records(ctx context.Context, args []string) error {
	fs, sf := a.flags("records")
	start := fs.String("start", "", "first date, YYYY-MM-DD")
	end := fs.String("end", "", "last date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := a.session(ctx, sf)
	if err != nil {
		return err
	}

	var recs []core.Record
	if *start != "" || *end != "" {
		s, err := civil.ParseDate(*start)
		if err != nil {
			return fmt.Errorf("invalid -start %q", *start)
		}
		e, err := civil.ParseDate(*end)
		if err != nil {
			return fmt.Errorf("invalid -end %q", *end)
		}
		recs, err = a.svc.ListRecordsInRange(ctx, sess, s, e)
		if err != nil {
			return err
		}
	} else if recs, err = a.svc.ListRecords(ctx, sess); err != nil {
		return err
	}
	a.print(renderRecords(recs, sess.Locale))
	return nil
}

func (a *app) deleteRecord(ctx context.Context, args []string) error {
	fs, sf := a.flags("delete")
	id := fs.Int64("id", 0, "record id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 && fs.NArg() > 0 {
		n, err := strconv.ParseInt(fs.Arg(0), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid record id %q", fs.Arg(0))
		}
		*id = n
	}
	if *id <= 0 {
		return fmt.Errorf("a record id is required")
	}
	sess, err := a.session(ctx, sf)
	if err != nil {
		return err
	}
	out, err := a.svc.DeleteRecord(ctx, sess, *id)
	if err != nil {
		return err
	}
	return a.outcome(out)
}

func (a *app) calendar(ctx context.Context, args []string) error {
	today := civil.DateOf(a.now())
	fs, sf := a.flags("calendar")
	year := fs.Int("year", today.Year, "year")
	month := fs.Int("month", int(today.Month), "month, 1-12")
	mode := fs.String("mode", string(calendar.ModeMonth), "month or week")
	day := fs.Int("day", 0, "day whose week is shown in week mode")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := a.session(ctx, sf)
	if err != nil {
		return err
	}

	var selected civil.Date
	if *day > 0 {
		selected = civil.Date{Year: *year, Month: time.Month(*month), Day: *day}
	}
	grid, err := a.svc.Calendar(ctx, sess, *year, time.Month(*month), calendar.ParseMode(*mode), selected)
	if err != nil {
		return err
	}
	a.print(renderCalendar(grid, sess.Locale))
	return nil
}

func (a *app) reportFlags(name string, args []string) (*sessionFlags, report.Kind, civil.Date, *string, error) {
	fs, sf := a.flags(name)
	kind := fs.String("kind", string(report.Monthly), "weekly, monthly or yearly")
	date := fs.String("date", "", "any day of the period, YYYY-MM-DD (default: today)")
	out := fs.String("out", ".", "output directory for export")
	if err := fs.Parse(args); err != nil {
		return nil, "", civil.Date{}, nil, err
	}
	k, err := report.ParseKind(*kind)
	if err != nil {
		return nil, "", civil.Date{}, nil, err
	}
	ref := civil.DateOf(a.now())
	if *date != "" {
		if ref, err = civil.ParseDate(*date); err != nil {
			return nil, "", civil.Date{}, nil, fmt.Errorf("invalid -date %q", *date)
		}
	}
	return sf, k, ref, out, nil
}

func (a *app) report(ctx context.Context, args []string) error {
	sf, kind, ref, _, err := a.reportFlags("report", args)
	if err != nil {
		return err
	}
	sess, err := a.session(ctx, sf)
	if err != nil {
		return err
	}
	res, err := a.svc.Report(ctx, sess, kind, ref)
	if err != nil {
		return err
	}
	a.print(renderReport(res, sess.Locale))
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	sf, kind, ref, dir, err := a.reportFlags("export", args)
	if err != nil {
		return err
	}
	sess, err := a.session(ctx, sf)
	if err != nil {
		return err
	}
	exp, err := a.svc.ExportReport(ctx, sess, kind, ref)
	if err != nil {
		return err
	}
	path := filepath.Join(*dir, exp.FileName)
	if err := os.WriteFile(path, exp.Data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	a.print(renderOutcome(true, path))
	return nil
}
