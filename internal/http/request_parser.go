package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ledgerpro/internal/core"
	"ledgerpro/internal/i18n"
	"ledgerpro/internal/report"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
)

const ledgerHeader = "X-Ledger-ID"

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errBadRequest}, args...)...)
}

// session builds the per-request session. The ledger comes from the
// ledger_id query parameter or the X-Ledger-ID header and defaults to the
// first ledger; the locale comes from the lang query parameter.
func (s *server) session(c *gin.Context) (core.Session, error) {
	sess := core.Session{Locale: s.locale}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		sess.Locale = core.ParseLocale(lang)
	}

	raw := c.Query("ledger_id")
	if raw == "" {
		raw = c.GetHeader(ledgerHeader)
	}
	if raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return sess, badRequest("invalid ledger id %q", raw)
		}
		sess.LedgerID = id
		return sess, nil
	}

	ledgers, err := s.svc.ListLedgers(c.Request.Context())
	if err != nil {
		return sess, err
	}
	if len(ledgers) > 0 {
		sess.LedgerID = ledgers[0].ID
	}
	return sess, nil
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id %q", c.Param("id"))
	}
	return id, nil
}

// queryDate parses an ISO date query parameter. Missing yields def.
func queryDate(c *gin.Context, key string, def civil.Date) (civil.Date, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def, nil
	}
	d, err := civil.ParseDate(v)
	if err != nil {
		return civil.Date{}, badRequest("invalid %s %q", key, v)
	}
	return d, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("invalid %s %q", key, v)
	}
	return n, nil
}

type nameRequest struct {
	Name string `json:"name"`
}

// recordRequest is the entry form. Amount accepts a JSON number or a
// numeric string with either decimal separator; Type accepts the stable
// codes and both locales' labels.
type recordRequest struct {
	Date     string          `json:"date"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
	Note     string          `json:"note"`
}

// record converts the form into a record. Unparseable fields are left at
// their zero value so that the service refuses them with a localized message.
func (req recordRequest) record() core.Record {
	var r core.Record
	if d, err := civil.ParseDate(strings.TrimSpace(req.Date)); err == nil {
		r.Date = d
	}
	if dir, err := core.ParseDirection(req.Type); err == nil {
		r.Direction = dir
	}
	r.Category = req.Category
	r.Note = req.Note

	raw := strings.TrimSpace(string(req.Amount))
	var str string
	if err := json.Unmarshal(req.Amount, &str); err == nil {
		raw = str
	}
	if amt, err := core.ParseAmount(raw); err == nil {
		r.Amount = amt
	}
	return r
}

func reportKind(c *gin.Context) (report.Kind, error) {
	kind, err := report.ParseKind(c.Param("kind"))
	if err != nil {
		return "", badRequest("%v", err)
	}
	return kind, nil
}

func (s *server) today() civil.Date {
	return civil.DateOf(s.now())
}

// isAllOption reports whether v is the "All" filter choice in either locale,
// which means no filtering.
func isAllOption(v string) bool {
	for _, l := range []core.Locale{core.EN, core.CN} {
		if strings.EqualFold(v, i18n.Translate("all", l)) {
			return true
		}
	}
	return false
}
