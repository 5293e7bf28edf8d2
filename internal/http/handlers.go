package http

import (
	"mime"
	"net/http"
	"strings"
	"time"

	"ledgerpro/internal/calendar"
	"ledgerpro/internal/core"
	"ledgerpro/internal/report"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
)

func (s *server) listLedgers(c *gin.Context) {
	ledgers, err := s.svc.ListLedgers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgers)
}

func (s *server) addLedger(c *gin.Context) {
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("%v", err))
		return
	}
	out, err := s.svc.AddLedger(c.Request.Context(), sess, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOutcome(c, http.StatusCreated, out)
}

func (s *server) deleteLedger(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := s.svc.DeleteLedger(c.Request.Context(), sess, id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOutcome(c, http.StatusOK, out)
}

func (s *server) listCategories(c *gin.Context) {
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return
	}
	cats, err := s.svc.ListCategories(c.Request.Context(), sess)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (s *server) addCategory(c *gin.Context) {
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("%v", err))
		return
	}
	out, err := s.svc.AddCategory(c.Request.Context(), sess, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOutcome(c, http.StatusCreated, out)
}

func (s *server) deleteCategory(c *gin.Context) {
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := s.svc.DeleteCategory(c.Request.Context(), sess, c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOutcome(c, http.StatusOK, out)
}

// listRecords returns every record of the ledger, or those between start
// and end inclusive when both are given.
func (s *server) listRecords(c *gin.Context) {
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return
	}
	start, err := queryDate(c, "start", civil.Date{})
	if err != nil {
		writeError(c, err)
		return
	}
	end, err := queryDate(c, "end", civil.Date{})
	if err != nil {
		writeError(c, err)
		return
	}

	var recs []core.Record
	switch {
	case start.IsValid() && end.IsValid():
		recs, err = s.svc.ListRecordsInRange(c.Request.Context(), sess, start, end)
	case start.IsValid() || end.IsValid():
		err = badRequest("start and end must be given together")
	default:
		recs, err = s.svc.ListRecords(c.Request.Context(), sess)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (s *server) saveRecord(c *gin.Context) {
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest("%v", err))
		return
	}
	id, out, err := s.svc.SaveRecord(c.Request.Context(), sess, req.record())
	if err != nil {
		writeError(c, err)
		return
	}
	if !out.OK {
		writeOutcome(c, http.StatusCreated, out)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "ok": true, "message": out.Message})
}

func (s *server) deleteRecord(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := s.svc.DeleteRecord(c.Request.Context(), sess, id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOutcome(c, http.StatusOK, out)
}

// dashboard accepts repeated category parameters and an optional type.
func (s *server) dashboard(c *gin.Context) {
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var filter report.Criteria
	for _, name := range c.QueryArray("category") {
		if name = strings.TrimSpace(name); name != "" && !isAllOption(name) {
			filter.Categories = append(filter.Categories, name)
		}
	}
	if t := strings.TrimSpace(c.Query("type")); t != "" && !isAllOption(t) {
		dir, err := core.ParseDirection(t)
		if err != nil {
			writeError(c, badRequest("invalid type %q", t))
			return
		}
		filter.Direction = dir
	}
	dash, err := s.svc.Dashboard(c.Request.Context(), sess, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// calendar defaults to the current month. day selects the week in week mode.
func (s *server) calendar(c *gin.Context) {
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return
	}
	today := s.today()
	year, err := queryInt(c, "year", today.Year)
	if err != nil {
		writeError(c, err)
		return
	}
	month, err := queryInt(c, "month", int(today.Month))
	if err != nil {
		writeError(c, err)
		return
	}
	day, err := queryInt(c, "day", 0)
	if err != nil {
		writeError(c, err)
		return
	}
	var selected civil.Date
	if day > 0 {
		selected = civil.Date{Year: year, Month: time.Month(month), Day: day}
	}

	grid, err := s.svc.Calendar(c.Request.Context(), sess, year, time.Month(month), calendar.ParseMode(c.Query("mode")), selected)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grid": grid, "total": grid.Total()})
}

func (s *server) report(c *gin.Context) {
	sess, kind, ref, ok := s.reportParams(c)
	if !ok {
		return
	}
	res, err := s.svc.Report(c.Request.Context(), sess, kind, ref)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *server) exportReport(c *gin.Context) {
	sess, kind, ref, ok := s.reportParams(c)
	if !ok {
		return
	}
	exp, err := s.svc.ExportReport(c.Request.Context(), sess, kind, ref)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.FileName}))
	c.Data(http.StatusOK, exp.ContentType, exp.Data)
}

// reportParams reads the session, the kind path segment and the date
// reference (today when absent). It writes the error response itself.
func (s *server) reportParams(c *gin.Context) (core.Session, report.Kind, civil.Date, bool) {
	sess, err := s.session(c)
	if err != nil {
		writeError(c, err)
		return sess, "", civil.Date{}, false
	}
	kind, err := reportKind(c)
	if err != nil {
		writeError(c, err)
		return sess, "", civil.Date{}, false
	}
	ref, err := queryDate(c, "date", s.today())
	if err != nil {
		writeError(c, err)
		return sess, "", civil.Date{}, false
	}
	return sess, kind, ref, true
}
