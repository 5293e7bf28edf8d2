package i18n

import (
	"strings"

	"ledgerpro/internal/core"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// categoryDisplay maps the seed category names onto decorated English labels.
var categoryDisplay = map[string]string{
	"餐饮": "🍔 Food",
	"交通": "🚗 Transport",
	"购物": "🛍️ Shopping",
	"居住": "🏠 Housing",
	"工资": "💰 Salary",
	"娱乐": "🎮 Fun",
	"医疗": "💊 Medical",
	"其他": "📦 Others",
}

var categoryCanonical = func() map[string]string {
	rev := make(map[string]string, len(categoryDisplay))
	for k, v := range categoryDisplay {
		rev[v] = k
	}
	return rev
}()

// DisplayCategory returns the decorated label in EN and the canonical name in CN.
// Names outside the seed set come back unchanged in both locales.
func DisplayCategory(name string, locale core.Locale) string {
	if locale == core.EN {
		if display, ok := categoryDisplay[name]; ok {
			return display
		}
	}
	return name
}

// CanonicalCategory reverses DisplayCategory for a decorated EN label.
func CanonicalCategory(display string) string {
	if name, ok := categoryCanonical[display]; ok {
		return name
	}
	return display
}

// DirectionLabel is the display literal of a direction in locale.
func DirectionLabel(d core.Direction, locale core.Locale) string {
	return Translate(string(d), locale)
}

// DisplayRecord is a record as shown to the user: Type and Category are
// display strings for one locale.
type DisplayRecord struct {
	ID       int64           `json:"id"`
	LedgerID int64           `json:"ledger_id"`
	Date     civil.Date      `json:"date"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

// Present projects stored records into locale display form.
func Present(records []core.Record, locale core.Locale) []DisplayRecord {
	out := make([]DisplayRecord, len(records))
	for i, r := range records {
		out[i] = DisplayRecord{
			ID:       r.ID,
			LedgerID: r.LedgerID,
			Date:     r.Date,
			Type:     DirectionLabel(r.Direction, locale),
			Category: DisplayCategory(r.Category, locale),
			Amount:   r.Amount,
			Note:     r.Note,
		}
	}
	return out
}

// TranslateRecords rewrites Type and Category of each row into locale.
// Either locale's literal is accepted for Type; Category goes through the
// forward map for EN and the reverse map for CN, unmapped names untouched.
// Applying it twice with the same locale is the same as applying it once.
func TranslateRecords(rows []DisplayRecord, locale core.Locale) []DisplayRecord {
	out := make([]DisplayRecord, len(rows))
	for i, row := range rows {
		if d, err := core.ParseDirection(row.Type); err == nil {
			row.Type = DirectionLabel(d, locale)
		}
		if locale == core.EN {
			row.Category = DisplayCategory(row.Category, core.EN)
		} else {
			row.Category = CanonicalCategory(row.Category)
		}
		out[i] = row
	}
	return out
}

// FormatAmount renders an amount with the fixed currency prefix, two decimals
// and English digit grouping, e.g. "RM 1,234.50" or "RM -120.50".
func FormatAmount(d decimal.Decimal) string {
	abs := d.Abs().Round(2)
	_, frac, _ := strings.Cut(abs.StringFixed(2), ".")
	sign := ""
	if d.IsNegative() && !abs.IsZero() {
		sign = "-"
	}
	// A Printer is not safe for concurrent use.
	p := message.NewPrinter(language.English)
	return p.Sprintf("%s %s%d.%s", core.Currency, sign, abs.IntPart(), frac)
}
