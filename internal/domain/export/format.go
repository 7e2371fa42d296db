package export

import (
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"parcelhub/internal/core/types"
)

// Kind is the formatting class of a column, derived from its header.
type Kind int

const (
	KindText Kind = iota
	KindMoney
	KindDate
	KindPercent
)

// DateLayout is the output format for date columns.
const DateLayout = "2006-01-02"

var (
	moneyKeywords = []string{
		"amount", "price", "cost", "fee", "charge", "balance",
		"total", "revenue", "payment", "owed", "collected", "outstanding",
	}
	dateKeywords    = []string{"date", "created", "updated", "completed", "started", "time"}
	percentKeywords = []string{"rate", "percentage", "percent", "efficiency", "completion"}
)

// inputDateLayouts are tried in order when a date column holds text.
var inputDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	DateLayout,
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Classify returns the column kind for header. Keyword sets are checked in the
// order money, date, percent; the first one with a substring hit wins, so
// "Completion Date" is a date column and "Payment Date" a money column.
func Classify(header string) Kind {
	h := strings.ToLower(header)
	switch {
	case containsAny(h, moneyKeywords):
		return KindMoney
	case containsAny(h, dateKeywords):
		return KindDate
	case containsAny(h, percentKeywords):
		return KindPercent
	default:
		return KindText
	}
}

// FormatValue converts a resolved value for output under header.
// Empty values become "". Money columns yield a decimal (0 when not numeric),
// date columns a YYYY-MM-DD string (the raw value when unparseable), percent
// columns the value divided by 100 (0 when not numeric). Other columns pass
// the value through.
func FormatValue(value any, header string) any {
	value = indirect(value)
	if isEmpty(value) {
		return ""
	}

	switch Classify(header) {
	case KindMoney:
		if m, ok := types.ToMoney(value); ok {
			return m
		}
		return types.Zero()
	case KindDate:
		if t, ok := toTime(value); ok {
			return t.Format(DateLayout)
		}
		return value
	case KindPercent:
		if n, ok := types.ToMoney(value); ok {
			return n.Div(decimal.NewFromInt(100))
		}
		return types.Zero()
	default:
		return value
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// indirect unwraps pointers so nullable columns (*string, *time.Time) format
// like their values. A nil pointer becomes nil.
func indirect(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []byte:
		return len(x) == 0
	}
	return false
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range inputDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	case []byte:
		return toTime(string(x))
	}
	return time.Time{}, false
}
