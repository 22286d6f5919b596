// Package coerce converts loosely formatted scalar values into canonical
// decimals, ISO dates and ISO date-times. Nothing here returns an error:
// unusable input becomes an absent value.
package coerce

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/nfse-ingest/constants"
)

// dateLayouts are tried in order; the first one that parses wins.
var dateLayouts = []string{
	"2/1/2006",
	"2006-1-2",
	"2-1-2006",
	"2006/1/2",
}

const dateTimeLayout = "2/1/2006 15:04"

// Coercer wraps the parse functions with warning logs for rejected input.
type Coercer struct {
	logger *slog.Logger
}

// New returns a Coercer logging to logger, or to slog.Default when nil.
func New(logger *slog.Logger) *Coercer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coercer{logger: logger}
}

// Decimal coerces v into a decimal. Empty input is absent without a warning.
func (c *Coercer) Decimal(v any) decimal.NullDecimal {
	d, err := ParseDecimal(v)
	if err != nil {
		c.logger.Warn("invalid decimal value", "value", v, "error", err)
	}
	return d
}

// Rate coerces a percentage such as "5%" or "2,5 %" into a decimal.
func (c *Coercer) Rate(v any) decimal.NullDecimal {
	if s, ok := v.(string); ok {
		v = strings.ReplaceAll(s, "%", "")
	}
	return c.Decimal(v)
}

// Date coerces v into an ISO date string.
func (c *Coercer) Date(v any) *string {
	s, err := ParseDate(v)
	if err != nil {
		c.logger.Warn("unrecognized date format", "value", v)
	}
	return s
}

// DateTime coerces v into an ISO date-time string.
func (c *Coercer) DateTime(v any) *string {
	s, err := ParseDateTime(v)
	if err != nil {
		c.logger.Warn("invalid date-time format", "value", v)
	}
	return s
}

// ParseDecimal returns an invalid NullDecimal for nil or blank input, and an
// error alongside it when the input is present but not numeric.
func ParseDecimal(v any) (decimal.NullDecimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.NullDecimal{}, nil
	case decimal.Decimal:
		return decimal.NewNullDecimal(n), nil
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(n))), nil
	case int32:
		return decimal.NewNullDecimal(decimal.NewFromInt32(n)), nil
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(n)), nil
	case float32:
		return decimal.NewNullDecimal(decimal.NewFromFloat32(n)), nil
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(n)), nil
	case json.Number:
		return parseDecimalText(n.String())
	case string:
		return parseDecimalText(n)
	default:
		return decimal.NullDecimal{}, fmt.Errorf("unsupported type %T", v)
	}
}

func parseDecimalText(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	if n := strings.Count(s, "."); n > 1 {
		s = strings.Replace(s, ".", "", n-1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// ParseDate tries each accepted layout and returns the date as YYYY-MM-DD.
func ParseDate(v any) (*string, error) {
	s, ok := text(v)
	if !ok {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format(constants.ISODate)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

// ParseDateTime accepts "DD/MM/YYYY HH:MM" and returns "YYYY-MM-DD HH:MM:SS".
func ParseDateTime(v any) (*string, error) {
	s, ok := text(v)
	if !ok {
		return nil, nil
	}
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return nil, err
	}
	out := t.Format(constants.ISODateTime)
	return &out, nil
}

// text renders scalar input as a string; false means absent.
func text(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, s != ""
	case json.Number:
		return s.String(), s != ""
	case fmt.Stringer:
		out := s.String()
		return out, out != ""
	default:
		out := fmt.Sprint(v)
		return out, out != ""
	}
}
