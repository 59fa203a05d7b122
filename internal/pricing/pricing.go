// Package pricing holds the price arithmetic of the storefront. Every function
// accepts loosely typed user input, treats anything missing or invalid as zero
// and never returns NaN.
package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var cm2PerM2 = decimal.NewFromInt(10000)

// ParseAmount converts a user-entered number (number, numeric string, nil...) to a
// non-negative decimal. Invalid, NaN, infinite and negative input yields zero.
func ParseAmount(v interface{}) decimal.Decimal {
	if s, ok := v.(string); ok {
		v = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// ParseCount converts user input to a non-negative whole count, truncating fractions.
func ParseCount(v interface{}) int64 {
	d := ParseAmount(v)
	return d.Truncate(0).IntPart()
}

// Money rounds d to cents.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Float converts a rounded amount to float64 for storage and JSON.
func Float(d decimal.Decimal) float64 {
	return Money(d).InexactFloat64()
}

// FromFloat converts a stored price, mapping invalid values to zero.
func FromFloat(f float64) decimal.Decimal {
	return ParseAmount(f)
}

// PerUnit returns price × count.
func PerUnit(price decimal.Decimal, count interface{}) decimal.Decimal {
	return Money(price.Mul(decimal.NewFromInt(ParseCount(count))))
}

// Piece is one measured item (a carpet, a floor, a curtain), dimensions in centimeters.
type Piece struct {
	Length interface{} `json:"length"`
	Width  interface{} `json:"width"`
}

// Valid reports whether both dimensions are positive.
func (p Piece) Valid() bool {
	return ParseAmount(p.Length).IsPositive() && ParseAmount(p.Width).IsPositive()
}

// Area returns the surface in m² of a piece measured in centimeters.
func Area(length, width interface{}) decimal.Decimal {
	return ParseAmount(length).Mul(ParseAmount(width)).Div(cm2PerM2)
}

// PieceCost is the price of one piece at pricePerM2.
func PieceCost(pricePerM2 decimal.Decimal, p Piece) decimal.Decimal {
	return pricePerM2.Mul(Area(p.Length, p.Width))
}

// AreaTotal sums the cost of every piece, rounded to cents.
func AreaTotal(pricePerM2 decimal.Decimal, pieces []Piece) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pieces {
		total = total.Add(PieceCost(pricePerM2, p))
	}
	return Money(total)
}

// TotalArea sums the area of every piece.
func TotalArea(pieces []Piece) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pieces {
		total = total.Add(Area(p.Length, p.Width))
	}
	return total
}

// PiecesValid reports whether there is at least one piece and every piece is valid.
// One invalid piece invalidates the whole set.
func PiecesValid(pieces []Piece) bool {
	if len(pieces) == 0 {
		return false
	}
	for _, p := range pieces {
		if !p.Valid() {
			return false
		}
	}
	return true
}

// SecurityDay returns the fixed day rate times the number of days (at least one).
func SecurityDay(dayRate decimal.Decimal, days interface{}) decimal.Decimal {
	n := ParseCount(days)
	if n < 1 {
		n = 1
	}
	return Money(dayRate.Mul(decimal.NewFromInt(n)))
}

// CeilHours rounds a duration in hours up to the next whole hour.
func CeilHours(hours decimal.Decimal) int64 {
	if !hours.IsPositive() {
		return 0
	}
	return hours.Ceil().IntPart()
}

// SecurityHourly returns hourlyRate × ceil(hours).
func SecurityHourly(hourlyRate decimal.Decimal, hours interface{}) decimal.Decimal {
	return Money(hourlyRate.Mul(decimal.NewFromInt(CeilHours(ParseAmount(hours)))))
}

// HoursBetween returns the hours from start to end, both "HH:MM". An end before
// the start is taken to be on the next day. Equal or unparseable times yield zero.
func HoursBetween(start, end string) decimal.Decimal {
	s, err1 := time.Parse("15:04", strings.TrimSpace(start))
	e, err2 := time.Parse("15:04", strings.TrimSpace(end))
	if err1 != nil || err2 != nil {
		return decimal.Zero
	}
	d := e.Sub(s)
	if d == 0 {
		return decimal.Zero
	}
	if d < 0 {
		d += 24 * time.Hour
	}
	return decimal.NewFromInt(int64(d / time.Minute)).Div(decimal.NewFromInt(60))
}

// OptionLine is a selected sub-option and its quantity.
type OptionLine struct {
	Price    decimal.Decimal
	Quantity interface{}
}

// Options sums price × quantity over the selected lines.
func Options(lines []OptionLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(ParseCount(l.Quantity))))
	}
	return Money(total)
}

// Shipping is free when the subtotal is above threshold (and for an empty cart),
// otherwise fee.
func Shipping(subtotal, threshold, fee decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || subtotal.GreaterThan(threshold) {
		return decimal.Zero
	}
	return Money(fee)
}

// Discount returns percent% of subtotal, rounded to cents. Percent is clamped to [0, 100].
func Discount(subtotal, percent decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if !percent.IsPositive() {
		return decimal.Zero
	}
	if percent.GreaterThan(hundred) {
		percent = hundred
	}
	return Money(subtotal.Mul(percent).Div(hundred))
}
