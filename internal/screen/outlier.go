package screen

import (
	"math"

	"github.com/sheeranchan/nifty-backend/internal/apperr"
	"github.com/sheeranchan/nifty-backend/internal/models"
)

// Window is the number of most recent matching rows the deviation screen
// considers once enough history exists.
const Window = 50

// RejectMessage is surfaced verbatim when a screened value falls outside
// the accepted band.
const RejectMessage = "Price not within 1 standard deviation of prior 50 values"

type fieldAccessor struct {
	get func(*models.PriceRecord) *float64
	set func(*models.PriceRecord, *float64)
}

// Open, Close, High, Low: the only screened fields.
var priceFields = []fieldAccessor{
	{func(r *models.PriceRecord) *float64 { return r.Open }, func(r *models.PriceRecord, v *float64) { r.Open = v }},
	{func(r *models.PriceRecord) *float64 { return r.Close }, func(r *models.PriceRecord, v *float64) { r.Close = v }},
	{func(r *models.PriceRecord) *float64 { return r.High }, func(r *models.PriceRecord, v *float64) { r.High = v }},
	{func(r *models.PriceRecord) *float64 { return r.Low }, func(r *models.PriceRecord, v *float64) { r.Low = v }},
}

// Apply screens each present price field of rec against the table and
// mutates rec in place. The matching history for a field is rows with the
// same symbol whose value for that field equals the incoming value exactly
// (a literal equality match, kept from the historical behavior). With more
// than Window matches the field must pass the deviation check over the
// last Window values; passing values are suppressed to nil before storage,
// failing values abort the whole request.
func Apply(table []models.PriceRecord, rec *models.PriceRecord) error {
	for _, f := range priceFields {
		v := f.get(rec)
		if v == nil {
			continue
		}
		history := matching(table, rec.Symbol, f, *v)
		if len(history) <= Window {
			continue
		}
		if !withinBand(history[len(history)-Window:], *v) {
			return apperr.BadRequest(RejectMessage)
		}
		f.set(rec, nil) // accepted but suppressed
	}
	return nil
}

func matching(table []models.PriceRecord, symbol string, f fieldAccessor, v float64) []float64 {
	var out []float64
	for i := range table {
		if table[i].Symbol != symbol {
			continue
		}
		if cur := f.get(&table[i]); cur != nil && *cur == v {
			out = append(out, *cur)
		}
	}
	return out
}

// withinBand reports whether the mean of values lies inside one sample
// standard deviation of v.
func withinBand(values []float64, v float64) bool {
	m := mean(values)
	sd := stdev(values, m)
	return v-sd <= m && m <= v+sd
}

func mean(values []float64) float64 {
	var sum float64
	for _, x := range values {
		sum += x
	}
	return sum / float64(len(values))
}

// stdev is the sample standard deviation (n-1 denominator).
func stdev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, x := range values {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
