// Package renderer turns replayed ledgers and curves into markdown reports.
package renderer

import (
	"math"
	"strconv"

	"github.com/etnz/optionpl"
	md "github.com/nao1215/markdown"
)

// Options controls how amounts are printed.
type Options struct {
	Currency string // ISO code used to format amounts, USD when empty.
}

func (o Options) currency() string {
	if o.Currency == "" {
		return "USD"
	}
	return o.Currency
}

func (o Options) money(m optionpl.Money) string       { return m.Format(o.currency()) }
func (o Options) signed(m optionpl.Money) string      { return m.SignedFormat(o.currency()) }
func (o Options) quantity(q optionpl.Quantity) string { return q.String() }

// amount formats a computed value. Values out of the float range, which no
// decimal can hold, print as is.
func (o Options) amount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return optionpl.M(v).Format(o.currency())
}

func (o Options) signedAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return optionpl.M(v).SignedFormat(o.currency())
}

// price prints an underlying price with two decimals.
func price(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// alignment returns a table alignment with the first left columns left
// aligned and the others right aligned.
func alignment(left, total int) []md.TableAlignment {
	a := make([]md.TableAlignment, total)
	for i := range a {
		if i < left {
			a[i] = md.AlignLeft
		} else {
			a[i] = md.AlignRight
		}
	}
	return a
}
