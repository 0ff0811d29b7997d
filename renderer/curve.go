package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/optionpl/curve"
	"github.com/etnz/optionpl/pricing"
	md "github.com/nao1215/markdown"
)

// Curve renders the P/L curves of an analysis side by side, one row per
// sampled price.
func Curve(title string, a curve.Analysis, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1f("P/L Curves for %s", title)
	doc.PlainTextf("As of %s, volatility %.1f%%, rate %.2f%%.", a.Market.AsOf, a.Market.Volatility*100, a.Market.Rate*100).LF()

	if len(a.Expiration) == 0 {
		doc.PlainText("Empty price range.")
		return doc.String()
	}

	header := []string{"Price", "Theoretical", "At Expiration"}
	if a.Benchmark != nil {
		header = append(header, "Benchmark")
	}
	rows := make([][]string, 0, len(a.Expiration))
	for i, p := range a.Expiration {
		row := []string{price(p.Price), opts.signedAmount(a.Theoretical[i].ProfitLoss), opts.signedAmount(p.ProfitLoss)}
		if a.Benchmark != nil {
			row = append(row, opts.signedAmount(a.Benchmark[i].ProfitLoss))
		}
		rows = append(rows, row)
	}
	doc.Table(md.TableSet{Header: header, Rows: rows, Alignment: alignment(0, len(header))})

	doc.BulletList(
		"Breakevens at expiration: " + prices(a.Breakevens),
	)
	if a.Benchmark != nil {
		doc.LF().BulletList("Crossovers with the benchmark: " + prices(a.Crossovers))
	}
	return doc.String()
}

func prices(ps []float64) string {
	if len(ps) == 0 {
		return "none"
	}
	s := make([]string, len(ps))
	for i, p := range ps {
		s[i] = price(p)
	}
	return strings.Join(s, ", ")
}

// Quote renders a single option valuation.
func Quote(in pricing.Inputs, perShare float64, opts Options) string {
	kind := "Put"
	if in.Call {
		kind = "Call"
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1f("%s %s", kind, price(in.Strike)).LF()
	doc.Table(md.TableSet{
		Header: []string{"Input", "Value"},
		Rows: [][]string{
			{"Underlying", price(in.Underlying)},
			{"Years to expiration", fmt.Sprintf("%.4f", in.Years)},
			{"Volatility", fmt.Sprintf("%.2f%%", in.Volatility*100)},
			{"Rate", fmt.Sprintf("%.2f%%", in.Rate*100)},
			{"Price per share", opts.amount(perShare)},
			{"Price per contract", opts.amount(perShare * pricing.Multiplier)},
		},
		Alignment: alignment(1, 2),
	})
	return doc.String()
}
